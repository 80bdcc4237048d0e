package vault

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"gitlite/internal/config"
	"gitlite/internal/vcs"
)

// S3API is the subset of the S3 client the vault uses.
type S3API interface {
	manager.UploadAPIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// S3Vault stores content as objects named <prefix>content/<checksum>.
type S3Vault struct {
	name     string
	bucket   string
	prefix   string
	client   S3API
	uploader *manager.Uploader
}

// NewS3Vault creates a vault on top of an existing client.
func NewS3Vault(name, bucket, prefix string, client S3API) *S3Vault {
	return &S3Vault{
		name:     name,
		bucket:   bucket,
		prefix:   prefix,
		client:   client,
		uploader: manager.NewUploader(client),
	}
}

// NewS3VaultFromConfig loads AWS configuration from the environment, with the
// region, endpoint and static credentials from cfg taking precedence.
func NewS3VaultFromConfig(ctx context.Context, cfg config.VaultConfig) (*S3Vault, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("s3 vault requires s3_bucket to be set")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.S3Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.S3Region))
	}
	if cfg.S3AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3Vault(cfg.Name, cfg.S3Bucket, cfg.S3Prefix, client), nil
}

func (v *S3Vault) key(checksum string) string {
	return path.Join(v.prefix, "content", checksum)
}

func (v *S3Vault) PutContent(ctx context.Context, checksum string, r io.Reader, size int64) error {
	counted := &countingReader{r: r}
	_, err := v.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(v.bucket),
		Key:           aws.String(v.key(checksum)),
		Body:          counted,
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return fmt.Errorf("uploading %s to s3://%s: %w", checksum, v.bucket, err)
	}
	if counted.n != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, counted.n)
	}
	return nil
}

func (v *S3Vault) GetContent(ctx context.Context, checksum string, w io.Writer) error {
	out, err := v.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(v.bucket),
		Key:    aws.String(v.key(checksum)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return fmt.Errorf("%w: %s", ErrContentNotFound, checksum)
		}
		return fmt.Errorf("downloading %s from s3://%s: %w", checksum, v.bucket, err)
	}
	defer out.Body.Close()

	if _, err := io.Copy(w, out.Body); err != nil {
		return fmt.Errorf("reading %s: %w", checksum, err)
	}
	return nil
}

// ValidateSetup checks that the bucket exists and is reachable with the configured credentials.
func (v *S3Vault) ValidateSetup(ctx context.Context) error {
	if _, err := v.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(v.bucket)}); err != nil {
		return fmt.Errorf("bucket %s not accessible: %w", v.bucket, err)
	}
	return nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

var _ vcs.Vault = (*S3Vault)(nil)
