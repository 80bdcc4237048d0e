package vcs

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"gitlite/internal/diff"
	"gitlite/internal/model"
)

// DefaultBranchName names the branch created with every repository unless configured otherwise.
const DefaultBranchName = "main"

// Service implements the version-control operations on top of a Database
// for metadata and a Vault for content. It holds no state between calls
// other than its dependencies.
type Service struct {
	database      Database
	vault         Vault
	encryptor     Encryptor
	decryptor     DecryptionContext
	logger        Logger
	clock         Clock
	idgen         IDGenerator
	defaultBranch string
	author        string
	diffContext   int
}

// NewService creates a Service with the provided dependencies.
func NewService(database Database, vault Vault, logger Logger, clock Clock, idgen IDGenerator) *Service {
	return &Service{
		database:      database,
		vault:         vault,
		logger:        logger,
		clock:         clock,
		idgen:         idgen,
		defaultBranch: DefaultBranchName,
		author:        "gitlite",
		diffContext:   diff.DefaultContext,
	}
}

// SetEncryption enables encryption of content written to the vault.
// dec may be nil, in which case reading content fails until one is set.
func (s *Service) SetEncryption(enc Encryptor, dec DecryptionContext) {
	s.encryptor = enc
	s.decryptor = dec
}

// SetDefaultBranchName sets the name of the branch created with new repositories.
func (s *Service) SetDefaultBranchName(name string) {
	if name != "" {
		s.defaultBranch = name
	}
}

// SetAuthor sets the author recorded when no author is given, including
// versions written by merges.
func (s *Service) SetAuthor(author string) {
	if author != "" {
		s.author = author
	}
}

// SetDiffContext sets the number of context lines in unified diffs.
func (s *Service) SetDiffContext(n int) {
	if n >= 0 {
		s.diffContext = n
	}
}

func checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// storeContent uploads content to the vault unless it is already known and
// records it in the database. Returns the checksum.
func (s *Service) storeContent(ctx context.Context, data []byte) (string, error) {
	sum := checksum(data)
	exists, err := s.database.HasContent(ctx, sum)
	if err != nil {
		return "", fmt.Errorf("checking content: %w", err)
	}
	if exists {
		return sum, nil
	}

	var payload bytes.Buffer
	if s.encryptor != nil {
		if err := s.encryptor.Encrypt(bytes.NewReader(data), &payload); err != nil {
			return "", fmt.Errorf("encrypting content: %w", err)
		}
	} else {
		payload.Write(data)
	}

	size := int64(payload.Len())
	if err := s.vault.PutContent(ctx, sum, &payload, size); err != nil {
		return "", fmt.Errorf("uploading content %s: %w", sum, err)
	}
	if err := s.database.CreateContent(ctx, sum, int64(len(data))); err != nil {
		return "", fmt.Errorf("recording content: %w", err)
	}
	s.logger.Debug("content stored", "checksum", sum, "size", len(data))
	return sum, nil
}

// loadContent reads content from the vault, decrypting it when encryption is enabled.
func (s *Service) loadContent(ctx context.Context, sum string) ([]byte, error) {
	var stored bytes.Buffer
	if err := s.vault.GetContent(ctx, sum, &stored); err != nil {
		return nil, fmt.Errorf("reading content %s: %w", sum, err)
	}
	if s.encryptor == nil {
		return stored.Bytes(), nil
	}
	if s.decryptor == nil {
		return nil, errors.New("content is encrypted and no key has been unlocked")
	}

	var plain bytes.Buffer
	if err := s.decryptor.Decrypt(&stored, &plain); err != nil {
		return nil, fmt.Errorf("decrypting content %s: %w", sum, err)
	}
	return plain.Bytes(), nil
}

func (s *Service) repository(ctx context.Context, repoID string) (*model.Repository, error) {
	repo, err := s.database.FindRepository(ctx, repoID)
	if err != nil {
		return nil, fmt.Errorf("finding repository: %w", err)
	}
	if repo == nil {
		return nil, fmt.Errorf("%w: %s", ErrRepositoryNotFound, repoID)
	}
	return repo, nil
}

// branch resolves a branch by name. The empty name selects the default branch.
func (s *Service) branch(ctx context.Context, repoID, name string) (*model.Branch, error) {
	if _, err := s.repository(ctx, repoID); err != nil {
		return nil, err
	}

	var (
		b   *model.Branch
		err error
	)
	if name == "" {
		b, err = s.database.FindDefaultBranch(ctx, repoID)
	} else {
		b, err = s.database.FindBranch(ctx, repoID, name)
	}
	if err != nil {
		return nil, fmt.Errorf("finding branch: %w", err)
	}
	if b == nil {
		if name == "" {
			name = "(default)"
		}
		return nil, fmt.Errorf("%w: %s", ErrBranchNotFound, name)
	}
	return b, nil
}

// file resolves a file and checks that it belongs to the repository.
func (s *Service) file(ctx context.Context, repoID, fileID string) (*model.File, error) {
	f, err := s.database.FindFile(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("finding file: %w", err)
	}
	if f == nil || f.RepositoryID != repoID {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, fileID)
	}
	return f, nil
}
