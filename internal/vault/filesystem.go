package vault

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gitlite/internal/vcs"
)

// FileSystemVault stores each blob as a file named by its checksum, fanned
// out by the first two hex characters:
//
//	<root>/
//	  content/
//	    ab/
//	      abcdef...   (SHA-256 of the plaintext)
type FileSystemVault struct {
	name       string
	root       string
	contentDir string
}

// NewFileSystemVault creates a new filesystem vault rooted at the given path.
func NewFileSystemVault(name, root string) (*FileSystemVault, error) {
	contentDir := filepath.Join(root, "content")
	if err := os.MkdirAll(contentDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create content directory: %w", err)
	}

	return &FileSystemVault{
		name:       name,
		root:       root,
		contentDir: contentDir,
	}, nil
}

func (v *FileSystemVault) path(checksum string) string {
	if len(checksum) < 3 {
		return filepath.Join(v.contentDir, checksum)
	}
	return filepath.Join(v.contentDir, checksum[:2], checksum)
}

// PutContent stores content identified by its checksum. Existing blobs are
// kept; the reader is still drained and its size checked.
func (v *FileSystemVault) PutContent(ctx context.Context, checksum string, r io.Reader, size int64) error {
	dest := v.path(checksum)

	if _, err := os.Stat(dest); err == nil {
		written, err := io.Copy(io.Discard, r)
		if err != nil {
			return fmt.Errorf("failed to read content: %w", err)
		}
		if written != size {
			return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, written)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create shard directory: %w", err)
	}
	return writeFile(dest, r, size)
}

func (v *FileSystemVault) GetContent(ctx context.Context, checksum string, w io.Writer) error {
	f, err := os.Open(v.path(checksum))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrContentNotFound, checksum)
		}
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	return nil
}

// ValidateSetup verifies that the vault directories are accessible.
func (v *FileSystemVault) ValidateSetup(ctx context.Context) error {
	for _, dir := range []string{v.root, v.contentDir} {
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("vault directory not accessible: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("vault path is not a directory: %s", dir)
		}
	}
	return nil
}

// writeFile writes r to dest through a temp file in the same directory and a rename.
func writeFile(dest string, r io.Reader, expectedSize int64) error {
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if written != expectedSize {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", expectedSize, written)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	success = true
	return nil
}

var _ vcs.Vault = (*FileSystemVault)(nil)
