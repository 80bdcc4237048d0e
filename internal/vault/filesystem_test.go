package vault

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileSystemVault_PutContent(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name     string
		checksum string
		data     string
		size     int64
		wantErr  bool
	}{
		{name: "stores content", checksum: "abc123", data: "hello world", size: 11},
		{name: "size mismatch", checksum: "def456", data: "hello", size: 10, wantErr: true},
		{name: "empty content", checksum: "e3b0c4", data: "", size: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			v, err := NewFileSystemVault("test", root)
			if err != nil {
				t.Fatalf("NewFileSystemVault() error = %v", err)
			}

			err = v.PutContent(ctx, tt.checksum, strings.NewReader(tt.data), tt.size)
			if (err != nil) != tt.wantErr {
				t.Fatalf("PutContent() error = %v, wantErr %v", err, tt.wantErr)
			}

			path := filepath.Join(root, "content", tt.checksum[:2], tt.checksum)
			_, statErr := os.Stat(path)
			if tt.wantErr && statErr == nil {
				t.Errorf("blob %s exists after failed put", path)
			}
			if !tt.wantErr && statErr != nil {
				t.Errorf("blob %s not written: %v", path, statErr)
			}
		})
	}
}

func TestFileSystemVault_RoundTrip(t *testing.T) {
	ctx := context.Background()
	v, err := NewFileSystemVault("test", t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}

	if err := v.PutContent(ctx, "abc123", strings.NewReader("first"), 5); err != nil {
		t.Fatalf("PutContent() error = %v", err)
	}
	// A second put of the same checksum keeps the original blob.
	if err := v.PutContent(ctx, "abc123", strings.NewReader("other"), 5); err != nil {
		t.Fatalf("second PutContent() error = %v", err)
	}

	var buf bytes.Buffer
	if err := v.GetContent(ctx, "abc123", &buf); err != nil {
		t.Fatalf("GetContent() error = %v", err)
	}
	if buf.String() != "first" {
		t.Errorf("GetContent() = %q, want %q", buf.String(), "first")
	}

	err = v.GetContent(ctx, "nothere", &buf)
	if !errors.Is(err, ErrContentNotFound) {
		t.Errorf("GetContent(missing) error = %v, want ErrContentNotFound", err)
	}
}

func TestFileSystemVault_ValidateSetup(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	v, err := NewFileSystemVault("test", root)
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}
	if err := v.ValidateSetup(ctx); err != nil {
		t.Errorf("ValidateSetup() error = %v", err)
	}

	if err := os.RemoveAll(filepath.Join(root, "content")); err != nil {
		t.Fatal(err)
	}
	if err := v.ValidateSetup(ctx); err == nil {
		t.Error("ValidateSetup() expected error after content directory removal")
	}
}
