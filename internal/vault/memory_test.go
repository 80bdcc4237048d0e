package vault

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestMemoryVault_PutAndGetContent(t *testing.T) {
	ctx := context.Background()
	v := NewMemoryVault("test-vault")

	tests := []struct {
		name     string
		checksum string
		content  string
	}{
		{name: "text", checksum: "abc123", content: "hello world"},
		{name: "empty", checksum: "empty", content: ""},
		{name: "large", checksum: "large", content: strings.Repeat("x", 10000)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := v.PutContent(ctx, tt.checksum, strings.NewReader(tt.content), int64(len(tt.content))); err != nil {
				t.Fatalf("PutContent() error = %v", err)
			}
			var buf bytes.Buffer
			if err := v.GetContent(ctx, tt.checksum, &buf); err != nil {
				t.Fatalf("GetContent() error = %v", err)
			}
			if buf.String() != tt.content {
				t.Errorf("GetContent() = %q, want %q", buf.String(), tt.content)
			}
		})
	}
}

func TestMemoryVault_Errors(t *testing.T) {
	ctx := context.Background()
	v := NewMemoryVault("test-vault")

	t.Run("size mismatch", func(t *testing.T) {
		if err := v.PutContent(ctx, "x", strings.NewReader("abc"), 5); err == nil {
			t.Error("PutContent() expected size mismatch error")
		}
	})

	t.Run("missing content", func(t *testing.T) {
		var buf bytes.Buffer
		err := v.GetContent(ctx, "missing", &buf)
		if !errors.Is(err, ErrContentNotFound) {
			t.Errorf("GetContent() error = %v, want ErrContentNotFound", err)
		}
	})
}
