package vault

import (
	"bytes"
	"context"
	"fmt"
	"io"

	lru "github.com/hashicorp/golang-lru/v2"

	"gitlite/internal/vcs"
)

// MaxCachedBlobSize is the largest blob kept in a CachedVault.
const MaxCachedBlobSize = 1 << 20

// CachedVault keeps recently read blobs in memory. Blobs are immutable for a
// given checksum, so entries never need invalidation.
type CachedVault struct {
	vcs.Vault
	cache *lru.Cache[string, []byte]
}

// NewCachedVault wraps inner with an LRU of the given number of entries.
func NewCachedVault(inner vcs.Vault, entries int) (*CachedVault, error) {
	cache, err := lru.New[string, []byte](entries)
	if err != nil {
		return nil, fmt.Errorf("creating content cache: %w", err)
	}
	return &CachedVault{Vault: inner, cache: cache}, nil
}

func (c *CachedVault) GetContent(ctx context.Context, checksum string, w io.Writer) error {
	if data, ok := c.cache.Get(checksum); ok {
		_, err := w.Write(data)
		return err
	}

	var buf bytes.Buffer
	if err := c.Vault.GetContent(ctx, checksum, &buf); err != nil {
		return err
	}
	data := buf.Bytes()
	if len(data) <= MaxCachedBlobSize {
		c.cache.Add(checksum, data)
	}
	_, err := w.Write(data)
	return err
}

// Len returns the number of cached blobs.
func (c *CachedVault) Len() int {
	return c.cache.Len()
}

var _ vcs.Vault = (*CachedVault)(nil)
