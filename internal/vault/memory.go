package vault

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"gitlite/internal/vcs"
)

// MemoryVault keeps content in memory. It is safe for concurrent use.
type MemoryVault struct {
	name    string
	content map[string][]byte
	mu      sync.RWMutex
}

// NewMemoryVault creates an empty in-memory vault with the given name.
func NewMemoryVault(name string) *MemoryVault {
	return &MemoryVault{
		name:    name,
		content: make(map[string][]byte),
	}
}

func (m *MemoryVault) PutContent(ctx context.Context, checksum string, r io.Reader, size int64) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read content: %w", err)
	}
	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.content[checksum] = data
	return nil
}

func (m *MemoryVault) GetContent(ctx context.Context, checksum string, w io.Writer) error {
	m.mu.RLock()
	data, ok := m.content[checksum]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrContentNotFound, checksum)
	}

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write content: %w", err)
	}
	return nil
}

// Len returns the number of stored blobs.
func (m *MemoryVault) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.content)
}

// ValidateSetup always succeeds for in-memory vault.
func (m *MemoryVault) ValidateSetup(ctx context.Context) error {
	return nil
}

var _ vcs.Vault = (*MemoryVault)(nil)
