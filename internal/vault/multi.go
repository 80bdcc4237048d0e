package vault

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"

	"gitlite/internal/vcs"
)

// MultiVault writes every blob to all of its vaults and reads from the
// first one that has it.
type MultiVault struct {
	vaults []vcs.Vault
}

// NewMultiVault returns a vault over the given vaults in read-preference order.
func NewMultiVault(vaults ...vcs.Vault) *MultiVault {
	return &MultiVault{vaults: vaults}
}

func (m *MultiVault) PutContent(ctx context.Context, checksum string, r io.Reader, size int64) error {
	if len(m.vaults) == 1 {
		return m.vaults[0].PutContent(ctx, checksum, r, size)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read content: %w", err)
	}
	for i, v := range m.vaults {
		if err := v.PutContent(ctx, checksum, bytes.NewReader(data), size); err != nil {
			return fmt.Errorf("vault %d: %w", i, err)
		}
	}
	return nil
}

func (m *MultiVault) GetContent(ctx context.Context, checksum string, w io.Writer) error {
	var result *multierror.Error
	for i, v := range m.vaults {
		var buf bytes.Buffer
		err := v.GetContent(ctx, checksum, &buf)
		if err == nil {
			_, err = w.Write(buf.Bytes())
			return err
		}
		result = multierror.Append(result, fmt.Errorf("vault %d: %w", i, err))
	}
	if err := result.ErrorOrNil(); err != nil {
		// Report not-found only when no vault failed for another reason.
		for _, e := range result.Errors {
			if !errors.Is(e, ErrContentNotFound) {
				return err
			}
		}
		return fmt.Errorf("%w: %s", ErrContentNotFound, checksum)
	}
	return fmt.Errorf("no vaults configured")
}

func (m *MultiVault) ValidateSetup(ctx context.Context) error {
	var result *multierror.Error
	for i, v := range m.vaults {
		if err := v.ValidateSetup(ctx); err != nil {
			result = multierror.Append(result, fmt.Errorf("vault %d: %w", i, err))
		}
	}
	return result.ErrorOrNil()
}

var _ vcs.Vault = (*MultiVault)(nil)
