package vault

import (
	"context"
	"fmt"

	"gitlite/internal/config"
	"gitlite/internal/vcs"
)

// NewVaultFromConfig creates a single Vault based on the vault config type.
func NewVaultFromConfig(ctx context.Context, cfg config.VaultConfig) (vcs.Vault, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryVault(cfg.Name), nil
	case "s3":
		return NewS3VaultFromConfig(ctx, cfg)
	case "filesystem":
		if cfg.FSVaultRoot == "" {
			return nil, fmt.Errorf("filesystem vault requires fs_vault_root to be set")
		}
		return NewFileSystemVault(cfg.Name, cfg.FSVaultRoot)
	default:
		return nil, fmt.Errorf("unknown vault type: %s", cfg.Type)
	}
}

// NewFromConfig builds the content store used by the service: every
// configured vault instrumented with metrics, replicated through a
// MultiVault, behind an LRU cache when cacheEntries is positive.
func NewFromConfig(ctx context.Context, cfgs []config.VaultConfig, cacheEntries int) (vcs.Vault, error) {
	if len(cfgs) == 0 {
		return nil, fmt.Errorf("at least one vault must be configured")
	}

	vaults := make([]vcs.Vault, 0, len(cfgs))
	for i, cfg := range cfgs {
		v, err := NewVaultFromConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("vault %d (%s): %w", i, cfg.Name, err)
		}
		name := cfg.Name
		if name == "" {
			name = fmt.Sprintf("%s-%d", cfg.Type, i)
		}
		vaults = append(vaults, NewMetricsVault(name, v))
	}

	var store vcs.Vault = NewMultiVault(vaults...)
	if cacheEntries > 0 {
		cached, err := NewCachedVault(store, cacheEntries)
		if err != nil {
			return nil, err
		}
		store = cached
	}
	return store, nil
}
