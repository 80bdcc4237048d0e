package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for gitlite.
type Config struct {
	Author        string           `toml:"author"`
	BaseDir       string           `toml:"base_dir"`
	LogDir        string           `toml:"log_dir"`
	LogLevel      string           `toml:"log_level"`
	DefaultBranch string           `toml:"default_branch"`
	Database      DatabaseConfig   `toml:"database"`
	Vaults        []VaultConfig    `toml:"vaults"`
	Encryption    EncryptionConfig `toml:"encryption"`
	Cache         CacheConfig      `toml:"cache"`
	Server        ServerConfig     `toml:"server"`
	Diff          DiffConfig       `toml:"diff"`
	Filesystem    FilesystemConfig `toml:"filesystem"`
}

// DatabaseConfig selects the metadata database.
type DatabaseConfig struct {
	Type    string `toml:"type"`               // "sqlite" or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// VaultConfig represents configuration for a content vault.
// The Type field determines which other fields are relevant.
type VaultConfig struct {
	Type string `toml:"type"` // "memory", "s3", or "filesystem"
	Name string `toml:"name"`

	S3Bucket   string `toml:"s3_bucket,omitempty"`
	S3Prefix   string `toml:"s3_prefix,omitempty"`
	S3Region   string `toml:"s3_region,omitempty"`
	S3Endpoint string `toml:"s3_endpoint,omitempty"` // for S3-compatible stores

	// Static credentials. When empty the default AWS credential chain is used.
	S3AccessKeyID     string `toml:"s3_access_key_id,omitempty"`
	S3SecretAccessKey string `toml:"s3_secret_access_key,omitempty"`

	FSVaultRoot string `toml:"fs_vault_root,omitempty"`
}

// EncryptionConfig selects how content is encrypted in the vault.
type EncryptionConfig struct {
	Type           string `toml:"type"` // "none" (default), "age" or "test"
	PublicKeyPath  string `toml:"public_key_path,omitempty"`
	PrivateKeyPath string `toml:"private_key_path,omitempty"`
}

// CacheConfig sizes the in-process content cache. Zero disables it.
type CacheConfig struct {
	Entries int `toml:"entries"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Listen string `toml:"listen"`
	Token  string `toml:"token,omitempty"` // bearer token; empty disables authentication
}

// DiffConfig configures diff rendering.
type DiffConfig struct {
	ContextLines int `toml:"context_lines"`
}

// FilesystemConfig holds settings for uploads from the local filesystem.
type FilesystemConfig struct {
	Ignore []string `toml:"ignore"`
}

// NewConfig creates a Config rooted at baseDir with working defaults:
// a SQLite database and a filesystem vault under baseDir, no encryption.
func NewConfig(author, baseDir string) *Config {
	return &Config{
		Author:        author,
		BaseDir:       baseDir,
		LogDir:        filepath.Join(baseDir, "log"),
		LogLevel:      "info",
		DefaultBranch: "main",
		Database:      DatabaseConfig{Type: "sqlite", DataDir: filepath.Join(baseDir, "db")},
		Vaults: []VaultConfig{
			{Type: "filesystem", Name: "local", FSVaultRoot: filepath.Join(baseDir, "vault")},
		},
		Encryption: EncryptionConfig{
			Type:           "none",
			PublicKeyPath:  filepath.Join(baseDir, "keys", "gitlite.pub"),
			PrivateKeyPath: filepath.Join(baseDir, "keys", "gitlite.key"),
		},
		Cache:  CacheConfig{Entries: 256},
		Server: ServerConfig{Listen: "127.0.0.1:8080"},
		Diff:   DiffConfig{ContextLines: 3},
	}
}

// Validate checks the fields every component relies on.
func (c *Config) Validate() error {
	if c.Database.Type == "" {
		return fmt.Errorf("database.type is required")
	}
	if len(c.Vaults) == 0 {
		return fmt.Errorf("at least one vault must be configured")
	}
	if c.Diff.ContextLines < 0 {
		return fmt.Errorf("diff.context_lines must not be negative")
	}
	if c.Cache.Entries < 0 {
		return fmt.Errorf("cache.entries must not be negative")
	}
	return nil
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

func writeToFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init writes cfg to a new config file at path. It refuses to overwrite an existing file.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
