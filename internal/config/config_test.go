package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestManager_ReadWrite(t *testing.T) {
	original := NewConfig("ada", "/home/ada/.local/share/gitlite")
	original.Vaults = append(original.Vaults, VaultConfig{
		Type:     "s3",
		Name:     "offsite",
		S3Bucket: "gitlite-content",
		S3Prefix: "team/",
		S3Region: "eu-west-1",
	})
	original.Server.Token = "secret"

	var buf bytes.Buffer
	m := &Manager{}
	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.Author != "ada" {
		t.Errorf("Author = %q, want %q", got.Author, "ada")
	}
	if got.DefaultBranch != "main" {
		t.Errorf("DefaultBranch = %q, want %q", got.DefaultBranch, "main")
	}
	if len(got.Vaults) != 2 {
		t.Fatalf("len(Vaults) = %d, want 2", len(got.Vaults))
	}
	if got.Vaults[1].S3Bucket != "gitlite-content" {
		t.Errorf("Vaults[1].S3Bucket = %q, want %q", got.Vaults[1].S3Bucket, "gitlite-content")
	}
	if got.Server.Token != "secret" {
		t.Errorf("Server.Token = %q, want %q", got.Server.Token, "secret")
	}
	if got.Diff.ContextLines != 3 {
		t.Errorf("Diff.ContextLines = %d, want 3", got.Diff.ContextLines)
	}
}

func TestManager_ReadHandwritten(t *testing.T) {
	input := `
author = "grace"
log_level = "debug"

[database]
type = "memory"

[[vaults]]
type = "memory"
name = "scratch"

[encryption]
type = "test"

[diff]
context_lines = 1
`
	m := &Manager{}
	got, err := m.Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got.Database.Type != "memory" {
		t.Errorf("Database.Type = %q, want memory", got.Database.Type)
	}
	if got.Encryption.Type != "test" {
		t.Errorf("Encryption.Type = %q, want test", got.Encryption.Type)
	}
	if got.Diff.ContextLines != 1 {
		t.Errorf("Diff.ContextLines = %d, want 1", got.Diff.ContextLines)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("ada", "/data/gitlite")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"LogDir", cfg.LogDir, "/data/gitlite/log"},
		{"Database.DataDir", cfg.Database.DataDir, "/data/gitlite/db"},
		{"Vaults[0].FSVaultRoot", cfg.Vaults[0].FSVaultRoot, "/data/gitlite/vault"},
		{"Encryption.Type", cfg.Encryption.Type, "none"},
		{"Encryption.PrivateKeyPath", cfg.Encryption.PrivateKeyPath, "/data/gitlite/keys/gitlite.key"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing database type", func(c *Config) { c.Database.Type = "" }},
		{"no vaults", func(c *Config) { c.Vaults = nil }},
		{"negative context", func(c *Config) { c.Diff.ContextLines = -1 }},
		{"negative cache", func(c *Config) { c.Cache.Entries = -5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig("ada", "/data")
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() expected error")
			}
		})
	}
}

func TestInit(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "nested", "gitlite.toml")

		if err := Init(path, NewConfig("ada", dir)); err != nil {
			t.Fatalf("Init() error = %v", err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("config file not created: %v", err)
		}
	})

	t.Run("fails if file already exists", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "gitlite.toml")
		cfg := NewConfig("ada", dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}
		if err := Init(path, cfg); err == nil {
			t.Fatal("second Init() expected error")
		}
	})
}

func TestReadFromFile(t *testing.T) {
	t.Run("reads valid config", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "gitlite.toml")
		cfg := NewConfig("read-test", dir)
		cfg.Database = DatabaseConfig{Type: "memory"}

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.Author != "read-test" {
			t.Errorf("Author = %q, want %q", got.Author, "read-test")
		}
		if got.Database.Type != "memory" {
			t.Errorf("Database.Type = %q, want memory", got.Database.Type)
		}
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		if _, err := ReadFromFile("/nonexistent/path/gitlite.toml"); err == nil {
			t.Fatal("ReadFromFile() expected error for missing file")
		}
	})
}
