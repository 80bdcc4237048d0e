package database

import (
	"fmt"
	"os"
	"path/filepath"

	"gitlite/internal/config"
)

// FileName is the name of the SQLite file inside the configured data directory.
const FileName = "gitlite.db"

// NewDatabaseFromConfig opens the database selected by cfg.Type with its schema migrated.
func NewDatabaseFromConfig(cfg config.DatabaseConfig) (*SQLiteDatabase, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		return NewSQLiteDatabase(filepath.Join(cfg.DataDir, FileName))
	case "memory":
		return NewSQLiteDatabase(":memory:")
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}
