package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// Environment overrides for the default locations.
const (
	ConfigPathEnv = "GITLITE_CONFIG_PATH"
	HomeEnv       = "GITLITE_HOME"
)

// GetDefaults returns the default config_path, base_dir and log_dir.
//
// GITLITE_CONFIG_PATH and GITLITE_HOME win when set. Otherwise the XDG
// config and data homes are used, falling back to ~/.config and
// ~/.local/share.
func GetDefaults() (map[string]string, error) {
	configPath, err := location(ConfigPathEnv, "XDG_CONFIG_HOME", []string{".config"}, "gitlite.toml")
	if err != nil {
		return nil, err
	}
	baseDir, err := location(HomeEnv, "XDG_DATA_HOME", []string{".local", "share"}, "gitlite")
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
	}, nil
}

func location(override, xdg string, homeRel []string, name string) (string, error) {
	if path := os.Getenv(override); path != "" {
		return path, nil
	}
	if dir := os.Getenv(xdg); filepath.IsAbs(dir) {
		return filepath.Join(dir, name), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(append(append([]string{home}, homeRel...), name)...), nil
}
