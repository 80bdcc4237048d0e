package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gitlite/internal/app"
	"gitlite/internal/config"
	"gitlite/internal/encryption"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		author, _ := cmd.Flags().GetString("author")
		if author == "" {
			author = os.Getenv("USER")
		}
		encType, _ := cmd.Flags().GetString("encryption")

		cfg := config.NewConfig(author, defaults["base_dir"])
		cfg.Encryption.Type = encType

		if encType == "age" {
			p, err := app.ReadPassphrase("New key passphrase: ", os.Stdin, os.Stderr)
			if err != nil {
				return err
			}
			err = encryption.NewAgeEncryptor(cfg.Encryption).Setup(p)
			switch {
			case errors.Is(err, encryption.ErrKeysExist):
				fmt.Printf("Keeping existing keys at %s\n", cfg.Encryption.PublicKeyPath)
			case err != nil:
				return fmt.Errorf("generating keys: %w", err)
			}
		}

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Author:   %s\n", cfg.Author)
		fmt.Printf("Base Dir: %s\n", cfg.BaseDir)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}
		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Author:         %s\n", cfg.Author)
		fmt.Printf("Base Dir:       %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:        %s\n", cfg.LogDir)
		fmt.Printf("Default Branch: %s\n", cfg.DefaultBranch)
		fmt.Printf("Database:       %s %s\n", cfg.Database.Type, cfg.Database.DataDir)
		fmt.Printf("Encryption:     %s\n", cfg.Encryption.Type)
		for _, v := range cfg.Vaults {
			fmt.Printf("Vault:          %s (%s)\n", v.Name, v.Type)
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configInitCmd.Flags().String("author", "", "Author recorded on new versions (default $USER)")
	configInitCmd.Flags().String("encryption", "none", "Content encryption: none or age")
}
