package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"gitlite/internal/app"
	"gitlite/internal/config"
	"gitlite/internal/model"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer a.Close().
// operation identifies the CLI command being run (e.g. "CreateBranch").
func newApp(cmd *cobra.Command, operation string) (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var opts app.Options
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		opts.Console = os.Stderr
	}
	a, err := app.New(cmd.Context(), cfg, operation, opts)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

// mutate runs fn as a recorded operation.
func mutate(cmd *cobra.Command, operation string, params []string, fn func(context.Context, *app.App) error) error {
	a, err := newApp(cmd, operation)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if err := a.Record(ctx, params...); err != nil {
		return err
	}
	return a.Done(fn(ctx, a))
}

// query runs fn without recording it.
func query(cmd *cobra.Command, operation string, fn func(context.Context, *app.App) error) error {
	a, err := newApp(cmd, operation)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(cmd.Context(), a)
}

// unlock prompts for the key passphrase when content is encrypted.
func unlock(a *app.App) error {
	if !a.EncryptionEnabled() {
		return nil
	}
	p, err := app.ReadPassphrase("Passphrase: ", os.Stdin, os.Stderr)
	if err != nil {
		return err
	}
	return a.Unlock(p)
}

// repository resolves the --repo flag, which takes a name or an ID.
func repository(ctx context.Context, cmd *cobra.Command, a *app.App) (*model.Repository, error) {
	ref, _ := cmd.Flags().GetString("repo")
	if ref == "" {
		return nil, fmt.Errorf("--repo is required")
	}
	return a.Service().GetRepository(ctx, ref)
}

func branchFlag(cmd *cobra.Command) string {
	b, _ := cmd.Flags().GetString("branch")
	return b
}

var rootCmd = &cobra.Command{
	Use:           "gitlite",
	Short:         "Lightweight versioned document store with branches and merge requests",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Also write log output to stderr")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(repoCmd)
	rootCmd.AddCommand(branchCmd)
	rootCmd.AddCommand(fileCmd)
	rootCmd.AddCommand(mrCmd)
	rootCmd.AddCommand(conflictCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(vaultCmd)
}
