package main

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"gitlite/internal/app"
	"gitlite/internal/httpapi"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the branches and files of a repository",
	Long: `Show the branches and files of a repository.

When the requested branch does not exist the default branch is shown instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return query(cmd, "Status", func(ctx context.Context, a *app.App) error {
			repo, err := repository(ctx, cmd, a)
			if err != nil {
				return err
			}
			session := a.Session()
			session.Select(repo.ID, branchFlag(cmd))
			snap, err := session.Resync(ctx)
			if err != nil {
				return err
			}
			if snap.FellBack && branchFlag(cmd) != "" {
				fmt.Printf("Branch %q not found; showing %s\n", branchFlag(cmd), snap.Selection.Branch)
			}

			fmt.Printf("Repository %s on branch %s\n\n", repo.Name, snap.Selection.Branch)
			for _, b := range snap.Branches {
				marker := " "
				if b.Name == snap.Selection.Branch {
					marker = "*"
				}
				fmt.Printf("%s %s\n", marker, b.Name)
			}
			fmt.Println()
			if len(snap.Files) == 0 {
				fmt.Println("No files.")
			}
			for _, f := range snap.Files {
				fmt.Printf("v%-4d  %10s  %s\n", f.Version, humanize.Bytes(uint64(f.Size)), f.Filename)
			}
			return nil
		})
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View the operation history",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		return query(cmd, "GetHistory", func(ctx context.Context, a *app.App) error {
			ops, err := a.History(ctx, limit)
			if err != nil {
				return err
			}
			if len(ops) == 0 {
				fmt.Println("No operations recorded.")
				return nil
			}
			for _, op := range ops {
				duration := ""
				if op.FinishedAt != nil {
					duration = op.FinishedAt.Sub(op.StartedAt).Truncate(time.Millisecond).String()
				}
				fmt.Printf("#%d  %-20s  %s  %-8s  %-8s  %s\n",
					op.ID,
					op.Operation,
					op.StartedAt.Format("2006-01-02 15:04:05"),
					op.Status,
					duration,
					op.Parameters,
				)
			}
			return nil
		})
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the REST API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return query(cmd, "Serve", func(ctx context.Context, a *app.App) error {
			if err := unlock(a); err != nil {
				return err
			}
			cfg := a.Config()
			listen, _ := cmd.Flags().GetString("listen")
			if listen == "" {
				listen = cfg.Server.Listen
			}
			fmt.Printf("Listening on %s\n", listen)
			return httpapi.NewServer(a.Service(), a.Logger(), cfg.Server.Token).ListenAndServe(ctx, listen)
		})
	},
}

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Maintain the metadata database",
}

var dbBackupCmd = &cobra.Command{
	Use:   "backup DEST",
	Short: "Write a consistent copy of the database to DEST",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return query(cmd, "BackupDatabase", func(ctx context.Context, a *app.App) error {
			if err := a.BackupDatabase(args[0]); err != nil {
				return err
			}
			fmt.Printf("Database written to %s\n", args[0])
			return nil
		})
	},
}

var vaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Manage content vaults",
}

var vaultCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that every configured vault is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		return query(cmd, "ValidateVaults", func(ctx context.Context, a *app.App) error {
			if err := a.ValidateVaults(ctx); err != nil {
				return err
			}
			fmt.Println("All vaults reachable.")
			return nil
		})
	},
}

func init() {
	statusCmd.Flags().StringP("repo", "R", "", "Repository name or ID")
	statusCmd.Flags().StringP("branch", "b", "", "Branch (default branch when empty)")
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of operations to show")
	serveCmd.Flags().String("listen", "", "Listen address (default from config)")
	dbCmd.AddCommand(dbBackupCmd)
	vaultCmd.AddCommand(vaultCheckCmd)
}
