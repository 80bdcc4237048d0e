package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"gitlite/internal/app"
)

var repoCmd = &cobra.Command{
	Use:   "repo",
	Short: "Manage repositories",
}

var repoCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a repository with a default branch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		description, _ := cmd.Flags().GetString("description")
		return mutate(cmd, "CreateRepository", args, func(ctx context.Context, a *app.App) error {
			repo, err := a.Service().CreateRepository(ctx, args[0], description)
			if err != nil {
				return err
			}
			fmt.Printf("Created repository %s (%s)\n", repo.Name, repo.ID)
			return nil
		})
	},
}

var repoListCmd = &cobra.Command{
	Use:   "list",
	Short: "List repositories",
	RunE: func(cmd *cobra.Command, args []string) error {
		return query(cmd, "ListRepositories", func(ctx context.Context, a *app.App) error {
			repos, err := a.Service().ListRepositories(ctx)
			if err != nil {
				return err
			}
			if len(repos) == 0 {
				fmt.Println("No repositories.")
				return nil
			}
			for _, r := range repos {
				fmt.Printf("%-20s  %s  %s\n", r.Name, r.ID, humanize.Time(r.CreatedAt))
			}
			return nil
		})
	},
}

var repoDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete a repository and everything in it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutate(cmd, "DeleteRepository", args, func(ctx context.Context, a *app.App) error {
			repo, err := a.Service().GetRepository(ctx, args[0])
			if err != nil {
				return err
			}
			if err := a.Service().DeleteRepository(ctx, repo.ID); err != nil {
				return err
			}
			fmt.Printf("Deleted repository %s\n", repo.Name)
			return nil
		})
	},
}

var branchCmd = &cobra.Command{
	Use:   "branch",
	Short: "Manage branches",
}

var branchCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a branch from a parent branch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parent, _ := cmd.Flags().GetString("from")
		return mutate(cmd, "CreateBranch", args, func(ctx context.Context, a *app.App) error {
			repo, err := repository(ctx, cmd, a)
			if err != nil {
				return err
			}
			b, err := a.Service().CreateBranch(ctx, repo.ID, args[0], parent)
			if err != nil {
				return err
			}
			fmt.Printf("Created branch %s\n", b.Name)
			return nil
		})
	},
}

var branchListCmd = &cobra.Command{
	Use:   "list",
	Short: "List branches",
	RunE: func(cmd *cobra.Command, args []string) error {
		return query(cmd, "ListBranches", func(ctx context.Context, a *app.App) error {
			repo, err := repository(ctx, cmd, a)
			if err != nil {
				return err
			}
			branches, err := a.Service().ListBranches(ctx, repo.ID)
			if err != nil {
				return err
			}
			for _, b := range branches {
				marker := " "
				if b.IsDefault {
					marker = "*"
				}
				fmt.Printf("%s %s\n", marker, b.Name)
			}
			return nil
		})
	},
}

var branchDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete a branch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutate(cmd, "DeleteBranch", args, func(ctx context.Context, a *app.App) error {
			repo, err := repository(ctx, cmd, a)
			if err != nil {
				return err
			}
			if err := a.Service().DeleteBranch(ctx, repo.ID, args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted branch %s\n", args[0])
			return nil
		})
	},
}

var branchLogCmd = &cobra.Command{
	Use:   "log [NAME]",
	Short: "Show recent versions reachable from a branch",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		return query(cmd, "BranchHistory", func(ctx context.Context, a *app.App) error {
			repo, err := repository(ctx, cmd, a)
			if err != nil {
				return err
			}
			versions, err := a.Service().BranchHistory(ctx, repo.ID, name, limit)
			if err != nil {
				return err
			}
			for _, v := range versions {
				fmt.Printf("v%-4d  %s  %-12s  %s  %s\n",
					v.Number, v.CreatedAt.Format("2006-01-02 15:04:05"), v.Author, v.FileID[:min(8, len(v.FileID))], v.CommitMessage)
			}
			return nil
		})
	},
}

func init() {
	repoCmd.AddCommand(repoCreateCmd)
	repoCmd.AddCommand(repoListCmd)
	repoCmd.AddCommand(repoDeleteCmd)
	repoCreateCmd.Flags().StringP("description", "d", "", "Repository description")

	branchCmd.PersistentFlags().StringP("repo", "R", "", "Repository name or ID")
	branchCmd.AddCommand(branchCreateCmd)
	branchCmd.AddCommand(branchListCmd)
	branchCmd.AddCommand(branchDeleteCmd)
	branchCmd.AddCommand(branchLogCmd)
	branchCreateCmd.Flags().String("from", "", "Parent branch (default branch when empty)")
	branchLogCmd.Flags().IntP("limit", "n", 50, "Maximum number of versions to show")
}
