package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"gitlite/internal/app"
	"gitlite/internal/diff"
	"gitlite/internal/model"
)

var fileCmd = &cobra.Command{
	Use:   "file",
	Short: "Manage files on a branch",
}

// fileID resolves a filename to its file ID.
func fileID(ctx context.Context, a *app.App, repo *model.Repository, name string) (string, error) {
	f, err := a.Service().FindFile(ctx, repo.ID, name)
	if err != nil {
		return "", err
	}
	return f.ID, nil
}

var fileAddCmd = &cobra.Command{
	Use:   "add PATH",
	Short: "Upload a file, or the files of a directory, as new versions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		recursive, _ := cmd.Flags().GetBool("recursive")
		message, _ := cmd.Flags().GetString("message")
		return mutate(cmd, "AddPath", args, func(ctx context.Context, a *app.App) error {
			repo, err := repository(ctx, cmd, a)
			if err != nil {
				return err
			}
			results, err := a.AddPath(ctx, repo.ID, branchFlag(cmd), args[0], recursive, message)
			for _, r := range results {
				verb := "updated"
				if r.Created {
					verb = "created"
				}
				fmt.Printf("%-8s %s v%d (%s)\n", verb, r.Filename, r.Version, humanize.Bytes(uint64(r.Size)))
			}
			return err
		})
	},
}

var fileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List files on a branch",
	RunE: func(cmd *cobra.Command, args []string) error {
		return query(cmd, "ListFiles", func(ctx context.Context, a *app.App) error {
			repo, err := repository(ctx, cmd, a)
			if err != nil {
				return err
			}
			files, err := a.Service().ListFiles(ctx, repo.ID, branchFlag(cmd))
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Println("No files.")
				return nil
			}
			for _, f := range files {
				fmt.Printf("v%-4d  %10s  %-14s  %s\n",
					f.Version, humanize.Bytes(uint64(f.Size)), humanize.Time(f.UpdatedAt), f.Filename)
			}
			return nil
		})
	},
}

var fileShowCmd = &cobra.Command{
	Use:   "show FILENAME [VERSION]",
	Short: "Print the content of a file",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return query(cmd, "GetFile", func(ctx context.Context, a *app.App) error {
			if err := unlock(a); err != nil {
				return err
			}
			repo, err := repository(ctx, cmd, a)
			if err != nil {
				return err
			}
			id, err := fileID(ctx, a, repo, args[0])
			if err != nil {
				return err
			}
			var content []byte
			if len(args) == 2 {
				n, err := strconv.ParseInt(args[1], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid version %q", args[1])
				}
				v, err := a.Service().GetVersion(ctx, repo.ID, id, n, branchFlag(cmd))
				if err != nil {
					return err
				}
				content = v.Content
			} else {
				d, err := a.Service().GetFile(ctx, repo.ID, id, branchFlag(cmd))
				if err != nil {
					return err
				}
				content = d.Content
			}
			_, err = os.Stdout.Write(content)
			return err
		})
	},
}

var fileLogCmd = &cobra.Command{
	Use:   "log FILENAME",
	Short: "Show the versions of a file reachable from a branch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return query(cmd, "ListVersions", func(ctx context.Context, a *app.App) error {
			repo, err := repository(ctx, cmd, a)
			if err != nil {
				return err
			}
			id, err := fileID(ctx, a, repo, args[0])
			if err != nil {
				return err
			}
			versions, err := a.Service().ListVersions(ctx, repo.ID, id, branchFlag(cmd))
			if err != nil {
				return err
			}
			current, err := a.Service().Current(ctx, repo.ID, id, branchFlag(cmd))
			if err != nil {
				return err
			}
			for _, v := range versions {
				marker := ""
				if v.Number == current.Number {
					marker = "  [current]"
				}
				fmt.Printf("v%-4d  %s  %-10s  %-12s  %s%s\n",
					v.Number, v.CreatedAt.Format("2006-01-02 15:04:05"),
					humanize.Bytes(uint64(v.Size)), v.Author, v.CommitMessage, marker)
			}
			return nil
		})
	},
}

var fileRmCmd = &cobra.Command{
	Use:   "rm FILENAME",
	Short: "Remove a file from a branch; its versions are kept",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutate(cmd, "DeleteFile", args, func(ctx context.Context, a *app.App) error {
			repo, err := repository(ctx, cmd, a)
			if err != nil {
				return err
			}
			id, err := fileID(ctx, a, repo, args[0])
			if err != nil {
				return err
			}
			if err := a.Service().DeleteFile(ctx, repo.ID, id, branchFlag(cmd)); err != nil {
				return err
			}
			fmt.Printf("Removed %s\n", args[0])
			return nil
		})
	},
}

var diffCmd = &cobra.Command{
	Use:   "diff FILENAME V1 V2",
	Short: "Compare two versions of a file",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		v1, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid version %q", args[1])
		}
		v2, err := strconv.ParseInt(args[2], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid version %q", args[2])
		}
		return query(cmd, "Diff", func(ctx context.Context, a *app.App) error {
			if err := unlock(a); err != nil {
				return err
			}
			repo, err := repository(ctx, cmd, a)
			if err != nil {
				return err
			}
			id, err := fileID(ctx, a, repo, args[0])
			if err != nil {
				return err
			}
			res, err := a.Service().Diff(ctx, repo.ID, id, v1, v2, diff.Format(format), branchFlag(cmd))
			if err != nil {
				return err
			}
			printDiff(res)
			return nil
		})
	},
}

func printDiff(res *diff.Result) {
	if res.Binary {
		fmt.Println("Binary content differs; no textual diff available.")
		return
	}
	if res.Unified != nil {
		fmt.Print(res.Unified.Text)
	}
	if res.Compact != nil {
		fmt.Print(res.Compact.Text)
	}
	if res.SideBySide != nil {
		for _, c := range res.SideBySide.Changes {
			fmt.Printf("@@ %s @@\n", c.Type)
			for i := 0; i < max(len(c.OldLines), len(c.NewLines)); i++ {
				var left, right string
				if i < len(c.OldLines) {
					left = c.OldLines[i]
				}
				if i < len(c.NewLines) {
					right = c.NewLines[i]
				}
				fmt.Printf("%-40s | %s\n", left, right)
			}
		}
	}
	fmt.Println(res.Statistics)
}

func init() {
	fileCmd.PersistentFlags().StringP("repo", "R", "", "Repository name or ID")
	fileCmd.PersistentFlags().StringP("branch", "b", "", "Branch (default branch when empty)")
	fileCmd.AddCommand(fileAddCmd)
	fileCmd.AddCommand(fileListCmd)
	fileCmd.AddCommand(fileShowCmd)
	fileCmd.AddCommand(fileLogCmd)
	fileCmd.AddCommand(fileRmCmd)
	fileCmd.AddCommand(diffCmd)
	fileAddCmd.Flags().BoolP("recursive", "r", false, "Recurse into subdirectories")
	fileAddCmd.Flags().StringP("message", "m", "", "Commit message")
	diffCmd.Flags().StringP("format", "f", "unified", "Diff format: unified, side_by_side, compact or all")
}
