package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"gitlite/internal/app"
	"gitlite/internal/diff"
	"gitlite/internal/model"
	"gitlite/internal/workspace"
)

var mrCmd = &cobra.Command{
	Use:   "mr",
	Short: "Manage merge requests",
}

var mrCreateCmd = &cobra.Command{
	Use:   "create SOURCE TARGET TITLE",
	Short: "Open a merge request from SOURCE into TARGET",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		description, _ := cmd.Flags().GetString("description")
		return mutate(cmd, "CreateMergeRequest", args, func(ctx context.Context, a *app.App) error {
			repo, err := repository(ctx, cmd, a)
			if err != nil {
				return err
			}
			mr, err := a.Service().CreateMergeRequest(ctx, repo.ID, model.NewMergeRequest{
				SourceBranch: args[0],
				TargetBranch: args[1],
				Title:        args[2],
				Description:  description,
			})
			if err != nil {
				return err
			}
			printMergeRequest(mr)
			return nil
		})
	},
}

var mrListCmd = &cobra.Command{
	Use:   "list",
	Short: "List merge requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		rawStatus, _ := cmd.Flags().GetString("status")
		status, err := model.ParseMergeStatus(rawStatus)
		if err != nil {
			return err
		}
		return query(cmd, "ListMergeRequests", func(ctx context.Context, a *app.App) error {
			repo, err := repository(ctx, cmd, a)
			if err != nil {
				return err
			}
			mrs, err := a.Service().ListMergeRequests(ctx, repo.ID, status)
			if err != nil {
				return err
			}
			if len(mrs) == 0 {
				fmt.Println("No merge requests.")
				return nil
			}
			for _, mr := range mrs {
				fmt.Printf("%s  %-9s  %s -> %s  %s  (%s)\n",
					mr.ID, mr.Status, mr.SourceBranch, mr.TargetBranch, mr.Title, humanize.Time(mr.UpdatedAt))
			}
			return nil
		})
	},
}

var mrShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a merge request and its conflicts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return query(cmd, "GetMergeRequest", func(ctx context.Context, a *app.App) error {
			mr, err := a.Service().GetMergeRequest(ctx, args[0])
			if err != nil {
				return err
			}
			printMergeRequest(mr)
			return nil
		})
	},
}

var mrMergeCmd = &cobra.Command{
	Use:   "merge ID",
	Short: "Merge a merge request whose conflicts are all resolved",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutate(cmd, "MergeMergeRequest", args, func(ctx context.Context, a *app.App) error {
			if err := a.Service().MergeMergeRequest(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("Merged %s\n", args[0])
			return nil
		})
	},
}

var mrCloseCmd = &cobra.Command{
	Use:   "close ID",
	Short: "Close a merge request without merging",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutate(cmd, "CloseMergeRequest", args, func(ctx context.Context, a *app.App) error {
			mr, err := a.Service().CloseMergeRequest(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Closed %s\n", mr.ID)
			return nil
		})
	},
}

var mrResolveCmd = &cobra.Command{
	Use:   "resolve ID",
	Short: "Resolve every conflict of a merge request and merge it",
	Long: `Resolve every open conflict of a merge request and merge it.

--strategy applies to all conflicts not named by --manual. Each --manual
FILENAME=PATH resolves that file with the content of the local PATH.
Resolution stops at the first failure; later conflicts are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rawStrategy, _ := cmd.Flags().GetString("strategy")
		manual, _ := cmd.Flags().GetStringToString("manual")
		return mutate(cmd, "ResolveAndMerge", args, func(ctx context.Context, a *app.App) error {
			mr, err := a.Service().GetMergeRequest(ctx, args[0])
			if err != nil {
				return err
			}
			decisions, err := decide(mr, rawStrategy, manual)
			if err != nil {
				return err
			}

			res, err := a.Resolver().ResolveAndMerge(ctx, mr.ID, decisions)
			if err != nil {
				return err
			}
			for _, o := range res.Outcomes {
				line := fmt.Sprintf("%-8s  %s", o.Status, o.Filename)
				if o.Err != nil {
					line += ": " + o.Err.Error()
				}
				fmt.Println(line)
			}
			if res.Merged {
				fmt.Printf("Merged %s\n", mr.ID)
			}
			return res.Err
		})
	},
}

// decide builds one decision per unresolved conflict.
func decide(mr *model.MergeRequest, rawStrategy string, manual map[string]string) ([]workspace.Decision, error) {
	var fallback model.Strategy
	if rawStrategy != "" {
		st, err := model.ParseStrategy(rawStrategy)
		if err != nil {
			return nil, err
		}
		if st == model.StrategyManual {
			return nil, fmt.Errorf("use --manual FILENAME=PATH for manual resolutions")
		}
		fallback = st
	}

	var decisions []workspace.Decision
	for _, c := range mr.Conflicts {
		if c.Resolved() {
			continue
		}
		if path, ok := manual[c.Filename]; ok {
			content, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("reading resolution for %s: %w", c.Filename, err)
			}
			decisions = append(decisions, workspace.Decision{ConflictID: c.ID, Strategy: model.StrategyManual, Content: content})
			continue
		}
		if fallback == "" {
			return nil, fmt.Errorf("no resolution for %s: pass --strategy or --manual %s=PATH", c.Filename, c.Filename)
		}
		decisions = append(decisions, workspace.Decision{ConflictID: c.ID, Strategy: fallback})
	}
	return decisions, nil
}

var mrPreviewCmd = &cobra.Command{
	Use:   "preview ID",
	Short: "Print both sides of every conflict",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return query(cmd, "PreviewConflicts", func(ctx context.Context, a *app.App) error {
			if err := unlock(a); err != nil {
				return err
			}
			previews, err := a.Resolver().Preview(ctx, args[0])
			if err != nil {
				return err
			}
			for _, p := range previews {
				fmt.Printf("=== %s (%s)\n", p.Conflict.Filename, p.Conflict.Type)
				printSide("ours", p.Ours)
				printSide("theirs", p.Theirs)
			}
			return nil
		})
	},
}

func printSide(label string, v *model.VersionDetail) {
	if v == nil {
		fmt.Printf("--- %s: deleted\n", label)
		return
	}
	fmt.Printf("--- %s: v%d by %s\n", label, v.Number, v.Author)
	fmt.Print(string(v.Content))
	if len(v.Content) > 0 && !strings.HasSuffix(string(v.Content), "\n") {
		fmt.Println()
	}
}

func printMergeRequest(mr *model.MergeRequest) {
	fmt.Printf("%s  %s\n", mr.ID, mr.Title)
	fmt.Printf("  %s -> %s  [%s]\n", mr.SourceBranch, mr.TargetBranch, mr.Status)
	if mr.Description != "" {
		fmt.Printf("  %s\n", mr.Description)
	}
	for _, c := range mr.Conflicts {
		state := "unresolved"
		if c.Resolved() {
			state = string(c.Strategy)
		}
		fmt.Printf("  conflict %s  %-14s %s  ours v%d theirs v%d base v%d  %s\n",
			c.ID, c.Type, c.Filename, c.TargetVersion, c.SourceVersion, c.BaseVersion, state)
	}
}

var conflictCmd = &cobra.Command{
	Use:   "conflict",
	Short: "Inspect and resolve single merge conflicts",
}

var conflictResolveCmd = &cobra.Command{
	Use:   "resolve ID STRATEGY [PATH]",
	Short: "Record a resolution: ours, theirs, or manual with the content of PATH",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		strategy, err := model.ParseStrategy(args[1])
		if err != nil {
			return err
		}
		var content []byte
		if strategy == model.StrategyManual {
			if len(args) < 3 {
				return fmt.Errorf("manual resolution needs a PATH")
			}
			if content, err = os.ReadFile(args[2]); err != nil {
				return fmt.Errorf("reading resolution: %w", err)
			}
		}
		return mutate(cmd, "ResolveConflict", args[:2], func(ctx context.Context, a *app.App) error {
			if err := a.Service().ResolveConflict(ctx, args[0], strategy, content); err != nil {
				return err
			}
			fmt.Printf("Resolved %s with %s\n", args[0], strategy)
			return nil
		})
	},
}

var conflictDiffCmd = &cobra.Command{
	Use:   "diff ID",
	Short: "Compare the target's version of a conflicting file with the source's",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		return query(cmd, "ConflictDiff", func(ctx context.Context, a *app.App) error {
			if err := unlock(a); err != nil {
				return err
			}
			res, err := a.Service().ConflictDiff(ctx, args[0], diff.Format(format))
			if err != nil {
				return err
			}
			printDiff(res)
			return nil
		})
	},
}

func init() {
	mrCmd.PersistentFlags().StringP("repo", "R", "", "Repository name or ID")
	mrCmd.AddCommand(mrCreateCmd)
	mrCmd.AddCommand(mrListCmd)
	mrCmd.AddCommand(mrShowCmd)
	mrCmd.AddCommand(mrMergeCmd)
	mrCmd.AddCommand(mrCloseCmd)
	mrCmd.AddCommand(mrResolveCmd)
	mrCmd.AddCommand(mrPreviewCmd)
	mrCreateCmd.Flags().StringP("description", "d", "", "Merge request description")
	mrListCmd.Flags().String("status", "", "Filter by status: open, conflicts, merged or closed")
	mrResolveCmd.Flags().String("strategy", "", "Resolution for conflicts without --manual: ours or theirs")
	mrResolveCmd.Flags().StringToString("manual", nil, "FILENAME=PATH manual resolution (repeatable)")

	conflictCmd.AddCommand(conflictResolveCmd)
	conflictCmd.AddCommand(conflictDiffCmd)
	conflictDiffCmd.Flags().StringP("format", "f", "side_by_side", "Diff format: unified, side_by_side, compact or all")
}
