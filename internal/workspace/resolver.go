package workspace

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"gitlite/internal/model"
	"gitlite/internal/vcs"
)

// ErrNotReady is returned when a batch does not decide every open conflict.
var ErrNotReady = fmt.Errorf("not every conflict has a resolution: %w", vcs.ErrInvalidArgument)

// Decision is the chosen resolution for one conflict.
type Decision struct {
	ConflictID string
	Strategy   model.Strategy
	Content    []byte // manual only
}

// OutcomeStatus is what happened to one decision of a batch.
type OutcomeStatus string

const (
	OutcomeResolved OutcomeStatus = "resolved"
	OutcomeFailed   OutcomeStatus = "failed"
	OutcomeSkipped  OutcomeStatus = "skipped"
)

// Outcome reports one conflict of a batch.
type Outcome struct {
	ConflictID string
	Filename   string
	Status     OutcomeStatus
	Err        error
}

// BatchResult is the aggregate of a resolve-then-merge attempt. Resolutions
// that succeeded before a failure stay recorded on the server.
type BatchResult struct {
	Outcomes []Outcome
	Merged   bool
	// Err is the first failure: a resolution or the merge itself.
	Err error
}

// Resolver runs the conflict resolution workflow against a backend.
type Resolver struct {
	backend Backend
	logger  vcs.Logger
}

// NewResolver creates a Resolver.
func NewResolver(backend Backend, logger vcs.Logger) *Resolver {
	return &Resolver{backend: backend, logger: logger}
}

// Ready reports whether mr can be merged once decisions are applied: every
// conflict is already resolved or has a valid decision, and every manual
// decision carries content.
func Ready(mr *model.MergeRequest, decisions []Decision) bool {
	byID := make(map[string]Decision, len(decisions))
	for _, d := range decisions {
		byID[d.ConflictID] = d
	}
	for _, c := range mr.Conflicts {
		d, ok := byID[c.ID]
		if !ok {
			if c.Resolved() {
				continue
			}
			return false
		}
		if !validDecision(d) {
			return false
		}
	}
	return true
}

func validDecision(d Decision) bool {
	strategy, err := model.ParseStrategy(string(d.Strategy))
	if err != nil {
		return false
	}
	return strategy != model.StrategyManual || len(bytes.TrimSpace(d.Content)) > 0
}

// ResolveAndMerge applies decisions one at a time in the order of the merge
// request's conflicts, then merges. The first failed resolution stops the
// batch: later decisions are skipped and earlier ones are not rolled back.
// The merge is attempted only after every resolution succeeded.
func (r *Resolver) ResolveAndMerge(ctx context.Context, mergeRequestID string, decisions []Decision) (*BatchResult, error) {
	mr, err := r.backend.GetMergeRequest(ctx, mergeRequestID)
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(mr.Conflicts))
	for _, c := range mr.Conflicts {
		known[c.ID] = true
	}
	for _, d := range decisions {
		if !known[d.ConflictID] {
			return nil, fmt.Errorf("%w: %s is not a conflict of %s", vcs.ErrConflictNotFound, d.ConflictID, mr.ID)
		}
	}
	if !Ready(mr, decisions) {
		return nil, ErrNotReady
	}

	byID := make(map[string]Decision, len(decisions))
	for _, d := range decisions {
		byID[d.ConflictID] = d
	}

	result := &BatchResult{}
	for _, c := range mr.Conflicts {
		d, ok := byID[c.ID]
		if !ok {
			continue
		}
		out := Outcome{ConflictID: c.ID, Filename: c.Filename, Status: OutcomeSkipped}
		if result.Err == nil {
			if err := r.backend.ResolveConflict(ctx, c.ID, d.Strategy, d.Content); err != nil {
				out.Status, out.Err = OutcomeFailed, err
				result.Err = fmt.Errorf("resolving %s: %w", c.Filename, err)
				r.logger.Warn("conflict resolution failed", "conflict", c.ID, "file", c.Filename, "error", err)
			} else {
				out.Status = OutcomeResolved
			}
		}
		result.Outcomes = append(result.Outcomes, out)
	}
	if result.Err != nil {
		return result, nil
	}

	if err := r.backend.MergeMergeRequest(ctx, mr.ID); err != nil {
		result.Err = fmt.Errorf("merging %s: %w", mr.ID, err)
		return result, nil
	}
	result.Merged = true
	r.logger.Info("batch resolved and merged", "merge_request", mr.ID, "resolved", len(result.Outcomes))
	return result, nil
}

// Preview holds both sides of a conflict. A side is nil when the file is
// absent on that branch.
type Preview struct {
	Conflict model.Conflict
	Ours     *model.VersionDetail // target branch
	Theirs   *model.VersionDetail // source branch
}

// Preview fetches the full content of both sides of every conflict of a
// merge request. It never changes resolution state.
func (r *Resolver) Preview(ctx context.Context, mergeRequestID string) ([]Preview, error) {
	mr, err := r.backend.GetMergeRequest(ctx, mergeRequestID)
	if err != nil {
		return nil, err
	}

	previews := make([]Preview, len(mr.Conflicts))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, c := range mr.Conflicts {
		i, c := i, c
		previews[i].Conflict = c
		g.Go(func() error {
			ours, err := r.side(ctx, mr.RepositoryID, c.FileID, c.TargetVersion, mr.TargetBranch)
			if err != nil {
				return err
			}
			theirs, err := r.side(ctx, mr.RepositoryID, c.FileID, c.SourceVersion, mr.SourceBranch)
			if err != nil {
				return err
			}
			previews[i].Ours, previews[i].Theirs = ours, theirs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return previews, nil
}

func (r *Resolver) side(ctx context.Context, repoID, fileID string, number int64, branch string) (*model.VersionDetail, error) {
	if number == 0 {
		return nil, nil
	}
	d, err := r.backend.GetVersion(ctx, repoID, fileID, number, branch)
	if err != nil {
		if errors.Is(err, vcs.ErrNotFoundInBranch) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading version %d from %s: %w", number, branch, err)
	}
	return d, nil
}

var _ Backend = (*vcs.Service)(nil)
