package vcs

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"gitlite/internal/diff"
	"gitlite/internal/model"
)

// CreateMergeRequest opens a merge request. Its initial status is
// "conflicts" when any file diverged on both branches and "open" otherwise.
func (s *Service) CreateMergeRequest(ctx context.Context, repoID string, in model.NewMergeRequest) (*model.MergeRequest, error) {
	switch {
	case in.SourceBranch == "":
		return nil, fmt.Errorf("%w: source_branch", ErrMissingField)
	case in.TargetBranch == "":
		return nil, fmt.Errorf("%w: target_branch", ErrMissingField)
	case strings.TrimSpace(in.Title) == "":
		return nil, fmt.Errorf("%w: title", ErrMissingField)
	case in.SourceBranch == in.TargetBranch:
		return nil, fmt.Errorf("%w: %s", ErrSameBranch, in.SourceBranch)
	}

	source, err := s.branch(ctx, repoID, in.SourceBranch)
	if err != nil {
		return nil, err
	}
	target, err := s.branch(ctx, repoID, in.TargetBranch)
	if err != nil {
		return nil, err
	}

	plan, err := s.evaluate(ctx, source, target)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	mr := &model.MergeRequest{
		ID:           s.idgen.New(),
		RepositoryID: repoID,
		SourceBranch: source.Name,
		TargetBranch: target.Name,
		Title:        strings.TrimSpace(in.Title),
		Description:  in.Description,
		Status:       model.MergeStatusOpen,
		Evaluated:    plan.pointers(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, c := range plan.Conflicts {
		c.ID = s.idgen.New()
		c.MergeRequestID = mr.ID
		mr.Conflicts = append(mr.Conflicts, c)
	}
	if len(mr.Conflicts) > 0 {
		mr.Status = model.MergeStatusConflicts
	}

	if err := s.database.CreateMergeRequest(ctx, mr); err != nil {
		return nil, fmt.Errorf("creating merge request: %w", err)
	}

	s.logger.Info("merge request created", "id", mr.ID, "source", source.Name, "target", target.Name,
		"status", mr.Status, "conflicts", len(mr.Conflicts))
	return mr, nil
}

// GetMergeRequest returns a merge request with its conflict set recomputed
// against the branches' current state.
func (s *Service) GetMergeRequest(ctx context.Context, id string) (*model.MergeRequest, error) {
	mr, err := s.mergeRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.refresh(ctx, mr); err != nil {
		return nil, err
	}
	return mr, nil
}

// ListMergeRequests returns the repository's merge requests, optionally
// filtered by status after re-evaluating the non-terminal ones.
func (s *Service) ListMergeRequests(ctx context.Context, repoID string, status model.MergeStatus) ([]model.MergeRequest, error) {
	if _, err := s.repository(ctx, repoID); err != nil {
		return nil, err
	}
	if _, err := model.ParseMergeStatus(string(status)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	mrs, err := s.database.ListMergeRequests(ctx, repoID, "")
	if err != nil {
		return nil, fmt.Errorf("listing merge requests: %w", err)
	}
	out := make([]model.MergeRequest, 0, len(mrs))
	for _, mr := range mrs {
		if err := s.refresh(ctx, mr); err != nil {
			return nil, err
		}
		if status == "" || mr.Status == status {
			out = append(out, *mr)
		}
	}
	return out, nil
}

// CloseMergeRequest abandons a merge request. Its conflicts are discarded.
func (s *Service) CloseMergeRequest(ctx context.Context, id string) (*model.MergeRequest, error) {
	mr, err := s.mergeRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if mr.Status.Terminal() {
		return nil, fmt.Errorf("%w: %s is %s", ErrMergeRequestState, mr.ID, mr.Status)
	}

	mr.Status = model.MergeStatusClosed
	mr.Conflicts = nil
	mr.Evaluated = nil
	mr.UpdatedAt = s.clock.Now()
	if err := s.database.UpdateMergeRequest(ctx, mr); err != nil {
		return nil, fmt.Errorf("closing merge request: %w", err)
	}

	s.logger.Info("merge request closed", "id", mr.ID)
	return mr, nil
}

// MergeMergeRequest applies the merge request to its target branch.
//
// The branches are re-read first. If either moved since the merge request
// was last evaluated it is refreshed and the call fails with
// ErrStaleMergeRequest; otherwise it fails with ErrHasConflicts while any
// conflict is unresolved. Pointer updates happen in one transaction that
// checks the evaluated pointers again.
func (s *Service) MergeMergeRequest(ctx context.Context, id string) error {
	mr, err := s.mergeRequest(ctx, id)
	if err != nil {
		return err
	}
	if mr.Status.Terminal() {
		return fmt.Errorf("%w: %s is %s", ErrMergeRequestState, mr.ID, mr.Status)
	}

	source, err := s.branch(ctx, mr.RepositoryID, mr.SourceBranch)
	if err != nil {
		return err
	}
	target, err := s.branch(ctx, mr.RepositoryID, mr.TargetBranch)
	if err != nil {
		return err
	}
	plan, err := s.evaluate(ctx, source, target)
	if err != nil {
		return err
	}

	if !samePointers(mr.Evaluated, plan.pointers()) || !sameConflicts(mr.Conflicts, plan.Conflicts) {
		if err := s.applyRefresh(ctx, mr, plan); err != nil {
			return err
		}
		return fmt.Errorf("%w: %s", ErrStaleMergeRequest, mr.ID)
	}
	if mr.HasConflicts() {
		return fmt.Errorf("%w: %s", ErrHasConflicts, mr.ID)
	}

	now := s.clock.Now()
	app := &MergeApplication{
		MergeRequestID: mr.ID,
		SourceBranchID: source.ID,
		TargetBranchID: target.ID,
		Adopt:          plan.Adopt,
		MergedAt:       now,
	}
	for _, p := range mr.Evaluated {
		app.Expected = append(app.Expected, PointerExpectation{FileID: p.FileID, Source: p.SourceVersion, Target: p.TargetVersion})
	}
	for _, c := range mr.Conflicts {
		switch c.Strategy {
		case model.StrategyOurs:
		case model.StrategyTheirs:
			app.Adopt = append(app.Adopt, Adoption{FileID: c.FileID, Version: c.SourceVersion})
		case model.StrategyManual:
			app.Versions = append(app.Versions, model.Version{
				ID:            s.idgen.New(),
				FileID:        c.FileID,
				ContentID:     c.ResolvedContentID,
				CommitMessage: fmt.Sprintf("Merge %s into %s: resolve %s", source.Name, target.Name, c.Filename),
				Author:        s.author,
				Branch:        target.Name,
				CreatedAt:     now,
			})
		}
	}

	if err := s.database.ApplyMerge(ctx, app); err != nil {
		return fmt.Errorf("applying merge: %w", err)
	}

	s.logger.Info("merge request merged", "id", mr.ID, "source", source.Name, "target", target.Name,
		"adopted", len(app.Adopt), "resolved_versions", len(app.Versions))
	return nil
}

// ResolveConflict records how one conflict will be resolved at merge time.
// Content is required for the manual strategy and ignored otherwise.
// Resolving an already resolved conflict replaces the earlier decision.
func (s *Service) ResolveConflict(ctx context.Context, conflictID string, strategy model.Strategy, content []byte) error {
	strategy, err := model.ParseStrategy(string(strategy))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if strategy == model.StrategyManual && len(bytes.TrimSpace(content)) == 0 {
		return ErrEmptyResolution
	}

	c, err := s.conflict(ctx, conflictID)
	if err != nil {
		return err
	}
	mr, err := s.mergeRequest(ctx, c.MergeRequestID)
	if err != nil {
		return err
	}
	if mr.Status.Terminal() {
		return fmt.Errorf("%w: %s is %s", ErrMergeRequestState, mr.ID, mr.Status)
	}

	c.Strategy = strategy
	c.ResolvedContentID = ""
	if strategy == model.StrategyManual {
		sum, err := s.storeContent(ctx, content)
		if err != nil {
			return err
		}
		c.ResolvedContentID = sum
	}
	now := s.clock.Now()
	c.ResolvedAt = &now

	if err := s.database.ResolveConflict(ctx, c); err != nil {
		return fmt.Errorf("resolving conflict: %w", err)
	}

	s.logger.Info("conflict resolved", "conflict", c.ID, "file", c.Filename, "strategy", strategy)
	return nil
}

// GetConflict returns a single conflict.
func (s *Service) GetConflict(ctx context.Context, conflictID string) (*model.Conflict, error) {
	return s.conflict(ctx, conflictID)
}

// ConflictDiff compares the target's version of a conflicting file with the source's.
// An absent side diffs as empty content.
func (s *Service) ConflictDiff(ctx context.Context, conflictID string, format diff.Format) (*diff.Result, error) {
	format, err := diff.ParseFormat(string(format))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	c, err := s.conflict(ctx, conflictID)
	if err != nil {
		return nil, err
	}
	mr, err := s.mergeRequest(ctx, c.MergeRequestID)
	if err != nil {
		return nil, err
	}
	f, err := s.file(ctx, mr.RepositoryID, c.FileID)
	if err != nil {
		return nil, err
	}

	side := func(number int64) ([]byte, error) {
		if number == 0 {
			return nil, nil
		}
		d, err := s.versionDetail(ctx, f, number)
		if err != nil {
			return nil, err
		}
		return d.Content, nil
	}
	ours, err := side(c.TargetVersion)
	if err != nil {
		return nil, err
	}
	theirs, err := side(c.SourceVersion)
	if err != nil {
		return nil, err
	}

	return diff.Compute(ours, theirs, format, diff.Options{
		OldLabel: fmt.Sprintf("%s (%s, version %d)", f.Filename, mr.TargetBranch, c.TargetVersion),
		NewLabel: fmt.Sprintf("%s (%s, version %d)", f.Filename, mr.SourceBranch, c.SourceVersion),
		Context:  s.diffContext,
	}), nil
}

// refresh recomputes the conflict set of a non-terminal merge request and
// persists it, with the pointers it was computed from, when either changed.
func (s *Service) refresh(ctx context.Context, mr *model.MergeRequest) error {
	if mr.Status.Terminal() {
		return nil
	}
	source, err := s.branch(ctx, mr.RepositoryID, mr.SourceBranch)
	if err != nil {
		return err
	}
	target, err := s.branch(ctx, mr.RepositoryID, mr.TargetBranch)
	if err != nil {
		return err
	}
	plan, err := s.evaluate(ctx, source, target)
	if err != nil {
		return err
	}
	return s.applyRefresh(ctx, mr, plan)
}

func (s *Service) applyRefresh(ctx context.Context, mr *model.MergeRequest, plan mergePlan) error {
	conflicts, changed := s.reconcile(mr.ID, mr.Conflicts, plan.Conflicts)
	pointers := plan.pointers()
	if !changed && samePointers(mr.Evaluated, pointers) {
		return nil
	}

	mr.Conflicts = conflicts
	mr.Evaluated = pointers
	mr.Status = model.MergeStatusOpen
	if len(conflicts) > 0 {
		mr.Status = model.MergeStatusConflicts
	}
	mr.UpdatedAt = s.clock.Now()
	if err := s.database.UpdateMergeRequest(ctx, mr); err != nil {
		return fmt.Errorf("updating merge request: %w", err)
	}

	s.logger.Info("merge request re-evaluated", "id", mr.ID, "status", mr.Status, "conflicts", len(conflicts))
	return nil
}

func (s *Service) mergeRequest(ctx context.Context, id string) (*model.MergeRequest, error) {
	mr, err := s.database.FindMergeRequest(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("finding merge request: %w", err)
	}
	if mr == nil {
		return nil, fmt.Errorf("%w: %s", ErrMergeRequestNotFound, id)
	}
	return mr, nil
}

func (s *Service) conflict(ctx context.Context, id string) (*model.Conflict, error) {
	c, err := s.database.FindConflict(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("finding conflict: %w", err)
	}
	if c == nil {
		return nil, fmt.Errorf("%w: %s", ErrConflictNotFound, id)
	}
	return c, nil
}
