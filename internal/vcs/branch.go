package vcs

import (
	"context"
	"fmt"
	"strings"

	"gitlite/internal/model"
)

// ListBranches returns the repository's branches. Exactly one is the default.
func (s *Service) ListBranches(ctx context.Context, repoID string) ([]model.Branch, error) {
	if _, err := s.repository(ctx, repoID); err != nil {
		return nil, err
	}
	branches, err := s.database.ListBranches(ctx, repoID)
	if err != nil {
		return nil, fmt.Errorf("listing branches: %w", err)
	}
	out := make([]model.Branch, 0, len(branches))
	for _, b := range branches {
		out = append(out, *b)
	}
	return out, nil
}

// GetBranch returns a branch by name, or the default branch for the empty name.
func (s *Service) GetBranch(ctx context.Context, repoID, name string) (*model.Branch, error) {
	return s.branch(ctx, repoID, name)
}

// CreateBranch creates a branch whose pointers are a copy of the parent's at
// this instant. The default branch is the parent when parentName is empty.
func (s *Service) CreateBranch(ctx context.Context, repoID, name, parentName string) (*model.Branch, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name", ErrMissingField)
	}
	if strings.ContainsAny(name, " \t\n") {
		return nil, fmt.Errorf("branch name %q contains whitespace: %w", name, ErrInvalidArgument)
	}

	parent, err := s.branch(ctx, repoID, parentName)
	if err != nil {
		return nil, err
	}

	existing, err := s.database.FindBranch(ctx, repoID, name)
	if err != nil {
		return nil, fmt.Errorf("checking for existing branch: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrBranchExists, name)
	}

	b := &model.Branch{
		ID:           s.idgen.New(),
		RepositoryID: repoID,
		Name:         name,
		ParentID:     parent.ID,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.database.CreateBranch(ctx, b); err != nil {
		return nil, fmt.Errorf("creating branch: %w", err)
	}

	s.logger.Info("branch created", "repository", repoID, "branch", name, "parent", parent.Name)
	return b, nil
}

// DeleteBranch removes a branch's pointers. Versions are never deleted.
// The default branch cannot be deleted.
func (s *Service) DeleteBranch(ctx context.Context, repoID, name string) error {
	if name == "" {
		return fmt.Errorf("%w: name", ErrMissingField)
	}
	b, err := s.branch(ctx, repoID, name)
	if err != nil {
		return err
	}
	if b.IsDefault {
		return fmt.Errorf("%w: %s", ErrDefaultBranch, name)
	}
	if err := s.database.DeleteBranch(ctx, b, s.clock.Now()); err != nil {
		return fmt.Errorf("deleting branch: %w", err)
	}

	s.logger.Info("branch deleted", "repository", repoID, "branch", name)
	return nil
}

// BranchHistory returns the most recent versions reachable from a branch across all files.
func (s *Service) BranchHistory(ctx context.Context, repoID, name string, limit int) ([]model.Version, error) {
	b, err := s.branch(ctx, repoID, name)
	if err != nil {
		return nil, err
	}
	versions, err := s.database.ListBranchHistory(ctx, b.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing branch history: %w", err)
	}
	return derefVersions(versions), nil
}

func derefVersions(versions []*model.Version) []model.Version {
	out := make([]model.Version, 0, len(versions))
	for _, v := range versions {
		out = append(out, *v)
	}
	return out
}
