package vcs

import (
	"context"
	"fmt"
	"strings"

	"gitlite/internal/model"
)

// CreateRepository creates a repository and its default branch.
func (s *Service) CreateRepository(ctx context.Context, name, description string) (*model.Repository, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name", ErrMissingField)
	}

	existing, err := s.database.FindRepositoryByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("checking for existing repository: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrRepositoryExists, name)
	}

	now := s.clock.Now()
	repo := &model.Repository{
		ID:          s.idgen.New(),
		Name:        name,
		Description: description,
		CreatedAt:   now,
	}
	branch := &model.Branch{
		ID:           s.idgen.New(),
		RepositoryID: repo.ID,
		Name:         s.defaultBranch,
		IsDefault:    true,
		CreatedAt:    now,
	}
	if err := s.database.CreateRepository(ctx, repo, branch); err != nil {
		return nil, fmt.Errorf("creating repository: %w", err)
	}

	s.logger.Info("repository created", "repository", repo.Name, "id", repo.ID)
	return repo, nil
}

// GetRepository finds a repository by ID or, failing that, by name.
func (s *Service) GetRepository(ctx context.Context, idOrName string) (*model.Repository, error) {
	repo, err := s.database.FindRepository(ctx, idOrName)
	if err != nil {
		return nil, fmt.Errorf("finding repository: %w", err)
	}
	if repo == nil {
		repo, err = s.database.FindRepositoryByName(ctx, idOrName)
		if err != nil {
			return nil, fmt.Errorf("finding repository: %w", err)
		}
	}
	if repo == nil {
		return nil, fmt.Errorf("%w: %s", ErrRepositoryNotFound, idOrName)
	}
	return repo, nil
}

// ListRepositories returns every repository ordered by name.
func (s *Service) ListRepositories(ctx context.Context) ([]model.Repository, error) {
	repos, err := s.database.ListRepositories(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing repositories: %w", err)
	}
	out := make([]model.Repository, 0, len(repos))
	for _, r := range repos {
		out = append(out, *r)
	}
	return out, nil
}

// DeleteRepository removes a repository with all of its files, versions,
// branches and merge requests.
func (s *Service) DeleteRepository(ctx context.Context, repoID string) error {
	repo, err := s.repository(ctx, repoID)
	if err != nil {
		return err
	}
	if err := s.database.DeleteRepository(ctx, repo.ID); err != nil {
		return fmt.Errorf("deleting repository: %w", err)
	}
	s.logger.Info("repository deleted", "repository", repo.Name, "id", repo.ID)
	return nil
}
