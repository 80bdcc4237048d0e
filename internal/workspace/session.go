package workspace

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gitlite/internal/model"
	"gitlite/internal/vcs"
)

// ErrStale is returned when a fetch finished after the selection it was
// made for was replaced. Its result has been discarded.
var ErrStale = errors.New("selection changed while loading")

// Selection identifies what a session is looking at.
type Selection struct {
	RepositoryID string
	Branch       string
}

// Token pins a fetch to the selection that was current when it started.
type Token struct {
	generation uint64
	selection  Selection
}

// Snapshot is the last applied view of a selection.
type Snapshot struct {
	Selection  Selection
	Branches   []model.Branch
	Files      []model.FileSummary
	FellBack   bool
	generation uint64
}

// Session tracks one user's selection. Every call carries its own context;
// the only state kept is the current selection and the last view applied for it.
type Session struct {
	backend  Backend
	logger   vcs.Logger
	selector BranchSelector

	mu         sync.Mutex
	generation uint64
	selection  Selection
	snapshot   *Snapshot
}

// NewSession creates a session with nothing selected.
func NewSession(backend Backend, logger vcs.Logger) *Session {
	return &Session{backend: backend, logger: logger}
}

// Select switches the session to a repository and branch. Fetches started
// for earlier selections are discarded when they complete.
func (s *Session) Select(repoID, branch string) Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	if repoID != s.selection.RepositoryID {
		s.selector.Reset()
	}
	return s.selectLocked(Selection{RepositoryID: repoID, Branch: branch})
}

func (s *Session) selectLocked(sel Selection) Token {
	s.generation++
	s.selection = sel
	s.snapshot = nil
	return Token{generation: s.generation, selection: sel}
}

// Current returns the active selection and its token.
func (s *Session) Current() (Selection, Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection, Token{generation: s.generation, selection: s.selection}
}

// Valid reports whether tok still belongs to the active selection.
func (s *Session) Valid(tok Token) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return tok.generation == s.generation
}

// Snapshot returns the last applied view, or nil before the first Resync.
func (s *Session) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// Resync reloads branches and files for the current selection. It is safe
// to call any number of times. When the requested branch no longer exists
// the selection moves to the default branch; FellBack is set the first time
// a given missing name causes that move.
func (s *Session) Resync(ctx context.Context) (*Snapshot, error) {
	sel, tok := s.Current()
	if sel.RepositoryID == "" {
		return nil, fmt.Errorf("no repository selected: %w", vcs.ErrInvalidArgument)
	}

	branches, err := s.backend.ListBranches(ctx, sel.RepositoryID)
	if err != nil {
		return nil, fmt.Errorf("listing branches: %w", err)
	}
	if !s.Valid(tok) {
		return nil, ErrStale
	}

	branch, fellBack := s.selector.Resolve(sel.RepositoryID, sel.Branch, branches)
	if branch != sel.Branch {
		if fellBack {
			s.logger.Debug("selected branch not found, falling back", "requested", sel.Branch, "branch", branch)
		}
		s.mu.Lock()
		if tok.generation != s.generation {
			s.mu.Unlock()
			return nil, ErrStale
		}
		tok = s.selectLocked(Selection{RepositoryID: sel.RepositoryID, Branch: branch})
		s.mu.Unlock()
		sel = tok.selection
	}

	files, err := s.backend.ListFiles(ctx, sel.RepositoryID, sel.Branch)
	switch {
	case errors.Is(err, vcs.ErrNotFound), errors.Is(err, vcs.ErrNotFoundInBranch):
		// Expected while a branch switch settles.
		s.logger.Debug("file list unavailable for selection", "repository", sel.RepositoryID, "branch", sel.Branch, "error", err)
		files = nil
	case err != nil:
		return nil, fmt.Errorf("listing files: %w", err)
	}

	snap := &Snapshot{
		Selection:  sel,
		Branches:   branches,
		Files:      files,
		FellBack:   fellBack,
		generation: tok.generation,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.generation != s.generation {
		s.logger.Debug("discarding stale file list", "repository", sel.RepositoryID, "branch", sel.Branch)
		return nil, ErrStale
	}
	s.snapshot = snap
	return snap, nil
}

// Versions loads the history of a file on the current selection. A file
// missing from the branch yields an empty history.
func (s *Session) Versions(ctx context.Context, fileID string) ([]model.Version, error) {
	sel, tok := s.Current()
	versions, err := s.backend.ListVersions(ctx, sel.RepositoryID, fileID, sel.Branch)
	if errors.Is(err, vcs.ErrNotFound) || errors.Is(err, vcs.ErrNotFoundInBranch) {
		s.logger.Debug("version list unavailable for selection", "file", fileID, "branch", sel.Branch, "error", err)
		versions, err = nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing versions: %w", err)
	}
	if !s.Valid(tok) {
		return nil, ErrStale
	}
	return versions, nil
}
