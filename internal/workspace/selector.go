package workspace

import (
	"sync"

	"gitlite/internal/model"
)

// BranchSelector decides which branch to show when the requested one is
// missing from a loaded branch list. It remembers, per repository, the
// branch it last settled on and the missing name that led there, so the
// same stale name re-evaluated against the same list reports its fallback
// only once.
type BranchSelector struct {
	mu        sync.Mutex
	repo      string
	validated string
	stale     string
}

// Resolve returns the branch to use for repoID and whether a fallback was
// newly applied. It must only be called with a fully loaded list.
func (s *BranchSelector) Resolve(repoID, requested string, branches []model.Branch) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if repoID != s.repo {
		s.repo, s.validated, s.stale = repoID, "", ""
	}

	for _, b := range branches {
		if b.Name == requested {
			s.validated, s.stale = requested, ""
			return requested, false
		}
	}

	fallback := FallbackBranch(branches)
	if fallback == "" {
		return requested, false
	}
	repeated := s.stale == requested && s.validated == fallback
	s.validated, s.stale = fallback, requested
	return fallback, !repeated
}

// Reset forgets what was settled on.
func (s *BranchSelector) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repo, s.validated, s.stale = "", "", ""
}

// FallbackBranch is the default branch, or the first branch when none is
// marked default. Empty for an empty list.
func FallbackBranch(branches []model.Branch) string {
	for _, b := range branches {
		if b.IsDefault {
			return b.Name
		}
	}
	if len(branches) > 0 {
		return branches[0].Name
	}
	return ""
}
