package vcs

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the service wraps exactly one of these.
var (
	ErrNotFound         = errors.New("not found")
	ErrNotFoundInBranch = errors.New("not found in branch")
	ErrConflict         = errors.New("conflict")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrUnauthorized     = errors.New("unauthorized")
)

var (
	ErrRepositoryNotFound   = fmt.Errorf("repository %w", ErrNotFound)
	ErrBranchNotFound       = fmt.Errorf("branch %w", ErrNotFound)
	ErrFileNotFound         = fmt.Errorf("file %w", ErrNotFound)
	ErrVersionNotFound      = fmt.Errorf("version %w", ErrNotFound)
	ErrMergeRequestNotFound = fmt.Errorf("merge request %w", ErrNotFound)
	ErrConflictNotFound     = fmt.Errorf("merge conflict %w", ErrNotFound)

	ErrFileNotInBranch = fmt.Errorf("file %w", ErrNotFoundInBranch)

	ErrRepositoryExists  = fmt.Errorf("repository already exists: %w", ErrConflict)
	ErrBranchExists      = fmt.Errorf("branch already exists: %w", ErrConflict)
	ErrFileExists        = fmt.Errorf("file already exists on branch: %w", ErrConflict)
	ErrStaleMergeRequest = fmt.Errorf("branches changed since conflicts were computed: %w", ErrConflict)

	ErrSameBranch        = fmt.Errorf("source and target branch must differ: %w", ErrInvalidArgument)
	ErrEmptyResolution   = fmt.Errorf("manual resolution requires content: %w", ErrInvalidArgument)
	ErrMissingField      = fmt.Errorf("missing required field: %w", ErrInvalidArgument)
	ErrDefaultBranch     = fmt.Errorf("cannot delete the default branch: %w", ErrInvalidOperation)
	ErrMergeRequestState = fmt.Errorf("merge request is not open: %w", ErrInvalidOperation)

	ErrPreconditionFailed = fmt.Errorf("precondition failed: %w", ErrInvalidOperation)
	ErrHasConflicts       = fmt.Errorf("has_conflicts: %w", ErrPreconditionFailed)
)

// Kind returns a stable name for the error kind of err, or "internal".
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFoundInBranch):
		return "not_found_in_branch"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, ErrPreconditionFailed):
		return "precondition_failed"
	case errors.Is(err, ErrInvalidOperation):
		return "invalid_operation"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	default:
		return "internal"
	}
}
