package vcs

import (
	"context"
	"time"

	"gitlite/internal/model"
)

// Database provides metadata storage for repositories, branches, files,
// versions and merge requests.
// Find* methods return (nil, nil) when nothing matches.
type Database interface {
	// Repository operations

	// CreateRepository inserts a repository together with its default branch.
	CreateRepository(ctx context.Context, repo *model.Repository, defaultBranch *model.Branch) error
	FindRepository(ctx context.Context, id string) (*model.Repository, error)
	FindRepositoryByName(ctx context.Context, name string) (*model.Repository, error)
	ListRepositories(ctx context.Context) ([]*model.Repository, error)
	// DeleteRepository removes a repository and everything it owns.
	DeleteRepository(ctx context.Context, id string) error

	// Branch operations

	FindBranch(ctx context.Context, repoID, name string) (*model.Branch, error)
	FindDefaultBranch(ctx context.Context, repoID string) (*model.Branch, error)
	ListBranches(ctx context.Context, repoID string) ([]*model.Branch, error)

	// CreateBranch inserts a branch and copies every pointer and history
	// entry of branch.ParentID into it in the same transaction.
	CreateBranch(ctx context.Context, branch *model.Branch) error

	// DeleteBranch removes the branch with its pointers and history, and
	// closes open merge requests that reference it.
	DeleteBranch(ctx context.Context, branch *model.Branch, closedAt time.Time) error

	// File and version operations

	FindFile(ctx context.Context, id string) (*model.File, error)
	FindFileByName(ctx context.Context, repoID, filename string) (*model.File, error)

	// AppendVersion allocates the next version number of the file, inserts
	// the version, points the branch at it and records it in the branch
	// history. The file is inserted first when params.CreateFile is set.
	AppendVersion(ctx context.Context, params AppendParams) (*model.Version, error)

	FindVersion(ctx context.Context, fileID string, number int64) (*model.Version, error)
	FindBranchPointer(ctx context.Context, branchID, fileID string) (*model.Pointer, error)
	ListBranchPointers(ctx context.Context, branchID string) ([]model.Pointer, error)
	ListBranchFiles(ctx context.Context, branchID string) ([]*model.FileSummary, error)
	RemoveBranchPointer(ctx context.Context, branchID, fileID string) error

	// IsVersionInBranch reports whether the version is in the branch's history.
	IsVersionInBranch(ctx context.Context, branchID, fileID string, number int64) (bool, error)

	// ListBranchVersions returns the file's versions reachable from the branch, newest first.
	ListBranchVersions(ctx context.Context, branchID, fileID string) ([]*model.Version, error)

	// ListBranchHistory returns versions of all files reachable from the branch, newest first.
	ListBranchHistory(ctx context.Context, branchID string, limit int) ([]*model.Version, error)

	// CommonAncestors returns, per file, the highest version number present
	// in the history of both branches.
	CommonAncestors(ctx context.Context, sourceBranchID, targetBranchID string) (map[string]int64, error)

	// Content operations

	HasContent(ctx context.Context, checksum string) (bool, error)
	CreateContent(ctx context.Context, checksum string, size int64) error

	// Merge request operations

	// CreateMergeRequest inserts the merge request, its conflicts and its evaluated pointers.
	CreateMergeRequest(ctx context.Context, mr *model.MergeRequest) error
	// FindMergeRequest returns the merge request with its conflicts and evaluated pointers.
	FindMergeRequest(ctx context.Context, id string) (*model.MergeRequest, error)
	// ListMergeRequests filters by status unless status is empty.
	ListMergeRequests(ctx context.Context, repoID string, status model.MergeStatus) ([]*model.MergeRequest, error)
	// UpdateMergeRequest stores status and updated_at and replaces the conflict
	// set and the evaluated pointers.
	UpdateMergeRequest(ctx context.Context, mr *model.MergeRequest) error
	FindConflict(ctx context.Context, id string) (*model.Conflict, error)
	// ResolveConflict stores the conflict's strategy, resolved content and time.
	ResolveConflict(ctx context.Context, conflict *model.Conflict) error

	// ApplyMerge verifies app.Expected against both branches and applies the
	// merge atomically. Returns ErrStaleMergeRequest if any pointer moved.
	ApplyMerge(ctx context.Context, app *MergeApplication) error

	// Operation log

	CreateOperation(ctx context.Context, op *model.Operation) error
	FinishOperation(ctx context.Context, id int64, status string, finishedAt time.Time) error
	ListOperations(ctx context.Context, limit int) ([]*model.Operation, error)

	// CheckMigrations verifies the schema is at the latest version.
	CheckMigrations() error

	Close() error
}

// AppendParams describes a new version to record.
type AppendParams struct {
	File       *model.File
	CreateFile bool
	BranchID   string
	// Version carries ID, content, message, author, branch name and time.
	// Its Number is assigned by the database.
	Version model.Version
}

// MergeApplication is everything a merge changes on the target branch.
type MergeApplication struct {
	MergeRequestID string
	SourceBranchID string
	TargetBranchID string
	// Expected pins the pointers the plan was computed from.
	Expected []PointerExpectation
	// Adopt points the target at the source's version of a file, or
	// removes the target's pointer when Version is zero.
	Adopt []Adoption
	// Versions are appended to the target branch. Numbers are assigned by the database.
	Versions []model.Version
	MergedAt time.Time
}

// PointerExpectation is the state of one file on both branches, zero meaning absent.
type PointerExpectation struct {
	FileID string
	Source int64
	Target int64
}

// Adoption makes the target branch take the source's version of a file.
type Adoption struct {
	FileID  string
	Version int64
}
