// Package workspace is the caller-side model of a gitlite session: which
// repository and branch are selected, the file list for that selection, and
// the conflict resolution workflow that ends in a merge.
package workspace

import (
	"context"

	"gitlite/internal/model"
)

// Backend is the part of the version-control service a workspace drives.
type Backend interface {
	ListBranches(ctx context.Context, repoID string) ([]model.Branch, error)
	ListFiles(ctx context.Context, repoID, branch string) ([]model.FileSummary, error)
	ListVersions(ctx context.Context, repoID, fileID, branch string) ([]model.Version, error)
	GetVersion(ctx context.Context, repoID, fileID string, number int64, branch string) (*model.VersionDetail, error)
	GetMergeRequest(ctx context.Context, id string) (*model.MergeRequest, error)
	ResolveConflict(ctx context.Context, conflictID string, strategy model.Strategy, content []byte) error
	MergeMergeRequest(ctx context.Context, id string) error
}
