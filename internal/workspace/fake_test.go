package workspace

import (
	"context"
	"fmt"
	"sync"

	"gitlite/internal/model"
	"gitlite/internal/vcs"
)

// fakeBackend serves canned data and records the calls it receives.
type fakeBackend struct {
	mu       sync.Mutex
	branches []model.Branch
	files    map[string][]model.FileSummary // by branch
	versions map[string]*model.VersionDetail
	mrs      map[string]*model.MergeRequest

	listFilesHook func(branch string)
	resolveErr    map[string]error
	mergeErr      error
	calls         []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		branches: branches("main", "feature"),
		files: map[string][]model.FileSummary{
			"main":    {{ID: "f1", Filename: "a.txt", Version: 1}},
			"feature": {{ID: "f1", Filename: "a.txt", Version: 2}, {ID: "f2", Filename: "b.txt", Version: 1}},
		},
		versions:   make(map[string]*model.VersionDetail),
		mrs:        make(map[string]*model.MergeRequest),
		resolveErr: make(map[string]error),
	}
}

func (f *fakeBackend) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeBackend) ListBranches(ctx context.Context, repoID string) ([]model.Branch, error) {
	f.record("ListBranches")
	return f.branches, nil
}

func (f *fakeBackend) ListFiles(ctx context.Context, repoID, branch string) ([]model.FileSummary, error) {
	f.record("ListFiles " + branch)
	if f.listFilesHook != nil {
		f.listFilesHook(branch)
	}
	files, ok := f.files[branch]
	if !ok {
		return nil, fmt.Errorf("%w: %s", vcs.ErrBranchNotFound, branch)
	}
	return files, nil
}

func (f *fakeBackend) ListVersions(ctx context.Context, repoID, fileID, branch string) ([]model.Version, error) {
	f.record("ListVersions " + fileID)
	if branch != "feature" {
		return nil, fmt.Errorf("%w: %s", vcs.ErrFileNotInBranch, fileID)
	}
	return []model.Version{{FileID: fileID, Number: 2}, {FileID: fileID, Number: 1}}, nil
}

func (f *fakeBackend) GetVersion(ctx context.Context, repoID, fileID string, number int64, branch string) (*model.VersionDetail, error) {
	f.record(fmt.Sprintf("GetVersion %s %d %s", fileID, number, branch))
	v, ok := f.versions[fmt.Sprintf("%s@%d", fileID, number)]
	if !ok {
		return nil, fmt.Errorf("%w: %s version %d", vcs.ErrVersionNotFound, fileID, number)
	}
	return v, nil
}

func (f *fakeBackend) GetMergeRequest(ctx context.Context, id string) (*model.MergeRequest, error) {
	f.record("GetMergeRequest")
	mr, ok := f.mrs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", vcs.ErrMergeRequestNotFound, id)
	}
	return mr, nil
}

func (f *fakeBackend) ResolveConflict(ctx context.Context, conflictID string, strategy model.Strategy, content []byte) error {
	f.record("ResolveConflict " + conflictID)
	return f.resolveErr[conflictID]
}

func (f *fakeBackend) MergeMergeRequest(ctx context.Context, id string) error {
	f.record("MergeMergeRequest")
	return f.mergeErr
}

func (f *fakeBackend) callCount(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}
