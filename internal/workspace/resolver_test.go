package workspace

import (
	"context"
	"errors"
	"testing"

	"gitlite/internal/model"
	"gitlite/internal/vcs"
)

func threeConflicts() *model.MergeRequest {
	return &model.MergeRequest{
		ID:           "mr-1",
		RepositoryID: "repo",
		SourceBranch: "feature",
		TargetBranch: "main",
		Status:       model.MergeStatusConflicts,
		Conflicts: []model.Conflict{
			{ID: "c1", FileID: "f1", Filename: "a.txt", SourceVersion: 4, TargetVersion: 3},
			{ID: "c2", FileID: "f2", Filename: "b.txt", SourceVersion: 2, TargetVersion: 0},
			{ID: "c3", FileID: "f3", Filename: "c.txt", SourceVersion: 6, TargetVersion: 5},
		},
	}
}

func allTheirs() []Decision {
	return []Decision{
		{ConflictID: "c1", Strategy: model.StrategyTheirs},
		{ConflictID: "c2", Strategy: model.StrategyOurs},
		{ConflictID: "c3", Strategy: model.StrategyManual, Content: []byte("merged\n")},
	}
}

func TestReady(t *testing.T) {
	mr := threeConflicts()

	tests := []struct {
		name      string
		decisions []Decision
		want      bool
	}{
		{"all decided", allTheirs(), true},
		{"missing one", allTheirs()[:2], false},
		{"manual without content", []Decision{
			{ConflictID: "c1", Strategy: model.StrategyOurs},
			{ConflictID: "c2", Strategy: model.StrategyOurs},
			{ConflictID: "c3", Strategy: model.StrategyManual, Content: []byte(" \n")},
		}, false},
		{"unknown strategy", []Decision{
			{ConflictID: "c1", Strategy: "both"},
			{ConflictID: "c2", Strategy: model.StrategyOurs},
			{ConflictID: "c3", Strategy: model.StrategyOurs},
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Ready(mr, tt.decisions); got != tt.want {
				t.Errorf("Ready() = %v, want %v", got, tt.want)
			}
		})
	}

	mr.Conflicts[2].Strategy = model.StrategyOurs
	if !Ready(mr, allTheirs()[:2]) {
		t.Error("Ready() = false when the undecided conflict is already resolved")
	}
}

func TestResolver_ResolveAndMerge(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	backend.mrs["mr-1"] = threeConflicts()
	r := NewResolver(backend, vcs.NewNopLogger())

	res, err := r.ResolveAndMerge(ctx, "mr-1", allTheirs())
	if err != nil {
		t.Fatalf("ResolveAndMerge() error = %v", err)
	}
	if res.Err != nil || !res.Merged {
		t.Fatalf("result = %+v, want merged", res)
	}
	for _, o := range res.Outcomes {
		if o.Status != OutcomeResolved {
			t.Errorf("outcome %s = %s, want resolved", o.ConflictID, o.Status)
		}
	}
	last := backend.calls[len(backend.calls)-1]
	if last != "MergeMergeRequest" || backend.callCount("ResolveConflict") != 3 {
		t.Errorf("calls = %v, want three resolutions then the merge", backend.calls)
	}
}

func TestResolver_FirstFailureAborts(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	backend.mrs["mr-1"] = threeConflicts()
	boom := errors.New("backend unavailable")
	backend.resolveErr["c2"] = boom
	r := NewResolver(backend, vcs.NewNopLogger())

	res, err := r.ResolveAndMerge(ctx, "mr-1", allTheirs())
	if err != nil {
		t.Fatalf("ResolveAndMerge() error = %v", err)
	}
	want := []OutcomeStatus{OutcomeResolved, OutcomeFailed, OutcomeSkipped}
	if len(res.Outcomes) != len(want) {
		t.Fatalf("len(Outcomes) = %d, want %d", len(res.Outcomes), len(want))
	}
	for i, o := range res.Outcomes {
		if o.Status != want[i] {
			t.Errorf("Outcomes[%d].Status = %s, want %s", i, o.Status, want[i])
		}
	}
	if !errors.Is(res.Err, boom) || !errors.Is(res.Outcomes[1].Err, boom) {
		t.Errorf("Err = %v, want the first failure", res.Err)
	}
	if res.Merged || backend.callCount("MergeMergeRequest") != 0 {
		t.Error("merge attempted after a failed resolution")
	}
	if backend.callCount("ResolveConflict c3") != 0 {
		t.Error("resolution continued after the first failure")
	}
}

func TestResolver_Rejects(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	backend.mrs["mr-1"] = threeConflicts()
	r := NewResolver(backend, vcs.NewNopLogger())

	if _, err := r.ResolveAndMerge(ctx, "mr-1", allTheirs()[:1]); !errors.Is(err, ErrNotReady) {
		t.Errorf("ResolveAndMerge(partial) error = %v, want ErrNotReady", err)
	}
	bad := append(allTheirs(), Decision{ConflictID: "c9", Strategy: model.StrategyOurs})
	if _, err := r.ResolveAndMerge(ctx, "mr-1", bad); !errors.Is(err, vcs.ErrNotFound) {
		t.Errorf("ResolveAndMerge(unknown conflict) error = %v, want ErrNotFound", err)
	}
	if _, err := r.ResolveAndMerge(ctx, "mr-404", nil); !errors.Is(err, vcs.ErrMergeRequestNotFound) {
		t.Errorf("ResolveAndMerge(missing) error = %v, want ErrMergeRequestNotFound", err)
	}
	if backend.callCount("ResolveConflict") != 0 {
		t.Error("rejected batch issued resolutions")
	}
}

func TestResolver_MergeFailure(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	backend.mrs["mr-1"] = threeConflicts()
	backend.mergeErr = vcs.ErrStaleMergeRequest
	r := NewResolver(backend, vcs.NewNopLogger())

	res, err := r.ResolveAndMerge(ctx, "mr-1", allTheirs())
	if err != nil {
		t.Fatalf("ResolveAndMerge() error = %v", err)
	}
	if res.Merged || !errors.Is(res.Err, vcs.ErrStaleMergeRequest) {
		t.Errorf("result = %+v, want stale merge failure", res)
	}
	if len(res.Outcomes) != 3 {
		t.Errorf("len(Outcomes) = %d, want 3", len(res.Outcomes))
	}
}

func TestResolver_Preview(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	mr := threeConflicts()
	mr.Conflicts = mr.Conflicts[:2]
	backend.mrs["mr-1"] = mr
	backend.versions["f1@3"] = &model.VersionDetail{Content: []byte("ours\n")}
	backend.versions["f1@4"] = &model.VersionDetail{Content: []byte("theirs\n")}
	backend.versions["f2@2"] = &model.VersionDetail{Content: []byte("only theirs\n")}
	r := NewResolver(backend, vcs.NewNopLogger())

	previews, err := r.Preview(ctx, "mr-1")
	if err != nil {
		t.Fatalf("Preview() error = %v", err)
	}
	if len(previews) != 2 {
		t.Fatalf("len(previews) = %d, want 2", len(previews))
	}
	if string(previews[0].Ours.Content) != "ours\n" || string(previews[0].Theirs.Content) != "theirs\n" {
		t.Errorf("previews[0] = %q / %q", previews[0].Ours.Content, previews[0].Theirs.Content)
	}
	if previews[1].Ours != nil || string(previews[1].Theirs.Content) != "only theirs\n" {
		t.Errorf("previews[1] = %+v", previews[1])
	}
	if backend.callCount("ResolveConflict") != 0 || backend.callCount("MergeMergeRequest") != 0 {
		t.Error("Preview changed resolution state")
	}

	delete(backend.versions, "f2@2")
	if _, err := r.Preview(ctx, "mr-1"); !errors.Is(err, vcs.ErrVersionNotFound) {
		t.Errorf("Preview() with a missing version error = %v, want ErrVersionNotFound", err)
	}
}
