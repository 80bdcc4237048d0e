package database

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"gitlite/internal/model"
	"gitlite/internal/vcs"
)

var epoch = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

func newTestDB(t *testing.T) *SQLiteDatabase {
	t.Helper()

	db, err := NewSQLiteDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

type fixture struct {
	db   *SQLiteDatabase
	repo *model.Repository
	main *model.Branch
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	repo := &model.Repository{ID: uuid.NewString(), Name: "docs", CreatedAt: epoch}
	main := &model.Branch{ID: uuid.NewString(), RepositoryID: repo.ID, Name: "main", IsDefault: true, CreatedAt: epoch}
	if err := db.CreateRepository(context.Background(), repo, main); err != nil {
		t.Fatalf("CreateRepository() error = %v", err)
	}
	return &fixture{db: db, repo: repo, main: main}
}

func (f *fixture) branch(t *testing.T, name string, parent *model.Branch) *model.Branch {
	t.Helper()
	b := &model.Branch{ID: uuid.NewString(), RepositoryID: f.repo.ID, Name: name, ParentID: parent.ID, CreatedAt: epoch}
	if err := f.db.CreateBranch(context.Background(), b); err != nil {
		t.Fatalf("CreateBranch(%s) error = %v", name, err)
	}
	return b
}

// write appends a version of file on branch, inserting the file when new.
func (f *fixture) write(t *testing.T, file *model.File, create bool, b *model.Branch, content string) *model.Version {
	t.Helper()
	ctx := context.Background()
	sum := "sum-" + content
	if err := f.db.CreateContent(ctx, sum, int64(len(content))); err != nil {
		t.Fatalf("CreateContent() error = %v", err)
	}
	v, err := f.db.AppendVersion(ctx, vcs.AppendParams{
		File:       file,
		CreateFile: create,
		BranchID:   b.ID,
		Version: model.Version{
			ID:            uuid.NewString(),
			FileID:        file.ID,
			ContentID:     sum,
			Size:          int64(len(content)),
			CommitMessage: "write " + content,
			Author:        "ada",
			Branch:        b.Name,
			CreatedAt:     epoch,
		},
	})
	if err != nil {
		t.Fatalf("AppendVersion() error = %v", err)
	}
	return v
}

func (f *fixture) newFile(name string) *model.File {
	return &model.File{ID: uuid.NewString(), RepositoryID: f.repo.ID, Filename: name, CreatedAt: epoch}
}

func TestSQLiteDatabase_Repositories(t *testing.T) {
	ctx := context.Background()

	t.Run("find returns nil when missing", func(t *testing.T) {
		db := newTestDB(t)
		got, err := db.FindRepository(ctx, "nope")
		if err != nil {
			t.Fatalf("FindRepository() error = %v", err)
		}
		if got != nil {
			t.Errorf("FindRepository() = %v, want nil", got)
		}
	})

	t.Run("creates default branch", func(t *testing.T) {
		f := newFixture(t)
		b, err := f.db.FindDefaultBranch(ctx, f.repo.ID)
		if err != nil {
			t.Fatalf("FindDefaultBranch() error = %v", err)
		}
		if b == nil || b.Name != "main" || !b.IsDefault {
			t.Errorf("FindDefaultBranch() = %+v, want default main", b)
		}
	})

	t.Run("duplicate name is a conflict", func(t *testing.T) {
		f := newFixture(t)
		dup := &model.Repository{ID: uuid.NewString(), Name: "docs", CreatedAt: epoch}
		b := &model.Branch{ID: uuid.NewString(), RepositoryID: dup.ID, Name: "main", CreatedAt: epoch}
		err := f.db.CreateRepository(ctx, dup, b)
		if !errors.Is(err, vcs.ErrConflict) {
			t.Errorf("CreateRepository() error = %v, want ErrConflict", err)
		}
	})

	t.Run("delete cascades", func(t *testing.T) {
		f := newFixture(t)
		f.write(t, f.newFile("a.txt"), true, f.main, "hello")
		if err := f.db.DeleteRepository(ctx, f.repo.ID); err != nil {
			t.Fatalf("DeleteRepository() error = %v", err)
		}
		got, err := f.db.FindFileByName(ctx, f.repo.ID, "a.txt")
		if err != nil {
			t.Fatalf("FindFileByName() error = %v", err)
		}
		if got != nil {
			t.Errorf("FindFileByName() = %+v after delete, want nil", got)
		}
	})
}

func TestSQLiteDatabase_AppendVersion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	file := f.newFile("notes.md")

	v1 := f.write(t, file, true, f.main, "one")
	v2 := f.write(t, file, false, f.main, "two")
	if v1.Number != 1 || v2.Number != 2 {
		t.Fatalf("version numbers = %d, %d, want 1, 2", v1.Number, v2.Number)
	}

	ptr, err := f.db.FindBranchPointer(ctx, f.main.ID, file.ID)
	if err != nil {
		t.Fatalf("FindBranchPointer() error = %v", err)
	}
	if ptr.Version != 2 || ptr.Filename != "notes.md" {
		t.Errorf("FindBranchPointer() = %+v, want notes.md@2", ptr)
	}

	stored, err := f.db.FindFile(ctx, file.ID)
	if err != nil {
		t.Fatalf("FindFile() error = %v", err)
	}
	if stored.LatestVersion != 2 {
		t.Errorf("LatestVersion = %d, want 2", stored.LatestVersion)
	}

	versions, err := f.db.ListBranchVersions(ctx, f.main.ID, file.ID)
	if err != nil {
		t.Fatalf("ListBranchVersions() error = %v", err)
	}
	if len(versions) != 2 || versions[0].Number != 2 {
		t.Errorf("ListBranchVersions() = %d versions, first %d; want 2, newest first", len(versions), versions[0].Number)
	}

	files, err := f.db.ListBranchFiles(ctx, f.main.ID)
	if err != nil {
		t.Fatalf("ListBranchFiles() error = %v", err)
	}
	if len(files) != 1 || files[0].Size != 3 || files[0].Version != 2 {
		t.Errorf("ListBranchFiles() = %+v, want one file at version 2 with size 3", files)
	}

	t.Run("duplicate file name is a conflict", func(t *testing.T) {
		dup := f.newFile("notes.md")
		_, err := f.db.AppendVersion(ctx, vcs.AppendParams{
			File: dup, CreateFile: true, BranchID: f.main.ID,
			Version: model.Version{ID: uuid.NewString(), FileID: dup.ID, ContentID: "sum-one", CreatedAt: epoch},
		})
		if !errors.Is(err, vcs.ErrConflict) {
			t.Errorf("AppendVersion() error = %v, want ErrConflict", err)
		}
	})
}

func TestSQLiteDatabase_CreateBranchCopiesState(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	file := f.newFile("a.txt")
	f.write(t, file, true, f.main, "base")

	feature := f.branch(t, "feature", f.main)
	f.write(t, file, false, f.main, "main-only")

	ptr, err := f.db.FindBranchPointer(ctx, feature.ID, file.ID)
	if err != nil {
		t.Fatalf("FindBranchPointer() error = %v", err)
	}
	if ptr.Version != 1 {
		t.Errorf("feature pointer = %d, want 1", ptr.Version)
	}

	in, err := f.db.IsVersionInBranch(ctx, feature.ID, file.ID, 2)
	if err != nil {
		t.Fatalf("IsVersionInBranch() error = %v", err)
	}
	if in {
		t.Error("IsVersionInBranch(feature, 2) = true, want false")
	}

	bases, err := f.db.CommonAncestors(ctx, feature.ID, f.main.ID)
	if err != nil {
		t.Fatalf("CommonAncestors() error = %v", err)
	}
	if bases[file.ID] != 1 {
		t.Errorf("CommonAncestors()[a.txt] = %d, want 1", bases[file.ID])
	}
}

func TestSQLiteDatabase_ApplyMerge(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*fixture, *model.Branch, *model.File, *model.MergeRequest) {
		t.Helper()
		f := newFixture(t)
		file := f.newFile("a.txt")
		f.write(t, file, true, f.main, "base")
		feature := f.branch(t, "feature", f.main)
		f.write(t, file, false, feature, "feature")

		mr := &model.MergeRequest{
			ID: uuid.NewString(), RepositoryID: f.repo.ID, SourceBranch: "feature", TargetBranch: "main",
			Title: "t", Status: model.MergeStatusOpen, CreatedAt: epoch, UpdatedAt: epoch,
		}
		if err := f.db.CreateMergeRequest(ctx, mr); err != nil {
			t.Fatalf("CreateMergeRequest() error = %v", err)
		}
		return f, feature, file, mr
	}

	t.Run("adopts source version", func(t *testing.T) {
		f, feature, file, mr := setup(t)
		err := f.db.ApplyMerge(ctx, &vcs.MergeApplication{
			MergeRequestID: mr.ID,
			SourceBranchID: feature.ID,
			TargetBranchID: f.main.ID,
			Expected:       []vcs.PointerExpectation{{FileID: file.ID, Source: 2, Target: 1}},
			Adopt:          []vcs.Adoption{{FileID: file.ID, Version: 2}},
			MergedAt:       epoch,
		})
		if err != nil {
			t.Fatalf("ApplyMerge() error = %v", err)
		}

		ptr, _ := f.db.FindBranchPointer(ctx, f.main.ID, file.ID)
		if ptr.Version != 2 {
			t.Errorf("main pointer = %d, want 2", ptr.Version)
		}
		got, _ := f.db.FindMergeRequest(ctx, mr.ID)
		if got.Status != model.MergeStatusMerged || got.MergedAt == nil {
			t.Errorf("merge request = %s merged_at %v, want merged with time", got.Status, got.MergedAt)
		}
		in, _ := f.db.IsVersionInBranch(ctx, f.main.ID, file.ID, 2)
		if !in {
			t.Error("version 2 not in main history after merge")
		}
	})

	t.Run("stale expectation aborts", func(t *testing.T) {
		f, feature, file, mr := setup(t)
		f.write(t, file, false, f.main, "moved")

		err := f.db.ApplyMerge(ctx, &vcs.MergeApplication{
			MergeRequestID: mr.ID,
			SourceBranchID: feature.ID,
			TargetBranchID: f.main.ID,
			Expected:       []vcs.PointerExpectation{{FileID: file.ID, Source: 2, Target: 1}},
			Adopt:          []vcs.Adoption{{FileID: file.ID, Version: 2}},
			MergedAt:       epoch,
		})
		if !errors.Is(err, vcs.ErrStaleMergeRequest) {
			t.Fatalf("ApplyMerge() error = %v, want ErrStaleMergeRequest", err)
		}
		ptr, _ := f.db.FindBranchPointer(ctx, f.main.ID, file.ID)
		if ptr.Version != 3 {
			t.Errorf("main pointer = %d, want untouched 3", ptr.Version)
		}
		got, _ := f.db.FindMergeRequest(ctx, mr.ID)
		if got.Status != model.MergeStatusOpen {
			t.Errorf("status = %s, want open", got.Status)
		}
	})

	t.Run("manual version gets next number", func(t *testing.T) {
		f, feature, file, mr := setup(t)
		if err := f.db.CreateContent(ctx, "sum-manual", 6); err != nil {
			t.Fatalf("CreateContent() error = %v", err)
		}
		err := f.db.ApplyMerge(ctx, &vcs.MergeApplication{
			MergeRequestID: mr.ID,
			SourceBranchID: feature.ID,
			TargetBranchID: f.main.ID,
			Expected:       []vcs.PointerExpectation{{FileID: file.ID, Source: 2, Target: 1}},
			Versions: []model.Version{{
				ID: uuid.NewString(), FileID: file.ID, ContentID: "sum-manual",
				CommitMessage: "resolve", Author: "ada", Branch: "main", CreatedAt: epoch,
			}},
			MergedAt: epoch,
		})
		if err != nil {
			t.Fatalf("ApplyMerge() error = %v", err)
		}
		v, _ := f.db.FindVersion(ctx, file.ID, 3)
		if v == nil || v.Size != 6 {
			t.Fatalf("FindVersion(3) = %+v, want size 6", v)
		}
		ptr, _ := f.db.FindBranchPointer(ctx, f.main.ID, file.ID)
		if ptr.Version != 3 {
			t.Errorf("main pointer = %d, want 3", ptr.Version)
		}
	})
}

func TestSQLiteDatabase_DeleteBranchClosesMergeRequests(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	file := f.newFile("a.txt")
	f.write(t, file, true, f.main, "base")
	feature := f.branch(t, "feature", f.main)

	mr := &model.MergeRequest{
		ID: uuid.NewString(), RepositoryID: f.repo.ID, SourceBranch: "feature", TargetBranch: "main",
		Title: "t", Status: model.MergeStatusConflicts, CreatedAt: epoch, UpdatedAt: epoch,
		Conflicts: nil,
	}
	mr.Conflicts = []model.Conflict{{
		ID: uuid.NewString(), MergeRequestID: mr.ID, FileID: file.ID, Filename: "a.txt",
		Type: model.ConflictModifyModify, SourceVersion: 2, TargetVersion: 3, BaseVersion: 1,
	}}
	if err := f.db.CreateMergeRequest(ctx, mr); err != nil {
		t.Fatalf("CreateMergeRequest() error = %v", err)
	}

	closedAt := epoch.Add(time.Hour)
	if err := f.db.DeleteBranch(ctx, feature, closedAt); err != nil {
		t.Fatalf("DeleteBranch() error = %v", err)
	}

	got, err := f.db.FindMergeRequest(ctx, mr.ID)
	if err != nil {
		t.Fatalf("FindMergeRequest() error = %v", err)
	}
	if got.Status != model.MergeStatusClosed {
		t.Errorf("status = %s, want closed", got.Status)
	}
	if len(got.Conflicts) != 0 {
		t.Errorf("len(Conflicts) = %d, want 0", len(got.Conflicts))
	}
	if b, _ := f.db.FindBranch(ctx, f.repo.ID, "feature"); b != nil {
		t.Errorf("FindBranch(feature) = %+v after delete, want nil", b)
	}
}

func TestSQLiteDatabase_ConflictResolution(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	file := f.newFile("a.txt")
	f.write(t, file, true, f.main, "base")

	mr := &model.MergeRequest{
		ID: uuid.NewString(), RepositoryID: f.repo.ID, SourceBranch: "feature", TargetBranch: "main",
		Title: "t", Status: model.MergeStatusConflicts, CreatedAt: epoch, UpdatedAt: epoch,
	}
	c := model.Conflict{
		ID: uuid.NewString(), MergeRequestID: mr.ID, FileID: file.ID, Filename: "a.txt",
		Type: model.ConflictModifyModify, SourceVersion: 3, TargetVersion: 2, BaseVersion: 1,
	}
	mr.Conflicts = []model.Conflict{c}
	mr.Evaluated = []model.MergePointer{{FileID: file.ID, SourceVersion: 3, TargetVersion: 2}}
	if err := f.db.CreateMergeRequest(ctx, mr); err != nil {
		t.Fatalf("CreateMergeRequest() error = %v", err)
	}
	stored, err := f.db.FindMergeRequest(ctx, mr.ID)
	if err != nil {
		t.Fatalf("FindMergeRequest() error = %v", err)
	}
	if !reflect.DeepEqual(stored.Evaluated, mr.Evaluated) {
		t.Errorf("Evaluated = %+v, want %+v", stored.Evaluated, mr.Evaluated)
	}

	stored.Evaluated = []model.MergePointer{{FileID: file.ID, SourceVersion: 4, TargetVersion: 2}}
	if err := f.db.UpdateMergeRequest(ctx, stored); err != nil {
		t.Fatalf("UpdateMergeRequest() error = %v", err)
	}
	again, err := f.db.FindMergeRequest(ctx, mr.ID)
	if err != nil {
		t.Fatalf("FindMergeRequest() error = %v", err)
	}
	if !reflect.DeepEqual(again.Evaluated, stored.Evaluated) {
		t.Errorf("Evaluated after update = %+v, want %+v", again.Evaluated, stored.Evaluated)
	}

	resolvedAt := epoch.Add(time.Minute)
	c.Strategy = model.StrategyTheirs
	c.ResolvedAt = &resolvedAt
	if err := f.db.ResolveConflict(ctx, &c); err != nil {
		t.Fatalf("ResolveConflict() error = %v", err)
	}

	got, err := f.db.FindConflict(ctx, c.ID)
	if err != nil {
		t.Fatalf("FindConflict() error = %v", err)
	}
	if !got.Resolved() || got.Strategy != model.StrategyTheirs {
		t.Errorf("FindConflict() = %+v, want resolved theirs", got)
	}

	list, err := f.db.ListMergeRequests(ctx, f.repo.ID, model.MergeStatusConflicts)
	if err != nil {
		t.Fatalf("ListMergeRequests() error = %v", err)
	}
	if len(list) != 1 || len(list[0].Conflicts) != 1 {
		t.Fatalf("ListMergeRequests() = %d requests, want 1 with 1 conflict", len(list))
	}
	none, err := f.db.ListMergeRequests(ctx, f.repo.ID, model.MergeStatusMerged)
	if err != nil {
		t.Fatalf("ListMergeRequests(merged) error = %v", err)
	}
	if len(none) != 0 {
		t.Errorf("ListMergeRequests(merged) = %d, want 0", len(none))
	}
}

func TestSQLiteDatabase_Operations(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	op := &model.Operation{Operation: "file add", Parameters: "notes.md", StartedAt: epoch}
	if err := db.CreateOperation(ctx, op); err != nil {
		t.Fatalf("CreateOperation() error = %v", err)
	}
	if op.ID == 0 {
		t.Fatal("CreateOperation() did not assign an ID")
	}
	pending := &model.Operation{Operation: "file rm", Parameters: "draft.md", StartedAt: epoch}
	if err := db.CreateOperation(ctx, pending); err != nil {
		t.Fatalf("CreateOperation() error = %v", err)
	}
	if pending.ID <= op.ID {
		t.Fatalf("second operation ID = %d, want > %d", pending.ID, op.ID)
	}
	if err := db.FinishOperation(ctx, op.ID, "success", epoch.Add(time.Second)); err != nil {
		t.Fatalf("FinishOperation() error = %v", err)
	}

	ops, err := db.ListOperations(ctx, 10)
	if err != nil {
		t.Fatalf("ListOperations() error = %v", err)
	}
	if len(ops) != 2 {
		t.Fatalf("len(ListOperations()) = %d, want 2", len(ops))
	}
	// newest first
	if ops[0].ID != pending.ID || ops[0].Status != "running" || ops[0].FinishedAt != nil {
		t.Errorf("ops[0] = %+v, want unfinished %d", ops[0], pending.ID)
	}
	if ops[1].ID != op.ID || ops[1].Status != "success" || ops[1].FinishedAt == nil {
		t.Errorf("ops[1] = %+v, want finished success", ops[1])
	}
}

func TestSQLiteDatabase_BackupTo(t *testing.T) {
	f := newFixture(t)
	dest := filepath.Join(t.TempDir(), "backup.db")
	if err := f.db.BackupTo(dest); err != nil {
		t.Fatalf("BackupTo() error = %v", err)
	}

	copyDB, err := NewSQLiteDatabase(dest)
	if err != nil {
		t.Fatalf("opening backup: %v", err)
	}
	defer copyDB.Close()

	repo, err := copyDB.FindRepositoryByName(context.Background(), "docs")
	if err != nil {
		t.Fatalf("FindRepositoryByName() error = %v", err)
	}
	if repo == nil {
		t.Error("backup is missing the repository")
	}
}
