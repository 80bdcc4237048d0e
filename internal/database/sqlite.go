package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"gitlite/internal/database/migrations"
	"gitlite/internal/database/sqlc"
	"gitlite/internal/model"
	"gitlite/internal/vcs"
)

// SQLiteDatabase implements the vcs.Database interface using SQLite.
type SQLiteDatabase struct {
	db      *sql.DB
	queries *sqlc.Queries
	path    string
}

// NewSQLiteDatabase opens the database at path and brings its schema up to date.
// path can be a file path or ":memory:" for an in-memory database.
func NewSQLiteDatabase(path string) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	return &SQLiteDatabase{
		db:      db,
		queries: sqlc.New(db),
		path:    path,
	}, nil
}

// NewSQLiteDatabaseFromDB wraps an existing database connection.
// The caller is responsible for the schema.
func NewSQLiteDatabaseFromDB(db *sql.DB) *SQLiteDatabase {
	return &SQLiteDatabase{
		db:      db,
		queries: sqlc.New(db),
	}
}

// OpenConnection opens a SQLite connection with foreign keys enabled.
//
// The pool is limited to a single connection: SQLite allows one writer at a
// time anyway, and an in-memory database only exists on the connection that
// created it.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

// uniqueViolation maps SQLite constraint errors to vcs.ErrConflict.
func uniqueViolation(err error) error {
	var se sqlite3.Error
	if errors.As(err, &se) &&
		(se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey) {
		return fmt.Errorf("%w: %v", vcs.ErrConflict, err)
	}
	return err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// Repository operations

func (s *SQLiteDatabase) CreateRepository(ctx context.Context, repo *model.Repository, defaultBranch *model.Branch) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)
	if err := qtx.InsertRepository(ctx, sqlc.InsertRepositoryParams{
		ID:          repo.ID,
		Name:        repo.Name,
		Description: repo.Description,
		CreatedAt:   repo.CreatedAt,
	}); err != nil {
		return fmt.Errorf("inserting repository: %w", uniqueViolation(err))
	}
	if err := qtx.InsertBranch(ctx, sqlc.InsertBranchParams{
		ID:           defaultBranch.ID,
		RepositoryID: repo.ID,
		Name:         defaultBranch.Name,
		IsDefault:    true,
		CreatedAt:    defaultBranch.CreatedAt,
	}); err != nil {
		return fmt.Errorf("inserting default branch: %w", uniqueViolation(err))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) FindRepository(ctx context.Context, id string) (*model.Repository, error) {
	row, err := s.queries.GetRepository(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding repository: %w", err)
	}
	return toRepository(row), nil
}

func (s *SQLiteDatabase) FindRepositoryByName(ctx context.Context, name string) (*model.Repository, error) {
	row, err := s.queries.GetRepositoryByName(ctx, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding repository by name: %w", err)
	}
	return toRepository(row), nil
}

func (s *SQLiteDatabase) ListRepositories(ctx context.Context) ([]*model.Repository, error) {
	rows, err := s.queries.ListRepositories(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing repositories: %w", err)
	}
	out := make([]*model.Repository, len(rows))
	for i, r := range rows {
		out[i] = toRepository(r)
	}
	return out, nil
}

func (s *SQLiteDatabase) DeleteRepository(ctx context.Context, id string) error {
	if err := s.queries.DeleteRepository(ctx, id); err != nil {
		return fmt.Errorf("deleting repository: %w", err)
	}
	return nil
}

// Branch operations

func (s *SQLiteDatabase) FindBranch(ctx context.Context, repoID, name string) (*model.Branch, error) {
	row, err := s.queries.GetBranchByName(ctx, sqlc.GetBranchByNameParams{RepositoryID: repoID, Name: name})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding branch: %w", err)
	}
	return toBranch(row), nil
}

func (s *SQLiteDatabase) FindDefaultBranch(ctx context.Context, repoID string) (*model.Branch, error) {
	row, err := s.queries.GetDefaultBranch(ctx, repoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding default branch: %w", err)
	}
	return toBranch(row), nil
}

func (s *SQLiteDatabase) ListBranches(ctx context.Context, repoID string) ([]*model.Branch, error) {
	rows, err := s.queries.ListBranches(ctx, repoID)
	if err != nil {
		return nil, fmt.Errorf("listing branches: %w", err)
	}
	out := make([]*model.Branch, len(rows))
	for i, r := range rows {
		out[i] = toBranch(r)
	}
	return out, nil
}

func (s *SQLiteDatabase) CreateBranch(ctx context.Context, branch *model.Branch) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)
	if err := qtx.InsertBranch(ctx, sqlc.InsertBranchParams{
		ID:             branch.ID,
		RepositoryID:   branch.RepositoryID,
		Name:           branch.Name,
		IsDefault:      branch.IsDefault,
		ParentBranchID: nullString(branch.ParentID),
		CreatedAt:      branch.CreatedAt,
	}); err != nil {
		return fmt.Errorf("inserting branch: %w", uniqueViolation(err))
	}

	if branch.ParentID != "" {
		if err := qtx.CopyBranchFiles(ctx, sqlc.CopyBranchFilesParams{
			BranchID:       branch.ID,
			ParentBranchID: branch.ParentID,
		}); err != nil {
			return fmt.Errorf("copying branch files: %w", err)
		}
		if err := qtx.CopyBranchHistory(ctx, sqlc.CopyBranchHistoryParams{
			BranchID:     branch.ID,
			FromBranchID: branch.ParentID,
		}); err != nil {
			return fmt.Errorf("copying branch history: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) DeleteBranch(ctx context.Context, branch *model.Branch, closedAt time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)
	if err := qtx.DeleteConflictsForBranch(ctx, sqlc.DeleteConflictsForBranchParams{
		RepositoryID: branch.RepositoryID,
		BranchName:   branch.Name,
	}); err != nil {
		return fmt.Errorf("discarding conflicts: %w", err)
	}
	if err := qtx.CloseMergeRequestsForBranch(ctx, sqlc.CloseMergeRequestsForBranchParams{
		UpdatedAt:    closedAt,
		RepositoryID: branch.RepositoryID,
		BranchName:   branch.Name,
	}); err != nil {
		return fmt.Errorf("closing merge requests: %w", err)
	}
	if err := qtx.DeleteBranch(ctx, branch.ID); err != nil {
		return fmt.Errorf("deleting branch: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// File and version operations

func (s *SQLiteDatabase) FindFile(ctx context.Context, id string) (*model.File, error) {
	row, err := s.queries.GetFile(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding file: %w", err)
	}
	return toFile(row), nil
}

func (s *SQLiteDatabase) FindFileByName(ctx context.Context, repoID, filename string) (*model.File, error) {
	row, err := s.queries.GetFileByName(ctx, sqlc.GetFileByNameParams{RepositoryID: repoID, Filename: filename})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding file by name: %w", err)
	}
	return toFile(row), nil
}

func (s *SQLiteDatabase) AppendVersion(ctx context.Context, params vcs.AppendParams) (*model.Version, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)
	if params.CreateFile {
		if err := qtx.InsertFile(ctx, sqlc.InsertFileParams{
			ID:           params.File.ID,
			RepositoryID: params.File.RepositoryID,
			Filename:     params.File.Filename,
			CreatedAt:    params.File.CreatedAt,
		}); err != nil {
			return nil, fmt.Errorf("inserting file: %w", uniqueViolation(err))
		}
	}

	v := params.Version
	if err := appendVersion(ctx, qtx, params.BranchID, &v); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return &v, nil
}

// appendVersion allocates the next number for v, records it and points the branch at it.
func appendVersion(ctx context.Context, qtx *sqlc.Queries, branchID string, v *model.Version) error {
	number, err := qtx.IncrementFileVersion(ctx, v.FileID)
	if err != nil {
		return fmt.Errorf("allocating version number: %w", err)
	}
	v.Number = number

	if err := qtx.InsertVersion(ctx, sqlc.InsertVersionParams{
		ID:            v.ID,
		FileID:        v.FileID,
		VersionNumber: v.Number,
		ContentID:     v.ContentID,
		Size:          v.Size,
		CommitMessage: v.CommitMessage,
		Author:        v.Author,
		BranchName:    v.Branch,
		CreatedAt:     v.CreatedAt,
	}); err != nil {
		return fmt.Errorf("inserting version: %w", uniqueViolation(err))
	}
	if err := qtx.UpsertBranchFile(ctx, sqlc.UpsertBranchFileParams{
		BranchID:      branchID,
		FileID:        v.FileID,
		VersionNumber: v.Number,
		UpdatedAt:     v.CreatedAt,
	}); err != nil {
		return fmt.Errorf("updating branch pointer: %w", err)
	}
	if err := qtx.InsertBranchHistory(ctx, sqlc.InsertBranchHistoryParams{
		BranchID:      branchID,
		FileID:        v.FileID,
		VersionNumber: v.Number,
	}); err != nil {
		return fmt.Errorf("recording branch history: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) FindVersion(ctx context.Context, fileID string, number int64) (*model.Version, error) {
	row, err := s.queries.GetVersion(ctx, sqlc.GetVersionParams{FileID: fileID, VersionNumber: number})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding version: %w", err)
	}
	return toVersion(row), nil
}

func (s *SQLiteDatabase) FindBranchPointer(ctx context.Context, branchID, fileID string) (*model.Pointer, error) {
	row, err := s.queries.GetBranchPointer(ctx, sqlc.GetBranchPointerParams{BranchID: branchID, FileID: fileID})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding branch pointer: %w", err)
	}
	return &model.Pointer{FileID: row.FileID, Filename: row.Filename, Version: row.VersionNumber}, nil
}

func (s *SQLiteDatabase) ListBranchPointers(ctx context.Context, branchID string) ([]model.Pointer, error) {
	rows, err := s.queries.ListBranchPointers(ctx, branchID)
	if err != nil {
		return nil, fmt.Errorf("listing branch pointers: %w", err)
	}
	out := make([]model.Pointer, len(rows))
	for i, r := range rows {
		out[i] = model.Pointer{FileID: r.FileID, Filename: r.Filename, Version: r.VersionNumber}
	}
	return out, nil
}

func (s *SQLiteDatabase) ListBranchFiles(ctx context.Context, branchID string) ([]*model.FileSummary, error) {
	rows, err := s.queries.ListBranchFiles(ctx, branchID)
	if err != nil {
		return nil, fmt.Errorf("listing branch files: %w", err)
	}
	out := make([]*model.FileSummary, len(rows))
	for i, r := range rows {
		out[i] = &model.FileSummary{
			ID:        r.ID,
			Filename:  r.Filename,
			Version:   r.VersionNumber,
			Size:      r.Size,
			UpdatedAt: r.UpdatedAt,
		}
	}
	return out, nil
}

func (s *SQLiteDatabase) RemoveBranchPointer(ctx context.Context, branchID, fileID string) error {
	if err := s.queries.DeleteBranchFile(ctx, sqlc.DeleteBranchFileParams{BranchID: branchID, FileID: fileID}); err != nil {
		return fmt.Errorf("removing branch pointer: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) IsVersionInBranch(ctx context.Context, branchID, fileID string, number int64) (bool, error) {
	n, err := s.queries.CountBranchHistory(ctx, sqlc.CountBranchHistoryParams{
		BranchID:      branchID,
		FileID:        fileID,
		VersionNumber: number,
	})
	if err != nil {
		return false, fmt.Errorf("checking branch history: %w", err)
	}
	return n > 0, nil
}

func (s *SQLiteDatabase) ListBranchVersions(ctx context.Context, branchID, fileID string) ([]*model.Version, error) {
	rows, err := s.queries.ListBranchVersions(ctx, sqlc.ListBranchVersionsParams{BranchID: branchID, FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("listing branch versions: %w", err)
	}
	return toVersions(rows), nil
}

func (s *SQLiteDatabase) ListBranchHistory(ctx context.Context, branchID string, limit int) ([]*model.Version, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.queries.ListBranchHistory(ctx, sqlc.ListBranchHistoryParams{BranchID: branchID, Limit: int64(limit)})
	if err != nil {
		return nil, fmt.Errorf("listing branch history: %w", err)
	}
	return toVersions(rows), nil
}

func (s *SQLiteDatabase) CommonAncestors(ctx context.Context, sourceBranchID, targetBranchID string) (map[string]int64, error) {
	rows, err := s.queries.CommonAncestors(ctx, sqlc.CommonAncestorsParams{
		SourceBranchID: sourceBranchID,
		TargetBranchID: targetBranchID,
	})
	if err != nil {
		return nil, fmt.Errorf("finding common ancestors: %w", err)
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.FileID] = r.VersionNumber
	}
	return out, nil
}

// Content operations

func (s *SQLiteDatabase) HasContent(ctx context.Context, checksum string) (bool, error) {
	_, err := s.queries.GetContent(ctx, checksum)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("finding content: %w", err)
	}
	return true, nil
}

func (s *SQLiteDatabase) CreateContent(ctx context.Context, checksum string, size int64) error {
	if err := s.queries.InsertContent(ctx, sqlc.InsertContentParams{
		ID:        checksum,
		Size:      size,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		return fmt.Errorf("inserting content: %w", err)
	}
	return nil
}

// Merge request operations

func (s *SQLiteDatabase) CreateMergeRequest(ctx context.Context, mr *model.MergeRequest) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)
	if err := qtx.InsertMergeRequest(ctx, sqlc.InsertMergeRequestParams{
		ID:           mr.ID,
		RepositoryID: mr.RepositoryID,
		SourceBranch: mr.SourceBranch,
		TargetBranch: mr.TargetBranch,
		Title:        mr.Title,
		Description:  mr.Description,
		Status:       string(mr.Status),
		CreatedAt:    mr.CreatedAt,
		UpdatedAt:    mr.UpdatedAt,
	}); err != nil {
		return fmt.Errorf("inserting merge request: %w", uniqueViolation(err))
	}
	if err := insertConflicts(ctx, qtx, mr.Conflicts); err != nil {
		return err
	}
	if err := insertPointers(ctx, qtx, mr.ID, mr.Evaluated); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func insertPointers(ctx context.Context, qtx *sqlc.Queries, mrID string, pointers []model.MergePointer) error {
	for _, p := range pointers {
		if err := qtx.InsertMergeRequestPointer(ctx, sqlc.InsertMergeRequestPointerParams{
			MergeRequestID: mrID,
			FileID:         p.FileID,
			SourceVersion:  p.SourceVersion,
			TargetVersion:  p.TargetVersion,
		}); err != nil {
			return fmt.Errorf("inserting merge pointer for %s: %w", p.FileID, err)
		}
	}
	return nil
}

func insertConflicts(ctx context.Context, qtx *sqlc.Queries, conflicts []model.Conflict) error {
	for _, c := range conflicts {
		if err := qtx.InsertConflict(ctx, sqlc.InsertConflictParams{
			ID:                 c.ID,
			MergeRequestID:     c.MergeRequestID,
			FileID:             c.FileID,
			Filename:           c.Filename,
			ConflictType:       string(c.Type),
			SourceVersion:      c.SourceVersion,
			TargetVersion:      c.TargetVersion,
			BaseVersion:        c.BaseVersion,
			ResolutionStrategy: nullString(string(c.Strategy)),
			ResolvedContentID:  nullString(c.ResolvedContentID),
			ResolvedAt:         nullTime(c.ResolvedAt),
		}); err != nil {
			return fmt.Errorf("inserting conflict for %s: %w", c.Filename, err)
		}
	}
	return nil
}

func (s *SQLiteDatabase) FindMergeRequest(ctx context.Context, id string) (*model.MergeRequest, error) {
	row, err := s.queries.GetMergeRequest(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding merge request: %w", err)
	}
	mr := toMergeRequest(row)
	if err := s.loadConflicts(ctx, mr); err != nil {
		return nil, err
	}
	return mr, nil
}

func (s *SQLiteDatabase) ListMergeRequests(ctx context.Context, repoID string, status model.MergeStatus) ([]*model.MergeRequest, error) {
	var (
		rows []sqlc.MergeRequest
		err  error
	)
	if status == "" {
		rows, err = s.queries.ListMergeRequests(ctx, repoID)
	} else {
		rows, err = s.queries.ListMergeRequestsByStatus(ctx, sqlc.ListMergeRequestsByStatusParams{
			RepositoryID: repoID,
			Status:       string(status),
		})
	}
	if err != nil {
		return nil, fmt.Errorf("listing merge requests: %w", err)
	}

	out := make([]*model.MergeRequest, len(rows))
	for i, r := range rows {
		mr := toMergeRequest(r)
		if err := s.loadConflicts(ctx, mr); err != nil {
			return nil, err
		}
		out[i] = mr
	}
	return out, nil
}

func (s *SQLiteDatabase) loadConflicts(ctx context.Context, mr *model.MergeRequest) error {
	rows, err := s.queries.ListConflicts(ctx, mr.ID)
	if err != nil {
		return fmt.Errorf("listing conflicts: %w", err)
	}
	mr.Conflicts = make([]model.Conflict, len(rows))
	for i, r := range rows {
		mr.Conflicts[i] = *toConflict(r)
	}

	pointers, err := s.queries.ListMergeRequestPointers(ctx, mr.ID)
	if err != nil {
		return fmt.Errorf("listing merge pointers: %w", err)
	}
	mr.Evaluated = make([]model.MergePointer, len(pointers))
	for i, p := range pointers {
		mr.Evaluated[i] = model.MergePointer{FileID: p.FileID, SourceVersion: p.SourceVersion, TargetVersion: p.TargetVersion}
	}
	return nil
}

func (s *SQLiteDatabase) UpdateMergeRequest(ctx context.Context, mr *model.MergeRequest) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)
	if err := qtx.UpdateMergeRequestStatus(ctx, sqlc.UpdateMergeRequestStatusParams{
		Status:    string(mr.Status),
		UpdatedAt: mr.UpdatedAt,
		MergedAt:  nullTime(mr.MergedAt),
		ID:        mr.ID,
	}); err != nil {
		return fmt.Errorf("updating merge request: %w", err)
	}
	if err := qtx.DeleteConflicts(ctx, mr.ID); err != nil {
		return fmt.Errorf("deleting conflicts: %w", err)
	}
	if err := insertConflicts(ctx, qtx, mr.Conflicts); err != nil {
		return err
	}
	if err := qtx.DeleteMergeRequestPointers(ctx, mr.ID); err != nil {
		return fmt.Errorf("deleting merge pointers: %w", err)
	}
	if err := insertPointers(ctx, qtx, mr.ID, mr.Evaluated); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) FindConflict(ctx context.Context, id string) (*model.Conflict, error) {
	row, err := s.queries.GetConflict(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding conflict: %w", err)
	}
	return toConflict(row), nil
}

func (s *SQLiteDatabase) ResolveConflict(ctx context.Context, conflict *model.Conflict) error {
	if err := s.queries.ResolveConflict(ctx, sqlc.ResolveConflictParams{
		ResolutionStrategy: nullString(string(conflict.Strategy)),
		ResolvedContentID:  nullString(conflict.ResolvedContentID),
		ResolvedAt:         nullTime(conflict.ResolvedAt),
		ID:                 conflict.ID,
	}); err != nil {
		return fmt.Errorf("resolving conflict: %w", err)
	}
	return nil
}

// ApplyMerge runs the whole merge in one transaction. Every expected pointer
// is checked first so a concurrent write to either branch aborts the merge
// without side effects.
func (s *SQLiteDatabase) ApplyMerge(ctx context.Context, app *vcs.MergeApplication) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)

	mr, err := qtx.GetMergeRequest(ctx, app.MergeRequestID)
	if err != nil {
		return fmt.Errorf("finding merge request: %w", err)
	}
	if model.MergeStatus(mr.Status).Terminal() {
		return fmt.Errorf("%w: %s is %s", vcs.ErrMergeRequestState, mr.ID, mr.Status)
	}

	current := func(branchID string) (map[string]int64, error) {
		rows, err := qtx.ListBranchPointers(ctx, branchID)
		if err != nil {
			return nil, fmt.Errorf("listing branch pointers: %w", err)
		}
		m := make(map[string]int64, len(rows))
		for _, r := range rows {
			m[r.FileID] = r.VersionNumber
		}
		return m, nil
	}
	source, err := current(app.SourceBranchID)
	if err != nil {
		return err
	}
	target, err := current(app.TargetBranchID)
	if err != nil {
		return err
	}

	expected := make(map[string]bool, len(app.Expected))
	for _, e := range app.Expected {
		expected[e.FileID] = true
		if source[e.FileID] != e.Source || target[e.FileID] != e.Target {
			return fmt.Errorf("%w: %s moved", vcs.ErrStaleMergeRequest, e.FileID)
		}
	}
	for id := range source {
		if !expected[id] {
			return fmt.Errorf("%w: %s appeared on source", vcs.ErrStaleMergeRequest, id)
		}
	}
	for id := range target {
		if !expected[id] {
			return fmt.Errorf("%w: %s appeared on target", vcs.ErrStaleMergeRequest, id)
		}
	}

	for _, a := range app.Adopt {
		if a.Version == 0 {
			if err := qtx.DeleteBranchFile(ctx, sqlc.DeleteBranchFileParams{BranchID: app.TargetBranchID, FileID: a.FileID}); err != nil {
				return fmt.Errorf("removing target pointer: %w", err)
			}
			continue
		}
		if err := qtx.UpsertBranchFile(ctx, sqlc.UpsertBranchFileParams{
			BranchID:      app.TargetBranchID,
			FileID:        a.FileID,
			VersionNumber: a.Version,
			UpdatedAt:     app.MergedAt,
		}); err != nil {
			return fmt.Errorf("adopting source version: %w", err)
		}
	}

	// The target's history absorbs the source's, so decisions made here are
	// not reported as conflicts again by later merges.
	if err := qtx.CopyBranchHistory(ctx, sqlc.CopyBranchHistoryParams{
		BranchID:     app.TargetBranchID,
		FromBranchID: app.SourceBranchID,
	}); err != nil {
		return fmt.Errorf("merging branch history: %w", err)
	}

	for i := range app.Versions {
		v := &app.Versions[i]
		content, err := qtx.GetContent(ctx, v.ContentID)
		if err != nil {
			return fmt.Errorf("finding resolved content: %w", err)
		}
		v.Size = content.Size
		if err := appendVersion(ctx, qtx, app.TargetBranchID, v); err != nil {
			return err
		}
	}

	if err := qtx.DeleteConflicts(ctx, app.MergeRequestID); err != nil {
		return fmt.Errorf("deleting conflicts: %w", err)
	}
	if err := qtx.UpdateMergeRequestStatus(ctx, sqlc.UpdateMergeRequestStatusParams{
		Status:    string(model.MergeStatusMerged),
		UpdatedAt: app.MergedAt,
		MergedAt:  sql.NullTime{Time: app.MergedAt, Valid: true},
		ID:        app.MergeRequestID,
	}); err != nil {
		return fmt.Errorf("marking merge request merged: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Operation log

func (s *SQLiteDatabase) CreateOperation(ctx context.Context, op *model.Operation) error {
	id, err := s.queries.InsertOperation(ctx, sqlc.InsertOperationParams{
		Operation:  op.Operation,
		Parameters: op.Parameters,
		StartedAt:  op.StartedAt,
	})
	if err != nil {
		return fmt.Errorf("inserting operation: %w", err)
	}
	op.ID = id
	op.Status = "running"
	return nil
}

func (s *SQLiteDatabase) FinishOperation(ctx context.Context, id int64, status string, finishedAt time.Time) error {
	if err := s.queries.FinishOperation(ctx, sqlc.FinishOperationParams{
		Status:     status,
		FinishedAt: sql.NullTime{Time: finishedAt, Valid: true},
		ID:         id,
	}); err != nil {
		return fmt.Errorf("finishing operation: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) ListOperations(ctx context.Context, limit int) ([]*model.Operation, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.queries.ListOperations(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	out := make([]*model.Operation, len(rows))
	for i, r := range rows {
		out[i] = &model.Operation{
			ID:         r.ID,
			Operation:  r.Operation,
			Parameters: r.Parameters,
			Status:     r.Status,
			StartedAt:  r.StartedAt,
			FinishedAt: timePtr(r.FinishedAt),
		}
	}
	return out, nil
}

// Path returns the database file path, empty for wrapped connections.
func (s *SQLiteDatabase) Path() string {
	return s.path
}

func (s *SQLiteDatabase) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// BackupTo writes a consistent copy of the database to destPath using VACUUM INTO.
func (s *SQLiteDatabase) BackupTo(destPath string) error {
	if _, err := s.db.Exec("VACUUM INTO ?", destPath); err != nil {
		return fmt.Errorf("backing up database: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

var _ vcs.Database = (*SQLiteDatabase)(nil)
