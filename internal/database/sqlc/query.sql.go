// Hand-maintained in the shape sqlc emits for query.sql and schema.sql.
// Running sqlc generate (see ../generate.go) replaces it wholesale.

package sqlc

import (
	"context"
	"database/sql"
	"time"
)

const insertRepository = `-- name: InsertRepository
INSERT INTO repositories (id, name, description, created_at) VALUES (?, ?, ?, ?)
`

type InsertRepositoryParams struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}

func (q *Queries) InsertRepository(ctx context.Context, arg InsertRepositoryParams) error {
	_, err := q.db.ExecContext(ctx, insertRepository, arg.ID, arg.Name, arg.Description, arg.CreatedAt)
	return err
}

const getRepository = `-- name: GetRepository
SELECT id, name, description, created_at FROM repositories WHERE id = ?
`

func (q *Queries) GetRepository(ctx context.Context, id string) (Repository, error) {
	row := q.db.QueryRowContext(ctx, getRepository, id)
	var i Repository
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Description,
		&i.CreatedAt,
	)
	return i, err
}

const getRepositoryByName = `-- name: GetRepositoryByName
SELECT id, name, description, created_at FROM repositories WHERE name = ?
`

func (q *Queries) GetRepositoryByName(ctx context.Context, name string) (Repository, error) {
	row := q.db.QueryRowContext(ctx, getRepositoryByName, name)
	var i Repository
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Description,
		&i.CreatedAt,
	)
	return i, err
}

const listRepositories = `-- name: ListRepositories
SELECT id, name, description, created_at FROM repositories ORDER BY name
`

func (q *Queries) ListRepositories(ctx context.Context) ([]Repository, error) {
	rows, err := q.db.QueryContext(ctx, listRepositories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Repository{}
	for rows.Next() {
		var i Repository
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Description,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteRepository = `-- name: DeleteRepository
DELETE FROM repositories WHERE id = ?
`

func (q *Queries) DeleteRepository(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, deleteRepository, id)
	return err
}

const insertBranch = `-- name: InsertBranch
INSERT INTO branches (id, repository_id, name, is_default, parent_branch_id, created_at) VALUES (?, ?, ?, ?, ?, ?)
`

type InsertBranchParams struct {
	ID             string
	RepositoryID   string
	Name           string
	IsDefault      bool
	ParentBranchID sql.NullString
	CreatedAt      time.Time
}

func (q *Queries) InsertBranch(ctx context.Context, arg InsertBranchParams) error {
	_, err := q.db.ExecContext(ctx, insertBranch, arg.ID, arg.RepositoryID, arg.Name, arg.IsDefault, arg.ParentBranchID, arg.CreatedAt)
	return err
}

const getBranchByName = `-- name: GetBranchByName
SELECT id, repository_id, name, is_default, parent_branch_id, created_at FROM branches WHERE repository_id = ? AND name = ?
`

type GetBranchByNameParams struct {
	RepositoryID string
	Name         string
}

func (q *Queries) GetBranchByName(ctx context.Context, arg GetBranchByNameParams) (Branch, error) {
	row := q.db.QueryRowContext(ctx, getBranchByName, arg.RepositoryID, arg.Name)
	var i Branch
	err := row.Scan(
		&i.ID,
		&i.RepositoryID,
		&i.Name,
		&i.IsDefault,
		&i.ParentBranchID,
		&i.CreatedAt,
	)
	return i, err
}

const getDefaultBranch = `-- name: GetDefaultBranch
SELECT id, repository_id, name, is_default, parent_branch_id, created_at FROM branches WHERE repository_id = ? AND is_default = 1
`

func (q *Queries) GetDefaultBranch(ctx context.Context, repositoryID string) (Branch, error) {
	row := q.db.QueryRowContext(ctx, getDefaultBranch, repositoryID)
	var i Branch
	err := row.Scan(
		&i.ID,
		&i.RepositoryID,
		&i.Name,
		&i.IsDefault,
		&i.ParentBranchID,
		&i.CreatedAt,
	)
	return i, err
}

const listBranches = `-- name: ListBranches
SELECT id, repository_id, name, is_default, parent_branch_id, created_at FROM branches WHERE repository_id = ? ORDER BY created_at, name
`

func (q *Queries) ListBranches(ctx context.Context, repositoryID string) ([]Branch, error) {
	rows, err := q.db.QueryContext(ctx, listBranches, repositoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Branch{}
	for rows.Next() {
		var i Branch
		if err := rows.Scan(
			&i.ID,
			&i.RepositoryID,
			&i.Name,
			&i.IsDefault,
			&i.ParentBranchID,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteBranch = `-- name: DeleteBranch
DELETE FROM branches WHERE id = ?
`

func (q *Queries) DeleteBranch(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, deleteBranch, id)
	return err
}

const copyBranchFiles = `-- name: CopyBranchFiles
INSERT INTO branch_files (branch_id, file_id, version_number, updated_at)
SELECT ?1, file_id, version_number, updated_at FROM branch_files WHERE branch_files.branch_id = ?2
`

type CopyBranchFilesParams struct {
	BranchID       string
	ParentBranchID string
}

func (q *Queries) CopyBranchFiles(ctx context.Context, arg CopyBranchFilesParams) error {
	_, err := q.db.ExecContext(ctx, copyBranchFiles, arg.BranchID, arg.ParentBranchID)
	return err
}

const copyBranchHistory = `-- name: CopyBranchHistory
INSERT OR IGNORE INTO branch_history (branch_id, file_id, version_number)
SELECT ?1, file_id, version_number FROM branch_history WHERE branch_history.branch_id = ?2
`

type CopyBranchHistoryParams struct {
	BranchID     string
	FromBranchID string
}

func (q *Queries) CopyBranchHistory(ctx context.Context, arg CopyBranchHistoryParams) error {
	_, err := q.db.ExecContext(ctx, copyBranchHistory, arg.BranchID, arg.FromBranchID)
	return err
}

const deleteConflictsForBranch = `-- name: DeleteConflictsForBranch
DELETE FROM merge_conflicts WHERE merge_request_id IN (
    SELECT id FROM merge_requests
    WHERE repository_id = ?1 AND status IN ('open', 'conflicts')
      AND (source_branch = ?2 OR target_branch = ?2)
)
`

type DeleteConflictsForBranchParams struct {
	RepositoryID string
	BranchName   string
}

func (q *Queries) DeleteConflictsForBranch(ctx context.Context, arg DeleteConflictsForBranchParams) error {
	_, err := q.db.ExecContext(ctx, deleteConflictsForBranch, arg.RepositoryID, arg.BranchName)
	return err
}

const closeMergeRequestsForBranch = `-- name: CloseMergeRequestsForBranch
UPDATE merge_requests SET status = 'closed', updated_at = ?1
WHERE repository_id = ?2 AND status IN ('open', 'conflicts')
  AND (source_branch = ?3 OR target_branch = ?3)
`

type CloseMergeRequestsForBranchParams struct {
	UpdatedAt    time.Time
	RepositoryID string
	BranchName   string
}

func (q *Queries) CloseMergeRequestsForBranch(ctx context.Context, arg CloseMergeRequestsForBranchParams) error {
	_, err := q.db.ExecContext(ctx, closeMergeRequestsForBranch, arg.UpdatedAt, arg.RepositoryID, arg.BranchName)
	return err
}

const insertFile = `-- name: InsertFile
INSERT INTO files (id, repository_id, filename, latest_version, created_at) VALUES (?, ?, ?, 0, ?)
`

type InsertFileParams struct {
	ID           string
	RepositoryID string
	Filename     string
	CreatedAt    time.Time
}

func (q *Queries) InsertFile(ctx context.Context, arg InsertFileParams) error {
	_, err := q.db.ExecContext(ctx, insertFile, arg.ID, arg.RepositoryID, arg.Filename, arg.CreatedAt)
	return err
}

const getFile = `-- name: GetFile
SELECT id, repository_id, filename, latest_version, created_at FROM files WHERE id = ?
`

func (q *Queries) GetFile(ctx context.Context, id string) (File, error) {
	row := q.db.QueryRowContext(ctx, getFile, id)
	var i File
	err := row.Scan(
		&i.ID,
		&i.RepositoryID,
		&i.Filename,
		&i.LatestVersion,
		&i.CreatedAt,
	)
	return i, err
}

const getFileByName = `-- name: GetFileByName
SELECT id, repository_id, filename, latest_version, created_at FROM files WHERE repository_id = ? AND filename = ?
`

type GetFileByNameParams struct {
	RepositoryID string
	Filename     string
}

func (q *Queries) GetFileByName(ctx context.Context, arg GetFileByNameParams) (File, error) {
	row := q.db.QueryRowContext(ctx, getFileByName, arg.RepositoryID, arg.Filename)
	var i File
	err := row.Scan(
		&i.ID,
		&i.RepositoryID,
		&i.Filename,
		&i.LatestVersion,
		&i.CreatedAt,
	)
	return i, err
}

const incrementFileVersion = `-- name: IncrementFileVersion
UPDATE files SET latest_version = latest_version + 1 WHERE id = ? RETURNING latest_version
`

func (q *Queries) IncrementFileVersion(ctx context.Context, id string) (int64, error) {
	row := q.db.QueryRowContext(ctx, incrementFileVersion, id)
	var latest_version int64
	err := row.Scan(&latest_version)
	return latest_version, err
}

const insertContent = `-- name: InsertContent
INSERT OR IGNORE INTO contents (id, size, created_at) VALUES (?, ?, ?)
`

type InsertContentParams struct {
	ID        string
	Size      int64
	CreatedAt time.Time
}

func (q *Queries) InsertContent(ctx context.Context, arg InsertContentParams) error {
	_, err := q.db.ExecContext(ctx, insertContent, arg.ID, arg.Size, arg.CreatedAt)
	return err
}

const getContent = `-- name: GetContent
SELECT id, size, created_at FROM contents WHERE id = ?
`

func (q *Queries) GetContent(ctx context.Context, id string) (Content, error) {
	row := q.db.QueryRowContext(ctx, getContent, id)
	var i Content
	err := row.Scan(
		&i.ID,
		&i.Size,
		&i.CreatedAt,
	)
	return i, err
}

const insertVersion = `-- name: InsertVersion
INSERT INTO versions (id, file_id, version_number, content_id, size, commit_message, author, branch_name, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type InsertVersionParams struct {
	ID            string
	FileID        string
	VersionNumber int64
	ContentID     string
	Size          int64
	CommitMessage string
	Author        string
	BranchName    string
	CreatedAt     time.Time
}

func (q *Queries) InsertVersion(ctx context.Context, arg InsertVersionParams) error {
	_, err := q.db.ExecContext(ctx, insertVersion, arg.ID, arg.FileID, arg.VersionNumber, arg.ContentID, arg.Size, arg.CommitMessage, arg.Author, arg.BranchName, arg.CreatedAt)
	return err
}

const getVersion = `-- name: GetVersion
SELECT id, file_id, version_number, content_id, size, commit_message, author, branch_name, created_at
FROM versions WHERE file_id = ? AND version_number = ?
`

type GetVersionParams struct {
	FileID        string
	VersionNumber int64
}

func (q *Queries) GetVersion(ctx context.Context, arg GetVersionParams) (Version, error) {
	row := q.db.QueryRowContext(ctx, getVersion, arg.FileID, arg.VersionNumber)
	var i Version
	err := row.Scan(
		&i.ID,
		&i.FileID,
		&i.VersionNumber,
		&i.ContentID,
		&i.Size,
		&i.CommitMessage,
		&i.Author,
		&i.BranchName,
		&i.CreatedAt,
	)
	return i, err
}

const listBranchVersions = `-- name: ListBranchVersions
SELECT v.id, v.file_id, v.version_number, v.content_id, v.size, v.commit_message, v.author, v.branch_name, v.created_at
FROM versions v
JOIN branch_history h ON h.file_id = v.file_id AND h.version_number = v.version_number
WHERE h.branch_id = ? AND h.file_id = ?
ORDER BY v.version_number DESC
`

type ListBranchVersionsParams struct {
	BranchID string
	FileID   string
}

func (q *Queries) ListBranchVersions(ctx context.Context, arg ListBranchVersionsParams) ([]Version, error) {
	rows, err := q.db.QueryContext(ctx, listBranchVersions, arg.BranchID, arg.FileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Version{}
	for rows.Next() {
		var i Version
		if err := rows.Scan(
			&i.ID,
			&i.FileID,
			&i.VersionNumber,
			&i.ContentID,
			&i.Size,
			&i.CommitMessage,
			&i.Author,
			&i.BranchName,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listBranchHistory = `-- name: ListBranchHistory
SELECT v.id, v.file_id, v.version_number, v.content_id, v.size, v.commit_message, v.author, v.branch_name, v.created_at
FROM versions v
JOIN branch_history h ON h.file_id = v.file_id AND h.version_number = v.version_number
WHERE h.branch_id = ?
ORDER BY v.created_at DESC, v.version_number DESC
LIMIT ?
`

type ListBranchHistoryParams struct {
	BranchID string
	Limit    int64
}

func (q *Queries) ListBranchHistory(ctx context.Context, arg ListBranchHistoryParams) ([]Version, error) {
	rows, err := q.db.QueryContext(ctx, listBranchHistory, arg.BranchID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Version{}
	for rows.Next() {
		var i Version
		if err := rows.Scan(
			&i.ID,
			&i.FileID,
			&i.VersionNumber,
			&i.ContentID,
			&i.Size,
			&i.CommitMessage,
			&i.Author,
			&i.BranchName,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countBranchHistory = `-- name: CountBranchHistory
SELECT COUNT(*) FROM branch_history WHERE branch_id = ? AND file_id = ? AND version_number = ?
`

type CountBranchHistoryParams struct {
	BranchID      string
	FileID        string
	VersionNumber int64
}

func (q *Queries) CountBranchHistory(ctx context.Context, arg CountBranchHistoryParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, countBranchHistory, arg.BranchID, arg.FileID, arg.VersionNumber)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const insertBranchHistory = `-- name: InsertBranchHistory
INSERT OR IGNORE INTO branch_history (branch_id, file_id, version_number) VALUES (?, ?, ?)
`

type InsertBranchHistoryParams struct {
	BranchID      string
	FileID        string
	VersionNumber int64
}

func (q *Queries) InsertBranchHistory(ctx context.Context, arg InsertBranchHistoryParams) error {
	_, err := q.db.ExecContext(ctx, insertBranchHistory, arg.BranchID, arg.FileID, arg.VersionNumber)
	return err
}

const upsertBranchFile = `-- name: UpsertBranchFile
INSERT INTO branch_files (branch_id, file_id, version_number, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT (branch_id, file_id) DO UPDATE SET version_number = excluded.version_number, updated_at = excluded.updated_at
`

type UpsertBranchFileParams struct {
	BranchID      string
	FileID        string
	VersionNumber int64
	UpdatedAt     time.Time
}

func (q *Queries) UpsertBranchFile(ctx context.Context, arg UpsertBranchFileParams) error {
	_, err := q.db.ExecContext(ctx, upsertBranchFile, arg.BranchID, arg.FileID, arg.VersionNumber, arg.UpdatedAt)
	return err
}

const getBranchPointer = `-- name: GetBranchPointer
SELECT bf.file_id, f.filename, bf.version_number
FROM branch_files bf JOIN files f ON f.id = bf.file_id
WHERE bf.branch_id = ? AND bf.file_id = ?
`

type GetBranchPointerParams struct {
	BranchID string
	FileID   string
}

type GetBranchPointerRow struct {
	FileID        string
	Filename      string
	VersionNumber int64
}

func (q *Queries) GetBranchPointer(ctx context.Context, arg GetBranchPointerParams) (GetBranchPointerRow, error) {
	row := q.db.QueryRowContext(ctx, getBranchPointer, arg.BranchID, arg.FileID)
	var i GetBranchPointerRow
	err := row.Scan(
		&i.FileID,
		&i.Filename,
		&i.VersionNumber,
	)
	return i, err
}

const listBranchPointers = `-- name: ListBranchPointers
SELECT bf.file_id, f.filename, bf.version_number
FROM branch_files bf JOIN files f ON f.id = bf.file_id
WHERE bf.branch_id = ?
ORDER BY f.filename
`

type ListBranchPointersRow struct {
	FileID        string
	Filename      string
	VersionNumber int64
}

func (q *Queries) ListBranchPointers(ctx context.Context, branchID string) ([]ListBranchPointersRow, error) {
	rows, err := q.db.QueryContext(ctx, listBranchPointers, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ListBranchPointersRow{}
	for rows.Next() {
		var i ListBranchPointersRow
		if err := rows.Scan(
			&i.FileID,
			&i.Filename,
			&i.VersionNumber,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listBranchFiles = `-- name: ListBranchFiles
SELECT f.id, f.filename, bf.version_number, v.size, bf.updated_at
FROM branch_files bf
JOIN files f ON f.id = bf.file_id
JOIN versions v ON v.file_id = bf.file_id AND v.version_number = bf.version_number
WHERE bf.branch_id = ?
ORDER BY f.filename
`

type ListBranchFilesRow struct {
	ID            string
	Filename      string
	VersionNumber int64
	Size          int64
	UpdatedAt     time.Time
}

func (q *Queries) ListBranchFiles(ctx context.Context, branchID string) ([]ListBranchFilesRow, error) {
	rows, err := q.db.QueryContext(ctx, listBranchFiles, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ListBranchFilesRow{}
	for rows.Next() {
		var i ListBranchFilesRow
		if err := rows.Scan(
			&i.ID,
			&i.Filename,
			&i.VersionNumber,
			&i.Size,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteBranchFile = `-- name: DeleteBranchFile
DELETE FROM branch_files WHERE branch_id = ? AND file_id = ?
`

type DeleteBranchFileParams struct {
	BranchID string
	FileID   string
}

func (q *Queries) DeleteBranchFile(ctx context.Context, arg DeleteBranchFileParams) error {
	_, err := q.db.ExecContext(ctx, deleteBranchFile, arg.BranchID, arg.FileID)
	return err
}

const commonAncestors = `-- name: CommonAncestors
SELECT s.file_id, CAST(MAX(s.version_number) AS INTEGER) AS version_number
FROM branch_history s
JOIN branch_history t ON t.file_id = s.file_id AND t.version_number = s.version_number
WHERE s.branch_id = ?1 AND t.branch_id = ?2
GROUP BY s.file_id
`

type CommonAncestorsParams struct {
	SourceBranchID string
	TargetBranchID string
}

type CommonAncestorsRow struct {
	FileID        string
	VersionNumber int64
}

func (q *Queries) CommonAncestors(ctx context.Context, arg CommonAncestorsParams) ([]CommonAncestorsRow, error) {
	rows, err := q.db.QueryContext(ctx, commonAncestors, arg.SourceBranchID, arg.TargetBranchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []CommonAncestorsRow{}
	for rows.Next() {
		var i CommonAncestorsRow
		if err := rows.Scan(
			&i.FileID,
			&i.VersionNumber,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const insertMergeRequest = `-- name: InsertMergeRequest
INSERT INTO merge_requests (id, repository_id, source_branch, target_branch, title, description, status, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type InsertMergeRequestParams struct {
	ID           string
	RepositoryID string
	SourceBranch string
	TargetBranch string
	Title        string
	Description  string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (q *Queries) InsertMergeRequest(ctx context.Context, arg InsertMergeRequestParams) error {
	_, err := q.db.ExecContext(ctx, insertMergeRequest, arg.ID, arg.RepositoryID, arg.SourceBranch, arg.TargetBranch, arg.Title, arg.Description, arg.Status, arg.CreatedAt, arg.UpdatedAt)
	return err
}

const getMergeRequest = `-- name: GetMergeRequest
SELECT id, repository_id, source_branch, target_branch, title, description, status, created_at, updated_at, merged_at
FROM merge_requests WHERE id = ?
`

func (q *Queries) GetMergeRequest(ctx context.Context, id string) (MergeRequest, error) {
	row := q.db.QueryRowContext(ctx, getMergeRequest, id)
	var i MergeRequest
	err := row.Scan(
		&i.ID,
		&i.RepositoryID,
		&i.SourceBranch,
		&i.TargetBranch,
		&i.Title,
		&i.Description,
		&i.Status,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.MergedAt,
	)
	return i, err
}

const listMergeRequests = `-- name: ListMergeRequests
SELECT id, repository_id, source_branch, target_branch, title, description, status, created_at, updated_at, merged_at
FROM merge_requests WHERE repository_id = ? ORDER BY created_at DESC, id
`

func (q *Queries) ListMergeRequests(ctx context.Context, repositoryID string) ([]MergeRequest, error) {
	rows, err := q.db.QueryContext(ctx, listMergeRequests, repositoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []MergeRequest{}
	for rows.Next() {
		var i MergeRequest
		if err := rows.Scan(
			&i.ID,
			&i.RepositoryID,
			&i.SourceBranch,
			&i.TargetBranch,
			&i.Title,
			&i.Description,
			&i.Status,
			&i.CreatedAt,
			&i.UpdatedAt,
			&i.MergedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listMergeRequestsByStatus = `-- name: ListMergeRequestsByStatus
SELECT id, repository_id, source_branch, target_branch, title, description, status, created_at, updated_at, merged_at
FROM merge_requests WHERE repository_id = ? AND status = ? ORDER BY created_at DESC, id
`

type ListMergeRequestsByStatusParams struct {
	RepositoryID string
	Status       string
}

func (q *Queries) ListMergeRequestsByStatus(ctx context.Context, arg ListMergeRequestsByStatusParams) ([]MergeRequest, error) {
	rows, err := q.db.QueryContext(ctx, listMergeRequestsByStatus, arg.RepositoryID, arg.Status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []MergeRequest{}
	for rows.Next() {
		var i MergeRequest
		if err := rows.Scan(
			&i.ID,
			&i.RepositoryID,
			&i.SourceBranch,
			&i.TargetBranch,
			&i.Title,
			&i.Description,
			&i.Status,
			&i.CreatedAt,
			&i.UpdatedAt,
			&i.MergedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateMergeRequestStatus = `-- name: UpdateMergeRequestStatus
UPDATE merge_requests SET status = ?, updated_at = ?, merged_at = ? WHERE id = ?
`

type UpdateMergeRequestStatusParams struct {
	Status    string
	UpdatedAt time.Time
	MergedAt  sql.NullTime
	ID        string
}

func (q *Queries) UpdateMergeRequestStatus(ctx context.Context, arg UpdateMergeRequestStatusParams) error {
	_, err := q.db.ExecContext(ctx, updateMergeRequestStatus, arg.Status, arg.UpdatedAt, arg.MergedAt, arg.ID)
	return err
}

const insertConflict = `-- name: InsertConflict
INSERT INTO merge_conflicts (id, merge_request_id, file_id, filename, conflict_type, source_version, target_version, base_version, resolution_strategy, resolved_content_id, resolved_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type InsertConflictParams struct {
	ID                 string
	MergeRequestID     string
	FileID             string
	Filename           string
	ConflictType       string
	SourceVersion      int64
	TargetVersion      int64
	BaseVersion        int64
	ResolutionStrategy sql.NullString
	ResolvedContentID  sql.NullString
	ResolvedAt         sql.NullTime
}

func (q *Queries) InsertConflict(ctx context.Context, arg InsertConflictParams) error {
	_, err := q.db.ExecContext(ctx, insertConflict, arg.ID, arg.MergeRequestID, arg.FileID, arg.Filename, arg.ConflictType, arg.SourceVersion, arg.TargetVersion, arg.BaseVersion, arg.ResolutionStrategy, arg.ResolvedContentID, arg.ResolvedAt)
	return err
}

const getConflict = `-- name: GetConflict
SELECT id, merge_request_id, file_id, filename, conflict_type, source_version, target_version, base_version, resolution_strategy, resolved_content_id, resolved_at
FROM merge_conflicts WHERE id = ?
`

func (q *Queries) GetConflict(ctx context.Context, id string) (MergeConflict, error) {
	row := q.db.QueryRowContext(ctx, getConflict, id)
	var i MergeConflict
	err := row.Scan(
		&i.ID,
		&i.MergeRequestID,
		&i.FileID,
		&i.Filename,
		&i.ConflictType,
		&i.SourceVersion,
		&i.TargetVersion,
		&i.BaseVersion,
		&i.ResolutionStrategy,
		&i.ResolvedContentID,
		&i.ResolvedAt,
	)
	return i, err
}

const listConflicts = `-- name: ListConflicts
SELECT id, merge_request_id, file_id, filename, conflict_type, source_version, target_version, base_version, resolution_strategy, resolved_content_id, resolved_at
FROM merge_conflicts WHERE merge_request_id = ? ORDER BY filename, id
`

func (q *Queries) ListConflicts(ctx context.Context, mergeRequestID string) ([]MergeConflict, error) {
	rows, err := q.db.QueryContext(ctx, listConflicts, mergeRequestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []MergeConflict{}
	for rows.Next() {
		var i MergeConflict
		if err := rows.Scan(
			&i.ID,
			&i.MergeRequestID,
			&i.FileID,
			&i.Filename,
			&i.ConflictType,
			&i.SourceVersion,
			&i.TargetVersion,
			&i.BaseVersion,
			&i.ResolutionStrategy,
			&i.ResolvedContentID,
			&i.ResolvedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteConflicts = `-- name: DeleteConflicts
DELETE FROM merge_conflicts WHERE merge_request_id = ?
`

func (q *Queries) DeleteConflicts(ctx context.Context, mergeRequestID string) error {
	_, err := q.db.ExecContext(ctx, deleteConflicts, mergeRequestID)
	return err
}

const resolveConflict = `-- name: ResolveConflict
UPDATE merge_conflicts SET resolution_strategy = ?, resolved_content_id = ?, resolved_at = ? WHERE id = ?
`

type ResolveConflictParams struct {
	ResolutionStrategy sql.NullString
	ResolvedContentID  sql.NullString
	ResolvedAt         sql.NullTime
	ID                 string
}

func (q *Queries) ResolveConflict(ctx context.Context, arg ResolveConflictParams) error {
	_, err := q.db.ExecContext(ctx, resolveConflict, arg.ResolutionStrategy, arg.ResolvedContentID, arg.ResolvedAt, arg.ID)
	return err
}

const insertMergeRequestPointer = `-- name: InsertMergeRequestPointer :exec
INSERT INTO merge_request_pointers (merge_request_id, file_id, source_version, target_version)
VALUES (?, ?, ?, ?)
`

type InsertMergeRequestPointerParams struct {
	MergeRequestID string
	FileID         string
	SourceVersion  int64
	TargetVersion  int64
}

func (q *Queries) InsertMergeRequestPointer(ctx context.Context, arg InsertMergeRequestPointerParams) error {
	_, err := q.db.ExecContext(ctx, insertMergeRequestPointer,
		arg.MergeRequestID,
		arg.FileID,
		arg.SourceVersion,
		arg.TargetVersion,
	)
	return err
}

const listMergeRequestPointers = `-- name: ListMergeRequestPointers :many
SELECT merge_request_id, file_id, source_version, target_version
FROM merge_request_pointers WHERE merge_request_id = ? ORDER BY file_id
`

func (q *Queries) ListMergeRequestPointers(ctx context.Context, mergeRequestID string) ([]MergeRequestPointer, error) {
	rows, err := q.db.QueryContext(ctx, listMergeRequestPointers, mergeRequestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []MergeRequestPointer
	for rows.Next() {
		var i MergeRequestPointer
		if err := rows.Scan(
			&i.MergeRequestID,
			&i.FileID,
			&i.SourceVersion,
			&i.TargetVersion,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteMergeRequestPointers = `-- name: DeleteMergeRequestPointers :exec
DELETE FROM merge_request_pointers WHERE merge_request_id = ?
`

func (q *Queries) DeleteMergeRequestPointers(ctx context.Context, mergeRequestID string) error {
	_, err := q.db.ExecContext(ctx, deleteMergeRequestPointers, mergeRequestID)
	return err
}

const insertOperation = `-- name: InsertOperation
INSERT INTO operations (operation, parameters, status, started_at) VALUES (?, ?, 'running', ?)
RETURNING id
`

type InsertOperationParams struct {
	Operation  string
	Parameters string
	StartedAt  time.Time
}

func (q *Queries) InsertOperation(ctx context.Context, arg InsertOperationParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, insertOperation, arg.Operation, arg.Parameters, arg.StartedAt)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const finishOperation = `-- name: FinishOperation
UPDATE operations SET status = ?, finished_at = ? WHERE id = ?
`

type FinishOperationParams struct {
	Status     string
	FinishedAt sql.NullTime
	ID         int64
}

func (q *Queries) FinishOperation(ctx context.Context, arg FinishOperationParams) error {
	_, err := q.db.ExecContext(ctx, finishOperation, arg.Status, arg.FinishedAt, arg.ID)
	return err
}

const listOperations = `-- name: ListOperations
SELECT id, operation, parameters, status, started_at, finished_at FROM operations ORDER BY id DESC LIMIT ?
`

func (q *Queries) ListOperations(ctx context.Context, limit int64) ([]Operation, error) {
	rows, err := q.db.QueryContext(ctx, listOperations, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Operation{}
	for rows.Next() {
		var i Operation
		if err := rows.Scan(
			&i.ID,
			&i.Operation,
			&i.Parameters,
			&i.Status,
			&i.StartedAt,
			&i.FinishedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
