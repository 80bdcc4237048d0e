// Hand-maintained in the shape sqlc emits for query.sql and schema.sql.
// Running sqlc generate (see ../generate.go) replaces it wholesale.

package sqlc

import (
	"database/sql"
	"time"
)

type Branch struct {
	ID             string
	RepositoryID   string
	Name           string
	IsDefault      bool
	ParentBranchID sql.NullString
	CreatedAt      time.Time
}

type BranchFile struct {
	BranchID      string
	FileID        string
	VersionNumber int64
	UpdatedAt     time.Time
}

type BranchHistory struct {
	BranchID      string
	FileID        string
	VersionNumber int64
}

type Content struct {
	ID        string
	Size      int64
	CreatedAt time.Time
}

type File struct {
	ID            string
	RepositoryID  string
	Filename      string
	LatestVersion int64
	CreatedAt     time.Time
}

type MergeConflict struct {
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

type MergeRequest struct {
	ID           string
	RepositoryID string
	SourceBranch string
	TargetBranch string
	Title        string
	Description  string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	MergedAt     sql.NullTime
}

type MergeRequestPointer struct {
	MergeRequestID string
	FileID         string
	SourceVersion  int64
	TargetVersion  int64
}

type Operation struct {
	ID         int64
	Operation  string
	Parameters string
	Status     string
	StartedAt  time.Time
	FinishedAt sql.NullTime
}

type Repository struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}

type Version struct {
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
