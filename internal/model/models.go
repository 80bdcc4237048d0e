package model

import (
	"fmt"
	"strings"
	"time"
)

// Repository is a named collection of files and branches.
type Repository struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// File is a named text or binary document within a repository.
// LatestVersion is the file's global version counter, shared by all branches.
type File struct {
	ID            string    `json:"id"`
	RepositoryID  string    `json:"repository_id"`
	Filename      string    `json:"filename"`
	LatestVersion int64     `json:"latest_version"`
	CreatedAt     time.Time `json:"created_at"`
}

// Version is an immutable snapshot of a file's content.
type Version struct {
	ID            string    `json:"id"`
	FileID        string    `json:"file_id"`
	Number        int64     `json:"version_number"`
	ContentID     string    `json:"content_id"` // SHA-256 checksum of the plaintext
	Size          int64     `json:"size"`
	CommitMessage string    `json:"commit_message"`
	Author        string    `json:"author"`
	Branch        string    `json:"branch_name"` // branch the version was written on
	CreatedAt     time.Time `json:"created_at"`
}

// VersionDetail is a version together with its content.
type VersionDetail struct {
	Version
	Filename string `json:"filename"`
	Content  []byte `json:"content"`
}

// FileSummary is one row of a branch's file listing.
type FileSummary struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Version   int64     `json:"current_version"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FileDetail is a file with the version and content a branch currently points to.
type FileDetail struct {
	File
	Branch  string  `json:"branch_name"`
	Version Version `json:"version"`
	Content []byte  `json:"content"`
}

// Branch is a named, independent pointer set over files.
type Branch struct {
	ID           string    `json:"id"`
	RepositoryID string    `json:"repository_id"`
	Name         string    `json:"name"`
	IsDefault    bool      `json:"is_default"`
	ParentID     string    `json:"parent_branch_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Pointer is a branch's reference to one version of a file.
type Pointer struct {
	FileID   string
	Filename string
	Version  int64
}

// MergeStatus is the lifecycle state of a merge request.
type MergeStatus string

const (
	MergeStatusOpen      MergeStatus = "open"
	MergeStatusConflicts MergeStatus = "conflicts"
	MergeStatusMerged    MergeStatus = "merged"
	MergeStatusClosed    MergeStatus = "closed"
)

// Terminal reports whether no further transition is possible.
func (s MergeStatus) Terminal() bool {
	return s == MergeStatusMerged || s == MergeStatusClosed
}

// ParseMergeStatus parses a status filter. The empty string is accepted and means "any".
func ParseMergeStatus(s string) (MergeStatus, error) {
	switch st := MergeStatus(strings.ToLower(s)); st {
	case "", MergeStatusOpen, MergeStatusConflicts, MergeStatusMerged, MergeStatusClosed:
		return st, nil
	default:
		return "", fmt.Errorf("unknown merge request status: %q", s)
	}
}

// ConflictType names which side did what to a conflicting file.
// "Ours" is the target branch and "theirs" is the source branch.
type ConflictType string

const (
	ConflictModifyModify ConflictType = "modify-modify"
	ConflictAddAdd       ConflictType = "add-add"
	ConflictDeleteModify ConflictType = "delete-modify" // target deleted, source modified
	ConflictModifyDelete ConflictType = "modify-delete" // target modified, source deleted
)

// Strategy is how a conflict gets resolved.
type Strategy string

const (
	StrategyOurs   Strategy = "ours"
	StrategyTheirs Strategy = "theirs"
	StrategyManual Strategy = "manual"
)

// ParseStrategy validates a resolution strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(strings.ToLower(strings.TrimSpace(s))); st {
	case StrategyOurs, StrategyTheirs, StrategyManual:
		return st, nil
	default:
		return "", fmt.Errorf("unknown resolution strategy: %q", s)
	}
}

// Conflict records a file that diverged on both sides of a merge request.
// Version numbers are zero when the file is absent on that side.
type Conflict struct {
	ID                string       `json:"id"`
	MergeRequestID    string       `json:"merge_request_id"`
	FileID            string       `json:"file_id"`
	Filename          string       `json:"filename"`
	Type              ConflictType `json:"conflict_type"`
	SourceVersion     int64        `json:"source_version"`
	TargetVersion     int64        `json:"target_version"`
	BaseVersion       int64        `json:"base_version"`
	Strategy          Strategy     `json:"resolution_strategy,omitempty"`
	ResolvedContentID string       `json:"resolved_content_id,omitempty"`
	ResolvedAt        *time.Time   `json:"resolved_at,omitempty"`
}

// Resolved reports whether a resolution has been recorded.
func (c Conflict) Resolved() bool {
	return c.Strategy != ""
}

// SameDivergence reports whether two conflicts describe the same file at the same versions.
func (c Conflict) SameDivergence(o Conflict) bool {
	return c.FileID == o.FileID && c.SourceVersion == o.SourceVersion && c.TargetVersion == o.TargetVersion
}

// MergeRequest proposes applying a source branch's changes onto a target branch.
type MergeRequest struct {
	ID           string      `json:"id"`
	RepositoryID string      `json:"repository_id"`
	SourceBranch string      `json:"source_branch"`
	TargetBranch string      `json:"target_branch"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Status       MergeStatus `json:"status"`
	Conflicts    []Conflict  `json:"conflicts"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
	MergedAt     *time.Time  `json:"merged_at,omitempty"`

	// Evaluated is the state of both branches the conflicts were computed from.
	Evaluated []MergePointer `json:"-"`
}

// MergePointer is one file's version on each side of a merge request. Zero means absent.
type MergePointer struct {
	FileID        string
	SourceVersion int64
	TargetVersion int64
}

// HasConflicts reports whether any conflict is still unresolved.
func (m MergeRequest) HasConflicts() bool {
	for _, c := range m.Conflicts {
		if !c.Resolved() {
			return true
		}
	}
	return false
}

// Operation is one entry of the audit log of mutating commands.
type Operation struct {
	ID         int64
	Operation  string
	Parameters string
	Status     string
	StartedAt  time.Time
	FinishedAt *time.Time
}

// NewFile is the input for creating a file.
type NewFile struct {
	Filename      string `json:"filename"`
	Content       []byte `json:"content"`
	CommitMessage string `json:"commit_message"`
	Author        string `json:"author"`
}

// FileUpdate is the input for appending a version to a file.
type FileUpdate struct {
	Content       []byte `json:"content"`
	CommitMessage string `json:"commit_message"`
	Author        string `json:"author"`
}

// NewMergeRequest is the input for opening a merge request.
type NewMergeRequest struct {
	SourceBranch string `json:"source_branch"`
	TargetBranch string `json:"target_branch"`
	Title        string `json:"title"`
	Description  string `json:"description"`
}
