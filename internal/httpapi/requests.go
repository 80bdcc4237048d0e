package httpapi

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"gitlite/internal/model"
	"gitlite/internal/vcs"
)

const maxBodyBytes = 64 << 20

// decodeBody reads a JSON request body into v and validates it.
func decodeBody(r *http.Request, v interface{ Validate() error }) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: decoding request body: %v", vcs.ErrInvalidArgument, err)
	}
	return v.Validate()
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s", vcs.ErrMissingField, field)
	}
	return nil
}

type createRepositoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (r *createRepositoryRequest) Validate() error {
	return required("name", r.Name)
}

type createBranchRequest struct {
	Name         string `json:"name"`
	ParentBranch string `json:"parent_branch"`
}

func (r *createBranchRequest) Validate() error {
	return required("name", r.Name)
}

type createFileRequest struct {
	model.NewFile
}

func (r *createFileRequest) Validate() error {
	return required("filename", r.Filename)
}

type updateFileRequest struct {
	model.FileUpdate
}

func (r *updateFileRequest) Validate() error { return nil }

type createMergeRequestRequest struct {
	model.NewMergeRequest
}

func (r *createMergeRequestRequest) Validate() error {
	if err := required("source_branch", r.SourceBranch); err != nil {
		return err
	}
	if err := required("target_branch", r.TargetBranch); err != nil {
		return err
	}
	return required("title", r.Title)
}

// resolveConflictRequest carries manual content base64-encoded.
type resolveConflictRequest struct {
	Strategy        string `json:"resolution_strategy"`
	ResolvedContent string `json:"resolved_content,omitempty"`

	strategy model.Strategy
	content  []byte
}

func (r *resolveConflictRequest) Validate() error {
	st, err := model.ParseStrategy(r.Strategy)
	if err != nil {
		return fmt.Errorf("%w: %v", vcs.ErrInvalidArgument, err)
	}
	r.strategy = st
	if st != model.StrategyManual {
		return nil
	}
	content, err := base64.StdEncoding.DecodeString(r.ResolvedContent)
	if err != nil {
		return fmt.Errorf("%w: resolved_content is not valid base64: %v", vcs.ErrInvalidArgument, err)
	}
	if strings.TrimSpace(string(content)) == "" {
		return vcs.ErrEmptyResolution
	}
	r.content = content
	return nil
}

// intParam parses an optional non-negative integer, returning def when absent.
func intParam(raw string, name string, def int64) (int64, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", vcs.ErrInvalidArgument, name)
	}
	return n, nil
}
