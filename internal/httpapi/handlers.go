package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"

	"gitlite/internal/diff"
	"gitlite/internal/model"
	"gitlite/internal/vcs"
)

func (s *Server) ok(w http.ResponseWriter, v any) {
	writeResponse(w, s.logger, http.StatusOK, v)
}

func (s *Server) created(w http.ResponseWriter, v any) {
	writeResponse(w, s.logger, http.StatusCreated, v)
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	writeError(w, s.logger, err)
}

func (s *Server) listRepositories(w http.ResponseWriter, r *http.Request) {
	repos, err := s.service.ListRepositories(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, repos)
}

func (s *Server) createRepository(w http.ResponseWriter, r *http.Request) {
	var req createRepositoryRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	repo, err := s.service.CreateRepository(r.Context(), req.Name, req.Description)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.created(w, repo)
}

func (s *Server) getRepository(w http.ResponseWriter, r *http.Request) {
	repo, err := s.service.GetRepository(r.Context(), chi.URLParam(r, "repoID"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, repo)
}

func (s *Server) deleteRepository(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteRepository(r.Context(), chi.URLParam(r, "repoID")); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listBranches(w http.ResponseWriter, r *http.Request) {
	branches, err := s.service.ListBranches(r.Context(), chi.URLParam(r, "repoID"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, branches)
}

func (s *Server) createBranch(w http.ResponseWriter, r *http.Request) {
	var req createBranchRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	b, err := s.service.CreateBranch(r.Context(), chi.URLParam(r, "repoID"), req.Name, req.ParentBranch)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.created(w, b)
}

func (s *Server) getBranch(w http.ResponseWriter, r *http.Request) {
	b, err := s.service.GetBranch(r.Context(), chi.URLParam(r, "repoID"), chi.URLParam(r, "branch"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, b)
}

func (s *Server) deleteBranch(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteBranch(r.Context(), chi.URLParam(r, "repoID"), chi.URLParam(r, "branch")); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) branchHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r.URL.Query().Get("limit"), "limit", 0)
	if err != nil {
		s.fail(w, err)
		return
	}
	versions, err := s.service.BranchHistory(r.Context(), chi.URLParam(r, "repoID"), chi.URLParam(r, "branch"), int(limit))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, versions)
}

func (s *Server) listFiles(w http.ResponseWriter, r *http.Request) {
	files, err := s.service.ListFiles(r.Context(), chi.URLParam(r, "repoID"), r.URL.Query().Get("branch"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, files)
}

func (s *Server) createFile(w http.ResponseWriter, r *http.Request) {
	var req createFileRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	f, err := s.service.CreateFile(r.Context(), chi.URLParam(r, "repoID"), r.URL.Query().Get("branch"), req.NewFile)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.created(w, f)
}

// uploadFile accepts a multipart form with a "file" part. An existing file
// of the same name gets a new version on the branch.
func (s *Server) uploadFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		s.fail(w, fmt.Errorf("%w: parsing multipart form: %v", vcs.ErrInvalidArgument, err))
		return
	}
	part, header, err := r.FormFile("file")
	if err != nil {
		s.fail(w, fmt.Errorf("%w: file", vcs.ErrMissingField))
		return
	}
	defer part.Close()
	content, err := io.ReadAll(io.LimitReader(part, maxBodyBytes))
	if err != nil {
		s.fail(w, fmt.Errorf("reading upload: %w", err))
		return
	}

	ctx := r.Context()
	repoID := chi.URLParam(r, "repoID")
	branch := r.URL.Query().Get("branch")
	name := r.FormValue("filename")
	if name == "" {
		name = path.Base(header.Filename)
	}
	msg := r.FormValue("commit_message")

	f, err := s.service.CreateFile(ctx, repoID, branch, model.NewFile{Filename: name, Content: content, CommitMessage: msg})
	if err == nil {
		s.created(w, f)
		return
	}
	if !errors.Is(err, vcs.ErrFileExists) {
		s.fail(w, err)
		return
	}
	existing, err := s.service.FindFile(ctx, repoID, name)
	if err != nil {
		s.fail(w, err)
		return
	}
	v, err := s.service.UpdateFile(ctx, repoID, existing.ID, branch, model.FileUpdate{Content: content, CommitMessage: msg})
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, v)
}

func (s *Server) getFile(w http.ResponseWriter, r *http.Request) {
	f, err := s.service.GetFile(r.Context(), chi.URLParam(r, "repoID"), chi.URLParam(r, "fileID"), r.URL.Query().Get("branch"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, f)
}

func (s *Server) updateFile(w http.ResponseWriter, r *http.Request) {
	var req updateFileRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	v, err := s.service.UpdateFile(r.Context(), chi.URLParam(r, "repoID"), chi.URLParam(r, "fileID"),
		r.URL.Query().Get("branch"), req.FileUpdate)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, v)
}

func (s *Server) deleteFile(w http.ResponseWriter, r *http.Request) {
	err := s.service.DeleteFile(r.Context(), chi.URLParam(r, "repoID"), chi.URLParam(r, "fileID"), r.URL.Query().Get("branch"))
	if err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listVersions(w http.ResponseWriter, r *http.Request) {
	versions, err := s.service.ListVersions(r.Context(), chi.URLParam(r, "repoID"), chi.URLParam(r, "fileID"),
		r.URL.Query().Get("branch"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, versions)
}

func (s *Server) getVersion(w http.ResponseWriter, r *http.Request) {
	n, err := intParam(chi.URLParam(r, "version"), "version", 0)
	if err != nil {
		s.fail(w, err)
		return
	}
	v, err := s.service.GetVersion(r.Context(), chi.URLParam(r, "repoID"), chi.URLParam(r, "fileID"), n,
		r.URL.Query().Get("branch"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, v)
}

func (s *Server) diffVersions(w http.ResponseWriter, r *http.Request) {
	v1, err := intParam(chi.URLParam(r, "v1"), "v1", 0)
	if err != nil {
		s.fail(w, err)
		return
	}
	v2, err := intParam(chi.URLParam(r, "v2"), "v2", 0)
	if err != nil {
		s.fail(w, err)
		return
	}
	q := r.URL.Query()
	res, err := s.service.Diff(r.Context(), chi.URLParam(r, "repoID"), chi.URLParam(r, "fileID"), v1, v2,
		diff.Format(q.Get("format")), q.Get("branch"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, res)
}

func (s *Server) listMergeRequests(w http.ResponseWriter, r *http.Request) {
	status, err := model.ParseMergeStatus(r.URL.Query().Get("status"))
	if err != nil {
		s.fail(w, fmt.Errorf("%w: %v", vcs.ErrInvalidArgument, err))
		return
	}
	mrs, err := s.service.ListMergeRequests(r.Context(), chi.URLParam(r, "repoID"), status)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, mrs)
}

func (s *Server) createMergeRequest(w http.ResponseWriter, r *http.Request) {
	var req createMergeRequestRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	mr, err := s.service.CreateMergeRequest(r.Context(), chi.URLParam(r, "repoID"), req.NewMergeRequest)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.created(w, mr)
}

func (s *Server) getRepositoryMergeRequest(w http.ResponseWriter, r *http.Request) {
	mr, err := s.service.GetMergeRequest(r.Context(), chi.URLParam(r, "mrID"))
	if err != nil {
		s.fail(w, err)
		return
	}
	if mr.RepositoryID != chi.URLParam(r, "repoID") {
		s.fail(w, fmt.Errorf("%w: %s", vcs.ErrMergeRequestNotFound, mr.ID))
		return
	}
	s.ok(w, mr)
}

func (s *Server) getMergeRequest(w http.ResponseWriter, r *http.Request) {
	mr, err := s.service.GetMergeRequest(r.Context(), chi.URLParam(r, "mrID"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, mr)
}

func (s *Server) mergeMergeRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "mrID")
	if err := s.service.MergeMergeRequest(ctx, id); err != nil {
		s.fail(w, err)
		return
	}
	mr, err := s.service.GetMergeRequest(ctx, id)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, mr)
}

func (s *Server) closeMergeRequest(w http.ResponseWriter, r *http.Request) {
	mr, err := s.service.CloseMergeRequest(r.Context(), chi.URLParam(r, "mrID"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, mr)
}

func (s *Server) getConflict(w http.ResponseWriter, r *http.Request) {
	c, err := s.service.GetConflict(r.Context(), chi.URLParam(r, "conflictID"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, c)
}

func (s *Server) conflictDiff(w http.ResponseWriter, r *http.Request) {
	res, err := s.service.ConflictDiff(r.Context(), chi.URLParam(r, "conflictID"), diff.Format(r.URL.Query().Get("format")))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, res)
}

func (s *Server) resolveConflict(w http.ResponseWriter, r *http.Request) {
	var req resolveConflictRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	ctx := r.Context()
	id := chi.URLParam(r, "conflictID")
	if err := s.service.ResolveConflict(ctx, id, req.strategy, req.content); err != nil {
		s.fail(w, err)
		return
	}
	c, err := s.service.GetConflict(ctx, id)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, c)
}
