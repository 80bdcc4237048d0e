package vcs

import (
	"context"
	"fmt"
	"strings"

	"gitlite/internal/diff"
	"gitlite/internal/model"
)

// ListFiles returns the files a branch currently points to.
func (s *Service) ListFiles(ctx context.Context, repoID, branch string) ([]model.FileSummary, error) {
	b, err := s.branch(ctx, repoID, branch)
	if err != nil {
		return nil, err
	}
	files, err := s.database.ListBranchFiles(ctx, b.ID)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	out := make([]model.FileSummary, 0, len(files))
	for _, f := range files {
		out = append(out, *f)
	}
	return out, nil
}

// FindFile looks a file up by name. Returns ErrFileNotFound when the
// repository has never had a file with that name.
func (s *Service) FindFile(ctx context.Context, repoID, filename string) (*model.File, error) {
	if _, err := s.repository(ctx, repoID); err != nil {
		return nil, err
	}
	f, err := s.database.FindFileByName(ctx, repoID, filename)
	if err != nil {
		return nil, fmt.Errorf("finding file: %w", err)
	}
	if f == nil {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, filename)
	}
	return f, nil
}

// GetFile returns the version and content the branch currently points to.
func (s *Service) GetFile(ctx context.Context, repoID, fileID, branch string) (*model.FileDetail, error) {
	f, b, ptr, err := s.pointer(ctx, repoID, fileID, branch)
	if err != nil {
		return nil, err
	}
	v, err := s.version(ctx, f, ptr.Version)
	if err != nil {
		return nil, err
	}
	content, err := s.loadContent(ctx, v.ContentID)
	if err != nil {
		return nil, err
	}
	return &model.FileDetail{File: *f, Branch: b.Name, Version: *v, Content: content}, nil
}

// CreateFile uploads the first version of a file on a branch. If a file of
// the same name exists elsewhere in the repository but not on this branch,
// the upload becomes the next version of that file.
func (s *Service) CreateFile(ctx context.Context, repoID, branch string, in model.NewFile) (*model.File, error) {
	filename := strings.TrimSpace(in.Filename)
	if filename == "" {
		return nil, fmt.Errorf("%w: filename", ErrMissingField)
	}
	b, err := s.branch(ctx, repoID, branch)
	if err != nil {
		return nil, err
	}

	f, err := s.database.FindFileByName(ctx, repoID, filename)
	if err != nil {
		return nil, fmt.Errorf("finding file: %w", err)
	}
	create := f == nil
	if create {
		f = &model.File{
			ID:           s.idgen.New(),
			RepositoryID: repoID,
			Filename:     filename,
			CreatedAt:    s.clock.Now(),
		}
	} else {
		ptr, err := s.database.FindBranchPointer(ctx, b.ID, f.ID)
		if err != nil {
			return nil, fmt.Errorf("finding branch pointer: %w", err)
		}
		if ptr != nil {
			return nil, fmt.Errorf("%w: %s on %s", ErrFileExists, filename, b.Name)
		}
	}

	msg := in.CommitMessage
	if msg == "" {
		msg = "Create " + filename
	}
	v, err := s.append(ctx, f, create, b, in.Content, msg, in.Author)
	if err != nil {
		return nil, err
	}
	f.LatestVersion = v.Number
	return f, nil
}

// UpdateFile appends a new version of the file on the branch and moves the
// branch's pointer to it.
func (s *Service) UpdateFile(ctx context.Context, repoID, fileID, branch string, in model.FileUpdate) (*model.Version, error) {
	f, err := s.file(ctx, repoID, fileID)
	if err != nil {
		return nil, err
	}
	b, err := s.branch(ctx, repoID, branch)
	if err != nil {
		return nil, err
	}
	msg := in.CommitMessage
	if msg == "" {
		msg = "Update " + f.Filename
	}
	return s.append(ctx, f, false, b, in.Content, msg, in.Author)
}

// append is the only way content enters history. The version number is
// allocated by the database inside the same transaction that records it.
func (s *Service) append(ctx context.Context, f *model.File, create bool, b *model.Branch, content []byte, msg, author string) (*model.Version, error) {
	sum, err := s.storeContent(ctx, content)
	if err != nil {
		return nil, err
	}
	if author == "" {
		author = s.author
	}

	v, err := s.database.AppendVersion(ctx, AppendParams{
		File:       f,
		CreateFile: create,
		BranchID:   b.ID,
		Version: model.Version{
			ID:            s.idgen.New(),
			FileID:        f.ID,
			ContentID:     sum,
			Size:          int64(len(content)),
			CommitMessage: msg,
			Author:        author,
			Branch:        b.Name,
			CreatedAt:     s.clock.Now(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("appending version: %w", err)
	}

	s.logger.Info("version appended", "file", f.Filename, "branch", b.Name, "version", v.Number, "checksum", sum)
	return v, nil
}

// DeleteFile removes the file from a branch. Its versions stay in history.
func (s *Service) DeleteFile(ctx context.Context, repoID, fileID, branch string) error {
	f, b, _, err := s.pointer(ctx, repoID, fileID, branch)
	if err != nil {
		return err
	}
	if err := s.database.RemoveBranchPointer(ctx, b.ID, f.ID); err != nil {
		return fmt.Errorf("removing file from branch: %w", err)
	}
	s.logger.Info("file deleted from branch", "file", f.Filename, "branch", b.Name)
	return nil
}

// Current returns the version the branch points to for the file.
func (s *Service) Current(ctx context.Context, repoID, fileID, branch string) (*model.Version, error) {
	f, _, ptr, err := s.pointer(ctx, repoID, fileID, branch)
	if err != nil {
		return nil, err
	}
	return s.version(ctx, f, ptr.Version)
}

// GetVersion returns a version with its content. It fails with
// ErrFileNotInBranch when the branch has no entry for the file and with
// ErrVersionNotFound when the version is not in the branch's history.
func (s *Service) GetVersion(ctx context.Context, repoID, fileID string, number int64, branch string) (*model.VersionDetail, error) {
	f, b, _, err := s.pointer(ctx, repoID, fileID, branch)
	if err != nil {
		return nil, err
	}
	reachable, err := s.database.IsVersionInBranch(ctx, b.ID, f.ID, number)
	if err != nil {
		return nil, fmt.Errorf("checking version history: %w", err)
	}
	if !reachable {
		return nil, fmt.Errorf("%w: %s version %d on %s", ErrVersionNotFound, f.Filename, number, b.Name)
	}
	return s.versionDetail(ctx, f, number)
}

// ListVersions returns the file's versions reachable from the branch, most recent first.
func (s *Service) ListVersions(ctx context.Context, repoID, fileID, branch string) ([]model.Version, error) {
	f, b, _, err := s.pointer(ctx, repoID, fileID, branch)
	if err != nil {
		return nil, err
	}
	versions, err := s.database.ListBranchVersions(ctx, b.ID, f.ID)
	if err != nil {
		return nil, fmt.Errorf("listing versions: %w", err)
	}
	return derefVersions(versions), nil
}

// Diff compares two versions of a file. When branch is set, both versions
// must be reachable from it.
func (s *Service) Diff(ctx context.Context, repoID, fileID string, v1, v2 int64, format diff.Format, branch string) (*diff.Result, error) {
	format, err := diff.ParseFormat(string(format))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	var older, newer *model.VersionDetail
	if branch != "" {
		if older, err = s.GetVersion(ctx, repoID, fileID, v1, branch); err != nil {
			return nil, err
		}
		if newer, err = s.GetVersion(ctx, repoID, fileID, v2, branch); err != nil {
			return nil, err
		}
	} else {
		f, err := s.file(ctx, repoID, fileID)
		if err != nil {
			return nil, err
		}
		if older, err = s.versionDetail(ctx, f, v1); err != nil {
			return nil, err
		}
		if newer, err = s.versionDetail(ctx, f, v2); err != nil {
			return nil, err
		}
	}

	return diff.Compute(older.Content, newer.Content, format, diff.Options{
		OldLabel: fmt.Sprintf("%s (version %d)", older.Filename, v1),
		NewLabel: fmt.Sprintf("%s (version %d)", newer.Filename, v2),
		Context:  s.diffContext,
	}), nil
}

// pointer resolves file, branch and the branch's pointer for the file,
// distinguishing a missing file from one absent on the branch.
func (s *Service) pointer(ctx context.Context, repoID, fileID, branch string) (*model.File, *model.Branch, *model.Pointer, error) {
	f, err := s.file(ctx, repoID, fileID)
	if err != nil {
		return nil, nil, nil, err
	}
	b, err := s.branch(ctx, repoID, branch)
	if err != nil {
		return nil, nil, nil, err
	}
	ptr, err := s.database.FindBranchPointer(ctx, b.ID, f.ID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("finding branch pointer: %w", err)
	}
	if ptr == nil {
		return nil, nil, nil, fmt.Errorf("%w: %s on %s", ErrFileNotInBranch, f.Filename, b.Name)
	}
	return f, b, ptr, nil
}

func (s *Service) version(ctx context.Context, f *model.File, number int64) (*model.Version, error) {
	v, err := s.database.FindVersion(ctx, f.ID, number)
	if err != nil {
		return nil, fmt.Errorf("finding version: %w", err)
	}
	if v == nil {
		return nil, fmt.Errorf("%w: %s version %d", ErrVersionNotFound, f.Filename, number)
	}
	return v, nil
}

func (s *Service) versionDetail(ctx context.Context, f *model.File, number int64) (*model.VersionDetail, error) {
	v, err := s.version(ctx, f, number)
	if err != nil {
		return nil, err
	}
	content, err := s.loadContent(ctx, v.ContentID)
	if err != nil {
		return nil, err
	}
	return &model.VersionDetail{Version: *v, Filename: f.Filename, Content: content}, nil
}
