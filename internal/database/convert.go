package database

import (
	"gitlite/internal/database/sqlc"
	"gitlite/internal/model"
)

func toRepository(r sqlc.Repository) *model.Repository {
	return &model.Repository{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
	}
}

func toBranch(b sqlc.Branch) *model.Branch {
	return &model.Branch{
		ID:           b.ID,
		RepositoryID: b.RepositoryID,
		Name:         b.Name,
		IsDefault:    b.IsDefault,
		ParentID:     b.ParentBranchID.String,
		CreatedAt:    b.CreatedAt,
	}
}

func toFile(f sqlc.File) *model.File {
	return &model.File{
		ID:            f.ID,
		RepositoryID:  f.RepositoryID,
		Filename:      f.Filename,
		LatestVersion: f.LatestVersion,
		CreatedAt:     f.CreatedAt,
	}
}

func toVersion(v sqlc.Version) *model.Version {
	return &model.Version{
		ID:            v.ID,
		FileID:        v.FileID,
		Number:        v.VersionNumber,
		ContentID:     v.ContentID,
		Size:          v.Size,
		CommitMessage: v.CommitMessage,
		Author:        v.Author,
		Branch:        v.BranchName,
		CreatedAt:     v.CreatedAt,
	}
}

func toVersions(rows []sqlc.Version) []*model.Version {
	out := make([]*model.Version, len(rows))
	for i, r := range rows {
		out[i] = toVersion(r)
	}
	return out
}

func toMergeRequest(m sqlc.MergeRequest) *model.MergeRequest {
	return &model.MergeRequest{
		ID:           m.ID,
		RepositoryID: m.RepositoryID,
		SourceBranch: m.SourceBranch,
		TargetBranch: m.TargetBranch,
		Title:        m.Title,
		Description:  m.Description,
		Status:       model.MergeStatus(m.Status),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		MergedAt:     timePtr(m.MergedAt),
	}
}

func toConflict(c sqlc.MergeConflict) *model.Conflict {
	return &model.Conflict{
		ID:                c.ID,
		MergeRequestID:    c.MergeRequestID,
		FileID:            c.FileID,
		Filename:          c.Filename,
		Type:              model.ConflictType(c.ConflictType),
		SourceVersion:     c.SourceVersion,
		TargetVersion:     c.TargetVersion,
		BaseVersion:       c.BaseVersion,
		Strategy:          model.Strategy(c.ResolutionStrategy.String),
		ResolvedContentID: c.ResolvedContentID.String,
		ResolvedAt:        timePtr(c.ResolvedAt),
	}
}
