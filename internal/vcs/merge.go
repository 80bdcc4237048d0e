package vcs

import (
	"context"
	"fmt"
	"sort"

	"gitlite/internal/model"
)

// fileState is one file as seen by both sides of a merge. Zero means absent.
type fileState struct {
	FileID   string
	Filename string
	Source   int64
	Target   int64
	Base     int64
}

// mergePlan is the outcome of comparing two branches file by file.
type mergePlan struct {
	States    []fileState
	Adopt     []Adoption
	Conflicts []model.Conflict
}

// planMerge decides every file independently: unchanged on both sides or
// changed on one side only merges cleanly, changed differently on both
// sides relative to the common ancestor is a conflict.
func planMerge(states []fileState) mergePlan {
	plan := mergePlan{States: states}
	for _, st := range states {
		switch {
		case st.Source == st.Target:
		case st.Source == st.Base:
			// only the target moved
		case st.Target == st.Base:
			plan.Adopt = append(plan.Adopt, Adoption{FileID: st.FileID, Version: st.Source})
		default:
			plan.Conflicts = append(plan.Conflicts, model.Conflict{
				FileID:        st.FileID,
				Filename:      st.Filename,
				Type:          conflictType(st),
				SourceVersion: st.Source,
				TargetVersion: st.Target,
				BaseVersion:   st.Base,
			})
		}
	}
	return plan
}

func conflictType(st fileState) model.ConflictType {
	switch {
	case st.Base == 0:
		return model.ConflictAddAdd
	case st.Target == 0:
		return model.ConflictDeleteModify
	case st.Source == 0:
		return model.ConflictModifyDelete
	default:
		return model.ConflictModifyModify
	}
}

// evaluate loads the state of every file present on either branch.
func (s *Service) evaluate(ctx context.Context, source, target *model.Branch) (mergePlan, error) {
	srcPtrs, err := s.database.ListBranchPointers(ctx, source.ID)
	if err != nil {
		return mergePlan{}, fmt.Errorf("listing source pointers: %w", err)
	}
	tgtPtrs, err := s.database.ListBranchPointers(ctx, target.ID)
	if err != nil {
		return mergePlan{}, fmt.Errorf("listing target pointers: %w", err)
	}
	bases, err := s.database.CommonAncestors(ctx, source.ID, target.ID)
	if err != nil {
		return mergePlan{}, fmt.Errorf("finding common ancestors: %w", err)
	}

	byFile := make(map[string]*fileState)
	for _, p := range srcPtrs {
		byFile[p.FileID] = &fileState{FileID: p.FileID, Filename: p.Filename, Source: p.Version}
	}
	for _, p := range tgtPtrs {
		st, ok := byFile[p.FileID]
		if !ok {
			st = &fileState{FileID: p.FileID, Filename: p.Filename}
			byFile[p.FileID] = st
		}
		st.Target = p.Version
	}

	states := make([]fileState, 0, len(byFile))
	for id, st := range byFile {
		st.Base = bases[id]
		states = append(states, *st)
	}
	sort.Slice(states, func(i, j int) bool {
		if states[i].Filename != states[j].Filename {
			return states[i].Filename < states[j].Filename
		}
		return states[i].FileID < states[j].FileID
	})
	return planMerge(states), nil
}

// reconcile carries resolutions over to freshly computed conflicts that
// still describe the same divergence. changed reports whether the stored set
// differs from the fresh one.
func (s *Service) reconcile(mrID string, stored, fresh []model.Conflict) (merged []model.Conflict, changed bool) {
	changed = len(stored) != len(fresh)
	for _, c := range fresh {
		kept := false
		for _, old := range stored {
			if old.SameDivergence(c) {
				merged = append(merged, old)
				kept = true
				break
			}
		}
		if !kept {
			c.ID = s.idgen.New()
			c.MergeRequestID = mrID
			merged = append(merged, c)
			changed = true
		}
	}
	return merged, changed
}

// pointers is the branch state the plan was computed from.
func (p mergePlan) pointers() []model.MergePointer {
	out := make([]model.MergePointer, len(p.States))
	for i, st := range p.States {
		out[i] = model.MergePointer{FileID: st.FileID, SourceVersion: st.Source, TargetVersion: st.Target}
	}
	return out
}

// samePointers reports whether two snapshots hold the same versions for the same files.
func samePointers(a, b []model.MergePointer) bool {
	if len(a) != len(b) {
		return false
	}
	byFile := make(map[string]model.MergePointer, len(a))
	for _, p := range a {
		byFile[p.FileID] = p
	}
	for _, p := range b {
		if q, ok := byFile[p.FileID]; !ok || q != p {
			return false
		}
	}
	return true
}

// sameConflicts reports whether two conflict sets describe the same divergences.
func sameConflicts(a, b []model.Conflict) bool {
	if len(a) != len(b) {
		return false
	}
	for _, x := range a {
		found := false
		for _, y := range b {
			if x.SameDivergence(y) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
