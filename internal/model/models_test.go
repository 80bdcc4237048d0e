package model

import "testing"

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    Strategy
		wantErr bool
	}{
		{"ours", StrategyOurs, false},
		{"THEIRS", StrategyTheirs, false},
		{" manual ", StrategyManual, false},
		{"both", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseStrategy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseStrategy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseStrategy(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseMergeStatus(t *testing.T) {
	for _, s := range []string{"", "open", "conflicts", "merged", "closed"} {
		if _, err := ParseMergeStatus(s); err != nil {
			t.Errorf("ParseMergeStatus(%q) error = %v", s, err)
		}
	}
	if _, err := ParseMergeStatus("pending"); err == nil {
		t.Error("ParseMergeStatus(pending) expected error")
	}
}

func TestMergeStatus_Terminal(t *testing.T) {
	if MergeStatusOpen.Terminal() || MergeStatusConflicts.Terminal() {
		t.Error("open and conflicts must not be terminal")
	}
	if !MergeStatusMerged.Terminal() || !MergeStatusClosed.Terminal() {
		t.Error("merged and closed must be terminal")
	}
}

func TestMergeRequest_HasConflicts(t *testing.T) {
	mr := MergeRequest{Conflicts: []Conflict{
		{ID: "c1", Strategy: StrategyOurs},
		{ID: "c2"},
	}}
	if !mr.HasConflicts() {
		t.Error("HasConflicts() = false with an unresolved conflict")
	}
	mr.Conflicts[1].Strategy = StrategyTheirs
	if mr.HasConflicts() {
		t.Error("HasConflicts() = true after resolving everything")
	}
}
