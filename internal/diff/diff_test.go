package diff

import (
	"reflect"
	"strings"
	"testing"
)

func countUnified(lines []Line) (adds, dels int) {
	for _, l := range lines {
		switch l.Type {
		case LineAddition:
			adds++
		case LineDeletion:
			dels++
		}
	}
	return adds, dels
}

func TestCompute_ProjectionsAgree(t *testing.T) {
	tests := []struct {
		name string
		old  string
		new  string
	}{
		{"single modification", "a\nb\nc\n", "a\nB\nc\n"},
		{"modify and append", "a\nb\nc\n", "a\nB\nc\nd\n"},
		{"pure insertion", "a\nc\n", "a\nb\nc\n"},
		{"pure deletion", "a\nb\nc\n", "a\nc\n"},
		{"uneven replacement", "x\ny\nz\n", "1\n2\n"},
		{"old empty", "", "one\ntwo\n"},
		{"new empty", "one\ntwo\n", ""},
		{"many regions", "1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n11\n12\n", "1\n2x\n3\n4\n5\n6\n7\n8\n9\n10x\n11\n12\n13\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Compute([]byte(tt.old), []byte(tt.new), FormatAll, Options{OldLabel: "v1", NewLabel: "v2", Context: 3})
			if !r.Available(FormatAll) {
				t.Fatal("Compute(all) missing a projection")
			}

			adds, dels := countUnified(r.Unified.Lines)
			if got, want := adds+dels, r.SideBySide.Statistics.Flattened(); got != want {
				t.Errorf("unified +/- = %d, side-by-side flattened = %d", got, want)
			}

			cAdds, cDels := countUnified(r.Compact.Lines)
			if cAdds != adds || cDels != dels {
				t.Errorf("compact +/- = %d/%d, unified = %d/%d", cAdds, cDels, adds, dels)
			}

			var sbsOld, sbsNew int
			for _, c := range r.SideBySide.Changes {
				sbsOld += len(c.OldLines)
				sbsNew += len(c.NewLines)
				if len(c.OldLines) != len(c.OldLineNumbers) || len(c.NewLines) != len(c.NewLineNumbers) {
					t.Errorf("change %+v: line numbers do not match lines", c)
				}
			}
			if sbsOld != dels || sbsNew != adds {
				t.Errorf("side-by-side old/new = %d/%d, unified dels/adds = %d/%d", sbsOld, sbsNew, dels, adds)
			}
		})
	}
}

func TestCompute_IdenticalInputs(t *testing.T) {
	content := []byte("same\ncontent\n")
	r := Compute(content, content, FormatAll, Options{Context: 3})

	if !r.Statistics.Empty() {
		t.Errorf("Statistics = %+v, want empty", r.Statistics)
	}
	if adds, dels := countUnified(r.Unified.Lines); adds+dels != 0 {
		t.Errorf("unified has %d changes, want 0", adds+dels)
	}
	if len(r.SideBySide.Changes) != 0 {
		t.Errorf("side-by-side has %d changes, want 0", len(r.SideBySide.Changes))
	}
	if adds, dels := countUnified(r.Compact.Lines); adds+dels != 0 {
		t.Errorf("compact has %d changes, want 0", adds+dels)
	}
	if r.SideBySide.Summary != "no changes" {
		t.Errorf("Summary = %q, want %q", r.SideBySide.Summary, "no changes")
	}
}

func TestCompute_EmptyInputDegrades(t *testing.T) {
	t.Run("all additions", func(t *testing.T) {
		r := Compute(nil, []byte("a\nb\n"), FormatSideBySide, Options{})
		want := Statistics{Additions: 2}
		if r.Statistics != want {
			t.Errorf("Statistics = %+v, want %+v", r.Statistics, want)
		}
		if len(r.SideBySide.Changes) != 1 || r.SideBySide.Changes[0].Type != ChangeInsert {
			t.Errorf("Changes = %+v, want one insert", r.SideBySide.Changes)
		}
	})

	t.Run("all deletions", func(t *testing.T) {
		r := Compute([]byte("a\nb\n"), nil, FormatSideBySide, Options{})
		want := Statistics{Deletions: 2}
		if r.Statistics != want {
			t.Errorf("Statistics = %+v, want %+v", r.Statistics, want)
		}
		if len(r.SideBySide.Changes) != 1 || r.SideBySide.Changes[0].Type != ChangeDelete {
			t.Errorf("Changes = %+v, want one delete", r.SideBySide.Changes)
		}
	})
}

func TestCompute_FormatSelection(t *testing.T) {
	old, new := []byte("a\n"), []byte("b\n")
	tests := []struct {
		format Format
		want   []Format
	}{
		{FormatUnified, []Format{FormatUnified}},
		{FormatSideBySide, []Format{FormatSideBySide}},
		{FormatCompact, []Format{FormatCompact}},
		{FormatAll, []Format{FormatUnified, FormatSideBySide, FormatCompact}},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			r := Compute(old, new, tt.format, Options{})
			for _, f := range []Format{FormatUnified, FormatSideBySide, FormatCompact} {
				want := false
				for _, w := range tt.want {
					if w == f {
						want = true
					}
				}
				if got := r.Available(f); got != want {
					t.Errorf("Available(%s) = %v, want %v", f, got, want)
				}
			}
		})
	}
}

func TestCompute_Binary(t *testing.T) {
	r := Compute([]byte("text\n"), []byte{0x00, 0x01, 0x02}, FormatAll, Options{})
	if !r.Binary {
		t.Error("Binary = false, want true")
	}
	for _, f := range []Format{FormatUnified, FormatSideBySide, FormatCompact, FormatAll} {
		if r.Available(f) {
			t.Errorf("Available(%s) = true for binary content", f)
		}
	}
}

func TestScript_Unified(t *testing.T) {
	r := Compute([]byte("a\nb\nc\n"), []byte("a\nB\nc\nd\n"), FormatUnified, Options{OldLabel: "f (v1)", NewLabel: "f (v2)", Context: 3})

	want := strings.Join([]string{
		"--- f (v1)",
		"+++ f (v2)",
		"Summary: 1 addition, 0 deletions, 1 modification",
		"@@ -1,3 +1,4 @@",
		" a",
		"-b",
		"+B",
		" c",
		"+d",
	}, "\n")
	if r.Unified.Text != want {
		t.Errorf("Unified.Text =\n%s\nwant\n%s", r.Unified.Text, want)
	}
}

func TestScript_UnifiedSplitsDistantHunks(t *testing.T) {
	var old, new []string
	for i := 0; i < 20; i++ {
		old = append(old, "line")
		new = append(new, "line")
	}
	new[1] = "first"
	new[18] = "second"

	s := NewScript(old, new)
	u := s.Unified(Options{Context: 2})
	hunks := 0
	for _, l := range u.Lines {
		if l.Type == LineHunk {
			hunks++
		}
	}
	if hunks != 2 {
		t.Errorf("hunks = %d, want 2\n%s", hunks, u.Text)
	}
}

func TestScript_Compact(t *testing.T) {
	r := Compute([]byte("a\nb\nc\n"), []byte("a\nB\nc\n"), FormatCompact, Options{OldLabel: "v1", NewLabel: "v2"})

	want := []Line{
		{Type: LineMeta, Text: "=== v1 -> v2 ==="},
		{Type: LineMeta, Text: "Summary: 0 additions, 0 deletions, 1 modification"},
		{Type: LineHunk, Text: "@ -2 +2"},
		{Type: LineDeletion, Text: "b", Number: 1},
		{Type: LineAddition, Text: "B", Number: 2},
	}
	if !reflect.DeepEqual(r.Compact.Lines, want) {
		t.Errorf("Compact.Lines = %+v, want %+v", r.Compact.Lines, want)
	}
}

func TestParseUnified_MatchesRenderedLines(t *testing.T) {
	tests := []struct {
		name     string
		old, new string
	}{
		{"plain", "keep\n  indented\nold\n\ntail\n", "keep\n  indented\nnew\n\ntail\nmore\n"},
		{"header-like content", "select 1;\n-- old comment\n--- rule\n", "select 1;\n++counter;\n+++ banner\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Compute([]byte(tt.old), []byte(tt.new), FormatAll, Options{OldLabel: "a", NewLabel: "b", Context: 3})

			if got := ParseUnified(r.Unified.Text); !reflect.DeepEqual(got, r.Unified.Lines) {
				t.Errorf("ParseUnified() = %+v\nwant %+v", got, r.Unified.Lines)
			}
			if got := ParseCompact(r.Compact.Text); !reflect.DeepEqual(got, r.Compact.Lines) {
				t.Errorf("ParseCompact() = %+v\nwant %+v", got, r.Compact.Lines)
			}

			var adds, dels int
			for _, l := range ParseUnified(r.Unified.Text) {
				switch l.Type {
				case LineAddition:
					adds++
				case LineDeletion:
					dels++
				}
			}
			if st := r.SideBySide.Statistics; adds+dels != st.Flattened() {
				t.Errorf("parsed +%d -%d, want %d changed lines from %+v", adds, dels, st.Flattened(), st)
			}
		})
	}
}

func TestParseUnified_Classification(t *testing.T) {
	text := "--- a\n+++ b\nChanges: 2\n@@ -1 +1 @@\n ctx\n-gone\n+added\n=== banner\nplain"
	got := ParseUnified(text)
	want := []Line{
		{Type: LineHeader, Text: "--- a"},
		{Type: LineHeader, Text: "+++ b"},
		{Type: LineMeta, Text: "Changes: 2"},
		{Type: LineHunk, Text: "@@ -1 +1 @@"},
		{Type: LineContext, Text: "ctx", Number: 1},
		{Type: LineDeletion, Text: "gone", Number: 2},
		{Type: LineAddition, Text: "added", Number: 3},
		{Type: LineMeta, Text: "=== banner"},
		{Type: LineContext, Text: "plain", Number: 4},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseUnified() = %+v\nwant %+v", got, want)
	}
}

func TestParseCompact_Classification(t *testing.T) {
	got := ParseCompact("Summary: x\n@ -1 +1\n-a\n+b\nnote")
	want := []Line{
		{Type: LineMeta, Text: "Summary: x"},
		{Type: LineHunk, Text: "@ -1 +1"},
		{Type: LineDeletion, Text: "a", Number: 1},
		{Type: LineAddition, Text: "b", Number: 2},
		{Type: LineContext, Text: "note"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseCompact() = %+v\nwant %+v", got, want)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatUnified, false},
		{"unified", FormatUnified, false},
		{"side_by_side", FormatSideBySide, false},
		{"compact", FormatCompact, false},
		{"ALL", FormatAll, false},
		{"split", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
