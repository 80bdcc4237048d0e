package diff

import (
	"fmt"
	"strings"
)

// LineType classifies a rendered diff line.
type LineType string

const (
	LineHeader   LineType = "header"
	LineHunk     LineType = "hunk"
	LineMeta     LineType = "meta"
	LineAddition LineType = "addition"
	LineDeletion LineType = "deletion"
	LineContext  LineType = "context"
)

// Line is one rendered line. Text has the +/- marker removed for additions
// and deletions. Number is zero for lines that are not numbered.
type Line struct {
	Type   LineType `json:"type"`
	Text   string   `json:"text"`
	Number int      `json:"number,omitempty"`
}

// Statistics summarizes a diff.
type Statistics struct {
	Additions     int `json:"additions"`
	Deletions     int `json:"deletions"`
	Modifications int `json:"modifications"`
}

// Flattened is the number of +/- lines the same changes occupy in a
// unified rendering, where each modification is one deletion and one addition.
func (s Statistics) Flattened() int {
	return s.Additions + s.Deletions + 2*s.Modifications
}

// Empty reports whether there are no changes.
func (s Statistics) Empty() bool {
	return s.Additions == 0 && s.Deletions == 0 && s.Modifications == 0
}

func (s Statistics) String() string {
	if s.Empty() {
		return "no changes"
	}
	return fmt.Sprintf("%s, %s, %s",
		plural(s.Additions, "addition"), plural(s.Deletions, "deletion"), plural(s.Modifications, "modification"))
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// Unified is the classic unified diff.
type Unified struct {
	Text  string `json:"text"`
	Lines []Line `json:"lines"`
}

// Compact lists only changed lines grouped by location.
type Compact struct {
	Text  string `json:"text"`
	Lines []Line `json:"lines"`
}

// ChangeType classifies a side-by-side change block.
type ChangeType string

const (
	ChangeInsert ChangeType = "insert"
	ChangeDelete ChangeType = "delete"
	ChangeModify ChangeType = "modify"
)

// Change is one aligned block of the side-by-side view. Line numbers are 1-based.
type Change struct {
	Type           ChangeType `json:"type"`
	OldLines       []string   `json:"old_lines"`
	NewLines       []string   `json:"new_lines"`
	OldLineNumbers []int      `json:"old_line_numbers"`
	NewLineNumbers []int      `json:"new_line_numbers"`
}

// SideBySide pairs old and new regions of every change.
type SideBySide struct {
	Changes    []Change   `json:"changes"`
	Statistics Statistics `json:"statistics"`
	Summary    string     `json:"summary"`
}

// Unified renders the script as a unified diff with opts.Context lines of context.
func (s *Script) Unified(opts Options) *Unified {
	context := opts.Context
	if context < 0 {
		context = DefaultContext
	}

	lines := []Line{
		{Type: LineHeader, Text: "--- " + opts.OldLabel},
		{Type: LineHeader, Text: "+++ " + opts.NewLabel},
		{Type: LineMeta, Text: "Summary: " + s.Statistics().String()},
	}
	n := 0
	add := func(t LineType, text string) {
		n++
		lines = append(lines, Line{Type: t, Text: text, Number: n})
	}

	for _, g := range s.groups(context) {
		oldRange, newRange := hunkRange(g)
		lines = append(lines, Line{Type: LineHunk, Text: fmt.Sprintf("@@ -%s +%s @@", oldRange, newRange)})
		for _, op := range g {
			if op.Tag == 'e' {
				for _, l := range s.old[op.I1:op.I2] {
					add(LineContext, l)
				}
				continue
			}
			if op.Tag == 'd' || op.Tag == 'r' {
				for _, l := range s.old[op.I1:op.I2] {
					add(LineDeletion, l)
				}
			}
			if op.Tag == 'i' || op.Tag == 'r' {
				for _, l := range s.new[op.J1:op.J2] {
					add(LineAddition, l)
				}
			}
		}
	}
	return &Unified{Text: renderText(lines), Lines: lines}
}

// SideBySide renders one change block per non-equal region of the script.
func (s *Script) SideBySide() *SideBySide {
	st := s.Statistics()
	sbs := &SideBySide{Changes: []Change{}, Statistics: st, Summary: st.String()}
	for _, op := range s.ops {
		var c Change
		switch op.Tag {
		case 'i':
			c.Type = ChangeInsert
		case 'd':
			c.Type = ChangeDelete
		case 'r':
			c.Type = ChangeModify
		default:
			continue
		}
		c.OldLines = append([]string{}, s.old[op.I1:op.I2]...)
		c.NewLines = append([]string{}, s.new[op.J1:op.J2]...)
		c.OldLineNumbers = lineNumbers(op.I1, op.I2)
		c.NewLineNumbers = lineNumbers(op.J1, op.J2)
		sbs.Changes = append(sbs.Changes, c)
	}
	return sbs
}

func lineNumbers(from, to int) []int {
	nums := make([]int, 0, to-from)
	for i := from; i < to; i++ {
		nums = append(nums, i+1)
	}
	return nums
}

// Compact renders only the changed lines, each region introduced by a location marker.
func (s *Script) Compact(opts Options) *Compact {
	lines := []Line{
		{Type: LineMeta, Text: fmt.Sprintf("=== %s -> %s ===", opts.OldLabel, opts.NewLabel)},
		{Type: LineMeta, Text: "Summary: " + s.Statistics().String()},
	}
	n := 0
	for _, op := range s.ops {
		if op.Tag == 'e' {
			continue
		}
		lines = append(lines, Line{
			Type: LineHunk,
			Text: fmt.Sprintf("@ -%s +%s", formatRange(op.I1, op.I2-op.I1), formatRange(op.J1, op.J2-op.J1)),
		})
		for _, l := range s.old[op.I1:op.I2] {
			n++
			lines = append(lines, Line{Type: LineDeletion, Text: l, Number: n})
		}
		for _, l := range s.new[op.J1:op.J2] {
			n++
			lines = append(lines, Line{Type: LineAddition, Text: l, Number: n})
		}
	}
	return &Compact{Text: renderText(lines), Lines: lines}
}

func renderText(lines []Line) string {
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		switch l.Type {
		case LineAddition:
			b.WriteString("+")
		case LineDeletion:
			b.WriteString("-")
		case LineContext:
			b.WriteString(" ")
		}
		b.WriteString(l.Text)
	}
	return b.String()
}
