// Package diff computes line-oriented differences between two versions of a
// file and projects a single aligned edit script into the unified,
// side-by-side and compact forms.
package diff

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pmezard/go-difflib/difflib"
)

// Format selects which projections a Result carries.
type Format string

const (
	FormatUnified    Format = "unified"
	FormatSideBySide Format = "side_by_side"
	FormatCompact    Format = "compact"
	FormatAll        Format = "all"
)

// DefaultContext is the number of unchanged lines kept around each unified hunk.
const DefaultContext = 3

// ParseFormat validates a format name. The empty string selects unified.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "":
		return FormatUnified, nil
	case FormatUnified, FormatSideBySide, FormatCompact, FormatAll:
		return f, nil
	default:
		return "", fmt.Errorf("unknown diff format: %q", s)
	}
}

func (f Format) includes(p Format) bool {
	return f == FormatAll || f == p
}

// Options control labels and context size of the rendered projections.
type Options struct {
	OldLabel string
	NewLabel string
	Context  int
}

// Result holds the projections requested from Compute. A nil projection is
// not available, either because it was not requested or because the
// content is binary.
type Result struct {
	OldLabel   string      `json:"old_label"`
	NewLabel   string      `json:"new_label"`
	Binary     bool        `json:"binary"`
	Statistics Statistics  `json:"statistics"`
	Unified    *Unified    `json:"unified,omitempty"`
	SideBySide *SideBySide `json:"side_by_side,omitempty"`
	Compact    *Compact    `json:"compact,omitempty"`
}

// Available reports whether the projection for f is present.
func (r *Result) Available(f Format) bool {
	switch f {
	case FormatUnified:
		return r.Unified != nil
	case FormatSideBySide:
		return r.SideBySide != nil
	case FormatCompact:
		return r.Compact != nil
	case FormatAll:
		return r.Unified != nil && r.SideBySide != nil && r.Compact != nil
	}
	return false
}

// Compute diffs two contents and renders the projections selected by f.
// All projections come from the same edit script.
func Compute(oldContent, newContent []byte, f Format, opts Options) *Result {
	r := &Result{OldLabel: opts.OldLabel, NewLabel: opts.NewLabel}
	if IsBinary(oldContent) || IsBinary(newContent) {
		r.Binary = true
		return r
	}

	s := NewScript(SplitLines(string(oldContent)), SplitLines(string(newContent)))
	r.Statistics = s.Statistics()
	if f.includes(FormatUnified) {
		r.Unified = s.Unified(opts)
	}
	if f.includes(FormatSideBySide) {
		r.SideBySide = s.SideBySide()
	}
	if f.includes(FormatCompact) {
		r.Compact = s.Compact(opts)
	}
	return r
}

// IsBinary reports whether content cannot be shown as text.
func IsBinary(content []byte) bool {
	return bytes.IndexByte(content, 0) >= 0 || !utf8.Valid(content)
}

// SplitLines splits text into lines. A single trailing newline does not
// produce an extra empty line.
func SplitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// Script is the aligned edit script between two line sequences.
type Script struct {
	old []string
	new []string
	ops []difflib.OpCode
}

// NewScript aligns old against new. Junk heuristics are disabled so that
// frequent lines in large files still align.
func NewScript(old, new []string) *Script {
	m := difflib.NewMatcherWithJunk(old, new, false, nil)
	ops := append([]difflib.OpCode(nil), m.GetOpCodes()...)
	return &Script{old: old, new: new, ops: ops}
}

// Statistics counts changed lines. A replaced region pairs old and new lines
// as modifications; the unpaired remainder counts as additions or deletions.
func (s *Script) Statistics() Statistics {
	var st Statistics
	for _, op := range s.ops {
		removed, added := op.I2-op.I1, op.J2-op.J1
		switch op.Tag {
		case 'i':
			st.Additions += added
		case 'd':
			st.Deletions += removed
		case 'r':
			paired := min(removed, added)
			st.Modifications += paired
			st.Additions += added - paired
			st.Deletions += removed - paired
		}
	}
	return st
}

// groups splits the script into hunks keeping n equal lines of context.
func (s *Script) groups(n int) [][]difflib.OpCode {
	var groups [][]difflib.OpCode
	var cur []difflib.OpCode
	changed := false

	appendOp := func(tag byte, i1, i2, j1, j2 int) {
		if i1 == i2 && j1 == j2 {
			return
		}
		cur = append(cur, difflib.OpCode{Tag: tag, I1: i1, I2: i2, J1: j1, J2: j2})
	}

	for i, op := range s.ops {
		if op.Tag != 'e' {
			cur = append(cur, op)
			changed = true
			continue
		}
		size := op.I2 - op.I1
		last := i == len(s.ops)-1
		switch {
		case !changed:
			// leading context
			k := min(size, n)
			cur = nil
			appendOp('e', op.I2-k, op.I2, op.J2-k, op.J2)
		case last:
			k := min(size, n)
			appendOp('e', op.I1, op.I1+k, op.J1, op.J1+k)
		case size > 2*n:
			appendOp('e', op.I1, op.I1+n, op.J1, op.J1+n)
			groups = append(groups, cur)
			cur = nil
			changed = false
			appendOp('e', op.I2-n, op.I2, op.J2-n, op.J2)
		default:
			cur = append(cur, op)
		}
	}
	if changed {
		groups = append(groups, cur)
	}
	return groups
}

// formatRange renders a hunk range the way unified diff headers do.
func formatRange(start, length int) string {
	first := start + 1
	if length == 1 {
		return fmt.Sprintf("%d", first)
	}
	if length == 0 {
		first--
	}
	return fmt.Sprintf("%d,%d", first, length)
}

func hunkRange(g []difflib.OpCode) (oldRange, newRange string) {
	first, last := g[0], g[len(g)-1]
	return formatRange(first.I1, last.I2-first.I1), formatRange(first.J1, last.J2-first.J1)
}
