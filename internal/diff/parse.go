package diff

import "strings"

// ParseUnified classifies the lines of a unified diff text. The first
// matching rule wins: file headers (+++/---, only before the first hunk),
// hunk markers (@@), meta lines
// (Changes:, Summary:, ===), additions (+), deletions (-), and everything
// else is context. Additions, deletions and context are numbered with one
// running counter.
func ParseUnified(text string) []Line {
	var lines []Line
	n := 0
	inHunks := false
	for _, raw := range splitText(text) {
		var l Line
		switch {
		case !inHunks && (strings.HasPrefix(raw, "+++") || strings.HasPrefix(raw, "---")):
			l = Line{Type: LineHeader, Text: raw}
		case strings.HasPrefix(raw, "@@"):
			inHunks = true
			l = Line{Type: LineHunk, Text: raw}
		case isMeta(raw) || strings.HasPrefix(raw, "Changes:"):
			l = Line{Type: LineMeta, Text: raw}
		case strings.HasPrefix(raw, "+"):
			n++
			l = Line{Type: LineAddition, Text: raw[1:], Number: n}
		case strings.HasPrefix(raw, "-"):
			n++
			l = Line{Type: LineDeletion, Text: raw[1:], Number: n}
		default:
			n++
			l = Line{Type: LineContext, Text: strings.TrimPrefix(raw, " "), Number: n}
		}
		lines = append(lines, l)
	}
	return lines
}

// ParseCompact classifies the lines of a compact diff text. Only additions
// and deletions are numbered.
func ParseCompact(text string) []Line {
	var lines []Line
	n := 0
	for _, raw := range splitText(text) {
		var l Line
		switch {
		case isMeta(raw):
			l = Line{Type: LineMeta, Text: raw}
		case strings.HasPrefix(raw, "@ "):
			l = Line{Type: LineHunk, Text: raw}
		case strings.HasPrefix(raw, "+"):
			n++
			l = Line{Type: LineAddition, Text: raw[1:], Number: n}
		case strings.HasPrefix(raw, "-"):
			n++
			l = Line{Type: LineDeletion, Text: raw[1:], Number: n}
		default:
			l = Line{Type: LineContext, Text: raw}
		}
		lines = append(lines, l)
	}
	return lines
}

func isMeta(line string) bool {
	return strings.HasPrefix(line, "Summary:") || strings.HasPrefix(line, "===")
}

func splitText(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
