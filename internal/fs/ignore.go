package fs

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// IgnoreFileName is read from the root of every uploaded directory.
const IgnoreFileName = ".gitliteignore"

// defaultIgnorePatterns are always applied regardless of config or ignore file.
var defaultIgnorePatterns = []string{IgnoreFileName, ".git/", ".DS_Store"}

// ignorePattern is a parsed ignore pattern with its matching strategy.
type ignorePattern struct {
	pattern   string
	matchPath bool // match against the relative path instead of the basename
	dirOnly   bool // trailing '/': match directories and everything below them
}

// IgnoreMatcher checks file paths against a set of ignore patterns.
// Patterns without '/' match against the basename only, patterns with '/'
// against the full relative path, and a trailing '/' marks a directory.
type IgnoreMatcher struct {
	patterns []ignorePattern
}

// NewIgnoreMatcher creates an IgnoreMatcher from raw pattern strings.
// Blank lines and lines starting with '#' are skipped.
func NewIgnoreMatcher(rawPatterns []string) *IgnoreMatcher {
	var patterns []ignorePattern
	for _, raw := range rawPatterns {
		raw = strings.TrimSpace(raw)
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		p := ignorePattern{}
		if strings.HasSuffix(raw, "/") {
			p.dirOnly = true
			raw = strings.TrimSuffix(raw, "/")
		}
		p.pattern = raw
		p.matchPath = strings.Contains(raw, "/")
		patterns = append(patterns, p)
	}
	return &IgnoreMatcher{patterns: patterns}
}

// Match reports whether the given file, relative to the upload root, is ignored.
func (m *IgnoreMatcher) Match(relativePath string) bool {
	if relativePath == "" {
		return false
	}
	normalized := filepath.ToSlash(relativePath)
	parts := strings.Split(normalized, "/")

	for _, p := range m.patterns {
		if p.dirOnly {
			// any parent directory may match
			for i := 1; i < len(parts); i++ {
				if p.match(strings.Join(parts[:i], "/"), parts[i-1]) {
					return true
				}
			}
			continue
		}
		if p.match(normalized, parts[len(parts)-1]) {
			return true
		}
	}
	return false
}

// MatchDir reports whether a directory, relative to the upload root, is ignored.
func (m *IgnoreMatcher) MatchDir(relativePath string) bool {
	if relativePath == "" || relativePath == "." {
		return false
	}
	normalized := filepath.ToSlash(relativePath)
	base := filepath.Base(relativePath)
	for _, p := range m.patterns {
		if p.match(normalized, base) {
			return true
		}
	}
	return false
}

func (p ignorePattern) match(path, base string) bool {
	target := base
	if p.matchPath {
		target = path
	}
	matched, err := filepath.Match(p.pattern, target)
	// A malformed pattern never matches.
	return err == nil && matched
}

// ParseIgnoreFile reads an ignore file and returns the raw pattern strings.
// Returns nil and no error if the file does not exist.
func ParseIgnoreFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening ignore file: %w", err)
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		patterns = append(patterns, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ignore file: %w", err)
	}
	return patterns, nil
}
