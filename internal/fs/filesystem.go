package fs

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Upload is a local regular file selected for upload.
// Name is the repository filename: the path relative to the upload root
// with forward slashes, or the basename for a single file.
type Upload struct {
	Path string
	Name string
	Size int64
}

// OSFilesystem selects and reads local files for upload.
type OSFilesystem struct {
	ignore []string
}

// NewOSFilesystem creates a filesystem reader. ignorePatterns apply in
// addition to the defaults and to the ignore file of each upload root.
func NewOSFilesystem(ignorePatterns []string) *OSFilesystem {
	return &OSFilesystem{ignore: ignorePatterns}
}

// Collect resolves rawPath and returns the files to upload, sorted by name.
// A directory contributes its regular files, and with recursive also
// those of its subdirectories.
func (m *OSFilesystem) Collect(rawPath string, recursive bool) ([]Upload, error) {
	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}
	info, err := os.Lstat(absPath)
	if err != nil {
		return nil, fmt.Errorf("stat path: %w", err)
	}
	if err := checkMode(absPath, info.Mode()); err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return []Upload{{Path: absPath, Name: filepath.Base(absPath), Size: info.Size()}}, nil
	}

	matcher, err := m.matcherFor(absPath)
	if err != nil {
		return nil, err
	}

	var uploads []Upload
	err = filepath.WalkDir(absPath, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(absPath, p)
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p == absPath {
				return nil
			}
			if !recursive || matcher.MatchDir(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || matcher.Match(rel) {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return fmt.Errorf("stat %s: %w", p, err)
		}
		uploads = append(uploads, Upload{Path: p, Name: filepath.ToSlash(rel), Size: fi.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	sort.Slice(uploads, func(i, j int) bool { return uploads[i].Name < uploads[j].Name })
	return uploads, nil
}

// ReadFile returns the content of an upload.
func (m *OSFilesystem) ReadFile(u Upload) ([]byte, error) {
	f, err := os.Open(u.Path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", u.Path, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", u.Path, err)
	}
	return data, nil
}

func (m *OSFilesystem) matcherFor(root string) (*IgnoreMatcher, error) {
	fromFile, err := ParseIgnoreFile(filepath.Join(root, IgnoreFileName))
	if err != nil {
		return nil, err
	}
	patterns := append([]string{}, defaultIgnorePatterns...)
	patterns = append(patterns, m.ignore...)
	patterns = append(patterns, fromFile...)
	return NewIgnoreMatcher(patterns), nil
}

func checkMode(path string, mode fs.FileMode) error {
	switch {
	case mode&os.ModeSymlink != 0:
		return fmt.Errorf("symlinks not supported: %s", path)
	case mode&os.ModeDevice != 0:
		return fmt.Errorf("device files not supported: %s", path)
	case mode&os.ModeNamedPipe != 0:
		return fmt.Errorf("named pipes not supported: %s", path)
	case mode&os.ModeSocket != 0:
		return fmt.Errorf("sockets not supported: %s", path)
	}
	return nil
}
