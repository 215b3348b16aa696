/*
Package source provides the file capabilities a Parsifal engine reads
templates and libraries through: FSSource over any io/fs filesystem and
SQLSource over a SQLite table.

Paths are slash separated and relative to the source root. Paths that would
escape the root are rejected. ListFiles returns the regular files directly
under a directory, sorted by name.
*/
package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when a file or directory does not exist.
// It matches fs.ErrNotExist with errors.Is.
var ErrNotFound = fmt.Errorf("source: %w", fs.ErrNotExist)

// ErrInvalidPath is returned for paths that are absolute or escape the root.
var ErrInvalidPath = errors.New("source: invalid path")

// FSSource reads files from an fs.FS.
type FSSource struct {
	fsys fs.FS
}

// NewFSSource returns a source reading from fsys.
func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

// NewDirSource returns a source rooted at the directory root on disk.
func NewDirSource(root string) *FSSource {
	return NewFSSource(os.DirFS(root))
}

// ReadFile returns the contents of name.
func (s *FSSource) ReadFile(_ context.Context, name string) (string, error) {
	p, err := cleanPath(name)
	if err != nil {
		return "", err
	}
	data, err := fs.ReadFile(s.fsys, p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, p)
		}
		return "", fmt.Errorf("failed to read %s: %w", p, err)
	}
	return string(data), nil
}

// ListFiles returns the paths of the files directly under dir, sorted by name.
func (s *FSSource) ListFiles(_ context.Context, dir string) ([]string, error) {
	p, err := cleanPath(dir)
	if err != nil {
		return nil, err
	}
	entries, err := fs.ReadDir(s.fsys, p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
		}
		return nil, fmt.Errorf("failed to list %s: %w", p, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, path.Join(p, e.Name()))
	}
	return names, nil
}

// cleanPath normalizes a template path to the slash-separated, root-relative
// form io/fs expects. The empty path is the root.
func cleanPath(name string) (string, error) {
	name = strings.TrimSpace(filepath.ToSlash(name))
	if name == "" {
		return ".", nil
	}
	p := path.Clean(name)
	if !fs.ValidPath(p) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, name)
	}
	return p, nil
}
