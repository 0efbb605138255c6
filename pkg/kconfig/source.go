package kconfig

import (
	"io"
	"io/fs"
	"os"
	"strings"
)

// Source supplies the line streams the parser consumes. The parser performs
// no filesystem path resolution beyond string concatenation: it asks the
// source for the file path exactly as the source directive names it,
// relative to the collaborator-chosen base path.
type Source interface {
	// Open returns the content of the named Kconfig file. A missing file
	// must surface as a resource-class error.
	Open(path string) (io.ReadCloser, error)
}

// FSSource serves Kconfig files from an fs.FS.
type FSSource struct {
	fsys fs.FS
}

// NewFSSource creates a source backed by the given filesystem.
func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

// NewDirSource creates a source rooted at a directory on the host
// filesystem, typically the kernel source tree.
func NewDirSource(dir string) *FSSource {
	return &FSSource{fsys: os.DirFS(dir)}
}

// Open implements Source.
func (s *FSSource) Open(path string) (io.ReadCloser, error) {
	f, err := s.fsys.Open(path)
	if err != nil {
		return nil, NewResourceError("opening "+path, err)
	}
	return f, nil
}

// MapSource serves Kconfig content from an in-memory map keyed by file
// path. Used by tests.
type MapSource map[string]string

// Open implements Source.
func (s MapSource) Open(path string) (io.ReadCloser, error) {
	content, ok := s[path]
	if !ok {
		return nil, NewResourceError("opening "+path, fs.ErrNotExist)
	}
	return io.NopCloser(strings.NewReader(content)), nil
}
