package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrOutsideRoot   = errors.New("path escapes the served root")
	ErrNotFound      = errors.New("path does not exist")
	ErrNotADirectory = errors.New("path is not a directory")
)

// Root is the directory tree a server exposes. Every session receives its
// root explicitly at construction, so independent sessions (and tests) can
// serve different trees concurrently.
type Root struct {
	base string
}

// NewRoot validates the served directory and absolutizes it.
func NewRoot(dir string) (Root, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Root{}, fmt.Errorf("resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Root{}, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return Root{}, fmt.Errorf("root %s: %w", abs, ErrNotADirectory)
	}
	return Root{base: abs}, nil
}

// Base returns the absolute served directory.
func (r Root) Base() string { return r.base }

// ResolvedPath is a validated absolute path inside a root, with the
// existence probe results attached.
type ResolvedPath struct {
	Abs    string
	Exists bool
	IsDir  bool
}

// Resolve turns raw user input into an absolute path inside the root.
// Bare names and relative paths join to the root; absolute paths must
// already sit inside it. `.` and `..` segments are normalized lexically,
// and containment is decided before any filesystem access, so an escaping
// path is rejected without ever touching the disk.
func (r Root) Resolve(raw string) (ResolvedPath, error) {
	var p string
	if filepath.IsAbs(raw) {
		p = filepath.Clean(raw)
	} else {
		p = filepath.Join(r.base, raw)
	}
	if p != r.base && !strings.HasPrefix(p, r.base+string(filepath.Separator)) {
		return ResolvedPath{}, fmt.Errorf("%w: %s", ErrOutsideRoot, raw)
	}

	rp := ResolvedPath{Abs: p}
	info, err := os.Stat(p)
	if err == nil {
		rp.Exists = true
		rp.IsDir = info.IsDir()
	} else if !errors.Is(err, os.ErrNotExist) {
		return ResolvedPath{}, fmt.Errorf("stat %s: %w", p, err)
	}
	return rp, nil
}
