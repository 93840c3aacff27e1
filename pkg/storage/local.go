package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Local implements FileStore on top of the local filesystem.
// All paths are resolved relative to the configured root directory.
type Local struct {
	root string
}

var _ FileStore = (*Local)(nil)

// NewLocal creates a Local store rooted at dir.
// The directory is created (with parents) if it does not already exist.
func NewLocal(dir string) (*Local, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	return &Local{root: abs}, nil
}

// Root returns the absolute root directory.
func (l *Local) Root() string {
	return l.root
}

func (l *Local) resolve(path string) (string, error) {
	p, err := cleanPath(path)
	if err != nil {
		return "", fmt.Errorf("%w: %q", err, path)
	}
	return filepath.Join(l.root, filepath.FromSlash(p)), nil
}

// Read opens the named file for reading.
func (l *Local) Read(_ context.Context, path string) (io.ReadCloser, error) {
	full, err := l.resolve(path)
	if err != nil {
		return nil, err
	}
	return os.Open(full)
}

// Write returns a writer to a temporary file next to the target. Close
// syncs it and renames it over the target, so readers never observe a
// partially written object.
func (l *Local) Write(_ context.Context, path string) (Writer, error) {
	full, err := l.resolve(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return nil, err
	}
	tmp, err := os.CreateTemp(filepath.Dir(full), "."+filepath.Base(full)+".tmp-")
	if err != nil {
		return nil, err
	}
	return &localWriter{f: tmp, target: full}, nil
}

// Delete removes the named file. If the file does not exist, Delete
// returns nil.
func (l *Local) Delete(_ context.Context, path string) error {
	full, err := l.resolve(path)
	if err != nil {
		return err
	}
	err = os.Remove(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Exists reports whether the named file exists.
func (l *Local) Exists(_ context.Context, path string) (bool, error) {
	full, err := l.resolve(path)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(full)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// localWriter writes to a temporary file and renames it on Close.
type localWriter struct {
	f      *os.File
	target string
	closed bool
}

func (w *localWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, os.ErrClosed
	}
	return w.f.Write(p)
}

// Abort removes the temporary file without touching the target.
func (w *localWriter) Abort(error) error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.f.Close()
	return os.Remove(w.f.Name())
}

func (w *localWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	tmp := w.f.Name()

	// The temporary file is removed on any failure so a broken write
	// leaves the previous object in place.
	if err := w.f.Sync(); err != nil {
		w.f.Close()
		os.Remove(tmp)
		return err
	}
	if err := w.f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, w.target); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
