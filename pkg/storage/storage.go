// Package storage defines FileStore, the object sink behind store-backed
// stream buffers. An object is a named byte sequence that is written whole
// and read back as a stream; backends are the local filesystem, S3 (or any
// S3-compatible service), and a kv.Store.
package storage

import (
	"context"
	"errors"
	"io"
	"strings"
)

// FileStore is a minimal interface for object-oriented storage.
//
// Paths are forward-slash separated and relative to the store root.
// Implementations must be safe for concurrent use.
type FileStore interface {
	// Read opens the named object for reading.
	// The caller must close the returned ReadCloser when done.
	// If the object does not exist, the error wraps os.ErrNotExist.
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Write opens the named object for writing. The object is replaced
	// when the returned Writer is closed successfully; the caller must
	// close it to publish the data, or abort it to discard the data.
	Write(ctx context.Context, path string) (Writer, error)

	// Delete removes the named object. Missing objects are not an error.
	Delete(ctx context.Context, path string) error

	// Exists reports whether the named object exists.
	Exists(ctx context.Context, path string) (bool, error)
}

// Writer receives the content of one object.
//
// Close publishes everything written, replacing any previous object.
// Abort discards it and leaves the previous object untouched. After either
// call further writes fail.
type Writer interface {
	io.WriteCloser
	Abort(err error) error
}

// ErrInvalidPath is returned for empty paths and paths that escape the
// store root.
var ErrInvalidPath = errors.New("storage: invalid path")

// ErrAborted is reported to a pending upload when Abort is called with a
// nil error.
var ErrAborted = errors.New("storage: write aborted")

// cleanPath validates p and strips leading slashes.
func cleanPath(p string) (string, error) {
	p = strings.TrimLeft(p, "/")
	if p == "" {
		return "", ErrInvalidPath
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", ErrInvalidPath
		}
	}
	return p, nil
}
