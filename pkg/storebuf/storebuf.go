// Package storebuf provides a byte stream buffer whose sink and source is
// one object in a storage.FileStore.
//
// Characters put into a Buffer are staged in memory; Sync publishes
// everything staged so far as the object's complete content. Get streams
// the object as it exists in the store. The store is borrowed and never
// closed by the Buffer.
package storebuf

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/Deadbeetle/helper-streambufs/pkg/storage"
	"github.com/Deadbeetle/helper-streambufs/pkg/streambuf"
)

// Buffer is a StreamBuffer[byte] backed by a storage object.
// A Buffer is not safe for concurrent use.
type Buffer struct {
	ctx   context.Context
	store storage.FileStore
	path  string

	staged streambuf.Memory[byte]
	dirty  bool

	r  io.ReadCloser
	br *bufio.Reader
}

var _ streambuf.StreamBuffer[byte] = (*Buffer)(nil)

// New returns a Buffer for the object at path in store. ctx is used for
// every store call the Buffer makes.
func New(ctx context.Context, store storage.FileStore, path string) *Buffer {
	return &Buffer{ctx: ctx, store: store, path: path}
}

// Path returns the object path.
func (b *Buffer) Path() string {
	return b.path
}

// Put stages c. It never fails; delivery errors surface from Sync.
func (b *Buffer) Put(c byte) (byte, error) {
	b.dirty = true
	return b.staged.Put(c)
}

// Get returns the next byte of the stored object, opening it on first use.
// A missing object reads as empty input.
func (b *Buffer) Get() (byte, error) {
	if b.r == nil {
		r, err := b.store.Read(b.ctx, b.path)
		if errors.Is(err, fs.ErrNotExist) {
			return 0, io.EOF
		}
		if err != nil {
			return 0, fmt.Errorf("storebuf: open %s: %w", b.path, err)
		}
		slog.Debug("storebuf: opened object", "path", b.path)
		b.r = r
		b.br = bufio.NewReader(r)
	}
	c, err := b.br.ReadByte()
	if err == io.EOF {
		return 0, io.EOF
	}
	if err != nil {
		return 0, fmt.Errorf("storebuf: get %s: %w", b.path, err)
	}
	return c, nil
}

// Sync writes everything staged so far as the object content. A failed
// write is aborted, so the previous object stays as it was. Staged data
// is kept, so a failed Sync can be retried and later puts extend the same
// object. Syncing with nothing new staged does nothing.
func (b *Buffer) Sync() error {
	if !b.dirty {
		return nil
	}
	w, err := b.store.Write(b.ctx, b.path)
	if err != nil {
		return fmt.Errorf("storebuf: sync %s: %w", b.path, err)
	}
	data := b.staged.Contents()
	n, err := w.Write(data)
	if err == nil && n != len(data) {
		err = io.ErrShortWrite
	}
	if err != nil {
		if aerr := w.Abort(err); aerr != nil {
			slog.Warn("storebuf: abort failed", "path", b.path, "error", aerr)
		}
		return fmt.Errorf("storebuf: sync %s: %w", b.path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("storebuf: sync %s: %w", b.path, err)
	}
	b.dirty = false
	slog.Debug("storebuf: published object", "path", b.path, "bytes", len(data))
	return nil
}

// SeekRelative is not supported and returns -1 with ErrNotSeekable.
func (b *Buffer) SeekRelative(int64, streambuf.Origin) (int64, error) {
	return -1, streambuf.ErrNotSeekable
}

// SeekAbsolute is not supported and returns -1 with ErrNotSeekable.
func (b *Buffer) SeekAbsolute(int64) (int64, error) {
	return -1, streambuf.ErrNotSeekable
}

// Close releases the object reader opened by Get, if any. It does not
// publish staged data and does not close the store.
func (b *Buffer) Close() error {
	if b.r == nil {
		return nil
	}
	err := b.r.Close()
	b.r, b.br = nil, nil
	return err
}
