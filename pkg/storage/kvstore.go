package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Deadbeetle/helper-streambufs/pkg/kv"
)

// KVStore implements FileStore by keeping each object as a single value in
// a kv.Store. Paths become keys under prefix, one segment per path element.
// Objects are held in memory while being read or written, so KVStore suits
// small objects.
type KVStore struct {
	store  kv.Store
	prefix kv.Key
}

var _ FileStore = (*KVStore)(nil)

// NewKV returns a FileStore over store. The store is not closed by KVStore.
func NewKV(store kv.Store, prefix ...string) *KVStore {
	return &KVStore{store: store, prefix: kv.Key(prefix)}
}

func (s *KVStore) key(path string) (kv.Key, error) {
	p, err := cleanPath(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, path)
	}
	k := make(kv.Key, 0, len(s.prefix)+strings.Count(p, "/")+1)
	k = append(k, s.prefix...)
	return append(k, strings.Split(p, "/")...), nil
}

func (s *KVStore) Read(ctx context.Context, path string) (io.ReadCloser, error) {
	k, err := s.key(path)
	if err != nil {
		return nil, err
	}
	v, err := s.store.Get(ctx, k)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, fmt.Errorf("storage: read %s: %w", path, os.ErrNotExist)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", path, err)
	}
	return io.NopCloser(bytes.NewReader(v)), nil
}

// Write buffers the object and stores it on Close.
func (s *KVStore) Write(ctx context.Context, path string) (Writer, error) {
	k, err := s.key(path)
	if err != nil {
		return nil, err
	}
	return &kvWriter{ctx: ctx, store: s.store, key: k}, nil
}

func (s *KVStore) Delete(ctx context.Context, path string) error {
	k, err := s.key(path)
	if err != nil {
		return err
	}
	return s.store.Delete(ctx, k)
}

func (s *KVStore) Exists(ctx context.Context, path string) (bool, error) {
	k, err := s.key(path)
	if err != nil {
		return false, err
	}
	return s.store.Has(ctx, k)
}

type kvWriter struct {
	ctx    context.Context
	store  kv.Store
	key    kv.Key
	buf    bytes.Buffer
	closed bool
}

func (w *kvWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, os.ErrClosed
	}
	return w.buf.Write(p)
}

func (w *kvWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.store.Set(w.ctx, w.key, w.buf.Bytes())
}

// Abort drops the buffered object.
func (w *kvWriter) Abort(error) error {
	w.closed = true
	w.buf.Reset()
	return nil
}
