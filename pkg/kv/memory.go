package kv

import (
	"bytes"
	"context"
	"sync"
)

// Memory is a map-backed Store, used by tests and by the memory store kind
// of the CLI. Its contents are lost when the process exits.
type Memory struct {
	opts *Options

	mu      sync.RWMutex
	entries map[string][]byte
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty Memory. opts may be nil.
func NewMemory(opts *Options) *Memory {
	return &Memory{opts: opts, entries: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key Key) ([]byte, error) {
	k, err := m.opts.encode(key)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[string(k)]
	if !ok {
		return nil, ErrNotFound
	}
	return bytes.Clone(v), nil
}

func (m *Memory) Set(_ context.Context, key Key, value []byte) error {
	k, err := m.opts.encode(key)
	if err != nil {
		return err
	}
	v := bytes.Clone(value)
	if v == nil {
		v = []byte{}
	}
	m.mu.Lock()
	m.entries[string(k)] = v
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, key Key) error {
	k, err := m.opts.encode(key)
	if err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.entries, string(k))
	m.mu.Unlock()
	return nil
}

func (m *Memory) Has(_ context.Context, key Key) (bool, error) {
	k, err := m.opts.encode(key)
	if err != nil {
		return false, err
	}
	m.mu.RLock()
	_, ok := m.entries[string(k)]
	m.mu.RUnlock()
	return ok, nil
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }
