// Package kv is the key-value layer under stream buffer object storage.
//
// Keys are paths of string segments, such as {"objects", "logs", "run-1"}.
// A store joins the segments with its separator (':' unless configured)
// to form the stored key, so a segment may not contain the separator.
//
// Badger persists entries with BadgerDB; Memory keeps them in a map.
package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned by Get for a key that has no value.
	ErrNotFound = errors.New("kv: not found")

	// ErrInvalidKey is returned for an empty key or a segment that
	// contains the separator.
	ErrInvalidKey = errors.New("kv: invalid key")
)

// Key is a hierarchical path of segments.
type Key []string

// String returns the key joined with ':'. It is for display only.
func (k Key) String() string {
	return strings.Join(k, ":")
}

// Store maps keys to byte values. Implementations are safe for concurrent
// use. Values passed in and handed out are copies.
type Store interface {
	// Get returns the value stored at key, or ErrNotFound.
	Get(ctx context.Context, key Key) ([]byte, error)

	// Set replaces the value at key.
	Set(ctx context.Context, key Key, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key Key) error

	// Has reports whether key has a value.
	Has(ctx context.Context, key Key) (bool, error)

	Close() error
}

// DefaultSeparator joins key segments when Options does not name one.
const DefaultSeparator byte = ':'

// Options configures a store. A nil *Options means the defaults.
type Options struct {
	Separator byte
}

func (o *Options) sep() byte {
	if o == nil || o.Separator == 0 {
		return DefaultSeparator
	}
	return o.Separator
}

// encode validates k and returns its stored form.
func (o *Options) encode(k Key) ([]byte, error) {
	if len(k) == 0 {
		return nil, fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	sep := o.sep()
	n := len(k) - 1
	for _, seg := range k {
		if strings.IndexByte(seg, sep) >= 0 {
			return nil, fmt.Errorf("%w: segment %q contains %q", ErrInvalidKey, seg, sep)
		}
		n += len(seg)
	}
	b := make([]byte, 0, n)
	for i, seg := range k {
		if i > 0 {
			b = append(b, sep)
		}
		b = append(b, seg...)
	}
	return b, nil
}
