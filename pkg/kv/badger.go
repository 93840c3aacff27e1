package kv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	badger "github.com/dgraph-io/badger/v4"
)

// Badger is a Store persisted by BadgerDB v4.
type Badger struct {
	db   *badger.DB
	opts *Options
}

var _ Store = (*Badger)(nil)

// BadgerOptions configures NewBadger.
type BadgerOptions struct {
	// Options sets the key separator. May be nil.
	Options *Options

	// Dir holds the database files. It is required unless InMemory is set.
	Dir string

	// InMemory keeps the database in memory only.
	InMemory bool

	// Logger receives badger's log output. The default forwards warnings
	// and errors to slog and drops the rest.
	Logger badger.Logger
}

// NewBadger opens the database described by bopts.
func NewBadger(bopts BadgerOptions) (*Badger, error) {
	var dbOpts badger.Options
	switch {
	case bopts.InMemory:
		dbOpts = badger.DefaultOptions("").WithInMemory(true)
	case bopts.Dir != "":
		dbOpts = badger.DefaultOptions(bopts.Dir)
	default:
		return nil, errors.New("kv: BadgerOptions.Dir is required for on-disk mode")
	}
	var logger badger.Logger = slogLogger{}
	if bopts.Logger != nil {
		logger = bopts.Logger
	}
	db, err := badger.Open(dbOpts.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("kv: open badger: %w", err)
	}
	return &Badger{db: db, opts: bopts.Options}, nil
}

func (b *Badger) Get(_ context.Context, key Key) ([]byte, error) {
	k, err := b.opts.encode(key)
	if err != nil {
		return nil, err
	}
	var val []byte
	err = b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(k)
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		return nil, ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("kv: get %s: %w", key, err)
	}
	if val == nil {
		val = []byte{}
	}
	return val, nil
}

func (b *Badger) Set(_ context.Context, key Key, value []byte) error {
	k, err := b.opts.encode(key)
	if err != nil {
		return err
	}
	// badger keeps a reference to value until the transaction commits.
	v := append([]byte{}, value...)
	if err := b.db.Update(func(txn *badger.Txn) error { return txn.Set(k, v) }); err != nil {
		return fmt.Errorf("kv: set %s: %w", key, err)
	}
	return nil
}

func (b *Badger) Delete(_ context.Context, key Key) error {
	k, err := b.opts.encode(key)
	if err != nil {
		return err
	}
	err = b.db.Update(func(txn *badger.Txn) error { return txn.Delete(k) })
	if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("kv: delete %s: %w", key, err)
	}
	return nil
}

func (b *Badger) Has(_ context.Context, key Key) (bool, error) {
	k, err := b.opts.encode(key)
	if err != nil {
		return false, err
	}
	err = b.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(k)
		return err
	})
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, badger.ErrKeyNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("kv: has %s: %w", key, err)
	}
}

// Close closes the database.
func (b *Badger) Close() error {
	return b.db.Close()
}

// slogLogger is the default badger.Logger.
type slogLogger struct{}

func (slogLogger) Errorf(format string, args ...any) {
	slog.Error(fmt.Sprintf(format, args...), "component", "badger")
}

func (slogLogger) Warningf(format string, args ...any) {
	slog.Warn(fmt.Sprintf(format, args...), "component", "badger")
}

func (slogLogger) Infof(string, ...any)  {}
func (slogLogger) Debugf(string, ...any) {}
