package commands

import (
	"fmt"
	"io"

	"github.com/Deadbeetle/helper-streambufs/pkg/cli"
	"github.com/Deadbeetle/helper-streambufs/pkg/kv"
	"github.com/Deadbeetle/helper-streambufs/pkg/storage"
)

// testStoreOverride replaces the configured store in tests.
var testStoreOverride storage.FileStore

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openStore builds the FileStore described by cfg. The returned closer
// releases backend resources and must be called when done.
func openStore(cfg *cli.Config) (storage.FileStore, io.Closer, error) {
	if testStoreOverride != nil {
		return testStoreOverride, nopCloser{}, nil
	}
	sc := cfg.Store
	switch sc.Kind {
	case cli.StoreLocal:
		s, err := storage.NewLocal(sc.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("open local store: %w", err)
		}
		return s, nopCloser{}, nil
	case cli.StoreS3:
		client := storage.NewS3Client(storage.S3Config{
			Region:    sc.Region,
			Endpoint:  sc.Endpoint,
			AccessKey: sc.AccessKey,
			SecretKey: sc.SecretKey,
		})
		return storage.NewS3(client, sc.Bucket, sc.Prefix), nopCloser{}, nil
	case cli.StoreBadger:
		db, err := kv.NewBadger(kv.BadgerOptions{Dir: sc.Dir})
		if err != nil {
			return nil, nil, fmt.Errorf("open badger store: %w", err)
		}
		return storage.NewKV(db, "objects"), db, nil
	case cli.StoreMemory:
		return storage.NewKV(kv.NewMemory(nil), "objects"), nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store kind %q", sc.Kind)
	}
}
