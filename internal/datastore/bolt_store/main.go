package bolt_store

import (
	"context"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketDocuments = []byte("documents")

// DocumentStore keeps documents in a single-file bbolt database, for installs
// that run without a SQL server.
type DocumentStore struct {
	db *bolt.DB
}

func Open(path string) (*DocumentStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketDocuments)
		return err
	})
	if err != nil {
		//nolint:errcheck
		db.Close()
		return nil, err
	}

	return &DocumentStore{db}, nil
}

func (store *DocumentStore) Close() error {
	return store.db.Close()
}

func (store *DocumentStore) Load(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := store.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketDocuments).Get([]byte(key))
		if raw != nil {
			// bbolt memory is only valid inside the transaction
			value = append([]byte(nil), raw...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (store *DocumentStore) Save(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return store.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketDocuments).Put([]byte(key), value)
	})
}

// Shutdown lets the injector close the file on exit.
func (store *DocumentStore) Shutdown() error {
	return store.Close()
}
