package redis_store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

func dbKeyDocument(key string) string {
	return fmt.Sprintf("document:%s", key)
}

func SaveDocument(ctx context.Context, client redis.UniversalClient, key string, value []byte) error {
	return client.Set(ctx, dbKeyDocument(key), value, 0).Err()
}

func GetDocument(ctx context.Context, client redis.UniversalClient, key string) ([]byte, error) {
	value, err := client.Get(ctx, dbKeyDocument(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// DocumentStore keeps whole JSON documents as plain redis strings.
type DocumentStore struct {
	client redis.UniversalClient
}

func NewDocumentStore(client redis.UniversalClient) *DocumentStore {
	return &DocumentStore{client}
}

func (store *DocumentStore) Load(ctx context.Context, key string) ([]byte, error) {
	return GetDocument(ctx, store.client, key)
}

func (store *DocumentStore) Save(ctx context.Context, key string, value []byte) error {
	return SaveDocument(ctx, store.client, key, value)
}
