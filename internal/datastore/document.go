package datastore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"dripn/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableDocument(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Document)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}
	return nil
}

func GetDocument(ctx context.Context, db bun.IDB, key string) (*models.Document, error) {
	var document models.Document
	err := db.NewSelect().Model(&document).Where(`"key" = ?`, key).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &document, nil
}

func UpsertDocument(ctx context.Context, db bun.IDB, document *models.Document) error {
	_, err := db.NewInsert().
		Model(document).
		On(`CONFLICT ("key") DO UPDATE`).
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

// DocumentStore keeps whole JSON documents in the document table.
type DocumentStore struct {
	db *bun.DB
}

func NewDocumentStore(db *bun.DB) *DocumentStore {
	return &DocumentStore{db}
}

func (store *DocumentStore) Load(ctx context.Context, key string) ([]byte, error) {
	document, err := GetDocument(ctx, store.db, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(document.Value), nil
}

func (store *DocumentStore) Save(ctx context.Context, key string, value []byte) error {
	return UpsertDocument(ctx, store.db, &models.Document{
		Key:       key,
		Value:     string(value),
		UpdatedAt: time.Now().UTC(),
	})
}
