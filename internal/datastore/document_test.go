package datastore

import (
	"context"
	"fmt"
	"testing"

	"dripn/internal/models"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func openTestDB(t *testing.T) *bun.DB {
	t.Helper()

	db, err := OpenDB(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()), "")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, Migrate(context.Background(), db))
	return db
}

func TestDocumentStore(t *testing.T) {
	db := openTestDB(t)
	store := NewDocumentStore(db)
	ctx := context.Background()

	raw, err := store.Load(ctx, "missing")
	require.NoError(t, err)
	require.Nil(t, raw)

	require.NoError(t, store.Save(ctx, "state", []byte(`{"balance":1}`)))
	require.NoError(t, store.Save(ctx, "state", []byte(`{"balance":2}`)))

	raw, err = store.Load(ctx, "state")
	require.NoError(t, err)
	require.JSONEq(t, `{"balance":2}`, string(raw))

	count, err := db.NewSelect().Model((*models.Document)(nil)).Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestUpsertConfig(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, UpsertConfig(ctx, db, &models.Config{Key: "DAILY_CAP", Value: "500"}, false))
	require.NoError(t, UpsertConfig(ctx, db, &models.Config{Key: "DAILY_CAP", Value: "900"}, false))

	config, err := GetConfigByKey(ctx, db, "DAILY_CAP")
	require.NoError(t, err)
	require.Equal(t, "500", config.Value)

	require.NoError(t, UpsertConfig(ctx, db, &models.Config{Key: "DAILY_CAP", Value: "900"}, true))
	require.NoError(t, UpsertConfig(ctx, db, &models.Config{Key: "CONVERSION_RATE", Value: "0.001"}, true))

	configs, err := GetConfigs(ctx, db)
	require.NoError(t, err)
	require.Len(t, configs, 2)
	require.Equal(t, "CONVERSION_RATE", configs[0].Key)
	require.Equal(t, "900", configs[1].Value)
}
