package bolt_store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDocumentStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dripn.db")
	store, err := Open(path)
	require.NoError(t, err)
	ctx := context.Background()

	raw, err := store.Load(ctx, "dripn:state")
	require.NoError(t, err)
	require.Nil(t, raw)

	require.NoError(t, store.Save(ctx, "dripn:state", []byte(`{"a":1}`)))
	require.NoError(t, store.Close())

	// survives a reopen
	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()

	raw, err = store.Load(ctx, "dripn:state")
	require.NoError(t, err)
	require.Equal(t, `{"a":1}`, string(raw))
}
