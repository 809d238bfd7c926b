package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"dripn/internal/models"

	"github.com/stretchr/testify/require"
)

func TestPushAccount(t *testing.T) {
	var got models.AccountSnapshot
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/accounts/DRIP-ABC123", r.URL.Path)
		require.Equal(t, "Bearer t", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "t", nil).PushAccount(context.Background(), models.AccountSnapshot{
		OwnCode:        "DRIP-ABC123",
		Balance:        40,
		LifetimeEarned: 120,
		Tier:           models.TIER_BRONZE,
	})
	require.NoError(t, err)
	require.EqualValues(t, 120, got.LifetimeEarned)
}
