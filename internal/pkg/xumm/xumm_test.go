package xumm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignInRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "key", r.Header.Get("X-API-Key"))
		require.Equal(t, "secret", r.Header.Get("X-API-Secret"))

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/platform/payload":
			_, _ = w.Write([]byte(`{"uuid":"p-1","next":{"always":"https://xumm.app/sign/p-1"},"refs":{"qr_png":"https://xumm.app/sign/p-1_q.png"}}`))
		case r.Method == http.MethodGet && r.URL.Path == "/platform/payload/p-1":
			_, _ = w.Write([]byte(`{"meta":{"resolved":true,"signed":true,"expired":false},"response":{"account":"rPEPPER7kfTD9w2To4CQk6UCfuHM9c6GDY"}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewClient(srv.URL, "key", "secret", WithClock(func() time.Time { return now }))

	req, err := c.CreateSignIn(context.Background())
	require.NoError(t, err)
	require.Equal(t, "p-1", req.UUID)
	require.Equal(t, "https://xumm.app/sign/p-1", req.URL)
	require.Equal(t, now, req.CreatedAt)

	status, err := c.SignInStatus(context.Background(), req.UUID)
	require.NoError(t, err)
	require.True(t, status.Resolved)
	require.True(t, status.Signed)
	require.Equal(t, "rPEPPER7kfTD9w2To4CQk6UCfuHM9c6GDY", status.Account)
}
