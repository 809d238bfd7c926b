package oracle

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetSpotPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/simple/price", r.URL.Path)
		require.Equal(t, "ripple", r.URL.Query().Get("ids"))
		require.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ripple":{"usd":0.5234}}`))
	}))
	defer srv.Close()

	o := NewCoinGecko(srv.URL+"/", "ripple")
	price, err := o.GetSpotPrice(context.Background())
	require.NoError(t, err)
	require.Equal(t, "0.5234", price.String())
}

func TestGetSpotPriceMissingAsset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"bitcoin":{"usd":60000}}`))
	}))
	defer srv.Close()

	o := NewCoinGecko(srv.URL, "ripple")
	_, err := o.GetSpotPrice(context.Background())
	require.ErrorIs(t, err, ErrPriceUnavailable)
}

func TestGetSpotPriceZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ripple":{"usd":0}}`))
	}))
	defer srv.Close()

	o := NewCoinGecko(srv.URL, "ripple")
	_, err := o.GetSpotPrice(context.Background())
	require.ErrorIs(t, err, ErrPriceUnavailable)
}

func TestGetSpotPriceClientError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	o := NewCoinGecko(srv.URL, "ripple")
	_, err := o.GetSpotPrice(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "429")
}
