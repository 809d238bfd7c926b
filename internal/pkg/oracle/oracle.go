package oracle

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"dripn/internal/pkg/caching"
	"dripn/internal/pkg/restclient"

	"github.com/gojek/heimdall/v7"
	"github.com/shopspring/decimal"
)

var ErrPriceUnavailable = errors.New("spot price unavailable")

// CoinGecko reads a USD spot price from a simple-price style endpoint:
// GET {base}/simple/price?ids={asset}&vs_currencies=usd -> {"asset":{"usd":0.52}}
type CoinGecko struct {
	client  heimdall.Doer
	baseURL string
	asset   string
	cache   caching.Cache
	ttl     time.Duration
}

type Option func(*CoinGecko)

func WithClient(client heimdall.Doer) Option {
	return func(o *CoinGecko) {
		o.client = client
	}
}

// WithCache shares one spot price between quotes taken within ttl.
func WithCache(cache caching.Cache, ttl time.Duration) Option {
	return func(o *CoinGecko) {
		o.cache = cache
		o.ttl = ttl
	}
}

func NewCoinGecko(baseURL string, asset string, opts ...Option) *CoinGecko {
	o := &CoinGecko{
		client:  restclient.NewClient(10*time.Second, 2),
		baseURL: strings.TrimRight(baseURL, "/"),
		asset:   asset,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *CoinGecko) GetSpotPrice(ctx context.Context) (decimal.Decimal, error) {
	if o.cache == nil {
		return o.fetch(ctx)
	}
	return caching.UseCache(ctx, o.cache, fmt.Sprintf("oracle:spot:%s", o.asset), o.ttl, func() (decimal.Decimal, error) {
		return o.fetch(ctx)
	})
}

func (o *CoinGecko) fetch(ctx context.Context) (decimal.Decimal, error) {
	q := url.Values{}
	q.Set("ids", o.asset)
	q.Set("vs_currencies", "usd")

	var body map[string]map[string]decimal.Decimal
	err := restclient.DoJSON(ctx, o.client, http.MethodGet, o.baseURL+"/simple/price?"+q.Encode(), nil, nil, &body)
	if err != nil {
		return decimal.Zero, err
	}

	price, ok := body[o.asset]["usd"]
	if !ok || !price.IsPositive() {
		return decimal.Zero, ErrPriceUnavailable
	}
	return price, nil
}
