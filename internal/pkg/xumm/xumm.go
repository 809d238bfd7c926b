package xumm

import (
	"context"
	"net/http"
	"strings"
	"time"

	"dripn/internal/models"
	"dripn/internal/pkg/restclient"

	"github.com/gojek/heimdall/v7"
)

const DEFAULT_BASE_URL = "https://xumm.app/api/v1"

// Client talks to a XUMM-style payload API to run a SignIn request and learn
// which account signed it.
type Client struct {
	client    heimdall.Doer
	baseURL   string
	apiKey    string
	apiSecret string
	now       func() time.Time
}

type Option func(*Client)

func WithClient(client heimdall.Doer) Option {
	return func(c *Client) {
		c.client = client
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

func NewClient(baseURL string, apiKey string, apiSecret string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DEFAULT_BASE_URL
	}
	c := &Client{
		client:    restclient.NewClient(10*time.Second, 2),
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		apiSecret: apiSecret,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type payloadCreated struct {
	UUID string `json:"uuid"`
	Next struct {
		Always string `json:"always"`
	} `json:"next"`
	Refs struct {
		QRPng string `json:"qr_png"`
	} `json:"refs"`
}

type payloadStatus struct {
	Meta struct {
		Resolved bool `json:"resolved"`
		Signed   bool `json:"signed"`
		Expired  bool `json:"expired"`
	} `json:"meta"`
	Response struct {
		Account string `json:"account"`
	} `json:"response"`
}

func (c *Client) headers() http.Header {
	h := http.Header{}
	h.Set("X-API-Key", c.apiKey)
	h.Set("X-API-Secret", c.apiSecret)
	return h
}

func (c *Client) CreateSignIn(ctx context.Context) (*models.SignInRequest, error) {
	body := map[string]any{
		"txjson": map[string]string{"TransactionType": "SignIn"},
	}

	var created payloadCreated
	err := restclient.DoJSON(ctx, c.client, http.MethodPost, c.baseURL+"/platform/payload", c.headers(), body, &created)
	if err != nil {
		return nil, err
	}

	return &models.SignInRequest{
		UUID:      created.UUID,
		URL:       created.Next.Always,
		QRCode:    created.Refs.QRPng,
		CreatedAt: c.now().UTC(),
	}, nil
}

func (c *Client) SignInStatus(ctx context.Context, uuid string) (*models.SignInStatus, error) {
	var status payloadStatus
	err := restclient.DoJSON(ctx, c.client, http.MethodGet, c.baseURL+"/platform/payload/"+uuid, c.headers(), nil, &status)
	if err != nil {
		return nil, err
	}

	return &models.SignInStatus{
		Resolved: status.Meta.Resolved,
		Signed:   status.Meta.Signed,
		Expired:  status.Meta.Expired,
		Account:  status.Response.Account,
	}, nil
}
