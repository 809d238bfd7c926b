package payout

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"dripn/internal/models"
	"dripn/internal/pkg/restclient"

	"github.com/gojek/heimdall/v7"
)

// Client submits redemptions to the payout processor. Submissions are never
// retried: a timeout may still have produced a payout on the other side.
type Client struct {
	client  heimdall.Doer
	baseURL string
	apiKey  string
}

type Option func(*Client)

func WithClient(client heimdall.Doer) Option {
	return func(c *Client) {
		c.client = client
	}
}

func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		client:  restclient.NewClient(30*time.Second, 0),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) SubmitRedemption(ctx context.Context, req models.PayoutRequest) (*models.PayoutResult, error) {
	headers := http.Header{}
	if c.apiKey != "" {
		headers.Set("Authorization", "Bearer "+c.apiKey)
	}
	headers.Set("Idempotency-Key", req.Reference)

	var result models.PayoutResult
	err := restclient.DoJSON(ctx, c.client, http.MethodPost, c.baseURL+"/redemptions", headers, req, &result)
	if err != nil {
		var statusErr *restclient.StatusError
		if errors.As(err, &statusErr) {
			// processors answer rejections with the same envelope
			var rejected models.PayoutResult
			if json.Unmarshal(statusErr.Body, &rejected) == nil && rejected.Error != "" {
				rejected.Success = false
				return &rejected, nil
			}
		}
		return nil, err
	}

	return &result, nil
}
