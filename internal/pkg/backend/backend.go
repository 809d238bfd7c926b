package backend

import (
	"context"
	"net/http"
	"strings"
	"time"

	"dripn/internal/models"
	"dripn/internal/pkg/restclient"

	"github.com/gojek/heimdall/v7"
)

// Client mirrors the local account to the reconciliation backend.
type Client struct {
	client  heimdall.Doer
	baseURL string
	token   string
}

func NewClient(baseURL string, token string, client heimdall.Doer) *Client {
	if client == nil {
		client = restclient.NewClient(10*time.Second, 1)
	}
	return &Client{client, strings.TrimRight(baseURL, "/"), token}
}

func (c *Client) PushAccount(ctx context.Context, snapshot models.AccountSnapshot) error {
	headers := http.Header{}
	if c.token != "" {
		headers.Set("Authorization", "Bearer "+c.token)
	}
	return restclient.DoJSON(ctx, c.client, http.MethodPut, c.baseURL+"/accounts/"+snapshot.OwnCode, headers, snapshot, nil)
}
