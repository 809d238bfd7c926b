package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gojek/heimdall/v7"
	"github.com/gojek/heimdall/v7/httpclient"
)

const maxErrorBody = 4096

type StatusError struct {
	Code int
	Body []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, bytes.TrimSpace(e.Body))
}

// NewClient builds a heimdall client. retries == 0 disables retrying, which is
// what non-idempotent calls want.
func NewClient(timeout time.Duration, retries int) *httpclient.Client {
	opts := []httpclient.Option{
		httpclient.WithHTTPTimeout(timeout),
	}
	if retries > 0 {
		backoff := heimdall.NewConstantBackoff(250*time.Millisecond, 100*time.Millisecond)
		opts = append(opts,
			httpclient.WithRetrier(heimdall.NewRetrier(backoff)),
			httpclient.WithRetryCount(retries),
		)
	}
	return httpclient.NewClient(opts...)
}

// DoJSON sends body as JSON (when not nil) and decodes a 2xx response into out
// (when not nil). Non-2xx responses come back as *StatusError.
func DoJSON(ctx context.Context, client heimdall.Doer, method string, url string, headers http.Header, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := client.Do(req)
	if res != nil && res.Body != nil {
		defer res.Body.Close()
	}
	if err != nil {
		if res != nil {
			return statusError(res)
		}
		return err
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return statusError(res)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func statusError(res *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
	return &StatusError{Code: res.StatusCode, Body: b}
}
