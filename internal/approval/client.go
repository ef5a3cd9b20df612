package approval

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/rajagrocer/storefront-backend/pkg/errors"
)

const responseBodyReadLimit int64 = 1 << 20

var errBaseURLRequired = errors.New("approval endpoint url is required")

// Client fetches the externally maintained approved-codes list from the
// sheet-backed read endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewClient builds the approved-codes client for the configured endpoint.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return nil, errBaseURLRequired
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// FetchApprovedCodes retrieves the current approved-code list. Every call
// hits the endpoint; nothing is cached.
func (c *Client) FetchApprovedCodes(ctx context.Context) ([]string, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "approval client not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build approval request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch approved codes")
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "approval endpoint returned non-success status").
			WithDetails(map[string]any{"status": resp.StatusCode})
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read approval response")
	}

	var codes []string
	if err := json.Unmarshal(body, &codes); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode approval response")
	}
	return codes, nil
}
