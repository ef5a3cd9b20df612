package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/rajagrocer/storefront-backend/pkg/errors"
)

const maxResponseBytes = 1 << 20

// PlaceOrderRequest is the payload posted to the remote order sheet.
type PlaceOrderRequest struct {
	OrderCode string          `json:"orderCode"`
	UserEmail string          `json:"userEmail"`
	Total     float64         `json:"total"`
	Payment   string          `json:"payment"`
	Items     []OrderItemWire `json:"items"`
	Timestamp string          `json:"timestamp"`
}

// OrderItemWire is one cart line as the sheet expects it.
type OrderItemWire struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// PlaceOrderResponse is the sheet's verdict on a submission. Status is
// "success" when the order was recorded; anything else is a business
// rejection and Message carries the reason.
type PlaceOrderResponse struct {
	Status    string `json:"status"`
	OrderCode string `json:"orderCode"`
	Message   string `json:"message,omitempty"`
}

// SheetClient submits orders to the remote sheet endpoint.
type SheetClient interface {
	PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (*PlaceOrderResponse, error)
}

type sheetClient struct {
	submitURL string
	http      *http.Client
}

// ClientOption customizes the sheet client.
type ClientOption func(*sheetClient)

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(s *sheetClient) {
		if c != nil {
			s.http = c
		}
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(s *sheetClient) {
		if d > 0 {
			s.http.Timeout = d
		}
	}
}

// NewSheetClient builds a client for the order submission endpoint.
func NewSheetClient(submitURL string, opts ...ClientOption) (SheetClient, error) {
	if strings.TrimSpace(submitURL) == "" {
		return nil, fmt.Errorf("submit URL required")
	}
	c := &sheetClient{
		submitURL: submitURL,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// PlaceOrder posts the order and decodes the sheet's verdict. Errors are
// transport level only; a business rejection comes back as a decoded
// response with a non-success status.
func (s *sheetClient) PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (*PlaceOrderResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode order payload")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.submitURL, bytes.NewReader(body))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build order request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := s.http.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order sheet unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "order sheet returned an error").
			WithDetails(map[string]any{"status": resp.StatusCode})
	}

	var decoded PlaceOrderResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&decoded); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode order sheet response")
	}
	return &decoded, nil
}
