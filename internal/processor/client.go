package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/bwmarrin/snowflake"
	"github.com/debdutisardar8903/wallineex-backend/internal/config"
	"github.com/debdutisardar8903/wallineex-backend/internal/observability/tracing"
	"go.uber.org/zap"
)

// Client talks to the payment processor's order API. One verification call
// issues at most one GetOrder; retry is the caller's problem.
type Client struct {
	http  *http.Client
	log   *zap.Logger
	genID *snowflake.Node
	cfg   config.Cashfree
}

func NewClient(cfg config.Cashfree, log *zap.Logger, genID *snowflake.Node) *Client {
	return &Client{
		http:  tracing.WrapHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		log:   log.Named("processor.client"),
		genID: genID,
		cfg:   cfg,
	}
}

// GetOrder fetches the authoritative state of an order.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	var order Order
	if err := c.getJSON(ctx, "/orders/"+url.PathEscape(orderID), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderPayments fetches the payment attempts recorded against an order.
func (c *Client) GetOrderPayments(ctx context.Context, orderID string) ([]Payment, error) {
	var payments []Payment
	if err := c.getJSON(ctx, "/orders/"+url.PathEscape(orderID)+"/payments", &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return &UpstreamError{Message: err.Error()}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-api-version", c.cfg.APIVersion)
	req.Header.Set("x-client-id", c.cfg.ClientID)
	req.Header.Set("x-client-secret", c.cfg.ClientSecret)
	req.Header.Set("x-request-id", c.genID.Generate().String())

	resp, err := c.http.Do(req)
	if err != nil {
		return &UpstreamError{Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &UpstreamError{StatusCode: resp.StatusCode, Message: err.Error()}
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrOrderNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return upstreamErrorFromBody(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		c.log.Warn("malformed processor payload",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return &UpstreamError{StatusCode: resp.StatusCode, Message: "malformed processor payload"}
	}
	return nil
}

func upstreamErrorFromBody(status int, body []byte) *UpstreamError {
	var payload struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Message == "" {
		return &UpstreamError{
			StatusCode: status,
			Message:    fmt.Sprintf("processor returned status %d", status),
		}
	}
	return &UpstreamError{StatusCode: status, Code: payload.Code, Message: payload.Message}
}
