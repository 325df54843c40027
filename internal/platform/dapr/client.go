package dapr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/donelist/donelist-api/internal/events"
	"github.com/donelist/donelist-api/internal/platform/logger"
)

// defaultTimeout bounds a sidecar call when the caller supplies none.
const defaultTimeout = 10 * time.Second

// Client talks to the Dapr sidecar HTTP API.
type Client struct {
	baseURL     string
	pubsubName  string
	secretStore string
	httpClient  *http.Client
	logger      *slog.Logger
}

// NewClient creates a sidecar client. baseURL is the sidecar address without
// a trailing slash, typically "http://localhost:3500". If logger is nil, a
// default logger will be used.
func NewClient(baseURL, pubsubName, secretStore string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		panic("baseURL cannot be empty")
	}

	if timeout <= 0 {
		timeout = defaultTimeout
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:     baseURL,
		pubsubName:  pubsubName,
		secretStore: secretStore,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      logger.With(slog.String("component", "dapr_client")),
	}
}

// Ensure Client implements events.Publisher
var _ events.Publisher = (*Client)(nil)

// Publish implements events.Publisher by posting the payload to the sidecar
// pub/sub endpoint. It reports whether the sidecar accepted the event; an
// unreachable sidecar is logged and reported as false, never as an error.
func (c *Client) Publish(ctx context.Context, topic string, payload interface{}) bool {
	log := logger.FromContextOrDefault(ctx, c.logger)

	url := fmt.Sprintf("%s/v1.0/publish/%s/%s", c.baseURL, c.pubsubName, topic)

	status, _, err := c.post(ctx, url, payload)
	if err != nil {
		log.Warn("sidecar not available, event not published",
			slog.String("topic", topic),
			slog.String("error", err.Error()))
		return false
	}

	if status != http.StatusNoContent && status != http.StatusOK {
		log.Warn("sidecar rejected event",
			slog.String("topic", topic),
			slog.Int("status", status))
		return false
	}

	return true
}

// post sends a JSON body and returns the status code and response body.
func (c *Client) post(ctx context.Context, url string, payload interface{}) (int, []byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}

	return resp.StatusCode, respBody, nil
}

// get sends a GET and returns the status code and response body.
func (c *Client) get(ctx context.Context, url string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}

	return resp.StatusCode, respBody, nil
}
