// Package forward posts collected tweet batches to the downstream ingestion
// service.
package forward

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"nitter_collector/internal/domain"
)

// Keep forwarding errors reportable: only surface a bounded slice of the
// downstream response body.
const maxErrorBody = 512

type Config struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	logger     *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		logger:   logger.With("component", "forwarder"),
	}
}

type batchPayload struct {
	Tweets []domain.Tweet `json:"tweets"`
}

// Forward sends one batch containing all tweets from a run. The API key
// travels in a dedicated header so it never appears in URLs or logs.
func (c *Client) Forward(ctx context.Context, tweets []domain.Tweet) (*domain.IngestResult, error) {
	body, err := json.Marshal(batchPayload{Tweets: tweets})
	if err != nil {
		return nil, fmt.Errorf("marshal batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/ingest/tweets", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("ingestion rejected batch: status %d: %s", resp.StatusCode, raw)
	}

	var result domain.IngestResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	c.logger.Info("batch forwarded",
		"tweets", len(tweets),
		"saved", result.Saved,
		"filtered", result.Filtered,
	)

	return &result, nil
}
