// Package nitter fetches search timelines from Nitter mirror endpoints,
// classifying every failure so callers can fall back across mirrors.
package nitter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"nitter_collector/internal/domain"
	"nitter_collector/internal/extract"
	"nitter_collector/internal/registry"
)

// Mirrors reject requests that do not look like a browser.
const acceptHeader = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"

// Config holds fetcher configuration.
type Config struct {
	Timeout      time.Duration
	UserAgent    string
	BlockMarkers []string
	// RequestInterval is the minimum spacing between any two requests issued
	// by this source, independent of the run-level pacing between work items.
	RequestInterval time.Duration
}

// Source performs mirror requests and reports every outcome back to the
// registry for health tracking.
type Source struct {
	httpClient   *http.Client
	limiter      *rate.Limiter
	registry     *registry.Registry
	patterns     *extract.Patterns
	userAgent    string
	blockMarkers []string
	logger       *slog.Logger
}

func New(cfg Config, reg *registry.Registry, logger *slog.Logger) *Source {
	interval := cfg.RequestInterval
	if interval == 0 {
		interval = 100 * time.Millisecond
	}

	return &Source{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:      rate.NewLimiter(rate.Every(interval), 1),
		registry:     reg,
		patterns:     extract.DefaultPatterns(),
		userAgent:    cfg.UserAgent,
		blockMarkers: cfg.BlockMarkers,
		logger:       logger.With("source", "nitter"),
	}
}

// SearchURL builds the mirror search URL for a query. A zero since time omits
// the recency filter; otherwise it is truncated to calendar-day granularity.
func (s *Source) SearchURL(mirror, query string, since time.Time) string {
	u := fmt.Sprintf("%s/search?f=tweets&q=%s", mirror, url.QueryEscape(query))
	if !since.IsZero() {
		u += "&since=" + since.Format("2006-01-02")
	}
	return u
}

// Fetch requests one mirror's timeline for a work item and extracts its
// tweets. The outcome, good or bad, is always recorded in the registry.
func (s *Source) Fetch(ctx context.Context, mirror string, item domain.WorkItem, since time.Time) ([]domain.Tweet, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	searchURL := s.SearchURL(mirror, item.Query, since)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, s.fail(mirror, time.Since(start), classifyTransport(err), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	latency := time.Since(start)
	if err != nil {
		return nil, s.fail(mirror, latency, classifyTransport(err), err)
	}

	if kind := s.classifyResponse(resp.StatusCode, string(body)); kind != domain.FailureNone {
		s.registry.RecordOutcome(mirror, domain.Outcome{
			Latency: latency,
			Failure: kind,
			Status:  resp.StatusCode,
		})
		return nil, &domain.FetchError{Mirror: mirror, Kind: kind, Status: resp.StatusCode}
	}

	s.registry.RecordOutcome(mirror, domain.Outcome{
		Latency: latency,
		Failure: domain.FailureNone,
		Status:  resp.StatusCode,
	})

	tweets := s.patterns.Extract(string(body), item.Hashtag)

	s.logger.Debug("fetched timeline",
		"mirror", mirror,
		"query", item.Query,
		"tweets", len(tweets),
		"latency", latency,
	)

	return tweets, nil
}

// FetchWithFallback tries mirrors strictly in the given order, stopping at the
// first usable page. On exhaustion it returns the last classified failure with
// the attempt count preserved.
func (s *Source) FetchWithFallback(ctx context.Context, item domain.WorkItem, ordering []string, since time.Time) (domain.FetchResult, error) {
	result := domain.FetchResult{}

	var lastErr error
	for _, mirror := range ordering {
		result.Mirror = mirror
		result.Attempts++

		tweets, err := s.Fetch(ctx, mirror, item, since)
		if err == nil {
			result.Tweets = tweets
			return result, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}

		kind, status := domain.ClassifyError(err)
		s.logger.Warn("mirror attempt failed",
			"mirror", mirror,
			"query", item.Query,
			"kind", string(kind),
			"status", status,
		)
	}

	return result, lastErr
}

func (s *Source) fail(mirror string, latency time.Duration, kind domain.FailureKind, err error) error {
	s.registry.RecordOutcome(mirror, domain.Outcome{
		Latency: latency,
		Failure: kind,
	})
	return &domain.FetchError{Mirror: mirror, Kind: kind, Err: err}
}

func (s *Source) classifyResponse(status int, body string) domain.FailureKind {
	if status == http.StatusForbidden || status == http.StatusTooManyRequests {
		return domain.FailureBlocked
	}
	if status < 200 || status > 299 {
		return domain.FailureHTTP
	}
	for _, marker := range s.blockMarkers {
		if strings.Contains(body, marker) {
			return domain.FailureBlocked
		}
	}
	return domain.FailureNone
}

func classifyTransport(err error) domain.FailureKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.FailureTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.FailureTimeout
	}
	return domain.FailureNetwork
}
