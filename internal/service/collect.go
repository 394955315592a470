package service

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"nitter_collector/internal/config"
	"nitter_collector/internal/domain"
	"nitter_collector/internal/registry"
)

// CollectService runs one complete collection: select hashtags, fetch each
// one sequentially with pacing between items, aggregate the tweets, and
// forward the batch downstream.
type CollectService struct {
	fetcher   Fetcher
	forwarder Forwarder
	pacer     Pacer
	registry  *registry.Registry
	catalog   []string
	logger    *slog.Logger
	cfg       config.CollectConfig
}

func NewCollectService(
	fetcher Fetcher,
	forwarder Forwarder,
	pacer Pacer,
	reg *registry.Registry,
	catalog []string,
	logger *slog.Logger,
	cfg config.CollectConfig,
) *CollectService {
	return &CollectService{
		fetcher:   fetcher,
		forwarder: forwarder,
		pacer:     pacer,
		registry:  reg,
		catalog:   catalog,
		logger:    logger.With("component", "collector"),
		cfg:       cfg,
	}
}

// Run executes one collection run. Work item failures and forwarding failures
// are recorded in the report, not returned; the error return is reserved for
// cancellation mid-run.
func (s *CollectService) Run(ctx context.Context) (*domain.RunReport, error) {
	start := time.Now()

	items := s.selectWorkItems()
	since := time.Now().Add(-s.cfg.MaxTweetAge)

	report := &domain.RunReport{
		Hashtags: make([]string, 0, len(items)),
	}
	var collected []domain.Tweet

	s.logger.Info("starting collection run",
		"items", len(items),
		"mirrors", s.registry.Len(),
	)

	for i, item := range items {
		report.Hashtags = append(report.Hashtags, item.Hashtag)
		ordering := s.registry.OrderingFrom(i)

		s.logger.Info("scraping hashtag", "hashtag", item.Hashtag, "mirror", ordering[0])

		res, err := s.fetcher.FetchWithFallback(ctx, item, ordering, since)
		if err != nil {
			s.logger.Error("work item failed",
				"hashtag", item.Hashtag,
				"attempts", res.Attempts,
				"error", err,
			)
			report.Results = append(report.Results, domain.ItemResult{
				Hashtag: item.Hashtag,
				Mirror:  res.Mirror,
				Error:   err.Error(),
			})
		} else {
			report.Results = append(report.Results, domain.ItemResult{
				Hashtag: item.Hashtag,
				Mirror:  res.Mirror,
				Found:   len(res.Tweets),
				Success: true,
			})
			collected = append(collected, res.Tweets...)
		}

		// Real wall-clock quiet period between items, skipped after the last.
		if i < len(items)-1 {
			if err := s.pacer.Wait(ctx); err != nil {
				report.Elapsed = time.Since(start)
				return report, err
			}
		}
	}

	report.TweetsCollected = len(collected)
	s.logger.Info("collected tweets", "total", len(collected))

	if len(collected) > 0 {
		result, err := s.forwarder.Forward(ctx, collected)
		if err != nil {
			s.logger.Error("forwarding failed", "error", err)
			report.IngestionError = err.Error()
		} else {
			report.Ingestion = result
		}
	}

	report.Success = true
	report.Elapsed = time.Since(start)

	s.logger.Info("collection run complete",
		"tweets", report.TweetsCollected,
		"elapsed", report.Elapsed,
	)

	return report, nil
}

// selectWorkItems picks distinct hashtags uniformly at random from the
// catalog. The returned order is the execution order for the run.
func (s *CollectService) selectWorkItems() []domain.WorkItem {
	count := s.cfg.ItemsPerRun
	if count > len(s.catalog) {
		count = len(s.catalog)
	}

	items := make([]domain.WorkItem, 0, count)
	for _, idx := range rand.Perm(len(s.catalog))[:count] {
		hashtag := s.catalog[idx]
		items = append(items, domain.WorkItem{
			Query:   hashtag,
			Hashtag: hashtag,
		})
	}
	return items
}
