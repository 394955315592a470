package service

import (
	"context"
	"log/slog"
	"time"

	"nitter_collector/internal/domain"
	"nitter_collector/internal/registry"
)

// DefaultVolumeQueries is the query list used by volume runs when the caller
// supplies none.
var DefaultVolumeQueries = []string{
	"airport delay",
	"flight cancelled",
	"TSA line",
	"baggage claim",
	"airport security",
}

// Diagnostics drives the same fetch pipeline as production runs, but with
// per-mirror instrumentation and no pacing or forwarding.
type Diagnostics struct {
	fetcher  Fetcher
	registry *registry.Registry
	logger   *slog.Logger
}

func NewDiagnostics(fetcher Fetcher, reg *registry.Registry, logger *slog.Logger) *Diagnostics {
	return &Diagnostics{
		fetcher:  fetcher,
		registry: reg,
		logger:   logger.With("component", "diagnostics"),
	}
}

// ProbeMirrors fetches one query against every configured mirror and reports
// latency, block status and yield per mirror, plus the top mirrors ranked by
// the registry's observed latency with blocked mirrors excluded.
func (d *Diagnostics) ProbeMirrors(ctx context.Context, query string) *domain.ProbeReport {
	item := domain.WorkItem{Query: query, Hashtag: query}

	report := &domain.ProbeReport{
		Query:       query,
		TotalTested: d.registry.Len(),
	}
	byURL := make(map[string]domain.MirrorProbe, d.registry.Len())

	for _, m := range d.registry.Snapshot() {
		start := time.Now()
		tweets, err := d.fetcher.Fetch(ctx, m.URL, item, time.Time{})
		latency := time.Since(start)

		probe := domain.MirrorProbe{
			Mirror:  m.URL,
			Latency: latency,
		}
		if err != nil {
			kind, status := domain.ClassifyError(err)
			probe.Status = status
			probe.Blocked = kind == domain.FailureBlocked
			probe.Error = err.Error()
		} else {
			probe.Working = true
			probe.TweetsFound = len(tweets)
		}

		report.Results = append(report.Results, probe)
		byURL[m.URL] = probe

		if probe.Working {
			report.WorkingCount++
		}
		if probe.Blocked {
			report.BlockedCount++
		}
	}

	for _, m := range d.registry.RankedByLatency() {
		probe, ok := byURL[m.URL]
		if !ok || !probe.Working {
			continue
		}
		report.Best = append(report.Best, probe)
		if len(report.Best) == 3 {
			break
		}
	}

	d.logger.Info("mirror probe complete",
		"tested", report.TotalTested,
		"working", report.WorkingCount,
		"blocked", report.BlockedCount,
	)

	return report
}

// Stress issues iterations sequential requests round-robin over the mirrors
// and reports success and block rates. The source's own request limiter keeps
// a small gap between attempts.
func (d *Diagnostics) Stress(ctx context.Context, query string, iterations int) *domain.StressReport {
	item := domain.WorkItem{Query: query, Hashtag: query}
	start := time.Now()

	report := &domain.StressReport{Iterations: iterations}
	var totalLatency time.Duration

	for i := 0; i < iterations; i++ {
		mirror := d.registry.MirrorFor(i)

		attemptStart := time.Now()
		_, err := d.fetcher.Fetch(ctx, mirror, item, time.Time{})
		latency := time.Since(attemptStart)
		totalLatency += latency

		attempt := domain.StressAttempt{
			Iteration: i + 1,
			Mirror:    mirror,
			Latency:   latency,
		}
		if err != nil {
			kind, status := domain.ClassifyError(err)
			attempt.Status = status
			attempt.Blocked = kind == domain.FailureBlocked
			attempt.Error = err.Error()
		} else {
			attempt.Success = true
			report.SuccessCount++
		}
		if attempt.Blocked {
			report.BlockedCount++
		}

		report.Attempts = append(report.Attempts, attempt)

		if ctx.Err() != nil {
			break
		}
	}

	report.Elapsed = time.Since(start)
	if n := len(report.Attempts); n > 0 {
		report.AvgLatency = totalLatency / time.Duration(n)
	}
	return report
}

// Volume measures how many tweets a single mirror yields across a query list,
// keeping at most maxPerQuery records per query.
func (d *Diagnostics) Volume(ctx context.Context, mirror string, queries []string, maxPerQuery int) *domain.VolumeReport {
	start := time.Now()

	report := &domain.VolumeReport{
		Mirror:     mirror,
		QueriesRun: len(queries),
	}

	for _, query := range queries {
		item := domain.WorkItem{Query: query, Hashtag: query}

		tweets, err := d.fetcher.Fetch(ctx, mirror, item, time.Time{})
		qv := domain.QueryVolume{Query: query}
		if err != nil {
			qv.Error = err.Error()
		} else {
			if maxPerQuery > 0 && len(tweets) > maxPerQuery {
				tweets = tweets[:maxPerQuery]
			}
			qv.TweetsFound = len(tweets)
			if len(tweets) > 0 {
				sample := tweets[0]
				qv.Sample = &sample
			}
			report.TotalTweets += len(tweets)
		}

		report.Results = append(report.Results, qv)

		if ctx.Err() != nil {
			break
		}
	}

	report.Elapsed = time.Since(start)
	return report
}

// FirstWorking walks the mirrors in configured order and returns the first
// usable page's tweets. No recency filter and no pacing.
func (d *Diagnostics) FirstWorking(ctx context.Context, query string) (domain.FetchResult, error) {
	item := domain.WorkItem{Query: query, Hashtag: query}
	return d.fetcher.FetchWithFallback(ctx, item, d.registry.OrderingFrom(0), time.Time{})
}
