package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nitter_collector/internal/config"
	"nitter_collector/internal/forward"
	"nitter_collector/internal/pacing"
	"nitter_collector/internal/registry"
	"nitter_collector/internal/scheduler"
	"nitter_collector/internal/service"
	"nitter_collector/internal/source/nitter"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	mode := flag.String("mode", "collect", "collect | once | probe | stress | volume | first")
	query := flag.String("q", "airport delay", "query for diagnostic modes")
	iterations := flag.Int("iterations", 5, "requests per stress run")
	mirror := flag.String("mirror", "", "mirror for volume runs (default: first configured)")
	flag.Parse()

	// Setup logger
	logger := setupLogger("info")

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	reg, err := registry.New(cfg.Mirrors)
	if err != nil {
		logger.Error("failed to build mirror registry", "error", err)
		os.Exit(1)
	}

	source := nitter.New(nitter.Config{
		Timeout:      cfg.Collect.Timeout,
		UserAgent:    cfg.Collect.UserAgent,
		BlockMarkers: cfg.Collect.BlockMarkers,
	}, reg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	switch *mode {
	case "collect", "once":
		if err := cfg.ValidateIngest(); err != nil {
			logger.Error("invalid config", "error", err)
			os.Exit(1)
		}

		forwarder := forward.New(forward.Config{
			Endpoint: cfg.Ingest.Endpoint,
			APIKey:   cfg.Ingest.APIKey,
			Timeout:  cfg.Ingest.Timeout,
		}, logger)

		collector := service.NewCollectService(
			source,
			forwarder,
			pacing.NewFixedDelay(cfg.Collect.ItemDelay),
			reg,
			cfg.Hashtags,
			logger,
			cfg.Collect,
		)

		if *mode == "once" {
			report, err := collector.Run(ctx)
			if err != nil {
				logger.Error("collection run failed", "error", err)
				os.Exit(1)
			}
			printJSON(report)
			return
		}

		logger.Info("starting collector",
			"mirrors", reg.Len(),
			"hashtags", len(cfg.Hashtags),
			"interval", cfg.Collect.Interval,
			"items_per_run", cfg.Collect.ItemsPerRun,
		)

		runTimeout := runTimeoutFor(cfg.Collect, reg.Len())
		sched := scheduler.NewScheduler(collector, cfg.Collect.Interval, runTimeout, logger)
		if err := sched.Start(ctx); err != nil && err != context.Canceled {
			logger.Error("scheduler error", "error", err)
			os.Exit(1)
		}

	case "probe", "stress", "volume", "first":
		diag := service.NewDiagnostics(source, reg, logger)

		switch *mode {
		case "probe":
			printJSON(diag.ProbeMirrors(ctx, *query))
		case "stress":
			printJSON(diag.Stress(ctx, *query, *iterations))
		case "volume":
			target := *mirror
			if target == "" {
				target = reg.MirrorFor(0)
			}
			printJSON(diag.Volume(ctx, target, service.DefaultVolumeQueries, 20))
		case "first":
			result, err := diag.FirstWorking(ctx, *query)
			if err != nil {
				logger.Error("all mirrors failed", "attempts", result.Attempts, "error", err)
				os.Exit(1)
			}
			printJSON(result)
		}

	default:
		logger.Error("unknown mode", "mode", *mode)
		os.Exit(1)
	}
}

// runTimeoutFor bounds a run by its worst case: every item exhausting every
// mirror plus the pacing delays, with headroom for the forwarding call.
func runTimeoutFor(cfg config.CollectConfig, mirrors int) time.Duration {
	perItem := time.Duration(mirrors)*cfg.Timeout + cfg.ItemDelay
	return time.Duration(cfg.ItemsPerRun)*perItem + time.Minute
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		slog.Error("failed to encode report", "error", err)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stderr, opts)
	return slog.New(handler)
}
