package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/pevans/adwatch/config"
	"github.com/pevans/adwatch/logging"
	"github.com/pevans/adwatch/metrics"
	"github.com/pevans/adwatch/pipeline"
)

func main() {
	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	m := metrics.New()
	p, err := pipeline.FromConfig(cfg, logger, m)
	if err != nil {
		logger.Error("failed to build pipeline", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}

	// SIGINT/SIGTERM stop the run; postings extracted so far are still saved
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting run",
		zap.Int("search_urls", len(cfg.SearchURLs)),
		zap.Int("feed_urls", len(cfg.FeedURLs)),
	)

	result, err := p.Run(ctx)
	switch {
	case errors.Is(err, context.Canceled):
		logger.Warn("run cancelled by signal")
	case err != nil:
		logger.Error("run failed", zap.Error(err))
	}

	if result != nil {
		logger.Info("run finished",
			zap.Stringer("run_id", result.RunID),
			zap.Int("links", len(result.Links)),
			zap.Int("skipped", len(result.Skipped)),
			zap.Int("new", len(result.NewPostings)),
			zap.Int("failures", len(result.Failures)),
		)
	}

	if cfg.MetricsFile != "" {
		if err := m.WriteTextfile(cfg.MetricsFile); err != nil {
			logger.Error("failed to write metrics", zap.Error(err))
		}
	}
}
