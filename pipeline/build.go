package pipeline

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/pevans/adwatch/config"
	"github.com/pevans/adwatch/discovery"
	"github.com/pevans/adwatch/metrics"
	"github.com/pevans/adwatch/report"
	"github.com/pevans/adwatch/seenset"
)

// FromConfig wires the HTTP, file and metrics components described by cfg
// into a pipeline.
func FromConfig(cfg config.Config, logger *zap.Logger, m *metrics.Metrics) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg = cfg.Clone()

	origin, err := cfg.Origin()
	if err != nil {
		return nil, err
	}

	fetcher := discovery.NewFetcher(cfg.RequestTimeout, cfg.Headers)

	return New(
		WithSearchURLs(cfg.SearchURLs...),
		WithFeedURLs(cfg.FeedURLs...),
		WithLinkCollector(discovery.NewLinkCollector(fetcher, origin, cfg.Selectors.List, cfg.MaxLinks)),
		WithFeedCollector(discovery.NewFeedCollector(fetcher, origin, cfg.MaxLinks)),
		WithDetailExtractor(discovery.NewDetailExtractor(fetcher, cfg.Selectors.Detail, cfg.RequestDelay)),
		WithSeenStore(seenset.NewStore(cfg.SeenFile)),
		WithReportWriter(report.NewWriter(cfg.ReportFile)),
		WithMetrics(m),
		WithLogger(logger),
	), nil
}
