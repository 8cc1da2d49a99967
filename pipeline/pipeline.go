package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pevans/adwatch/apperr"
	"github.com/pevans/adwatch/metrics"
	"github.com/pevans/adwatch/posting"
	"github.com/pevans/adwatch/seenset"
)

// LinkCollector returns the posting links found at a search or feed URL.
type LinkCollector interface {
	Collect(ctx context.Context, url string) ([]string, error)
}

// DetailExtractor fetches a posting page and extracts its fields.
type DetailExtractor interface {
	Extract(ctx context.Context, postingURL string) (*posting.Posting, error)
}

// SeenStore loads and saves the ids of postings already reported.
type SeenStore interface {
	Load() (*seenset.Set, error)
	Save(set *seenset.Set) error
}

// ReportWriter writes the postings found by a run.
type ReportWriter interface {
	Write(postings []posting.Posting) error
}

// Pipeline stages, used to label failures.
const (
	StageLoad    = "load"
	StageCollect = "collect"
	StageExtract = "extract"
	StageReport  = "report"
	StageSave    = "save"
)

// Failure records one unit of work that was logged and skipped.
type Failure struct {
	Stage  string
	Target string
	Err    error
}

// Kind returns the failure kind of the underlying error.
func (f Failure) Kind() apperr.Kind {
	return apperr.KindOf(f.Err)
}

// Result describes what a run did.
type Result struct {
	RunID         uuid.UUID
	Links         []string // every collected link, in collection order
	Skipped       []string // ids skipped because they were already seen
	NewPostings   []posting.Posting
	Seen          *seenset.Set // the seen set as of the end of the run
	Failures      []Failure
	ReportWritten bool
	SeenSaved     bool
}

// FailuresIn returns the failures recorded for stage.
func (r *Result) FailuresIn(stage string) []Failure {
	var failures []Failure
	for _, f := range r.Failures {
		if f.Stage == stage {
			failures = append(failures, f)
		}
	}
	return failures
}

// Pipeline runs one pass of link collection, novelty filtering, detail
// extraction and persistence. It is single-threaded: every fetch happens in
// sequence on the caller's goroutine.
type Pipeline struct {
	searchURLs []string
	feedURLs   []string
	links      LinkCollector
	feeds      LinkCollector
	details    DetailExtractor
	seen       SeenStore
	report     ReportWriter
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSearchURLs sets the search result pages visited, in order.
func WithSearchURLs(urls ...string) Option {
	return func(p *Pipeline) { p.searchURLs = append([]string(nil), urls...) }
}

// WithFeedURLs sets the feeds visited after the search pages.
func WithFeedURLs(urls ...string) Option {
	return func(p *Pipeline) { p.feedURLs = append([]string(nil), urls...) }
}

// WithLinkCollector sets the collector used for search URLs.
func WithLinkCollector(c LinkCollector) Option {
	return func(p *Pipeline) { p.links = c }
}

// WithFeedCollector sets the collector used for feed URLs.
func WithFeedCollector(c LinkCollector) Option {
	return func(p *Pipeline) { p.feeds = c }
}

// WithDetailExtractor sets how posting pages are fetched and parsed.
func WithDetailExtractor(e DetailExtractor) Option {
	return func(p *Pipeline) { p.details = e }
}

// WithSeenStore sets where seen ids are loaded from and saved to.
func WithSeenStore(s SeenStore) Option {
	return func(p *Pipeline) { p.seen = s }
}

// WithReportWriter sets the destination of the report.
func WithReportWriter(w ReportWriter) Option {
	return func(p *Pipeline) { p.report = w }
}

// WithMetrics sets the metrics the run updates.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// New creates a pipeline. The link collector, detail extractor, seen store
// and report writer are required; a nop logger and private metrics are used
// when none are given.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	if p.metrics == nil {
		p.metrics = metrics.New()
	}
	return p
}

// Run executes one pass. Per-URL and per-posting failures are logged,
// recorded on the result and skipped; they never abort the run. If ctx is
// cancelled, collection and extraction stop, whatever was extracted so far
// is still persisted, and ctx.Err() is returned alongside the result.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	result := &Result{RunID: uuid.New()}
	log := p.logger.With(zap.Stringer("run_id", result.RunID))

	seen, err := p.seen.Load()
	if err != nil {
		log.Warn("failed to load seen set, starting empty", zap.Error(err))
		p.fail(log, result, StageLoad, "", err)
	}
	if seen == nil {
		seen = seenset.New()
	}
	result.Seen = seen
	log.Info("loaded seen set", zap.Int("count", seen.Len()))

	p.collect(ctx, log, result, "search", p.links, p.searchURLs)
	p.collect(ctx, log, result, "feed", p.feeds, p.feedURLs)
	p.extract(ctx, log, result)
	p.persist(log, result)

	p.metrics.RunDuration.Set(time.Since(start).Seconds())
	p.metrics.LastRunTimestamp.SetToCurrentTime()

	if err := ctx.Err(); err != nil {
		log.Warn("run interrupted", zap.Error(err))
		return result, err
	}
	return result, nil
}

// collect runs collector over urls in order, appending the links it finds.
func (p *Pipeline) collect(ctx context.Context, log *zap.Logger, result *Result, source string, collector LinkCollector, urls []string) {
	if len(urls) == 0 {
		return
	}
	if collector == nil {
		log.Warn("no collector configured, skipping URLs", zap.String("source", source), zap.Int("count", len(urls)))
		return
	}

	for _, url := range urls {
		if ctx.Err() != nil {
			return
		}

		log.Info("checking URL", zap.String("source", source), zap.String("url", url))
		links, err := collector.Collect(ctx, url)
		if err != nil {
			log.Error("failed to collect links", zap.String("url", url), zap.Error(err))
			p.fail(log, result, StageCollect, url, err)
			continue
		}

		result.Links = append(result.Links, links...)
		p.metrics.LinksCollected.WithLabelValues(source).Add(float64(len(links)))
		log.Info("found links", zap.String("url", url), zap.Int("count", len(links)))
	}
}

// extract fetches every collected link whose id has not been seen. Links
// are not deduplicated against each other, only against the seen set, which
// grows as postings succeed.
func (p *Pipeline) extract(ctx context.Context, log *zap.Logger, result *Result) {
	for _, link := range result.Links {
		if ctx.Err() != nil {
			return
		}

		id := posting.IDFromURL(link)
		if result.Seen.Contains(id) {
			log.Info("posting already processed", zap.String("id", id))
			result.Skipped = append(result.Skipped, id)
			p.metrics.PostingsSkipped.Inc()
			continue
		}

		log.Info("processing posting", zap.String("url", link))
		item, err := p.details.Extract(ctx, link)
		if err == nil && item == nil {
			err = apperr.New(apperr.KindParse, "extract", link, errors.New("no posting returned"))
		}
		if err != nil {
			log.Error("failed to process posting", zap.String("url", link), zap.Error(err))
			p.fail(log, result, StageExtract, link, err)
			continue
		}

		result.NewPostings = append(result.NewPostings, *item)
		result.Seen.Add(id)
		p.metrics.PostingsNew.Inc()
		log.Info("posting processed", zap.String("id", id))
	}
}

// persist writes the report and then the seen set, but only when something
// new was found. If the report cannot be written the seen set is left
// untouched so the same postings are reported again next run.
func (p *Pipeline) persist(log *zap.Logger, result *Result) {
	if len(result.NewPostings) == 0 {
		log.Info("no new postings found")
		return
	}

	if err := p.report.Write(result.NewPostings); err != nil {
		log.Error("failed to write report, not saving seen set", zap.Error(err))
		p.fail(log, result, StageReport, "", err)
		return
	}
	result.ReportWritten = true
	log.Info("report written", zap.Int("count", len(result.NewPostings)))

	if err := p.seen.Save(result.Seen); err != nil {
		log.Error("failed to save seen set", zap.Error(err))
		p.fail(log, result, StageSave, "", err)
		return
	}
	result.SeenSaved = true

	log.Info("new postings", zap.Int("count", len(result.NewPostings)))
}

func (p *Pipeline) fail(log *zap.Logger, result *Result, stage, target string, err error) {
	result.Failures = append(result.Failures, Failure{Stage: stage, Target: target, Err: err})
	p.metrics.RecordFailure(stage, err)

	var appErr *apperr.Error
	if errors.As(err, &appErr) && len(appErr.StackTrace()) > 0 {
		log.Debug("failure stack",
			zap.String("stage", stage),
			zap.String("target", target),
			zap.ByteString("stack", appErr.StackTrace()),
		)
	}
}
