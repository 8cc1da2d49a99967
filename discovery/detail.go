package discovery

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pevans/adwatch/apperr"
	"github.com/pevans/adwatch/posting"
	"github.com/pevans/adwatch/scraper"
)

// DetailExtractor fetches posting pages and extracts their fields.
type DetailExtractor struct {
	fetcher *Fetcher
	config  scraper.DetailConfig
	delay   time.Duration
	wait    func(ctx context.Context, d time.Duration) error
}

// NewDetailExtractor creates an extractor that pauses for delay before
// every fetch so bursts of requests don't trip the site's anti-scraping
// defenses.
func NewDetailExtractor(fetcher *Fetcher, config scraper.DetailConfig, delay time.Duration) *DetailExtractor {
	return &DetailExtractor{
		fetcher: fetcher,
		config:  config,
		delay:   delay,
		wait:    sleep,
	}
}

// sleep blocks for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Extract waits for the configured delay, then fetches postingURL and
// extracts a Posting from it. Missing fields never fail extraction; only
// network, status and parse failures do, in which case the posting is nil.
func (de *DetailExtractor) Extract(ctx context.Context, postingURL string) (*posting.Posting, error) {
	if err := de.wait(ctx, de.delay); err != nil {
		return nil, apperr.New(apperr.KindCanceled, "wait before fetch", postingURL, err)
	}

	doc, err := de.fetcher.FetchHTML(ctx, postingURL)
	if err != nil {
		return nil, err
	}

	p := ExtractPosting(doc, de.config, postingURL)
	return &p, nil
}

// ExtractPosting extracts the title and description from a posting page.
// Fields that are missing or empty are left nil.
func ExtractPosting(doc *goquery.Document, config scraper.DetailConfig, postingURL string) posting.Posting {
	var title *string
	titleText := strings.TrimSpace(doc.Find(config.TitleSelector).First().Text())
	if titleText != "" {
		title = &titleText
	}

	var description *string
	container := doc.Find(config.DescriptionContainerSelector).First()
	if container.Length() > 0 {
		text := container.Find(config.DescriptionTextSelector).First()
		if text.Length() > 0 {
			if normalized := normalizeLines(text.Text()); normalized != "" {
				description = &normalized
			}
		}
	}

	return posting.New(postingURL, title, description)
}

// normalizeLines trims every line of s and drops the blank ones, keeping the
// remaining line structure.
func normalizeLines(s string) string {
	var lines []string
	for line := range strings.Lines(s) {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
