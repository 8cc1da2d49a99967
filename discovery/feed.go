package discovery

import (
	"context"
	"fmt"
	"net/url"

	"github.com/mmcdole/gofeed"

	"github.com/pevans/adwatch/apperr"
)

// FeedCollector gathers posting links from an RSS or Atom feed. The gofeed
// library detects the format and normalizes both into a common structure.
type FeedCollector struct {
	fetcher  *Fetcher
	parser   *gofeed.Parser
	origin   *url.URL
	maxLinks int
}

// NewFeedCollector creates a collector that resolves item links against
// origin and keeps at most maxLinks per feed.
func NewFeedCollector(fetcher *Fetcher, origin *url.URL, maxLinks int) *FeedCollector {
	return &FeedCollector{
		fetcher:  fetcher,
		parser:   gofeed.NewParser(),
		origin:   origin,
		maxLinks: maxLinks,
	}
}

// Collect fetches feedURL and returns the absolute links of its first
// maxLinks items, in feed order.
func (fc *FeedCollector) Collect(ctx context.Context, feedURL string) ([]string, error) {
	body, err := fc.fetcher.get(ctx, feedURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	feed, err := fc.parser.Parse(body)
	if err != nil {
		return nil, apperr.New(apperr.KindParse, "parse feed", feedURL, fmt.Errorf("failed to parse feed: %w", err))
	}

	return FeedLinks(feed, fc.origin, fc.maxLinks), nil
}

// FeedLinks returns the item links of feed resolved against origin. Items
// without a link are skipped. At most maxLinks links are returned.
func FeedLinks(feed *gofeed.Feed, origin *url.URL, maxLinks int) []string {
	links := []string{}
	for _, item := range feed.Items {
		if len(links) >= maxLinks {
			break
		}
		link, ok := resolve(origin, item.Link)
		if !ok {
			continue
		}
		links = append(links, link)
	}
	return links
}
