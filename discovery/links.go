package discovery

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pevans/adwatch/scraper"
)

// LinkCollector gathers posting links from search result pages. Only the
// first page of results is read; pagination is never followed.
type LinkCollector struct {
	fetcher  *Fetcher
	origin   *url.URL
	config   scraper.ListConfig
	maxLinks int
}

// NewLinkCollector creates a collector that resolves links against origin
// and keeps at most maxLinks per page.
func NewLinkCollector(fetcher *Fetcher, origin *url.URL, config scraper.ListConfig, maxLinks int) *LinkCollector {
	return &LinkCollector{
		fetcher:  fetcher,
		origin:   origin,
		config:   config,
		maxLinks: maxLinks,
	}
}

// Collect fetches searchURL and returns the absolute URLs of the first
// maxLinks posting cards, in page order.
func (lc *LinkCollector) Collect(ctx context.Context, searchURL string) ([]string, error) {
	doc, err := lc.fetcher.FetchHTML(ctx, searchURL)
	if err != nil {
		return nil, err
	}

	return ExtractLinks(doc, lc.config, lc.origin, lc.maxLinks), nil
}

// ExtractLinks returns the hrefs of the elements matching the card selector,
// resolved against origin. Cards without an href, or with one that does not
// parse, are skipped. At most maxLinks links are returned.
func ExtractLinks(doc *goquery.Document, config scraper.ListConfig, origin *url.URL, maxLinks int) []string {
	links := []string{}
	if maxLinks <= 0 {
		return links
	}
	doc.Find(config.CardSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, ok := s.Attr("href")
		if !ok {
			return true
		}
		link, ok := resolve(origin, href)
		if !ok {
			return true
		}
		links = append(links, link)
		return len(links) < maxLinks
	})
	return links
}

// resolve turns a possibly relative href into an absolute URL.
func resolve(origin *url.URL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	return origin.ResolveReference(ref).String(), true
}
