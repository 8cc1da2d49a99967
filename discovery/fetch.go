package discovery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pevans/adwatch/apperr"
)

// Fetcher performs GET requests carrying a fixed header set. The listing
// site serves different markup to clients that do not look like a browser,
// so every request sends the configured User-Agent.
type Fetcher struct {
	client  *http.Client
	headers map[string]string
}

// NewFetcher creates a fetcher with the given per-request timeout (zero
// disables it) and header set. The headers are copied.
func NewFetcher(timeout time.Duration, headers map[string]string) *Fetcher {
	return NewFetcherWithClient(&http.Client{Timeout: timeout}, headers)
}

// NewFetcherWithClient creates a fetcher that uses client for all requests.
func NewFetcherWithClient(client *http.Client, headers map[string]string) *Fetcher {
	return &Fetcher{
		client:  client,
		headers: maps.Clone(headers),
	}
}

// get performs the request and returns the body of a 200 response. The
// caller must close it.
func (f *Fetcher) get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperr.New(apperr.KindFetch, "create request", url, fmt.Errorf("failed to create request: %w", err))
	}
	for key, value := range f.headers {
		req.Header.Set(key, value)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			return nil, apperr.New(apperr.KindCanceled, "fetch", url, err)
		}
		return nil, apperr.New(apperr.KindFetch, "fetch", url, fmt.Errorf("failed to fetch URL: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, apperr.New(apperr.KindStatus, "fetch", url, fmt.Errorf("HTTP error: %s", resp.Status))
	}

	return resp.Body, nil
}

// FetchHTML fetches url and parses the response as HTML.
func (f *Fetcher) FetchHTML(ctx context.Context, url string) (*goquery.Document, error) {
	body, err := f.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, apperr.New(apperr.KindParse, "parse html", url, fmt.Errorf("failed to parse HTML: %w", err))
	}

	return doc, nil
}
