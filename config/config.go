package config

import (
	"errors"
	"fmt"
	"maps"
	"net/url"
	"slices"
	"time"

	"github.com/pevans/adwatch/scraper"
)

// Config is the search query configuration for one run. It is built once at
// startup and handed to each component by value; use Clone before sharing
// the slices or the header map.
type Config struct {
	// Origin against which relative posting links are resolved
	SiteOrigin string `yaml:"site_origin"`
	// Search result pages, visited in order
	SearchURLs []string `yaml:"search_urls"`
	// RSS/Atom feeds whose item links are treated like search results
	FeedURLs []string `yaml:"feed_urls"`
	// Sent with every request
	Headers map[string]string `yaml:"headers"`
	// Pause before every posting page fetch
	RequestDelay time.Duration `yaml:"request_delay"`
	// Per-request HTTP timeout; zero disables it
	RequestTimeout time.Duration `yaml:"request_timeout"`
	// Links kept per search or feed URL
	MaxLinks int `yaml:"max_links"`

	SeenFile    string `yaml:"seen_file"`
	ReportFile  string `yaml:"report_file"`
	MetricsFile string `yaml:"metrics_file"` // optional Prometheus textfile
	LogLevel    string `yaml:"log_level"`

	Selectors scraper.Selectors `yaml:"selectors"`
}

// Default returns the built-in configuration: Tehran transport and delivery
// jobs on Divar.
func Default() Config {
	return Config{
		SiteOrigin: "https://divar.ir",
		SearchURLs: []string{
			"https://divar.ir/s/tehran/transport-delivery-jobs?q=%D8%A7%D8%B3%D9%86%D9%BE%20%D8%A8%D8%A7%DA%A9%D8%B3",
			"https://divar.ir/s/tehran/transport-delivery-jobs?q=%D9%BE%DB%8C%DA%A9%20%D9%85%D9%88%D8%AA%D9%88%D8%B1%DB%8C%20%D9%85%DB%8C%D8%A7%D8%B1%D9%87",
			"https://divar.ir/s/tehran/transport-delivery-jobs?q=%D9%BE%DB%8C%DA%A9%20%D9%85%D9%88%D8%AA%D9%88%D8%B1%DB%8C%20%D8%A7%D8%B3%D9%86%D9%BE",
		},
		Headers: map[string]string{
			"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		},
		RequestDelay:   3 * time.Second,
		RequestTimeout: 30 * time.Second,
		MaxLinks:       5,
		SeenFile:       "seen_ads.json",
		ReportFile:     "new_ads.txt",
		LogLevel:       "info",
		Selectors:      scraper.DefaultSelectors(),
	}
}

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	c.SearchURLs = slices.Clone(c.SearchURLs)
	c.FeedURLs = slices.Clone(c.FeedURLs)
	c.Headers = maps.Clone(c.Headers)
	return c
}

// Origin parses SiteOrigin.
func (c Config) Origin() (*url.URL, error) {
	origin, err := url.Parse(c.SiteOrigin)
	if err != nil {
		return nil, fmt.Errorf("invalid site_origin: %w", err)
	}
	if origin.Scheme != "http" && origin.Scheme != "https" {
		return nil, fmt.Errorf("site_origin must use http or https scheme")
	}
	if origin.Host == "" {
		return nil, fmt.Errorf("site_origin must include a host")
	}
	return origin, nil
}

// Validate checks that the configuration can drive a run.
func (c Config) Validate() error {
	if len(c.SearchURLs) == 0 && len(c.FeedURLs) == 0 {
		return errors.New("at least one search_urls or feed_urls entry is required")
	}
	if _, err := c.Origin(); err != nil {
		return err
	}
	if c.MaxLinks <= 0 {
		return fmt.Errorf("max_links must be positive, got %d", c.MaxLinks)
	}
	if c.RequestDelay < 0 {
		return fmt.Errorf("request_delay must not be negative, got %s", c.RequestDelay)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must not be negative, got %s", c.RequestTimeout)
	}
	if c.SeenFile == "" {
		return errors.New("seen_file is required")
	}
	if c.ReportFile == "" {
		return errors.New("report_file is required")
	}
	if err := c.Selectors.Validate(); err != nil {
		return fmt.Errorf("invalid selectors: %w", err)
	}
	return nil
}
