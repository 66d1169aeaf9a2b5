// Package slog decorates sitecrawl services with structured logging.
package slog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/sitecrawl"
)

// Ensure LoggingFetcher implements sitecrawl.Fetcher.
var _ sitecrawl.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging.
type LoggingFetcher struct {
	next   sitecrawl.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next sitecrawl.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the outcome. Failed
// fetches are logged at warn level with their diagnostic.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (res sitecrawl.FetchResult) {
	defer func(begin time.Time) {
		if !res.OK() {
			f.logger.Warn("fetch",
				"url", url,
				"failure", res.Failure.String(),
				"duration", time.Since(begin),
				"err", res.Err,
			)
			return
		}
		f.logger.Info("fetch",
			"url", url,
			"bytes", len(res.Body),
			"hash", contentHash(res.Body),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Ensure LoggingLinkExtractor implements sitecrawl.LinkExtractor.
var _ sitecrawl.LinkExtractor = (*LoggingLinkExtractor)(nil)

// LoggingLinkExtractor wraps a LinkExtractor with debug logging.
type LoggingLinkExtractor struct {
	next   sitecrawl.LinkExtractor
	logger *slog.Logger
}

// NewLoggingLinkExtractor creates a new LoggingLinkExtractor.
func NewLoggingLinkExtractor(next sitecrawl.LinkExtractor, logger *slog.Logger) *LoggingLinkExtractor {
	return &LoggingLinkExtractor{next: next, logger: logger}
}

// ExtractLinks delegates to the wrapped extractor and logs the link count.
func (e *LoggingLinkExtractor) ExtractLinks(baseURL, pageURL, html string) []string {
	links := e.next.ExtractLinks(baseURL, pageURL, html)
	e.logger.Debug("extract links",
		"url", pageURL,
		"count", len(links),
	)
	return links
}

func contentHash(content string) string {
	return fmt.Sprintf("%x", xxhash.Sum64String(content))
}
