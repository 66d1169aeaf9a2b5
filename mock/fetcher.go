package mock

import (
	"context"

	"github.com/fwojciec/sitecrawl"
)

var _ sitecrawl.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of sitecrawl.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) sitecrawl.FetchResult
}

func (f *Fetcher) Fetch(ctx context.Context, url string) sitecrawl.FetchResult {
	return f.FetchFn(ctx, url)
}

var _ sitecrawl.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of sitecrawl.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(baseURL, pageURL, html string) []string
}

func (e *LinkExtractor) ExtractLinks(baseURL, pageURL, html string) []string {
	return e.ExtractLinksFn(baseURL, pageURL, html)
}
