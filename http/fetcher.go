// Package http provides an HTTP-based implementation of sitecrawl.Fetcher.
package http

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fwojciec/sitecrawl"
)

// DefaultFetchTimeout bounds a single fetch, body included.
const DefaultFetchTimeout = 10 * time.Second

// DefaultMaxBodySize caps how much of a response body is read.
const DefaultMaxBodySize = 10 << 20

// DefaultUserAgent identifies as a desktop browser. Some origins reject
// requests without a browser-like User-Agent.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.3"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Ensure Fetcher implements sitecrawl.Fetcher at compile time.
var _ sitecrawl.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML pages over HTTP. It does not execute JavaScript.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	userAgent   string
	maxBodySize int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize caps the number of body bytes read per page.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// WithClient uses a copy of c instead of a default client. The copy's
// timeout is replaced by the fetcher's; c itself is not modified.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:     DefaultFetchTimeout,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}

	var client http.Client
	if f.client != nil {
		client = *f.client
	}
	client.Timeout = f.timeout
	f.client = &client

	return f
}

// Fetch retrieves url and decodes it as UTF-8 HTML.
// Responses that are not text/html succeed with an empty body.
func (f *Fetcher) Fetch(ctx context.Context, url string) sitecrawl.FetchResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return failure(sitecrawl.FailureUnexpected, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	// Requesting gzip explicitly turns off the transport's transparent
	// decompression, so the body is decoded below.
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := f.client.Do(req)
	if err != nil {
		return failure(sitecrawl.FailureNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return failure(sitecrawl.FailureStatus, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url))
	}

	if !strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		return sitecrawl.FetchResult{}
	}

	gzipped := strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip")
	var r io.Reader = resp.Body
	if gzipped {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return failure(sitecrawl.FailureDecode, fmt.Errorf("gzip body of %s: %w", url, err))
		}
		defer gz.Close()
		r = gz
	}

	body, err := readCapped(r, f.maxBodySize)
	if gzipped && errors.Is(err, io.ErrUnexpectedEOF) {
		// A cut-off gzip stream still yields the bytes decoded so far.
		err = nil
	}
	if err != nil {
		if gzipped {
			return failure(sitecrawl.FailureDecode, fmt.Errorf("gzip body of %s: %w", url, err))
		}
		return failure(sitecrawl.FailureNetwork, err)
	}

	body = bytes.TrimPrefix(body, utf8BOM)
	if !utf8.Valid(body) {
		return failure(sitecrawl.FailureDecode, fmt.Errorf("body of %s is not valid UTF-8", url))
	}

	return sitecrawl.FetchResult{Body: string(body)}
}

// readCapped reads at most limit bytes from r. A body cut at the limit
// loses its trailing incomplete UTF-8 sequence. On error the bytes read so
// far are returned with it.
func readCapped(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if int64(len(data)) > limit {
		data = trimPartialRune(data[:limit])
	}
	return data, err
}

// trimPartialRune drops an incomplete multi-byte sequence from the end of b.
func trimPartialRune(b []byte) []byte {
	for i := 1; i <= utf8.UTFMax-1 && i <= len(b); i++ {
		if !utf8.RuneStart(b[len(b)-i]) {
			continue
		}
		if !utf8.FullRune(b[len(b)-i:]) {
			return b[:len(b)-i]
		}
		return b
	}
	return b
}

func failure(kind sitecrawl.FailureKind, err error) sitecrawl.FetchResult {
	return sitecrawl.FetchResult{Failure: kind, Err: err}
}
