package sitecrawl

import "context"

// FailureKind classifies why a fetch produced no page.
type FailureKind int

// Fetch failure kinds.
const (
	FailureNone       FailureKind = iota
	FailureStatus                 // non-2xx HTTP status
	FailureNetwork                // connection, DNS or timeout error
	FailureDecode                 // body is not valid gzip or UTF-8
	FailureUnexpected             // anything else
)

// String returns a short name for the failure kind.
func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureStatus:
		return "status"
	case FailureNetwork:
		return "network"
	case FailureDecode:
		return "decode"
	default:
		return "unexpected"
	}
}

// FetchResult is the outcome of fetching one page.
// On success Failure is FailureNone and Body holds the decoded HTML, which
// is empty for non-HTML responses. On failure Err carries the diagnostic.
type FetchResult struct {
	Body    string
	Failure FailureKind
	Err     error
}

// OK reports whether the fetch succeeded.
func (r FetchResult) OK() bool {
	return r.Failure == FailureNone
}

// Fetcher retrieves pages.
type Fetcher interface {
	// Fetch retrieves the page at url. Failures are reported in the result,
	// never as a panic or separate error.
	Fetch(ctx context.Context, url string) FetchResult
}

// LinkExtractor finds hyperlinks in an HTML document.
type LinkExtractor interface {
	// ExtractLinks returns the absolute URLs linked from html. Relative
	// links resolve against pageURL; baseURL supplies defaults when pageURL
	// is unusable. Returns an empty result on any parse failure.
	ExtractLinks(baseURL, pageURL, html string) []string
}
