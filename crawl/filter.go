package crawl

import (
	"net/url"
	"path"
	"slices"

	"github.com/fwojciec/sitecrawl"
)

// DefaultPageExtensions lists the path extensions treated as pages.
var DefaultPageExtensions = []string{".html", ".htm", ".php", ".jsp", ".asp", ".aspx"}

// LegacyPageExtensions is the historical allow-list. Its first entry lacks
// the leading dot, so it never matches and ".html" pages are rejected.
var LegacyPageExtensions = []string{"html", ".htm", ".php", ".jsp", ".asp", ".aspx"}

// Filter decides which discovered links enter the frontier.
type Filter struct {
	Domain     sitecrawl.Domain
	Extensions []string
}

// NewFilter returns a filter for domain using DefaultPageExtensions.
func NewFilter(domain sitecrawl.Domain) *Filter {
	return &Filter{Domain: domain, Extensions: DefaultPageExtensions}
}

// Allow reports whether rawURL is in the domain and names a page.
// Frontier membership is checked separately by the caller.
func (f *Filter) Allow(rawURL string) bool {
	if !f.Domain.Contains(rawURL) {
		return false
	}
	return HasPageExtension(rawURL, f.Extensions)
}

// HasPageExtension reports whether the extension of the URL's path, dot
// included, is one of exts. Paths without an extension never match.
func HasPageExtension(rawURL string, exts []string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	ext := path.Ext(u.Path)
	if ext == "" {
		return false
	}
	return slices.Contains(exts, ext)
}

// Membership reports whether a URL is already queued or crawled.
type Membership interface {
	Contains(url string) bool
}

// FilterLinks returns the candidates from discovered that are not known to
// frontier and pass the filter. Duplicates within discovered are returned
// once.
func FilterLinks(discovered []string, frontier Membership, filter *Filter) []string {
	var accepted []string
	seen := make(map[string]struct{}, len(discovered))
	for _, link := range discovered {
		if _, ok := seen[link]; ok {
			continue
		}
		seen[link] = struct{}{}
		if frontier.Contains(link) {
			continue
		}
		if !filter.Allow(link) {
			continue
		}
		accepted = append(accepted, link)
	}
	return accepted
}
