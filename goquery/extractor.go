// Package goquery provides a goquery-based implementation of
// sitecrawl.LinkExtractor.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/sitecrawl"
)

// Ensure Extractor implements sitecrawl.LinkExtractor at compile time.
var _ sitecrawl.LinkExtractor = (*Extractor)(nil)

// Extractor finds anchor links in HTML documents.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractLinks returns the absolute http(s) URLs of all anchors in html,
// in document order and without duplicates. Fragments are stripped.
// Relative hrefs resolve against pageURL, or against baseURL when pageURL
// cannot be parsed. Returns nil if the document or both URLs are unusable.
func (e *Extractor) ExtractLinks(baseURL, pageURL, html string) []string {
	base, err := resolveBase(baseURL, pageURL)
	if err != nil {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{})
	var links []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || isNonHTTPLink(href) {
			return
		}

		resolved := resolveURL(base, href)
		if resolved == "" {
			return
		}
		if _, ok := seen[resolved]; ok {
			return
		}
		seen[resolved] = struct{}{}
		links = append(links, resolved)
	})
	return links
}

// resolveBase picks the URL relative links resolve against. A pageURL
// without scheme or host borrows them from baseURL.
func resolveBase(baseURL, pageURL string) (*url.URL, error) {
	base, baseErr := url.Parse(baseURL)
	page, err := url.Parse(pageURL)
	if err != nil || pageURL == "" {
		if baseErr != nil {
			return nil, baseErr
		}
		return base, nil
	}
	if page.IsAbs() || baseErr != nil {
		return page, nil
	}
	return base.ResolveReference(page), nil
}

// resolveURL resolves href against base and strips the fragment.
// Returns "" if href cannot be parsed or resolves to a non-HTTP scheme.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	resolved.RawFragment = ""
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(href)
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") ||
		strings.HasPrefix(href, "#")
}
