package sitecrawl

import (
	"net/url"
	"strings"
)

// Domain describes the crawl target. It is derived from the seed URL once
// at startup and never changes during a run.
type Domain struct {
	// Registrable is the last two labels of the seed host (e.g. "example.com").
	Registrable string

	// Host is the seed authority including any port (e.g. "www.example.com:8080").
	Host string
}

// NewDomain derives the domain descriptor from a seed URL.
// Returns EINVALID if the seed has no registrable domain.
func NewDomain(seedURL string) (Domain, error) {
	d := Domain{
		Registrable: RegistrableDomain(seedURL),
		Host:        HostWithPort(seedURL),
	}
	if d.Registrable == "" {
		return Domain{}, Errorf(EINVALID, "cannot derive domain from seed URL %q", seedURL)
	}
	return d, nil
}

// Contains reports whether rawURL belongs to the domain.
//
// The check is plain substring containment of the registrable domain, so
// "https://example.com.evil.net/" and "https://other.net/?ref=example.com"
// both match. Callers relying on strict host matching must check the host
// themselves.
func (d Domain) Contains(rawURL string) bool {
	if d.Registrable == "" {
		return false
	}
	return strings.Contains(rawURL, d.Registrable)
}

// RegistrableDomain returns the last two dot-separated labels of the URL's
// host, e.g. "example.com" for "https://www.example.com:8080/path".
// Returns "" if the URL cannot be parsed or the host has fewer than two labels.
//
// No public suffix list is consulted, so "foo.co.uk" yields "co.uk".
func RegistrableDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := u.Hostname()
	if host == "" {
		return ""
	}
	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return ""
	}
	last, prev := labels[len(labels)-1], labels[len(labels)-2]
	if last == "" || prev == "" {
		return ""
	}
	return prev + "." + last
}

// HostWithPort returns the URL's authority (host plus optional port) verbatim.
// Returns "" on parse failure.
func HostWithPort(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}

// ProjectName derives a filesystem-safe project name from a seed URL.
// The host with port is used, with ':' replaced so the name is valid on
// every platform.
func ProjectName(seedURL string) string {
	return strings.ReplaceAll(HostWithPort(seedURL), ":", "_")
}
