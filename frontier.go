package sitecrawl

import (
	"context"
	"sort"
)

// Frontier is a snapshot of crawl progress: the URLs still to visit and the
// URLs already visited. The two sets are disjoint.
type Frontier struct {
	Queue   map[string]struct{}
	Crawled map[string]struct{}
}

// NewFrontier returns a frontier whose queue holds only the seed.
func NewFrontier(seedURL string) *Frontier {
	return &Frontier{
		Queue:   map[string]struct{}{seedURL: {}},
		Crawled: map[string]struct{}{},
	}
}

// Contains reports whether url is queued or crawled.
func (f *Frontier) Contains(url string) bool {
	if _, ok := f.Queue[url]; ok {
		return true
	}
	_, ok := f.Crawled[url]
	return ok
}

// Reconcile removes from the queue every URL that is also crawled.
// It returns the number of URLs removed.
//
// A crash between the two file writes of a save can leave a URL in both
// sets; such a URL is treated as already crawled.
func (f *Frontier) Reconcile() int {
	var n int
	for u := range f.Queue {
		if _, ok := f.Crawled[u]; ok {
			delete(f.Queue, u)
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the frontier.
func (f *Frontier) Clone() *Frontier {
	other := &Frontier{
		Queue:   make(map[string]struct{}, len(f.Queue)),
		Crawled: make(map[string]struct{}, len(f.Crawled)),
	}
	for u := range f.Queue {
		other.Queue[u] = struct{}{}
	}
	for u := range f.Crawled {
		other.Crawled[u] = struct{}{}
	}
	return other
}

// SortedSet returns the members of set in lexicographic order.
func SortedSet(set map[string]struct{}) []string {
	urls := make([]string, 0, len(set))
	for u := range set {
		urls = append(urls, u)
	}
	sort.Strings(urls)
	return urls
}

// FrontierStore persists a project's frontier.
type FrontierStore interface {
	// EnsureProject creates the project's storage container if absent.
	// Calling it on an existing project is not an error.
	EnsureProject(ctx context.Context) error

	// EnsureDataFiles creates a queue holding only seedURL and an empty
	// crawled set, unless stored data already exists. Existing data is
	// never overwritten.
	EnsureDataFiles(ctx context.Context, seedURL string) error

	// Load reads the stored frontier.
	Load(ctx context.Context) (*Frontier, error)

	// Save replaces the stored frontier with f.
	Save(ctx context.Context, f *Frontier) error
}
