package crawl

import (
	"context"
	"errors"
	"sync"

	"github.com/fwojciec/sitecrawl"
	"github.com/fwojciec/sitecrawl/bloom"
)

// ErrExhausted is returned by Frontier.Next when the queue is empty and no
// page is in flight.
var ErrExhausted = errors.New("frontier exhausted")

// Bloom filter sizing for the membership prefilter.
const (
	minExpectedURLs   = 1024
	falsePositiveRate = 0.01
)

// Frontier owns the in-memory crawl state of one run. It is safe for
// concurrent use by multiple goroutines.
//
// A claimed URL stays in the queue set until it is committed, so the
// persisted queue always contains every page not yet crawled, including the
// ones being fetched.
type Frontier struct {
	mu       sync.Mutex
	store    sitecrawl.FrontierStore
	filter   *Filter
	order    []string
	queue    map[string]struct{}
	crawled  map[string]struct{}
	inflight map[string]struct{}
	seen     *bloom.Filter
	wake     chan struct{}
}

// NewFrontier builds a frontier from a loaded snapshot. Commits are
// persisted through store; discovered links are admitted by filter.
// Queued URLs are handed out in lexicographic order, then in discovery order.
func NewFrontier(snapshot *sitecrawl.Frontier, store sitecrawl.FrontierStore, filter *Filter) *Frontier {
	f := &Frontier{
		store:    store,
		filter:   filter,
		queue:    make(map[string]struct{}, len(snapshot.Queue)),
		crawled:  make(map[string]struct{}, len(snapshot.Crawled)),
		inflight: make(map[string]struct{}),
		seen:     bloom.NewFilter(uint(max(2*(len(snapshot.Queue)+len(snapshot.Crawled)), minExpectedURLs)), falsePositiveRate),
		wake:     make(chan struct{}),
	}
	for u := range snapshot.Crawled {
		f.crawled[u] = struct{}{}
		f.seen.Add(u)
	}
	for _, u := range sitecrawl.SortedSet(snapshot.Queue) {
		if _, ok := f.crawled[u]; ok {
			continue
		}
		f.queue[u] = struct{}{}
		f.order = append(f.order, u)
		f.seen.Add(u)
	}
	return f
}

// Pop claims the next queued URL and marks it in flight.
// The bool result is false if no URL is waiting.
func (f *Frontier) Pop() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.popLocked()
}

// Next claims the next queued URL, waiting for in-flight pages to be
// committed when the queue is momentarily empty. It returns ErrExhausted
// once nothing is queued or in flight.
func (f *Frontier) Next(ctx context.Context) (string, error) {
	for {
		f.mu.Lock()
		if u, ok := f.popLocked(); ok {
			f.mu.Unlock()
			return u, nil
		}
		if len(f.inflight) == 0 {
			f.mu.Unlock()
			return "", ErrExhausted
		}
		wake := f.wake
		f.mu.Unlock()

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-wake:
		}
	}
}

// Claim marks a specific queued URL in flight. It returns false if the URL
// is not queued, already crawled, or already claimed.
func (f *Frontier) Claim(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.claimLocked(url)
}

// Commit records a claimed URL as crawled, adds the admitted links from
// discovered to the queue, and persists the frontier. It returns the links
// added. Only a URL claimed with Pop, Next or Claim can be committed;
// committing any other URL, crawled ones included, changes nothing.
//
// A storage error leaves the in-memory state updated but unpersisted; the
// caller is expected to stop the crawl.
func (f *Frontier) Commit(ctx context.Context, url string, discovered []string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.inflight[url]; !ok {
		return nil, nil
	}

	added := FilterLinks(discovered, lockedView{f}, f.filter)
	for _, u := range added {
		f.queue[u] = struct{}{}
		f.order = append(f.order, u)
		f.remember(u)
	}

	delete(f.inflight, url)
	delete(f.queue, url)
	f.crawled[url] = struct{}{}
	f.remember(url)
	f.signal()

	if err := f.store.Save(ctx, &sitecrawl.Frontier{Queue: f.queue, Crawled: f.crawled}); err != nil {
		return added, err
	}
	return added, nil
}

// Release returns a claimed URL to the front of the queue without
// crawling it, e.g. when its fetch was cancelled.
func (f *Frontier) Release(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.inflight[url]; !ok {
		return
	}
	delete(f.inflight, url)
	f.order = append([]string{url}, f.order...)
	f.signal()
}

// Len returns the number of URLs in the queue, in-flight ones included.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// CrawledLen returns the number of crawled URLs.
func (f *Frontier) CrawledLen() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.crawled)
}

// InFlight returns the number of claimed, uncommitted URLs.
func (f *Frontier) InFlight() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.inflight)
}

// Snapshot returns a copy of the current queue and crawled sets.
func (f *Frontier) Snapshot() *sitecrawl.Frontier {
	f.mu.Lock()
	defer f.mu.Unlock()
	return (&sitecrawl.Frontier{Queue: f.queue, Crawled: f.crawled}).Clone()
}

func (f *Frontier) popLocked() (string, bool) {
	for len(f.order) > 0 {
		u := f.order[0]
		f.order = f.order[1:]
		if f.claimLocked(u) {
			return u, true
		}
	}
	return "", false
}

func (f *Frontier) claimLocked(url string) bool {
	if _, ok := f.queue[url]; !ok {
		return false
	}
	if _, ok := f.inflight[url]; ok {
		return false
	}
	f.inflight[url] = struct{}{}
	return true
}

// signal wakes every goroutine blocked in Next.
func (f *Frontier) signal() {
	close(f.wake)
	f.wake = make(chan struct{})
}

// remember adds url to the prefilter, rebuilding it from the exact sets
// when it has outgrown its sizing.
func (f *Frontier) remember(url string) {
	f.seen.Add(url)
	if !f.seen.Saturated() {
		return
	}
	seen := f.seen.Grow()
	for seen.Capacity() < uint(2*(len(f.queue)+len(f.crawled))) {
		seen = seen.Grow()
	}
	for u := range f.queue {
		seen.Add(u)
	}
	for u := range f.crawled {
		seen.Add(u)
	}
	f.seen = seen
}

// lockedView answers membership queries while the frontier lock is held.
type lockedView struct {
	f *Frontier
}

func (v lockedView) Contains(url string) bool {
	if !v.f.seen.MayContain(url) {
		return false
	}
	if _, ok := v.f.queue[url]; ok {
		return true
	}
	_, ok := v.f.crawled[url]
	return ok
}
