// Package crawl provides the crawl-frontier engine. It decides what to
// fetch next, turns fetched pages into new frontier entries, and persists
// progress after every page.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/fwojciec/sitecrawl"
	"golang.org/x/sync/errgroup"
)

// Spider crawls every page reachable from BaseURL within Domain.
type Spider struct {
	// BaseURL is the seed URL. It is queued on first run.
	BaseURL string

	// Domain confines the crawl. Derive it with sitecrawl.NewDomain.
	Domain sitecrawl.Domain

	Fetcher   sitecrawl.Fetcher
	Extractor sitecrawl.LinkExtractor
	Store     sitecrawl.FrontierStore

	// Extensions overrides DefaultPageExtensions when non-nil.
	Extensions []string

	// Workers is the number of concurrent fetchers. Defaults to 1.
	Workers int

	// Progress, if set, receives events as crawling proceeds. It may be
	// called from several goroutines at once.
	Progress ProgressFunc

	openMu   sync.Mutex
	frontier *Frontier
	crawled  atomic.Int64
	failed   atomic.Int64
	added    atomic.Int64
}

// Result holds the outcome of a crawl run.
type Result struct {
	Crawled    int
	Failed     int
	Discovered int
	Queue      int
}

// ProgressEvent reports progress during a crawl.
type ProgressEvent struct {
	Type    ProgressType
	Worker  int
	URL     string
	Queue   int
	Crawled int
	Added   int
	Failure sitecrawl.FailureKind
	Error   error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCrawling
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// Open prepares the project storage and loads the frontier. On first run
// the queue is seeded with BaseURL; later runs resume from the stored sets.
// Step, Visit and Run call Open themselves when it has not been called.
func (s *Spider) Open(ctx context.Context) error {
	s.openMu.Lock()
	defer s.openMu.Unlock()
	return s.open(ctx)
}

func (s *Spider) open(ctx context.Context) error {
	if s.BaseURL == "" {
		return sitecrawl.Errorf(sitecrawl.EINVALID, "base URL required")
	}
	if s.Domain.Registrable == "" {
		return sitecrawl.Errorf(sitecrawl.EINVALID, "crawl domain required")
	}
	if err := s.Store.EnsureProject(ctx); err != nil {
		return err
	}
	if err := s.Store.EnsureDataFiles(ctx, s.BaseURL); err != nil {
		return err
	}
	snapshot, err := s.Store.Load(ctx)
	if err != nil {
		return err
	}
	if !snapshot.Contains(s.BaseURL) {
		snapshot.Queue[s.BaseURL] = struct{}{}
	}

	filter := NewFilter(s.Domain)
	if s.Extensions != nil {
		filter.Extensions = s.Extensions
	}
	s.frontier = NewFrontier(snapshot, s.Store, filter)
	return nil
}

// Frontier returns the frontier loaded by Open, or nil before Open.
func (s *Spider) Frontier() *Frontier {
	s.openMu.Lock()
	defer s.openMu.Unlock()
	return s.frontier
}

// Step crawls one queued page. It returns false without doing anything if
// the queue is empty.
func (s *Spider) Step(ctx context.Context) (bool, error) {
	if err := s.ensureOpen(ctx); err != nil {
		return false, err
	}
	url, ok := s.frontier.Pop()
	if !ok {
		return false, nil
	}
	return true, s.crawlPage(ctx, 0, url)
}

// Visit crawls url if it is queued and not yet crawled or claimed. It
// returns false, without fetching, otherwise.
func (s *Spider) Visit(ctx context.Context, url string) (bool, error) {
	if err := s.ensureOpen(ctx); err != nil {
		return false, err
	}
	if !s.frontier.Claim(url) {
		return false, nil
	}
	return true, s.crawlPage(ctx, 0, url)
}

// Run crawls until the queue is empty, using Workers concurrent workers.
// A storage error stops all workers and is returned. On cancellation the
// pages being fetched stay queued for the next run.
func (s *Spider) Run(ctx context.Context) (*Result, error) {
	if err := s.ensureOpen(ctx); err != nil {
		return nil, err
	}

	workers := s.Workers
	if workers <= 0 {
		workers = 1
	}

	s.notify(ProgressEvent{
		Type:    ProgressStarted,
		Queue:   s.frontier.Len(),
		Crawled: s.frontier.CrawledLen(),
	})

	g, gctx := errgroup.WithContext(ctx)
	for i := range workers {
		g.Go(func() error {
			return s.work(gctx, i+1)
		})
	}
	err := g.Wait()

	result := s.result()
	s.notify(ProgressEvent{
		Type:    ProgressFinished,
		Queue:   result.Queue,
		Crawled: s.frontier.CrawledLen(),
		Error:   err,
	})
	return result, err
}

func (s *Spider) work(ctx context.Context, worker int) error {
	for {
		url, err := s.frontier.Next(ctx)
		if errors.Is(err, ErrExhausted) {
			return nil
		} else if err != nil {
			return err
		}
		if err := s.crawlPage(ctx, worker, url); err != nil {
			return err
		}
	}
}

// crawlPage fetches a claimed URL, extracts its links, and commits it.
// A failed fetch yields no links but the page is still marked crawled.
func (s *Spider) crawlPage(ctx context.Context, worker int, url string) error {
	s.notify(ProgressEvent{
		Type:    ProgressCrawling,
		Worker:  worker,
		URL:     url,
		Queue:   s.frontier.Len(),
		Crawled: s.frontier.CrawledLen(),
	})

	res := s.Fetcher.Fetch(ctx, url)
	if ctx.Err() != nil {
		s.frontier.Release(url)
		return ctx.Err()
	}

	var html string
	if res.OK() {
		html = res.Body
	} else {
		s.failed.Add(1)
		s.notify(ProgressEvent{
			Type:    ProgressFailed,
			Worker:  worker,
			URL:     url,
			Failure: res.Failure,
			Error:   res.Err,
		})
	}

	var links []string
	if html != "" {
		links = s.Extractor.ExtractLinks(s.BaseURL, url, html)
	}

	added, err := s.frontier.Commit(ctx, url, links)
	if err != nil {
		return fmt.Errorf("save frontier after %s: %w", url, err)
	}
	s.crawled.Add(1)
	s.added.Add(int64(len(added)))

	s.notify(ProgressEvent{
		Type:    ProgressCompleted,
		Worker:  worker,
		URL:     url,
		Queue:   s.frontier.Len(),
		Crawled: s.frontier.CrawledLen(),
		Added:   len(added),
	})
	return nil
}

func (s *Spider) ensureOpen(ctx context.Context) error {
	s.openMu.Lock()
	defer s.openMu.Unlock()
	if s.frontier != nil {
		return nil
	}
	return s.open(ctx)
}

func (s *Spider) result() *Result {
	return &Result{
		Crawled:    int(s.crawled.Load()),
		Failed:     int(s.failed.Load()),
		Discovered: int(s.added.Load()),
		Queue:      s.frontier.Len(),
	}
}

func (s *Spider) notify(event ProgressEvent) {
	if s.Progress != nil {
		s.Progress(event)
	}
}
