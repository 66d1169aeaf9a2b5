package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sitecrawl"
)

// Ensure LoggingFrontierStore implements sitecrawl.FrontierStore.
var _ sitecrawl.FrontierStore = (*LoggingFrontierStore)(nil)

// LoggingFrontierStore wraps a FrontierStore with logging. Saves happen
// once per crawled page, so they are logged at debug level.
type LoggingFrontierStore struct {
	next   sitecrawl.FrontierStore
	logger *slog.Logger
}

// NewLoggingFrontierStore creates a new LoggingFrontierStore.
func NewLoggingFrontierStore(next sitecrawl.FrontierStore, logger *slog.Logger) *LoggingFrontierStore {
	return &LoggingFrontierStore{next: next, logger: logger}
}

// EnsureProject delegates to the wrapped store and logs the operation.
func (s *LoggingFrontierStore) EnsureProject(ctx context.Context) (err error) {
	defer func() {
		s.logger.Info("ensure project", "err", err)
	}()
	return s.next.EnsureProject(ctx)
}

// EnsureDataFiles delegates to the wrapped store and logs the operation.
func (s *LoggingFrontierStore) EnsureDataFiles(ctx context.Context, seedURL string) (err error) {
	defer func() {
		s.logger.Info("ensure data files", "seed", seedURL, "err", err)
	}()
	return s.next.EnsureDataFiles(ctx, seedURL)
}

// Load delegates to the wrapped store and logs the loaded sizes.
func (s *LoggingFrontierStore) Load(ctx context.Context) (f *sitecrawl.Frontier, err error) {
	defer func(begin time.Time) {
		var queued, crawled int
		if f != nil {
			queued, crawled = len(f.Queue), len(f.Crawled)
		}
		s.logger.Info("load frontier",
			"queue", queued,
			"crawled", crawled,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Load(ctx)
}

// Save delegates to the wrapped store and logs the saved sizes.
func (s *LoggingFrontierStore) Save(ctx context.Context, f *sitecrawl.Frontier) (err error) {
	defer func(begin time.Time) {
		level := slog.LevelDebug
		if err != nil {
			level = slog.LevelError
		}
		s.logger.Log(ctx, level, "save frontier",
			"queue", len(f.Queue),
			"crawled", len(f.Crawled),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Save(ctx, f)
}
