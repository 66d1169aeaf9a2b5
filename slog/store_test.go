package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/sitecrawl"
	"github.com/fwojciec/sitecrawl/mock"
	scslog "github.com/fwojciec/sitecrawl/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingFrontierStore(t *testing.T) {
	t.Parallel()

	newFrontier := func() *sitecrawl.Frontier {
		f := sitecrawl.NewFrontier("https://example.com/a.html")
		f.Crawled["https://example.com/index.html"] = struct{}{}
		f.Crawled["https://example.com/b.html"] = struct{}{}
		return f
	}

	t.Run("logs loaded sizes", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.FrontierStore{
			LoadFn: func(ctx context.Context) (*sitecrawl.Frontier, error) {
				return newFrontier(), nil
			},
		}

		store := scslog.NewLoggingFrontierStore(inner, logger)
		f, err := store.Load(context.Background())

		require.NoError(t, err)
		assert.Len(t, f.Queue, 1)
		output := buf.String()
		assert.Contains(t, output, "msg=\"load frontier\"")
		assert.Contains(t, output, "queue=1")
		assert.Contains(t, output, "crawled=2")
	})

	t.Run("logs load error without a frontier", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.FrontierStore{
			LoadFn: func(ctx context.Context) (*sitecrawl.Frontier, error) {
				return nil, errors.New("missing queue.txt")
			},
		}

		store := scslog.NewLoggingFrontierStore(inner, logger)
		_, err := store.Load(context.Background())

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "queue=0")
		assert.Contains(t, output, "err=\"missing queue.txt\"")
	})

	t.Run("save is logged at debug level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.FrontierStore{
			SaveFn: func(ctx context.Context, f *sitecrawl.Frontier) error {
				return nil
			},
		}

		store := scslog.NewLoggingFrontierStore(inner, logger)
		require.NoError(t, store.Save(context.Background(), newFrontier()))

		assert.Empty(t, buf.String())
	})

	t.Run("save error is logged at error level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.FrontierStore{
			SaveFn: func(ctx context.Context, f *sitecrawl.Frontier) error {
				return errors.New("disk full")
			},
		}

		store := scslog.NewLoggingFrontierStore(inner, logger)
		err := store.Save(context.Background(), newFrontier())

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "level=ERROR")
		assert.Contains(t, output, "msg=\"save frontier\"")
		assert.Contains(t, output, "queue=1")
		assert.Contains(t, output, "crawled=2")
		assert.Contains(t, output, "err=\"disk full\"")
	})

	t.Run("ensure calls are delegated", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		var seed string
		inner := &mock.FrontierStore{
			EnsureProjectFn: func(ctx context.Context) error { return nil },
			EnsureDataFilesFn: func(ctx context.Context, seedURL string) error {
				seed = seedURL
				return nil
			},
		}

		store := scslog.NewLoggingFrontierStore(inner, logger)
		require.NoError(t, store.EnsureProject(context.Background()))
		require.NoError(t, store.EnsureDataFiles(context.Background(), "https://example.com/"))

		assert.Equal(t, "https://example.com/", seed)
		assert.Contains(t, buf.String(), "msg=\"ensure data files\"")
	})
}
