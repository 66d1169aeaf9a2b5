package http_test

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/sitecrawl"
	crawlhttp "github.com/fwojciec/sitecrawl/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipBytes(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns HTML body from server", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte("<html><body>Hello World</body></html>"))
		}))
		defer server.Close()

		res := crawlhttp.NewFetcher().Fetch(context.Background(), server.URL)

		require.True(t, res.OK(), "unexpected failure: %v", res.Err)
		assert.Equal(t, "<html><body>Hello World</body></html>", res.Body)
	})

	t.Run("sends a browser user agent", func(t *testing.T) {
		t.Parallel()

		var got string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("User-Agent")
			w.Header().Set("Content-Type", "text/html")
		}))
		defer server.Close()

		crawlhttp.NewFetcher().Fetch(context.Background(), server.URL)

		assert.Equal(t, crawlhttp.DefaultUserAgent, got)
		assert.Contains(t, got, "Mozilla/5.0")
	})

	t.Run("uses custom user agent option", func(t *testing.T) {
		t.Parallel()

		var got string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("User-Agent")
		}))
		defer server.Close()

		crawlhttp.NewFetcher(crawlhttp.WithUserAgent("sitecrawl-test")).Fetch(context.Background(), server.URL)

		assert.Equal(t, "sitecrawl-test", got)
	})

	t.Run("decompresses gzip encoded body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Header().Set("Content-Encoding", "gzip")
			_, _ = w.Write(gzipBytes(t, "<p>compressed ünïcode</p>"))
		}))
		defer server.Close()

		res := crawlhttp.NewFetcher().Fetch(context.Background(), server.URL)

		require.True(t, res.OK(), "unexpected failure: %v", res.Err)
		assert.Equal(t, "<p>compressed ünïcode</p>", res.Body)
	})

	t.Run("reports corrupt gzip as decode failure", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Header().Set("Content-Encoding", "gzip")
			_, _ = w.Write([]byte("definitely not gzip"))
		}))
		defer server.Close()

		res := crawlhttp.NewFetcher().Fetch(context.Background(), server.URL)

		assert.Equal(t, sitecrawl.FailureDecode, res.Failure)
		assert.Error(t, res.Err)
	})

	t.Run("reports invalid UTF-8 as decode failure", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
			_, _ = w.Write([]byte{'<', 'p', '>', 0xE9, 0xFF, '<', '/', 'p', '>'})
		}))
		defer server.Close()

		res := crawlhttp.NewFetcher().Fetch(context.Background(), server.URL)

		assert.Equal(t, sitecrawl.FailureDecode, res.Failure)
		assert.Contains(t, res.Err.Error(), "UTF-8")
	})

	t.Run("strips UTF-8 byte order mark", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write(append([]byte{0xEF, 0xBB, 0xBF}, "<html></html>"...))
		}))
		defer server.Close()

		res := crawlhttp.NewFetcher().Fetch(context.Background(), server.URL)

		require.True(t, res.OK())
		assert.Equal(t, "<html></html>", res.Body)
	})

	t.Run("returns empty success for non-HTML content", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write([]byte{0x89, 'P', 'N', 'G'})
		}))
		defer server.Close()

		res := crawlhttp.NewFetcher().Fetch(context.Background(), server.URL)

		assert.True(t, res.OK())
		assert.Empty(t, res.Body)
	})

	t.Run("truncates bodies over the size cap", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html>0123456789</html>"))
		}))
		defer server.Close()

		res := crawlhttp.NewFetcher(crawlhttp.WithMaxBodySize(6)).Fetch(context.Background(), server.URL)

		require.True(t, res.OK())
		assert.Equal(t, "<html>", res.Body)
	})

	t.Run("drops a character split by the size cap", func(t *testing.T) {
		t.Parallel()

		prefix := `<a href="/a.html">x</a>`
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(prefix + strings.Repeat("é", 100)))
		}))
		defer server.Close()

		// The cap ends one byte into the second two-byte character.
		limit := int64(len(prefix) + 3)
		res := crawlhttp.NewFetcher(crawlhttp.WithMaxBodySize(limit)).Fetch(context.Background(), server.URL)

		require.True(t, res.OK(), "unexpected failure: %v", res.Err)
		assert.Equal(t, prefix+"é", res.Body)
	})

	t.Run("caps the decompressed size of gzip bodies", func(t *testing.T) {
		t.Parallel()

		page := strings.Repeat("a", 10000)
		compressed := gzipBytes(t, page)
		require.Less(t, len(compressed), 100)

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Header().Set("Content-Encoding", "gzip")
			_, _ = w.Write(compressed)
		}))
		defer server.Close()

		res := crawlhttp.NewFetcher(crawlhttp.WithMaxBodySize(100)).Fetch(context.Background(), server.URL)

		require.True(t, res.OK(), "unexpected failure: %v", res.Err)
		assert.Equal(t, page[:100], res.Body)
	})

	t.Run("returns status failure for non-2xx status codes", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("404 Not Found"))
		}))
		defer server.Close()

		res := crawlhttp.NewFetcher().Fetch(context.Background(), server.URL)

		assert.Equal(t, sitecrawl.FailureStatus, res.Failure)
		assert.Contains(t, res.Err.Error(), "404")
	})

	t.Run("respects custom timeout option", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte("response"))
		}))
		defer server.Close()

		res := crawlhttp.NewFetcher(crawlhttp.WithTimeout(10*time.Millisecond)).Fetch(context.Background(), server.URL)

		assert.Equal(t, sitecrawl.FailureNetwork, res.Failure)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte("response"))
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		res := crawlhttp.NewFetcher().Fetch(ctx, server.URL)

		assert.Equal(t, sitecrawl.FailureNetwork, res.Failure)
	})

	t.Run("returns network failure for non-existent host", func(t *testing.T) {
		t.Parallel()

		res := crawlhttp.NewFetcher(crawlhttp.WithTimeout(100*time.Millisecond)).Fetch(context.Background(), "http://non-existent-host.invalid/page.html")

		assert.Equal(t, sitecrawl.FailureNetwork, res.Failure)
	})

	t.Run("returns unexpected failure for unbuildable request", func(t *testing.T) {
		t.Parallel()

		res := crawlhttp.NewFetcher().Fetch(context.Background(), "http://[::1")

		assert.Equal(t, sitecrawl.FailureUnexpected, res.Failure)
	})
}

func TestNewFetcher_WithClient_leaves_caller_client_unchanged(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	client := &http.Client{Timeout: time.Minute}
	fetcher := crawlhttp.NewFetcher(crawlhttp.WithClient(client), crawlhttp.WithTimeout(time.Second))

	res := fetcher.Fetch(context.Background(), server.URL)

	require.True(t, res.OK())
	assert.Equal(t, time.Minute, client.Timeout)
}

// Compile-time verification that Fetcher implements sitecrawl.Fetcher
var _ sitecrawl.Fetcher = (*crawlhttp.Fetcher)(nil)
