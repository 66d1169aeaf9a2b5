// Package fs provides file-based storage for crawl frontiers.
package fs

import (
	"bufio"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/sitecrawl"
)

// File names of the frontier sets inside a project directory.
const (
	QueueFile   = "queue.txt"
	CrawledFile = "crawled.txt"
)

// Ensure FrontierStore implements sitecrawl.FrontierStore at compile time.
var _ sitecrawl.FrontierStore = (*FrontierStore)(nil)

// FrontierStore implements sitecrawl.FrontierStore as two flat text files,
// one URL per line, inside a project directory.
//
// Each file is replaced atomically, but the pair is not. Save writes the
// crawled file before the queue file so a crash in between leaves a URL in
// both sets rather than in neither; Load reconciles that case.
type FrontierStore struct {
	dir string
}

// NewFrontierStore creates a store for the project directory dir.
func NewFrontierStore(dir string) *FrontierStore {
	return &FrontierStore{dir: dir}
}

// Dir returns the project directory.
func (s *FrontierStore) Dir() string {
	return s.dir
}

// QueuePath returns the path of the queue file.
func (s *FrontierStore) QueuePath() string {
	return filepath.Join(s.dir, QueueFile)
}

// CrawledPath returns the path of the crawled file.
func (s *FrontierStore) CrawledPath() string {
	return filepath.Join(s.dir, CrawledFile)
}

// EnsureProject creates the project directory if absent.
func (s *FrontierStore) EnsureProject(_ context.Context) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return sitecrawl.Errorf(sitecrawl.EINTERNAL, "create project directory %s: %v", s.dir, err)
	}
	return nil
}

// EnsureDataFiles creates the queue file holding seedURL and an empty
// crawled file. Files that already exist are left untouched.
func (s *FrontierStore) EnsureDataFiles(_ context.Context, seedURL string) error {
	if err := createExclusive(s.QueuePath(), seedURL+"\n"); err != nil {
		return err
	}
	return createExclusive(s.CrawledPath(), "")
}

// Load reads both sets from disk. URLs present in both files are treated
// as crawled.
func (s *FrontierStore) Load(_ context.Context) (*sitecrawl.Frontier, error) {
	queue, err := LoadSet(s.QueuePath())
	if err != nil {
		return nil, err
	}
	crawled, err := LoadSet(s.CrawledPath())
	if err != nil {
		return nil, err
	}
	f := &sitecrawl.Frontier{Queue: queue, Crawled: crawled}
	f.Reconcile()
	return f, nil
}

// Save writes both sets to disk, crawled first.
func (s *FrontierStore) Save(_ context.Context, f *sitecrawl.Frontier) error {
	if err := SaveSet(s.CrawledPath(), f.Crawled); err != nil {
		return err
	}
	return SaveSet(s.QueuePath(), f.Queue)
}

// LoadSet reads one URL per line from path into a set.
// Blank lines and surrounding whitespace are ignored.
func LoadSet(path string) (map[string]struct{}, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, sitecrawl.Errorf(sitecrawl.EINTERNAL, "open %s: %v", path, err)
	}
	defer file.Close()

	set := make(map[string]struct{})
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		set[line] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, sitecrawl.Errorf(sitecrawl.EINTERNAL, "read %s: %v", path, err)
	}
	return set, nil
}

// SaveSet replaces path with the members of set in lexicographic order,
// one per line. The content is written to a temporary file in the same
// directory and renamed over path.
func SaveSet(path string, set map[string]struct{}) error {
	var b strings.Builder
	for _, u := range sitecrawl.SortedSet(set) {
		b.WriteString(u)
		b.WriteByte('\n')
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return sitecrawl.Errorf(sitecrawl.EINTERNAL, "write %s: %v", path, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return sitecrawl.Errorf(sitecrawl.EINTERNAL, "write %s: %v", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return sitecrawl.Errorf(sitecrawl.EINTERNAL, "write %s: %v", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return sitecrawl.Errorf(sitecrawl.EINTERNAL, "replace %s: %v", path, err)
	}
	return nil
}

// createExclusive writes content to a new file at path.
// It does nothing if the file already exists.
func createExclusive(path, content string) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, os.ErrExist) {
		return nil
	}
	if err != nil {
		return sitecrawl.Errorf(sitecrawl.EINTERNAL, "create %s: %v", path, err)
	}
	if _, err := file.WriteString(content); err != nil {
		file.Close()
		return sitecrawl.Errorf(sitecrawl.EINTERNAL, "create %s: %v", path, err)
	}
	if err := file.Close(); err != nil {
		return sitecrawl.Errorf(sitecrawl.EINTERNAL, "create %s: %v", path, err)
	}
	return nil
}
