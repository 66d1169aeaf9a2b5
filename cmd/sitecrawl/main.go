package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/sitecrawl"
	"github.com/fwojciec/sitecrawl/fs"
	"github.com/fwojciec/sitecrawl/goquery"
	schttp "github.com/fwojciec/sitecrawl/http"
	scslog "github.com/fwojciec/sitecrawl/slog"
	"github.com/fwojciec/sitecrawl/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// Root directory holding one subdirectory per project.
	ProjectsDir string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	ProjectService sitecrawl.ProjectService
	Fetcher        sitecrawl.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath:      defaultDBPath(),
		ProjectsDir: defaultProjectsDir(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:         ctx,
		Stdout:      stdout,
		Stderr:      stderr,
		ProjectsDir: m.ProjectsDir,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("sitecrawl"),
		kong.Description("Crawl every page of a single site, resumably."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Vars(Vars),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'sitecrawl --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Logger = newLogger(stderr, cli.Verbose)

	if err := os.MkdirAll(filepath.Dir(m.DBPath), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set SITECRAWL_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	if m.ProjectService == nil {
		m.ProjectService = sqlite.NewProjectService(m.DB)
	}
	deps.Projects = m.ProjectService
	deps.NewStore = func(dir string) sitecrawl.FrontierStore {
		return scslog.NewLoggingFrontierStore(fs.NewFrontierStore(dir), deps.Logger)
	}

	if kongCtx.Selected().Name == "crawl" {
		fetcher := m.Fetcher
		if fetcher == nil {
			fetcher = schttp.NewFetcher(
				schttp.WithTimeout(cli.Crawl.Timeout),
				schttp.WithUserAgent(cli.Crawl.UserAgent),
			)
		}
		deps.Fetcher = scslog.NewLoggingFetcher(fetcher, deps.Logger)
		deps.Extractor = scslog.NewLoggingLinkExtractor(goquery.NewExtractor(), deps.Logger)
	}

	return kongCtx.Run(deps)
}

// newLogger returns a text logger on w when verbose is set, and a logger
// that drops everything otherwise.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func defaultDBPath() string {
	if path := os.Getenv("SITECRAWL_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "sitecrawl.db"
	}
	return filepath.Join(home, ".sitecrawl", "sitecrawl.db")
}

func defaultProjectsDir() string {
	if dir := os.Getenv("SITECRAWL_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "projects"
	}
	return filepath.Join(home, ".sitecrawl", "projects")
}
