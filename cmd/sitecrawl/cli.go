package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/sitecrawl"
	schttp "github.com/fwojciec/sitecrawl/http"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx         context.Context
	Stdout      io.Writer
	Stderr      io.Writer
	Logger      *slog.Logger
	ProjectsDir string
	Projects    sitecrawl.ProjectService
	Fetcher     sitecrawl.Fetcher
	Extractor   sitecrawl.LinkExtractor

	// NewStore opens the frontier store of a project directory.
	NewStore func(dir string) sitecrawl.FrontierStore
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Log fetches and frontier saves to stderr"`

	Crawl  CrawlCmd  `cmd:"" help:"Crawl a site, resuming any earlier run"`
	Status StatusCmd `cmd:"" help:"Show queue and crawled counts for a project"`
	List   ListCmd   `cmd:"" help:"List all registered projects"`
	Forget ForgetCmd `cmd:"" help:"Remove a project from the registry, keeping its files"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	URL       string        `arg:"" help:"Seed URL"`
	Name      string        `short:"n" help:"Project name (defaults to the seed host)"`
	Workers   int           `short:"w" default:"1" help:"Concurrent fetchers"`
	Timeout   time.Duration `default:"10s" help:"Per-page fetch timeout"`
	UserAgent string        `name:"user-agent" default:"${user_agent}" help:"User-Agent header"`
	Legacy    bool          `help:"Use the legacy extension allow-list, which rejects .html"`
}

// StatusCmd is the "status" subcommand.
type StatusCmd struct {
	Name string `arg:"" help:"Project name"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct{}

// ForgetCmd is the "forget" subcommand.
type ForgetCmd struct {
	Name string `arg:"" help:"Project name"`
}

// Vars are the interpolation variables for CLI tags.
var Vars = kong.Vars{
	"user_agent": schttp.DefaultUserAgent,
}
