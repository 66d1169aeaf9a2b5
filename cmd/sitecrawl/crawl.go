package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fwojciec/sitecrawl"
	"github.com/fwojciec/sitecrawl/crawl"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	domain, err := sitecrawl.NewDomain(c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitecrawl.ErrorMessage(err))
		return err
	}

	name := c.Name
	if name == "" {
		name = sitecrawl.ProjectName(c.URL)
	}

	project, err := c.register(deps, name, domain)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitecrawl.ErrorMessage(err))
		return err
	}

	if _, err := os.Stat(project.Dir); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(deps.Stdout, "Creating project %s\n", project.Dir)
	}

	var mu sync.Mutex
	spider := &crawl.Spider{
		BaseURL:   c.URL,
		Domain:    domain,
		Fetcher:   deps.Fetcher,
		Extractor: deps.Extractor,
		Store:     deps.NewStore(project.Dir),
		Workers:   c.Workers,
		Progress: func(event crawl.ProgressEvent) {
			mu.Lock()
			defer mu.Unlock()
			switch event.Type {
			case crawl.ProgressStarted:
				fmt.Fprintf(deps.Stdout, "Crawling %s (%d queued, %d crawled)\n", project.Name, event.Queue, event.Crawled)
			case crawl.ProgressFailed:
				fmt.Fprintf(deps.Stderr, "  skip %s: %s: %v\n", event.URL, event.Failure, event.Error)
			case crawl.ProgressCompleted:
				fmt.Fprintf(deps.Stdout, "Queue %d | Crawled %d\n", event.Queue, event.Crawled)
			}
		},
	}
	if c.Legacy {
		spider.Extensions = crawl.LegacyPageExtensions
	}

	result, err := spider.Run(deps.Ctx)
	if errors.Is(err, context.Canceled) && result != nil {
		fmt.Fprintf(deps.Stdout, "Interrupted with %d pages queued. Run again to resume.\n", result.Queue)
		return err
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error crawling: %s\n", sitecrawl.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Crawled %d pages (%d failed), discovered %d\n",
		result.Crawled, result.Failed, result.Discovered)
	return nil
}

// register records the project in the registry, or refreshes the entry
// of an earlier run. A name already used for another domain is a conflict,
// since its frontier belongs to that domain.
func (c *CrawlCmd) register(deps *Dependencies, name string, domain sitecrawl.Domain) (*sitecrawl.Project, error) {
	existing, err := deps.Projects.FindProjects(deps.Ctx, sitecrawl.ProjectFilter{Name: &name, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		if existing[0].Domain != domain.Registrable {
			return nil, sitecrawl.Errorf(sitecrawl.ECONFLICT, "project %q crawls %s", name, existing[0].Domain)
		}
		return deps.Projects.UpdateProject(deps.Ctx, existing[0].ID, sitecrawl.ProjectUpdate{SeedURL: &c.URL})
	}

	project := &sitecrawl.Project{
		Name:    name,
		SeedURL: c.URL,
		Domain:  domain.Registrable,
		Dir:     filepath.Join(deps.ProjectsDir, name),
	}
	if err := deps.Projects.CreateProject(deps.Ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}
