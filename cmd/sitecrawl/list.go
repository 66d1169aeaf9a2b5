package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/sitecrawl"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	projects, err := deps.Projects.FindProjects(deps.Ctx, sitecrawl.ProjectFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitecrawl.ErrorMessage(err))
		return err
	}

	if len(projects) == 0 {
		fmt.Fprintln(deps.Stdout, "No projects found. Use 'sitecrawl crawl' to start one.")
		return nil
	}

	for _, p := range projects {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s\n", p.Name, p.SeedURL, p.Dir, p.UpdatedAt.Format(time.DateTime))
	}

	return nil
}
