package main

import (
	"fmt"
	"path/filepath"

	"github.com/fwojciec/sitecrawl"
)

// Run executes the status command. Projects missing from the registry are
// looked up in the projects directory.
func (c *StatusCmd) Run(deps *Dependencies) error {
	dir := filepath.Join(deps.ProjectsDir, c.Name)

	projects, err := deps.Projects.FindProjects(deps.Ctx, sitecrawl.ProjectFilter{Name: &c.Name, Limit: 1})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitecrawl.ErrorMessage(err))
		return err
	}
	if len(projects) > 0 {
		dir = projects[0].Dir
	}

	f, err := deps.NewStore(dir).Load(deps.Ctx)
	if err != nil {
		err = sitecrawl.Errorf(sitecrawl.ENOTFOUND, "project %q has no frontier in %s", c.Name, dir)
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitecrawl.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Queue %d | Crawled %d\n", len(f.Queue), len(f.Crawled))
	return nil
}
