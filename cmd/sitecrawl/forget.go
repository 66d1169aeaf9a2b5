package main

import (
	"fmt"

	"github.com/fwojciec/sitecrawl"
)

// Run executes the forget command. The project's frontier files are left
// on disk.
func (c *ForgetCmd) Run(deps *Dependencies) error {
	projects, err := deps.Projects.FindProjects(deps.Ctx, sitecrawl.ProjectFilter{Name: &c.Name, Limit: 1})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitecrawl.ErrorMessage(err))
		return err
	}
	if len(projects) == 0 {
		err := sitecrawl.Errorf(sitecrawl.ENOTFOUND, "project %q not found", c.Name)
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitecrawl.ErrorMessage(err))
		return err
	}

	if err := deps.Projects.DeleteProject(deps.Ctx, projects[0].ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitecrawl.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Forgot project %q; files remain in %s\n", c.Name, projects[0].Dir)
	return nil
}
