package sitecrawl

import (
	"context"
	"time"
)

// Project is a registered crawl target. Its frontier lives in Dir.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	SeedURL   string    `json:"seedUrl"`
	Domain    string    `json:"domain"`
	Dir       string    `json:"dir"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate returns an error if the project contains invalid fields.
func (p *Project) Validate() error {
	if p.Name == "" {
		return Errorf(EINVALID, "project name required")
	}
	if p.SeedURL == "" {
		return Errorf(EINVALID, "project seed URL required")
	}
	if p.Dir == "" {
		return Errorf(EINVALID, "project directory required")
	}
	return nil
}

// ProjectService represents a service for managing the project registry.
// Removing a project from the registry leaves its frontier files in place.
type ProjectService interface {
	// CreateProject registers a new project.
	// Returns ECONFLICT if a project with the same name exists.
	CreateProject(ctx context.Context, project *Project) error

	// FindProjectByID retrieves a project by ID.
	// Returns ENOTFOUND if project does not exist.
	FindProjectByID(ctx context.Context, id string) (*Project, error)

	// FindProjects retrieves projects matching the filter.
	FindProjects(ctx context.Context, filter ProjectFilter) ([]*Project, error)

	// UpdateProject updates an existing project.
	// Returns ENOTFOUND if project does not exist.
	UpdateProject(ctx context.Context, id string, upd ProjectUpdate) (*Project, error)

	// DeleteProject removes a project from the registry.
	// Returns ENOTFOUND if project does not exist.
	DeleteProject(ctx context.Context, id string) error
}

// ProjectFilter represents a filter for FindProjects.
type ProjectFilter struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// ProjectUpdate represents fields that can be updated on a project.
// A zero-value update only refreshes UpdatedAt.
type ProjectUpdate struct {
	SeedURL *string `json:"seedUrl"`
	Dir     *string `json:"dir"`
}
