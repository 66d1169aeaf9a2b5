package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/sitecrawl"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ sitecrawl.ProjectService = (*ProjectService)(nil)

const projectColumns = "id, name, seed_url, domain, dir, created_at, updated_at"

// ProjectService implements sitecrawl.ProjectService using SQLite.
type ProjectService struct {
	db *DB
}

// NewProjectService creates a new ProjectService.
func NewProjectService(db *DB) *ProjectService {
	return &ProjectService{db: db}
}

// CreateProject registers a new project.
func (s *ProjectService) CreateProject(ctx context.Context, project *sitecrawl.Project) error {
	if err := project.Validate(); err != nil {
		return err
	}

	existing, err := s.FindProjects(ctx, sitecrawl.ProjectFilter{Name: &project.Name, Limit: 1})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return sitecrawl.Errorf(sitecrawl.ECONFLICT, "project %q already exists", project.Name)
	}

	project.ID = uuid.New().String()
	now := time.Now().UTC()
	project.CreatedAt = now
	project.UpdatedAt = now

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO projects (`+projectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, project.ID, project.Name, project.SeedURL, project.Domain, project.Dir,
		project.CreatedAt.Format(time.RFC3339), project.UpdatedAt.Format(time.RFC3339))

	return err
}

// FindProjectByID retrieves a project by ID.
func (s *ProjectService) FindProjectByID(ctx context.Context, id string) (*sitecrawl.Project, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+projectColumns+" FROM projects WHERE id = ?", id)

	project, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sitecrawl.Errorf(sitecrawl.ENOTFOUND, "project not found")
	}
	if err != nil {
		return nil, err
	}
	return project, nil
}

// FindProjects retrieves projects matching the filter, most recently
// updated first.
func (s *ProjectService) FindProjects(ctx context.Context, filter sitecrawl.ProjectFilter) ([]*sitecrawl.Project, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + projectColumns + " FROM projects WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Name != nil {
		query.WriteString(" AND name = ?")
		args = append(args, *filter.Name)
	}

	query.WriteString(" ORDER BY updated_at DESC, name ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*sitecrawl.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}

	return projects, rows.Err()
}

// UpdateProject applies upd and refreshes UpdatedAt.
func (s *ProjectService) UpdateProject(ctx context.Context, id string, upd sitecrawl.ProjectUpdate) (*sitecrawl.Project, error) {
	project, err := s.FindProjectByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.SeedURL != nil {
		project.SeedURL = *upd.SeedURL
	}
	if upd.Dir != nil {
		project.Dir = *upd.Dir
	}

	if err := project.Validate(); err != nil {
		return nil, err
	}

	project.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		UPDATE projects
		SET seed_url = ?, dir = ?, updated_at = ?
		WHERE id = ?
	`, project.SeedURL, project.Dir, project.UpdatedAt.Format(time.RFC3339), id)
	if err != nil {
		return nil, err
	}

	return project, nil
}

// DeleteProject removes a project from the registry. Its frontier files
// are not touched.
func (s *ProjectService) DeleteProject(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return sitecrawl.Errorf(sitecrawl.ENOTFOUND, "project not found")
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (*sitecrawl.Project, error) {
	var project sitecrawl.Project
	var createdAt, updatedAt string

	if err := row.Scan(&project.ID, &project.Name, &project.SeedURL, &project.Domain, &project.Dir,
		&createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if project.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if project.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &project, nil
}
