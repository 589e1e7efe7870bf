package database

import (
	"context"
	"database/sql"

	"kanband/internal/models"
)

// ProjectRepo handles all project-related database operations.
type ProjectRepo struct {
	db *sql.DB
}

// CreateProject inserts a project and bootstraps its default columns at
// positions 0..len-1.
func (r *ProjectRepo) CreateProject(ctx context.Context, name, description string) (*models.Project, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO projects (name, description) VALUES (?, ?)`,
		name, description,
	)
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	for i, colName := range DefaultColumnNames {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO columns (project_id, name, position) VALUES (?, ?, ?)`,
			id, colName, i,
		)
		if err != nil {
			return nil, err
		}
	}

	project := &models.Project{}
	err = tx.QueryRowContext(ctx,
		`SELECT id, name, description, created_at, updated_at
		 FROM projects WHERE id = ?`, id,
	).Scan(&project.ID, &project.Name, &project.Description,
		&project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return project, nil
}

// GetAllProjects retrieves every project, most recently created first.
func (r *ProjectRepo) GetAllProjects(ctx context.Context) ([]*models.Project, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, created_at, updated_at
		 FROM projects ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		p := &models.Project{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Description,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// GetProjectByID retrieves a single project.
func (r *ProjectRepo) GetProjectByID(ctx context.Context, id int) (*models.Project, error) {
	p := &models.Project{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at, updated_at
		 FROM projects WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProject rewrites a project's name and description.
func (r *ProjectRepo) UpdateProject(ctx context.Context, id int, name, description string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE projects SET name = ?, description = ?,
		   updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		name, description, id,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeleteProject removes a project; columns, cards, tags and comments
// cascade.
func (r *ProjectRepo) DeleteProject(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrNotFound
	}
	return nil
}
