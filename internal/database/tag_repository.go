package database

import (
	"context"
	"database/sql"

	"kanband/internal/models"
)

// TagRepo handles all tag-related database operations.
type TagRepo struct {
	db *sql.DB
}

// CreateTag inserts a tag scoped to a project.
func (r *TagRepo) CreateTag(ctx context.Context, projectID int, name, color string) (*models.Tag, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO tags (project_id, name, color) VALUES (?, ?, ?)`,
		projectID, name, color,
	)
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.Tag{ID: int(id), ProjectID: projectID, Name: name, Color: color}, nil
}

// GetTagsByProject retrieves a project's tags sorted by name.
func (r *TagRepo) GetTagsByProject(ctx context.Context, projectID int) ([]*models.Tag, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, project_id, name, color FROM tags
		 WHERE project_id = ? ORDER BY name`,
		projectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*models.Tag
	for rows.Next() {
		t := &models.Tag{}
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.Name, &t.Color); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// DeleteTag removes a tag. Cards keep the stale id in their tag list;
// readers resolve tag ids against the project's tag set and drop unknowns.
func (r *TagRepo) DeleteTag(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id)
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
