package database

import (
	"context"
	"database/sql"
	"fmt"

	"kanband/internal/models"
)

// ColumnRepo handles all column-related database operations.
//
// Columns within a project carry a dense zero-based position: the set
// of positions is always exactly {0..M-1}. Every write that adds,
// removes or relocates a column shifts its siblings inside the same
// transaction to preserve that invariant.
type ColumnRepo struct {
	db *sql.DB
}

const columnFields = "id, project_id, name, position, created_at"

func scanColumn(row interface{ Scan(...any) error }) (*models.Column, error) {
	c := &models.Column{}
	err := row.Scan(&c.ID, &c.ProjectID, &c.Name, &c.Position, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// CreateColumn inserts a column at the given position, shifting the
// columns at or after it up by one. Position is clamped to [0, M].
// A duplicate name within the project fails with ErrDuplicateColumnName
// before any write.
func (r *ColumnRepo) CreateColumn(ctx context.Context, projectID int, name string, position int) (*models.Column, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var dup int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM columns WHERE project_id = ? AND name = ?`,
		projectID, name,
	).Scan(&dup)
	if err != nil {
		return nil, err
	}
	if dup > 0 {
		return nil, models.ErrDuplicateColumnName
	}

	var count int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM columns WHERE project_id = ?`, projectID,
	).Scan(&count)
	if err != nil {
		return nil, err
	}
	if position < 0 {
		position = 0
	}
	if position > count {
		position = count
	}

	// Open a slot for the new column
	_, err = tx.ExecContext(ctx,
		`UPDATE columns SET position = position + 1
		 WHERE project_id = ? AND position >= ?`,
		projectID, position,
	)
	if err != nil {
		return nil, err
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO columns (project_id, name, position) VALUES (?, ?, ?)`,
		projectID, name, position,
	)
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	column, err := scanColumn(tx.QueryRowContext(ctx,
		`SELECT `+columnFields+` FROM columns WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return column, nil
}

// GetColumnsByProject retrieves a project's columns sorted by position.
func (r *ColumnRepo) GetColumnsByProject(ctx context.Context, projectID int) ([]*models.Column, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+columnFields+` FROM columns
		 WHERE project_id = ?
		 ORDER BY position`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying columns for project: %w", err)
	}
	defer rows.Close()

	var columns []*models.Column
	for rows.Next() {
		column, err := scanColumn(rows)
		if err != nil {
			return nil, err
		}
		columns = append(columns, column)
	}
	return columns, rows.Err()
}

// GetColumnByID retrieves a single column.
func (r *ColumnRepo) GetColumnByID(ctx context.Context, id int) (*models.Column, error) {
	column, err := scanColumn(r.db.QueryRowContext(ctx,
		`SELECT `+columnFields+` FROM columns WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return column, nil
}

// UpdateColumnName renames a column, enforcing per-project uniqueness.
func (r *ColumnRepo) UpdateColumnName(ctx context.Context, id int, name string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var projectID int
	err = tx.QueryRowContext(ctx,
		`SELECT project_id FROM columns WHERE id = ?`, id).Scan(&projectID)
	if err == sql.ErrNoRows {
		return models.ErrNotFound
	}
	if err != nil {
		return err
	}

	var dup int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM columns WHERE project_id = ? AND name = ? AND id <> ?`,
		projectID, name, id,
	).Scan(&dup)
	if err != nil {
		return err
	}
	if dup > 0 {
		return models.ErrDuplicateColumnName
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE columns SET name = ? WHERE id = ?`, name, id); err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateColumnPosition relocates a column within its project, shifting
// the columns between the old and new position by one step.
func (r *ColumnRepo) UpdateColumnPosition(ctx context.Context, id int, position int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var projectID, oldPos int
	err = tx.QueryRowContext(ctx,
		`SELECT project_id, position FROM columns WHERE id = ?`, id,
	).Scan(&projectID, &oldPos)
	if err == sql.ErrNoRows {
		return models.ErrNotFound
	}
	if err != nil {
		return err
	}

	var count int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM columns WHERE project_id = ?`, projectID,
	).Scan(&count)
	if err != nil {
		return err
	}
	if position < 0 {
		position = 0
	}
	if position > count-1 {
		position = count - 1
	}
	if position == oldPos {
		return tx.Commit()
	}

	// Close the gap at the old position, then open a slot at the new one.
	_, err = tx.ExecContext(ctx,
		`UPDATE columns SET position = position - 1
		 WHERE project_id = ? AND position > ? AND id <> ?`,
		projectID, oldPos, id,
	)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE columns SET position = position + 1
		 WHERE project_id = ? AND position >= ? AND id <> ?`,
		projectID, position, id,
	)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE columns SET position = ? WHERE id = ?`, position, id); err != nil {
		return err
	}
	return tx.Commit()
}

// ReorderColumns atomically rewrites every column's position to its
// index in orderedIDs. The id list must be exactly the set of the
// project's current column ids (same cardinality, same membership);
// otherwise ErrColumnSetMismatch is returned and nothing is written.
func (r *ColumnRepo) ReorderColumns(ctx context.Context, projectID int, orderedIDs []int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		`SELECT id FROM columns WHERE project_id = ?`, projectID)
	if err != nil {
		return err
	}
	existing := make(map[int]bool)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		existing[id] = true
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	if len(orderedIDs) != len(existing) {
		return models.ErrColumnSetMismatch
	}
	seen := make(map[int]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if !existing[id] || seen[id] {
			return models.ErrColumnSetMismatch
		}
		seen[id] = true
	}

	for i, id := range orderedIDs {
		if _, err := tx.ExecContext(ctx,
			`UPDATE columns SET position = ? WHERE id = ?`, i, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// DeleteColumn removes a column and closes the position gap it leaves.
// The column must not hold non-deleted cards.
func (r *ColumnRepo) DeleteColumn(ctx context.Context, id int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var projectID, position int
	err = tx.QueryRowContext(ctx,
		`SELECT project_id, position FROM columns WHERE id = ?`, id,
	).Scan(&projectID, &position)
	if err == sql.ErrNoRows {
		return models.ErrNotFound
	}
	if err != nil {
		return err
	}

	var cardCount int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM cards WHERE column_id = ? AND is_deleted = 0`, id,
	).Scan(&cardCount)
	if err != nil {
		return err
	}
	if cardCount > 0 {
		return models.ErrColumnHasCards
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM columns WHERE id = ?`, id); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE columns SET position = position - 1
		 WHERE project_id = ? AND position > ?`,
		projectID, position,
	)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// GetColumnCountByProject returns how many columns a project has.
func (r *ColumnRepo) GetColumnCountByProject(ctx context.Context, projectID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM columns WHERE project_id = ?`, projectID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
