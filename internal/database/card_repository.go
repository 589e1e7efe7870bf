package database

import (
	"context"
	"database/sql"
	"time"

	"kanband/internal/models"
)

// CardRepo handles all card-related database operations.
//
// Non-deleted cards within a column carry a dense zero-based position.
// Soft-deleted cards stay in storage but are excluded from every
// position computation and shift.
type CardRepo struct {
	db *sql.DB
}

const cardFields = `id, project_id, column_id, title, description, position,
	owner_id, assigned_to_ids, tag_ids, linked_ids, parent_id, deadline,
	is_deleted, created_at, updated_at`

func scanCard(row interface{ Scan(...any) error }) (*models.Card, error) {
	c := &models.Card{}
	var assigned, tags, linked sql.NullString
	var parentID sql.NullInt64
	var deadline sql.NullTime
	err := row.Scan(
		&c.ID, &c.ProjectID, &c.ColumnID, &c.Title, &c.Description, &c.Position,
		&c.OwnerID, &assigned, &tags, &linked, &parentID, &deadline,
		&c.IsDeleted, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.AssignedToIDs = decodeIDList(assigned)
	c.TagIDs = decodeIDList(tags)
	c.LinkedIDs = decodeIDList(linked)
	if parentID.Valid {
		p := int(parentID.Int64)
		c.ParentID = &p
	}
	if deadline.Valid {
		d := deadline.Time
		c.Deadline = &d
	}
	return c, nil
}

// CreateCard inserts a card at the end of the given column. The card's
// project id is taken from the column, never from the caller, so the
// denormalized project reference cannot drift.
func (r *CardRepo) CreateCard(ctx context.Context, card *models.Card) (*models.Card, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var projectID int
	err = tx.QueryRowContext(ctx,
		`SELECT project_id FROM columns WHERE id = ?`, card.ColumnID,
	).Scan(&projectID)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var position int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM cards WHERE column_id = ? AND is_deleted = 0`,
		card.ColumnID,
	).Scan(&position)
	if err != nil {
		return nil, err
	}

	var deadline any
	if card.Deadline != nil {
		deadline = card.Deadline.UTC()
	}
	var parentID any
	if card.ParentID != nil {
		parentID = *card.ParentID
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO cards (project_id, column_id, title, description, position,
		   owner_id, assigned_to_ids, tag_ids, linked_ids, parent_id, deadline)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		projectID, card.ColumnID, card.Title, card.Description, position,
		card.OwnerID, encodeIDList(card.AssignedToIDs), encodeIDList(card.TagIDs),
		encodeIDList(card.LinkedIDs), parentID, deadline,
	)
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	created, err := scanCard(tx.QueryRowContext(ctx,
		`SELECT `+cardFields+` FROM cards WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return created, nil
}

// GetCardByID retrieves a single non-deleted card.
func (r *CardRepo) GetCardByID(ctx context.Context, id int) (*models.Card, error) {
	card, err := scanCard(r.db.QueryRowContext(ctx,
		`SELECT `+cardFields+` FROM cards WHERE id = ? AND is_deleted = 0`, id))
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return card, nil
}

// GetCardsByProject retrieves a project's non-deleted cards ordered by
// column then position.
func (r *CardRepo) GetCardsByProject(ctx context.Context, projectID int) ([]*models.Card, error) {
	return r.queryCards(ctx,
		`SELECT `+cardFields+` FROM cards
		 WHERE project_id = ? AND is_deleted = 0
		 ORDER BY column_id, position`,
		projectID,
	)
}

// GetCardsByColumn retrieves a column's non-deleted cards ordered by position.
func (r *CardRepo) GetCardsByColumn(ctx context.Context, columnID int) ([]*models.Card, error) {
	return r.queryCards(ctx,
		`SELECT `+cardFields+` FROM cards
		 WHERE column_id = ? AND is_deleted = 0
		 ORDER BY position`,
		columnID,
	)
}

func (r *CardRepo) queryCards(ctx context.Context, query string, args ...any) ([]*models.Card, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []*models.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

// UpdateCard rewrites a card's editable fields. Column, project and
// position are never touched here; movement goes through MoveCard.
func (r *CardRepo) UpdateCard(ctx context.Context, card *models.Card) error {
	var deadline any
	if card.Deadline != nil {
		deadline = card.Deadline.UTC()
	}
	var parentID any
	if card.ParentID != nil {
		parentID = *card.ParentID
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE cards
		 SET title = ?, description = ?, assigned_to_ids = ?, tag_ids = ?,
		     linked_ids = ?, parent_id = ?, deadline = ?,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND is_deleted = 0`,
		card.Title, card.Description, encodeIDList(card.AssignedToIDs),
		encodeIDList(card.TagIDs), encodeIDList(card.LinkedIDs),
		parentID, deadline, card.ID,
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

// MoveCard relocates a card to a column and position in one transaction:
//  1. read the card's current (project, column, position)
//  2. resolve the destination column's project and clamp the position
//  3. close the gap in the source column
//  4. open a slot in the destination column
//  5. write the card's column, project and position
//  6. append a movement history row
//
// Shifts only touch non-deleted siblings, and no row locks are taken
// across the read-then-write window; readers always re-sort by position.
func (r *CardRepo) MoveCard(ctx context.Context, cardID, toColumnID, toPosition, movedBy int) (*models.Card, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var srcColumnID, srcPosition int
	err = tx.QueryRowContext(ctx,
		`SELECT column_id, position FROM cards WHERE id = ? AND is_deleted = 0`,
		cardID,
	).Scan(&srcColumnID, &srcPosition)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var destProjectID int
	err = tx.QueryRowContext(ctx,
		`SELECT project_id FROM columns WHERE id = ?`, toColumnID,
	).Scan(&destProjectID)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	// Destination slot count, not counting the moved card itself
	var destCount int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM cards
		 WHERE column_id = ? AND is_deleted = 0 AND id <> ?`,
		toColumnID, cardID,
	).Scan(&destCount)
	if err != nil {
		return nil, err
	}
	if toPosition < 0 {
		toPosition = 0
	}
	if toPosition > destCount {
		toPosition = destCount
	}

	// Close the gap the card leaves behind
	_, err = tx.ExecContext(ctx,
		`UPDATE cards SET position = position - 1
		 WHERE column_id = ? AND position > ? AND is_deleted = 0 AND id <> ?`,
		srcColumnID, srcPosition, cardID,
	)
	if err != nil {
		return nil, err
	}

	// Open a slot at the destination
	_, err = tx.ExecContext(ctx,
		`UPDATE cards SET position = position + 1
		 WHERE column_id = ? AND position >= ? AND is_deleted = 0 AND id <> ?`,
		toColumnID, toPosition, cardID,
	)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE cards
		 SET column_id = ?, project_id = ?, position = ?,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		toColumnID, destProjectID, toPosition, cardID,
	)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO card_moves (card_id, from_column_id, to_column_id,
		   from_position, to_position, moved_by)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		cardID, srcColumnID, toColumnID, srcPosition, toPosition, movedBy,
	)
	if err != nil {
		return nil, err
	}

	moved, err := scanCard(tx.QueryRowContext(ctx,
		`SELECT `+cardFields+` FROM cards WHERE id = ?`, cardID))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return moved, nil
}

// SoftDeleteCard flags a card deleted and closes the position gap it
// leaves in its column.
func (r *CardRepo) SoftDeleteCard(ctx context.Context, id int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var columnID, position int
	err = tx.QueryRowContext(ctx,
		`SELECT column_id, position FROM cards WHERE id = ? AND is_deleted = 0`,
		id,
	).Scan(&columnID, &position)
	if err == sql.ErrNoRows {
		return models.ErrNotFound
	}
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE cards SET is_deleted = 1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE cards SET position = position - 1
		 WHERE column_id = ? AND position > ? AND is_deleted = 0`,
		columnID, position,
	)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// GetCardMoves retrieves a card's movement history, oldest first.
func (r *CardRepo) GetCardMoves(ctx context.Context, cardID int) ([]*models.CardMove, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, card_id, from_column_id, to_column_id, from_position,
		        to_position, moved_by, moved_at
		 FROM card_moves
		 WHERE card_id = ?
		 ORDER BY moved_at, id`,
		cardID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var moves []*models.CardMove
	for rows.Next() {
		m := &models.CardMove{}
		var movedAt time.Time
		if err := rows.Scan(
			&m.ID, &m.CardID, &m.FromColumnID, &m.ToColumnID,
			&m.FromPosition, &m.ToPosition, &m.MovedBy, &movedAt,
		); err != nil {
			return nil, err
		}
		m.MovedAt = movedAt
		moves = append(moves, m)
	}
	return moves, rows.Err()
}
