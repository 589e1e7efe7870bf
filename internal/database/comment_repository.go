package database

import (
	"context"
	"database/sql"

	"kanband/internal/models"
)

// CommentRepo handles all comment-related database operations.
type CommentRepo struct {
	db *sql.DB
}

// CreateComment inserts a comment on a card.
func (r *CommentRepo) CreateComment(ctx context.Context, cardID, authorID int, body string) (*models.Comment, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO comments (card_id, author_id, body) VALUES (?, ?, ?)`,
		cardID, authorID, body,
	)
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	c := &models.Comment{}
	err = r.db.QueryRowContext(ctx,
		`SELECT id, card_id, author_id, body, created_at
		 FROM comments WHERE id = ?`, id,
	).Scan(&c.ID, &c.CardID, &c.AuthorID, &c.Body, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetCommentsByCard retrieves a card's comments, oldest first.
func (r *CommentRepo) GetCommentsByCard(ctx context.Context, cardID int) ([]*models.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, card_id, author_id, body, created_at
		 FROM comments WHERE card_id = ?
		 ORDER BY created_at, id`,
		cardID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		c := &models.Comment{}
		if err := rows.Scan(&c.ID, &c.CardID, &c.AuthorID, &c.Body, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
