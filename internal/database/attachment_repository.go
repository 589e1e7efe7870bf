package database

import (
	"context"
	"database/sql"

	"kanband/internal/models"
)

// AttachmentRepo handles attachment metadata. The blob itself lives on
// disk under the configured attachment directory, named by StorageKey.
type AttachmentRepo struct {
	db *sql.DB
}

// CreateAttachment records attachment metadata for a card.
func (r *AttachmentRepo) CreateAttachment(ctx context.Context, cardID int, fileName, storageKey string, size int64) (*models.Attachment, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO attachments (card_id, file_name, storage_key, size)
		 VALUES (?, ?, ?, ?)`,
		cardID, fileName, storageKey, size,
	)
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetAttachmentByID(ctx, int(id))
}

// GetAttachmentByID retrieves attachment metadata.
func (r *AttachmentRepo) GetAttachmentByID(ctx context.Context, id int) (*models.Attachment, error) {
	a := &models.Attachment{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, card_id, file_name, storage_key, size, created_at
		 FROM attachments WHERE id = ?`, id,
	).Scan(&a.ID, &a.CardID, &a.FileName, &a.StorageKey, &a.Size, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetAttachmentsByCard retrieves a card's attachments, oldest first.
func (r *AttachmentRepo) GetAttachmentsByCard(ctx context.Context, cardID int) ([]*models.Attachment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, card_id, file_name, storage_key, size, created_at
		 FROM attachments WHERE card_id = ?
		 ORDER BY created_at, id`,
		cardID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attachments []*models.Attachment
	for rows.Next() {
		a := &models.Attachment{}
		if err := rows.Scan(&a.ID, &a.CardID, &a.FileName, &a.StorageKey,
			&a.Size, &a.CreatedAt); err != nil {
			return nil, err
		}
		attachments = append(attachments, a)
	}
	return attachments, rows.Err()
}
