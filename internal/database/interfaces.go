// Package database defines repository interfaces for data access
package database

import (
	"context"

	"kanband/internal/models"
)

// DataStore defines the unified interface for all data operations needed
// by the service layer. Depending on this interface rather than the
// concrete Repository keeps services mockable in unit tests.
type DataStore interface {
	// Projects
	CreateProject(ctx context.Context, name, description string) (*models.Project, error)
	GetAllProjects(ctx context.Context) ([]*models.Project, error)
	GetProjectByID(ctx context.Context, id int) (*models.Project, error)
	UpdateProject(ctx context.Context, id int, name, description string) error
	DeleteProject(ctx context.Context, id int) error

	// Columns
	CreateColumn(ctx context.Context, projectID int, name string, position int) (*models.Column, error)
	GetColumnsByProject(ctx context.Context, projectID int) ([]*models.Column, error)
	GetColumnByID(ctx context.Context, id int) (*models.Column, error)
	GetColumnCountByProject(ctx context.Context, projectID int) (int, error)
	UpdateColumnName(ctx context.Context, id int, name string) error
	UpdateColumnPosition(ctx context.Context, id int, position int) error
	ReorderColumns(ctx context.Context, projectID int, orderedIDs []int) error
	DeleteColumn(ctx context.Context, id int) error

	// Cards
	CreateCard(ctx context.Context, card *models.Card) (*models.Card, error)
	GetCardByID(ctx context.Context, id int) (*models.Card, error)
	GetCardsByProject(ctx context.Context, projectID int) ([]*models.Card, error)
	GetCardsByColumn(ctx context.Context, columnID int) ([]*models.Card, error)
	UpdateCard(ctx context.Context, card *models.Card) error
	MoveCard(ctx context.Context, cardID, toColumnID, toPosition, movedBy int) (*models.Card, error)
	SoftDeleteCard(ctx context.Context, id int) error
	GetCardMoves(ctx context.Context, cardID int) ([]*models.CardMove, error)

	// Users
	CreateUser(ctx context.Context, email, name, passwordHash, role string) (*models.User, error)
	GetUserByID(ctx context.Context, id int) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// Tags
	CreateTag(ctx context.Context, projectID int, name, color string) (*models.Tag, error)
	GetTagsByProject(ctx context.Context, projectID int) ([]*models.Tag, error)
	DeleteTag(ctx context.Context, id int) error

	// Comments
	CreateComment(ctx context.Context, cardID, authorID int, body string) (*models.Comment, error)
	GetCommentsByCard(ctx context.Context, cardID int) ([]*models.Comment, error)

	// Attachments
	CreateAttachment(ctx context.Context, cardID int, fileName, storageKey string, size int64) (*models.Attachment, error)
	GetAttachmentByID(ctx context.Context, id int) (*models.Attachment, error)
	GetAttachmentsByCard(ctx context.Context, cardID int) ([]*models.Attachment, error)
}
