package card

import (
	"context"
	"fmt"
	"time"

	"kanband/internal/database"
	"kanband/internal/events"
	"kanband/internal/models"
)

// Service defines all card-related business operations
type Service interface {
	// Read operations
	GetCard(ctx context.Context, cardID int) (*models.Card, error)
	GetBoard(ctx context.Context, projectID int) (map[int][]*models.Card, error)
	GetHistory(ctx context.Context, cardID int) ([]*models.CardMove, error)

	// Write operations
	CreateCard(ctx context.Context, req CreateCardRequest) (*models.Card, error)
	UpdateCard(ctx context.Context, req UpdateCardRequest) (*models.Card, error)
	DeleteCard(ctx context.Context, cardID int) error

	// Move relocates a card to a column and position, shifting siblings
	// in the source and destination columns to keep both dense
	Move(ctx context.Context, req MoveRequest) (*models.Card, error)

	// Comments
	AddComment(ctx context.Context, cardID, authorID int, body string) (*models.Comment, error)
	GetComments(ctx context.Context, cardID int) ([]*models.Comment, error)
}

// CreateCardRequest encapsulates all data needed to create a card.
// The card is appended at the end of the column; its project is derived
// from the column.
type CreateCardRequest struct {
	Title         string
	Description   string
	ColumnID      int
	OwnerID       int
	AssignedToIDs []int
	TagIDs        []int
	LinkedIDs     []int
	ParentID      *int
	Deadline      *time.Time
}

// UpdateCardRequest encapsulates a partial card update.
// Nil fields are left unchanged; movement fields are not accepted here.
type UpdateCardRequest struct {
	CardID        int
	Title         *string
	Description   *string
	AssignedToIDs *[]int
	TagIDs        *[]int
	LinkedIDs     *[]int
	ParentID      *int
	ClearParent   bool
	Deadline      *time.Time
	ClearDeadline bool
}

// MoveRequest encapsulates a drag-and-drop card move.
type MoveRequest struct {
	CardID     int
	ToColumnID int
	ToPosition int
	MovedBy    int
}

// service implements Service
type service struct {
	repo database.DataStore
	bus  events.Publisher
}

// NewService creates a new card service
func NewService(repo database.DataStore, bus events.Publisher) Service {
	return &service{repo: repo, bus: bus}
}

// GetCard retrieves a single non-deleted card
func (s *service) GetCard(ctx context.Context, cardID int) (*models.Card, error) {
	if cardID <= 0 {
		return nil, ErrInvalidCardID
	}
	return s.repo.GetCardByID(ctx, cardID)
}

// GetBoard retrieves a project's non-deleted cards grouped by column,
// position ascending within each column
func (s *service) GetBoard(ctx context.Context, projectID int) (map[int][]*models.Card, error) {
	if projectID <= 0 {
		return nil, ErrInvalidProjectID
	}
	cards, err := s.repo.GetCardsByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	board := make(map[int][]*models.Card)
	for _, c := range cards {
		board[c.ColumnID] = append(board[c.ColumnID], c)
	}
	return board, nil
}

// GetHistory retrieves a card's movement history for the timeline view
func (s *service) GetHistory(ctx context.Context, cardID int) ([]*models.CardMove, error) {
	if cardID <= 0 {
		return nil, ErrInvalidCardID
	}
	// Ensure the card exists before returning an empty history
	if _, err := s.repo.GetCardByID(ctx, cardID); err != nil {
		return nil, err
	}
	return s.repo.GetCardMoves(ctx, cardID)
}

// CreateCard handles card creation with validation
func (s *service) CreateCard(ctx context.Context, req CreateCardRequest) (*models.Card, error) {
	if err := validateTitle(req.Title); err != nil {
		return nil, err
	}
	if req.ColumnID <= 0 {
		return nil, ErrInvalidColumnID
	}
	if req.OwnerID <= 0 {
		return nil, ErrInvalidOwnerID
	}

	created, err := s.repo.CreateCard(ctx, &models.Card{
		Title:         req.Title,
		Description:   req.Description,
		ColumnID:      req.ColumnID,
		OwnerID:       req.OwnerID,
		AssignedToIDs: req.AssignedToIDs,
		TagIDs:        req.TagIDs,
		LinkedIDs:     req.LinkedIDs,
		ParentID:      req.ParentID,
		Deadline:      req.Deadline,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create card: %w", err)
	}

	events.PublishBoardChange(s.bus, events.EventBoardChanged, created.ProjectID, created.ID)
	return created, nil
}

// UpdateCard handles partial card edits. Column, project and position
// never change here; that path is Move.
func (s *service) UpdateCard(ctx context.Context, req UpdateCardRequest) (*models.Card, error) {
	if req.CardID <= 0 {
		return nil, ErrInvalidCardID
	}
	if req.Title != nil {
		if err := validateTitle(*req.Title); err != nil {
			return nil, err
		}
	}
	if req.ParentID != nil && *req.ParentID == req.CardID {
		return nil, ErrSelfParent
	}

	current, err := s.repo.GetCardByID(ctx, req.CardID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		current.Title = *req.Title
	}
	if req.Description != nil {
		current.Description = *req.Description
	}
	if req.AssignedToIDs != nil {
		current.AssignedToIDs = *req.AssignedToIDs
	}
	if req.TagIDs != nil {
		current.TagIDs = *req.TagIDs
	}
	if req.LinkedIDs != nil {
		current.LinkedIDs = *req.LinkedIDs
	}
	if req.ClearParent {
		current.ParentID = nil
	} else if req.ParentID != nil {
		current.ParentID = req.ParentID
	}
	if req.ClearDeadline {
		current.Deadline = nil
	} else if req.Deadline != nil {
		current.Deadline = req.Deadline
	}

	if err := s.repo.UpdateCard(ctx, current); err != nil {
		return nil, fmt.Errorf("failed to update card: %w", err)
	}

	updated, err := s.repo.GetCardByID(ctx, req.CardID)
	if err != nil {
		return nil, err
	}

	events.PublishBoardChange(s.bus, events.EventBoardChanged, updated.ProjectID, updated.ID)
	return updated, nil
}

// Move relocates a card. The repository performs the whole shift
// sequence in one transaction: close the gap in the source column, open
// a slot in the destination, write the card's column/project/position,
// record the history row. The destination position is clamped into the
// destination column's valid range.
func (s *service) Move(ctx context.Context, req MoveRequest) (*models.Card, error) {
	if req.CardID <= 0 {
		return nil, ErrInvalidCardID
	}
	if req.ToColumnID <= 0 {
		return nil, ErrInvalidColumnID
	}

	before, err := s.repo.GetCardByID(ctx, req.CardID)
	if err != nil {
		return nil, err
	}

	moved, err := s.repo.MoveCard(ctx, req.CardID, req.ToColumnID, req.ToPosition, req.MovedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to move card: %w", err)
	}

	events.PublishBoardChange(s.bus, events.EventCardMoved, moved.ProjectID, moved.ID)
	if before.ProjectID != moved.ProjectID {
		// Cross-project move: the source board changed as well
		events.PublishBoardChange(s.bus, events.EventCardMoved, before.ProjectID, moved.ID)
	}
	return moved, nil
}

// DeleteCard soft-deletes a card and closes the position gap it leaves
func (s *service) DeleteCard(ctx context.Context, cardID int) error {
	if cardID <= 0 {
		return ErrInvalidCardID
	}

	card, err := s.repo.GetCardByID(ctx, cardID)
	if err != nil {
		return err
	}
	if err := s.repo.SoftDeleteCard(ctx, cardID); err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}

	events.PublishBoardChange(s.bus, events.EventBoardChanged, card.ProjectID, cardID)
	return nil
}

// AddComment attaches a comment to a card
func (s *service) AddComment(ctx context.Context, cardID, authorID int, body string) (*models.Comment, error) {
	if cardID <= 0 {
		return nil, ErrInvalidCardID
	}
	if body == "" {
		return nil, ErrEmptyBody
	}
	card, err := s.repo.GetCardByID(ctx, cardID)
	if err != nil {
		return nil, err
	}

	comment, err := s.repo.CreateComment(ctx, cardID, authorID, body)
	if err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	events.PublishBoardChange(s.bus, events.EventBoardChanged, card.ProjectID, cardID)
	return comment, nil
}

// GetComments retrieves a card's comments, oldest first
func (s *service) GetComments(ctx context.Context, cardID int) ([]*models.Comment, error) {
	if cardID <= 0 {
		return nil, ErrInvalidCardID
	}
	return s.repo.GetCommentsByCard(ctx, cardID)
}

func validateTitle(title string) error {
	if title == "" {
		return ErrEmptyTitle
	}
	if len(title) > 255 {
		return ErrTitleTooLong
	}
	return nil
}
