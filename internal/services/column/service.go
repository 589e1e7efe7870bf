package column

import (
	"context"
	"fmt"

	"kanband/internal/database"
	"kanband/internal/events"
	"kanband/internal/models"
)

// Service defines all column-related business operations
type Service interface {
	// Read operations
	GetColumnsByProject(ctx context.Context, projectID int) ([]*models.Column, error)
	GetColumnByID(ctx context.Context, id int) (*models.Column, error)

	// Write operations
	CreateColumn(ctx context.Context, req CreateColumnRequest) (*models.Column, error)
	UpdateColumn(ctx context.Context, req UpdateColumnRequest) (*models.Column, error)
	DeleteColumn(ctx context.Context, id int) error

	// Reorder atomically rewrites every column's position to its index
	// in orderedIDs and returns the fresh ordered list
	Reorder(ctx context.Context, projectID int, orderedIDs []int) ([]*models.Column, error)

	// ValidateCreate reports whether a new column may currently be
	// created for the project
	ValidateCreate(ctx context.Context, projectID int) error
}

// CreateColumnRequest encapsulates data for creating a column
type CreateColumnRequest struct {
	Name      string
	ProjectID int
	Position  int // Clamped into [0, M]; M appends to the end
}

// UpdateColumnRequest encapsulates a partial column update.
// Nil fields are left unchanged.
type UpdateColumnRequest struct {
	ColumnID int
	Name     *string
	Position *int
}

// service implements Service
type service struct {
	repo database.DataStore
	bus  events.Publisher
}

// NewService creates a new column service
func NewService(repo database.DataStore, bus events.Publisher) Service {
	return &service{repo: repo, bus: bus}
}

// GetColumnsByProject retrieves all columns for a project, position ascending
func (s *service) GetColumnsByProject(ctx context.Context, projectID int) ([]*models.Column, error) {
	if projectID <= 0 {
		return nil, ErrInvalidProjectID
	}
	return s.repo.GetColumnsByProject(ctx, projectID)
}

// GetColumnByID retrieves a specific column
func (s *service) GetColumnByID(ctx context.Context, id int) (*models.Column, error) {
	if id <= 0 {
		return nil, ErrInvalidColumnID
	}
	return s.repo.GetColumnByID(ctx, id)
}

// CreateColumn creates a new column, shifting siblings to keep positions dense
func (s *service) CreateColumn(ctx context.Context, req CreateColumnRequest) (*models.Column, error) {
	if err := validateName(req.Name); err != nil {
		return nil, err
	}
	if req.ProjectID <= 0 {
		return nil, ErrInvalidProjectID
	}

	col, err := s.repo.CreateColumn(ctx, req.ProjectID, req.Name, req.Position)
	if err != nil {
		return nil, err
	}

	events.PublishBoardChange(s.bus, events.EventColumnsChanged, col.ProjectID, 0)
	return col, nil
}

// UpdateColumn renames and/or repositions a column
func (s *service) UpdateColumn(ctx context.Context, req UpdateColumnRequest) (*models.Column, error) {
	if req.ColumnID <= 0 {
		return nil, ErrInvalidColumnID
	}

	if req.Name != nil {
		if err := validateName(*req.Name); err != nil {
			return nil, err
		}
		if err := s.repo.UpdateColumnName(ctx, req.ColumnID, *req.Name); err != nil {
			return nil, err
		}
	}
	if req.Position != nil {
		if err := s.repo.UpdateColumnPosition(ctx, req.ColumnID, *req.Position); err != nil {
			return nil, err
		}
	}

	col, err := s.repo.GetColumnByID(ctx, req.ColumnID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload column: %w", err)
	}

	events.PublishBoardChange(s.bus, events.EventColumnsChanged, col.ProjectID, 0)
	return col, nil
}

// DeleteColumn deletes a column (business rule: must not have cards)
func (s *service) DeleteColumn(ctx context.Context, id int) error {
	if id <= 0 {
		return ErrInvalidColumnID
	}

	col, err := s.repo.GetColumnByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteColumn(ctx, id); err != nil {
		return err
	}

	events.PublishBoardChange(s.bus, events.EventColumnsChanged, col.ProjectID, 0)
	return nil
}

// Reorder validates that orderedIDs is exactly the set of the project's
// column ids, rewrites every position in one transaction, and returns
// the columns freshly sorted by position. A mismatched id set fails
// with models.ErrColumnSetMismatch before any write; calling Reorder
// twice with the same list is a no-op the second time.
func (s *service) Reorder(ctx context.Context, projectID int, orderedIDs []int) ([]*models.Column, error) {
	if projectID <= 0 {
		return nil, ErrInvalidProjectID
	}
	if len(orderedIDs) == 0 {
		return nil, ErrEmptyOrder
	}

	if err := s.repo.ReorderColumns(ctx, projectID, orderedIDs); err != nil {
		return nil, err
	}

	columns, err := s.repo.GetColumnsByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload columns: %w", err)
	}

	events.PublishBoardChange(s.bus, events.EventColumnsChanged, projectID, 0)
	return columns, nil
}

// ValidateCreate is the advisory read-only check behind
// GET /projects/{id}/columns/validate: creating a column requires an
// existing column to order against.
func (s *service) ValidateCreate(ctx context.Context, projectID int) error {
	if projectID <= 0 {
		return ErrInvalidProjectID
	}
	count, err := s.repo.GetColumnCountByProject(ctx, projectID)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNoColumns
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > 50 {
		return ErrNameTooLong
	}
	return nil
}
