package tag

import (
	"context"

	"kanband/internal/database"
	"kanband/internal/events"
	"kanband/internal/models"
)

// Service defines all tag-related business operations
type Service interface {
	GetByProject(ctx context.Context, projectID int) ([]*models.Tag, error)
	Create(ctx context.Context, projectID int, name, color string) (*models.Tag, error)
	Delete(ctx context.Context, id int) error
}

// service implements Service
type service struct {
	repo database.DataStore
	bus  events.Publisher
}

// NewService creates a new tag service
func NewService(repo database.DataStore, bus events.Publisher) Service {
	return &service{repo: repo, bus: bus}
}

func (s *service) GetByProject(ctx context.Context, projectID int) ([]*models.Tag, error) {
	if projectID <= 0 {
		return nil, ErrInvalidProjectID
	}
	return s.repo.GetTagsByProject(ctx, projectID)
}

func (s *service) Create(ctx context.Context, projectID int, name, color string) (*models.Tag, error) {
	if projectID <= 0 {
		return nil, ErrInvalidProjectID
	}
	if name == "" {
		return nil, ErrEmptyName
	}
	if len(name) > 50 {
		return nil, ErrNameTooLong
	}

	t, err := s.repo.CreateTag(ctx, projectID, name, color)
	if err != nil {
		return nil, err
	}
	events.PublishBoardChange(s.bus, events.EventBoardChanged, projectID, 0)
	return t, nil
}

func (s *service) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return ErrInvalidTagID
	}
	return s.repo.DeleteTag(ctx, id)
}
