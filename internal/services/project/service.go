package project

import (
	"context"

	"kanband/internal/database"
	"kanband/internal/events"
	"kanband/internal/models"
)

// Service defines all project-related business operations
type Service interface {
	GetAll(ctx context.Context) ([]*models.Project, error)
	GetByID(ctx context.Context, id int) (*models.Project, error)
	Create(ctx context.Context, name, description string) (*models.Project, error)
	Update(ctx context.Context, id int, name, description string) (*models.Project, error)
	Delete(ctx context.Context, id int) error
}

// service implements Service
type service struct {
	repo database.DataStore
	bus  events.Publisher
}

// NewService creates a new project service
func NewService(repo database.DataStore, bus events.Publisher) Service {
	return &service{repo: repo, bus: bus}
}

func (s *service) GetAll(ctx context.Context) ([]*models.Project, error) {
	return s.repo.GetAllProjects(ctx)
}

func (s *service) GetByID(ctx context.Context, id int) (*models.Project, error) {
	if id <= 0 {
		return nil, ErrInvalidProjectID
	}
	return s.repo.GetProjectByID(ctx, id)
}

// Create inserts a project; the repository bootstraps its default
// columns in the same transaction.
func (s *service) Create(ctx context.Context, name, description string) (*models.Project, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	p, err := s.repo.CreateProject(ctx, name, description)
	if err != nil {
		return nil, err
	}
	events.PublishBoardChange(s.bus, events.EventColumnsChanged, p.ID, 0)
	return p, nil
}

func (s *service) Update(ctx context.Context, id int, name, description string) (*models.Project, error) {
	if id <= 0 {
		return nil, ErrInvalidProjectID
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateProject(ctx, id, name, description); err != nil {
		return nil, err
	}
	return s.repo.GetProjectByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return ErrInvalidProjectID
	}
	if err := s.repo.DeleteProject(ctx, id); err != nil {
		return err
	}
	events.PublishBoardChange(s.bus, events.EventColumnsChanged, id, 0)
	return nil
}

func validateName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > 100 {
		return ErrNameTooLong
	}
	return nil
}
