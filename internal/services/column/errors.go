package column

import "errors"

// Column-related errors
var (
	// Validation errors
	ErrEmptyName        = errors.New("name cannot be empty")
	ErrNameTooLong      = errors.New("name cannot exceed 50 characters")
	ErrInvalidColumnID  = errors.New("invalid column ID")
	ErrInvalidProjectID = errors.New("invalid project ID")
	ErrEmptyOrder       = errors.New("ordered column ID list cannot be empty")

	// Business logic errors
	ErrNoColumns = errors.New("project has no columns to order against")
)
