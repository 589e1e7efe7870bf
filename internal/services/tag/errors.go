package tag

import "errors"

// Tag-related errors
var (
	ErrEmptyName        = errors.New("name cannot be empty")
	ErrNameTooLong      = errors.New("name cannot exceed 50 characters")
	ErrInvalidTagID     = errors.New("invalid tag ID")
	ErrInvalidProjectID = errors.New("invalid project ID")
)
