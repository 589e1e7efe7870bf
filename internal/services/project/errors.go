package project

import "errors"

// Project-related errors
var (
	ErrEmptyName        = errors.New("name cannot be empty")
	ErrNameTooLong      = errors.New("name cannot exceed 100 characters")
	ErrInvalidProjectID = errors.New("invalid project ID")
)
