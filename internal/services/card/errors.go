package card

import "errors"

// Card-related errors
var (
	// Validation errors
	ErrInvalidCardID    = errors.New("invalid card ID")
	ErrInvalidColumnID  = errors.New("invalid column ID")
	ErrInvalidProjectID = errors.New("invalid project ID")
	ErrInvalidOwnerID   = errors.New("invalid owner ID")
	ErrEmptyTitle       = errors.New("title cannot be empty")
	ErrTitleTooLong     = errors.New("title cannot exceed 255 characters")
	ErrEmptyBody        = errors.New("comment body cannot be empty")

	// Business logic errors
	ErrSelfParent = errors.New("card cannot be its own parent")
)
