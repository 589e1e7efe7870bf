package models

import "errors"

// Domain errors shared across the repository and service layers. The
// HTTP layer maps these onto status codes.
var (
	// ErrNotFound indicates the requested project, column, card or user
	// does not exist (or the card is soft-deleted).
	ErrNotFound = errors.New("not found")

	// ErrColumnSetMismatch indicates a reorder request whose id list is
	// not exactly the set of the project's current column ids.
	ErrColumnSetMismatch = errors.New("column id set does not match project columns")

	// ErrDuplicateColumnName indicates a column name already used within
	// the same project.
	ErrDuplicateColumnName = errors.New("column name already exists in project")

	// ErrColumnHasCards indicates an attempt to delete a column that
	// still holds non-deleted cards.
	ErrColumnHasCards = errors.New("cannot delete column with cards")
)
