package database

import "database/sql"

// Repository provides a unified interface to all data operations.
// It composes domain-specific repositories using struct embedding.
type Repository struct {
	*ProjectRepo
	*ColumnRepo
	*CardRepo
	*UserRepo
	*TagRepo
	*CommentRepo
	*AttachmentRepo
}

// NewRepository creates a new Repository instance wrapping the given
// database connection.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		ProjectRepo:    &ProjectRepo{db: db},
		ColumnRepo:     &ColumnRepo{db: db},
		CardRepo:       &CardRepo{db: db},
		UserRepo:       &UserRepo{db: db},
		TagRepo:        &TagRepo{db: db},
		CommentRepo:    &CommentRepo{db: db},
		AttachmentRepo: &AttachmentRepo{db: db},
	}
}

// Compile-time verification that *Repository satisfies DataStore
var _ DataStore = (*Repository)(nil)
