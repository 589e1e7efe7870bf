package database

import (
	"context"
	"database/sql"
)

// RunMigrations creates the database schema. Safe to run repeatedly.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'member',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS projects (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS columns (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		position INTEGER NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE,
		UNIQUE (project_id, name)
	);

	CREATE TABLE IF NOT EXISTS cards (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id INTEGER NOT NULL,
		column_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		position INTEGER NOT NULL,
		owner_id INTEGER NOT NULL,
		assigned_to_ids TEXT NOT NULL DEFAULT '[]',
		tag_ids TEXT NOT NULL DEFAULT '[]',
		linked_ids TEXT NOT NULL DEFAULT '[]',
		parent_id INTEGER,
		deadline TIMESTAMP,
		is_deleted INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE,
		FOREIGN KEY (column_id) REFERENCES columns(id) ON DELETE CASCADE,
		FOREIGN KEY (owner_id) REFERENCES users(id),
		FOREIGN KEY (parent_id) REFERENCES cards(id) ON DELETE SET NULL
	);

	CREATE INDEX IF NOT EXISTS idx_cards_column_position
	ON cards(column_id, position);

	CREATE INDEX IF NOT EXISTS idx_cards_project
	ON cards(project_id);

	CREATE TABLE IF NOT EXISTS tags (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		color TEXT NOT NULL DEFAULT '',
		FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE,
		UNIQUE (project_id, name)
	);

	CREATE TABLE IF NOT EXISTS comments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		card_id INTEGER NOT NULL,
		author_id INTEGER NOT NULL,
		body TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (card_id) REFERENCES cards(id) ON DELETE CASCADE,
		FOREIGN KEY (author_id) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS attachments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		card_id INTEGER NOT NULL,
		file_name TEXT NOT NULL,
		storage_key TEXT NOT NULL UNIQUE,
		size INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (card_id) REFERENCES cards(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS card_moves (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		card_id INTEGER NOT NULL,
		from_column_id INTEGER NOT NULL,
		to_column_id INTEGER NOT NULL,
		from_position INTEGER NOT NULL,
		to_position INTEGER NOT NULL,
		moved_by INTEGER NOT NULL DEFAULT 0,
		moved_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (card_id) REFERENCES cards(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_card_moves_card
	ON card_moves(card_id, moved_at);
	`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// DefaultColumnNames are the columns a new project is bootstrapped with,
// at positions 0..2.
var DefaultColumnNames = []string{"Backlog", "In Progress", "Done"}
