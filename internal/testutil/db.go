// Package testutil provides shared database helpers for tests.
package testutil

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"kanband/internal/database"
)

// SetupTestDB creates an in-memory database with the full schema.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	// Enable foreign key constraints
	if _, err := db.ExecContext(context.Background(), "PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	if err := database.RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return db
}

// CreateTestUser creates a user and returns its ID. The password hash
// is a placeholder; use auth.Service.Register when the test needs to
// log in.
func CreateTestUser(t *testing.T, db *sql.DB, email, role string) int {
	t.Helper()
	result, err := db.ExecContext(context.Background(),
		"INSERT INTO users (email, name, password_hash, role) VALUES (?, ?, ?, ?)",
		email, "Test User", "x", role)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("Failed to get user ID: %v", err)
	}
	return int(id)
}

// CreateTestProject creates a bare project (no columns) and returns its ID.
func CreateTestProject(t *testing.T, db *sql.DB, name string) int {
	t.Helper()
	result, err := db.ExecContext(context.Background(),
		"INSERT INTO projects (name, description) VALUES (?, ?)", name, "Test description")
	if err != nil {
		t.Fatalf("Failed to create test project: %v", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("Failed to get project ID: %v", err)
	}
	return int(id)
}

// CreateTestColumn creates a column at the given position and returns
// its ID. The caller is responsible for keeping positions dense.
func CreateTestColumn(t *testing.T, db *sql.DB, projectID int, name string, position int) int {
	t.Helper()
	result, err := db.ExecContext(context.Background(),
		"INSERT INTO columns (project_id, name, position) VALUES (?, ?, ?)",
		projectID, name, position)
	if err != nil {
		t.Fatalf("Failed to create test column: %v", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("Failed to get column ID: %v", err)
	}
	return int(id)
}

// CreateTestCard appends a card to the end of a column and returns its
// ID. The card's project is taken from the column.
func CreateTestCard(t *testing.T, db *sql.DB, columnID, ownerID int, title string) int {
	t.Helper()

	var projectID int
	err := db.QueryRowContext(context.Background(),
		"SELECT project_id FROM columns WHERE id = ?", columnID).Scan(&projectID)
	if err != nil {
		t.Fatalf("Failed to resolve column project: %v", err)
	}

	var position int
	err = db.QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM cards WHERE column_id = ? AND is_deleted = 0", columnID).Scan(&position)
	if err != nil {
		t.Fatalf("Failed to get card count: %v", err)
	}

	result, err := db.ExecContext(context.Background(),
		"INSERT INTO cards (project_id, column_id, title, position, owner_id) VALUES (?, ?, ?, ?, ?)",
		projectID, columnID, title, position, ownerID)
	if err != nil {
		t.Fatalf("Failed to create test card: %v", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("Failed to get card ID: %v", err)
	}
	return int(id)
}
