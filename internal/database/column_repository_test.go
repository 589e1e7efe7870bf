package database_test

import (
	"context"
	"errors"
	"testing"

	"kanband/internal/database"
	"kanband/internal/models"
	"kanband/internal/testutil"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

// assertColumnOrder verifies the project's columns come back in the
// given name order with dense zero-based positions.
func assertColumnOrder(t *testing.T, repo *database.Repository, projectID int, want ...string) {
	t.Helper()
	columns, err := repo.GetColumnsByProject(context.Background(), projectID)
	if err != nil {
		t.Fatalf("Failed to load columns: %v", err)
	}
	if len(columns) != len(want) {
		t.Fatalf("Expected %d columns, got %d", len(want), len(columns))
	}
	for i, column := range columns {
		if column.Position != i {
			t.Errorf("Column %q: expected position %d, got %d", column.Name, i, column.Position)
		}
		if column.Name != want[i] {
			t.Errorf("Position %d: expected column %q, got %q", i, want[i], column.Name)
		}
	}
}

// ============================================================================
// CREATE
// ============================================================================

func TestCreateColumnAppends(t *testing.T) {
	t.Parallel()

	db := testutil.SetupTestDB(t)
	repo := database.NewRepository(db)
	projectID := testutil.CreateTestProject(t, db, "Board")

	for i, name := range []string{"Backlog", "Doing", "Done"} {
		column, err := repo.CreateColumn(context.Background(), projectID, name, i)
		if err != nil {
			t.Fatalf("Failed to create column %q: %v", name, err)
		}
		if column.Position != i {
			t.Errorf("Expected position %d, got %d", i, column.Position)
		}
		if column.ProjectID != projectID {
			t.Errorf("Expected project %d, got %d", projectID, column.ProjectID)
		}
	}

	assertColumnOrder(t, repo, projectID, "Backlog", "Doing", "Done")
}

func TestCreateColumnShiftsSiblings(t *testing.T) {
	t.Parallel()

	db := testutil.SetupTestDB(t)
	repo := database.NewRepository(db)
	projectID := testutil.CreateTestProject(t, db, "Board")

	testutil.CreateTestColumn(t, db, projectID, "Backlog", 0)
	testutil.CreateTestColumn(t, db, projectID, "Done", 1)

	// Insert in the middle
	column, err := repo.CreateColumn(context.Background(), projectID, "Doing", 1)
	if err != nil {
		t.Fatalf("Failed to create column: %v", err)
	}
	if column.Position != 1 {
		t.Errorf("Expected position 1, got %d", column.Position)
	}

	assertColumnOrder(t, repo, projectID, "Backlog", "Doing", "Done")
}

func TestCreateColumnClampsPosition(t *testing.T) {
	t.Parallel()

	db := testutil.SetupTestDB(t)
	repo := database.NewRepository(db)
	projectID := testutil.CreateTestProject(t, db, "Board")

	testutil.CreateTestColumn(t, db, projectID, "Backlog", 0)

	// Far beyond the end appends
	column, err := repo.CreateColumn(context.Background(), projectID, "Done", 99)
	if err != nil {
		t.Fatalf("Failed to create column: %v", err)
	}
	if column.Position != 1 {
		t.Errorf("Expected clamped position 1, got %d", column.Position)
	}

	// Negative prepends
	column, err = repo.CreateColumn(context.Background(), projectID, "Icebox", -5)
	if err != nil {
		t.Fatalf("Failed to create column: %v", err)
	}
	if column.Position != 0 {
		t.Errorf("Expected clamped position 0, got %d", column.Position)
	}

	assertColumnOrder(t, repo, projectID, "Icebox", "Backlog", "Done")
}

func TestCreateColumnDuplicateName(t *testing.T) {
	t.Parallel()

	db := testutil.SetupTestDB(t)
	repo := database.NewRepository(db)
	projectID := testutil.CreateTestProject(t, db, "Board")
	otherID := testutil.CreateTestProject(t, db, "Other")

	testutil.CreateTestColumn(t, db, projectID, "Backlog", 0)

	_, err := repo.CreateColumn(context.Background(), projectID, "Backlog", 1)
	if !errors.Is(err, models.ErrDuplicateColumnName) {
		t.Fatalf("Expected ErrDuplicateColumnName, got %v", err)
	}

	// The same name in another project is fine
	if _, err := repo.CreateColumn(context.Background(), otherID, "Backlog", 0); err != nil {
		t.Fatalf("Expected no error for other project, got %v", err)
	}

	// The failed insert must not have shifted anything
	assertColumnOrder(t, repo, projectID, "Backlog")
}

// ============================================================================
// UPDATE
// ============================================================================

func TestUpdateColumnNameDuplicate(t *testing.T) {
	t.Parallel()

	db := testutil.SetupTestDB(t)
	repo := database.NewRepository(db)
	projectID := testutil.CreateTestProject(t, db, "Board")

	testutil.CreateTestColumn(t, db, projectID, "Backlog", 0)
	columnID := testutil.CreateTestColumn(t, db, projectID, "Doing", 1)

	err := repo.UpdateColumnName(context.Background(), columnID, "Backlog")
	if !errors.Is(err, models.ErrDuplicateColumnName) {
		t.Fatalf("Expected ErrDuplicateColumnName, got %v", err)
	}

	// Renaming to its own current name is allowed
	if err := repo.UpdateColumnName(context.Background(), columnID, "Doing"); err != nil {
		t.Fatalf("Expected self-rename to succeed, got %v", err)
	}
}

func TestUpdateColumnPosition(t *testing.T) {
	t.Parallel()

	db := testutil.SetupTestDB(t)
	repo := database.NewRepository(db)
	projectID := testutil.CreateTestProject(t, db, "Board")

	backlog := testutil.CreateTestColumn(t, db, projectID, "Backlog", 0)
	testutil.CreateTestColumn(t, db, projectID, "Doing", 1)
	done := testutil.CreateTestColumn(t, db, projectID, "Done", 2)

	// Move last to front
	if err := repo.UpdateColumnPosition(context.Background(), done, 0); err != nil {
		t.Fatalf("Failed to move column: %v", err)
	}
	assertColumnOrder(t, repo, projectID, "Done", "Backlog", "Doing")

	// Move first to last, position clamped from beyond the end
	if err := repo.UpdateColumnPosition(context.Background(), backlog, 10); err != nil {
		t.Fatalf("Failed to move column: %v", err)
	}
	assertColumnOrder(t, repo, projectID, "Done", "Doing", "Backlog")
}

func TestUpdateColumnPositionNotFound(t *testing.T) {
	t.Parallel()

	db := testutil.SetupTestDB(t)
	repo := database.NewRepository(db)

	err := repo.UpdateColumnPosition(context.Background(), 9999, 0)
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

// ============================================================================
// REORDER
// ============================================================================

func TestReorderColumns(t *testing.T) {
	t.Parallel()

	db := testutil.SetupTestDB(t)
	repo := database.NewRepository(db)
	projectID := testutil.CreateTestProject(t, db, "Board")

	backlog := testutil.CreateTestColumn(t, db, projectID, "Backlog", 0)
	doing := testutil.CreateTestColumn(t, db, projectID, "Doing", 1)
	done := testutil.CreateTestColumn(t, db, projectID, "Done", 2)

	if err := repo.ReorderColumns(context.Background(), projectID, []int{done, backlog, doing}); err != nil {
		t.Fatalf("Failed to reorder: %v", err)
	}
	assertColumnOrder(t, repo, projectID, "Done", "Backlog", "Doing")

	// Reordering with the same list again is a no-op
	if err := repo.ReorderColumns(context.Background(), projectID, []int{done, backlog, doing}); err != nil {
		t.Fatalf("Expected idempotent reorder, got %v", err)
	}
	assertColumnOrder(t, repo, projectID, "Done", "Backlog", "Doing")
}

func TestReorderColumnsSetMismatch(t *testing.T) {
	t.Parallel()

	db := testutil.SetupTestDB(t)
	repo := database.NewRepository(db)
	projectID := testutil.CreateTestProject(t, db, "Board")

	backlog := testutil.CreateTestColumn(t, db, projectID, "Backlog", 0)
	doing := testutil.CreateTestColumn(t, db, projectID, "Doing", 1)
	done := testutil.CreateTestColumn(t, db, projectID, "Done", 2)

	cases := []struct {
		name string
		ids  []int
	}{
		{"missing id", []int{backlog, doing}},
		{"extra id", []int{backlog, doing, done, 9999}},
		{"unknown id", []int{backlog, doing, 9999}},
		{"duplicate id", []int{backlog, doing, doing}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := repo.ReorderColumns(context.Background(), projectID, tc.ids)
			if !errors.Is(err, models.ErrColumnSetMismatch) {
				t.Fatalf("Expected ErrColumnSetMismatch, got %v", err)
			}
			// Nothing may have been written
			assertColumnOrder(t, repo, projectID, "Backlog", "Doing", "Done")
		})
	}
}

// ============================================================================
// DELETE
// ============================================================================

func TestDeleteColumnClosesGap(t *testing.T) {
	t.Parallel()

	db := testutil.SetupTestDB(t)
	repo := database.NewRepository(db)
	projectID := testutil.CreateTestProject(t, db, "Board")

	testutil.CreateTestColumn(t, db, projectID, "Backlog", 0)
	doing := testutil.CreateTestColumn(t, db, projectID, "Doing", 1)
	testutil.CreateTestColumn(t, db, projectID, "Done", 2)

	if err := repo.DeleteColumn(context.Background(), doing); err != nil {
		t.Fatalf("Failed to delete column: %v", err)
	}
	assertColumnOrder(t, repo, projectID, "Backlog", "Done")
}

func TestDeleteColumnWithCards(t *testing.T) {
	t.Parallel()

	db := testutil.SetupTestDB(t)
	repo := database.NewRepository(db)
	projectID := testutil.CreateTestProject(t, db, "Board")
	ownerID := testutil.CreateTestUser(t, db, "owner@example.com", models.RoleMember)

	columnID := testutil.CreateTestColumn(t, db, projectID, "Backlog", 0)
	cardID := testutil.CreateTestCard(t, db, columnID, ownerID, "Task")

	err := repo.DeleteColumn(context.Background(), columnID)
	if !errors.Is(err, models.ErrColumnHasCards) {
		t.Fatalf("Expected ErrColumnHasCards, got %v", err)
	}

	// A column holding only soft-deleted cards may be removed
	if err := repo.SoftDeleteCard(context.Background(), cardID); err != nil {
		t.Fatalf("Failed to soft-delete card: %v", err)
	}
	if err := repo.DeleteColumn(context.Background(), columnID); err != nil {
		t.Fatalf("Expected delete to succeed after soft-delete, got %v", err)
	}
}

func TestGetColumnCountByProject(t *testing.T) {
	t.Parallel()

	db := testutil.SetupTestDB(t)
	repo := database.NewRepository(db)
	projectID := testutil.CreateTestProject(t, db, "Board")

	count, err := repo.GetColumnCountByProject(context.Background(), projectID)
	if err != nil {
		t.Fatalf("Failed to count columns: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 columns, got %d", count)
	}

	testutil.CreateTestColumn(t, db, projectID, "Backlog", 0)
	testutil.CreateTestColumn(t, db, projectID, "Done", 1)

	count, err = repo.GetColumnCountByProject(context.Background(), projectID)
	if err != nil {
		t.Fatalf("Failed to count columns: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 columns, got %d", count)
	}
}
