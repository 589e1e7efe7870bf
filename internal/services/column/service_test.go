package column

import (
	"context"
	"errors"
	"testing"

	_ "modernc.org/sqlite"

	"kanband/internal/database"
	"kanband/internal/events"
	"kanband/internal/models"
	"kanband/internal/testutil"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

func setupService(t *testing.T) (Service, *database.Repository, int) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repo := database.NewRepository(db)
	projectID := testutil.CreateTestProject(t, db, "Test Project")
	return NewService(repo, nil), repo, projectID
}

func mustCreate(t *testing.T, svc Service, projectID int, name string, position int) *models.Column {
	t.Helper()
	col, err := svc.CreateColumn(context.Background(), CreateColumnRequest{
		Name:      name,
		ProjectID: projectID,
		Position:  position,
	})
	if err != nil {
		t.Fatalf("Failed to create column %q: %v", name, err)
	}
	return col
}

func assertOrder(t *testing.T, svc Service, projectID int, want ...string) {
	t.Helper()
	columns, err := svc.GetColumnsByProject(context.Background(), projectID)
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
			t.Errorf("Position %d: expected %q, got %q", i, want[i], column.Name)
		}
	}
}

// ============================================================================
// CREATE
// ============================================================================

func TestCreateColumn(t *testing.T) {
	t.Parallel()

	svc, _, projectID := setupService(t)

	result := mustCreate(t, svc, projectID, "To Do", 0)
	if result.Name != "To Do" {
		t.Errorf("Expected name 'To Do', got %q", result.Name)
	}
	if result.Position != 0 {
		t.Errorf("Expected position 0, got %d", result.Position)
	}
}

func TestCreateColumnValidation(t *testing.T) {
	t.Parallel()

	svc, _, projectID := setupService(t)

	longName := make([]byte, 51)
	for i := range longName {
		longName[i] = 'a'
	}

	cases := []struct {
		name    string
		req     CreateColumnRequest
		wantErr error
	}{
		{"empty name", CreateColumnRequest{Name: "", ProjectID: projectID}, ErrEmptyName},
		{"name too long", CreateColumnRequest{Name: string(longName), ProjectID: projectID}, ErrNameTooLong},
		{"invalid project", CreateColumnRequest{Name: "To Do", ProjectID: 0}, ErrInvalidProjectID},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateColumn(context.Background(), tc.req)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestCreateColumnDuplicateName(t *testing.T) {
	t.Parallel()

	svc, _, projectID := setupService(t)
	mustCreate(t, svc, projectID, "To Do", 0)

	_, err := svc.CreateColumn(context.Background(), CreateColumnRequest{
		Name:      "To Do",
		ProjectID: projectID,
	})
	if !errors.Is(err, models.ErrDuplicateColumnName) {
		t.Fatalf("Expected ErrDuplicateColumnName, got %v", err)
	}
}

// ============================================================================
// UPDATE
// ============================================================================

func TestUpdateColumnRename(t *testing.T) {
	t.Parallel()

	svc, _, projectID := setupService(t)
	col := mustCreate(t, svc, projectID, "To Do", 0)

	newName := "Backlog"
	updated, err := svc.UpdateColumn(context.Background(), UpdateColumnRequest{
		ColumnID: col.ID,
		Name:     &newName,
	})
	if err != nil {
		t.Fatalf("Failed to rename: %v", err)
	}
	if updated.Name != "Backlog" {
		t.Errorf("Expected name 'Backlog', got %q", updated.Name)
	}
	if updated.Position != 0 {
		t.Errorf("Rename must not change position, got %d", updated.Position)
	}
}

func TestUpdateColumnReposition(t *testing.T) {
	t.Parallel()

	svc, _, projectID := setupService(t)
	mustCreate(t, svc, projectID, "Backlog", 0)
	mustCreate(t, svc, projectID, "Doing", 1)
	done := mustCreate(t, svc, projectID, "Done", 2)

	front := 0
	updated, err := svc.UpdateColumn(context.Background(), UpdateColumnRequest{
		ColumnID: done.ID,
		Position: &front,
	})
	if err != nil {
		t.Fatalf("Failed to reposition: %v", err)
	}
	if updated.Position != 0 {
		t.Errorf("Expected position 0, got %d", updated.Position)
	}
	assertOrder(t, svc, projectID, "Done", "Backlog", "Doing")
}

// ============================================================================
// REORDER
// ============================================================================

func TestReorderPermutation(t *testing.T) {
	t.Parallel()

	svc, _, projectID := setupService(t)
	backlog := mustCreate(t, svc, projectID, "Backlog", 0)
	doing := mustCreate(t, svc, projectID, "Doing", 1)
	done := mustCreate(t, svc, projectID, "Done", 2)

	columns, err := svc.Reorder(context.Background(), projectID, []int{done.ID, backlog.ID, doing.ID})
	if err != nil {
		t.Fatalf("Failed to reorder: %v", err)
	}
	if len(columns) != 3 {
		t.Fatalf("Expected 3 columns back, got %d", len(columns))
	}
	for i, want := range []int{done.ID, backlog.ID, doing.ID} {
		if columns[i].ID != want {
			t.Errorf("Position %d: expected column %d, got %d", i, want, columns[i].ID)
		}
		if columns[i].Position != i {
			t.Errorf("Column %d: expected position %d, got %d", columns[i].ID, i, columns[i].Position)
		}
	}
}

func TestReorderIsIdempotent(t *testing.T) {
	t.Parallel()

	svc, _, projectID := setupService(t)
	backlog := mustCreate(t, svc, projectID, "Backlog", 0)
	doing := mustCreate(t, svc, projectID, "Doing", 1)

	order := []int{doing.ID, backlog.ID}
	first, err := svc.Reorder(context.Background(), projectID, order)
	if err != nil {
		t.Fatalf("First reorder failed: %v", err)
	}
	second, err := svc.Reorder(context.Background(), projectID, order)
	if err != nil {
		t.Fatalf("Second reorder failed: %v", err)
	}

	for i := range first {
		if first[i].ID != second[i].ID || first[i].Position != second[i].Position {
			t.Errorf("Position %d changed between identical reorders: %+v vs %+v",
				i, first[i], second[i])
		}
	}
}

func TestReorderSetMismatchLeavesOrderUnchanged(t *testing.T) {
	t.Parallel()

	svc, _, projectID := setupService(t)
	backlog := mustCreate(t, svc, projectID, "Backlog", 0)
	mustCreate(t, svc, projectID, "Doing", 1)
	mustCreate(t, svc, projectID, "Done", 2)

	_, err := svc.Reorder(context.Background(), projectID, []int{backlog.ID, 9999, 9998})
	if !errors.Is(err, models.ErrColumnSetMismatch) {
		t.Fatalf("Expected ErrColumnSetMismatch, got %v", err)
	}
	assertOrder(t, svc, projectID, "Backlog", "Doing", "Done")
}

func TestReorderEmptyList(t *testing.T) {
	t.Parallel()

	svc, _, projectID := setupService(t)

	_, err := svc.Reorder(context.Background(), projectID, nil)
	if !errors.Is(err, ErrEmptyOrder) {
		t.Fatalf("Expected ErrEmptyOrder, got %v", err)
	}
}

func TestReorderPublishesEvent(t *testing.T) {
	t.Parallel()

	db := testutil.SetupTestDB(t)
	repo := database.NewRepository(db)
	projectID := testutil.CreateTestProject(t, db, "Test Project")

	bus := events.NewBus(4)
	defer bus.Close()
	ch, cancel := bus.Subscribe(projectID)
	defer cancel()

	svc := NewService(repo, bus)
	backlog := mustCreate(t, svc, projectID, "Backlog", 0)
	doing := mustCreate(t, svc, projectID, "Doing", 1)

	// Drain the two create events
	<-ch
	<-ch

	if _, err := svc.Reorder(context.Background(), projectID, []int{doing.ID, backlog.ID}); err != nil {
		t.Fatalf("Failed to reorder: %v", err)
	}

	event := <-ch
	if event.Type != events.EventColumnsChanged {
		t.Errorf("Expected %q event, got %q", events.EventColumnsChanged, event.Type)
	}
	if event.ProjectID != projectID {
		t.Errorf("Expected project %d, got %d", projectID, event.ProjectID)
	}
}

// ============================================================================
// DELETE / VALIDATE
// ============================================================================

func TestDeleteColumn(t *testing.T) {
	t.Parallel()

	svc, _, projectID := setupService(t)
	mustCreate(t, svc, projectID, "Backlog", 0)
	doing := mustCreate(t, svc, projectID, "Doing", 1)
	mustCreate(t, svc, projectID, "Done", 2)

	if err := svc.DeleteColumn(context.Background(), doing.ID); err != nil {
		t.Fatalf("Failed to delete: %v", err)
	}
	assertOrder(t, svc, projectID, "Backlog", "Done")
}

func TestDeleteColumnWithCards(t *testing.T) {
	t.Parallel()

	db := testutil.SetupTestDB(t)
	repo := database.NewRepository(db)
	projectID := testutil.CreateTestProject(t, db, "Test Project")
	ownerID := testutil.CreateTestUser(t, db, "owner@example.com", models.RoleMember)
	svc := NewService(repo, nil)

	col := mustCreate(t, svc, projectID, "Backlog", 0)
	testutil.CreateTestCard(t, db, col.ID, ownerID, "Task")

	err := svc.DeleteColumn(context.Background(), col.ID)
	if !errors.Is(err, models.ErrColumnHasCards) {
		t.Fatalf("Expected ErrColumnHasCards, got %v", err)
	}
}

func TestValidateCreate(t *testing.T) {
	t.Parallel()

	svc, _, projectID := setupService(t)

	err := svc.ValidateCreate(context.Background(), projectID)
	if !errors.Is(err, ErrNoColumns) {
		t.Fatalf("Expected ErrNoColumns for empty project, got %v", err)
	}

	mustCreate(t, svc, projectID, "Backlog", 0)

	if err := svc.ValidateCreate(context.Background(), projectID); err != nil {
		t.Fatalf("Expected validation to pass, got %v", err)
	}
}
