package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"kanband/internal/config"
	"kanband/internal/database"
	"kanband/internal/events"
	"kanband/internal/models"
	"kanband/internal/testutil"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

type testServer struct {
	srv         *Server
	bus         *events.Bus
	handler     http.Handler
	adminToken  string
	memberToken string
}

func setupServer(t *testing.T) *testServer {
	t.Helper()

	db := testutil.SetupTestDB(t)
	cfg := &config.Config{
		Listen:        ":0",
		AttachmentDir: t.TempDir(),
		JWTSecret:     "test-secret",
		TokenTTL:      config.Duration(time.Hour),
		CORSOrigins:   []string{"*"},
	}

	bus := events.NewBus(16)
	t.Cleanup(bus.Close)

	srv := New(cfg, database.NewRepository(db), bus)

	admin, err := srv.Auth().Register(context.Background(), "admin@example.com", "Admin", "adminpw", models.RoleAdmin)
	if err != nil {
		t.Fatalf("Failed to register admin: %v", err)
	}
	member, err := srv.Auth().Register(context.Background(), "member@example.com", "Member", "memberpw", models.RoleMember)
	if err != nil {
		t.Fatalf("Failed to register member: %v", err)
	}
	adminToken, err := srv.Auth().CreateToken(admin)
	if err != nil {
		t.Fatalf("Failed to mint admin token: %v", err)
	}
	memberToken, err := srv.Auth().CreateToken(member)
	if err != nil {
		t.Fatalf("Failed to mint member token: %v", err)
	}

	return &testServer{
		srv:         srv,
		bus:         bus,
		handler:     srv.Router(),
		adminToken:  adminToken,
		memberToken: memberToken,
	}
}

// request issues one JSON request against the router and decodes the
// response into out when it is non-nil.
func (ts *testServer) request(t *testing.T, method, path, token string, body, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	if out != nil && rec.Code < 300 {
		if err := json.NewDecoder(rec.Body).Decode(out); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
	}
	return rec.Code
}

// createProject makes a project as admin and returns it with its
// bootstrapped default columns.
func (ts *testServer) createProject(t *testing.T, name string) (*models.Project, []*models.Column) {
	t.Helper()
	var project models.Project
	status := ts.request(t, http.MethodPost, "/projects", ts.adminToken,
		map[string]string{"name": name}, &project)
	if status != http.StatusCreated {
		t.Fatalf("Expected 201 creating project, got %d", status)
	}

	var columns []*models.Column
	status = ts.request(t, http.MethodGet, fmt.Sprintf("/projects/%d/columns", project.ID), ts.memberToken, nil, &columns)
	if status != http.StatusOK {
		t.Fatalf("Expected 200 listing columns, got %d", status)
	}
	return &project, columns
}

func (ts *testServer) createCard(t *testing.T, columnID int, title string) *models.Card {
	t.Helper()
	var card models.Card
	status := ts.request(t, http.MethodPost, "/todo", ts.memberToken,
		map[string]any{"title": title, "columnId": columnID}, &card)
	if status != http.StatusCreated {
		t.Fatalf("Expected 201 creating card, got %d", status)
	}
	return &card
}

// ============================================================================
// AUTH / HEALTH
// ============================================================================

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	ts := setupServer(t)
	var body map[string]any
	status := ts.request(t, http.MethodGet, "/healthz", "", nil, &body)
	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %v", body["status"])
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	ts := setupServer(t)

	var resp struct {
		Token string       `json:"token"`
		User  *models.User `json:"user"`
	}
	status := ts.request(t, http.MethodPost, "/auth/login", "",
		map[string]string{"email": "member@example.com", "password": "memberpw"}, &resp)
	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	if resp.Token == "" {
		t.Fatal("Expected a session token")
	}
	if resp.User == nil || resp.User.Email != "member@example.com" {
		t.Errorf("Expected logged-in user in response, got %+v", resp.User)
	}

	status = ts.request(t, http.MethodPost, "/auth/login", "",
		map[string]string{"email": "member@example.com", "password": "wrong"}, nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("Expected 401 for wrong password, got %d", status)
	}
}

func TestAuthRequired(t *testing.T) {
	t.Parallel()

	ts := setupServer(t)

	if status := ts.request(t, http.MethodGet, "/projects", "", nil, nil); status != http.StatusUnauthorized {
		t.Fatalf("Expected 401 without token, got %d", status)
	}
	if status := ts.request(t, http.MethodGet, "/projects", "garbage", nil, nil); status != http.StatusUnauthorized {
		t.Fatalf("Expected 401 with bad token, got %d", status)
	}
}

func TestAdminRequiredForColumnManagement(t *testing.T) {
	t.Parallel()

	ts := setupServer(t)
	project, _ := ts.createProject(t, "Board")

	// Members cannot manage projects or columns
	status := ts.request(t, http.MethodPost, "/projects", ts.memberToken,
		map[string]string{"name": "Nope"}, nil)
	if status != http.StatusForbidden {
		t.Fatalf("Expected 403 for member project create, got %d", status)
	}
	status = ts.request(t, http.MethodPost, fmt.Sprintf("/projects/%d/columns", project.ID), ts.memberToken,
		map[string]any{"name": "Nope", "order": 0}, nil)
	if status != http.StatusForbidden {
		t.Fatalf("Expected 403 for member column create, got %d", status)
	}
}

// ============================================================================
// PROJECTS / COLUMNS
// ============================================================================

func TestProjectBootstrapsDefaultColumns(t *testing.T) {
	t.Parallel()

	ts := setupServer(t)
	_, columns := ts.createProject(t, "Board")

	if len(columns) != len(database.DefaultColumnNames) {
		t.Fatalf("Expected %d default columns, got %d", len(database.DefaultColumnNames), len(columns))
	}
	for i, column := range columns {
		if column.Name != database.DefaultColumnNames[i] {
			t.Errorf("Position %d: expected %q, got %q", i, database.DefaultColumnNames[i], column.Name)
		}
		if column.Position != i {
			t.Errorf("Column %q: expected position %d, got %d", column.Name, i, column.Position)
		}
	}
}

func TestProjectNotFound(t *testing.T) {
	t.Parallel()

	ts := setupServer(t)

	if status := ts.request(t, http.MethodGet, "/projects/9999", ts.memberToken, nil, nil); status != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", status)
	}
	if status := ts.request(t, http.MethodGet, "/projects/9999/columns", ts.memberToken, nil, nil); status != http.StatusNotFound {
		t.Fatalf("Expected 404 for columns of missing project, got %d", status)
	}
}

func TestCreateColumnConflicts(t *testing.T) {
	t.Parallel()

	ts := setupServer(t)
	project, _ := ts.createProject(t, "Board")

	status := ts.request(t, http.MethodPost, fmt.Sprintf("/projects/%d/columns", project.ID), ts.adminToken,
		map[string]any{"name": "Backlog", "order": 0}, nil)
	if status != http.StatusConflict {
		t.Fatalf("Expected 409 for duplicate column name, got %d", status)
	}

	status = ts.request(t, http.MethodPost, fmt.Sprintf("/projects/%d/columns", project.ID), ts.adminToken,
		map[string]any{"name": "", "order": 0}, nil)
	if status != http.StatusBadRequest {
		t.Fatalf("Expected 400 for empty name, got %d", status)
	}
}

func TestReorderColumnsEndpoint(t *testing.T) {
	t.Parallel()

	ts := setupServer(t)
	project, columns := ts.createProject(t, "Board")

	reversed := []int{columns[2].ID, columns[1].ID, columns[0].ID}
	var reordered []*models.Column
	status := ts.request(t, http.MethodPost, fmt.Sprintf("/projects/%d/columns/reorder", project.ID), ts.adminToken,
		map[string]any{"orderedColumnIds": reversed}, &reordered)
	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	for i, id := range reversed {
		if reordered[i].ID != id || reordered[i].Position != i {
			t.Errorf("Position %d: expected column %d, got %d (position %d)",
				i, id, reordered[i].ID, reordered[i].Position)
		}
	}

	// A mismatched id set is rejected with 400 and changes nothing
	status = ts.request(t, http.MethodPost, fmt.Sprintf("/projects/%d/columns/reorder", project.ID), ts.adminToken,
		map[string]any{"orderedColumnIds": []int{columns[0].ID, 9999, 9998}}, nil)
	if status != http.StatusBadRequest {
		t.Fatalf("Expected 400 for set mismatch, got %d", status)
	}

	var after []*models.Column
	ts.request(t, http.MethodGet, fmt.Sprintf("/projects/%d/columns", project.ID), ts.memberToken, nil, &after)
	for i, id := range reversed {
		if after[i].ID != id {
			t.Errorf("Order changed by rejected reorder at position %d", i)
		}
	}
}

func TestValidateColumnCreateEndpoint(t *testing.T) {
	t.Parallel()

	ts := setupServer(t)
	project, columns := ts.createProject(t, "Board")

	var resp map[string]bool
	status := ts.request(t, http.MethodGet, fmt.Sprintf("/projects/%d/columns/validate", project.ID), ts.adminToken, nil, &resp)
	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	if !resp["canCreate"] {
		t.Error("Expected canCreate true")
	}

	// Empty the project, then validation fails
	for _, column := range columns {
		status := ts.request(t, http.MethodDelete, fmt.Sprintf("/project-columns/%d", column.ID), ts.adminToken, nil, nil)
		if status != http.StatusNoContent {
			t.Fatalf("Expected 204 deleting column, got %d", status)
		}
	}
	status = ts.request(t, http.MethodGet, fmt.Sprintf("/projects/%d/columns/validate", project.ID), ts.adminToken, nil, nil)
	if status != http.StatusBadRequest {
		t.Fatalf("Expected 400 for empty project, got %d", status)
	}
}

func TestDeleteColumnWithCardsConflicts(t *testing.T) {
	t.Parallel()

	ts := setupServer(t)
	_, columns := ts.createProject(t, "Board")
	ts.createCard(t, columns[0].ID, "Task")

	status := ts.request(t, http.MethodDelete, fmt.Sprintf("/project-columns/%d", columns[0].ID), ts.adminToken, nil, nil)
	if status != http.StatusConflict {
		t.Fatalf("Expected 409, got %d", status)
	}
}

// ============================================================================
// CARDS
// ============================================================================

func TestCardLifecycle(t *testing.T) {
	t.Parallel()

	ts := setupServer(t)
	project, columns := ts.createProject(t, "Board")
	backlog, doing := columns[0].ID, columns[1].ID

	a := ts.createCard(t, backlog, "A")
	b := ts.createCard(t, backlog, "B")
	ts.createCard(t, backlog, "C")

	// Move B to the top of Doing via PUT /todo
	var moved models.Card
	status := ts.request(t, http.MethodPut, "/todo", ts.memberToken,
		map[string]any{"id": b.ID, "columnId": doing, "order": 0}, &moved)
	if status != http.StatusOK {
		t.Fatalf("Expected 200 moving card, got %d", status)
	}
	if moved.ColumnID != doing || moved.Position != 0 {
		t.Errorf("Expected (column %d, position 0), got (%d, %d)", doing, moved.ColumnID, moved.Position)
	}

	// The board reflects the move with dense positions
	var board map[int][]*models.Card
	ts.request(t, http.MethodGet, fmt.Sprintf("/projects/%d/cards", project.ID), ts.memberToken, nil, &board)
	if len(board[backlog]) != 2 {
		t.Fatalf("Expected 2 cards left in backlog, got %d", len(board[backlog]))
	}
	for i, card := range board[backlog] {
		if card.Position != i {
			t.Errorf("Backlog card %q: expected position %d, got %d", card.Title, i, card.Position)
		}
	}

	// History recorded
	var history []*models.CardMove
	ts.request(t, http.MethodGet, fmt.Sprintf("/todo/%d/history", b.ID), ts.memberToken, nil, &history)
	if len(history) != 1 {
		t.Fatalf("Expected 1 history entry, got %d", len(history))
	}

	// Edit without movement fields leaves the slot alone
	var edited models.Card
	status = ts.request(t, http.MethodPut, "/todo", ts.memberToken,
		map[string]any{"id": a.ID, "title": "A renamed"}, &edited)
	if status != http.StatusOK {
		t.Fatalf("Expected 200 editing card, got %d", status)
	}
	if edited.Title != "A renamed" {
		t.Errorf("Expected renamed title, got %q", edited.Title)
	}
	if edited.ColumnID != backlog || edited.Position != 0 {
		t.Errorf("Edit must not move the card, got (column %d, position %d)", edited.ColumnID, edited.Position)
	}

	// Soft delete, then the card is gone
	if status := ts.request(t, http.MethodDelete, fmt.Sprintf("/todo/%d", a.ID), ts.memberToken, nil, nil); status != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d", status)
	}
	if status := ts.request(t, http.MethodGet, fmt.Sprintf("/todo/%d", a.ID), ts.memberToken, nil, nil); status != http.StatusNotFound {
		t.Fatalf("Expected 404 for deleted card, got %d", status)
	}
}

func TestCardComments(t *testing.T) {
	t.Parallel()

	ts := setupServer(t)
	_, columns := ts.createProject(t, "Board")
	card := ts.createCard(t, columns[0].ID, "Task")

	var comment models.Comment
	status := ts.request(t, http.MethodPost, fmt.Sprintf("/todo/%d/comments", card.ID), ts.memberToken,
		map[string]string{"body": "looks good"}, &comment)
	if status != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", status)
	}
	if comment.Body != "looks good" {
		t.Errorf("Expected body to round-trip, got %q", comment.Body)
	}

	var comments []*models.Comment
	ts.request(t, http.MethodGet, fmt.Sprintf("/todo/%d/comments", card.ID), ts.memberToken, nil, &comments)
	if len(comments) != 1 {
		t.Fatalf("Expected 1 comment, got %d", len(comments))
	}
}

// ============================================================================
// ATTACHMENTS
// ============================================================================

func TestAttachmentUploadAndDownload(t *testing.T) {
	t.Parallel()

	ts := setupServer(t)
	_, columns := ts.createProject(t, "Board")
	card := ts.createCard(t, columns[0].ID, "Task")

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "notes.txt")
	if err != nil {
		t.Fatalf("Failed to build multipart body: %v", err)
	}
	part.Write([]byte("attachment payload"))
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/todo/%d/attachments", card.ID), &buf)
	req.Header.Set("Authorization", "Bearer "+ts.memberToken)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", rec.Code)
	}

	var attachment models.Attachment
	if err := json.NewDecoder(rec.Body).Decode(&attachment); err != nil {
		t.Fatalf("Failed to decode attachment: %v", err)
	}
	if attachment.FileName != "notes.txt" {
		t.Errorf("Expected file name to round-trip, got %q", attachment.FileName)
	}
	if attachment.Size != int64(len("attachment payload")) {
		t.Errorf("Expected size %d, got %d", len("attachment payload"), attachment.Size)
	}

	status := ts.request(t, http.MethodGet, fmt.Sprintf("/attachments/%d", attachment.ID), ts.memberToken, nil, nil)
	if status != http.StatusOK {
		t.Fatalf("Expected 200 downloading, got %d", status)
	}
}
