package server

import (
	"net/http"

	columnservice "kanband/internal/services/column"
)

type createColumnRequest struct {
	Name  string `json:"name"`
	Order int    `json:"order"`
}

type updateColumnRequest struct {
	Name  *string `json:"name"`
	Order *int    `json:"order"`
}

type reorderRequest struct {
	OrderedColumnIDs []int `json:"orderedColumnIds"`
}

func (s *Server) handleListColumns(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathInt(r, "projectId")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid project id"})
		return
	}
	// 404 for a project that does not exist, not an empty list
	if _, err := s.projects.GetByID(r.Context(), projectID); err != nil {
		writeError(w, err)
		return
	}
	columns, err := s.columns.GetColumnsByProject(r.Context(), projectID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, columns)
}

func (s *Server) handleCreateColumn(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathInt(r, "projectId")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid project id"})
		return
	}
	if _, err := s.projects.GetByID(r.Context(), projectID); err != nil {
		writeError(w, err)
		return
	}
	var req createColumnRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	column, err := s.columns.CreateColumn(r.Context(), columnservice.CreateColumnRequest{
		Name:      req.Name,
		ProjectID: projectID,
		Position:  req.Order,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, column)
}

func (s *Server) handleUpdateColumn(w http.ResponseWriter, r *http.Request) {
	columnID, ok := pathInt(r, "columnId")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid column id"})
		return
	}
	var req updateColumnRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	column, err := s.columns.UpdateColumn(r.Context(), columnservice.UpdateColumnRequest{
		ColumnID: columnID,
		Name:     req.Name,
		Position: req.Order,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, column)
}

func (s *Server) handleDeleteColumn(w http.ResponseWriter, r *http.Request) {
	columnID, ok := pathInt(r, "columnId")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid column id"})
		return
	}
	if err := s.columns.DeleteColumn(r.Context(), columnID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// handleReorderColumns rewrites the project's column ordering to match
// the supplied id list and returns the fresh ordered list. A list that
// is not exactly the project's current column id set is rejected with
// 400 before anything is written.
func (s *Server) handleReorderColumns(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathInt(r, "projectId")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid project id"})
		return
	}
	if _, err := s.projects.GetByID(r.Context(), projectID); err != nil {
		writeError(w, err)
		return
	}
	var req reorderRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	columns, err := s.columns.Reorder(r.Context(), projectID, req.OrderedColumnIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, columns)
}

// handleValidateColumnCreate is the read-only advisory check for
// whether a new column may currently be created.
func (s *Server) handleValidateColumnCreate(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathInt(r, "projectId")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid project id"})
		return
	}
	if _, err := s.projects.GetByID(r.Context(), projectID); err != nil {
		writeError(w, err)
		return
	}
	if err := s.columns.ValidateCreate(r.Context(), projectID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"canCreate": true})
}
