package server

import (
	"net/http"
	"time"

	"kanband/internal/auth"
	cardservice "kanband/internal/services/card"
)

type createCardRequest struct {
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	ColumnID      int        `json:"columnId"`
	AssignedToIDs []int      `json:"assignedToIds"`
	Tags          []int      `json:"tags"`
	LinkedIDs     []int      `json:"linkedIds"`
	ParentID      *int       `json:"parentId"`
	Deadline      *time.Time `json:"deadline"`
}

// updateCardRequest is the PUT /todo body. A request carrying columnId
// or order is a move; any other non-nil field is an edit. Both can be
// combined in one request. projectId is accepted for compatibility but
// the authoritative project is always derived from the destination
// column.
type updateCardRequest struct {
	ID            int        `json:"id"`
	ColumnID      *int       `json:"columnId"`
	Order         *int       `json:"order"`
	ProjectID     *int       `json:"projectId"`
	Title         *string    `json:"title"`
	Description   *string    `json:"description"`
	AssignedToIDs *[]int     `json:"assignedToIds"`
	Tags          *[]int     `json:"tags"`
	LinkedIDs     *[]int     `json:"linkedIds"`
	ParentID      *int       `json:"parentId"`
	Deadline      *time.Time `json:"deadline"`
}

func (r updateCardRequest) isMove() bool {
	return r.ColumnID != nil || r.Order != nil
}

func (r updateCardRequest) isEdit() bool {
	return r.Title != nil || r.Description != nil || r.AssignedToIDs != nil ||
		r.Tags != nil || r.LinkedIDs != nil || r.ParentID != nil || r.Deadline != nil
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFrom(r.Context())

	var req createCardRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	card, err := s.cards.CreateCard(r.Context(), cardservice.CreateCardRequest{
		Title:         req.Title,
		Description:   req.Description,
		ColumnID:      req.ColumnID,
		OwnerID:       principal.UserID,
		AssignedToIDs: req.AssignedToIDs,
		TagIDs:        req.Tags,
		LinkedIDs:     req.LinkedIDs,
		ParentID:      req.ParentID,
		Deadline:      req.Deadline,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, card)
}

func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFrom(r.Context())

	var req updateCardRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.ID <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid card id"})
		return
	}

	if req.isEdit() {
		_, err := s.cards.UpdateCard(r.Context(), cardservice.UpdateCardRequest{
			CardID:        req.ID,
			Title:         req.Title,
			Description:   req.Description,
			AssignedToIDs: req.AssignedToIDs,
			TagIDs:        req.Tags,
			LinkedIDs:     req.LinkedIDs,
			ParentID:      req.ParentID,
			Deadline:      req.Deadline,
		})
		if err != nil {
			writeError(w, err)
			return
		}
	}

	if req.isMove() {
		current, err := s.cards.GetCard(r.Context(), req.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		toColumn := current.ColumnID
		if req.ColumnID != nil {
			toColumn = *req.ColumnID
		}
		toPosition := current.Position
		if req.Order != nil {
			toPosition = *req.Order
		}
		card, err := s.cards.Move(r.Context(), cardservice.MoveRequest{
			CardID:     req.ID,
			ToColumnID: toColumn,
			ToPosition: toPosition,
			MovedBy:    principal.UserID,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, card)
		return
	}

	card, err := s.cards.GetCard(r.Context(), req.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid card id"})
		return
	}
	card, err := s.cards.GetCard(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid card id"})
		return
	}
	if err := s.cards.DeleteCard(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathInt(r, "projectId")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid project id"})
		return
	}
	if _, err := s.projects.GetByID(r.Context(), projectID); err != nil {
		writeError(w, err)
		return
	}
	board, err := s.cards.GetBoard(r.Context(), projectID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (s *Server) handleCardHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid card id"})
		return
	}
	history, err := s.cards.GetHistory(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

type commentRequest struct {
	Body string `json:"body"`
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid card id"})
		return
	}
	comments, err := s.cards.GetComments(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFrom(r.Context())

	id, ok := pathInt(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid card id"})
		return
	}
	var req commentRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	comment, err := s.cards.AddComment(r.Context(), id, principal.UserID, req.Body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}
