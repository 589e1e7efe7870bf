package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"kanband/internal/auth"
	"kanband/internal/models"
	cardservice "kanband/internal/services/card"
	columnservice "kanband/internal/services/column"
	projectservice "kanband/internal/services/project"
	tagservice "kanband/internal/services/tag"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps domain errors onto the status taxonomy:
// 401 no/bad session, 403 insufficient role, 404 missing entity,
// 409 duplicate name / column still has cards, 400 mismatched reorder
// set or validation failure, 500 everything else (generic message,
// detail logged).
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
		msg = "internal server error"
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrDuplicateColumnName),
		errors.Is(err, models.ErrColumnHasCards):
		return http.StatusConflict
	case errors.Is(err, models.ErrColumnSetMismatch):
		return http.StatusBadRequest
	case isValidationError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func isValidationError(err error) bool {
	validation := []error{
		columnservice.ErrEmptyName,
		columnservice.ErrNameTooLong,
		columnservice.ErrInvalidColumnID,
		columnservice.ErrInvalidProjectID,
		columnservice.ErrEmptyOrder,
		columnservice.ErrNoColumns,
		cardservice.ErrInvalidCardID,
		cardservice.ErrInvalidColumnID,
		cardservice.ErrInvalidProjectID,
		cardservice.ErrInvalidOwnerID,
		cardservice.ErrEmptyTitle,
		cardservice.ErrTitleTooLong,
		cardservice.ErrEmptyBody,
		cardservice.ErrSelfParent,
		projectservice.ErrEmptyName,
		projectservice.ErrNameTooLong,
		projectservice.ErrInvalidProjectID,
		tagservice.ErrEmptyName,
		tagservice.ErrNameTooLong,
		tagservice.ErrInvalidTagID,
		tagservice.ErrInvalidProjectID,
	}
	for _, v := range validation {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
