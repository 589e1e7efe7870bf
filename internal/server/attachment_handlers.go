package server

import (
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// maxAttachmentSize bounds uploads at 32MB.
const maxAttachmentSize = 32 << 20

func (s *Server) handleUploadAttachment(w http.ResponseWriter, r *http.Request) {
	cardID, ok := pathInt(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid card id"})
		return
	}
	if _, err := s.cards.GetCard(r.Context(), cardID); err != nil {
		writeError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAttachmentSize)
	if err := r.ParseMultipartForm(maxAttachmentSize); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid multipart body"})
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing file field"})
		return
	}
	defer file.Close()

	if err := os.MkdirAll(s.cfg.AttachmentDir, 0o755); err != nil {
		writeError(w, err)
		return
	}
	storageKey := uuid.NewString()
	dst, err := os.Create(filepath.Join(s.cfg.AttachmentDir, storageKey))
	if err != nil {
		writeError(w, err)
		return
	}
	defer dst.Close()

	size, err := io.Copy(dst, file)
	if err != nil {
		writeError(w, err)
		return
	}

	attachment, err := s.repo.CreateAttachment(r.Context(), cardID, header.Filename, storageKey, size)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, attachment)
}

func (s *Server) handleListAttachments(w http.ResponseWriter, r *http.Request) {
	cardID, ok := pathInt(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid card id"})
		return
	}
	attachments, err := s.repo.GetAttachmentsByCard(r.Context(), cardID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, attachments)
}

func (s *Server) handleDownloadAttachment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid attachment id"})
		return
	}
	attachment, err := s.repo.GetAttachmentByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="`+attachment.FileName+`"`)
	http.ServeFile(w, r, filepath.Join(s.cfg.AttachmentDir, attachment.StorageKey))
}
