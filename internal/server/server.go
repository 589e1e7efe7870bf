// Package server exposes the board over HTTP: authenticated JSON
// routes for projects, columns and cards, plus a WebSocket feed of
// board change events.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"kanband/internal/auth"
	"kanband/internal/config"
	"kanband/internal/database"
	"kanband/internal/events"
	cardservice "kanband/internal/services/card"
	columnservice "kanband/internal/services/column"
	projectservice "kanband/internal/services/project"
	tagservice "kanband/internal/services/tag"
)

// Server wires the service layer to the HTTP surface.
type Server struct {
	cfg      *config.Config
	repo     database.DataStore
	authSvc  *auth.Service
	projects projectservice.Service
	columns  columnservice.Service
	cards    cardservice.Service
	tags     tagservice.Service
	hub      *Hub
}

// New builds a Server and its event hub on top of the repository.
func New(cfg *config.Config, repo database.DataStore, bus *events.Bus) *Server {
	return &Server{
		cfg:      cfg,
		repo:     repo,
		authSvc:  auth.NewService(repo, cfg.JWTSecret, time.Duration(cfg.TokenTTL)),
		projects: projectservice.NewService(repo, bus),
		columns:  columnservice.NewService(repo, bus),
		cards:    cardservice.NewService(repo, bus),
		tags:     tagservice.NewService(repo, bus),
		hub:      NewHub(bus),
	}
}

// Auth exposes the auth service (used by the CLI to seed users).
func (s *Server) Auth() *auth.Service {
	return s.authSvc
}

// Router assembles the route table. Column management is admin-only;
// everything except login and health requires a session.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", s.handleHealth).Methods("GET")
	r.HandleFunc("/auth/login", s.handleLogin).Methods("POST")

	// WebSocket feed authenticates via query token; browsers cannot set
	// headers on the upgrade request
	r.HandleFunc("/ws", s.handleWebSocket).Methods("GET")

	authed := r.NewRoute().Subrouter()
	authed.Use(s.authSvc.RequireAuth)

	authed.HandleFunc("/auth/me", s.handleMe).Methods("GET")

	authed.HandleFunc("/projects", s.handleListProjects).Methods("GET")
	authed.HandleFunc("/projects/{projectId}", s.handleGetProject).Methods("GET")
	authed.HandleFunc("/projects/{projectId}/columns", s.handleListColumns).Methods("GET")
	authed.HandleFunc("/projects/{projectId}/cards", s.handleListCards).Methods("GET")
	authed.HandleFunc("/projects/{projectId}/tags", s.handleListTags).Methods("GET")
	authed.HandleFunc("/projects/{projectId}/tags", s.handleCreateTag).Methods("POST")

	authed.HandleFunc("/todo", s.handleCreateCard).Methods("POST")
	authed.HandleFunc("/todo", s.handleUpdateCard).Methods("PUT")
	authed.HandleFunc("/todo/{id}", s.handleGetCard).Methods("GET")
	authed.HandleFunc("/todo/{id}", s.handleDeleteCard).Methods("DELETE")
	authed.HandleFunc("/todo/{id}/history", s.handleCardHistory).Methods("GET")
	authed.HandleFunc("/todo/{id}/comments", s.handleListComments).Methods("GET")
	authed.HandleFunc("/todo/{id}/comments", s.handleAddComment).Methods("POST")
	authed.HandleFunc("/todo/{id}/attachments", s.handleListAttachments).Methods("GET")
	authed.HandleFunc("/todo/{id}/attachments", s.handleUploadAttachment).Methods("POST")
	authed.HandleFunc("/attachments/{id}", s.handleDownloadAttachment).Methods("GET")

	admin := r.NewRoute().Subrouter()
	admin.Use(s.authSvc.RequireAuth, auth.RequireAdmin)

	admin.HandleFunc("/projects", s.handleCreateProject).Methods("POST")
	admin.HandleFunc("/projects/{projectId}", s.handleUpdateProject).Methods("PUT")
	admin.HandleFunc("/projects/{projectId}", s.handleDeleteProject).Methods("DELETE")
	admin.HandleFunc("/projects/{projectId}/columns", s.handleCreateColumn).Methods("POST")
	admin.HandleFunc("/projects/{projectId}/columns/reorder", s.handleReorderColumns).Methods("POST")
	admin.HandleFunc("/projects/{projectId}/columns/validate", s.handleValidateColumnCreate).Methods("GET")
	admin.HandleFunc("/project-columns/{columnId}", s.handleUpdateColumn).Methods("PUT")
	admin.HandleFunc("/project-columns/{columnId}", s.handleDeleteColumn).Methods("DELETE")
	admin.HandleFunc("/tags/{id}", s.handleDeleteTag).Methods("DELETE")

	return requestLogger(r)
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	c := cors.New(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	httpServer := &http.Server{
		Addr:         s.cfg.Listen,
		Handler:      c.Handler(s.Router()),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", s.cfg.Listen)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
