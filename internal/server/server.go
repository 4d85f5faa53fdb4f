// ABOUTME: HTTP API server exposing the append-only message feed
// ABOUTME: Routes list/create/get requests with chi and validates drafts at the boundary

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/harper/thoughts/internal/models"
	"github.com/harper/thoughts/internal/storage"
)

// MaxRequestSize bounds the body of a create request.
const MaxRequestSize = 64 * 1024

// Option configures a Server.
type Option func(*Server)

// WithLogger injects a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRequestLogging enables chi's request logger.
func WithRequestLogging(enabled bool) Option {
	return func(s *Server) {
		s.requestLogging = enabled
	}
}

// Server is the thoughts HTTP API.
type Server struct {
	store          storage.Store
	logger         *slog.Logger
	requestLogging bool
	router         chi.Router
}

// New creates a server backed by store.
func New(store storage.Store, options ...Option) *Server {
	s := &Server{
		store:  store,
		logger: slog.Default(),
	}
	for _, option := range options {
		option(s)
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if s.requestLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/messages", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Get("/{messageID}", s.handleGet)
	})

	s.router = r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr, "backend", s.store.Backend())
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

type errorResponse struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	messages, err := s.store.ListMessages(r.Context())
	if err != nil {
		s.logger.Error("list messages failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Failed to fetch messages"})
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var draft models.Draft
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxRequestSize))
	if err := decoder.Decode(&draft); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request"})
		return
	}

	created, err := s.store.CreateMessage(r.Context(), draft)
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: verr.Message, Field: verr.Field})
			return
		}
		s.logger.Error("create message failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Failed to create message"})
		return
	}

	s.logger.Debug("message created", "id", created.ID)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "messageID"), 10, 64)
	if err != nil || id < 1 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid message id"})
		return
	}

	m, err := s.store.GetMessage(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Message: "Message not found"})
		return
	}
	if err != nil {
		s.logger.Error("get message failed", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Failed to fetch message"})
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
