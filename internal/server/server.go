// Package server provides the local HTTP status API for handmouse.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ayusman/handmouse/internal/app"
	"github.com/ayusman/handmouse/internal/config"
	"github.com/ayusman/handmouse/internal/store"
)

// DefaultSessionLimit is the number of sessions listed when no limit is given.
const DefaultSessionLimit = 20

// StatusProvider exposes the running application.
type StatusProvider interface {
	Snapshot() app.Status
	Settings() config.Config
}

// Config holds the server configuration.
type Config struct {
	Status StatusProvider
	Hub    *Hub
	Store  *store.Store
	Logger *slog.Logger
}

// Server represents the HTTP server.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
	logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
		logger: logger.With("component", "server"),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Status != nil {
		s.mux.HandleFunc("/api/status", s.handleStatus)
		s.mux.HandleFunc("/api/config", s.handleConfig)
	}

	if s.config.Store != nil {
		s.mux.HandleFunc("/api/settings", s.handleSettings)
		s.mux.HandleFunc("/api/settings/", s.handleSetting)
		s.mux.HandleFunc("/api/sessions", s.handleSessions)
	}

	if s.config.Hub != nil {
		s.mux.Handle("/api/events", NewEventsHandler(s.config.Hub, s.logger))
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Serve listens on addr until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	})
}

// handleStatus handles GET requests to /api/status.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status := s.config.Status.Snapshot()
	resp := struct {
		app.Status
		Clients int `json:"clients"`
	}{Status: status}
	if s.config.Hub != nil {
		resp.Clients = s.config.Hub.Clients()
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleConfig handles GET requests to /api/config.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, s.config.Status.Settings())
}

// handleSettings handles GET requests to /api/settings.
func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	settings, err := s.config.Store.Settings().All()
	if err != nil {
		s.logger.Error("listing settings", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list settings")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"settings": settings})
}

type settingRequest struct {
	Value string `json:"value"`
}

// handleSetting handles PUT and DELETE requests to /api/settings/{key}.
// Overrides take effect on the next start.
func (s *Server) handleSetting(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/api/settings/")
	if key == "" || strings.Contains(key, "/") {
		writeError(w, http.StatusNotFound, "unknown setting path")
		return
	}

	repo := s.config.Store.Settings()

	switch r.Method {
	case http.MethodPut:
		var req settingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		if err := s.validateSetting(key, req.Value); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := repo.Set(key, req.Value); err != nil {
			s.logger.Error("saving setting", "key", key, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to save setting")
			return
		}

		s.logger.Info("setting saved", "key", key, "value", req.Value)
		writeJSON(w, http.StatusOK, map[string]any{
			"key":              key,
			"value":            req.Value,
			"restart_required": true,
		})

	case http.MethodDelete:
		if err := repo.Delete(key); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "setting not found")
				return
			}
			s.logger.Error("deleting setting", "key", key, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to delete setting")
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// validateSetting applies the override to a copy of the effective config.
func (s *Server) validateSetting(key, value string) error {
	cfg := config.Default()
	if s.config.Status != nil {
		cfg = s.config.Status.Settings()
	}
	return cfg.ApplySettings(map[string]string{key: value})
}

// handleSessions handles GET requests to /api/sessions.
func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := DefaultSessionLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	sessions, err := s.config.Store.Sessions().List(limit)
	if err != nil {
		s.logger.Error("listing sessions", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}
	if sessions == nil {
		sessions = []*store.Session{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}
