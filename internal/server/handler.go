// Package server exposes game sessions over a JSON HTTP API.
package server

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ahnaineh/GITGAME/internal/core"
	"github.com/ahnaineh/GITGAME/internal/level"
	"github.com/ahnaineh/GITGAME/internal/models"
	"github.com/ahnaineh/GITGAME/internal/session"
	"github.com/ahnaineh/GITGAME/internal/store"
)

// Config holds configurable limits for the server.
type Config struct {
	MaxRequestBody    int64  // bytes, for JSON endpoints
	RequestsPerMinute int    // per-client rate limit
	AdminToken        string // for admin endpoints
	Webhooks          *WebhookNotifier
}

// DefaultConfig returns reasonable defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxRequestBody:    1 << 20,
		RequestsPerMinute: 600,
	}
}

// api carries the dependencies shared by all handlers.
type api struct {
	store  store.Store
	game   *session.Game
	cfg    *Config
	logger *slog.Logger
}

// Handler creates the HTTP handler with all routes and middleware.
// The returned cleanup function stops background goroutines and should be
// called on server shutdown.
func Handler(st store.Store, game *session.Game, cfg *Config, logger *slog.Logger) (http.Handler, func()) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	a := &api{store: st, game: game, cfg: cfg, logger: logger}
	rl := newRateLimiter(cfg.RequestsPerMinute)
	limited := func(h http.HandlerFunc) http.Handler {
		return rl.middleware(h)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", handleHealthz)
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if _, err := st.GetValue("readyz"); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("not ready: session store unavailable"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	if cfg.AdminToken != "" {
		adminMux := http.NewServeMux()
		adminMux.HandleFunc("GET /admin/sessions", a.handleListSessions)
		adminMux.HandleFunc("DELETE /admin/sessions/{id}", a.handleDeleteSession)
		mux.Handle("/admin/", adminAuth(cfg.AdminToken, adminMux))
	}

	// Levels
	mux.Handle("GET /api/v1/levels", limited(a.handleListLevels))
	mux.Handle("GET /api/v1/levels/{level}", limited(a.handleGetLevel))

	// Sessions
	mux.Handle("POST /api/v1/sessions", limited(a.handleCreateSession))
	mux.Handle("GET /api/v1/sessions/{id}", limited(a.handleGetSession))
	mux.Handle("GET /api/v1/sessions/{id}/graph", limited(a.handleGraph))
	mux.Handle("GET /api/v1/sessions/{id}/progress", limited(a.handleProgress))
	mux.Handle("POST /api/v1/sessions/{id}/commands", limited(a.handleCommand))
	mux.Handle("POST /api/v1/sessions/{id}/reset", limited(a.handleReset))
	mux.Handle("POST /api/v1/sessions/{id}/advance", limited(a.handleAdvance))
	mux.Handle("PUT /api/v1/sessions/{id}/level", limited(a.handleSelectLevel))
	mux.Handle("PUT /api/v1/sessions/{id}/files", limited(a.handleWriteFile))

	handler := applyMiddleware(mux,
		recoveryMiddleware(logger),
		loggingMiddleware(logger),
		requestIDMiddleware,
	)

	cleanup := func() {
		rl.Stop()
		cfg.Webhooks.Wait()
	}

	return handler, cleanup
}

// applyMiddleware applies middleware in reverse order so the first in the list runs first.
func applyMiddleware(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// --- Levels ---

type levelSummary struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Chapter  string `json:"chapter"`
	Steps    int    `json:"steps"`
	XPReward int    `json:"xp_reward"`
}

func (a *api) handleListLevels(w http.ResponseWriter, _ *http.Request) {
	levels := a.game.Pack().Levels
	out := make([]levelSummary, 0, len(levels))
	for _, l := range levels {
		out = append(out, levelSummary{
			ID:       l.ID,
			Title:    l.Title,
			Chapter:  l.Chapter,
			Steps:    len(l.Steps),
			XPReward: l.XPReward,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"levels": out})
}

func (a *api) handleGetLevel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("level"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "level id must be a number")
		return
	}
	l, ok := a.game.Pack().Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", fmt.Sprintf("level %d not found", id))
		return
	}
	writeJSON(w, http.StatusOK, l)
}

// --- Sessions ---

func (a *api) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Level int `json:"level"`
	}
	if r.ContentLength != 0 {
		if err := readJSON(r, a.cfg.MaxRequestBody, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
	}

	s, err := a.game.New(req.Level)
	if err != nil {
		a.writeSessionError(w, r, err)
		return
	}
	if err := a.store.SaveSession(s); err != nil {
		a.writeSessionError(w, r, err)
		return
	}

	a.logger.Info("session created", "session", s.ID, "level", s.LevelID, "request_id", requestID(r))
	writeJSON(w, http.StatusCreated, s)
}

func (a *api) handleGetSession(w http.ResponseWriter, r *http.Request) {
	s, err := a.store.GetSession(r.PathValue("id"))
	if err != nil {
		a.writeSessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (a *api) handleGraph(w http.ResponseWriter, r *http.Request) {
	s, err := a.store.GetSession(r.PathValue("id"))
	if err != nil {
		a.writeSessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, core.Graph(s.Repo))
}

func (a *api) handleProgress(w http.ResponseWriter, r *http.Request) {
	s, err := a.store.GetSession(r.PathValue("id"))
	if err != nil {
		a.writeSessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a.progress(s))
}

// commandResponse is the reply to one command line
type commandResponse struct {
	*session.Result
	Repository *models.Repository `json:"repository"`
}

func (a *api) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Command string `json:"command"`
	}
	if err := readJSON(r, a.cfg.MaxRequestBody, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	var res *session.Result
	s, err := a.store.UpdateSession(r.PathValue("id"), func(s *session.Session) error {
		res = a.game.Run(s, req.Command)
		return nil
	})
	if err != nil {
		a.writeSessionError(w, r, err)
		return
	}

	if res.LevelComplete {
		l := a.game.Level(s)
		a.cfg.Webhooks.NotifyLevelComplete(s.ID, l.ID, l.Title, l.XPReward)
	}
	writeJSON(w, http.StatusOK, commandResponse{Result: res, Repository: s.Repo})
}

func (a *api) handleReset(w http.ResponseWriter, r *http.Request) {
	s, err := a.store.UpdateSession(r.PathValue("id"), func(s *session.Session) error {
		a.game.ResetLevel(s)
		return nil
	})
	if err != nil {
		a.writeSessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (a *api) handleAdvance(w http.ResponseWriter, r *http.Request) {
	s, err := a.store.UpdateSession(r.PathValue("id"), func(s *session.Session) error {
		if !a.game.AdvanceLevel(s) {
			return errNoNextLevel
		}
		return nil
	})
	if err != nil {
		a.writeSessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (a *api) handleSelectLevel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Level int `json:"level"`
	}
	if err := readJSON(r, a.cfg.MaxRequestBody, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	s, err := a.store.UpdateSession(r.PathValue("id"), func(s *session.Session) error {
		return a.game.SelectLevel(s, req.Level)
	})
	if err != nil {
		a.writeSessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (a *api) handleWriteFile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path    string `json:"path"`
		Content string `json:"content"`
	}
	if err := readJSON(r, a.cfg.MaxRequestBody, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	s, err := a.store.UpdateSession(r.PathValue("id"), func(s *session.Session) error {
		return a.game.WriteFile(s, req.Path, req.Content)
	})
	if err != nil {
		a.writeSessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"working_tree": s.Repo.WorkingTree,
		"progress":     a.progress(s),
	})
}

func (a *api) progress(s *session.Session) map[string]any {
	steps := a.game.Progress(s)
	return map[string]any{
		"level_id":  s.LevelID,
		"steps":     steps,
		"completed": level.CountCompleted(steps),
		"next_step": level.NextStepIndex(steps),
	}
}

// --- Admin ---

func (a *api) handleListSessions(w http.ResponseWriter, r *http.Request) {
	list, err := a.store.ListSessions()
	if err != nil {
		a.writeSessionError(w, r, err)
		return
	}
	if list == nil {
		list = []store.Summary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": list})
}

func (a *api) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := a.store.DeleteSession(r.PathValue("id")); err != nil {
		a.writeSessionError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func adminAuth(adminToken string, next http.Handler) http.Handler {
	expected := "Bearer " + adminToken
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if subtle.ConstantTimeCompare([]byte(auth), []byte(expected)) != 1 {
			writeError(w, http.StatusUnauthorized, "auth_failed", "invalid admin token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// --- Helpers ---

var errNoNextLevel = errors.New("already at the last level")

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// writeSessionError maps domain errors onto HTTP statuses
func (a *api) writeSessionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, session.ErrUnknownLevel), errors.Is(err, session.ErrFileNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, session.ErrLevelLocked):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, session.ErrFileExists), errors.Is(err, errNoNextLevel):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, session.ErrEmptyName):
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
	default:
		a.logger.Error("request failed", "error", err, "path", r.URL.Path, "request_id", requestID(r))
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{"error": code, "message": message})
}

func readJSON(r *http.Request, maxSize int64, v any) error {
	limited := io.LimitReader(r.Body, maxSize)
	if err := json.NewDecoder(limited).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}
