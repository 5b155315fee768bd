package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ugaemi/zombie-escape-server/internal/game"
	"github.com/ugaemi/zombie-escape-server/internal/room"
	"github.com/ugaemi/zombie-escape-server/internal/store"
)

const maxResultLimit = 100

// Server exposes sessions and the match ledger over HTTP.
type Server struct {
	rm       *room.Manager
	results  store.ResultStore
	defaults game.Settings
}

// NewServer creates a new Server.
func NewServer(rm *room.Manager, results store.ResultStore, defaults game.Settings) *Server {
	return &Server{rm: rm, results: results, defaults: defaults}
}

// Routes builds the HTTP router. wsHandler serves /ws when non-nil.
func (s *Server) Routes(wsHandler http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if wsHandler != nil {
		r.Handle("/ws", wsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/games", s.createGame)
		r.Route("/games/{code}", func(r chi.Router) {
			r.Get("/", s.getGame)
			r.Delete("/", s.deleteGame)
			r.Post("/turns", s.playTurn)
			r.Post("/reset", s.resetGame)
		})
		r.Get("/results", s.listResults)
	})

	return r
}

type gameResponse struct {
	Code      string        `json:"code"`
	SessionID string        `json:"session_id"`
	Viewers   int           `json:"viewers"`
	State     game.Snapshot `json:"state"`
}

func newGameResponse(sess *room.Session) gameResponse {
	return gameResponse{
		Code:      sess.Code,
		SessionID: sess.ID,
		Viewers:   sess.ClientCount(),
		State:     sess.Snapshot(),
	}
}

type turnResponse struct {
	Result game.TurnResult `json:"result"`
	State  game.Snapshot   `json:"state"`
}

type turnRequest struct {
	Command game.Command `json:"command"`
}

func (s *Server) createGame(w http.ResponseWriter, r *http.Request) {
	settings := s.defaults
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid game settings")
		return
	}

	sess, err := s.rm.CreateSession(settings)
	switch {
	case errors.Is(err, game.ErrInvalidSettings):
		respondError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, newGameResponse(sess))
}

func (s *Server) getGame(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, newGameResponse(sess))
}

func (s *Server) deleteGame(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.rm.RemoveSession(sess.Code)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) playTurn(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid command")
		return
	}

	result, err := sess.Step(req.Command)
	if errors.Is(err, room.ErrGameOver) {
		respondError(w, http.StatusConflict, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, turnResponse{Result: result, State: sess.Snapshot()})
}

func (s *Server) resetGame(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := sess.NewGame(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, newGameResponse(sess))
}

func (s *Server) listResults(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxResultLimit {
			respondError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	results, err := s.results.RecentResults(r.Context(), limit)
	if err != nil {
		slog.Error("failed to load results", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load results")
		return
	}
	respondJSON(w, http.StatusOK, results)
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*room.Session, bool) {
	sess, err := s.rm.GetSession(chi.URLParam(r, "code"))
	if err != nil {
		respondError(w, http.StatusNotFound, "game not found")
		return nil, false
	}
	return sess, true
}

// requestLogger logs each request once it completes.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// respondError writes an error JSON response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
