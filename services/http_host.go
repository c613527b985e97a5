package services

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/flashbots/go-utils/httplogger"

	"github.com/zhouhanhanhan/sciencegame/crypto"
	"github.com/zhouhanhanhan/sciencegame/game"
)

// HostService is the HTTP surface over the session registry. It
// implements httpserver.RouteRegistrar.
type HostService struct {
	log      *slog.Logger
	cfg      *ServiceConfig
	registry *SessionRegistry
}

// NewHostService creates the HTTP service over a registry.
func NewHostService(cfg *ServiceConfig, registry *SessionRegistry, log *slog.Logger) *HostService {
	return &HostService{
		log:      log,
		cfg:      cfg,
		registry: registry,
	}
}

// RegisterRoutes registers the session API on the router.
func (s *HostService) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return httplogger.LoggingMiddlewareSlog(s.log, next)
		})
		if s.cfg.EnableCORS {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins: []string{"*"},
				AllowedMethods: []string{"GET", "POST", "OPTIONS"},
				AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
				MaxAge:         300,
			}))
		}

		r.With(s.requireToken(s.cfg.AdminToken)).Post("/session", s.handleCreateSession)
		r.Get("/session/{id}/config", s.handleSessionConfig)
		r.Post("/session/{id}/join", s.handleJoin)
		r.Post("/session/{id}/submit", s.handleSubmit)
		r.Get("/session/{id}/state", s.handleState)

		r.Group(func(r chi.Router) {
			r.Use(s.requireToken(s.cfg.EvaluatorToken))
			r.Get("/session/{id}/pending", s.handlePending)
			r.Post("/session/{id}/evaluate", s.handleEvaluate)
		})
	})
}

// requireToken gates a route on a configured bearer token. An empty
// configured token leaves the route open, for local runs and tests.
func (s *HostService) requireToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			got := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				writeError(w, http.StatusUnauthorized, errors.New("invalid bearer token"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *HostService) session(w http.ResponseWriter, r *http.Request) (*SessionHost, bool) {
	id := chi.URLParam(r, "id")
	host, ok := s.registry.Session(id)
	if !ok {
		writeError(w, http.StatusNotFound, ErrSessionNotFound)
		return nil, false
	}
	return host, true
}

func (s *HostService) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	req, err := game.DecodeMessage[CreateSessionRequest](r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if _, err := s.registry.CreateSession(r.Context(), req); err != nil {
		code := http.StatusBadRequest
		if errors.Is(err, ErrSessionExists) {
			code = http.StatusConflict
		}
		writeError(w, code, err)
		return
	}

	writeJSON(w, http.StatusCreated, &StatusResponse{Status: "created"})
}

func (s *HostService) handleSessionConfig(w http.ResponseWriter, r *http.Request) {
	host, ok := s.session(w, r)
	if !ok {
		return
	}

	snapshot, err := host.State(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}

	writeJSON(w, http.StatusOK, &SessionConfigResponse{
		SessionID:          host.ID(),
		RewardAmount:       snapshot.RewardAmount,
		EvaluatorPublicKey: snapshot.EvaluatorPublicKey,
	})
}

func (s *HostService) handleJoin(w http.ResponseWriter, r *http.Request) {
	host, ok := s.session(w, r)
	if !ok {
		return
	}

	req, err := game.DecodeMessage[JoinRequest](r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(req.NewPlayers) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("new_players is empty"))
		return
	}

	if err := host.Dispatch(r.Context(), "", &game.SyncEvent{NewPlayers: req.NewPlayers}); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, &StatusResponse{Status: "ok"})
}

func (s *HostService) handleSubmit(w http.ResponseWriter, r *http.Request) {
	host, ok := s.session(w, r)
	if !ok {
		return
	}

	req, err := game.DecodeMessage[SubmitRequest](r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(req.Ciphertext) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("ciphertext is empty"))
		return
	}

	if err := host.Dispatch(r.Context(), req.Sender, &game.SubmitEvent{Ciphertext: req.Ciphertext}); err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, game.ErrUnknownParticipant) {
			code = http.StatusForbidden
		}
		writeError(w, code, err)
		return
	}

	writeJSON(w, http.StatusOK, &StatusResponse{Status: "ok"})
}

func (s *HostService) handlePending(w http.ResponseWriter, r *http.Request) {
	host, ok := s.session(w, r)
	if !ok {
		return
	}

	snapshot, err := host.State(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}

	resp := &PendingResponse{
		Pending: len(snapshot.Pending),
		Stage:   snapshot.Stage,
	}
	if len(snapshot.Pending) > 0 {
		resp.Ciphertext = snapshot.Pending[0]
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *HostService) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	host, ok := s.session(w, r)
	if !ok {
		return
	}

	req, err := game.DecodeMessage[EvaluateRequest](r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	ev := &game.EvaluateEvent{Message: crypto.Message{Sender: req.Sender, Content: req.Content}}
	if err := host.Dispatch(r.Context(), "", ev); err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, game.ErrUnknownParticipant) {
			code = http.StatusForbidden
		}
		writeError(w, code, err)
		return
	}

	writeJSON(w, http.StatusOK, &StatusResponse{Status: "ok"})
}

func (s *HostService) handleState(w http.ResponseWriter, r *http.Request) {
	host, ok := s.session(w, r)
	if !ok {
		return
	}

	snapshot, err := host.State(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}
