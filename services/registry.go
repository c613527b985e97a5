package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/zhouhanhanhan/sciencegame/crypto"
	"github.com/zhouhanhanhan/sciencegame/game"
)

// ErrSessionExists indicates a create for an ID already in use.
var ErrSessionExists = errors.New("session already exists")

// SessionRegistry tracks live session hosts by ID and restores
// persisted sessions on boot. Hosts run on the registry's base
// context, not the context of the request that created them.
type SessionRegistry struct {
	baseCtx context.Context
	log     *slog.Logger
	store   Store

	mu    sync.RWMutex
	hosts map[string]*SessionHost
}

// NewSessionRegistry creates an empty registry over the given store.
// Canceling ctx stops every host the registry ever starts.
func NewSessionRegistry(ctx context.Context, store Store, log *slog.Logger) *SessionRegistry {
	return &SessionRegistry{
		baseCtx: ctx,
		log:     log,
		store:   store,
		hosts:   make(map[string]*SessionHost),
	}
}

// CreateSession initializes a session from its creation payload,
// starts its dispatch loop and persists the initial snapshot. The
// evaluator public key must be a parseable RSA PEM.
func (r *SessionRegistry) CreateSession(ctx context.Context, req *CreateSessionRequest) (*SessionHost, error) {
	if req.SessionID == "" {
		return nil, errors.New("session_id is required")
	}
	if _, err := crypto.ParsePublicKeyPEM(req.AccountData.EvaluatorPublicKey); err != nil {
		return nil, fmt.Errorf("invalid evaluator public key: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.hosts[req.SessionID]; ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionExists, req.SessionID)
	}

	g := game.NewGame(&req.AccountData, req.InitialPlayers)
	host := NewSessionHost(req.SessionID, g, r.store, r.log)
	host.Start(r.baseCtx)

	if err := r.store.SaveSession(ctx, req.SessionID, g.Snapshot()); err != nil {
		return nil, fmt.Errorf("persisting new session: %w", err)
	}

	r.hosts[req.SessionID] = host
	r.log.Info("session created", "session", req.SessionID, "participants", len(req.InitialPlayers))
	return host, nil
}

// Session returns the live host for an ID.
func (r *SessionRegistry) Session(id string) (*SessionHost, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	host, ok := r.hosts[id]
	return host, ok
}

// Sessions returns the IDs of all live sessions.
func (r *SessionRegistry) Sessions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.hosts))
	for id := range r.hosts {
		ids = append(ids, id)
	}
	return ids
}

// Restore loads every persisted session from the store and starts a
// host for each. Called once on boot, before serving traffic.
func (r *SessionRegistry) Restore(ctx context.Context) error {
	ids, err := r.store.ListSessions(ctx)
	if err != nil {
		return fmt.Errorf("listing sessions: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range ids {
		if _, ok := r.hosts[id]; ok {
			continue
		}
		snapshot, err := r.store.LoadSession(ctx, id)
		if err != nil {
			return fmt.Errorf("loading session %s: %w", id, err)
		}
		host := NewSessionHost(id, game.RestoreGame(snapshot), r.store, r.log)
		host.Start(r.baseCtx)
		r.hosts[id] = host
		r.log.Info("session restored", "session", id)
	}
	return nil
}
