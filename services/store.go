package services

import (
	"context"
	"errors"
	"sync"

	"github.com/zhouhanhanhan/sciencegame/game"
)

// ErrSessionNotFound indicates a session ID with no stored snapshot.
var ErrSessionNotFound = errors.New("session not found")

// Store persists session snapshots and accepted results. The game core
// defines no durable state of its own; checkpointing the live session
// is this runtime's responsibility.
type Store interface {
	// SaveSession persists a session snapshot, replacing any previous one.
	SaveSession(ctx context.Context, id string, snapshot *game.GameSnapshot) error

	// LoadSession returns the last persisted snapshot for a session.
	LoadSession(ctx context.Context, id string) (*game.GameSnapshot, error)

	// ListSessions returns all persisted session IDs.
	ListSessions(ctx context.Context) ([]string, error)

	// SaveResult records an accepted result for audit queries.
	SaveResult(ctx context.Context, sessionID, solutionKey, participant string) error
}

// MemoryStore implements Store in memory. Used in tests and
// single-node runs without Postgres.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]*game.GameSnapshot
	results   map[string]map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		snapshots: make(map[string]*game.GameSnapshot),
		results:   make(map[string]map[string]string),
	}
}

func (s *MemoryStore) SaveSession(_ context.Context, id string, snapshot *game.GameSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-restore through the game to get a detached deep copy.
	s.snapshots[id] = game.RestoreGame(snapshot).Snapshot()
	return nil
}

func (s *MemoryStore) LoadSession(_ context.Context, id string) (*game.GameSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, ok := s.snapshots[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return game.RestoreGame(snapshot).Snapshot(), nil
}

func (s *MemoryStore) ListSessions(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.snapshots))
	for id := range s.snapshots {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *MemoryStore) SaveResult(_ context.Context, sessionID, solutionKey, participant string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.results[sessionID] == nil {
		s.results[sessionID] = make(map[string]string)
	}
	s.results[sessionID][solutionKey] = participant
	return nil
}

// Results returns the recorded results for a session. Test helper.
func (s *MemoryStore) Results(sessionID string) map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(s.results[sessionID]))
	for k, v := range s.results[sessionID] {
		out[k] = v
	}
	return out
}
