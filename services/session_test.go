package services

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zhouhanhanhan/sciencegame/crypto"
	"github.com/zhouhanhanhan/sciencegame/game"
)

func newTestGame() *game.Game {
	return game.NewGame(&game.AccountData{
		RewardAmount:       25,
		EvaluatorPublicKey: "test-key",
	}, []game.PlayerJoin{
		{Addr: "alice", Balance: 100},
		{Addr: "bob", Balance: 50},
	})
}

func startTestHost(t *testing.T, store Store) *SessionHost {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	host := NewSessionHost("s1", newTestGame(), store, slog.Default())
	host.Start(ctx)
	return host
}

func TestSessionHostDispatchBeforeStart(t *testing.T) {
	host := NewSessionHost("s1", newTestGame(), NewMemoryStore(), slog.Default())

	err := host.Dispatch(context.Background(), "alice", &game.SubmitEvent{Ciphertext: []byte("ct")})
	require.ErrorIs(t, err, ErrHostStopped)
}

func TestSessionHostAppliesAndCheckpoints(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	host := startTestHost(t, store)

	err := host.Dispatch(ctx, "alice", &game.SubmitEvent{Ciphertext: []byte("ct")})
	require.NoError(t, err)

	snapshot, err := host.State(ctx)
	require.NoError(t, err)
	require.Equal(t, game.StageSubmitted, snapshot.Stage)
	require.Len(t, snapshot.Pending, 1)

	persisted, err := store.LoadSession(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, game.StageSubmitted, persisted.Stage)
	require.Len(t, persisted.Pending, 1)
}

func TestSessionHostRejectsUnknownSender(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	host := startTestHost(t, store)

	err := host.Dispatch(ctx, "mallory", &game.SubmitEvent{Ciphertext: []byte("ct")})
	require.ErrorIs(t, err, game.ErrUnknownParticipant)

	// Rejected events leave no checkpoint behind.
	_, err = store.LoadSession(ctx, "s1")
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionHostRecordsAcceptedResult(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	host := startTestHost(t, store)

	key := crypto.SolutionKey("the-answer")
	require.NoError(t, host.Dispatch(ctx, "alice", &game.SubmitEvent{Ciphertext: []byte("ct")}))
	require.NoError(t, host.Dispatch(ctx, "", &game.EvaluateEvent{
		Message: crypto.Message{Sender: "alice", Content: key},
	}))

	snapshot, err := host.State(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(125), snapshot.Players[0].Balance)
	require.Equal(t, "alice", snapshot.Solutions[key])

	require.Equal(t, map[string]string{key: "alice"}, store.Results("s1"))
}

func TestSessionHostDuplicateLeavesResultsUntouched(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	host := startTestHost(t, store)

	key := crypto.SolutionKey("the-answer")
	require.NoError(t, host.Dispatch(ctx, "alice", &game.SubmitEvent{Ciphertext: []byte("ct1")}))
	require.NoError(t, host.Dispatch(ctx, "", &game.EvaluateEvent{
		Message: crypto.Message{Sender: "alice", Content: key},
	}))
	require.NoError(t, host.Dispatch(ctx, "bob", &game.SubmitEvent{Ciphertext: []byte("ct2")}))
	require.NoError(t, host.Dispatch(ctx, "", &game.EvaluateEvent{
		Message: crypto.Message{Sender: "bob", Content: key},
	}))

	snapshot, err := host.State(ctx)
	require.NoError(t, err)
	require.Equal(t, game.StageWaiting, snapshot.Stage)
	require.Equal(t, uint64(50), snapshot.Players[1].Balance)
	require.Equal(t, map[string]string{key: "alice"}, store.Results("s1"))
}

func TestSessionHostStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	host := NewSessionHost("s1", newTestGame(), NewMemoryStore(), slog.Default())
	host.Start(ctx)

	cancel()
	<-host.done

	err := host.Dispatch(context.Background(), "alice", &game.SubmitEvent{Ciphertext: []byte("ct")})
	require.ErrorIs(t, err, ErrHostStopped)
}
