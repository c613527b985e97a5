package services

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zhouhanhanhan/sciencegame/game"
	"github.com/zhouhanhanhan/sciencegame/testutil"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.LoadSession(ctx, "missing")
	require.ErrorIs(t, err, ErrSessionNotFound)

	g := newTestGame()
	require.NoError(t, store.SaveSession(ctx, "s1", g.Snapshot()))

	loaded, err := store.LoadSession(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, g.Snapshot(), loaded)

	ids, err := store.ListSessions(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"s1"}, ids)
}

func TestMemoryStoreDetachesSnapshots(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	snapshot := newTestGame().Snapshot()
	require.NoError(t, store.SaveSession(ctx, "s1", snapshot))

	// Mutating the caller's snapshot must not leak into the store.
	snapshot.Players[0].Balance = 9999

	loaded, err := store.LoadSession(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, uint64(100), loaded.Players[0].Balance)
}

func TestRegistryCreateAndLookup(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	_, pub := testutil.GenerateTestKeyPair()
	registry := NewSessionRegistry(ctx, NewMemoryStore(), slog.Default())

	req := &CreateSessionRequest{
		SessionID: "s1",
		AccountData: game.AccountData{
			RewardAmount:       10,
			EvaluatorPublicKey: testutil.MustEncodePublicKeyPEM(pub),
		},
		InitialPlayers: []game.PlayerJoin{{Addr: "alice", Balance: 1}},
	}

	host, err := registry.CreateSession(ctx, req)
	require.NoError(t, err)
	require.Equal(t, "s1", host.ID())

	_, err = registry.CreateSession(ctx, req)
	require.ErrorIs(t, err, ErrSessionExists)

	got, ok := registry.Session("s1")
	require.True(t, ok)
	require.Same(t, host, got)

	_, ok = registry.Session("nope")
	require.False(t, ok)
}

func TestRegistryRejectsBadKey(t *testing.T) {
	registry := NewSessionRegistry(context.Background(), NewMemoryStore(), slog.Default())

	_, err := registry.CreateSession(context.Background(), &CreateSessionRequest{
		SessionID:   "s1",
		AccountData: game.AccountData{EvaluatorPublicKey: "not a key"},
	})
	require.Error(t, err)

	_, err = registry.CreateSession(context.Background(), &CreateSessionRequest{})
	require.Error(t, err)
}

func TestRegistryRestore(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	store := NewMemoryStore()
	g := newTestGame()
	require.NoError(t, g.Submit(nil, "alice", []byte("ct")))
	require.NoError(t, store.SaveSession(ctx, "s1", g.Snapshot()))

	registry := NewSessionRegistry(ctx, store, slog.Default())
	require.NoError(t, registry.Restore(ctx))

	host, ok := registry.Session("s1")
	require.True(t, ok)

	snapshot, err := host.State(ctx)
	require.NoError(t, err)
	require.Equal(t, game.StageSubmitted, snapshot.Stage)
	require.Len(t, snapshot.Pending, 1)
}

func TestPostgresStore(t *testing.T) {
	cfg := &PostgresConfig{
		Host:     os.Getenv("TEST_POSTGRES_HOST"),
		Port:     5432,
		User:     os.Getenv("TEST_POSTGRES_USER"),
		Password: os.Getenv("TEST_POSTGRES_PASSWORD"),
		Database: os.Getenv("TEST_POSTGRES_DB"),
	}
	if !cfg.Enabled() {
		t.Skip("TEST_POSTGRES_HOST not set")
	}

	ctx := context.Background()
	store, err := NewPostgresStore(cfg)
	require.NoError(t, err)
	defer store.Close()

	g := newTestGame()
	require.NoError(t, store.SaveSession(ctx, "pg-test", g.Snapshot()))

	loaded, err := store.LoadSession(ctx, "pg-test")
	require.NoError(t, err)
	require.Equal(t, g.Snapshot(), loaded)

	require.NoError(t, store.SaveResult(ctx, "pg-test", "12345", "alice"))
	require.NoError(t, store.SaveResult(ctx, "pg-test", "12345", "bob")) // conflict ignored
}
