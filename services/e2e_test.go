package services

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouhanhanhan/sciencegame/api/httpserver"
	"github.com/zhouhanhanhan/sciencegame/crypto"
	"github.com/zhouhanhanhan/sciencegame/game"
	"github.com/zhouhanhanhan/sciencegame/testutil"
)

// TestSubmitEvaluateLoop drives the full protocol over HTTP: the
// participant encrypts and submits a solution, the evaluator decrypts
// and posts its verdict, and the updated shared result set is visible
// to every participant. A second submission of the same solution is a
// successful no-op.
func TestSubmitEvaluateLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	priv, pub := testutil.GenerateTestKeyPair()
	pubPEM := testutil.MustEncodePublicKeyPEM(pub)

	store := NewMemoryStore()
	registry := NewSessionRegistry(ctx, store, slog.Default())

	cfg := &ServiceConfig{EvaluatorToken: "eval-token"}
	svc := NewHostService(cfg, registry, slog.Default())

	baseSrv, err := httpserver.New(&httpserver.HTTPServerConfig{
		Log: slog.Default(),
	}, svc)
	require.NoError(t, err)

	server := httptest.NewServer(baseSrv.Handler())
	t.Cleanup(server.Close)

	_, err = registry.CreateSession(ctx, &CreateSessionRequest{
		SessionID: "race-1",
		AccountData: game.AccountData{
			RewardAmount:       25,
			EvaluatorPublicKey: pubPEM,
		},
	})
	require.NoError(t, err)

	evaluator := NewEvaluatorService(server.URL, "race-1", "eval-token", priv, slog.Default())

	alice := NewParticipantClient(server.URL, "race-1", "alice")
	bob := NewParticipantClient(server.URL, "race-1", "bob")
	require.NoError(t, alice.Join(ctx, 100))
	require.NoError(t, bob.Join(ctx, 100))

	// Nothing pending yet.
	evaluated, err := evaluator.EvaluateOnce(ctx)
	require.NoError(t, err)
	require.False(t, evaluated)

	// Alice wins the race.
	require.NoError(t, alice.SubmitSolution(ctx, "H2O is water"))

	evaluated, err = evaluator.EvaluateOnce(ctx)
	require.NoError(t, err)
	require.True(t, evaluated)

	balance, err := alice.Balance(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(125), balance)

	key := crypto.SolutionKey("H2O is water")
	snapshot, err := bob.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, game.StageSubmitted, snapshot.Stage)
	assert.Equal(t, "alice", snapshot.Solutions[key])
	for _, player := range snapshot.Players {
		assert.Equal(t, "alice", player.LocalSolutions[key])
	}

	// Bob submits the same solution: evaluated as a successful no-op.
	require.NoError(t, bob.SubmitSolution(ctx, "H2O is water"))

	evaluated, err = evaluator.EvaluateOnce(ctx)
	require.NoError(t, err)
	require.True(t, evaluated)

	balance, err = bob.Balance(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), balance)

	snapshot, err = bob.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, game.StageWaiting, snapshot.Stage)
	assert.Len(t, snapshot.Solutions, 1)
	assert.Empty(t, snapshot.Pending)

	// The checkpointed session matches the live one.
	persisted, err := store.LoadSession(ctx, "race-1")
	require.NoError(t, err)
	assert.Equal(t, snapshot, persisted)

	// The audit trail credits the first claimant only.
	assert.Equal(t, map[string]string{key: "alice"}, store.Results("race-1"))
}
