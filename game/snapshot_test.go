package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zhouhanhanhan/sciencegame/crypto"
	"github.com/zhouhanhanhan/sciencegame/testutil"
)

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	g := newTestGame(map[string]string{"1": "player5"},
		PlayerJoin{Addr: "player1", Balance: 3})

	eff := &testutil.RecordingEffect{}
	require.NoError(t, g.Submit(eff, "player1", []byte("pending-1")))
	require.NoError(t, g.Submit(eff, "player1", []byte("pending-2")))
	require.NoError(t, g.Evaluate(eff, crypto.Message{Sender: "player1", Content: "k1"}))

	snap := g.Snapshot()
	data, err := json.Marshal(snap)
	require.NoError(t, err)

	var decoded GameSnapshot
	require.NoError(t, json.Unmarshal(data, &decoded))

	restored := RestoreGame(&decoded)
	require.Equal(t, g.Players(), restored.Players())
	require.Equal(t, g.Stage(), restored.Stage())
	require.Equal(t, g.Solutions(), restored.Solutions())
	require.Equal(t, g.RewardAmount(), restored.RewardAmount())
	require.Equal(t, g.EvaluatorPublicKey(), restored.EvaluatorPublicKey())
	require.Equal(t, g.PendingLen(), restored.PendingLen())

	head, ok := restored.PendingHead()
	require.True(t, ok)
	require.Equal(t, []byte("pending-2"), head)
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	g := newTestGame(map[string]string{"1": "player1"}, PlayerJoin{Addr: "player1"})

	snap := g.Snapshot()
	snap.Solutions["2"] = "intruder"
	snap.Players[0].Balance = 99

	require.Len(t, g.Solutions(), 1)
	balance, _ := g.BalanceOf("player1")
	require.Zero(t, balance)
}
