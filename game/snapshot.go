package game

// GameSnapshot is a serializable copy of the full session state, used
// by the runtime to persist and restore live sessions. The core itself
// defines no durable state (see Checkpoint).
type GameSnapshot struct {
	Players            []Player          `json:"players"`
	Stage              Stage             `json:"stage"`
	RewardAmount       uint64            `json:"reward_amount"`
	EvaluatorPublicKey string            `json:"evaluator_public_key"`
	Solutions          map[string]string `json:"solutions"`
	Pending            [][]byte          `json:"pending"`
}

// Snapshot captures a deep copy of the session state.
func (g *Game) Snapshot() *GameSnapshot {
	return &GameSnapshot{
		Players:            g.Players(),
		Stage:              g.stage,
		RewardAmount:       g.rewardAmount,
		EvaluatorPublicKey: g.evaluatorKey,
		Solutions:          g.ledger.Snapshot(),
		Pending:            g.pending.snapshot(),
	}
}

// RestoreGame reconstructs a session from a snapshot.
func RestoreGame(s *GameSnapshot) *Game {
	g := &Game{
		players:      make([]Player, 0, len(s.Players)),
		stage:        s.Stage,
		rewardAmount: s.RewardAmount,
		evaluatorKey: s.EvaluatorPublicKey,
		ledger:       NewSolutionLedger(s.Solutions),
		pending:      &SubmissionQueue{},
	}
	for _, p := range s.Players {
		g.players = append(g.players, clonePlayer(p))
	}
	for _, ct := range s.Pending {
		g.pending.Push(ct)
	}
	return g
}
