package game

import "time"

const (
	// ActionTimeout is the bounded reaction window armed for a
	// participant after each accepted evaluation.
	ActionTimeout = 30 * time.Second

	// NextGameTimeout is the window the runtime waits before the next
	// game once a duplicate evaluation resets the stage to Waiting.
	NextGameTimeout = 15 * time.Second
)

// AccountData is the session initialization payload. It fixes the
// reward per accepted result and the evaluator's public key for the
// session's lifetime, and optionally seeds the solution ledger with
// results accepted in earlier sessions.
type AccountData struct {
	RewardAmount       uint64            `json:"reward_amount"`
	EvaluatorPublicKey string            `json:"evaluator_public_key"`
	InitialSolutions   map[string]string `json:"initial_solutions"`
}

// PlayerJoin describes a newly admitted participant.
type PlayerJoin struct {
	Addr    string `json:"addr"`
	Balance uint64 `json:"balance"`
}
