package game

import (
	"fmt"

	"github.com/zhouhanhanhan/sciencegame/crypto"
)

// Game is the session aggregate: the ordered participant registry, the
// stage, the fixed reward amount, the evaluator's public key, the
// solution ledger and the pending-submission queue. It exclusively
// owns all nested collections; accessors hand out copies.
type Game struct {
	players      []Player
	stage        Stage
	rewardAmount uint64
	evaluatorKey string
	ledger       *SolutionLedger
	pending      *SubmissionQueue
}

// Checkpoint is the opaque marker this core exposes to the runtime's
// checkpointing machinery. The core defines no durable cross-session
// state beyond the live session.
type Checkpoint struct{}

// NewGame constructs a session from its initialization payload and the
// initial participant list. Every initial participant's local cache
// starts as a copy of the seeded solution ledger.
func NewGame(data *AccountData, initialPlayers []PlayerJoin) *Game {
	g := &Game{
		players:      make([]Player, 0, len(initialPlayers)),
		stage:        StageWaiting,
		rewardAmount: data.RewardAmount,
		evaluatorKey: data.EvaluatorPublicKey,
		ledger:       NewSolutionLedger(data.InitialSolutions),
		pending:      &SubmissionQueue{},
	}
	for _, p := range initialPlayers {
		g.players = append(g.players, Player{
			Addr:           p.Addr,
			Balance:        p.Balance,
			LocalSolutions: g.ledger.Snapshot(),
		})
	}
	return g
}

// HandleEvent dispatches a decoded event to its transition. The sender
// identity is the runtime-authenticated originator of the event; it is
// only meaningful for Submit.
func (g *Game) HandleEvent(eff Effect, sender string, ev Event) error {
	switch e := ev.(type) {
	case *SubmitEvent:
		return g.Submit(eff, sender, e.Ciphertext)
	case *EvaluateEvent:
		return g.Evaluate(eff, e.Message)
	case *SyncEvent:
		return g.Sync(eff, e.NewPlayers)
	default:
		return fmt.Errorf("%w: unhandled event %T", ErrDecode, ev)
	}
}

// Submit queues an encrypted solution from a registered participant.
// Submissions are accepted in any stage; overlapping submissions queue
// up in arrival order. The payload is never inspected.
func (g *Game) Submit(_ Effect, sender string, ciphertext []byte) error {
	if g.findPlayer(sender) == nil {
		return fmt.Errorf("%w: %s", ErrUnknownParticipant, sender)
	}
	g.pending.Push(ciphertext)
	g.stage = StageSubmitted
	return nil
}

// Evaluate consumes the oldest pending submission and applies the
// evaluator's decrypted verdict. The popped ciphertext is discarded
// without being re-validated against the message (see package doc). A
// solution key already in the ledger makes this a successful no-op
// that resets the stage to Waiting. Otherwise the claiming participant
// is credited the fixed reward, the ledger records the key, a reaction
// window is armed for the participant and the updated ledger is
// broadcast to every participant's local cache.
func (g *Game) Evaluate(eff Effect, msg crypto.Message) error {
	popped, hadPending := g.pending.Pop()

	key := msg.Content
	if g.ledger.Contains(key) {
		g.stage = StageWaiting
		return nil
	}

	player := g.findPlayer(msg.Sender)
	if player == nil {
		// Keep the transition atomic: undo the pop before surfacing.
		if hadPending {
			g.pending.pushFront(popped)
		}
		return fmt.Errorf("%w: %s", ErrUnknownParticipant, msg.Sender)
	}

	player.Balance += g.rewardAmount
	g.ledger.Insert(key, player.Addr)

	eff.ActionTimeout(player.Addr, ActionTimeout)

	for i := range g.players {
		g.players[i].LocalSolutions = g.ledger.Snapshot()
	}
	return nil
}

// Sync appends newly admitted participants, each with a local cache
// initialized to the current ledger so latecomers see all prior
// accepted solutions. Duplicate identities pass through undeduplicated.
func (g *Game) Sync(_ Effect, newPlayers []PlayerJoin) error {
	for _, p := range newPlayers {
		g.players = append(g.players, Player{
			Addr:           p.Addr,
			Balance:        p.Balance,
			LocalSolutions: g.ledger.Snapshot(),
		})
	}
	return nil
}

func (g *Game) findPlayer(addr string) *Player {
	for i := range g.players {
		if g.players[i].Addr == addr {
			return &g.players[i]
		}
	}
	return nil
}

// Players returns a copy of the participant registry in join order.
func (g *Game) Players() []Player {
	out := make([]Player, len(g.players))
	for i, p := range g.players {
		out[i] = clonePlayer(p)
	}
	return out
}

// BalanceOf returns a participant's balance. The second return reports
// whether the identity is registered; for duplicate identities the
// first entry wins.
func (g *Game) BalanceOf(addr string) (uint64, bool) {
	p := g.findPlayer(addr)
	if p == nil {
		return 0, false
	}
	return p.Balance, true
}

// Stage returns the current liveness stage.
func (g *Game) Stage() Stage {
	return g.stage
}

// RewardAmount returns the fixed reward per accepted solution.
func (g *Game) RewardAmount() uint64 {
	return g.rewardAmount
}

// EvaluatorPublicKey returns the PEM-encoded evaluator public key
// fixed at session creation.
func (g *Game) EvaluatorPublicKey() string {
	return g.evaluatorKey
}

// Solutions returns a copy of the accepted-solution ledger.
func (g *Game) Solutions() map[string]string {
	return g.ledger.Snapshot()
}

// PendingLen reports the number of not-yet-evaluated submissions.
func (g *Game) PendingLen() int {
	return g.pending.Len()
}

// PendingHead returns a copy of the oldest pending ciphertext without
// consuming it.
func (g *Game) PendingHead() ([]byte, bool) {
	return g.pending.Head()
}

// IntoCheckpoint returns the opaque checkpoint marker.
func (g *Game) IntoCheckpoint() Checkpoint {
	return Checkpoint{}
}
