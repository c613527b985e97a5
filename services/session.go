package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/zhouhanhanhan/sciencegame/game"
	"github.com/zhouhanhanhan/sciencegame/metrics"
)

// ErrHostStopped indicates the session host's dispatch loop is not running.
var ErrHostStopped = errors.New("session host not running")

type hostCommand struct {
	sender string
	event  game.Event // nil requests a snapshot
	reply  chan hostResult
}

type hostResult struct {
	err      error
	snapshot *game.GameSnapshot
}

// SessionHost owns one game session and serializes every action
// through a single dispatch goroutine, providing the total order the
// state machine relies on. It implements game.Effect with real timers
// and checkpoints the session through the store after each applied
// event.
type SessionHost struct {
	id    string
	log   *slog.Logger
	store Store

	g *game.Game

	cmdCh   chan hostCommand
	started *atomic.Bool
	done    chan struct{}

	timersMu       sync.Mutex
	reactionTimers map[string]*time.Timer
	nextGameTimer  *time.Timer
}

// NewSessionHost creates a host around an existing game.
func NewSessionHost(id string, g *game.Game, store Store, log *slog.Logger) *SessionHost {
	return &SessionHost{
		id:             id,
		log:            log.With("session", id),
		store:          store,
		g:              g,
		cmdCh:          make(chan hostCommand),
		started:        atomic.NewBool(false),
		done:           make(chan struct{}),
		reactionTimers: make(map[string]*time.Timer),
	}
}

// Start launches the dispatch loop. Calling Start twice is a no-op.
func (h *SessionHost) Start(ctx context.Context) {
	if h.started.Swap(true) {
		return
	}

	go func() {
		defer close(h.done)
		defer h.stopTimers()
		for {
			select {
			case <-ctx.Done():
				return
			case cmd := <-h.cmdCh:
				cmd.reply <- h.apply(ctx, cmd)
			}
		}
	}()
}

// Dispatch delivers one event to the state machine and waits for the
// result. Events from concurrent callers are applied one at a time in
// the order they win the channel send.
func (h *SessionHost) Dispatch(ctx context.Context, sender string, ev game.Event) error {
	res, err := h.roundTrip(ctx, hostCommand{sender: sender, event: ev, reply: make(chan hostResult, 1)})
	if err != nil {
		return err
	}
	return res.err
}

// State returns a snapshot of the session, read through the dispatch
// loop so it observes a consistent point in the total order.
func (h *SessionHost) State(ctx context.Context) (*game.GameSnapshot, error) {
	res, err := h.roundTrip(ctx, hostCommand{reply: make(chan hostResult, 1)})
	if err != nil {
		return nil, err
	}
	return res.snapshot, res.err
}

func (h *SessionHost) roundTrip(ctx context.Context, cmd hostCommand) (hostResult, error) {
	if !h.started.Load() {
		return hostResult{}, ErrHostStopped
	}

	select {
	case h.cmdCh <- cmd:
	case <-h.done:
		return hostResult{}, ErrHostStopped
	case <-ctx.Done():
		return hostResult{}, ctx.Err()
	}

	select {
	case res := <-cmd.reply:
		return res, nil
	case <-ctx.Done():
		return hostResult{}, ctx.Err()
	}
}

// apply runs inside the dispatch goroutine.
func (h *SessionHost) apply(ctx context.Context, cmd hostCommand) hostResult {
	if cmd.event == nil {
		return hostResult{snapshot: h.g.Snapshot()}
	}

	solutionsBefore := len(h.g.Solutions())

	err := h.g.HandleEvent(h, cmd.sender, cmd.event)
	if err != nil {
		if _, isEval := cmd.event.(*game.EvaluateEvent); isEval {
			metrics.IncEvaluationsFailed()
		}
		return hostResult{err: err}
	}

	h.recordOutcome(ctx, cmd.event, solutionsBefore)

	if err := h.store.SaveSession(ctx, h.id, h.g.Snapshot()); err != nil {
		// The in-memory session stays authoritative; checkpointing
		// failures are surfaced in logs, not to the actor.
		h.log.Error("session checkpoint failed", "err", err)
	}

	return hostResult{}
}

func (h *SessionHost) recordOutcome(ctx context.Context, ev game.Event, solutionsBefore int) {
	switch e := ev.(type) {
	case *game.SubmitEvent:
		metrics.IncSubmissions()
	case *game.SyncEvent:
		metrics.AddParticipantsJoined(len(e.NewPlayers))
	case *game.EvaluateEvent:
		if len(h.g.Solutions()) > solutionsBefore {
			metrics.IncEvaluationsAccepted()
			metrics.AddRewardsPaid(h.g.RewardAmount())
			if err := h.store.SaveResult(ctx, h.id, e.Message.Content, e.Message.Sender); err != nil {
				h.log.Error("result record failed", "err", err)
			}
		} else {
			// Duplicate no-op: stage went back to Waiting, arm the
			// next-game window.
			metrics.IncEvaluationsDuplicate()
			h.log.Info("duplicate solution ignored", "key", e.Message.Content)
			h.WaitTimeout(game.NextGameTimeout)
		}
	}
}

// ActionTimeout implements game.Effect: arms the bounded reaction
// window for a participant after an accepted evaluation. Re-arming for
// the same participant replaces the previous window.
func (h *SessionHost) ActionTimeout(addr string, timeout time.Duration) {
	h.timersMu.Lock()
	defer h.timersMu.Unlock()

	if prev, ok := h.reactionTimers[addr]; ok {
		prev.Stop()
	}
	h.reactionTimers[addr] = time.AfterFunc(timeout, func() {
		h.log.Info("reaction window elapsed", "participant", addr)
		h.timersMu.Lock()
		delete(h.reactionTimers, addr)
		h.timersMu.Unlock()
	})
	metrics.IncReactionWindowsArmed()
}

// WaitTimeout implements game.Effect: arms a general wait window.
func (h *SessionHost) WaitTimeout(timeout time.Duration) {
	h.timersMu.Lock()
	defer h.timersMu.Unlock()

	if h.nextGameTimer != nil {
		h.nextGameTimer.Stop()
	}
	h.nextGameTimer = time.AfterFunc(timeout, func() {
		h.log.Info("wait window elapsed")
	})
}

func (h *SessionHost) stopTimers() {
	h.timersMu.Lock()
	defer h.timersMu.Unlock()

	for addr, timer := range h.reactionTimers {
		timer.Stop()
		delete(h.reactionTimers, addr)
	}
	if h.nextGameTimer != nil {
		h.nextGameTimer.Stop()
		h.nextGameTimer = nil
	}
}

// ID returns the session identifier.
func (h *SessionHost) ID() string {
	return h.id
}
