package game

import "time"

// Effect is the state machine's interface to the runtime's timer
// scheduling. The firing semantics and consumer of armed timers are
// the runtime's responsibility; the core only arms them.
type Effect interface {
	// ActionTimeout arms a bounded reaction window associated with a
	// participant identity.
	ActionTimeout(addr string, timeout time.Duration)

	// WaitTimeout arms a general wait window not tied to a participant.
	WaitTimeout(timeout time.Duration)
}
