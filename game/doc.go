// Package game implements the deterministic state machine coordinating
// the submit/evaluate/broadcast workflow among a dynamic set of
// participants and one privileged evaluator.
//
// # Workflow
//
// Participants encrypt solutions for the evaluator's public key and
// deliver them as Submit events; ciphertexts queue up in arrival order.
// The evaluator decrypts the oldest pending submission off-band,
// derives the canonical solution key, and delivers an Evaluate event
// carrying the decrypted sender and key. A first-seen key credits the
// submitting participant with the session's fixed reward and is
// recorded in the solution ledger; the updated ledger is then fanned
// out to every participant's local cache. A key already present in
// the ledger makes the Evaluate a recognized no-op: no reward, no
// ledger mutation, no broadcast, stage reset to Waiting.
//
// # Trust model
//
// The surrounding runtime authenticates event senders and enforces
// evaluator authority before events reach this package; the state
// machine accepts already-authenticated identities. Evaluate does not
// cross-check the popped ciphertext against the decrypted payload it
// carries - a misbehaving evaluator could credit a different
// participant than the one whose ciphertext was consumed. The
// evaluator is trusted not to.
//
// # Concurrency
//
// The state machine is single-threaded and synchronous: the runtime
// must deliver events in a single total order, one at a time. Every
// transition is atomic; a failed transition leaves all owned
// collections unchanged.
package game
