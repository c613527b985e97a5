/*
Package services provides the runtime surrounding the game state
machine: HTTP APIs, event ordering, timers and persistence.

The game package assumes an external runtime that authenticates event
senders, delivers events in a single total order, schedules timers and
persists the live session. This package is that runtime.

# Components

  - SessionHost: owns one game.Game and serializes all event delivery
    through a single dispatch goroutine, giving the core the total
    order it relies on. Implements game.Effect with real timers and
    checkpoints the session through a Store after every applied event.

  - SessionRegistry: creates, restores and looks up session hosts.

  - HostService: the chi HTTP surface over the registry and its hosts.
    Evaluator authority is a bearer capability checked here, before an
    Evaluate action reaches the core.

  - EvaluatorService: the privileged reader. Holds the session's RSA
    private key, pulls the oldest pending ciphertext, decrypts it,
    derives the canonical solution key and posts the Evaluate action.

  - ParticipantClient: encrypts solutions for the evaluator key
    published in the session config and submits them.

  - Store: session persistence. MemoryStore for tests and single-node
    runs, PostgresStore for deployments.

# HTTP API

	POST /session                    create a session (admin)
	GET  /session/{id}/config        reward amount and evaluator public key
	POST /session/{id}/join          admit participants (join/sync)
	POST /session/{id}/submit        submit an encrypted solution
	GET  /session/{id}/pending       oldest pending ciphertext (evaluator)
	POST /session/{id}/evaluate      apply an evaluation verdict (evaluator)
	GET  /session/{id}/state         full session snapshot
*/
package services
