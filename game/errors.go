package game

import "errors"

var (
	// ErrUnknownParticipant indicates an event referenced an identity
	// that is not in the participant registry.
	ErrUnknownParticipant = errors.New("participant not registered")

	// ErrDecode indicates a malformed event payload, rejected before
	// any state mutation.
	ErrDecode = errors.New("malformed event payload")
)
