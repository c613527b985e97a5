package game

import (
	"encoding/json"
	"fmt"

	"github.com/zhouhanhanhan/sciencegame/crypto"
)

// Event is the closed union of domain actions delivered to the state
// machine by the runtime.
type Event interface {
	isEvent()
	eventType() string
}

// SubmitEvent carries an encrypted solution. The state machine never
// inspects the ciphertext.
type SubmitEvent struct {
	Ciphertext []byte `json:"ciphertext"`
}

// EvaluateEvent carries the evaluator's already-decrypted message:
// the claiming sender and the canonical solution key.
type EvaluateEvent struct {
	Message crypto.Message `json:"message"`
}

// SyncEvent carries a batch of newly admitted participants.
type SyncEvent struct {
	NewPlayers []PlayerJoin `json:"new_players"`
}

func (SubmitEvent) isEvent()   {}
func (EvaluateEvent) isEvent() {}
func (SyncEvent) isEvent()     {}

const (
	eventTypeSubmit   = "submit"
	eventTypeEvaluate = "evaluate"
	eventTypeSync     = "sync"
)

func (SubmitEvent) eventType() string   { return eventTypeSubmit }
func (EvaluateEvent) eventType() string { return eventTypeEvaluate }
func (SyncEvent) eventType() string     { return eventTypeSync }

// eventEnvelope is the tagged wire form of an Event.
type eventEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// EncodeEvent serializes an event to its tagged JSON envelope.
func EncodeEvent(ev Event) ([]byte, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return json.Marshal(&eventEnvelope{Type: ev.eventType(), Payload: payload})
}

// DecodeEvent deserializes an event from its tagged JSON envelope.
// Malformed payloads and unknown tags fail with ErrDecode before any
// state is touched.
func DecodeEvent(data []byte) (Event, error) {
	var env eventEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	switch env.Type {
	case eventTypeSubmit:
		var ev SubmitEvent
		if err := json.Unmarshal(env.Payload, &ev); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		return &ev, nil
	case eventTypeEvaluate:
		var ev EvaluateEvent
		if err := json.Unmarshal(env.Payload, &ev); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		return &ev, nil
	case eventTypeSync:
		var ev SyncEvent
		if err := json.Unmarshal(env.Payload, &ev); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		return &ev, nil
	default:
		return nil, fmt.Errorf("%w: unknown event type %q", ErrDecode, env.Type)
	}
}
