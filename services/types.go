package services

import (
	"encoding/json"
	"net/http"

	"github.com/zhouhanhanhan/sciencegame/game"
)

// ServiceConfig contains configuration for the session host service.
// Fields carry env tags so deployments can configure services from the
// environment; cmd flags take precedence where both are set.
type ServiceConfig struct {
	ListenAddr     string `env:"LISTEN_ADDR" envDefault:":8080"`
	MetricsAddr    string `env:"METRICS_ADDR"`
	EnablePprof    bool   `env:"ENABLE_PPROF"`
	LogJSON        bool   `env:"LOG_JSON"`
	EnableCORS     bool   `env:"ENABLE_CORS"`
	EvaluatorToken string `env:"EVALUATOR_TOKEN"`
	AdminToken     string `env:"ADMIN_TOKEN"`

	Postgres PostgresConfig `envPrefix:"POSTGRES_"`
}

// CreateSessionRequest is the session initialization payload plus the
// initial participant list.
type CreateSessionRequest struct {
	SessionID      string            `json:"session_id"`
	AccountData    game.AccountData  `json:"account_data"`
	InitialPlayers []game.PlayerJoin `json:"initial_players"`
}

// SessionConfigResponse publishes the session parameters participants
// need to take part.
type SessionConfigResponse struct {
	SessionID          string `json:"session_id"`
	RewardAmount       uint64 `json:"reward_amount"`
	EvaluatorPublicKey string `json:"evaluator_public_key"`
}

// JoinRequest admits a batch of participants to a session.
type JoinRequest struct {
	NewPlayers []game.PlayerJoin `json:"new_players"`
}

// SubmitRequest carries an encrypted solution from a participant.
// Sender identity is taken at face value here: the surrounding
// deployment is expected to front this API with its own
// authentication and pass only verified identities through.
type SubmitRequest struct {
	Sender     string `json:"sender"`
	Ciphertext []byte `json:"ciphertext"`
}

// PendingResponse returns the oldest not-yet-evaluated ciphertext.
type PendingResponse struct {
	Ciphertext []byte     `json:"ciphertext,omitempty"`
	Pending    int        `json:"pending"`
	Stage      game.Stage `json:"stage"`
}

// EvaluateRequest carries the evaluator's decrypted verdict: the
// claiming sender and the canonical solution key.
type EvaluateRequest struct {
	Sender  string `json:"sender"`
	Content string `json:"content"`
}

// StatusResponse is the generic success/error envelope.
type StatusResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, &StatusResponse{Status: "error", Error: err.Error()})
}
