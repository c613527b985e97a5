package services

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/zhouhanhanhan/sciencegame/crypto"
	"github.com/zhouhanhanhan/sciencegame/game"
)

// ParticipantClient submits encrypted solutions to a session on
// behalf of one participant identity.
type ParticipantClient struct {
	client    *http.Client
	hostURL   string
	sessionID string
	addr      string
}

// NewParticipantClient creates a client for one participant identity.
func NewParticipantClient(hostURL, sessionID, addr string) *ParticipantClient {
	return &ParticipantClient{
		client:    &http.Client{Timeout: 10 * time.Second},
		hostURL:   hostURL,
		sessionID: sessionID,
		addr:      addr,
	}
}

// Config fetches the published session parameters.
func (p *ParticipantClient) Config(ctx context.Context) (*SessionConfigResponse, error) {
	url := fmt.Sprintf("%s/session/%s/config", p.hostURL, p.sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching session config: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching session config: %s", readErrorStatus(resp))
	}
	return game.DecodeMessage[SessionConfigResponse](resp.Body)
}

// Join admits this participant to the session with a starting balance.
func (p *ParticipantClient) Join(ctx context.Context, balance uint64) error {
	body, err := game.SerializeMessage(&JoinRequest{
		NewPlayers: []game.PlayerJoin{{Addr: p.addr, Balance: balance}},
	})
	if err != nil {
		return err
	}
	return p.post(ctx, "join", body)
}

// SubmitSolution encrypts a solution for the session's evaluator key
// and submits it. The plaintext leaves this process only as ciphertext.
func (p *ParticipantClient) SubmitSolution(ctx context.Context, content string) error {
	cfg, err := p.Config(ctx)
	if err != nil {
		return err
	}

	evaluatorKey, err := crypto.ParsePublicKeyPEM(cfg.EvaluatorPublicKey)
	if err != nil {
		return fmt.Errorf("parsing evaluator public key: %w", err)
	}

	ciphertext, err := crypto.Encrypt(&crypto.Message{Sender: p.addr, Content: content}, evaluatorKey)
	if err != nil {
		return err
	}

	body, err := game.SerializeMessage(&SubmitRequest{Sender: p.addr, Ciphertext: ciphertext})
	if err != nil {
		return err
	}
	return p.post(ctx, "submit", body)
}

// State fetches the full session snapshot.
func (p *ParticipantClient) State(ctx context.Context) (*game.GameSnapshot, error) {
	url := fmt.Sprintf("%s/session/%s/state", p.hostURL, p.sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching session state: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching session state: %s", readErrorStatus(resp))
	}
	return game.DecodeMessage[game.GameSnapshot](resp.Body)
}

// Balance returns this participant's balance from a fresh snapshot.
func (p *ParticipantClient) Balance(ctx context.Context) (uint64, error) {
	snapshot, err := p.State(ctx)
	if err != nil {
		return 0, err
	}
	for _, player := range snapshot.Players {
		if player.Addr == p.addr {
			return player.Balance, nil
		}
	}
	return 0, fmt.Errorf("participant %s not registered", p.addr)
}

func (p *ParticipantClient) post(ctx context.Context, action string, body []byte) error {
	url := fmt.Sprintf("%s/session/%s/%s", p.hostURL, p.sessionID, action)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting %s: %w", action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("posting %s: %s", action, readErrorStatus(resp))
	}
	return nil
}
