package services

import (
	"bytes"
	"context"
	"crypto/rsa"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/zhouhanhanhan/sciencegame/crypto"
	"github.com/zhouhanhanhan/sciencegame/game"
	"github.com/zhouhanhanhan/sciencegame/metrics"
)

// DefaultPollInterval is how often the evaluator checks for pending
// submissions when none are available.
const DefaultPollInterval = 2 * time.Second

// EvaluatorService is the privileged reader. It holds the session's
// RSA private key, pulls pending ciphertexts from the host, decrypts
// them, derives the canonical solution key and posts the verdict back.
//
// TODO: surface undecryptable submissions to the operator instead of
// stalling the queue.
type EvaluatorService struct {
	log          *slog.Logger
	client       *http.Client
	hostURL      string
	sessionID    string
	token        string
	privateKey   *rsa.PrivateKey
	pollInterval time.Duration
}

// NewEvaluatorService creates an evaluator against the host at hostURL
// for one session.
func NewEvaluatorService(hostURL, sessionID, token string, key *rsa.PrivateKey, log *slog.Logger) *EvaluatorService {
	return &EvaluatorService{
		log:          log.With("session", sessionID),
		client:       &http.Client{Timeout: 10 * time.Second},
		hostURL:      hostURL,
		sessionID:    sessionID,
		token:        token,
		privateKey:   key,
		pollInterval: DefaultPollInterval,
	}
}

// SetPollInterval overrides the idle poll interval.
func (e *EvaluatorService) SetPollInterval(d time.Duration) {
	if d > 0 {
		e.pollInterval = d
	}
}

// EvaluateOnce pulls the oldest pending submission, if any, and
// applies its verdict. Returns whether a submission was evaluated.
func (e *EvaluatorService) EvaluateOnce(ctx context.Context) (bool, error) {
	pending, err := e.fetchPending(ctx)
	if err != nil {
		return false, err
	}
	if len(pending.Ciphertext) == 0 {
		return false, nil
	}

	msg, err := crypto.Decrypt(pending.Ciphertext, e.privateKey)
	if err != nil {
		return false, fmt.Errorf("decrypting submission: %w", err)
	}

	key := crypto.SolutionKey(msg.Content)
	e.log.Info("evaluating submission", "sender", msg.Sender, "key", key)

	if err := e.postEvaluate(ctx, msg.Sender, key); err != nil {
		metrics.IncEvaluationsFailed()
		return false, err
	}
	return true, nil
}

// Run evaluates pending submissions until the context is canceled,
// draining the queue as fast as verdicts are accepted and polling when
// it is empty.
func (e *EvaluatorService) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.pollInterval)
	defer ticker.Stop()

	for {
		evaluated, err := e.EvaluateOnce(ctx)
		if err != nil {
			e.log.Error("evaluation failed", "err", err)
		}
		if evaluated {
			// More may be queued behind it.
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (e *EvaluatorService) fetchPending(ctx context.Context) (*PendingResponse, error) {
	url := fmt.Sprintf("%s/session/%s/pending", e.hostURL, e.sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	e.authorize(req)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching pending submission: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching pending submission: %s", readErrorStatus(resp))
	}
	return game.DecodeMessage[PendingResponse](resp.Body)
}

func (e *EvaluatorService) postEvaluate(ctx context.Context, sender, content string) error {
	body, err := game.SerializeMessage(&EvaluateRequest{Sender: sender, Content: content})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/session/%s/evaluate", e.hostURL, e.sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	e.authorize(req)

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting verdict: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("posting verdict: %s", readErrorStatus(resp))
	}
	return nil
}

func (e *EvaluatorService) authorize(req *http.Request) {
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
}

func readErrorStatus(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if err != nil || len(body) == 0 {
		return resp.Status
	}
	return fmt.Sprintf("%s: %s", resp.Status, body)
}
