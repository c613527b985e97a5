package services

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouhanhanhan/sciencegame/game"
	"github.com/zhouhanhanhan/sciencegame/testutil"
)

type hostFixture struct {
	server   *httptest.Server
	registry *SessionRegistry
	pubPEM   string
}

func newHostFixture(t *testing.T, cfg *ServiceConfig) *hostFixture {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	_, pub := testutil.GenerateTestKeyPair()
	registry := NewSessionRegistry(ctx, NewMemoryStore(), slog.Default())
	svc := NewHostService(cfg, registry, slog.Default())

	router := chi.NewRouter()
	svc.RegisterRoutes(router)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	f := &hostFixture{
		server:   server,
		registry: registry,
		pubPEM:   testutil.MustEncodePublicKeyPEM(pub),
	}
	_, err := registry.CreateSession(ctx, &CreateSessionRequest{
		SessionID: "s1",
		AccountData: game.AccountData{
			RewardAmount:       10,
			EvaluatorPublicKey: f.pubPEM,
		},
		InitialPlayers: []game.PlayerJoin{{Addr: "alice", Balance: 0}},
	})
	require.NoError(t, err)
	return f
}

func (f *hostFixture) postJSON(t *testing.T, path string, body any, token string) *http.Response {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, f.server.URL+path, bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := f.server.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func TestHostServiceSessionConfig(t *testing.T) {
	f := newHostFixture(t, &ServiceConfig{})

	resp, err := http.Get(f.server.URL + "/session/s1/config")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cfg, err := game.DecodeMessage[SessionConfigResponse](resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "s1", cfg.SessionID)
	assert.Equal(t, uint64(10), cfg.RewardAmount)
	assert.Equal(t, f.pubPEM, cfg.EvaluatorPublicKey)
}

func TestHostServiceSessionNotFound(t *testing.T) {
	f := newHostFixture(t, &ServiceConfig{})

	resp, err := http.Get(f.server.URL + "/session/nope/config")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHostServiceSubmitAndState(t *testing.T) {
	f := newHostFixture(t, &ServiceConfig{})

	resp := f.postJSON(t, "/session/s1/submit", &SubmitRequest{
		Sender:     "alice",
		Ciphertext: []byte("opaque"),
	}, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	stateResp, err := http.Get(f.server.URL + "/session/s1/state")
	require.NoError(t, err)
	defer stateResp.Body.Close()

	snapshot, err := game.DecodeMessage[game.GameSnapshot](stateResp.Body)
	require.NoError(t, err)
	assert.Equal(t, game.StageSubmitted, snapshot.Stage)
	require.Len(t, snapshot.Pending, 1)
	assert.Equal(t, []byte("opaque"), snapshot.Pending[0])
}

func TestHostServiceSubmitUnknownSender(t *testing.T) {
	f := newHostFixture(t, &ServiceConfig{})

	resp := f.postJSON(t, "/session/s1/submit", &SubmitRequest{
		Sender:     "mallory",
		Ciphertext: []byte("opaque"),
	}, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestHostServiceJoin(t *testing.T) {
	f := newHostFixture(t, &ServiceConfig{})

	resp := f.postJSON(t, "/session/s1/join", &JoinRequest{
		NewPlayers: []game.PlayerJoin{{Addr: "carol", Balance: 5}},
	}, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	host, ok := f.registry.Session("s1")
	require.True(t, ok)

	snapshot, err := host.State(context.Background())
	require.NoError(t, err)
	require.Len(t, snapshot.Players, 2)
	assert.Equal(t, "carol", snapshot.Players[1].Addr)
}

func TestHostServiceEvaluatorTokenRequired(t *testing.T) {
	f := newHostFixture(t, &ServiceConfig{EvaluatorToken: "secret"})

	resp, err := http.Get(f.server.URL + "/session/s1/pending")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, err := http.NewRequest(http.MethodGet, f.server.URL+"/session/s1/pending", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer secret")

	authed, err := f.server.Client().Do(req)
	require.NoError(t, err)
	defer authed.Body.Close()
	require.Equal(t, http.StatusOK, authed.StatusCode)
}

func TestHostServiceAdminTokenGatesCreate(t *testing.T) {
	f := newHostFixture(t, &ServiceConfig{AdminToken: "admin-secret"})

	req := &CreateSessionRequest{
		SessionID: "s2",
		AccountData: game.AccountData{
			RewardAmount:       1,
			EvaluatorPublicKey: f.pubPEM,
		},
	}

	denied := f.postJSON(t, "/session", req, "")
	defer denied.Body.Close()
	require.Equal(t, http.StatusUnauthorized, denied.StatusCode)

	created := f.postJSON(t, "/session", req, "admin-secret")
	defer created.Body.Close()
	require.Equal(t, http.StatusCreated, created.StatusCode)

	duplicate := f.postJSON(t, "/session", req, "admin-secret")
	defer duplicate.Body.Close()
	require.Equal(t, http.StatusConflict, duplicate.StatusCode)
}

func TestHostServicePendingReportsHead(t *testing.T) {
	f := newHostFixture(t, &ServiceConfig{})

	first := f.postJSON(t, "/session/s1/submit", &SubmitRequest{Sender: "alice", Ciphertext: []byte("first")}, "")
	first.Body.Close()
	second := f.postJSON(t, "/session/s1/submit", &SubmitRequest{Sender: "alice", Ciphertext: []byte("second")}, "")
	second.Body.Close()

	resp, err := http.Get(f.server.URL + "/session/s1/pending")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	pending, err := game.DecodeMessage[PendingResponse](resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 2, pending.Pending)
	assert.Equal(t, []byte("first"), pending.Ciphertext)
}
