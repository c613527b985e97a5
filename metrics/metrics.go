// Package metrics exposes Prometheus-compatible counters for the
// submission/evaluation workflow and a standalone metrics server.
package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/VictoriaMetrics/metrics"
)

var (
	submissionsTotal         = metrics.NewCounter("sciencegame_submissions_total")
	evaluationsAcceptedTotal = metrics.NewCounter("sciencegame_evaluations_accepted_total")
	evaluationsDuplicateTotal = metrics.NewCounter("sciencegame_evaluations_duplicate_total")
	evaluationsFailedTotal   = metrics.NewCounter("sciencegame_evaluations_failed_total")
	rewardsPaidTotal         = metrics.NewCounter("sciencegame_rewards_paid_total")
	participantsJoinedTotal  = metrics.NewCounter("sciencegame_participants_joined_total")
	reactionWindowsArmed     = metrics.NewCounter("sciencegame_reaction_windows_armed_total")
)

// IncSubmissions records an accepted Submit action.
func IncSubmissions() { submissionsTotal.Inc() }

// IncEvaluationsAccepted records a non-duplicate Evaluate.
func IncEvaluationsAccepted() { evaluationsAcceptedTotal.Inc() }

// IncEvaluationsDuplicate records a duplicate-result no-op Evaluate.
func IncEvaluationsDuplicate() { evaluationsDuplicateTotal.Inc() }

// IncEvaluationsFailed records an Evaluate aborted with an error.
func IncEvaluationsFailed() { evaluationsFailedTotal.Inc() }

// AddRewardsPaid records reward credits paid out.
func AddRewardsPaid(amount uint64) { rewardsPaidTotal.AddInt64(int64(amount)) }

// AddParticipantsJoined records participants admitted via join/sync.
func AddParticipantsJoined(n int) { participantsJoinedTotal.AddInt64(int64(n)) }

// IncReactionWindowsArmed records reaction windows armed after accepted evaluations.
func IncReactionWindowsArmed() { reactionWindowsArmed.Inc() }

// MetricsServer serves the Prometheus exposition endpoint.
type MetricsServer struct {
	srv *http.Server
}

// New creates a metrics server for the given service name and listen address.
func New(name, addr string) (*MetricsServer, error) {
	metrics.GetOrCreateGauge(fmt.Sprintf(`up{service=%q}`, name), func() float64 { return 1 })

	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w, true)
	})

	return &MetricsServer{
		srv: &http.Server{Addr: addr, Handler: mux},
	}, nil
}

// ListenAndServe starts the metrics HTTP server.
func (s *MetricsServer) ListenAndServe() error {
	return s.srv.ListenAndServe()
}

// Shutdown gracefully stops the metrics server.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
