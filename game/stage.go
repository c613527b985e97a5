package game

// Stage is a coarse liveness signal tracking whether the most recent
// submission has been picked up for evaluation. Per-submission state
// lives in the SubmissionQueue, not here.
type Stage int

const (
	StageWaiting Stage = iota
	StageSubmitted
	StageEvaluated
)

func (s Stage) String() string {
	switch s {
	case StageWaiting:
		return "waiting"
	case StageSubmitted:
		return "submitted"
	case StageEvaluated:
		return "evaluated"
	default:
		return "unknown"
	}
}
