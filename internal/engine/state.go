package engine

// CycleState is the explicit state of one classification cycle. It replaces
// the scattered uploading/predicting/success flags of earlier revisions,
// which could desynchronize.
type CycleState int

// Cycle states. A cycle runs Idle -> Uploading -> Classifying -> Ranking ->
// Displaying -> Idle; failures return straight to Idle. The Uploading state
// is skipped when the classifier scores local bytes.
const (
	StateIdle CycleState = iota
	StateUploading
	StateClassifying
	StateRanking
	StateDisplaying
)

// String returns a readable name for the state.
func (s CycleState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateUploading:
		return "uploading"
	case StateClassifying:
		return "classifying"
	case StateRanking:
		return "ranking"
	case StateDisplaying:
		return "displaying"
	default:
		return "unknown"
	}
}

// Predicting reports whether a predicting indicator should be shown.
func (s CycleState) Predicting() bool {
	return s == StateClassifying
}

// InFlight reports whether a cycle is between Idle states.
func (s CycleState) InFlight() bool {
	return s != StateIdle
}

// StateListener is notified on every cycle state transition. Listeners run
// on the cycle's goroutine and must return quickly.
type StateListener func(CycleState)
