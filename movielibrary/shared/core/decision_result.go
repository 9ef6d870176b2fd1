package core

// DecisionResult is the outcome of a Decide function: either a new state S to persist, or the error
// explaining why the command was rejected.
//
// Construct it with SuccessDecision or ErrorDecision only.
type DecisionResult[S any] struct {
	Outcome string // "success" or "error"
	State   S      // zero value for error decisions
	Err     error
}

const (
	successOutcome = "success"
	errorOutcome   = "error"
)

// SuccessDecision creates a DecisionResult carrying the state to persist.
func SuccessDecision[S any](state S) DecisionResult[S] {
	return DecisionResult[S]{
		Outcome: successOutcome,
		State:   state,
	}
}

// ErrorDecision creates a DecisionResult rejecting the command.
func ErrorDecision[S any](err error) DecisionResult[S] {
	return DecisionResult[S]{
		Outcome: errorOutcome,
		Err:     err,
	}
}

// HasStateToPersist returns true if the decision produced a state change.
func (r DecisionResult[S]) HasStateToPersist() bool {
	return r.Outcome == successOutcome
}

// HasError returns the error if there is one, otherwise nil.
func (r DecisionResult[S]) HasError() error {
	if r.Outcome == errorOutcome {
		return r.Err
	}

	return nil
}
