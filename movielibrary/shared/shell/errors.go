package shell

import (
	"context"
	"errors"

	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/shared/core"
	"github.com/afarhat-dev/vertical-slice-poc/recordstore"
)

// IsNotFoundError checks if an error is due to a missing record.
func IsNotFoundError(err error) bool {
	return errors.Is(err, recordstore.ErrNotFound)
}

// IsConcurrencyConflictError checks if an error is due to optimistic concurrency control failure.
func IsConcurrencyConflictError(err error) bool {
	return errors.Is(err, recordstore.ErrConcurrencyConflict)
}

// IsInvalidInputError checks if an error is due to a business rule violation.
func IsInvalidInputError(err error) bool {
	return errors.Is(err, core.ErrInvalidInput)
}

// IsInvalidStateTransitionError checks if an error is due to a forbidden lifecycle transition.
func IsInvalidStateTransitionError(err error) bool {
	return errors.Is(err, core.ErrInvalidStateTransition)
}

// IsValidationError checks if an error is due to invalid command fields.
func IsValidationError(err error) bool {
	return errors.Is(err, core.ErrValidationFailed)
}

// IsCancellationError checks if an error is due to context cancellation.
func IsCancellationError(err error) bool {
	return errors.Is(err, context.Canceled)
}

// IsTimeoutError checks if an error is due to context deadline exceeded.
func IsTimeoutError(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

// ClassifyError maps an error to the status used in metrics, spans and logs.
func ClassifyError(err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case IsCancellationError(err):
		return StatusCanceled
	case IsTimeoutError(err):
		return StatusTimeout
	case IsConcurrencyConflictError(err):
		return StatusConcurrencyConflict
	case IsNotFoundError(err):
		return StatusNotFound
	case IsValidationError(err):
		return StatusValidationFailed
	case IsInvalidInputError(err):
		return StatusInvalidInput
	case IsInvalidStateTransitionError(err):
		return StatusInvalidStateTransition
	default:
		return StatusError
	}
}

// IsBusinessOutcome reports whether status describes a rejected command rather than a failure of the system.
func IsBusinessOutcome(status string) bool {
	switch status {
	case StatusNotFound, StatusConcurrencyConflict, StatusValidationFailed, StatusInvalidInput, StatusInvalidStateTransition:
		return true
	default:
		return false
	}
}
