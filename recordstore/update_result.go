package recordstore

// UpdateResult is the outcome of a compare-and-swap update.
type UpdateResult int

const (
	updateResultUnknown UpdateResult = iota
	UpdateSuccess
	UpdateNotFound
	UpdateConcurrencyConflict
)

// Err maps the outcome to its sentinel error, nil for UpdateSuccess.
func (r UpdateResult) Err() error {
	switch r {
	case UpdateSuccess:
		return nil
	case UpdateNotFound:
		return ErrNotFound
	case UpdateConcurrencyConflict:
		return ErrConcurrencyConflict
	default:
		return ErrWritingFailed
	}
}

// String provides a string representation of UpdateResult for logging and metrics labels.
func (r UpdateResult) String() string {
	switch r {
	case UpdateSuccess:
		return "success"
	case UpdateNotFound:
		return "not_found"
	case UpdateConcurrencyConflict:
		return "concurrency_conflict"
	case updateResultUnknown:
		return "unknown"
	default:
		return "unknown"
	}
}
