package recordstore

import "context"

// ConsistencyLevel defines the consistency requirements for read operations.
type ConsistencyLevel int

const (
	// StrongConsistency reads from the primary database. This is the default, so a handler
	// that loads a record and then updates it with the loaded token sees its own writes.
	StrongConsistency ConsistencyLevel = iota

	// EventualConsistency allows reads from a replica database, if the engine has one.
	// Suitable for pure query handlers that can tolerate slightly stale data.
	EventualConsistency
)

type contextKey string

// ConsistencyLevelKey is the context key used to store consistency level preferences.
const ConsistencyLevelKey contextKey = "recordstore.consistency_level"

// WithStrongConsistency returns a context that routes reads to the primary database.
//
// Example usage:
//
//	ctx = recordstore.WithStrongConsistency(ctx)
//	rental, err := store.Rentals().GetByID(ctx, id)
func WithStrongConsistency(ctx context.Context) context.Context {
	return context.WithValue(ctx, ConsistencyLevelKey, StrongConsistency)
}

// WithEventualConsistency returns a context that allows reads from a replica database.
//
// Example usage:
//
//	ctx = recordstore.WithEventualConsistency(ctx)
//	movies, err := store.Movies().GetAll(ctx)
func WithEventualConsistency(ctx context.Context) context.Context {
	return context.WithValue(ctx, ConsistencyLevelKey, EventualConsistency)
}

// GetConsistencyLevel extracts the consistency level from the context, StrongConsistency if none is set.
func GetConsistencyLevel(ctx context.Context) ConsistencyLevel {
	if level, ok := ctx.Value(ConsistencyLevelKey).(ConsistencyLevel); ok {
		return level
	}

	return StrongConsistency
}

// String provides a string representation of ConsistencyLevel for logging and debugging.
func (c ConsistencyLevel) String() string {
	switch c {
	case StrongConsistency:
		return "strong"
	case EventualConsistency:
		return "eventual"
	default:
		return "unknown"
	}
}
