package shell

import "context"

// Command represents the contract for all command types.
// CommandType names the use case in logs, metrics and spans.
type Command interface {
	CommandType() string
}

// Query represents the contract for all query types.
type Query interface {
	QueryType() string
}

// CommandHandler processes a command of type C and returns its result R.
// Implementations validate the command, run exactly one repository or lifecycle operation
// and never retry a concurrency conflict.
type CommandHandler[C Command, R any] interface {
	Handle(ctx context.Context, command C) (R, error)
}

// QueryHandler processes a query of type Q and returns its result R.
type QueryHandler[Q Query, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}

// ReportsBusinessOutcome is implemented by results that complete without error
// but still carry an outcome other than success, like deleting a movie that does not exist.
type ReportsBusinessOutcome interface {
	BusinessOutcome() string
}

// FieldValidator checks the field rules of a command before any repository is touched.
// *Validator implements it.
type FieldValidator interface {
	Validate(command any) error
}
