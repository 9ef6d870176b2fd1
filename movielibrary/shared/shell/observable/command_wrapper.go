package observable

import (
	"context"
	"time"

	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/shared/shell"
)

// CommandWrapper adds metrics, tracing and logging to any command handler.
// It never retries: a concurrency conflict reaches the caller exactly as the core handler returned it.
type CommandWrapper[C shell.Command, R any] struct {
	coreHandler      shell.CommandHandler[C, R]
	commandType      string
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
	contextualLogger shell.ContextualLogger
	logger           shell.Logger
	clock            func() time.Time
}

// NewCommandWrapper creates a new observable wrapper around the core command handler.
func NewCommandWrapper[C shell.Command, R any](
	coreHandler shell.CommandHandler[C, R],
	opts ...CommandOption[C, R],
) (*CommandWrapper[C, R], error) {
	// The command type is a constant of the command, so a zero value is enough to read it.
	var zeroCommand C

	wrapper := &CommandWrapper[C, R]{
		coreHandler: coreHandler,
		commandType: zeroCommand.CommandType(),
		clock:       time.Now,
	}

	for _, opt := range opts {
		if err := opt(wrapper); err != nil {
			return nil, err
		}
	}

	return wrapper, nil
}

// Handle delegates to the core handler and records the outcome.
//
// Errors are classified into success, the business outcomes (not_found, validation_failed,
// invalid_input, invalid_state_transition, concurrency_conflict) and the technical ones
// (canceled, timeout, error). Results implementing shell.ReportsBusinessOutcome override
// the success status.
func (w *CommandWrapper[C, R]) Handle(ctx context.Context, command C) (R, error) {
	start := w.clock()
	ctx, span := shell.StartCommandSpan(ctx, w.tracingCollector, w.commandType)
	shell.LogStart(ctx, w.logger, w.contextualLogger, shell.LogMsgCommandStarted, shell.LogAttrCommandType, w.commandType)

	result, err := w.coreHandler.Handle(ctx, command)

	status := shell.ClassifyError(err)
	if err == nil {
		if reporter, ok := any(result).(shell.ReportsBusinessOutcome); ok {
			status = reporter.BusinessOutcome()
		}
	}

	duration := w.clock().Sub(start)
	shell.RecordCommandMetrics(ctx, w.metricsCollector, w.commandType, status, duration)
	shell.FinishSpan(w.tracingCollector, span, status, duration, err)
	shell.LogOutcome(ctx, w.logger, w.contextualLogger, commandLogMessage(status, err), shell.LogAttrCommandType, w.commandType, status, duration, err)

	return result, err
}

func commandLogMessage(status string, err error) string {
	switch {
	case err == nil:
		return shell.LogMsgCommandCompleted
	case shell.IsBusinessOutcome(status):
		return shell.LogMsgCommandRejected
	default:
		return shell.LogMsgCommandFailed
	}
}

// CommandOption defines a functional option for configuring CommandWrapper.
type CommandOption[C shell.Command, R any] func(*CommandWrapper[C, R]) error

// WithCommandMetrics sets the metrics collector for the CommandWrapper.
func WithCommandMetrics[C shell.Command, R any](collector shell.MetricsCollector) CommandOption[C, R] {
	return func(w *CommandWrapper[C, R]) error {
		w.metricsCollector = collector
		return nil
	}
}

// WithCommandTracing sets the tracing collector for the CommandWrapper.
func WithCommandTracing[C shell.Command, R any](collector shell.TracingCollector) CommandOption[C, R] {
	return func(w *CommandWrapper[C, R]) error {
		w.tracingCollector = collector
		return nil
	}
}

// WithCommandContextualLogging sets the contextual logger for the CommandWrapper.
func WithCommandContextualLogging[C shell.Command, R any](logger shell.ContextualLogger) CommandOption[C, R] {
	return func(w *CommandWrapper[C, R]) error {
		w.contextualLogger = logger
		return nil
	}
}

// WithCommandLogging sets the basic logger for the CommandWrapper.
func WithCommandLogging[C shell.Command, R any](logger shell.Logger) CommandOption[C, R] {
	return func(w *CommandWrapper[C, R]) error {
		w.logger = logger
		return nil
	}
}

// WithCommandClock replaces time.Now for duration measurement.
func WithCommandClock[C shell.Command, R any](clock func() time.Time) CommandOption[C, R] {
	return func(w *CommandWrapper[C, R]) error {
		if clock == nil {
			return ErrNilClock
		}

		w.clock = clock
		return nil
	}
}
