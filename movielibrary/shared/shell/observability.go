package shell

import (
	"context"
	"fmt"
	"time"

	"github.com/afarhat-dev/vertical-slice-poc/recordstore"
)

const (
	// CommandHandlerDurationMetric tracks command handler execution duration.
	CommandHandlerDurationMetric = "commandhandler_handle_duration_seconds"

	// CommandHandlerCallsMetric tracks total command handler calls.
	CommandHandlerCallsMetric = "commandhandler_handle_calls_total"

	// CommandHandlerConcurrencyConflictMetric tracks commands rejected by the compare-and-swap.
	CommandHandlerConcurrencyConflictMetric = "commandhandler_concurrency_conflicts_total"

	// CommandHandlerRejectedMetric tracks commands rejected by validation or business rules.
	//
	// Labels:
	//   - command_type: e.g. "ReturnRental"
	//   - status: validation_failed, invalid_input, invalid_state_transition or not_found
	CommandHandlerRejectedMetric = "commandhandler_rejected_total"

	// CommandHandlerCanceledMetric tracks canceled command operations.
	CommandHandlerCanceledMetric = "commandhandler_canceled_operations_total"

	// CommandHandlerTimeoutMetric tracks timed out command operations.
	CommandHandlerTimeoutMetric = "commandhandler_timeout_operations_total"

	// QueryHandlerDurationMetric tracks query handler execution duration.
	QueryHandlerDurationMetric = "queryhandler_handle_duration_seconds"

	// QueryHandlerCallsMetric tracks total query handler calls.
	QueryHandlerCallsMetric = "queryhandler_handle_calls_total"

	// QueryHandlerCanceledMetric tracks canceled query operations.
	QueryHandlerCanceledMetric = "queryhandler_canceled_operations_total"

	// QueryHandlerTimeoutMetric tracks timed out query operations.
	QueryHandlerTimeoutMetric = "queryhandler_timeout_operations_total"

	StatusSuccess                = "success"
	StatusError                  = "error"
	StatusCanceled               = "canceled"
	StatusTimeout                = "timeout"
	StatusConcurrencyConflict    = "concurrency_conflict"
	StatusNotFound               = "not_found"
	StatusValidationFailed       = "validation_failed"
	StatusInvalidInput           = "invalid_input"
	StatusInvalidStateTransition = "invalid_state_transition"

	LogMsgCommandStarted   = "command handler started"
	LogMsgCommandCompleted = "command handler completed"
	LogMsgCommandRejected  = "command handler rejected command"
	LogMsgCommandFailed    = "command handler failed"
	LogMsgQueryStarted     = "query handler started"
	LogMsgQueryCompleted   = "query handler completed"
	LogMsgQueryFailed      = "query handler failed"

	LogAttrCommandType     = "command_type"
	LogAttrQueryType       = "query_type"
	LogAttrStatus          = "status"
	LogAttrDurationMS      = "duration_ms"
	LogAttrBusinessOutcome = "business_outcome"
	LogAttrError           = "error"

	SpanNameCommandHandle = "commandhandler.handle"
	SpanNameQueryHandle   = "queryhandler.handle"
)

// The handler layer reports through the same collector interfaces as the record store,
// so one set of adapters serves both.

type (
	MetricsCollector           = recordstore.MetricsCollector
	ContextualMetricsCollector = recordstore.ContextualMetricsCollector
	TracingCollector           = recordstore.TracingCollector
	SpanContext                = recordstore.SpanContext
	ContextualLogger           = recordstore.ContextualLogger
	Logger                     = recordstore.Logger
)

// BuildCommandLabels creates standard metric labels for command handler operations.
func BuildCommandLabels(commandType, status string) map[string]string {
	return map[string]string{
		LogAttrCommandType: commandType,
		LogAttrStatus:      status,
	}
}

// BuildQueryLabels creates standard metric labels for query handler operations.
func BuildQueryLabels(queryType, status string) map[string]string {
	return map[string]string{
		LogAttrQueryType: queryType,
		LogAttrStatus:    status,
	}
}

// ToMilliseconds converts a time.Duration to float64 milliseconds.
func ToMilliseconds(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}

// RecordCommandMetrics records duration and call count of a command, plus the counter
// matching its status for conflicts, rejections, cancellations and timeouts.
func RecordCommandMetrics(ctx context.Context, collector MetricsCollector, commandType, status string, duration time.Duration) {
	if collector == nil {
		return
	}

	labels := BuildCommandLabels(commandType, status)
	recordDuration(ctx, collector, CommandHandlerDurationMetric, duration, labels)
	incrementCounter(ctx, collector, CommandHandlerCallsMetric, labels)

	switch {
	case status == StatusConcurrencyConflict:
		incrementCounter(ctx, collector, CommandHandlerConcurrencyConflictMetric, labels)
	case status == StatusCanceled:
		incrementCounter(ctx, collector, CommandHandlerCanceledMetric, labels)
	case status == StatusTimeout:
		incrementCounter(ctx, collector, CommandHandlerTimeoutMetric, labels)
	case IsBusinessOutcome(status):
		incrementCounter(ctx, collector, CommandHandlerRejectedMetric, labels)
	}
}

// RecordQueryMetrics records duration and call count of a query, plus cancellations and timeouts.
func RecordQueryMetrics(ctx context.Context, collector MetricsCollector, queryType, status string, duration time.Duration) {
	if collector == nil {
		return
	}

	labels := BuildQueryLabels(queryType, status)
	recordDuration(ctx, collector, QueryHandlerDurationMetric, duration, labels)
	incrementCounter(ctx, collector, QueryHandlerCallsMetric, labels)

	switch status {
	case StatusCanceled:
		incrementCounter(ctx, collector, QueryHandlerCanceledMetric, labels)
	case StatusTimeout:
		incrementCounter(ctx, collector, QueryHandlerTimeoutMetric, labels)
	}
}

// StartCommandSpan starts a span for a command. Without a tracing collector it returns ctx and a nil span.
func StartCommandSpan(ctx context.Context, tracingCollector TracingCollector, commandType string) (context.Context, SpanContext) {
	if tracingCollector == nil {
		return ctx, nil
	}

	return tracingCollector.StartSpan(ctx, SpanNameCommandHandle, map[string]string{LogAttrCommandType: commandType})
}

// StartQuerySpan starts a span for a query. Without a tracing collector it returns ctx and a nil span.
func StartQuerySpan(ctx context.Context, tracingCollector TracingCollector, queryType string) (context.Context, SpanContext) {
	if tracingCollector == nil {
		return ctx, nil
	}

	return tracingCollector.StartSpan(ctx, SpanNameQueryHandle, map[string]string{LogAttrQueryType: queryType})
}

// FinishSpan completes a command or query span with the operation outcome.
func FinishSpan(tracingCollector TracingCollector, span SpanContext, status string, duration time.Duration, err error) {
	if tracingCollector == nil || span == nil {
		return
	}

	attrs := map[string]string{
		LogAttrStatus:     status,
		LogAttrDurationMS: formatDurationMS(duration),
	}

	if err != nil {
		attrs[LogAttrError] = err.Error()
	}

	tracingCollector.FinishSpan(span, status, attrs)
}

// LogStart logs the beginning of command or query processing. typeAttr is LogAttrCommandType or LogAttrQueryType.
func LogStart(ctx context.Context, logger Logger, contextualLogger ContextualLogger, msg, typeAttr, typeName string) {
	if contextualLogger != nil {
		contextualLogger.InfoContext(ctx, msg, typeAttr, typeName)
	} else if logger != nil {
		logger.Info(msg, typeAttr, typeName)
	}
}

// LogOutcome logs the end of command or query processing.
// Business outcomes are logged at info level, failures at error level.
func LogOutcome(
	ctx context.Context,
	logger Logger,
	contextualLogger ContextualLogger,
	msg, typeAttr, typeName, status string,
	duration time.Duration,
	err error,
) {
	args := []any{
		typeAttr, typeName,
		LogAttrBusinessOutcome, status,
		LogAttrDurationMS, ToMilliseconds(duration),
	}

	if err != nil {
		args = append(args, LogAttrError, err.Error())
	}

	failed := err != nil && !IsBusinessOutcome(status)

	switch {
	case contextualLogger != nil && failed:
		contextualLogger.ErrorContext(ctx, msg, args...)
	case contextualLogger != nil:
		contextualLogger.InfoContext(ctx, msg, args...)
	case logger != nil && failed:
		logger.Error(msg, args...)
	case logger != nil:
		logger.Info(msg, args...)
	}
}

func recordDuration(ctx context.Context, collector MetricsCollector, metric string, duration time.Duration, labels map[string]string) {
	if contextualCollector, ok := collector.(ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metric, duration, labels)
		return
	}

	collector.RecordDuration(metric, duration, labels)
}

func incrementCounter(ctx context.Context, collector MetricsCollector, metric string, labels map[string]string) {
	if contextualCollector, ok := collector.(ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metric, labels)
		return
	}

	collector.IncrementCounter(metric, labels)
}

func formatDurationMS(duration time.Duration) string {
	return fmt.Sprintf("%.2f", ToMilliseconds(duration))
}
