package instrument

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/afarhat-dev/vertical-slice-poc/recordstore"
)

const (
	MetricOperationDuration    = "recordstore_operation_duration_seconds"
	MetricOperations           = "recordstore_operations_total"
	MetricConcurrencyConflicts = "recordstore_concurrency_conflicts_total"
	MetricErrors               = "recordstore_errors_total"
	MetricRecordsReturned      = "recordstore_records_returned"

	StatusSuccess             = "success"
	StatusError               = "error"
	StatusNotFound            = "not_found"
	StatusConcurrencyConflict = "concurrency_conflict"

	LabelEngine    = "engine"
	LabelEntity    = "entity"
	LabelOperation = "operation"
	LabelStatus    = "status"
	LabelErrorType = "error_type"

	SpanAttrRecordID    = "record_id"
	SpanAttrRecordCount = "record_count"
	SpanAttrDurationMS  = "duration_ms"

	EntityMovie  = "movie"
	EntityRental = "rental"

	OperationGetByID = "get_by_id"
	OperationGetAll  = "get_all"
	OperationSearch  = "search"
	OperationAdd     = "add"
	OperationUpdate  = "update"
	OperationDelete  = "delete"
	OperationExists  = "exists"

	ErrorTypeBuildQuery   = "build_query_error"
	ErrorTypeQuery        = "query_error"
	ErrorTypeScan         = "scan_error"
	ErrorTypeWrite        = "write_error"
	ErrorTypeRowsAffected = "rows_affected_error"
	ErrorTypeEncode       = "encode_error"
	ErrorTypeDecode       = "decode_error"
	ErrorTypeInvalid      = "invalid_record"
	ErrorTypeDuplicate    = "duplicate_record"
	ErrorTypeCanceled     = "canceled"
	ErrorTypeTimeout      = "timeout"

	spanNamePrefix = "recordstore."

	logMsgOperation        = "recordstore operation: "
	logMsgOperationFailed  = "recordstore operation failed: "
	logMsgStatement        = "executed statement for: "
	logMsgConflictDetected = "concurrency conflict detected"
	logAttrEngine          = "engine"
	logAttrEntity          = "entity"
	logAttrRecordCount     = "record_count"
	logAttrDurationMS      = "duration_ms"
	logAttrStatement       = "statement"
	logAttrError           = "error"
	logAttrErrorType       = "error_type"
)

// Instrumentation bundles the optional collectors configured on a storage engine.
type Instrumentation struct {
	Engine           string
	Logger           recordstore.Logger
	ContextualLogger recordstore.ContextualLogger
	Metrics          recordstore.MetricsCollector
	Tracing          recordstore.TracingCollector
}

// Observation tracks one repository operation from start to finish.
type Observation struct {
	in        *Instrumentation
	ctx       context.Context
	span      recordstore.SpanContext
	entity    string
	operation string
	start     time.Time
}

// Start opens a span and starts the clock for an operation.
// The returned context carries the span and must be used for the underlying I/O.
func (in *Instrumentation) Start(ctx context.Context, entity, operation string) (*Observation, context.Context) {
	obs := &Observation{
		in:        in,
		entity:    entity,
		operation: operation,
		start:     time.Now(),
	}

	if in.Tracing != nil {
		ctx, obs.span = in.Tracing.StartSpan(ctx, spanNamePrefix+entity+"."+operation, map[string]string{
			LabelEngine:    in.Engine,
			LabelEntity:    entity,
			LabelOperation: operation,
		})
	}

	obs.ctx = ctx

	return obs, ctx
}

// WithRecordID adds the record id to the span.
func (o *Observation) WithRecordID(id fmt.Stringer) *Observation {
	if o.span != nil {
		o.span.AddAttribute(SpanAttrRecordID, id.String())
	}

	return o
}

// Success finishes a successful operation. recordCount < 0 means the operation doesn't return records.
func (o *Observation) Success(recordCount int) {
	duration := time.Since(o.start)

	o.recordDuration(StatusSuccess, duration)
	o.incrementCounter(MetricOperations, o.labels(StatusSuccess))

	attrs := map[string]string{SpanAttrDurationMS: formatMS(duration)}
	args := []any{logAttrEngine, o.in.Engine, logAttrEntity, o.entity, logAttrDurationMS, ToMilliseconds(duration)}

	if recordCount >= 0 {
		o.recordValue(MetricRecordsReturned, float64(recordCount), o.labels(StatusSuccess))
		attrs[SpanAttrRecordCount] = fmt.Sprintf("%d", recordCount)
		args = append(args, logAttrRecordCount, recordCount)
	}

	o.finishSpan(StatusSuccess, attrs)
	o.logInfo(logMsgOperation+o.operation, args...)
}

// NotFound finishes an operation whose target record does not exist. It is not an error.
func (o *Observation) NotFound() {
	duration := time.Since(o.start)

	o.recordDuration(StatusNotFound, duration)
	o.incrementCounter(MetricOperations, o.labels(StatusNotFound))
	o.finishSpan(StatusNotFound, map[string]string{SpanAttrDurationMS: formatMS(duration)})
	o.logInfo(
		logMsgOperation+o.operation,
		logAttrEngine, o.in.Engine,
		logAttrEntity, o.entity,
		logAttrDurationMS, ToMilliseconds(duration),
		LabelStatus, StatusNotFound,
	)
}

// Conflict finishes an update that lost the compare-and-swap.
func (o *Observation) Conflict() {
	duration := time.Since(o.start)

	o.recordDuration(StatusConcurrencyConflict, duration)
	o.incrementCounter(MetricOperations, o.labels(StatusConcurrencyConflict))
	o.incrementCounter(MetricConcurrencyConflicts, map[string]string{
		LabelEngine:    o.in.Engine,
		LabelEntity:    o.entity,
		LabelOperation: o.operation,
	})
	o.finishSpan(StatusConcurrencyConflict, map[string]string{SpanAttrDurationMS: formatMS(duration)})
	o.logInfo(
		logMsgConflictDetected,
		logAttrEngine, o.in.Engine,
		logAttrEntity, o.entity,
		logAttrDurationMS, ToMilliseconds(duration),
	)
}

// Failure finishes an operation that failed with an infrastructure or invariant error.
func (o *Observation) Failure(err error, errorType string) {
	duration := time.Since(o.start)

	switch {
	case errors.Is(err, context.Canceled) || errors.Is(o.ctx.Err(), context.Canceled):
		errorType = ErrorTypeCanceled
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(o.ctx.Err(), context.DeadlineExceeded):
		errorType = ErrorTypeTimeout
	}

	labels := o.labels(StatusError)
	o.recordDuration(StatusError, duration)
	o.incrementCounter(MetricOperations, labels)

	labels[LabelErrorType] = errorType
	o.incrementCounter(MetricErrors, labels)

	o.finishSpan(StatusError, map[string]string{
		SpanAttrDurationMS: formatMS(duration),
		LabelErrorType:     errorType,
	})

	args := []any{
		logAttrError, err.Error(),
		logAttrErrorType, errorType,
		logAttrEngine, o.in.Engine,
		logAttrEntity, o.entity,
	}

	if o.in.Logger != nil {
		o.in.Logger.Error(logMsgOperationFailed+o.operation, args...)
	}

	if o.in.ContextualLogger != nil {
		o.in.ContextualLogger.ErrorContext(o.ctx, logMsgOperationFailed+o.operation, args...)
	}
}

// LogStatement logs an executed statement with its duration at debug level.
func (in *Instrumentation) LogStatement(ctx context.Context, statement string, action string, duration time.Duration) {
	if in.Logger != nil {
		in.Logger.Debug(logMsgStatement+action, logAttrDurationMS, ToMilliseconds(duration), logAttrStatement, statement)
	}

	if in.ContextualLogger != nil {
		in.ContextualLogger.DebugContext(ctx, logMsgStatement+action, logAttrDurationMS, ToMilliseconds(duration), logAttrStatement, statement)
	}
}

// LogWarning logs a non-critical failure such as a failed cleanup.
func (in *Instrumentation) LogWarning(ctx context.Context, message string, err error) {
	if in.Logger != nil {
		in.Logger.Warn(message, logAttrError, err.Error())
	}

	if in.ContextualLogger != nil {
		in.ContextualLogger.WarnContext(ctx, message, logAttrError, err.Error())
	}
}

// ToMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func ToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

func formatMS(d time.Duration) string {
	return fmt.Sprintf("%.2f", ToMilliseconds(d))
}

func (o *Observation) labels(status string) map[string]string {
	return map[string]string{
		LabelEngine:    o.in.Engine,
		LabelEntity:    o.entity,
		LabelOperation: o.operation,
		LabelStatus:    status,
	}
}

func (o *Observation) recordDuration(status string, duration time.Duration) {
	if o.in.Metrics == nil {
		return
	}

	if contextualCollector, ok := o.in.Metrics.(recordstore.ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(o.ctx, MetricOperationDuration, duration, o.labels(status))
	} else {
		o.in.Metrics.RecordDuration(MetricOperationDuration, duration, o.labels(status))
	}
}

func (o *Observation) incrementCounter(metric string, labels map[string]string) {
	if o.in.Metrics == nil {
		return
	}

	if contextualCollector, ok := o.in.Metrics.(recordstore.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(o.ctx, metric, labels)
	} else {
		o.in.Metrics.IncrementCounter(metric, labels)
	}
}

func (o *Observation) recordValue(metric string, value float64, labels map[string]string) {
	if o.in.Metrics == nil {
		return
	}

	if contextualCollector, ok := o.in.Metrics.(recordstore.ContextualMetricsCollector); ok {
		contextualCollector.RecordValueContext(o.ctx, metric, value, labels)
	} else {
		o.in.Metrics.RecordValue(metric, value, labels)
	}
}

func (o *Observation) finishSpan(status string, attrs map[string]string) {
	if o.in.Tracing == nil || o.span == nil {
		return
	}

	o.span.SetStatus(status)
	o.in.Tracing.FinishSpan(o.span, status, attrs)
}

func (o *Observation) logInfo(msg string, args ...any) {
	if o.in.Logger != nil {
		o.in.Logger.Info(msg, args...)
	}

	if o.in.ContextualLogger != nil {
		o.in.ContextualLogger.InfoContext(o.ctx, msg, args...)
	}
}
