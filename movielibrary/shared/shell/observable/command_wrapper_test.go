package observable_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/shared/core"
	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/shared/shell"
	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/shared/shell/observable"
	"github.com/afarhat-dev/vertical-slice-poc/recordstore"
	. "github.com/afarhat-dev/vertical-slice-poc/testutil/recordstore/helper" //nolint:revive
)

const testCommandType = "TestCommand"

type testCommand struct{}

func (testCommand) CommandType() string { return testCommandType }

type testResult struct {
	outcome string
}

func (r testResult) BusinessOutcome() string { return r.outcome }

type stubCommandHandler struct {
	result testResult
	err    error
	calls  int
}

func (h *stubCommandHandler) Handle(_ context.Context, _ testCommand) (testResult, error) {
	h.calls++
	return h.result, h.err
}

func Test_CommandWrapper_Handle_ClassifiesOutcomes(t *testing.T) {
	testCases := []struct {
		name           string
		result         testResult
		err            error
		expectedStatus string
		extraCounter   string
	}{
		{name: "success", result: testResult{outcome: shell.StatusSuccess}, expectedStatus: shell.StatusSuccess},
		{name: "business outcome from result", result: testResult{outcome: shell.StatusNotFound}, expectedStatus: shell.StatusNotFound, extraCounter: shell.CommandHandlerRejectedMetric},
		{name: "concurrency conflict", err: errors.Join(recordstore.ErrConcurrencyConflict, errors.New("stale")), expectedStatus: shell.StatusConcurrencyConflict, extraCounter: shell.CommandHandlerConcurrencyConflictMetric},
		{name: "not found", err: recordstore.ErrNotFound, expectedStatus: shell.StatusNotFound, extraCounter: shell.CommandHandlerRejectedMetric},
		{name: "validation", err: core.ValidationErrors{{Field: "title", Message: "Title is required"}}, expectedStatus: shell.StatusValidationFailed, extraCounter: shell.CommandHandlerRejectedMetric},
		{name: "invalid input", err: core.ErrInvalidInput, expectedStatus: shell.StatusInvalidInput, extraCounter: shell.CommandHandlerRejectedMetric},
		{name: "invalid state transition", err: core.ErrInvalidStateTransition, expectedStatus: shell.StatusInvalidStateTransition, extraCounter: shell.CommandHandlerRejectedMetric},
		{name: "canceled", err: context.Canceled, expectedStatus: shell.StatusCanceled, extraCounter: shell.CommandHandlerCanceledMetric},
		{name: "timeout", err: context.DeadlineExceeded, expectedStatus: shell.StatusTimeout, extraCounter: shell.CommandHandlerTimeoutMetric},
		{name: "technical error", err: errors.New("disk on fire"), expectedStatus: shell.StatusError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			metricsSpy := NewMetricsCollectorSpy(true)
			tracingSpy := NewTracingCollectorSpy(true)
			handler := &stubCommandHandler{result: tc.result, err: tc.err}

			wrapper, err := observable.NewCommandWrapper[testCommand, testResult](
				handler,
				observable.WithCommandMetrics[testCommand, testResult](metricsSpy),
				observable.WithCommandTracing[testCommand, testResult](tracingSpy),
			)
			require.NoError(t, err)

			// act
			_, handleErr := wrapper.Handle(context.Background(), testCommand{})

			// assert
			assert.Equal(t, tc.err, handleErr)
			assert.Equal(t, 1, handler.calls, "the core handler must be called exactly once")
			assert.True(t, metricsSpy.HasDurationRecordForMetric(shell.CommandHandlerDurationMetric).
				WithLabel(shell.LogAttrCommandType, testCommandType).
				WithStatus(tc.expectedStatus).
				Assert())
			assert.True(t, metricsSpy.HasCounterRecordForMetric(shell.CommandHandlerCallsMetric).WithStatus(tc.expectedStatus).Assert())

			if tc.extraCounter != "" {
				assert.Equal(t, 1, metricsSpy.CountCounterRecordsForMetric(tc.extraCounter))
			}

			assert.True(t, tracingSpy.HasSpanRecordForName(shell.SpanNameCommandHandle).
				WithStartAttribute(shell.LogAttrCommandType, testCommandType).
				WithStatus(tc.expectedStatus).
				Assert())
		})
	}
}

func Test_CommandWrapper_Handle_LogsRejectionsAtInfoAndFailuresAtError(t *testing.T) {
	// arrange
	loggerSpy := NewContextualLoggerSpy(true)
	handler := &stubCommandHandler{err: core.ErrInvalidStateTransition}

	wrapper, err := observable.NewCommandWrapper[testCommand, testResult](
		handler,
		observable.WithCommandContextualLogging[testCommand, testResult](loggerSpy),
	)
	require.NoError(t, err)

	// act
	_, _ = wrapper.Handle(context.Background(), testCommand{})
	handler.err = errors.New("connection reset")
	_, _ = wrapper.Handle(context.Background(), testCommand{})

	// assert
	assert.True(t, loggerSpy.HasInfoLog(shell.LogMsgCommandStarted))
	assert.True(t, loggerSpy.HasInfoLog(shell.LogMsgCommandRejected))
	assert.True(t, loggerSpy.HasErrorLog(shell.LogMsgCommandFailed))
	assert.False(t, loggerSpy.HasErrorLog(shell.LogMsgCommandRejected))
}

func Test_CommandWrapper_Handle_MeasuresDurationWithClock(t *testing.T) {
	// arrange
	metricsSpy := NewMetricsCollectorSpy(true)
	clock := FakeClock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), 250*time.Millisecond)

	wrapper, err := observable.NewCommandWrapper[testCommand, testResult](
		&stubCommandHandler{result: testResult{outcome: shell.StatusSuccess}},
		observable.WithCommandMetrics[testCommand, testResult](metricsSpy),
		observable.WithCommandClock[testCommand, testResult](clock),
	)
	require.NoError(t, err)

	// act
	_, err = wrapper.Handle(context.Background(), testCommand{})

	// assert
	require.NoError(t, err)
	records := metricsSpy.GetRecords()
	require.NotEmpty(t, records)
	assert.Equal(t, 250*time.Millisecond, records[0].Duration)
}

func Test_NewCommandWrapper_RejectsNilClock(t *testing.T) {
	// act
	_, err := observable.NewCommandWrapper[testCommand, testResult](
		&stubCommandHandler{},
		observable.WithCommandClock[testCommand, testResult](nil),
	)

	// assert
	assert.ErrorIs(t, err, observable.ErrNilClock)
}
