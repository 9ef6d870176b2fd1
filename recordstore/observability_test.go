package recordstore_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afarhat-dev/vertical-slice-poc/recordstore"
	"github.com/afarhat-dev/vertical-slice-poc/recordstore/internal/instrument"
	. "github.com/afarhat-dev/vertical-slice-poc/testutil/recordstore/helper"
	"github.com/afarhat-dev/vertical-slice-poc/testutil/recordstore/helper/storewrapper"
)

func Test_Observability_Update_ConflictIsCountedTracedAndLogged(t *testing.T) {
	// setup
	ctx := context.Background()
	metricsSpy := NewMetricsCollectorSpy(true)
	tracingSpy := NewTracingCollectorSpy(true)
	logSpy := NewLogHandlerSpy(false)
	wrapper := storewrapper.CreateWrapperWithOptions(t, storewrapper.Options{
		Logger:  slog.New(logSpy),
		Metrics: metricsSpy,
		Tracing: tracingSpy,
		Clock:   FakeClock(fakeClockStart, time.Minute),
	})
	store := wrapper.GetRecordStore()
	movie := GivenMovieWasAdded(t, ctx, store, FixtureMovie("Alien"))

	first := movie.Clone()
	first.Title = "Alien (Director's Cut)"
	_, result, err := store.Movies().Update(ctx, first, movie.Version)
	require.NoError(t, err)
	require.Equal(t, recordstore.UpdateSuccess, result)

	metricsSpy.Reset()
	tracingSpy.Reset()

	// act
	stale := movie.Clone()
	stale.Title = "Alien (Theatrical)"
	_, result, err = store.Movies().Update(ctx, stale, movie.Version)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, recordstore.UpdateConcurrencyConflict, result)

	assert.Equal(t, 1, metricsSpy.CountCounterRecordsForMetric(instrument.MetricConcurrencyConflicts))
	assert.True(t, metricsSpy.HasCounterRecordForMetric(instrument.MetricConcurrencyConflicts).
		WithEntity(instrument.EntityMovie).
		WithOperation(instrument.OperationUpdate).
		WithLabel(instrument.LabelEngine, wrapper.EngineName()).
		Assert())
	assert.True(t, metricsSpy.HasDurationRecordForMetric(instrument.MetricOperationDuration).
		WithOperation(instrument.OperationUpdate).
		WithStatus(instrument.StatusConcurrencyConflict).
		Assert())

	assert.True(t, tracingSpy.HasSpanRecordForName("recordstore.movie.update").
		WithStatus(instrument.StatusConcurrencyConflict).
		WithStartAttribute(instrument.LabelEngine, wrapper.EngineName()).
		WithSpanAttribute(instrument.SpanAttrRecordID, movie.ID.String()).
		Assert())

	assert.True(t, logSpy.HasInfoLogWithMessage("concurrency conflict detected").
		WithAttribute("entity", instrument.EntityMovie).
		WithDurationMS().
		Assert())
}

func Test_Observability_GetByID_NotFoundIsNotAnError(t *testing.T) {
	// setup
	ctx := context.Background()
	metricsSpy := NewMetricsCollectorSpy(true)
	tracingSpy := NewTracingCollectorSpy(true)
	store := storewrapper.CreateWrapperWithOptions(t, storewrapper.Options{
		Metrics: metricsSpy,
		Tracing: tracingSpy,
	}).GetRecordStore()

	// act
	_, err := store.Rentals().GetByID(ctx, GivenUniqueID(t))

	// assert
	assert.ErrorIs(t, err, recordstore.ErrNotFound)
	assert.Zero(t, metricsSpy.CountCounterRecordsForMetric(instrument.MetricErrors))
	assert.True(t, metricsSpy.HasCounterRecordForMetric(instrument.MetricOperations).
		WithEntity(instrument.EntityRental).
		WithOperation(instrument.OperationGetByID).
		WithStatus(instrument.StatusNotFound).
		Assert())
	assert.True(t, tracingSpy.HasSpanRecordForName("recordstore.rental.get_by_id").
		WithStatus(instrument.StatusNotFound).
		Assert())
}

func Test_Observability_Add_InvalidRentalIsCountedAsError(t *testing.T) {
	// setup
	ctx := context.Background()
	metricsSpy := NewMetricsCollectorSpy(true)
	loggerSpy := NewContextualLoggerSpy(true)
	store := storewrapper.CreateWrapperWithOptions(t, storewrapper.Options{
		ContextualLogger: loggerSpy,
		Metrics:          metricsSpy,
	}).GetRecordStore()
	movie := GivenMovieWasAdded(t, ctx, store, FixtureMovie("Alien"))
	rental := FixtureRental(movie, "Ellen Ripley", fakeClockStart)
	rental.DailyRate = -1

	// act
	_, err := store.Rentals().Add(ctx, rental)

	// assert
	assert.ErrorIs(t, err, recordstore.ErrInvalidRecord)
	assert.True(t, metricsSpy.HasCounterRecordForMetric(instrument.MetricErrors).
		WithEntity(instrument.EntityRental).
		WithOperation(instrument.OperationAdd).
		WithErrorType(instrument.ErrorTypeInvalid).
		Assert())
	assert.True(t, loggerSpy.HasErrorLog("recordstore operation failed: add"))
}

func Test_Observability_Search_RecordsReturnedCountThroughContextualCollector(t *testing.T) {
	// setup
	ctx := context.Background()
	metricsSpy := NewContextualMetricsCollectorSpy(true)
	store := storewrapper.CreateWrapperWithOptions(t, storewrapper.Options{
		Metrics: metricsSpy,
		Clock:   FakeClock(fakeClockStart, time.Minute),
	}).GetRecordStore()
	GivenMovieWasAdded(t, ctx, store, FixtureMovie("Alien"))
	GivenMovieWasAdded(t, ctx, store, FixtureMovie("Aliens"))

	// act
	movies, err := store.Movies().Search(ctx, recordstore.BuildMovieFilter().WithTitle("alien").Finalize())

	// assert
	assert.NoError(t, err)
	assert.Len(t, movies, 2)

	records := metricsSpy.GetRecords()
	var returned []SpyMetricRecord
	for _, record := range records {
		if record.Metric == instrument.MetricRecordsReturned {
			returned = append(returned, record)
		}
	}

	require.Len(t, returned, 1)
	assert.InDelta(t, 2.0, returned[0].Value, 0.0001)
	assert.True(t, returned[0].Contextual)
	assert.True(t, metricsSpy.HasDurationRecordForMetric(instrument.MetricOperationDuration).
		WithOperation(instrument.OperationSearch).
		WithContext().
		Assert())
}
