package createrental_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/features/command/createrental"
	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/shared/shell"
	"github.com/afarhat-dev/vertical-slice-poc/recordstore"
	"github.com/afarhat-dev/vertical-slice-poc/recordstore/memoryengine"
	. "github.com/afarhat-dev/vertical-slice-poc/testutil/recordstore/helper" //nolint:revive
)

var now = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func setup(t *testing.T) (context.Context, *memoryengine.RecordStore, createrental.CommandHandler) {
	t.Helper()

	store, err := memoryengine.NewRecordStore()
	require.NoError(t, err)

	handler := createrental.NewCommandHandler(store.Movies(), store.Rentals(), shell.NewValidator(func() time.Time { return now }))

	return context.Background(), store, handler
}

func Test_CommandHandler_Handle_Success(t *testing.T) {
	// arrange
	ctx, store, handler := setup(t)
	movie := GivenMovieWasAdded(t, ctx, store, FixtureMovie("Alien"))
	rentalDate := now.Add(-2 * time.Hour)

	// act
	result, err := handler.Handle(ctx, createrental.BuildCommand(movie.ID, "Ellen Ripley", rentalDate, recordstore.Money(399)))

	// assert
	require.NoError(t, err)
	assert.Equal(t, "Rental created successfully", result.Message)
	assert.Equal(t, recordstore.RentalStatusActive, result.Rental.Status)
	assert.Nil(t, result.Rental.ReturnDate)

	stored, err := store.Rentals().GetByID(ctx, result.Rental.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alien", stored.ItemName)
	assert.Equal(t, movie.ID, stored.MovieID)
	assert.Equal(t, rentalDate, stored.RentalDate)
	assert.Equal(t, recordstore.Money(399), stored.DailyRate)
}

func Test_CommandHandler_Handle_ItemNameIsASnapshot(t *testing.T) {
	// arrange
	ctx, store, handler := setup(t)
	movie := GivenMovieWasAdded(t, ctx, store, FixtureMovie("Alien"))

	result, err := handler.Handle(ctx, createrental.BuildCommand(movie.ID, "Ellen Ripley", now, recordstore.Money(399)))
	require.NoError(t, err)

	renamed := movie.Clone()
	renamed.Title = "Alien: Director's Cut"
	_, outcome, err := store.Movies().Update(ctx, renamed, movie.Version)
	require.NoError(t, err)
	require.Equal(t, recordstore.UpdateSuccess, outcome)

	// act
	stored, err := store.Rentals().GetByID(ctx, result.Rental.ID)

	// assert
	require.NoError(t, err)
	assert.Equal(t, "Alien", stored.ItemName)
}

func Test_CommandHandler_Handle_UnknownMovieIsNotFound(t *testing.T) {
	// arrange
	ctx, store, handler := setup(t)

	// act
	_, err := handler.Handle(ctx, createrental.BuildCommand(GivenUniqueID(t), "Ellen Ripley", now, recordstore.Money(399)))

	// assert
	assert.ErrorIs(t, err, recordstore.ErrNotFound)

	rentals, err := store.Rentals().GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, rentals, "nothing must be persisted")
}

func Test_CommandHandler_Handle_ValidationFailed(t *testing.T) {
	testCases := []struct {
		name          string
		customerName  string
		rentalDate    time.Time
		dailyRate     recordstore.Money
		expectedError string
	}{
		{name: "customer name missing", customerName: "", rentalDate: now, dailyRate: 399, expectedError: "Customer name is required"},
		{name: "rental date in the future", customerName: "Ellen Ripley", rentalDate: now.Add(48 * time.Hour), dailyRate: 399, expectedError: "Rental date cannot be more than 1 day(s) in the future"},
		{name: "rental date too old", customerName: "Ellen Ripley", rentalDate: now.AddDate(-1, 0, -2), dailyRate: 399, expectedError: "Rental date cannot be more than 365 days in the past"},
		{name: "zero daily rate", customerName: "Ellen Ripley", rentalDate: now, dailyRate: 0, expectedError: "Daily rate must be greater than 0"},
		{name: "daily rate above the maximum", customerName: "Ellen Ripley", rentalDate: now, dailyRate: 1_000_001, expectedError: "Daily rate cannot exceed 10000"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			ctx, store, handler := setup(t)
			movie := GivenMovieWasAdded(t, ctx, store, FixtureMovie("Alien"))

			// act
			_, err := handler.Handle(ctx, createrental.BuildCommand(movie.ID, tc.customerName, tc.rentalDate, tc.dailyRate))

			// assert
			assert.True(t, shell.IsValidationError(err))
			assert.ErrorContains(t, err, tc.expectedError)
		})
	}
}
