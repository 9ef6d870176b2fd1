package helper

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/afarhat-dev/vertical-slice-poc/recordstore"
)

// GivenUniqueID generates a unique UUID for testing.
func GivenUniqueID(t testing.TB) uuid.UUID {
	id, err := uuid.NewV7()
	assert.NoError(t, err, "error in arranging test data")

	return id
}

// FixtureMovie creates a movie with every field populated.
func FixtureMovie(title string) recordstore.Movie {
	year := 1979
	rating := 8.5

	return recordstore.Movie{
		Title:       title,
		Director:    "Ridley Scott",
		Genre:       "Science Fiction",
		Description: "In space no one can hear you scream.",
		ReleaseYear: &year,
		Rating:      &rating,
	}
}

// FixtureMovieWith creates a movie with the given search-relevant fields.
func FixtureMovieWith(title, director, genre string, year int, rating float64) recordstore.Movie {
	return recordstore.Movie{
		Title:       title,
		Director:    director,
		Genre:       genre,
		ReleaseYear: &year,
		Rating:      &rating,
	}
}

// FixtureRental creates an active rental of the given movie.
func FixtureRental(movie recordstore.Movie, customerName string, rentalDate time.Time) recordstore.Rental {
	return recordstore.Rental{
		MovieID:      movie.ID,
		CustomerName: customerName,
		ItemName:     movie.Title,
		RentalDate:   rentalDate,
		DailyRate:    recordstore.Money(399),
		Status:       recordstore.RentalStatusActive,
	}
}

// GivenMovieWasAdded adds a movie to the store for testing.
func GivenMovieWasAdded(t testing.TB, ctx context.Context, store recordstore.Store, movie recordstore.Movie) recordstore.Movie { //nolint:revive
	added, err := store.Movies().Add(ctx, movie)
	assert.NoError(t, err, "error in arranging test data")

	return added
}

// GivenRentalWasAdded adds a rental to the store for testing.
func GivenRentalWasAdded(t testing.TB, ctx context.Context, store recordstore.Store, rental recordstore.Rental) recordstore.Rental { //nolint:revive
	added, err := store.Rentals().Add(ctx, rental)
	assert.NoError(t, err, "error in arranging test data")

	return added
}

// GivenRentalWasReturned marks a rental as returned at the given time for testing.
func GivenRentalWasReturned(t testing.TB, ctx context.Context, store recordstore.Store, rental recordstore.Rental, at time.Time) recordstore.Rental { //nolint:revive
	returned := rental.Clone()
	returned.Status = recordstore.RentalStatusReturned
	returned.ReturnDate = &at

	updated, result, err := store.Rentals().Update(ctx, returned, rental.Version)
	assert.NoError(t, err, "error in arranging test data")
	assert.Equal(t, recordstore.UpdateSuccess, result, "error in arranging test data")

	return updated
}

// FakeClock returns a clock that starts at start and advances by step on every call.
// It is safe for concurrent use.
func FakeClock(start time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	current := start.Add(-step)

	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()

		current = current.Add(step)

		return current
	}
}
