package createrental_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/features/command/createrental"
	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/shared/core"
	"github.com/afarhat-dev/vertical-slice-poc/recordstore"
	. "github.com/afarhat-dev/vertical-slice-poc/testutil/recordstore/helper" //nolint:revive
)

func Test_Decide_CreatesActiveRentalWithMovieTitle(t *testing.T) {
	// arrange
	movie := FixtureMovie("Alien")
	movie.ID = GivenUniqueID(t)
	rentalDate := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	command := createrental.BuildCommand(movie.ID, "Ellen Ripley", rentalDate, recordstore.Money(399))

	// act
	decision := createrental.Decide(movie, command)

	// assert
	assert.NoError(t, decision.HasError())
	assert.True(t, decision.HasStateToPersist())
	assert.Equal(t, recordstore.Rental{
		MovieID:      movie.ID,
		CustomerName: "Ellen Ripley",
		ItemName:     "Alien",
		RentalDate:   rentalDate,
		DailyRate:    recordstore.Money(399),
		Status:       recordstore.RentalStatusActive,
	}, decision.State)
	assert.NoError(t, decision.State.CheckInvariants())
}

func Test_Decide_RejectsInvalidInput(t *testing.T) {
	movie := FixtureMovie("Alien")
	movie.ID = GivenUniqueID(t)
	rentalDate := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	testCases := map[string]createrental.Command{
		"other movie": createrental.BuildCommand(GivenUniqueID(t), "Ellen Ripley", rentalDate, recordstore.Money(399)),
		"zero rate":   createrental.BuildCommand(movie.ID, "Ellen Ripley", rentalDate, recordstore.Money(0)),
	}

	for name, command := range testCases {
		t.Run(name, func(t *testing.T) {
			// act
			decision := createrental.Decide(movie, command)

			// assert
			assert.ErrorIs(t, decision.HasError(), core.ErrInvalidInput)
			assert.False(t, decision.HasStateToPersist())
		})
	}
}
