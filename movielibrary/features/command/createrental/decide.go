package createrental

import (
	"errors"

	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/shared/core"
	"github.com/afarhat-dev/vertical-slice-poc/recordstore"
)

const (
	failureReasonWrongMovie      = "movie does not match the command"
	failureReasonNonPositiveRate = "daily rate must be greater than zero"
)

// Decide builds the new rental for movie. It is a pure function.
//
// Business Rules:
//
//	GIVEN: an existing movie
//	WHEN: CreateRental is received for it
//	THEN: an Active rental without return date, with ItemName = movie title
//	ERROR: ErrInvalidInput if the movie is not the one the command refers to
//	ERROR: ErrInvalidInput if the daily rate is not positive
func Decide(movie recordstore.Movie, command Command) core.DecisionResult[recordstore.Rental] {
	if movie.ID != command.MovieID {
		return core.ErrorDecision[recordstore.Rental](errors.Join(core.ErrInvalidInput, errors.New(failureReasonWrongMovie)))
	}

	if command.DailyRate <= 0 {
		return core.ErrorDecision[recordstore.Rental](errors.Join(core.ErrInvalidInput, errors.New(failureReasonNonPositiveRate)))
	}

	return core.SuccessDecision(recordstore.Rental{
		MovieID:      movie.ID,
		CustomerName: command.CustomerName,
		ItemName:     movie.Title,
		RentalDate:   command.RentalDate,
		DailyRate:    command.DailyRate,
		Status:       recordstore.RentalStatusActive,
	})
}
