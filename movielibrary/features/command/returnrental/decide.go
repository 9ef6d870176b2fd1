package returnrental

import (
	"errors"

	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/shared/core"
	"github.com/afarhat-dev/vertical-slice-poc/recordstore"
)

const (
	failureReasonAlreadyReturned    = "rental has already been returned"
	failureReasonReturnBeforeRental = "return date cannot be before rental date"
	failureReasonCostOutOfRange     = "total cost is out of range"
)

// Returned is the state produced by a successful return.
type Returned struct {
	Rental    recordstore.Rental
	TotalCost recordstore.Money
}

// Decide applies the return transition to rental. It is a pure function.
//
// Business Rules:
//
//	GIVEN: an Active rental
//	WHEN: ReturnRental is received
//	THEN: the rental is Returned with the command's return date, charged core.TotalCost
//	ERROR: ErrInvalidStateTransition if the rental is already Returned (a second return is not idempotent)
//	ERROR: ErrInvalidInput if the return date is before the rental date
//	ERROR: ErrInvalidInput if days * daily rate does not fit into Money
func Decide(rental recordstore.Rental, command Command) core.DecisionResult[Returned] {
	if rental.IsReturned() {
		return core.ErrorDecision[Returned](errors.Join(core.ErrInvalidStateTransition, errors.New(failureReasonAlreadyReturned)))
	}

	if command.ReturnDate.Before(rental.RentalDate) {
		return core.ErrorDecision[Returned](errors.Join(core.ErrInvalidInput, errors.New(failureReasonReturnBeforeRental)))
	}

	totalCost, err := core.TotalCost(rental.RentalDate, command.ReturnDate, rental.DailyRate)
	if err != nil {
		return core.ErrorDecision[Returned](errors.Join(core.ErrInvalidInput, err, errors.New(failureReasonCostOutOfRange)))
	}

	returned := rental.Clone()
	returnDate := command.ReturnDate
	returned.ReturnDate = &returnDate
	returned.Status = recordstore.RentalStatusReturned

	return core.SuccessDecision(Returned{
		Rental:    returned,
		TotalCost: totalCost,
	})
}
