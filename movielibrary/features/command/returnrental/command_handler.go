package returnrental

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/shared/shell"
	"github.com/afarhat-dev/vertical-slice-poc/recordstore"
)

const messageReturned = "Rental returned successfully"

// RentalRepository defines the rental operations needed by the CommandHandler.
type RentalRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (recordstore.Rental, error)
	Update(ctx context.Context, rental recordstore.Rental, expected recordstore.VersionToken) (recordstore.Rental, recordstore.UpdateResult, error)
}

// Result is the outcome of a successful ReturnRental command.
// Rental is the final snapshot, including its new version token.
type Result struct {
	Rental    recordstore.Rental
	TotalCost recordstore.Money
	Message   string
}

// CommandHandler runs the workflow: Validate -> Load -> Decide -> Update.
type CommandHandler struct {
	rentals   RentalRepository
	validator shell.FieldValidator
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(rentals RentalRepository, validator shell.FieldValidator) CommandHandler {
	return CommandHandler{
		rentals:   rentals,
		validator: validator,
	}
}

// Handle returns the rental.
//
// Errors: recordstore.ErrNotFound, core.ErrInvalidStateTransition, core.ErrInvalidInput,
// recordstore.ErrConcurrencyConflict (caller's token is stale), core.ErrValidationFailed.
func (h CommandHandler) Handle(ctx context.Context, command Command) (Result, error) {
	if err := h.validator.Validate(command); err != nil {
		return Result{}, err
	}

	rental, err := h.rentals.GetByID(recordstore.WithStrongConsistency(ctx), command.RentalID)
	if err != nil {
		return Result{}, h.withRentalID(err, command)
	}

	decision := Decide(rental, command)
	if decisionErr := decision.HasError(); decisionErr != nil {
		return Result{}, decisionErr
	}

	updated, outcome, err := h.rentals.Update(ctx, decision.State.Rental, command.Version)
	if err != nil {
		return Result{}, err
	}

	if outcomeErr := outcome.Err(); outcomeErr != nil {
		return Result{}, h.withRentalID(outcomeErr, command)
	}

	return Result{
		Rental:    updated,
		TotalCost: decision.State.TotalCost,
		Message:   messageReturned,
	}, nil
}

func (h CommandHandler) withRentalID(err error, command Command) error {
	if errors.Is(err, recordstore.ErrNotFound) || errors.Is(err, recordstore.ErrConcurrencyConflict) {
		return errors.Join(err, fmt.Errorf("rental with id %s", command.RentalID))
	}

	return err
}
