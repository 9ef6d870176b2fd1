package createrental

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/shared/shell"
	"github.com/afarhat-dev/vertical-slice-poc/recordstore"
)

const messageCreated = "Rental created successfully"

// MovieReader defines the movie lookups needed by the CommandHandler.
type MovieReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (recordstore.Movie, error)
}

// RentalRepository defines the rental operations needed by the CommandHandler.
type RentalRepository interface {
	Add(ctx context.Context, rental recordstore.Rental) (recordstore.Rental, error)
}

// Result is the outcome of a successful CreateRental command.
type Result struct {
	Rental  recordstore.Rental
	Message string
}

// CommandHandler runs the workflow: Validate -> Load movie -> Decide -> Add.
type CommandHandler struct {
	movies    MovieReader
	rentals   RentalRepository
	validator shell.FieldValidator
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(movies MovieReader, rentals RentalRepository, validator shell.FieldValidator) CommandHandler {
	return CommandHandler{
		movies:    movies,
		rentals:   rentals,
		validator: validator,
	}
}

// Handle creates the rental. An unknown movie fails with recordstore.ErrNotFound before anything is written.
func (h CommandHandler) Handle(ctx context.Context, command Command) (Result, error) {
	if err := h.validator.Validate(command); err != nil {
		return Result{}, err
	}

	movie, err := h.movies.GetByID(recordstore.WithStrongConsistency(ctx), command.MovieID)
	if err != nil {
		if errors.Is(err, recordstore.ErrNotFound) {
			return Result{}, errors.Join(err, fmt.Errorf("movie with id %s", command.MovieID))
		}

		return Result{}, err
	}

	decision := Decide(movie, command)
	if decisionErr := decision.HasError(); decisionErr != nil {
		return Result{}, decisionErr
	}

	added, err := h.rentals.Add(ctx, decision.State)
	if err != nil {
		return Result{}, err
	}

	return Result{Rental: added, Message: messageCreated}, nil
}
