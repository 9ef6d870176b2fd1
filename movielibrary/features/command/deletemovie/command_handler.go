package deletemovie

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/shared/shell"
)

const messageDeleted = "Movie deleted successfully"

// MovieRepository defines the repository operations needed by the CommandHandler.
type MovieRepository interface {
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// Result is the outcome of a DeleteMovie command.
type Result struct {
	MovieID uuid.UUID
	Deleted bool
	Message string
}

// BusinessOutcome reports not_found when there was no movie to delete.
func (r Result) BusinessOutcome() string {
	if !r.Deleted {
		return shell.StatusNotFound
	}

	return shell.StatusSuccess
}

// CommandHandler validates the command and deletes the movie.
type CommandHandler struct {
	movies    MovieRepository
	validator shell.FieldValidator
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(movies MovieRepository, validator shell.FieldValidator) CommandHandler {
	return CommandHandler{
		movies:    movies,
		validator: validator,
	}
}

// Handle deletes the movie. A missing movie yields a Result with Deleted false and no error.
func (h CommandHandler) Handle(ctx context.Context, command Command) (Result, error) {
	if err := h.validator.Validate(command); err != nil {
		return Result{}, err
	}

	deleted, err := h.movies.Delete(ctx, command.MovieID)
	if err != nil {
		return Result{}, err
	}

	if !deleted {
		return Result{
			MovieID: command.MovieID,
			Message: fmt.Sprintf("Movie with Id %s not found", command.MovieID),
		}, nil
	}

	return Result{MovieID: command.MovieID, Deleted: true, Message: messageDeleted}, nil
}
