package updatemovie

import (
	"context"
	"errors"
	"fmt"

	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/shared/shell"
	"github.com/afarhat-dev/vertical-slice-poc/recordstore"
)

const messageUpdated = "Movie updated successfully"

// MovieRepository defines the repository operations needed by the CommandHandler.
type MovieRepository interface {
	Update(ctx context.Context, movie recordstore.Movie, expected recordstore.VersionToken) (recordstore.Movie, recordstore.UpdateResult, error)
}

// Result is the outcome of a successful UpdateMovie command.
// Movie carries the new version token.
type Result struct {
	Movie   recordstore.Movie
	Message string
}

// CommandHandler validates the command and runs the compare-and-swap update.
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

// Handle validates the command and updates the movie with the caller's version token.
// It returns recordstore.ErrNotFound or recordstore.ErrConcurrencyConflict for the non-success outcomes.
func (h CommandHandler) Handle(ctx context.Context, command Command) (Result, error) {
	if err := h.validator.Validate(command); err != nil {
		return Result{}, err
	}

	updated, outcome, err := h.movies.Update(ctx, recordstore.Movie{
		ID:          command.MovieID,
		Title:       command.Title,
		Director:    command.Director,
		Genre:       command.Genre,
		Description: command.Description,
		ReleaseYear: command.ReleaseYear,
		Rating:      command.Rating,
	}, command.Version)
	if err != nil {
		return Result{}, err
	}

	if outcomeErr := outcome.Err(); outcomeErr != nil {
		return Result{}, errors.Join(outcomeErr, fmt.Errorf("movie with id %s", command.MovieID))
	}

	return Result{Movie: updated, Message: messageUpdated}, nil
}
