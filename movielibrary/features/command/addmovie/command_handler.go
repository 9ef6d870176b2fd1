package addmovie

import (
	"context"

	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/shared/shell"
	"github.com/afarhat-dev/vertical-slice-poc/recordstore"
)

const messageAdded = "Movie added successfully"

// MovieRepository defines the repository operations needed by the CommandHandler.
type MovieRepository interface {
	Add(ctx context.Context, movie recordstore.Movie) (recordstore.Movie, error)
}

// Result is the outcome of a successful AddMovie command.
type Result struct {
	Movie   recordstore.Movie
	Message string
}

// CommandHandler validates the command and adds the movie.
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

// Handle validates the command and persists a new movie.
func (h CommandHandler) Handle(ctx context.Context, command Command) (Result, error) {
	if err := h.validator.Validate(command); err != nil {
		return Result{}, err
	}

	added, err := h.movies.Add(ctx, recordstore.Movie{
		Title:       command.Title,
		Director:    command.Director,
		Genre:       command.Genre,
		Description: command.Description,
		ReleaseYear: command.ReleaseYear,
		Rating:      command.Rating,
	})
	if err != nil {
		return Result{}, err
	}

	return Result{Movie: added, Message: messageAdded}, nil
}
