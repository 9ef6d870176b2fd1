package searchmovies

import (
	"context"

	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/shared/core"
	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/shared/shell"
	"github.com/afarhat-dev/vertical-slice-poc/recordstore"
)

// MovieSearcher defines the repository operations needed by the QueryHandler.
type MovieSearcher interface {
	Search(ctx context.Context, filter recordstore.MovieFilter) ([]recordstore.Movie, error)
}

// QueryHandler searches the catalog.
type QueryHandler struct {
	movies    MovieSearcher
	validator shell.FieldValidator
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(movies MovieSearcher, validator shell.FieldValidator) QueryHandler {
	return QueryHandler{
		movies:    movies,
		validator: validator,
	}
}

// Handle returns the matching movies, newest first.
func (h QueryHandler) Handle(ctx context.Context, query Query) (Movies, error) {
	if err := h.validator.Validate(query); err != nil {
		return Movies{}, err
	}

	if query.MinYear != nil && query.MaxYear != nil && *query.MinYear > *query.MaxYear {
		return Movies{}, core.ValidationErrors{{Field: "minYear", Message: "Min year cannot be greater than max year"}}
	}

	movies, err := h.movies.Search(recordstore.WithEventualConsistency(ctx), BuildMovieFilter(query))
	if err != nil {
		return Movies{}, err
	}

	return Movies{Movies: movies, Count: len(movies)}, nil
}

// BuildMovieFilter translates the query into a repository filter.
func BuildMovieFilter(query Query) recordstore.MovieFilter {
	builder := recordstore.BuildMovieFilter().
		WithTitle(query.Title).
		WithDirector(query.Director).
		WithGenre(query.Genre)

	if query.MinYear != nil {
		builder = builder.WithMinYear(*query.MinYear)
	}

	if query.MaxYear != nil {
		builder = builder.WithMaxYear(*query.MaxYear)
	}

	if query.MinRating != nil {
		builder = builder.WithMinRating(*query.MinRating)
	}

	return builder.Finalize()
}
