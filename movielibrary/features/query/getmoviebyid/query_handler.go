package getmoviebyid

import (
	"context"

	"github.com/google/uuid"

	"github.com/afarhat-dev/vertical-slice-poc/recordstore"
)

// MovieReader defines the repository operations needed by the QueryHandler.
type MovieReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (recordstore.Movie, error)
}

// QueryHandler loads a single movie.
type QueryHandler struct {
	movies MovieReader
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(movies MovieReader) QueryHandler {
	return QueryHandler{movies: movies}
}

// Handle returns the movie or recordstore.ErrNotFound.
func (h QueryHandler) Handle(ctx context.Context, query Query) (recordstore.Movie, error) {
	return h.movies.GetByID(recordstore.WithStrongConsistency(ctx), query.MovieID)
}
