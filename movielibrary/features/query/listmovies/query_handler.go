package listmovies

import (
	"context"

	"github.com/afarhat-dev/vertical-slice-poc/recordstore"
)

// MovieReader defines the repository operations needed by the QueryHandler.
type MovieReader interface {
	GetAll(ctx context.Context) ([]recordstore.Movie, error)
}

// QueryHandler lists the catalog.
type QueryHandler struct {
	movies MovieReader
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(movies MovieReader) QueryHandler {
	return QueryHandler{movies: movies}
}

// Handle returns all movies ordered by creation time, newest first.
// Listing tolerates replica lag.
func (h QueryHandler) Handle(ctx context.Context, _ Query) (Movies, error) {
	movies, err := h.movies.GetAll(recordstore.WithEventualConsistency(ctx))
	if err != nil {
		return Movies{}, err
	}

	return Movies{Movies: movies, Count: len(movies)}, nil
}
