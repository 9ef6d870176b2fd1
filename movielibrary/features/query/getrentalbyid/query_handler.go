package getrentalbyid

import (
	"context"

	"github.com/google/uuid"

	"github.com/afarhat-dev/vertical-slice-poc/recordstore"
)

// RentalReader defines the repository operations needed by the QueryHandler.
type RentalReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (recordstore.Rental, error)
}

// QueryHandler loads a single rental.
type QueryHandler struct {
	rentals RentalReader
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(rentals RentalReader) QueryHandler {
	return QueryHandler{rentals: rentals}
}

// Handle returns the rental or recordstore.ErrNotFound.
// Reads are strongly consistent: the version token feeds ReturnRental.
func (h QueryHandler) Handle(ctx context.Context, query Query) (recordstore.Rental, error) {
	return h.rentals.GetByID(recordstore.WithStrongConsistency(ctx), query.RentalID)
}
