package listrentals

import (
	"context"

	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/shared/shell"
	"github.com/afarhat-dev/vertical-slice-poc/recordstore"
)

// RentalReader defines the repository operations needed by the QueryHandler.
type RentalReader interface {
	GetAll(ctx context.Context) ([]recordstore.Rental, error)
	Search(ctx context.Context, filter recordstore.RentalFilter) ([]recordstore.Rental, error)
}

// QueryHandler lists rentals.
type QueryHandler struct {
	rentals   RentalReader
	validator shell.FieldValidator
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(rentals RentalReader, validator shell.FieldValidator) QueryHandler {
	return QueryHandler{
		rentals:   rentals,
		validator: validator,
	}
}

// Handle returns all rentals, or the matching ones when the query has criteria.
func (h QueryHandler) Handle(ctx context.Context, query Query) (Rentals, error) {
	if err := h.validator.Validate(query); err != nil {
		return Rentals{}, err
	}

	ctx = recordstore.WithEventualConsistency(ctx)

	var (
		rentals []recordstore.Rental
		err     error
	)

	if query.hasCriteria() {
		rentals, err = h.rentals.Search(ctx, BuildRentalFilter(query))
	} else {
		rentals, err = h.rentals.GetAll(ctx)
	}

	if err != nil {
		return Rentals{}, err
	}

	return Rentals{Rentals: rentals, Count: len(rentals)}, nil
}

// BuildRentalFilter translates the query into a repository filter.
func BuildRentalFilter(query Query) recordstore.RentalFilter {
	builder := recordstore.BuildRentalFilter().WithCustomerName(query.CustomerName)

	if query.MovieID != nil {
		builder = builder.ForMovie(*query.MovieID)
	}

	if query.Status != "" {
		builder = builder.WithStatus(recordstore.RentalStatus(query.Status))
	}

	return builder.Finalize()
}
