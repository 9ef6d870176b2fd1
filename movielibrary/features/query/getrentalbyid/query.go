package getrentalbyid

import "github.com/google/uuid"

const queryType = "GetRentalByID"

// Query asks for one rental.
type Query struct {
	RentalID uuid.UUID
}

// QueryType returns the query type identifier for observability.
func (q Query) QueryType() string {
	return queryType
}

// BuildQuery creates a new Query.
func BuildQuery(rentalID uuid.UUID) Query {
	return Query{RentalID: rentalID}
}
