package listrentals

import "github.com/google/uuid"

const queryType = "ListRentals"

// Query holds the optional rental criteria.
type Query struct {
	MovieID      *uuid.UUID `json:"movieId"`
	CustomerName string     `json:"customerName" validate:"max=200"`
	Status       string     `json:"status" validate:"omitempty,oneof=Active Returned"`
}

// QueryType returns the query type identifier for observability.
func (q Query) QueryType() string {
	return queryType
}

func (q Query) hasCriteria() bool {
	return q.MovieID != nil || q.CustomerName != "" || q.Status != ""
}
