package getmoviebyid

import "github.com/google/uuid"

const queryType = "GetMovieByID"

// Query asks for one movie.
type Query struct {
	MovieID uuid.UUID
}

// QueryType returns the query type identifier for observability.
func (q Query) QueryType() string {
	return queryType
}

// BuildQuery creates a new Query.
func BuildQuery(movieID uuid.UUID) Query {
	return Query{MovieID: movieID}
}
