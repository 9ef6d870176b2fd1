package listmovies

const queryType = "ListMovies"

// Query asks for all movies.
type Query struct{}

// QueryType returns the query type identifier for observability.
func (q Query) QueryType() string {
	return queryType
}
