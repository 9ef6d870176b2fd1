package searchmovies

const queryType = "SearchMovies"

// Query holds the optional search criteria. Empty strings and nil pointers mean "no filter".
type Query struct {
	Title     string   `json:"title" validate:"max=200"`
	Director  string   `json:"director" validate:"max=100"`
	Genre     string   `json:"genre" validate:"max=50"`
	MinYear   *int     `json:"minYear" validate:"omitnil,gt=1800"`
	MaxYear   *int     `json:"maxYear" validate:"omitnil,gt=1800"`
	MinRating *float64 `json:"minRating" validate:"omitnil,gte=0,lte=10"`
}

// QueryType returns the query type identifier for observability.
func (q Query) QueryType() string {
	return queryType
}
