package searchmovies

import "github.com/afarhat-dev/vertical-slice-poc/recordstore"

// Movies is the result of the SearchMovies query.
type Movies struct {
	Movies []recordstore.Movie
	Count  int
}
