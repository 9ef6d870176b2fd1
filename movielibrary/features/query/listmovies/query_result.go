package listmovies

import "github.com/afarhat-dev/vertical-slice-poc/recordstore"

// Movies is the result of the ListMovies query.
type Movies struct {
	Movies []recordstore.Movie
	Count  int
}
