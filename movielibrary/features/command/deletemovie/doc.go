// Package deletemovie implements the Delete Movie use case.
//
// Deleting an unknown movie is not an error: the result reports that nothing was deleted.
// Rentals referencing the movie are left alone.
package deletemovie
