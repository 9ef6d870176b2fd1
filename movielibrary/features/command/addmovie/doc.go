// Package addmovie implements the Add Movie use case.
//
// The handler validates the fields, then hands the movie to the repository,
// which assigns its identity, timestamps and first version token.
package addmovie
