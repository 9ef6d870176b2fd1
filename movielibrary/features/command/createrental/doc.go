// Package createrental implements the Create Rental use case.
//
// The movie must exist. Its current title is copied into the rental's ItemName and is never
// updated afterwards, so a rental keeps describing what was rented even if the movie is renamed
// or deleted.
package createrental
