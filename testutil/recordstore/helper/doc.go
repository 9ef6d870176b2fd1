// Package helper provides testing utilities for the record store and the movie library.
//
// It contains spies for the logging, metrics and tracing seams of the storage engines and
// the handler wrappers, fixtures for movies and rentals, and Given... helpers that arrange
// records in a store.
package helper
