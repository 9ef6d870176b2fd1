// Package core holds the pure business rules of the movie library:
// the error taxonomy, rental billing and the decision result type returned by Decide functions.
//
// Nothing in this package performs I/O. Handlers in the feature slices load records,
// call into core to decide, and persist the outcome.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'domain' layer.
package core
