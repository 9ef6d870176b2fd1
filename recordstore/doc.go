// Package recordstore provides the core abstractions for a versioned record store
// holding the movie catalog and its rentals.
//
// Every stored record carries an opaque VersionToken. Writers hand the token they
// last read back to Update, which replaces the record only if the stored token
// still matches (compare-and-swap). The outcome is reported as an UpdateResult:
//   - UpdateSuccess: the record was replaced and received a fresh token
//   - UpdateNotFound: no record with that id exists
//   - UpdateConcurrencyConflict: the stored token differs, nothing was written
//
// Key types:
//   - Movie, Rental: the stored records
//   - MovieRepository, RentalRepository: the per-entity repository contracts
//   - MovieFilter, RentalFilter: AND-combined search criteria
//   - Money: an exact amount in minor currency units
//
// Storage engines live in sub-packages (postgresengine, memoryengine, redisengine).
//
// Common usage pattern:
//
//	movie, err := store.Movies().GetByID(ctx, id)
//	if err != nil {
//		// errors.Is(err, recordstore.ErrNotFound) for a missing record
//	}
//
//	movie.Rating = &newRating
//	updated, result, err := store.Movies().Update(ctx, movie, movie.Version)
//	if err != nil {
//		// infrastructure failure
//	}
//
//	if result != recordstore.UpdateSuccess {
//		return result.Err() // ErrNotFound or ErrConcurrencyConflict
//	}
package recordstore
