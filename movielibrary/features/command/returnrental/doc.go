// Package returnrental implements the Return Rental use case, the only transition of the rental lifecycle.
//
// An Active rental becomes Returned exactly once. The charge is the number of whole days between
// rental and return, at least one, times the daily rate. The update uses the version token the caller
// read; a stale token fails with a concurrency conflict and is never retried here.
package returnrental
