// Package listrentals implements the List Rentals query, optionally narrowed by movie,
// customer name or status. Rentals are ordered by rental date, newest first.
package listrentals
