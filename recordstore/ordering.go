package recordstore

import (
	"bytes"
	"slices"
)

// SortMoviesNewestFirst orders movies by CreatedAt descending, ties broken by ID ascending.
func SortMoviesNewestFirst(movies []Movie) {
	slices.SortFunc(movies, func(a, b Movie) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}

		return bytes.Compare(a.ID[:], b.ID[:])
	})
}

// SortRentalsNewestFirst orders rentals by RentalDate descending, ties broken by ID ascending.
func SortRentalsNewestFirst(rentals []Rental) {
	slices.SortFunc(rentals, func(a, b Rental) int {
		if c := b.RentalDate.Compare(a.RentalDate); c != 0 {
			return c
		}

		return bytes.Compare(a.ID[:], b.ID[:])
	})
}
