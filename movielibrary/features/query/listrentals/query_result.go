package listrentals

import "github.com/afarhat-dev/vertical-slice-poc/recordstore"

// Rentals is the result of the ListRentals query.
type Rentals struct {
	Rentals []recordstore.Rental
	Count   int
}
