package core

import (
	"time"

	"github.com/afarhat-dev/vertical-slice-poc/recordstore"
)

const day = 24 * time.Hour

// ChargeableDays returns the number of whole days between rentalDate and returnDate, at least 1.
// A rental returned within the same day, or after a fractional number of days, is charged for
// the whole days elapsed and never less than one.
func ChargeableDays(rentalDate, returnDate time.Time) int64 {
	days := int64(returnDate.Sub(rentalDate) / day)
	if days < 1 {
		return 1
	}

	return days
}

// TotalCost returns days * dailyRate, or recordstore.ErrMoneyOutOfRange if that does not fit into Money.
func TotalCost(rentalDate, returnDate time.Time, dailyRate recordstore.Money) (recordstore.Money, error) {
	return dailyRate.Times(ChargeableDays(rentalDate, returnDate))
}
