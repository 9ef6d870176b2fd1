package core_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/shared/core"
	"github.com/afarhat-dev/vertical-slice-poc/recordstore"
)

func Test_TotalCost(t *testing.T) {
	rentalDate := time.Date(2024, 3, 10, 18, 30, 0, 0, time.UTC)
	rate := recordstore.Money(399)

	testCases := []struct {
		name       string
		returnDate time.Time
		want       recordstore.Money
	}{
		{"same instant charges one day", rentalDate, 399},
		{"two hours charges one day", rentalDate.Add(2 * time.Hour), 399},
		{"just under a day charges one day", rentalDate.Add(23*time.Hour + 59*time.Minute), 399},
		{"exactly one day", rentalDate.Add(24 * time.Hour), 399},
		{"one and a half days rounds down", rentalDate.Add(36 * time.Hour), 399},
		{"five days", rentalDate.Add(5 * 24 * time.Hour), 1995},
		{"five days and change", rentalDate.Add(5*24*time.Hour + 5*time.Hour), 1995},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			cost, err := core.TotalCost(rentalDate, tc.returnDate, rate)

			// assert
			assert.NoError(t, err)
			assert.Equal(t, tc.want, cost)
		})
	}
}

func Test_TotalCost_RendersAsDecimal(t *testing.T) {
	// setup
	rentalDate := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	// act
	cost, err := core.TotalCost(rentalDate, rentalDate.Add(5*24*time.Hour), recordstore.Money(399))

	// assert
	assert.NoError(t, err)
	assert.Equal(t, "19.95", cost.String())
	assert.InDelta(t, 19.95, cost.Float64(), 0.0001)
}

func Test_ChargeableDays_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rentalDate := time.Unix(rapid.Int64Range(0, 4_000_000_000).Draw(t, "rentalDate"), 0).UTC()
		elapsed := time.Duration(rapid.Int64Range(0, int64(400*24*time.Hour)).Draw(t, "elapsed"))
		rate := recordstore.Money(rapid.Int64Range(1, 100_000).Draw(t, "rate"))
		returnDate := rentalDate.Add(elapsed)

		days := core.ChargeableDays(rentalDate, returnDate)

		if days < 1 {
			t.Fatalf("charged %d days, want at least 1", days)
		}

		if elapsed >= 24*time.Hour && time.Duration(days)*24*time.Hour > elapsed {
			t.Fatalf("charged %d days for %s", days, elapsed)
		}

		if elapsed >= 24*time.Hour && time.Duration(days+1)*24*time.Hour <= elapsed {
			t.Fatalf("charged %d days for %s, a whole day is missing", days, elapsed)
		}

		cost, err := core.TotalCost(rentalDate, returnDate, rate)
		if err != nil || cost != rate*recordstore.Money(days) {
			t.Fatalf("cost %s (%v) is not %d x %s", cost, err, days, rate)
		}
	})
}

func Test_TotalCost_RejectsCostBeyondMoneyRange(t *testing.T) {
	// setup
	rentalDate := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	// act
	_, err := core.TotalCost(rentalDate, rentalDate.Add(48*time.Hour), recordstore.Money(9_000_000_000_000_000_000))

	// assert
	assert.ErrorIs(t, err, recordstore.ErrMoneyOutOfRange)
}
