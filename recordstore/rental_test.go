package recordstore_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/afarhat-dev/vertical-slice-poc/recordstore"
)

func Test_Rental_CheckInvariants(t *testing.T) {
	rentalDate := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	before := rentalDate.Add(-time.Hour)
	after := rentalDate.Add(time.Hour)

	valid := recordstore.Rental{
		ID:         uuid.New(),
		MovieID:    uuid.New(),
		RentalDate: rentalDate,
		DailyRate:  399,
		Status:     recordstore.RentalStatusActive,
	}

	testCases := []struct {
		name    string
		mutate  func(r *recordstore.Rental)
		wantErr bool
	}{
		{"active without return date", func(_ *recordstore.Rental) {}, false},
		{"returned with return date", func(r *recordstore.Rental) { r.Status = recordstore.RentalStatusReturned; r.ReturnDate = &after }, false},
		{"returned same instant", func(r *recordstore.Rental) { r.Status = recordstore.RentalStatusReturned; r.ReturnDate = &rentalDate }, false},
		{"returned without return date", func(r *recordstore.Rental) { r.Status = recordstore.RentalStatusReturned }, true},
		{"active with return date", func(r *recordstore.Rental) { r.ReturnDate = &after }, true},
		{"return before rental", func(r *recordstore.Rental) { r.Status = recordstore.RentalStatusReturned; r.ReturnDate = &before }, true},
		{"zero daily rate", func(r *recordstore.Rental) { r.DailyRate = 0 }, true},
		{"unknown status", func(r *recordstore.Rental) { r.Status = "Lost" }, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rental := valid.Clone()
			tc.mutate(&rental)

			err := rental.CheckInvariants()

			if tc.wantErr {
				assert.ErrorIs(t, err, recordstore.ErrInvalidRecord)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func Test_Rental_CloneIsDeep(t *testing.T) {
	returnDate := time.Now()
	original := recordstore.Rental{ReturnDate: &returnDate, Version: recordstore.NewVersionToken()}

	clone := original.Clone()
	*clone.ReturnDate = returnDate.Add(time.Hour)
	clone.Version[0] ^= 0xFF

	assert.Equal(t, returnDate, *original.ReturnDate)
	assert.False(t, original.Version.Equal(clone.Version))
}

func Test_SortMoviesNewestFirst(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	oldest := recordstore.Movie{ID: uuid.New(), CreatedAt: base}
	middle := recordstore.Movie{ID: uuid.New(), CreatedAt: base.Add(time.Minute)}
	newest := recordstore.Movie{ID: uuid.New(), CreatedAt: base.Add(2 * time.Minute)}

	movies := []recordstore.Movie{middle, oldest, newest}
	recordstore.SortMoviesNewestFirst(movies)

	assert.Equal(t, []uuid.UUID{newest.ID, middle.ID, oldest.ID}, []uuid.UUID{movies[0].ID, movies[1].ID, movies[2].ID})
}

func Test_SortRentalsNewestFirst(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	older := recordstore.Rental{ID: uuid.New(), RentalDate: base}
	newer := recordstore.Rental{ID: uuid.New(), RentalDate: base.Add(time.Hour)}

	rentals := []recordstore.Rental{older, newer}
	recordstore.SortRentalsNewestFirst(rentals)

	assert.Equal(t, newer.ID, rentals[0].ID)
	assert.Equal(t, older.ID, rentals[1].ID)
}
