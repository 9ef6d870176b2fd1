package recordstore

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// RentalStatus is the lifecycle state of a rental.
type RentalStatus string

const (
	RentalStatusActive   RentalStatus = "Active"
	RentalStatusReturned RentalStatus = "Returned"
)

// IsValid reports whether s is one of the known statuses.
func (s RentalStatus) IsValid() bool {
	return s == RentalStatusActive || s == RentalStatusReturned
}

// Rental records a customer renting a movie.
// MovieID is a loose reference: the movie may be deleted while the rental lives on.
// ItemName is the movie title at creation time and never changes.
type Rental struct {
	ID           uuid.UUID
	MovieID      uuid.UUID
	CustomerName string
	ItemName     string
	RentalDate   time.Time
	ReturnDate   *time.Time
	DailyRate    Money
	Status       RentalStatus
	Version      VersionToken
}

// IsReturned reports whether the rental has reached its terminal state.
func (r Rental) IsReturned() bool {
	return r.Status == RentalStatusReturned
}

// CheckInvariants verifies the rules every persisted rental must satisfy.
func (r Rental) CheckInvariants() error {
	if !r.Status.IsValid() {
		return errors.Join(ErrInvalidRecord, errors.New("unknown rental status "+string(r.Status)))
	}

	if r.DailyRate <= 0 {
		return errors.Join(ErrInvalidRecord, errors.New("daily rate must be positive"))
	}

	if r.Status == RentalStatusReturned && r.ReturnDate == nil {
		return errors.Join(ErrInvalidRecord, errors.New("returned rental has no return date"))
	}

	if r.Status == RentalStatusActive && r.ReturnDate != nil {
		return errors.Join(ErrInvalidRecord, errors.New("active rental has a return date"))
	}

	if r.ReturnDate != nil && r.ReturnDate.Before(r.RentalDate) {
		return errors.Join(ErrInvalidRecord, errors.New("return date is before rental date"))
	}

	return nil
}

// Clone returns a deep copy of the rental.
func (r Rental) Clone() Rental {
	c := r
	c.Version = r.Version.Clone()

	if r.ReturnDate != nil {
		returnDate := *r.ReturnDate
		c.ReturnDate = &returnDate
	}

	return c
}
