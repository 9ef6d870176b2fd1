package recordstore

import (
	"context"

	"github.com/google/uuid"
)

// MovieRepository is the versioned repository contract for movies.
//
// GetAll and Search return movies ordered by CreatedAt, newest first.
// Add assigns ID (when uuid.Nil), CreatedAt, UpdatedAt and Version.
// Update replaces all mutable fields if and only if expected equals the stored token;
// on UpdateSuccess the returned movie carries the new Version and UpdatedAt.
type MovieRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Movie, error)
	GetAll(ctx context.Context) ([]Movie, error)
	Search(ctx context.Context, filter MovieFilter) ([]Movie, error)
	Add(ctx context.Context, movie Movie) (Movie, error)
	Update(ctx context.Context, movie Movie, expected VersionToken) (Movie, UpdateResult, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// RentalRepository is the versioned repository contract for rentals.
//
// GetAll and Search return rentals ordered by RentalDate, newest first.
// Update never changes ID, MovieID, ItemName or RentalDate, and refuses records
// that fail Rental.CheckInvariants.
type RentalRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Rental, error)
	GetAll(ctx context.Context) ([]Rental, error)
	Search(ctx context.Context, filter RentalFilter) ([]Rental, error)
	Add(ctx context.Context, rental Rental) (Rental, error)
	Update(ctx context.Context, rental Rental, expected VersionToken) (Rental, UpdateResult, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Store gives access to both repositories of one storage engine.
type Store interface {
	Movies() MovieRepository
	Rentals() RentalRepository
}
