package redisengine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/afarhat-dev/vertical-slice-poc/recordstore"
	"github.com/afarhat-dev/vertical-slice-poc/recordstore/internal/instrument"
)

const (
	engineName       = "redis"
	defaultKeyPrefix = "{movielibrary}"
)

// RecordStore is the Redis storage engine.
type RecordStore struct {
	client  redis.UniversalClient
	prefix  string
	clock   func() time.Time
	in      *instrument.Instrumentation
	movies  *collection[recordstore.Movie]
	rentals *collection[recordstore.Rental]
}

// NewRecordStore creates a RecordStore on top of a Redis client with optional configuration.
func NewRecordStore(client redis.UniversalClient, options ...Option) (*RecordStore, error) {
	if client == nil {
		return nil, recordstore.ErrNilClient
	}

	s := &RecordStore{
		client: client,
		prefix: defaultKeyPrefix,
		clock:  time.Now,
		in:     &instrument.Instrumentation{Engine: engineName},
	}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}

	s.movies = &collection[recordstore.Movie]{
		client: client,
		prefix: s.prefix,
		in:     s.in,
		codec: codec[recordstore.Movie]{
			entity:  instrument.EntityMovie,
			index:   "movies",
			id:      func(m recordstore.Movie) uuid.UUID { return m.ID },
			version: func(m recordstore.Movie) recordstore.VersionToken { return m.Version },
			score:   func(m recordstore.Movie) float64 { return float64(m.CreatedAt.UnixMicro()) },
			encode:  encodeMovie,
			decode:  decodeMovie,
		},
	}

	s.rentals = &collection[recordstore.Rental]{
		client: client,
		prefix: s.prefix,
		in:     s.in,
		codec: codec[recordstore.Rental]{
			entity:  instrument.EntityRental,
			index:   "rentals",
			id:      func(r recordstore.Rental) uuid.UUID { return r.ID },
			version: func(r recordstore.Rental) recordstore.VersionToken { return r.Version },
			score:   func(r recordstore.Rental) float64 { return float64(r.RentalDate.UnixMicro()) },
			encode:  encodeRental,
			decode:  decodeRental,
		},
	}

	return s, nil
}

// Movies returns the movie repository.
func (s *RecordStore) Movies() recordstore.MovieRepository {
	return movieRepository{s: s}
}

// Rentals returns the rental repository.
func (s *RecordStore) Rentals() recordstore.RentalRepository {
	return rentalRepository{s: s}
}

func (s *RecordStore) now() time.Time {
	return recordstore.ToTimestamp(s.clock())
}

/***** movies *****/

type movieRepository struct {
	s *RecordStore
}

func (r movieRepository) GetByID(ctx context.Context, id uuid.UUID) (recordstore.Movie, error) {
	return r.s.movies.getByID(ctx, id)
}

func (r movieRepository) GetAll(ctx context.Context) ([]recordstore.Movie, error) {
	return r.s.movies.list(ctx, instrument.OperationGetAll, func(recordstore.Movie) bool { return true }, recordstore.SortMoviesNewestFirst)
}

func (r movieRepository) Search(ctx context.Context, filter recordstore.MovieFilter) ([]recordstore.Movie, error) {
	return r.s.movies.list(ctx, instrument.OperationSearch, filter.Matches, recordstore.SortMoviesNewestFirst)
}

func (r movieRepository) Add(ctx context.Context, movie recordstore.Movie) (recordstore.Movie, error) {
	movie = movie.Clone()
	if movie.ID == uuid.Nil {
		movie.ID = uuid.New()
	}

	now := r.s.now()
	movie.CreatedAt = now
	movie.UpdatedAt = now
	movie.Version = recordstore.NewVersionToken()

	return r.s.movies.add(ctx, movie)
}

func (r movieRepository) Update(
	ctx context.Context,
	movie recordstore.Movie,
	expected recordstore.VersionToken,
) (recordstore.Movie, recordstore.UpdateResult, error) {

	next := movie.Clone()
	next.UpdatedAt = r.s.now()
	next.Version = recordstore.NewVersionToken()

	return r.s.movies.update(ctx, movie.ID, expected, func(stored recordstore.Movie) (recordstore.Movie, error) {
		next.CreatedAt = stored.CreatedAt
		return next, nil
	})
}

func (r movieRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.s.movies.delete(ctx, id)
}

func (r movieRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.s.movies.exists(ctx, id)
}

/***** rentals *****/

type rentalRepository struct {
	s *RecordStore
}

func (r rentalRepository) GetByID(ctx context.Context, id uuid.UUID) (recordstore.Rental, error) {
	return r.s.rentals.getByID(ctx, id)
}

func (r rentalRepository) GetAll(ctx context.Context) ([]recordstore.Rental, error) {
	return r.s.rentals.list(ctx, instrument.OperationGetAll, func(recordstore.Rental) bool { return true }, recordstore.SortRentalsNewestFirst)
}

func (r rentalRepository) Search(ctx context.Context, filter recordstore.RentalFilter) ([]recordstore.Rental, error) {
	return r.s.rentals.list(ctx, instrument.OperationSearch, filter.Matches, recordstore.SortRentalsNewestFirst)
}

func (r rentalRepository) Add(ctx context.Context, rental recordstore.Rental) (recordstore.Rental, error) {
	rental = normalizeRental(rental)
	if rental.ID == uuid.Nil {
		rental.ID = uuid.New()
	}

	if err := rental.CheckInvariants(); err != nil {
		obs, _ := r.s.in.Start(ctx, instrument.EntityRental, instrument.OperationAdd)
		obs.WithRecordID(rental.ID).Failure(err, instrument.ErrorTypeInvalid)

		return recordstore.Rental{}, err
	}

	rental.Version = recordstore.NewVersionToken()

	return r.s.rentals.add(ctx, rental)
}

func (r rentalRepository) Update(
	ctx context.Context,
	rental recordstore.Rental,
	expected recordstore.VersionToken,
) (recordstore.Rental, recordstore.UpdateResult, error) {

	next := normalizeRental(rental)
	next.Version = recordstore.NewVersionToken()

	return r.s.rentals.update(ctx, rental.ID, expected, func(stored recordstore.Rental) (recordstore.Rental, error) {
		next.MovieID = stored.MovieID
		next.ItemName = stored.ItemName
		next.RentalDate = stored.RentalDate

		return next, next.CheckInvariants()
	})
}

func (r rentalRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.s.rentals.delete(ctx, id)
}

func (r rentalRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.s.rentals.exists(ctx, id)
}

func normalizeRental(rental recordstore.Rental) recordstore.Rental {
	rental = rental.Clone()
	rental.RentalDate = recordstore.ToTimestamp(rental.RentalDate)

	if rental.ReturnDate != nil {
		returned := recordstore.ToTimestamp(*rental.ReturnDate)
		rental.ReturnDate = &returned
	}

	return rental
}
