package postgresengine

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"

	"github.com/afarhat-dev/vertical-slice-poc/recordstore"
	"github.com/afarhat-dev/vertical-slice-poc/recordstore/internal/instrument"
	"github.com/afarhat-dev/vertical-slice-poc/recordstore/postgresengine/internal/adapters"
)

const (
	colMovieID        = "movie_id"
	colCustomerName   = "customer_name"
	colItemName       = "item_name"
	colRentalDate     = "rental_date"
	colReturnDate     = "return_date"
	colDailyRateCents = "daily_rate_cents"
	colStatus         = "status"
)

var rentalColumns = []any{
	colID, colMovieID, colCustomerName, colItemName, colRentalDate,
	colReturnDate, colDailyRateCents, colStatus, colVersion,
}

type rentalRepository struct {
	s *RecordStore
}

// GetByID loads one rental. It returns an error wrapping recordstore.ErrNotFound if there is none.
func (r rentalRepository) GetByID(ctx context.Context, id uuid.UUID) (recordstore.Rental, error) {
	obs, ctx := r.s.in.Start(ctx, instrument.EntityRental, instrument.OperationGetByID)
	obs.WithRecordID(id)

	sqlQuery, args, toSQLErr := r.selectRentals().Where(goqu.Ex{colID: id}).ToSQL()
	if toSQLErr != nil {
		return recordstore.Rental{}, buildQueryFailed(obs, toSQLErr)
	}

	rentals, err := r.queryRentals(ctx, obs, sqlQuery, args)
	if err != nil {
		return recordstore.Rental{}, err
	}

	if len(rentals) == 0 {
		obs.NotFound()
		return recordstore.Rental{}, notFound(instrument.EntityRental, id)
	}

	obs.Success(1)

	return rentals[0], nil
}

// GetAll loads all rentals, newest rental date first.
func (r rentalRepository) GetAll(ctx context.Context) ([]recordstore.Rental, error) {
	obs, ctx := r.s.in.Start(ctx, instrument.EntityRental, instrument.OperationGetAll)

	sqlQuery, args, toSQLErr := r.selectRentals().Order(rentalOrder()...).ToSQL()
	if toSQLErr != nil {
		return nil, buildQueryFailed(obs, toSQLErr)
	}

	rentals, err := r.queryRentals(ctx, obs, sqlQuery, args)
	if err != nil {
		return nil, err
	}

	obs.Success(len(rentals))

	return rentals, nil
}

// Search loads all rentals matching the filter, newest rental date first.
func (r rentalRepository) Search(ctx context.Context, filter recordstore.RentalFilter) ([]recordstore.Rental, error) {
	obs, ctx := r.s.in.Start(ctx, instrument.EntityRental, instrument.OperationSearch)

	sqlQuery, args, toSQLErr := r.selectRentals().
		Where(rentalConditions(filter)...).
		Order(rentalOrder()...).
		ToSQL()
	if toSQLErr != nil {
		return nil, buildQueryFailed(obs, toSQLErr)
	}

	rentals, err := r.queryRentals(ctx, obs, sqlQuery, args)
	if err != nil {
		return nil, err
	}

	obs.Success(len(rentals))

	return rentals, nil
}

// Add inserts a new rental. It assigns an ID if none is set and a fresh Version.
func (r rentalRepository) Add(ctx context.Context, rental recordstore.Rental) (recordstore.Rental, error) {
	obs, ctx := r.s.in.Start(ctx, instrument.EntityRental, instrument.OperationAdd)

	rental = normalizeRental(rental)
	if rental.ID == uuid.Nil {
		rental.ID = uuid.New()
	}

	obs.WithRecordID(rental.ID)

	if err := rental.CheckInvariants(); err != nil {
		obs.Failure(err, instrument.ErrorTypeInvalid)
		return recordstore.Rental{}, err
	}

	rental.Version = recordstore.NewVersionToken()

	record := rentalMutableFields(rental)
	record[colID] = rental.ID
	record[colMovieID] = rental.MovieID
	record[colItemName] = rental.ItemName
	record[colRentalDate] = rental.RentalDate

	sqlQuery, args, toSQLErr := r.s.dialect().
		Insert(r.s.rentalTableName).
		Prepared(true).
		Rows(record).
		OnConflict(goqu.DoNothing()).
		Returning(rentalColumns...).
		ToSQL()
	if toSQLErr != nil {
		return recordstore.Rental{}, buildQueryFailed(obs, toSQLErr)
	}

	inserted, err := r.queryRentals(recordstore.WithStrongConsistency(ctx), obs, sqlQuery, args)
	if err != nil {
		return recordstore.Rental{}, err
	}

	if len(inserted) == 0 {
		obs.Failure(recordstore.ErrRecordAlreadyExists, instrument.ErrorTypeDuplicate)
		return recordstore.Rental{}, recordstore.ErrRecordAlreadyExists
	}

	obs.Success(-1)

	return inserted[0], nil
}

// Update replaces the rental's mutable fields if the stored version equals expected.
// MovieID, ItemName and RentalDate are never written.
func (r rentalRepository) Update(
	ctx context.Context,
	rental recordstore.Rental,
	expected recordstore.VersionToken,
) (recordstore.Rental, recordstore.UpdateResult, error) {

	obs, ctx := r.s.in.Start(ctx, instrument.EntityRental, instrument.OperationUpdate)
	obs.WithRecordID(rental.ID)
	ctx = recordstore.WithStrongConsistency(ctx)

	rental = normalizeRental(rental)

	if invalidErr := rental.CheckInvariants(); invalidErr != nil {
		found, err := r.s.exists(ctx, obs, r.s.rentalTableName, rental.ID)
		if err != nil {
			return recordstore.Rental{}, 0, err
		}

		if !found {
			obs.NotFound()
			return recordstore.Rental{}, recordstore.UpdateNotFound, nil
		}

		obs.Failure(invalidErr, instrument.ErrorTypeInvalid)

		return recordstore.Rental{}, 0, invalidErr
	}

	rental.Version = recordstore.NewVersionToken()

	sqlQuery, args, toSQLErr := r.s.dialect().
		Update(r.s.rentalTableName).
		Prepared(true).
		Set(rentalMutableFields(rental)).
		Where(goqu.Ex{colID: rental.ID, colVersion: []byte(expected)}).
		Returning(rentalColumns...).
		ToSQL()
	if toSQLErr != nil {
		return recordstore.Rental{}, 0, buildQueryFailed(obs, toSQLErr)
	}

	updated, err := r.queryRentals(ctx, obs, sqlQuery, args)
	if err != nil {
		return recordstore.Rental{}, 0, err
	}

	if len(updated) == 1 {
		obs.Success(-1)
		return updated[0], recordstore.UpdateSuccess, nil
	}

	found, err := r.s.exists(ctx, obs, r.s.rentalTableName, rental.ID)
	if err != nil {
		return recordstore.Rental{}, 0, err
	}

	if !found {
		obs.NotFound()
		return recordstore.Rental{}, recordstore.UpdateNotFound, nil
	}

	obs.Conflict()

	return recordstore.Rental{}, recordstore.UpdateConcurrencyConflict, nil
}

// Delete removes the rental and reports whether it existed.
func (r rentalRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.s.deleteByID(ctx, instrument.EntityRental, r.s.rentalTableName, id)
}

// Exists reports whether a rental with the given id is stored.
func (r rentalRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.s.existsByID(ctx, instrument.EntityRental, r.s.rentalTableName, id)
}

func (r rentalRepository) selectRentals() *goqu.SelectDataset {
	return r.s.dialect().
		From(r.s.rentalTableName).
		Prepared(true).
		Select(rentalColumns...)
}

func (r rentalRepository) queryRentals(
	ctx context.Context,
	obs *instrument.Observation,
	sqlQuery string,
	args []any,
) ([]recordstore.Rental, error) {

	rentals := make([]recordstore.Rental, 0)
	err := r.s.query(ctx, obs, sqlQuery, args, func(rows adapters.DBRows) error {
		rental, scanErr := scanRental(rows)
		if scanErr != nil {
			return scanErr
		}

		rentals = append(rentals, rental)

		return nil
	})

	return rentals, err
}

func scanRental(rows adapters.DBRows) (recordstore.Rental, error) {
	var (
		rental     recordstore.Rental
		rentalDate time.Time
		returnDate sql.NullTime
		rateCents  int64
		status     string
		version    []byte
	)

	if err := rows.Scan(
		&rental.ID,
		&rental.MovieID,
		&rental.CustomerName,
		&rental.ItemName,
		&rentalDate,
		&returnDate,
		&rateCents,
		&status,
		&version,
	); err != nil {
		return recordstore.Rental{}, err
	}

	rental.RentalDate = recordstore.ToTimestamp(rentalDate)

	if returnDate.Valid {
		returned := recordstore.ToTimestamp(returnDate.Time)
		rental.ReturnDate = &returned
	}

	rental.DailyRate = recordstore.Money(rateCents)
	rental.Status = recordstore.RentalStatus(status)
	rental.Version = recordstore.VersionToken(version).Clone()

	return rental, nil
}

// rentalMutableFields returns the columns written by both Add and Update.
func rentalMutableFields(rental recordstore.Rental) goqu.Record {
	record := goqu.Record{
		colCustomerName:   rental.CustomerName,
		colReturnDate:     nil,
		colDailyRateCents: int64(rental.DailyRate),
		colStatus:         string(rental.Status),
		colVersion:        []byte(rental.Version),
	}

	if rental.ReturnDate != nil {
		record[colReturnDate] = *rental.ReturnDate
	}

	return record
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

func rentalConditions(filter recordstore.RentalFilter) []exp.Expression {
	conditions := make([]exp.Expression, 0)

	if movieID, ok := filter.MovieID(); ok {
		conditions = append(conditions, goqu.C(colMovieID).Eq(movieID))
	}

	if customerName := filter.CustomerName(); customerName != "" {
		conditions = append(conditions, goqu.C(colCustomerName).ILike(containsPattern(customerName)))
	}

	if status, ok := filter.Status(); ok {
		conditions = append(conditions, goqu.C(colStatus).Eq(string(status)))
	}

	return conditions
}

func rentalOrder() []exp.OrderedExpression {
	return []exp.OrderedExpression{goqu.C(colRentalDate).Desc(), goqu.C(colID).Asc()}
}
