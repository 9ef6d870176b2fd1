package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/afarhat-dev/vertical-slice-poc/recordstore"
	"github.com/afarhat-dev/vertical-slice-poc/recordstore/internal/instrument"
	"github.com/afarhat-dev/vertical-slice-poc/recordstore/postgresengine/internal/adapters"
)

const (
	engineName             = "postgres"
	defaultMovieTableName  = "movies"
	defaultRentalTableName = "rentals"
	dialectPostgres        = "postgres"
	logMsgCloseRowsFailed  = "failed to close database rows"
	logActionQuery         = "query"
	logActionWrite         = "write"
	logActionSchema        = "schema"
	colID                  = "id"
	colVersion             = "version"
)

// RecordStore is the PostgreSQL storage engine. It hands out repositories for movies and rentals
// which share its connection, table configuration and observability collectors.
type RecordStore struct {
	db              adapters.DBAdapter
	movieTableName  string
	rentalTableName string
	clock           func() time.Time
	in              instrument.Instrumentation
}

// NewRecordStoreFromPGXPool creates a new RecordStore using a pgx Pool with optional configuration.
func NewRecordStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (*RecordStore, error) {
	if db == nil {
		return nil, recordstore.ErrNilDatabaseConnection
	}

	return newRecordStore(adapters.NewPGXAdapter(db), options...)
}

// NewRecordStoreFromPGXPoolWithReplica creates a new RecordStore using a primary and a replica pgx Pool.
// Reads run against the replica only when the context carries recordstore.WithEventualConsistency.
func NewRecordStoreFromPGXPoolWithReplica(primary *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (*RecordStore, error) {
	if primary == nil || replica == nil {
		return nil, recordstore.ErrNilDatabaseConnection
	}

	return newRecordStore(adapters.NewPGXAdapterWithReplica(primary, replica), options...)
}

// NewRecordStoreFromSQLDB creates a new RecordStore using a sql.DB with optional configuration.
func NewRecordStoreFromSQLDB(db *sql.DB, options ...Option) (*RecordStore, error) {
	if db == nil {
		return nil, recordstore.ErrNilDatabaseConnection
	}

	return newRecordStore(adapters.NewSQLAdapter(db), options...)
}

// NewRecordStoreFromSQLX creates a new RecordStore using a sqlx.DB with optional configuration.
func NewRecordStoreFromSQLX(db *sqlx.DB, options ...Option) (*RecordStore, error) {
	if db == nil {
		return nil, recordstore.ErrNilDatabaseConnection
	}

	return newRecordStore(adapters.NewSQLXAdapter(db), options...)
}

func newRecordStore(db adapters.DBAdapter, options ...Option) (*RecordStore, error) {
	s := &RecordStore{
		db:              db,
		movieTableName:  defaultMovieTableName,
		rentalTableName: defaultRentalTableName,
		clock:           time.Now,
		in:              instrument.Instrumentation{Engine: engineName},
	}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
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

// CreateSchema creates the movie and rental tables and their indexes if they don't exist yet.
func (s *RecordStore) CreateSchema(ctx context.Context) error {
	for _, statement := range schemaStatements(s.movieTableName, s.rentalTableName) {
		start := time.Now()
		_, err := s.db.Exec(ctx, statement)
		s.in.LogStatement(ctx, statement, logActionSchema, time.Since(start))

		if err != nil {
			return errors.Join(recordstore.ErrWritingFailed, err)
		}
	}

	return nil
}

// now returns the store clock's current time with the precision Postgres persists.
func (s *RecordStore) now() time.Time {
	return recordstore.ToTimestamp(s.clock())
}

func (s *RecordStore) dialect() goqu.DialectWrapper {
	return goqu.Dialect(dialectPostgres)
}

// query runs a read statement and hands every row to scan.
func (s *RecordStore) query(
	ctx context.Context,
	obs *instrument.Observation,
	sqlQuery string,
	args []any,
	scan func(rows adapters.DBRows) error,
) error {

	start := time.Now()
	rows, queryErr := s.db.Query(ctx, sqlQuery, args...)
	s.in.LogStatement(ctx, sqlQuery, logActionQuery, time.Since(start))

	if queryErr != nil {
		err := errors.Join(recordstore.ErrQueryingFailed, queryErr)
		obs.Failure(err, instrument.ErrorTypeQuery)

		return err
	}
	defer s.closeRows(ctx, rows)

	for rows.Next() {
		if scanErr := scan(rows); scanErr != nil {
			err := errors.Join(recordstore.ErrScanningDBRowFailed, scanErr)
			obs.Failure(err, instrument.ErrorTypeScan)

			return err
		}
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		err := errors.Join(recordstore.ErrQueryingFailed, rowsErr)
		obs.Failure(err, instrument.ErrorTypeQuery)

		return err
	}

	return nil
}

// exec runs a write statement and returns the number of affected rows.
func (s *RecordStore) exec(ctx context.Context, obs *instrument.Observation, sqlQuery string, args []any) (int64, error) {
	start := time.Now()
	result, execErr := s.db.Exec(ctx, sqlQuery, args...)
	s.in.LogStatement(ctx, sqlQuery, logActionWrite, time.Since(start))

	if execErr != nil {
		err := errors.Join(recordstore.ErrWritingFailed, execErr)
		obs.Failure(err, instrument.ErrorTypeWrite)

		return 0, err
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		err := errors.Join(recordstore.ErrGettingRowsAffectedFailed, rowsAffectedErr)
		obs.Failure(err, instrument.ErrorTypeRowsAffected)

		return 0, err
	}

	return rowsAffected, nil
}

// exists probes the primary for a row with the given id.
func (s *RecordStore) exists(ctx context.Context, obs *instrument.Observation, table string, id any) (bool, error) {
	sqlQuery, args, toSQLErr := s.dialect().
		From(table).
		Prepared(true).
		Select(goqu.L("1")).
		Where(goqu.Ex{colID: id}).
		Limit(1).
		ToSQL()
	if toSQLErr != nil {
		err := errors.Join(recordstore.ErrBuildingQueryFailed, toSQLErr)
		obs.Failure(err, instrument.ErrorTypeBuildQuery)

		return false, err
	}

	found := false
	queryErr := s.query(ctx, obs, sqlQuery, args, func(rows adapters.DBRows) error {
		var one int
		found = true

		return rows.Scan(&one)
	})

	return found, queryErr
}

// closeRows closes database rows and logs any errors.
func (s *RecordStore) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		s.in.LogWarning(ctx, logMsgCloseRowsFailed, closeErr)
	}
}

func buildQueryFailed(obs *instrument.Observation, toSQLErr error) error {
	err := errors.Join(recordstore.ErrBuildingQueryFailed, toSQLErr)
	obs.Failure(err, instrument.ErrorTypeBuildQuery)

	return err
}

// containsPattern builds an ILIKE pattern matching s anywhere, with LIKE wildcards in s escaped.
func containsPattern(s string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + escaped + "%"
}

func notFound(entity string, id fmt.Stringer) error {
	return fmt.Errorf("%w: %s %s", recordstore.ErrNotFound, entity, id)
}

func (s *RecordStore) deleteByID(ctx context.Context, entity string, table string, id uuid.UUID) (bool, error) {
	obs, ctx := s.in.Start(ctx, entity, instrument.OperationDelete)
	obs.WithRecordID(id)

	sqlQuery, args, toSQLErr := s.dialect().
		Delete(table).
		Prepared(true).
		Where(goqu.Ex{colID: id}).
		ToSQL()
	if toSQLErr != nil {
		return false, buildQueryFailed(obs, toSQLErr)
	}

	rowsAffected, err := s.exec(ctx, obs, sqlQuery, args)
	if err != nil {
		return false, err
	}

	if rowsAffected == 0 {
		obs.NotFound()
		return false, nil
	}

	obs.Success(-1)

	return true, nil
}

func (s *RecordStore) existsByID(ctx context.Context, entity string, table string, id uuid.UUID) (bool, error) {
	obs, ctx := s.in.Start(ctx, entity, instrument.OperationExists)
	obs.WithRecordID(id)

	found, err := s.exists(ctx, obs, table, id)
	if err != nil {
		return false, err
	}

	obs.Success(-1)

	return found, nil
}
