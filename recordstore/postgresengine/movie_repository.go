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
	colTitle       = "title"
	colDirector    = "director"
	colGenre       = "genre"
	colDescription = "description"
	colReleaseYear = "release_year"
	colRating      = "rating"
	colCreatedAt   = "created_at"
	colUpdatedAt   = "updated_at"
)

var movieColumns = []any{
	colID, colTitle, colDirector, colGenre, colDescription,
	colReleaseYear, colRating, colCreatedAt, colUpdatedAt, colVersion,
}

type movieRepository struct {
	s *RecordStore
}

// GetByID loads one movie. It returns an error wrapping recordstore.ErrNotFound if there is none.
func (r movieRepository) GetByID(ctx context.Context, id uuid.UUID) (recordstore.Movie, error) {
	obs, ctx := r.s.in.Start(ctx, instrument.EntityMovie, instrument.OperationGetByID)
	obs.WithRecordID(id)

	sqlQuery, args, toSQLErr := r.selectMovies().Where(goqu.Ex{colID: id}).ToSQL()
	if toSQLErr != nil {
		return recordstore.Movie{}, buildQueryFailed(obs, toSQLErr)
	}

	movies, err := r.queryMovies(ctx, obs, sqlQuery, args)
	if err != nil {
		return recordstore.Movie{}, err
	}

	if len(movies) == 0 {
		obs.NotFound()
		return recordstore.Movie{}, notFound(instrument.EntityMovie, id)
	}

	obs.Success(1)

	return movies[0], nil
}

// GetAll loads all movies, newest first.
func (r movieRepository) GetAll(ctx context.Context) ([]recordstore.Movie, error) {
	obs, ctx := r.s.in.Start(ctx, instrument.EntityMovie, instrument.OperationGetAll)

	sqlQuery, args, toSQLErr := r.selectMovies().Order(movieOrder()...).ToSQL()
	if toSQLErr != nil {
		return nil, buildQueryFailed(obs, toSQLErr)
	}

	movies, err := r.queryMovies(ctx, obs, sqlQuery, args)
	if err != nil {
		return nil, err
	}

	obs.Success(len(movies))

	return movies, nil
}

// Search loads all movies matching the filter, newest first.
func (r movieRepository) Search(ctx context.Context, filter recordstore.MovieFilter) ([]recordstore.Movie, error) {
	obs, ctx := r.s.in.Start(ctx, instrument.EntityMovie, instrument.OperationSearch)

	sqlQuery, args, toSQLErr := r.selectMovies().
		Where(movieConditions(filter)...).
		Order(movieOrder()...).
		ToSQL()
	if toSQLErr != nil {
		return nil, buildQueryFailed(obs, toSQLErr)
	}

	movies, err := r.queryMovies(ctx, obs, sqlQuery, args)
	if err != nil {
		return nil, err
	}

	obs.Success(len(movies))

	return movies, nil
}

// Add inserts a new movie. It assigns an ID if none is set, plus CreatedAt, UpdatedAt and a fresh Version.
func (r movieRepository) Add(ctx context.Context, movie recordstore.Movie) (recordstore.Movie, error) {
	obs, ctx := r.s.in.Start(ctx, instrument.EntityMovie, instrument.OperationAdd)

	movie = movie.Clone()
	if movie.ID == uuid.Nil {
		movie.ID = uuid.New()
	}

	obs.WithRecordID(movie.ID)

	now := r.s.now()
	movie.CreatedAt = now
	movie.UpdatedAt = now
	movie.Version = recordstore.NewVersionToken()

	record := movieMutableFields(movie)
	record[colID] = movie.ID
	record[colCreatedAt] = movie.CreatedAt

	sqlQuery, args, toSQLErr := r.s.dialect().
		Insert(r.s.movieTableName).
		Prepared(true).
		Rows(record).
		OnConflict(goqu.DoNothing()).
		Returning(movieColumns...).
		ToSQL()
	if toSQLErr != nil {
		return recordstore.Movie{}, buildQueryFailed(obs, toSQLErr)
	}

	inserted, err := r.queryMovies(recordstore.WithStrongConsistency(ctx), obs, sqlQuery, args)
	if err != nil {
		return recordstore.Movie{}, err
	}

	if len(inserted) == 0 {
		obs.Failure(recordstore.ErrRecordAlreadyExists, instrument.ErrorTypeDuplicate)
		return recordstore.Movie{}, recordstore.ErrRecordAlreadyExists
	}

	obs.Success(-1)

	return inserted[0], nil
}

// Update replaces the movie's mutable fields if the stored version equals expected.
func (r movieRepository) Update(
	ctx context.Context,
	movie recordstore.Movie,
	expected recordstore.VersionToken,
) (recordstore.Movie, recordstore.UpdateResult, error) {

	obs, ctx := r.s.in.Start(ctx, instrument.EntityMovie, instrument.OperationUpdate)
	obs.WithRecordID(movie.ID)
	ctx = recordstore.WithStrongConsistency(ctx)

	movie = movie.Clone()
	movie.UpdatedAt = r.s.now()
	movie.Version = recordstore.NewVersionToken()

	sqlQuery, args, toSQLErr := r.s.dialect().
		Update(r.s.movieTableName).
		Prepared(true).
		Set(movieMutableFields(movie)).
		Where(goqu.Ex{colID: movie.ID, colVersion: []byte(expected)}).
		Returning(movieColumns...).
		ToSQL()
	if toSQLErr != nil {
		return recordstore.Movie{}, 0, buildQueryFailed(obs, toSQLErr)
	}

	updated, err := r.queryMovies(ctx, obs, sqlQuery, args)
	if err != nil {
		return recordstore.Movie{}, 0, err
	}

	if len(updated) == 1 {
		obs.Success(-1)
		return updated[0], recordstore.UpdateSuccess, nil
	}

	found, err := r.s.exists(ctx, obs, r.s.movieTableName, movie.ID)
	if err != nil {
		return recordstore.Movie{}, 0, err
	}

	if !found {
		obs.NotFound()
		return recordstore.Movie{}, recordstore.UpdateNotFound, nil
	}

	obs.Conflict()

	return recordstore.Movie{}, recordstore.UpdateConcurrencyConflict, nil
}

// Delete removes the movie and reports whether it existed.
func (r movieRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.s.deleteByID(ctx, instrument.EntityMovie, r.s.movieTableName, id)
}

// Exists reports whether a movie with the given id is stored.
func (r movieRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.s.existsByID(ctx, instrument.EntityMovie, r.s.movieTableName, id)
}

func (r movieRepository) selectMovies() *goqu.SelectDataset {
	return r.s.dialect().
		From(r.s.movieTableName).
		Prepared(true).
		Select(movieColumns...)
}

func (r movieRepository) queryMovies(
	ctx context.Context,
	obs *instrument.Observation,
	sqlQuery string,
	args []any,
) ([]recordstore.Movie, error) {

	movies := make([]recordstore.Movie, 0)
	err := r.s.query(ctx, obs, sqlQuery, args, func(rows adapters.DBRows) error {
		movie, scanErr := scanMovie(rows)
		if scanErr != nil {
			return scanErr
		}

		movies = append(movies, movie)

		return nil
	})

	return movies, err
}

func scanMovie(rows adapters.DBRows) (recordstore.Movie, error) {
	var (
		movie       recordstore.Movie
		releaseYear sql.NullInt64
		rating      sql.NullFloat64
		createdAt   time.Time
		updatedAt   time.Time
		version     []byte
	)

	if err := rows.Scan(
		&movie.ID,
		&movie.Title,
		&movie.Director,
		&movie.Genre,
		&movie.Description,
		&releaseYear,
		&rating,
		&createdAt,
		&updatedAt,
		&version,
	); err != nil {
		return recordstore.Movie{}, err
	}

	if releaseYear.Valid {
		year := int(releaseYear.Int64)
		movie.ReleaseYear = &year
	}

	if rating.Valid {
		value := rating.Float64
		movie.Rating = &value
	}

	movie.CreatedAt = recordstore.ToTimestamp(createdAt)
	movie.UpdatedAt = recordstore.ToTimestamp(updatedAt)
	movie.Version = recordstore.VersionToken(version).Clone()

	return movie, nil
}

// movieMutableFields returns the columns written by both Add and Update.
func movieMutableFields(movie recordstore.Movie) goqu.Record {
	record := goqu.Record{
		colTitle:       movie.Title,
		colDirector:    movie.Director,
		colGenre:       movie.Genre,
		colDescription: movie.Description,
		colReleaseYear: nil,
		colRating:      nil,
		colUpdatedAt:   movie.UpdatedAt,
		colVersion:     []byte(movie.Version),
	}

	if movie.ReleaseYear != nil {
		record[colReleaseYear] = int64(*movie.ReleaseYear)
	}

	if movie.Rating != nil {
		record[colRating] = *movie.Rating
	}

	return record
}

func movieConditions(filter recordstore.MovieFilter) []exp.Expression {
	conditions := make([]exp.Expression, 0)

	if title := filter.Title(); title != "" {
		conditions = append(conditions, goqu.C(colTitle).ILike(containsPattern(title)))
	}

	if director := filter.Director(); director != "" {
		conditions = append(conditions, goqu.C(colDirector).ILike(containsPattern(director)))
	}

	if genre := filter.Genre(); genre != "" {
		conditions = append(conditions, goqu.C(colGenre).ILike(containsPattern(genre)))
	}

	if minYear, ok := filter.MinYear(); ok {
		conditions = append(conditions, goqu.C(colReleaseYear).Gte(int64(minYear)))
	}

	if maxYear, ok := filter.MaxYear(); ok {
		conditions = append(conditions, goqu.C(colReleaseYear).Lte(int64(maxYear)))
	}

	if minRating, ok := filter.MinRating(); ok {
		conditions = append(conditions, goqu.C(colRating).Gte(minRating))
	}

	return conditions
}

func movieOrder() []exp.OrderedExpression {
	return []exp.OrderedExpression{goqu.C(colCreatedAt).Desc(), goqu.C(colID).Asc()}
}
