package recordstore

import (
	"errors"
)

var (
	ErrEmptyTableNameSupplied    = errors.New("empty table name supplied")
	ErrNilDatabaseConnection     = errors.New("database connection must not be nil")
	ErrNilClient                 = errors.New("client must not be nil")
	ErrNotFound                  = errors.New("record not found")
	ErrConcurrencyConflict       = errors.New("concurrency conflict, the record was modified by another writer")
	ErrRecordAlreadyExists       = errors.New("a record with this id already exists")
	ErrInvalidRecord             = errors.New("record violates its invariants")
	ErrBuildingQueryFailed       = errors.New("building the query failed")
	ErrQueryingFailed            = errors.New("querying records failed")
	ErrScanningDBRowFailed       = errors.New("scanning the database row failed")
	ErrWritingFailed             = errors.New("writing the record failed")
	ErrGettingRowsAffectedFailed = errors.New("getting rows affected failed")
	ErrEncodingRecordFailed      = errors.New("encoding the record failed")
	ErrDecodingRecordFailed      = errors.New("decoding the record failed")
	ErrMoneyOutOfRange           = errors.New("amount is out of range")
)
