// Package adapters provide database adapter implementations for the PostgreSQL record store.
//
// This package implements the adapter pattern to support multiple PostgreSQL database libraries:
// pgx.Pool, sql.DB, and sqlx.DB. All adapters provide equivalent functionality through
// a common DBAdapter interface, allowing the record store to work with any
// supported database connection type.
//
// Statements are always executed with positional arguments ($1, $2, ...).
package adapters
