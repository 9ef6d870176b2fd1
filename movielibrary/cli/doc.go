// Package cli provides the movielibrary command line: serve, migrate, seed and version.
//
// Every flag can also be set through an environment variable MOVIELIBRARY_<FLAG> with dashes
// replaced by underscores (e.g. MOVIELIBRARY_POSTGRES_DSN). .env and .env.local are loaded first.
package cli
