// Package postgresengine provides a PostgreSQL implementation of the recordstore repositories.
//
// It supports multiple database adapters (pgx, sql.DB, sqlx) and implements the
// compare-and-swap update as a single conditional statement:
//
//	UPDATE movies SET ..., version = $new WHERE id = $id AND version = $expected RETURNING ...
//
// When no row comes back, an existence probe on the primary tells a missing record
// apart from a stale version token.
//
// Usage examples:
//
//	// Basic usage
//	db, _ := pgxpool.New(context.Background(), dsn)
//	store, _ := postgresengine.NewRecordStoreFromPGXPool(db)
//	_ = store.CreateSchema(ctx)
//
//	// With observability
//	store, _ := postgresengine.NewRecordStoreFromPGXPool(
//		db,
//		postgresengine.WithMovieTableName("catalog_movies"),
//		postgresengine.WithLogger(logger),
//		postgresengine.WithMetrics(metricsCollector),
//		postgresengine.WithTracing(tracingCollector),
//	)
//
//	movie, _ := store.Movies().Add(ctx, recordstore.Movie{Title: "Alien"})
//	_, result, _ := store.Movies().Update(ctx, movie, movie.Version)
package postgresengine
