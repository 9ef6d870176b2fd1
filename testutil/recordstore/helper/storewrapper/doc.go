// Package storewrapper builds the storage engine under test.
//
// The engine is chosen by the STORE_ENGINE environment variable (memory, postgres, redis;
// memory if unset). For postgres, ADAPTER_TYPE picks the driver (pgx.pool, sql.db, sqlx.db;
// pgx.pool if unset). Database-backed engines skip the test when the server is unreachable,
// so the default test run needs no infrastructure.
//
// Usage:
//
//	wrapper := storewrapper.CreateWrapperWithTestConfig(t)
//	defer wrapper.Close()
//
//	store := wrapper.GetRecordStore()
package storewrapper
