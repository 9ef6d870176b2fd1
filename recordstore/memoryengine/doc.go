// Package memoryengine provides an in-process implementation of the recordstore repositories.
//
// Records live in concurrent xsync maps keyed by id. The compare-and-swap update runs inside
// MapOf.Compute, which holds the key's bucket lock while the stored version is compared and
// the new record is written, so concurrent updates of one record are linearizable.
// Records are deep-copied on the way in and on the way out.
//
// The engine is used by default in tests and by the server when no database is configured.
package memoryengine
