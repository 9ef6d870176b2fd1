// Package getmoviebyid implements the Get Movie By ID query.
// It reads with strong consistency so the returned version token can be used for an update.
package getmoviebyid
