// Package updatemovie implements the Update Movie use case.
//
// The caller sends the version token it last read. The repository replaces the movie only if that
// token is still current; otherwise the command fails with a concurrency conflict and nothing changes.
package updatemovie
