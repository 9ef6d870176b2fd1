// Package listmovies implements the List Movies query: the whole catalog, newest first.
package listmovies
