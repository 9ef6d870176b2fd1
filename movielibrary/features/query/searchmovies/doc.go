// Package searchmovies implements the Search Movies query.
//
// All given criteria must match. Text criteria are case-insensitive substrings,
// year bounds are inclusive and the rating bound is a minimum.
package searchmovies
