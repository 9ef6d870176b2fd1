// Package app assembles the movie library: it builds the command and query handlers on top of a
// recordstore.Store and wraps each of them with the observable wrappers.
package app
