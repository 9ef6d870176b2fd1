// Package api exposes the movie library's command and query handlers over HTTP.
//
// Routes live under /api. Version tokens travel as base64 strings and money as decimal numbers.
// Errors are mapped to status codes in one place: validation, invalid input and invalid state
// transitions are 400, unknown records 404 and concurrency conflicts 409.
package api
