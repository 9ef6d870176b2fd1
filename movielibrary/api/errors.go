package api

import (
	"errors"
	"net/http"

	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/shared/core"
	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/shared/shell"
)

const (
	logMsgRequestFailed = "request failed"
	logAttrError        = "error"
	logAttrPath         = "path"
)

// statusFor maps an error to the HTTP status code of the response.
func statusFor(err error) int {
	switch {
	case shell.IsValidationError(err), shell.IsInvalidInputError(err), shell.IsInvalidStateTransitionError(err):
		return http.StatusBadRequest
	case shell.IsNotFoundError(err):
		return http.StatusNotFound
	case shell.IsConcurrencyConflictError(err):
		return http.StatusConflict
	case shell.IsTimeoutError(err):
		return http.StatusGatewayTimeout
	case shell.IsCancellationError(err):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes the error response. notFoundSubject, like "Movie with Id 42", names the record for 404 bodies.
func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error, notFoundSubject string) {
	status := statusFor(err)

	var validationErrors core.ValidationErrors
	if errors.As(err, &validationErrors) {
		body := validationResponse{Errors: make([]fieldErrorDTO, 0, len(validationErrors))}
		for _, ve := range validationErrors {
			body.Errors = append(body.Errors, fieldErrorDTO{Field: ve.Field, Message: ve.Message})
		}

		writeJSON(w, status, body)
		return
	}

	switch status {
	case http.StatusNotFound:
		writeJSON(w, status, messageResponse{Message: notFoundSubject + " not found"})
	case http.StatusConflict:
		writeJSON(w, status, messageResponse{Message: "The record was modified by someone else. Reload it and try again."})
	case http.StatusBadRequest:
		writeJSON(w, status, messageResponse{Message: lastLine(err)})
	case http.StatusInternalServerError:
		a.logger.ErrorContext(r.Context(), logMsgRequestFailed, logAttrPath, r.URL.Path, logAttrError, err.Error())
		writeJSON(w, status, messageResponse{Message: http.StatusText(status)})
	default:
		writeJSON(w, status, messageResponse{Message: http.StatusText(status)})
	}
}

// lastLine returns the most specific part of an errors.Join chain.
func lastLine(err error) string {
	msg := err.Error()
	for i := len(msg) - 1; i >= 0; i-- {
		if msg[i] == '\n' {
			return msg[i+1:]
		}
	}

	return msg
}

func badRequest(field, message string) error {
	return core.ValidationErrors{{Field: field, Message: message}}
}

