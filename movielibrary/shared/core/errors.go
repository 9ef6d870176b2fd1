package core

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidInput is returned when a command breaks a business rule that field validation cannot see,
	// such as a return date before the rental date.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidStateTransition is returned when a command asks for a transition out of a terminal state.
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrValidationFailed is returned when one or more fields of a command are invalid.
	ErrValidationFailed = errors.New("validation failed")
)

// ValidationError describes one invalid field.
type ValidationError struct {
	Field   string
	Message string
}

// ValidationErrors collects all invalid fields of a command.
// It matches ErrValidationFailed with errors.Is and can be extracted with errors.As.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	messages := make([]string, 0, len(v))
	for _, e := range v {
		messages = append(messages, e.Field+": "+e.Message)
	}

	return ErrValidationFailed.Error() + ": " + strings.Join(messages, "; ")
}

func (v ValidationErrors) Unwrap() error {
	return ErrValidationFailed
}
