package service

import (
	"errors"

	"github.com/AdamBeresnev/league-tracker/internal/league"
)

var (
	ErrNoUser    = errors.New("user ID not found in the context")
	ErrForbidden = errors.New("tournament belongs to another user")
)

// ValidationError carries a message that is safe to show next to the form.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return league.ErrInvalidInput
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}
