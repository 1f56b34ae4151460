package services

import "errors"

var (
	ErrBadCreds      = errors.New("invalid email or password")
	ErrLoginRequired = errors.New("login required")
)

// ValidationError rejects an operation before any remote call is made; it is
// shown to the shopper as-is and never mutates state.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

func validation(msg string) error { return &ValidationError{Msg: msg} }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
