package calcerr

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is checks at the HTTP and CLI edges.
var (
	ErrInvalidInput = errors.New("invalid input")
	// ErrBoundsExceeded marks a cable run that no standard size can satisfy.
	// Sizing returns a result regardless; see cable.Result.Err.
	ErrBoundsExceeded = errors.New("computation bounds exceeded")
)

// InvalidInputError names the offending field so callers can point at it.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

// Invalid is shorthand for &InvalidInputError{...}.
func Invalid(field, reason string) error {
	return &InvalidInputError{Field: field, Reason: reason}
}

type MissingCategoryError struct {
	Category string
}

func (e *MissingCategoryError) Error() string {
	return fmt.Sprintf("missing category: %s", e.Category)
}

func (e *MissingCategoryError) Unwrap() error { return ErrInvalidInput }

type InvalidCountError struct {
	Field string
	Value int
}

func (e *InvalidCountError) Error() string {
	return fmt.Sprintf("invalid count: %s=%d", e.Field, e.Value)
}

func (e *InvalidCountError) Unwrap() error { return ErrInvalidInput }

// Field extracts the offending field name from any of the typed errors, or "".
func Field(err error) string {
	var inv *InvalidInputError
	if errors.As(err, &inv) {
		return inv.Field
	}
	var miss *MissingCategoryError
	if errors.As(err, &miss) {
		return miss.Category
	}
	var cnt *InvalidCountError
	if errors.As(err, &cnt) {
		return cnt.Field
	}
	return ""
}
