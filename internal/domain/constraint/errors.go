// Package constraint holds the validation and integrity failures shared by the
// planner domains.
package constraint

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidWeekday = errors.New("week must be a Monday")
	ErrNegativeValue  = errors.New("value must not be negative")
	ErrDuplicateEntry = errors.New("duplicate entry")
	ErrReferenceInUse = errors.New("referenced by other records")
	ErrNameRequired   = errors.New("name is required")
	ErrNameTooLong    = errors.New("name is too long")
)

// FieldError ties a validation failure to the input field that caused it.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func Field(field string, err error) error {
	if err == nil {
		return nil
	}
	return &FieldError{Field: field, Err: err}
}

// FieldOf returns the offending field name, or "" when err carries none.
func FieldOf(err error) string {
	var fieldErr *FieldError
	if errors.As(err, &fieldErr) {
		return fieldErr.Field
	}
	return ""
}

// IsValidation reports whether err is a client input problem rather than a
// conflict with stored data.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidWeekday) ||
		errors.Is(err, ErrNegativeValue) ||
		errors.Is(err, ErrNameRequired) ||
		errors.Is(err, ErrNameTooLong)
}
