package common

import (
	"errors"
	"fmt"
)

var (
	ErrorInvalidValue  = errors.New("invalid value")
	ErrorInvalidDate   = errors.New("invalid date")
	ErrorEmptyDataset  = errors.New("empty dataset")
	ErrorMissingColumn = errors.New("missing column")
)

// InvalidDateError is returned when a from/to bound can't be parsed as a calendar date.
type InvalidDateError struct {
	Field string
	Value string
}

func NewInvalidDateError(field, value string) *InvalidDateError {
	return &InvalidDateError{Field: field, Value: value}
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date for %q: %q, expected YYYY-MM-DD", e.Field, e.Value)
}

func (e *InvalidDateError) Is(target error) bool {
	return target == ErrorInvalidDate
}
