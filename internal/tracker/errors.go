package tracker

import "errors"

// Validation failures. Add and Update leave the store unchanged when they return one of these.
var (
	ErrNameRequired    = errors.New("name is required")
	ErrDueDateRequired = errors.New("due date is required")
	ErrInvalidDueDate  = errors.New("due date must be YYYY-MM-DD")
	ErrUnknownClass    = errors.New("unknown class")
)

// ErrNotFound is returned when no assignment matches the reference.
var ErrNotFound = errors.New("assignment not found")

// ErrAmbiguousRef indicates an id prefix matched more than one assignment.
var ErrAmbiguousRef = errors.New("reference matches more than one assignment")

// Import failures; the store is unchanged when Import returns one of these.
var (
	ErrParse         = errors.New("parse error")
	ErrInvalidFormat = errors.New("invalid format: expected a JSON array of assignments")
)

// IsValidation reports whether err is a rejected add or edit.
func IsValidation(err error) bool {
	return errors.Is(err, ErrNameRequired) ||
		errors.Is(err, ErrDueDateRequired) ||
		errors.Is(err, ErrInvalidDueDate) ||
		errors.Is(err, ErrUnknownClass)
}
