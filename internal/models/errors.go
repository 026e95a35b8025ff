package models

import "errors"

// Validation errors are returned before any state is computed or persisted.
var (
	ErrInvalidRating    = errors.New("invalid rating")
	ErrInvalidGoalLevel = errors.New("invalid goal level")
	ErrInvalidDelta     = errors.New("invalid activity delta")
	ErrInvalidItemState = errors.New("invalid item state")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidTimezone  = errors.New("invalid timezone")
)

// Errors produced while applying an operation to stored state.
var (
	ErrItemNotFound           = errors.New("item not found")
	ErrNoFreezeAvailable      = errors.New("no streak freeze available")
	ErrFreezeNotApplicable    = errors.New("streak freeze not applicable to this day")
	ErrConcurrentModification = errors.New("item was modified concurrently")
)

// ValidationError reports which input field failed validation
type ValidationError struct {
	Field string
	Err   error
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e ValidationError) Unwrap() error {
	return e.Err
}
