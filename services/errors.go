package services

import "errors"

var (
	// ErrStudentNotSet is returned by student-scoped operations called
	// before SetStudentID.
	ErrStudentNotSet = errors.New("student ID not set")

	// ErrInvalidFormat means the model did not return parseable JSON
	// where structured output was requested. Hard failure, no fallback:
	// the caller needs data, not prose.
	ErrInvalidFormat = errors.New("invalid format received")

	// ErrInvalidMealType is returned for meal types outside the fixed
	// Breakfast/Lunch/Dinner/Snack set.
	ErrInvalidMealType = errors.New("invalid meal type")

	// ErrInvalidTransition guards the meal request lifecycle.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNotAuthenticated is returned when an operation requires a real
	// profile behind the acting identity.
	ErrNotAuthenticated = errors.New("user must be authenticated")

	// ErrAmountMismatch is returned when a donation does not match the
	// target request's amount.
	ErrAmountMismatch = errors.New("donation amount must match request amount")
)
