package domain

import "errors"

// Sentinel errors shared by the service and repository layers. Handlers map
// these to HTTP statuses; wrap with fmt.Errorf("...: %w", Err...) to attach
// detail without losing the category.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInsufficientSeats  = errors.New("insufficient seats available")
	ErrInvalidTransition  = errors.New("invalid booking status transition")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrConflict           = errors.New("concurrent update conflict")
)
