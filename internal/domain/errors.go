package domain

import "errors"

var (
	ErrCarNotFound         = errors.New("car not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrUserNotFound        = errors.New("user not found")
)

var (
	ErrInvalidDateRange = errors.New("end date must be at least one day after start date")
	ErrInvalidQuery     = errors.New("invalid query")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrValidation       = errors.New("validation error")
)

var (
	ErrCarUnavailable   = errors.New("car is not available")
	ErrAlreadyCancelled = errors.New("reservation is already cancelled")
	ErrConcurrentUpdate = errors.New("record was modified concurrently")
	ErrEmailTaken       = errors.New("email is already registered")
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ErrPersistence marks failures of the store itself. A write may or may not
// have been applied when it is returned.
var ErrPersistence = errors.New("persistence failure")

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindNotFound
	KindInvalidInput
	KindConflict
	KindUnauthorized
	KindForbidden
	KindPersistence
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidInput:
		return "invalid_input"
	case KindConflict:
		return "conflicting_state"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindPersistence:
		return "persistence_failure"
	default:
		return "internal"
	}
}

// KindOf classifies err. Unknown errors are KindInternal.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindInternal
	case errors.Is(err, ErrCarNotFound), errors.Is(err, ErrReservationNotFound), errors.Is(err, ErrUserNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidDateRange), errors.Is(err, ErrInvalidQuery),
		errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrValidation):
		return KindInvalidInput
	case errors.Is(err, ErrCarUnavailable), errors.Is(err, ErrAlreadyCancelled),
		errors.Is(err, ErrConcurrentUpdate), errors.Is(err, ErrEmailTaken):
		return KindConflict
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidCredentials):
		return KindUnauthorized
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrPersistence):
		return KindPersistence
	}
	return KindInternal
}
