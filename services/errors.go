package services

import (
	"context"
	"errors"
	"fmt"

	gomysql "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// Error kinds. Every error returned by this package matches exactly one of
// these with errors.Is; controllers map the kind to a status code.
var (
	ErrInvalidInput = errors.New("invalid_input")
	ErrNotFound     = errors.New("not_found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrTimeout      = errors.New("timeout")
	ErrInternal     = errors.New("internal")
)

var (
	ErrInvalidRange    = fmt.Errorf("%w: start_date must be before end_date", ErrInvalidInput)
	ErrInvalidCategory = fmt.Errorf("%w: unknown category", ErrInvalidInput)

	ErrHotelNotFound   = fmt.Errorf("%w: hotel", ErrNotFound)
	ErrPlaceNotFound   = fmt.Errorf("%w: place", ErrNotFound)
	ErrBookingNotFound = fmt.Errorf("%w: booking", ErrNotFound)
	ErrAccountNotFound = fmt.Errorf("%w: account", ErrNotFound)

	ErrBookingConflict = fmt.Errorf("%w: room already booked for these dates", ErrConflict)
	ErrEmailTaken      = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrPlaceInUse      = fmt.Errorf("%w: place has bookings", ErrConflict)

	ErrBadCredential = fmt.Errorf("%w: bad credential", ErrUnauthorized)
	ErrInvalidToken  = fmt.Errorf("%w: invalid token", ErrUnauthorized)
)

// invalid builds a validation error carrying a field-level message.
func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// dbError classifies a storage error. op names the operation for logs.
func dbError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", op, ErrTimeout)
	default:
		return fmt.Errorf("%s: %w: %v", op, ErrInternal, err)
	}
}

// isDuplicateKey covers gorm's translated error and raw MySQL 1062 for
// dialects that do not translate.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var merr *gomysql.MySQLError
	return errors.As(err, &merr) && merr.Number == 1062
}
