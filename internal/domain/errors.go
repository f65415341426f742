package domain

import (
	"errors"
	"fmt"
)

var (
	ErrKeyNotFound        = errors.New("key not found")
	ErrNoActiveToken      = errors.New("no active token")
	ErrInvalidTokenCode   = errors.New("invalid token code")
	ErrInvalidHospital    = errors.New("hospital id is required")
	ErrMalformedRecord    = errors.New("malformed token record")
	ErrServiceUnavailable = errors.New("token service unavailable")
)

// BookingRejectedError is a structured refusal from the token service, such
// as an unknown or fully booked hospital.
type BookingRejectedError struct {
	StatusCode int
	Message    string
}

func (e *BookingRejectedError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("booking rejected: %s", e.Message)
	}
	return fmt.Sprintf("booking rejected (status %d): %s", e.StatusCode, e.Message)
}
