package service

import (
	"errors"

	"github.com/alexanderramin/studenttracker/internal/domain"
)

var (
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")

	// ErrMissingFields is returned when a log entry lacks productivity or
	// feedback.
	ErrMissingFields = errors.New("productivity level and feedback are required")
)

// isClientError reports whether err was caused by the request rather than
// the server.
func isClientError(err error) bool {
	for _, target := range []error{
		ErrInvalidCredentials, ErrInvalidToken, ErrEmailTaken,
		ErrInvalidEmail, ErrWeakPassword, ErrMissingFields,
		domain.ErrUnknownProductivity,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
