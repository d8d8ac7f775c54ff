package warden

import (
	"errors"

	internalTypes "github.com/nikelaz/bw-mobile-app-sub000/internal/types"
)

var (
	// ErrNotAuthenticated is returned when authentication is required
	ErrNotAuthenticated = internalTypes.ErrNotAuthenticated

	// ErrLoginFailed is returned when login fails
	ErrLoginFailed = internalTypes.ErrLoginFailed

	// ErrSessionExpired is returned when session has expired
	ErrSessionExpired = internalTypes.ErrSessionExpired

	// ErrRateLimited is returned when rate limited
	ErrRateLimited = internalTypes.ErrRateLimited

	// ErrTimeout is returned on timeout
	ErrTimeout = internalTypes.ErrTimeout

	// ErrNotFound is returned when resource not found
	ErrNotFound = internalTypes.ErrNotFound

	// ErrInvalidRequest is returned for invalid requests
	ErrInvalidRequest = internalTypes.ErrInvalidRequest

	// ErrServerError is returned for server errors
	ErrServerError = internalTypes.ErrServerError

	// ErrNonFiniteAmount is returned when formatting NaN or infinity
	ErrNonFiniteAmount = errors.New("amount is not a finite number")
)

// Error represents an API error with a user-safe message
type Error = internalTypes.Error

// GenericErrorMessage is the fallback user-facing error text
const GenericErrorMessage = internalTypes.GenericErrorMessage
