package domain

import (
	"errors"
	"fmt"
)

// Storage errors. Write failures carry fixed messages and propagate to the
// caller; read failures are swallowed by the stores and degrade to "absent".
var (
	ErrTokenWriteFailed        = errors.New("Failed to store authentication token")
	ErrRefreshTokenWriteFailed = errors.New("Failed to store refresh token")
	ErrProfileWriteFailed      = errors.New("Failed to store user data")
)

// Auth policy errors
var (
	ErrContractorsOnly = errors.New("This app is only available for contractors. Please use the web app.")
	ErrSessionExpired  = errors.New("session expired")
)

// APIError represents a non-success response from the TrustBuild backend.
// StatusCode 401 triggers an automatic session clear in the API client.
type APIError struct {
	Message    string
	StatusCode int
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

// NewAPIError creates an APIError, falling back to a generic message
func NewAPIError(statusCode int, message string) *APIError {
	if message == "" {
		message = "An error occurred"
	}
	return &APIError{Message: message, StatusCode: statusCode}
}

// IsUnauthorized reports whether err is an APIError with status 401
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 401
}
