package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidCredentials is returned when no single credential row matches.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrMissingToken is returned when the Authorization header is not "Bearer <token>".
	ErrMissingToken = errors.New("missing token")
	// ErrInvalidToken covers malformed, expired and badly signed tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrStoreUnavailable is returned when the record store cannot be reached or queried.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrEmployeeNotFound is returned when an update matched no row.
	ErrEmployeeNotFound = errors.New("employee not found")
	// ErrRowSaveFailed is returned client side when a single row could not be persisted.
	ErrRowSaveFailed = errors.New("row save failed")
	// ErrUnauthorized is returned client side when the server rejected the session token.
	ErrUnauthorized = errors.New("unauthorized")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Wrapped errors are matched too.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrMissingToken):
		return NewHTTPError(http.StatusUnauthorized, ErrMissingToken.Error(), "MISSING_TOKEN")
	case errors.Is(err, ErrInvalidToken):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidToken.Error(), "INVALID_TOKEN")
	case errors.Is(err, ErrEmployeeNotFound):
		return NewHTTPError(http.StatusNotFound, ErrEmployeeNotFound.Error(), "EMPLOYEE_NOT_FOUND")
	case errors.Is(err, ErrStoreUnavailable):
		return NewHTTPError(http.StatusInternalServerError, "server error", "STORE_UNAVAILABLE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
