package errors

import (
	"fmt"
	"net/http"
)

// APIError represents a custom error type for API responses
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Details string `json:"details,omitempty"`
}

// Error returns the error message
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAPIError(code, message string, status int, details ...string) *APIError {
	err := &APIError{
		Code:    code,
		Message: message,
		Status:  status,
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}

var (
	ErrInvalidInput = NewAPIError("INVALID_INPUT", "Invalid request data", http.StatusBadRequest)
	ErrUnauthorized = NewAPIError("UNAUTHORIZED", "Authentication required", http.StatusUnauthorized)
	ErrForbidden    = NewAPIError("FORBIDDEN", "You are not allowed to do that", http.StatusForbidden)
	ErrNotFound     = NewAPIError("NOT_FOUND", "Resource not found", http.StatusNotFound)
	ErrInternal     = NewAPIError("INTERNAL_SERVER_ERROR", "An unknown error occurred. Please try again later.", http.StatusInternalServerError)
	ErrConflict     = NewAPIError("CONFLICT", "Resource conflict", http.StatusConflict)

	ErrImageTooLarge = NewAPIError("IMAGE_TOO_LARGE", "Image exceeds the 10 MiB limit.", http.StatusRequestEntityTooLarge)

	// Identity collaborator codes, mapped to the user-facing strings the
	// client shows for them.
	ErrEmailInUse         = NewAPIError("EMAIL_IN_USE", "This email is already in use. Please try another.", http.StatusConflict)
	ErrInvalidEmail       = NewAPIError("INVALID_EMAIL", "The email address is badly formatted.", http.StatusBadRequest)
	ErrWeakPassword       = NewAPIError("WEAK_PASSWORD", "Password should be at least 6 characters long.", http.StatusBadRequest)
	ErrInvalidCredentials = NewAPIError("INVALID_CREDENTIALS", "Incorrect email or password. Please try again.", http.StatusUnauthorized)
	ErrNetwork            = NewAPIError("NETWORK_ERROR", "Please check your network connection and retry.", http.StatusBadGateway)
)

// Validation builds a blocking validation error caught before any store call.
func Validation(message string) *APIError {
	return NewAPIError("VALIDATION_ERROR", message, http.StatusBadRequest)
}

func Wrap(err error, code, message string, status int) *APIError {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr
	}
	return NewAPIError(code, message, status, err.Error())
}
