package apierr

import (
	"errors"
	"net/http"
)

// Error is a structured API error carrying a stable machine code, a human
// message and the HTTP status it maps to. All domain failures use this type
// and reach the boundary unmodified.
type Error struct {
	Code    string
	Message string
	Status  int
}

func (e *Error) Error() string {
	return e.Message
}

// New creates a structured API error.
func New(code, message string, status int) *Error {
	return &Error{Code: code, Message: message, Status: status}
}

// Validation returns a 422 validation error.
func Validation(message string) *Error {
	return New("validation_error", message, http.StatusUnprocessableEntity)
}

// Unauthorized returns the generic 401 used when a token is missing its
// meaning: invalid signature, expired, or the subject no longer exists.
// Intentionally a single error so callers cannot tell which check failed.
func Unauthorized() *Error {
	return New("unauthorized", "Could not validate credentials", http.StatusUnauthorized)
}

// InvalidCredentials returns the generic 401 for failed logins. Unknown
// identifier and wrong password collapse into one code to prevent user
// enumeration.
func InvalidCredentials() *Error {
	return New("invalid_credentials", "Incorrect username or password", http.StatusUnauthorized)
}

// Forbidden returns the 403 used when a resource exists but belongs to a
// different owner.
func Forbidden(message string) *Error {
	return New("forbidden", message, http.StatusForbidden)
}

// WishNotFound returns the 404 used when no wish with the requested id
// exists at all.
func WishNotFound() *Error {
	return New("wish_not_found", "Wish not found", http.StatusNotFound)
}

// NotFound returns a generic 404.
func NotFound(message string) *Error {
	return New("not_found", message, http.StatusNotFound)
}

// UserExists returns the registration conflict error.
func UserExists() *Error {
	return New("user_exists", "User with this email or username already exists", http.StatusBadRequest)
}

// From extracts a structured *Error from err, or nil if err is not one.
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}
