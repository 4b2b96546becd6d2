package apperror

import "net/http"

// AppError is a custom error type that includes an HTTP status code and an optional underlying error.
type AppError struct {
	Code    int    // HTTP Status Code (e.g., 400, 404)
	Message string // User-facing error message
	Err     error  // The underlying error, if any (not exposed to user)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AppError with the same code and message,
// so wrapped copies of a sentinel still match it.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// New creates a new AppError with a status code and message.
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new AppError wrapping an existing error.
func Wrap(err error, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Validation is a malformed or missing input.
func Validation(message string) *AppError { return New(http.StatusBadRequest, message) }

// Conflict is a request that clashes with existing state.
func Conflict(message string) *AppError { return New(http.StatusConflict, message) }

// Forbidden is a request whose caller does not own the target.
func Forbidden(message string) *AppError { return New(http.StatusForbidden, message) }

// NotFound is a request for something that does not exist.
func NotFound(message string) *AppError { return New(http.StatusNotFound, message) }
