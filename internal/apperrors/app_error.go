package apperrors

import "fmt"

// AppError wraps an underlying error with an HTTP-ish status code and a
// message safe to surface to API clients.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates a new AppError wrapping the given error.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the wrapped error to errors.Is / errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates an AppError carrying ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return NewAppError(404, message, ErrNotFound)
}

// NewConflictError creates an AppError carrying ErrDuplicate.
func NewConflictError(message string) *AppError {
	return NewAppError(409, message, ErrDuplicate)
}

// NewValidationFailedError creates an AppError carrying ErrValidation.
func NewValidationFailedError(message string) *AppError {
	return NewAppError(400, message, ErrValidation)
}
