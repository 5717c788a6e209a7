package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the actor's role does not permit the attempted operation.
var ErrForbidden = errors.New("operation not permitted for this role")

// ErrInvalidTransition indicates that the requested status change is not legal
// from the job's current status.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrSequenceConflict indicates that a sequence allocation could not be committed
// after exhausting its retry budget.
var ErrSequenceConflict = errors.New("sequence allocation conflict")

// ErrIncompleteSnapshot indicates that a required field was missing when locking
// a document snapshot.
var ErrIncompleteSnapshot = errors.New("incomplete snapshot")

// ErrUnauthorized indicates that the request lacks valid authentication credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrRefreshTokenExpired indicates that the presented refresh token has expired.
var ErrRefreshTokenExpired = errors.New("refresh token expired")
