package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the caller is not allowed to act on the workplace or resource.
var ErrForbidden = errors.New("forbidden")

// ErrConflict indicates the stored state changed underneath the caller (stale version, race).
var ErrConflict = errors.New("conflict")

// ErrInternal is returned when a failure should not leak details to the caller.
var ErrInternal = errors.New("internal error")

// ErrInvalidState is returned when a reconciliation session is not in the state an operation requires,
// e.g. matching against a completed session. It is a validation error.
var ErrInvalidState = fmt.Errorf("%w: session is not in the required state", ErrValidation)

// ErrAlreadyMatched is returned when a bank entry or ledger transaction already has an active match.
var ErrAlreadyMatched = fmt.Errorf("%w: already matched", ErrConflict)

// ErrUnsupportedFormat is returned for statement files that are neither CSV nor OFX/QFX.
var ErrUnsupportedFormat = errors.New("unsupported statement format")

// ErrEmptyOrUnparseable is returned when a statement yields no usable rows.
var ErrEmptyOrUnparseable = errors.New("statement is empty or unparseable")

// AppError carries an HTTP-ish status code alongside the wrapped cause. Used by the persistence layer.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError. err may be nil.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
