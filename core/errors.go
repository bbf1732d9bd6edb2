package core

import "github.com/pkg/errors"

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// AuthenticationError reports bad credentials.
type AuthenticationError struct {
	message string
}

func NewAuthenticationError(msg string) error { return &AuthenticationError{message: msg} }

func (err AuthenticationError) Error() string { return err.message }

// AuthorizationError reports an actor attempting an operation their role does
// not permit, or presenting an invalid/used activation code.
type AuthorizationError struct {
	message string
}

func NewAuthorizationError(msg string) error { return &AuthorizationError{message: msg} }

func (err AuthorizationError) Error() string { return err.message }

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	message string
}

func NewNotFoundError(msg string) error { return &NotFoundError{message: msg} }

func (err NotFoundError) Error() string { return err.message }

// ConflictError reports a duplicate unique key.
type ConflictError struct {
	message string
}

func NewConflictError(msg string) error { return &ConflictError{message: msg} }

func (err ConflictError) Error() string { return err.message }

// TransportError wraps a failure talking to the external data store.
type TransportError struct {
	Op  string
	Err error
}

func NewTransportError(op string, err error) error { return &TransportError{Op: op, Err: err} }

func (err TransportError) Error() string { return err.Op + ": " + err.Err.Error() }
func (err TransportError) Unwrap() error { return err.Err }

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
