// Package domain holds the entity-neutral building blocks shared by every layer:
// the ownership variant and the error taxonomy.
package domain

import (
	"errors"
	"fmt"
)

// Sentinel failure classes. Callers classify with errors.Is; the concrete message
// travels in the wrapping Error.
var (
	// ErrNotFound covers absent entities and entities invisible to the caller.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists covers duplicate key/name hashes in an owner scope and
	// duplicate active (value, language) translations.
	ErrAlreadyExists = errors.New("already exists")
	// ErrUnauthorized means no caller identity was resolved for the request.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden means the caller is resolved but may not mutate the entity.
	ErrForbidden = errors.New("forbidden")
	// ErrValidation covers malformed input, unrecognized languages and
	// language/text script mismatches.
	ErrValidation = errors.New("validation failed")
	// ErrTransient marks infrastructure failures that are safe to retry, such as
	// an unreachable cache store.
	ErrTransient = errors.New("transient failure")
)

// Error attaches a message to one of the sentinel classes.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Message)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// NotFound builds an ErrNotFound for the named entity.
func NotFound(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

// AlreadyExists builds an ErrAlreadyExists with detail.
func AlreadyExists(format string, args ...any) error {
	return &Error{Kind: ErrAlreadyExists, Message: fmt.Sprintf(format, args...)}
}

// Unauthorized builds an ErrUnauthorized with detail.
func Unauthorized(format string, args ...any) error {
	return &Error{Kind: ErrUnauthorized, Message: fmt.Sprintf(format, args...)}
}

// Forbidden builds an ErrForbidden with detail.
func Forbidden(format string, args ...any) error {
	return &Error{Kind: ErrForbidden, Message: fmt.Sprintf(format, args...)}
}

// Validation builds an ErrValidation with detail.
func Validation(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

// Transient builds an ErrTransient with detail.
func Transient(format string, args ...any) error {
	return &Error{Kind: ErrTransient, Message: fmt.Sprintf(format, args...)}
}
