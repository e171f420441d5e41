package mimemagic

import (
	"errors"
	"fmt"
)

// Registration errors
var (
	ErrInvalidType  = errors.New("invalid type identifier")
	ErrCyclicParent = errors.New("parent edge creates a cycle")
	ErrInvalidRule  = errors.New("invalid magic rule")
	ErrDefinitions  = errors.New("malformed definitions")
)

// RegistrationError records a rejected registration and the type it was for
type RegistrationError struct {
	Op   string
	Type string
	Err  error
}

// Error implements the error interface
func (e *RegistrationError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Type, e.Err)
}

// Unwrap returns the underlying error
func (e *RegistrationError) Unwrap() error {
	return e.Err
}

// IsCyclic reports whether an error was caused by a parent cycle
func IsCyclic(err error) bool {
	return errors.Is(err, ErrCyclicParent)
}

// IsInvalidType reports whether an error was caused by a malformed type identifier
func IsInvalidType(err error) bool {
	return errors.Is(err, ErrInvalidType)
}

// IsInvalidRule reports whether an error was caused by a malformed magic rule
func IsInvalidRule(err error) bool {
	return errors.Is(err, ErrInvalidRule)
}
