package shared

import (
	"errors"
	"strings"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same error code.
// This lets callers match errors.Is(err, shared.ErrNotFound) even when the
// message was specialised with NewDomainError("NOT_FOUND", "Order not found").
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound          = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists     = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput      = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized      = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden         = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState      = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientStock = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
)

// ValidationErrors collects field-level validation messages. It renders as a
// single ", "-joined message so API clients receive one error string.
type ValidationErrors struct {
	messages []string
}

// Add appends a message.
func (v *ValidationErrors) Add(message string) {
	v.messages = append(v.messages, message)
}

// Check appends message when cond is true.
func (v *ValidationErrors) Check(cond bool, message string) {
	if cond {
		v.Add(message)
	}
}

// HasErrors reports whether any message was collected.
func (v *ValidationErrors) HasErrors() bool {
	return len(v.messages) > 0
}

// Error implements the error interface
func (v *ValidationErrors) Error() string {
	return strings.Join(v.messages, ", ")
}

// Err returns a VALIDATION_ERROR domain error, or nil when nothing was collected.
func (v *ValidationErrors) Err() error {
	if !v.HasErrors() {
		return nil
	}
	return NewDomainError("VALIDATION_ERROR", v.Error())
}
