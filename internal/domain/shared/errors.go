package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code so that errors.Is works against the sentinels
// even when a copy carries extra details.
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

// WithDetails returns a copy of the error carrying the given details
func (e *DomainError) WithDetails(details ...string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: append([]string(nil), details...),
	}
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
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")

	// ErrDeleteBlocked is returned when dependent records still prevent a deletion.
	ErrDeleteBlocked = NewDomainError("DELETE_BLOCKED", "Record cannot be deleted while dependent records exist")
	// ErrIntegrityViolation is returned when the store itself rejects a write
	// because of a referential constraint.
	ErrIntegrityViolation = NewDomainError("INTEGRITY_VIOLATION", "Operation violates a referential integrity constraint")
	// ErrSystemPresetProtected is returned when a built-in preset would be deleted.
	ErrSystemPresetProtected = NewDomainError("SYSTEM_PRESET_PROTECTED", "System presets cannot be deleted")
)
