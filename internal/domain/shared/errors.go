package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewMissingMappingError creates a configuration error naming the unmapped
// account role. Configuration errors share one code so callers can route the
// user to account-mapping setup instead of a field edit.
func NewMissingMappingError(role string) *DomainError {
	return &DomainError{
		Code:    ErrCodeMissingMapping,
		Message: fmt.Sprintf("Account mapping %q is not configured", role),
	}
}

// ErrCodeMissingMapping marks errors caused by an absent account mapping.
// The fix is administrative, not a field edit.
const ErrCodeMissingMapping = "MISSING_ACCOUNT_MAPPING"

// IsConfigurationError reports whether err is a missing-mapping configuration
// error rather than a plain validation error.
func IsConfigurationError(err error) bool {
	de, ok := err.(*DomainError)
	return ok && de.Code == ErrCodeMissingMapping
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientStock   = NewDomainError("INSUFFICIENT_STOCK", "Insufficient quantity available")
)
