package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface. The code is part of the string so
// that it survives flattening, e.g. into a batch failure report.
func (e *DomainError) Error() string {
	return e.Code + ": " + e.Message
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
	ErrIllegalTransition   = NewDomainError("ILLEGAL_TRANSITION", "Event not valid from the current state")
	ErrValidationFailed    = NewDomainError("VALIDATION_FAILED", "Required field missing or invalid")
	ErrInvalidAmount       = NewDomainError("INVALID_AMOUNT", "Monetary amount must be non-negative")
)

// NewIllegalTransition builds an ILLEGAL_TRANSITION error describing the rejected event
func NewIllegalTransition(event, current string) *DomainError {
	return NewDomainError("ILLEGAL_TRANSITION", "Cannot "+event+" from state "+current)
}
