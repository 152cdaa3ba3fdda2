package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeForbidden     = "FORBIDDEN"
	ErrCodeUpstream      = "UPSTREAM_ERROR"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrInvalidTicketStatus      = NewDomainError(ErrCodeValidation, "invalid ticket status")
	ErrInvalidTicketPriority    = NewDomainError(ErrCodeValidation, "invalid ticket priority")
	ErrInvalidTicketCategory    = NewDomainError(ErrCodeValidation, "invalid ticket category")
	ErrInvalidKnowledgeCategory = NewDomainError(ErrCodeValidation, "invalid knowledge category")
	ErrInvalidEventType         = NewDomainError(ErrCodeValidation, "invalid student event type")
	ErrInvalidMessageDirection  = NewDomainError(ErrCodeValidation, "invalid message direction")
)

// Not found errors
var (
	ErrTenantNotFound     = NewDomainError(ErrCodeNotFound, "tenant not found")
	ErrTicketNotFound     = NewDomainError(ErrCodeNotFound, "ticket not found")
	ErrStudentNotFound    = NewDomainError(ErrCodeNotFound, "student not found")
	ErrKnowledgeNotFound  = NewDomainError(ErrCodeNotFound, "knowledge document not found")
	ErrAPIKeyNotFound     = NewDomainError(ErrCodeNotFound, "api key not found")
	ErrSuggestionNotFound = NewDomainError(ErrCodeNotFound, "suggestion not found")
)

// Already exists errors
var (
	ErrTenantAlreadyExists = NewDomainError(ErrCodeAlreadyExists, "tenant already exists")
	ErrAPIKeyAlreadyExists = NewDomainError(ErrCodeAlreadyExists, "api key already exists")
)

// Authorization errors
var (
	ErrInvalidAPIKey = NewDomainError(ErrCodeUnauthorized, "invalid api key")
	ErrAPIKeyRevoked = NewDomainError(ErrCodeUnauthorized, "api key has been revoked")
)

// Upstream errors
var (
	ErrGenerationFailed = NewDomainError(ErrCodeUpstream, "generation service request failed")
)
