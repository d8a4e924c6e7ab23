package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrorType represents the type/category of error
type ErrorType string

const (
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	ErrorTypeForbidden    ErrorType = "forbidden"
	ErrorTypeConflict     ErrorType = "conflict"
	ErrorTypeInternal     ErrorType = "internal"
)

// DomainError represents a structured error with additional context.
// Message is the client facing summary; Details is rendered verbatim
// into the response envelope when set.
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Details interface{}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches domain errors of the same type and message, so a sentinel
// still matches after Wrap produced a copy. A target carrying details also
// requires equal details, which keeps sentinels sharing a message apart.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	if e.Type != t.Type || e.Message != t.Message {
		return false
	}
	return t.Details == nil || reflect.DeepEqual(e.Details, t.Details)
}

// WithDetails returns a copy of the error carrying details
func (e *DomainError) WithDetails(details interface{}) *DomainError {
	cp := *e
	cp.Details = details
	return &cp
}

// Wrap returns a copy of the error with err as its cause
func (e *DomainError) Wrap(err error) *DomainError {
	cp := *e
	cp.Err = err
	return &cp
}

// NewDomainError creates a new domain error
func NewDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

// Domain error variables. Treat them as read-only; use WithDetails or Wrap
// to derive a variant.

var (
	// Authentication errors
	ErrUnauthenticated    = NewDomainError(ErrorTypeUnauthorized, "Authentication required", nil).WithDetails("No token provided")
	ErrExpiredToken       = NewDomainError(ErrorTypeUnauthorized, "Token expired", nil).WithDetails("Please login again")
	ErrMalformedToken     = NewDomainError(ErrorTypeUnauthorized, "Invalid token", nil).WithDetails("Invalid token format")
	ErrPrincipalNotFound  = NewDomainError(ErrorTypeUnauthorized, "Invalid token", nil).WithDetails("Admin not found")
	ErrInvalidCredentials = NewDomainError(ErrorTypeUnauthorized, "Invalid credentials", nil)

	// Permission errors
	ErrAccessDenied           = NewDomainError(ErrorTypeForbidden, "Access denied", nil)
	ErrSelfDeletion           = NewDomainError(ErrorTypeForbidden, "You cannot delete your own account", nil)
	ErrLastSuperadmin         = NewDomainError(ErrorTypeForbidden, "Cannot delete the last superadmin", nil)
	ErrLastSuperadminDemotion = NewDomainError(ErrorTypeForbidden, "Cannot demote the last superadmin", nil)

	// Not found errors
	ErrAdminNotFound   = NewDomainError(ErrorTypeNotFound, "Admin not found", nil)
	ErrFacultyNotFound = NewDomainError(ErrorTypeNotFound, "Faculty not found", nil)
	ErrNoAdmins        = NewDomainError(ErrorTypeNotFound, "No admins found", nil)
	ErrNoFaculty       = NewDomainError(ErrorTypeNotFound, "No faculty members found", nil)

	// Validation errors
	ErrValidationFailed = NewDomainError(ErrorTypeValidation, "Validation failed", nil)
	ErrInvalidAdminID   = NewDomainError(ErrorTypeValidation, "Invalid admin ID", nil)
	ErrInvalidFacultyID = NewDomainError(ErrorTypeValidation, "Invalid faculty ID", nil)
	ErrInvalidBody      = NewDomainError(ErrorTypeValidation, "Invalid request body", nil)

	// Internal errors
	ErrAuthenticationFailed = NewDomainError(ErrorTypeInternal, "Authentication failed", nil)
)

// NewDuplicateError builds the conflict error for a unique field, e.g.
// "Duplicate email" / "Email already exists".
func NewDuplicateError(field string, err error) *DomainError {
	title := field
	if title != "" {
		title = strings.ToUpper(title[:1]) + title[1:]
	}
	return NewDomainError(ErrorTypeConflict, "Duplicate "+field, err).
		WithDetails(title + " already exists")
}

// NewNoFacultyForInstituteError is the empty result for an institute listing
func NewNoFacultyForInstituteError(institute string) *DomainError {
	return NewDomainError(ErrorTypeNotFound, "No faculty found for institute: "+institute, nil)
}

// Error type checking helper functions

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	return GetErrorType(err) == ErrorTypeNotFound
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return GetErrorType(err) == ErrorTypeValidation
}

// IsUnauthorizedError checks if an error is an unauthorized error
func IsUnauthorizedError(err error) bool {
	return GetErrorType(err) == ErrorTypeUnauthorized
}

// IsConflictError checks if an error is a conflict error
func IsConflictError(err error) bool {
	return GetErrorType(err) == ErrorTypeConflict
}

// IsInternalError checks if an error is an internal error
func IsInternalError(err error) bool {
	return GetErrorType(err) == ErrorTypeInternal
}

// GetErrorType returns the ErrorType of a domain error, or empty string if not a domain error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ""
}

// WrapInternal wraps an error as an internal error. The message names the
// failed operation, e.g. "Failed to delete admin".
func WrapInternal(message string, err error) error {
	return NewDomainError(ErrorTypeInternal, message, err)
}
