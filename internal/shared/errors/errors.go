package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeValidation indicates invalid input data
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeUnauthorized indicates authentication failure
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	// ErrorTypeForbidden indicates insufficient permissions
	ErrorTypeForbidden ErrorType = "forbidden"
	// ErrorTypeInternal indicates an internal server error
	ErrorTypeInternal ErrorType = "internal"
	// ErrorTypeMethodNotAllowed indicates an unsupported HTTP method
	ErrorTypeMethodNotAllowed ErrorType = "method_not_allowed"
	// ErrorTypeExternal indicates an external service error
	ErrorTypeExternal ErrorType = "external"
	// ErrorTypeRateLimited indicates the client exceeded its request budget
	ErrorTypeRateLimited ErrorType = "rate_limited"

	// ErrorTypeConfigurationConflict indicates mutually exclusive randomizer options
	ErrorTypeConfigurationConflict ErrorType = "configuration_conflict"
	// ErrorTypeEmptyPool indicates a draw against an exhausted candidate set
	ErrorTypeEmptyPool ErrorType = "empty_pool"
	// ErrorTypePlanIncomplete indicates a whole-game plan missed a species or leaked a ban
	ErrorTypePlanIncomplete ErrorType = "plan_incomplete"
	// ErrorTypeNoFamilyMatch indicates no structurally compatible replacement family exists
	ErrorTypeNoFamilyMatch ErrorType = "no_family_match"
)

// AppError is the base error type for application errors
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFoundf creates a not found error with formatting
func NotFoundf(format string, args ...interface{}) error {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: fmt.Sprintf(format, args...),
	}
}

// Validation creates a validation error
func Validation(message string) error {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// Validationf creates a validation error with formatting
func Validationf(format string, args ...interface{}) error {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapValidation wraps an error as a validation error
func WrapValidation(message string, err error) error {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
		Err:     err,
	}
}

// WrapInternal wraps an error as an internal error
func WrapInternal(message string, err error) error {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// Unauthorized creates an unauthorized error
func Unauthorized(message string) error {
	return &AppError{
		Type:    ErrorTypeUnauthorized,
		Message: message,
	}
}

// Forbidden creates a forbidden error
func Forbidden(message string) error {
	return &AppError{
		Type:    ErrorTypeForbidden,
		Message: message,
	}
}

// MethodNotAllowed creates a method not allowed error
func MethodNotAllowed(method string) error {
	return &AppError{
		Type:    ErrorTypeMethodNotAllowed,
		Message: fmt.Sprintf("method %s not allowed", method),
	}
}

// WrapExternal wraps an error as an external service error
func WrapExternal(message string, err error) error {
	return &AppError{
		Type:    ErrorTypeExternal,
		Message: message,
		Err:     err,
	}
}

// ConfigurationConflictf reports randomizer options that cannot be combined.
func ConfigurationConflictf(format string, args ...interface{}) error {
	return &AppError{
		Type:    ErrorTypeConfigurationConflict,
		Message: fmt.Sprintf(format, args...),
	}
}

// EmptyPoolf reports a draw that had no candidate left.
func EmptyPoolf(format string, args ...interface{}) error {
	return &AppError{
		Type:    ErrorTypeEmptyPool,
		Message: fmt.Sprintf(format, args...),
	}
}

// PlanIncompletef reports a replacement plan that violates its own invariants.
func PlanIncompletef(format string, args ...interface{}) error {
	return &AppError{
		Type:    ErrorTypePlanIncomplete,
		Message: fmt.Sprintf(format, args...),
	}
}

// NoFamilyMatchf reports that no replacement family fits an evolutionary family.
func NoFamilyMatchf(format string, args ...interface{}) error {
	return &AppError{
		Type:    ErrorTypeNoFamilyMatch,
		Message: fmt.Sprintf(format, args...),
	}
}

// GetType returns the error type of an error
func GetType(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// IsType reports whether err is an AppError of the given type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == errorType
}

// RateLimited creates a rate-limit error
func RateLimited(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeRateLimited,
		Message: message,
	}
}
