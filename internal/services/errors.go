// internal/services/errors.go
package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound     = errors.New("resource not found")
	ErrForbidden    = errors.New("access to resource denied")
	ErrConflict     = errors.New("resource conflicts with an existing record")
	ErrUnauthorized = errors.New("invalid credentials")
)

// ValidationError carries per-field messages, rendered as 422 + errors.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {message}}}
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

// DomainError is a refused business operation, rendered as 422 + message.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func domainError(code, format string, args ...interface{}) *DomainError {
	return &DomainError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Domain error codes
const (
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeNotDeletable      = "NOT_DELETABLE"
	CodeInvalidAssignee   = "INVALID_ASSIGNEE"
	CodeDuplicatePeriod   = "DUPLICATE_PERIOD"
	CodeNothingToDo       = "NOTHING_TO_DO"
	CodePaymentFailed     = "PAYMENT_FAILED"
	CodeNotConfigured     = "NOT_CONFIGURED"
)

func invalidTransition(resource string, from, to interface{}) *DomainError {
	return domainError(CodeInvalidTransition, "Cannot change %s from %v to %v", resource, from, to)
}
