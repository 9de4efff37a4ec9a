package domain

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError reports a payload that failed schema checks, keyed by field
// name so the UI can surface messages next to the offending inputs.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}

// NewValidationError builds a single-field validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// AuthorizationError reports a caller that lacks the required role or type for
// the target tenant. It is distinct from ValidationError so the UI can render
// a denial dialog instead of field errors.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	if e.Message == "" {
		return "not authorized"
	}
	return e.Message
}

// DuplicateError reports an insert that would violate a tenant-scoped
// uniqueness rule. Fields holds the display names of every colliding field,
// not just the first.
type DuplicateError struct {
	Fields []string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate values for: %s", strings.Join(e.Fields, ", "))
}
