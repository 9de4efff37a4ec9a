package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorCategoriesAreDistinct(t *testing.T) {
	var wrapped error = fmt.Errorf("insert health plan: %w", &DuplicateError{Fields: []string{"Health Plan Name"}})

	var dup *DuplicateError
	if !errors.As(wrapped, &dup) {
		t.Fatalf("expected wrapped error to unwrap as DuplicateError")
	}
	if len(dup.Fields) != 1 || dup.Fields[0] != "Health Plan Name" {
		t.Fatalf("unexpected duplicate fields: %v", dup.Fields)
	}

	var authErr *AuthorizationError
	if errors.As(wrapped, &authErr) {
		t.Fatalf("duplicate error must not satisfy AuthorizationError")
	}
	var valErr *ValidationError
	if errors.As(wrapped, &valErr) {
		t.Fatalf("duplicate error must not satisfy ValidationError")
	}
}

func TestValidationErrorMessageListsFields(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{
		"planName":  "required",
		"cmsPlanId": "must be 5 characters",
	}}
	want := "validation failed: cmsPlanId, planName"
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
}

func TestNewPubIDIsOpaque(t *testing.T) {
	a := NewPubID()
	b := NewPubID()
	if a == b {
		t.Fatalf("expected distinct pub ids")
	}
	if len(a) != 32 {
		t.Fatalf("expected 32-char pub id, got %d", len(a))
	}
}
