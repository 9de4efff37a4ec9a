// Package validate wraps go-playground/validator so that actions and the form
// wizard report failures in the domain error taxonomy, keyed by JSON field
// name rather than Go struct field name.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vbtech/vbadmin/internal/domain"
)

// New builds the authoritative validator instance shared by the service.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

// Struct validates the whole payload against its tags.
func Struct(v *validator.Validate, payload any) error {
	return translate(v.Struct(payload))
}

// StructPartial validates only the named struct fields of the payload.
func StructPartial(v *validator.Validate, payload any, fields ...string) error {
	return translate(v.StructPartial(payload, fields...))
}

func translate(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		// An InvalidValidationError means the payload itself was not a
		// struct; that is a programming error, not user input.
		return err
	}

	out := &domain.ValidationError{Fields: make(map[string]string, len(fieldErrors))}
	for _, fe := range fieldErrors {
		out.Fields[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "numeric":
		return "must contain only digits"
	case "url":
		return "must be a valid URL"
	case "gtfield":
		return fmt.Sprintf("must be after %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
