// Package validation checks configuration and option structs, both through
// `validate` struct tags and through a fluent collector for cross-field rules.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid is wrapped by every FieldError.
var ErrInvalid = errors.New("invalid configuration")

// validate is a singleton validator instance
var validate = validator.New(validator.WithRequiredStructEnabled())

// FieldError describes one rejected field.
type FieldError struct {
	Config string
	Field  string
	Reason string
	Err    error
}

func (e *FieldError) Error() string {
	if e.Config == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s.%s: %s", e.Config, e.Field, e.Reason)
}

// Unwrap returns ErrInvalid and the underlying cause, if any.
func (e *FieldError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalid, e.Err}
	}
	return []error{ErrInvalid}
}

// Struct validates v against its `validate` tags and reports every failing
// field at once.
func Struct(v any) error {
	if v == nil {
		return errors.New("cannot validate nil")
	}
	if err := validate.Struct(v); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	errs := make([]error, 0, len(validationErrs))
	for _, e := range validationErrs {
		errs = append(errs, &FieldError{
			Config: strings.TrimSuffix(e.StructNamespace(), "."+e.StructField()),
			Field:  e.Field(),
			Reason: describe(e),
		})
	}
	return errors.Join(errs...)
}

func describe(e validator.FieldError) string {
	param := e.Param()
	switch e.Tag() {
	case "required":
		return "field is required"
	case "min", "gte":
		return "must be at least " + param
	case "max", "lte":
		return "must not exceed " + param
	case "gt":
		return "must be greater than " + param
	case "oneof":
		return "must be one of [" + param + "]"
	case "url":
		return "must be a URL"
	case "hostname_port":
		return "must be host:port"
	default:
		return fmt.Sprintf("validation failed (%s)", e.Tag())
	}
}
