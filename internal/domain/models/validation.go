package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	// Report JSON names so errors match what the caller sent.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidationError lists the fields of a create or update payload that were
// missing or out of range.
type ValidationError struct {
	Entity  string
	Missing []string
	Invalid []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required fields: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid fields: "+strings.Join(e.Invalid, ", "))
	}
	return fmt.Sprintf("%s: %s", e.Entity, strings.Join(parts, "; "))
}

func validateInput(entity string, input any, invalid ...string) error {
	verr := &ValidationError{Entity: entity}

	if err := validate.Struct(input); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("validate %s: %w", entity, err)
		}
		for _, fe := range fieldErrs {
			// A whitespace-only string is as missing as an absent one.
			if fe.Tag() == "required" || fe.Tag() == "notblank" {
				verr.Missing = append(verr.Missing, fe.Field())
				continue
			}
			verr.Invalid = append(verr.Invalid, fe.Field())
		}
	}
	verr.Invalid = append(verr.Invalid, invalid...)

	if len(verr.Missing) == 0 && len(verr.Invalid) == 0 {
		return nil
	}
	return verr
}
