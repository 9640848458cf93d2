// Package validation wraps go-playground/validator with domain error
// conversion and the catalog's forbidden-word rule.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"naomitex/internal/apperrors"
)

// ForbiddenWords are substrings that may not appear in product or post
// names, descriptions, or texts.
var ForbiddenWords = []string{
	"казино",
	"криптовалюта",
	"крипта",
	"биржа",
	"дешево",
	"бесплатно",
	"обман",
	"полиция",
	"радар",
}

// ContainsForbiddenWord reports whether s contains any forbidden substring.
func ContainsForbiddenWord(s string) bool {
	lower := strings.ToLower(s)
	for _, word := range ForbiddenWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

// Validator wraps go-playground/validator with domain error conversion.
type Validator struct {
	v *validator.Validate
}

// New creates a validator configured for our domain.
func New() *Validator {
	v := validator.New()

	// Use JSON tag names in error messages.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "" {
			return fld.Name
		}
		if i := strings.IndexByte(name, ','); i >= 0 {
			return name[:i]
		}
		return name
	})

	// Field-level forbidden-word filter.
	_ = v.RegisterValidation("forbidden_words", func(fl validator.FieldLevel) bool {
		return !ContainsForbiddenWord(fl.Field().String())
	})

	return &Validator{v: v}
}

// Validate validates a struct and returns a domain validation error with
// per-field details on failure.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fieldErrors := make(map[string]string)
	for _, e := range validationErrs {
		fieldErrors[e.Field()] = friendlyMessage(e)
	}
	return apperrors.ValidationWithDetails("validation failed", fieldErrors)
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "forbidden_words":
		return "contains a forbidden word"
	default:
		return "is invalid"
	}
}
