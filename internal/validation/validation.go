// Package validation checks request payloads with go-playground/validator and
// turns failures into client-facing field errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/isdelr/devblogs-be/internal/apperr"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their json names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("bytesmax", bytesMax)
	return v
}

// bytesMax limits the encoded length of a string, e.g. bytesmax=72 for bcrypt input.
func bytesMax(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

var messages = map[string]string{
	"required": "%s is required",
	"notblank": "%s cannot be empty",
	"email":    "%s must be a valid email address",
	"min":      "%s must be at least %s characters long",
	"max":      "%s must be no longer than %s characters",
	"bytesmax": "%s must be no longer than %s bytes",
	"oneof":    "%s must be one of [%s]",
	"dive":     "%s contains an invalid value",
}

func message(field string, e validator.FieldError) string {
	tmpl, ok := messages[e.Tag()]
	if !ok {
		return fmt.Sprintf("%s is invalid", field)
	}
	if strings.Count(tmpl, "%s") == 2 {
		return fmt.Sprintf(tmpl, field, e.Param())
	}
	return fmt.Sprintf(tmpl, field)
}

// Struct validates s and returns an apperr validation error listing every
// failing field, or nil.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Internal(err)
	}

	fields := make([]apperr.FieldError, 0, len(verrs))
	for _, e := range verrs {
		fields = append(fields, apperr.FieldError{Field: e.Field(), Message: message(e.Field(), e)})
	}
	return apperr.Validation("invalid input", fields...)
}

// Var validates a single value against a tag, reporting it under name.
func Var(name string, value any, tag string) error {
	err := validate.Var(value, tag)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperr.Internal(err)
	}
	msg := message(name, verrs[0])
	return apperr.Validation(msg, apperr.FieldError{Field: name, Message: msg})
}
