// Package validation provides the shared request validator.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// Get returns the process-wide validator instance
func Get() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		// Report json tag names instead of Go field names
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Describe converts validator errors into a single client-facing message
func Describe(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "invalid request body"
	}

	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		msgs = append(msgs, describeField(e))
	}
	return strings.Join(msgs, "; ")
}

func describeField(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s field is required", e.Field())
	case "min":
		if e.Type().Kind() == reflect.String {
			return fmt.Sprintf("%s length must be greater than or equal to %s", e.Field(), e.Param())
		}
		return fmt.Sprintf("%s must be greater than or equal to %s", e.Field(), e.Param())
	case "max":
		if e.Type().Kind() == reflect.String {
			return fmt.Sprintf("%s length must be less than or equal to %s", e.Field(), e.Param())
		}
		return fmt.Sprintf("%s must be less than or equal to %s", e.Field(), e.Param())
	default:
		return e.Error()
	}
}
