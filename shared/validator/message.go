package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var templates = map[string]string{
	"required": "{field} is required",
	"gt":       "{field} must be greater than {param}",
	"gte":      "{field} must be greater than or equal to {param}",
	"lte":      "{field} must be less than or equal to {param}",
	"min":      "{field} must contain at least {param} items",
	"max":      "{field} must not exceed {param}",
	"oneof":    "{field} must be one of {param}",
	"clock":    "{field} must be a time in HH:MM format",
	"date":     "{field} must be a date in YYYY-MM-DD format",
	"weekday":  "{field} must be a weekday name",
}

// message renders the first validation error that has a template, falling back to the raw text.
func message(err error) string {
	var fieldErrors val.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err.Error()
	}

	for _, fe := range fieldErrors {
		if tpl, ok := templates[fe.Tag()]; ok {
			return strings.NewReplacer("{field}", fe.Field(), "{param}", fe.Param()).Replace(tpl)
		}
	}

	return fieldErrors.Error()
}
