package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"

	"homeserve/shared/failure"
	"homeserve/shared/timeslot"

	val "github.com/go-playground/validator/v10"
)

var validate = newValidate()

// custom tags understood on top of the validator builtins.
var custom = map[string]val.Func{
	"clock": func(fl val.FieldLevel) bool {
		_, err := timeslot.ParseClock(fl.Field().String())

		return err == nil
	},
	"date": func(fl val.FieldLevel) bool {
		_, err := timeslot.ParseDate(fl.Field().String())

		return err == nil
	},
	"weekday": func(fl val.FieldLevel) bool {
		_, err := timeslot.ParseWeekday(fl.Field().String())

		return err == nil
	},
}

func newValidate() *val.Validate {
	v := val.New(val.WithRequiredStructEnabled())

	// Messages name fields the way clients send them.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}

		return name
	})

	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register %s validation: %v", tag, err))
		}
	}

	return v
}

// Validate decodes a JSON body into data and validates it. Both failures are reported as 400.
func Validate[T any](r io.Reader, data *T) error {
	if err := json.NewDecoder(r).Decode(data); err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

// ValidateStruct reports the first violated rule as a 400 with a readable message.
func ValidateStruct[T any](data *T) error {
	if err := validate.Struct(data); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	if err := validate.Var(field, tag); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}
