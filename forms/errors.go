package forms

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// NonFieldKey holds errors that belong to the whole form.
const NonFieldKey = "__all__"

type FieldErrors map[string]string

func (fe FieldErrors) Get(field string) string {
	return fe[field]
}

func (fe FieldErrors) Has(field string) bool {
	_, ok := fe[field]
	return ok
}

func (fe FieldErrors) Error() string {
	for k, v := range fe {
		return fmt.Sprintf("%s: %s", k, v)
	}
	return "invalid form"
}

// Errors turns a validation error into one message per field.
func Errors(err error) FieldErrors {
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return FieldErrors{NonFieldKey: "Invalid form data."}
	}

	out := FieldErrors{}
	for _, fe := range ves {
		if _, exists := out[fe.Field()]; exists {
			continue
		}
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		if isString {
			return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "gte":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "lte":
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "lt":
		return fmt.Sprintf("Ensure this value is less than %s.", fe.Param())
	case "eqfield":
		return "The two password fields didn't match."
	case "oneof", "role":
		return "Select a valid choice."
	case "datetime":
		return "Enter a valid date."
	case "hhmm":
		return "Enter a valid time."
	case "username":
		return "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	case "notnumeric":
		return "This password is entirely numeric."
	case "similar":
		return "The password is too similar to the username."
	default:
		return "Enter a valid value."
	}
}
