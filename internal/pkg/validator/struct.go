package validator

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	playground "github.com/go-playground/validator/v10"
)

var (
	structEngine     *playground.Validate
	structEngineOnce sync.Once
)

func engine() *playground.Validate {
	structEngineOnce.Do(func() {
		v := playground.New(playground.WithRequiredStructEnabled())

		// Report fields by their JSON names so details line up with the request body
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = v.RegisterValidation("hhmm", func(fl playground.FieldLevel) bool {
			return IsValidTimeOfDay(fl.Field().String())
		})
		_ = v.RegisterValidation("phone", func(fl playground.FieldLevel) bool {
			return IsValidPhoneNumber(fl.Field().String())
		})

		structEngine = v
	})
	return structEngine
}

// Struct runs the `validate` struct tags of s and converts failures into
// ValidationErrors keyed by JSON field name. It returns nil when s is valid.
func Struct(s any) ValidationErrors {
	err := engine().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs playground.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ValidationErrors{{Field: "body", Message: err.Error()}}
	}

	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return out
}

func fieldMessage(fe playground.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return field + " must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		return field + " must be at least " + fe.Param() + " characters"
	case "max":
		return field + " must not exceed " + fe.Param() + " characters"
	case "latitude":
		return field + " must be between -90 and 90"
	case "longitude":
		return field + " must be between -180 and 180"
	case "hhmm":
		return field + " must be in HH:MM format"
	case "phone":
		return field + " must be a valid phone number"
	case "hexcolor":
		return field + " must be a hex color such as #1e88e5"
	case "url":
		return field + " must be a valid URL"
	case "required_with":
		return field + " is required when " + fe.Param() + " is set"
	default:
		return field + " is invalid"
	}
}
