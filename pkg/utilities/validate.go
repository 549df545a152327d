package utilities

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/jonboulle/clockwork"
)

// DateLayout is the wire format of calendar dates in request forms.
const DateLayout = "2006-01-02"

// NewValidator returns a struct validator that reports json field names and
// knows three extra tags:
//   - notblank: the string is not empty after trimming spaces
//   - password: at least one upper, lower, digit and special character
//   - adult: a DateLayout date of birth at least 18 years before clock's today
//
// A nil clock uses the real clock.
func NewValidator(clock clockwork.Clock) *validator.Validate {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// registration only fails on an empty tag or a nil func
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return StrongPassword(fl.Field().String())
	})
	_ = v.RegisterValidation("adult", func(fl validator.FieldLevel) bool {
		return Adult(fl.Field().String(), clock.Now().UTC())
	})
	return v
}

// StrongPassword reports whether pw mixes upper and lower case letters, a
// digit and a special character.
func StrongPassword(pw string) bool {
	var upper, lower, digit, special bool
	for _, r := range pw {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			special = true
		}
	}
	return upper && lower && digit && special
}

// Adult reports whether someone born on dob (DateLayout) has turned 18 by
// today.
func Adult(dob string, today time.Time) bool {
	born, err := time.Parse(DateLayout, dob)
	if err != nil {
		return false
	}
	y, m, d := today.Date()
	return !born.AddDate(18, 0, 0).After(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// ValidationMessage renders the first field error of a validator failure as
// a sentence for the client. Other errors are returned as is.
func ValidationMessage(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return err.Error()
	}
	fe := errs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", field, fe.Param())
	case "number":
		return field + " must contain only digits"
	case "email":
		return "please enter a valid email address"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "eqfield":
		return fmt.Sprintf("%s does not match", field)
	case "datetime":
		return field + " must be a date in YYYY-MM-DD format"
	case "password":
		return "password must contain upper and lower case letters, a number and a special character"
	case "adult":
		return "you must be at least 18 years old"
	}
	return field + " is invalid"
}
