package contact

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// fieldMessages holds the message for each field keyed by the failing tag.
var fieldMessages = map[string]map[string]string{
	"name": {
		"required": "Please enter your name.",
		"min":      "Please enter your full name.",
	},
	"email": {
		"required":   "Please enter your email address.",
		"emailshape": "Please enter a valid email address.",
	},
	"city": {
		"required": "Please select a city.",
		"dfwcity":  "We currently build only in the Dallas-Fort Worth area.",
	},
	"message": {
		"required": "Please tell us about your project.",
		"min":      "Please share a little more detail about your project.",
	},
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "emailshape", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "dfwcity", func(fl validator.FieldLevel) bool {
		_, ok := CanonicalCity(fl.Field().String())
		return ok
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic("contact: register validation " + tag + ": " + err.Error())
	}
}

// Validate checks normalized fields and returns one message per invalid
// field. Phone is never validated.
func Validate(f Fields) FieldErrors {
	errs := FieldErrors{}
	err := validate.Struct(f)
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// only reachable if Fields stops being a struct
		panic("contact: validate: " + err.Error())
	}
	for _, fe := range verrs {
		errs[fe.Field()] = messageFor(fe.Field(), fe.Tag())
	}
	return errs
}

func messageFor(field, tag string) string {
	if msg, ok := fieldMessages[field][tag]; ok {
		return msg
	}
	return fieldMessages[field]["required"]
}
