package forms

import (
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/yeremiapane/cook-platform/models"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// Validate is shared by every form; validator caches struct metadata.
var Validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	v.RegisterValidation("notnumeric", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		for _, r := range s {
			if r < '0' || r > '9' {
				return true
			}
		}
		return s == ""
	})
	v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		_, err := NormalizeTime(fl.Field().String())
		return err == nil
	})
	v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return models.IsValidRole(fl.Field().String())
	})

	v.RegisterStructValidation(registerFormLevel, RegisterForm{})
	return v
}

func registerFormLevel(sl validator.StructLevel) {
	f := sl.Current().Interface().(RegisterForm)
	if passwordTooSimilar(f.Password1, f.Username, f.Email) {
		sl.ReportError(f.Password1, "password1", "Password1", "similar", "")
	}
}

func passwordTooSimilar(password string, attrs ...string) bool {
	p := strings.ToLower(password)
	if p == "" {
		return false
	}
	for _, a := range attrs {
		a = strings.ToLower(strings.SplitN(a, "@", 2)[0])
		if len(a) < 3 {
			continue
		}
		if strings.Contains(p, a) || strings.Contains(a, p) {
			return true
		}
	}
	return false
}

// NormalizeTime accepts HH:MM or HH:MM:SS and returns HH:MM.
func NormalizeTime(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{models.TimeLayout, "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(models.TimeLayout), nil
		}
	}
	return "", &time.ParseError{Layout: models.TimeLayout, Value: s}
}

// ParseDate parses a YYYY-MM-DD value as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(models.DateLayout, strings.TrimSpace(s), time.UTC)
}
