package table

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/benoit-pereira-da-silva/charmap/pkg/charmap"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func tableValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		mustRegister(v, "action", func(fl validator.FieldLevel) bool {
			_, err := charmap.ParseAction(fl.Field().String())
			return err == nil
		})
		mustRegister(v, "rune", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return utf8.ValidString(s) && utf8.RuneCountInString(s) == 1
		})
		v.RegisterStructValidation(validateRule, Rule{})
		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("table: registering %q validation: %v", tag, err))
	}
}

// validateRule checks what field tags cannot express: a rule targets either a
// single rune or a well-formed range.
func validateRule(sl validator.StructLevel) {
	r := sl.Current().Interface().(Rule)
	if _, _, err := r.bounds(); err != nil {
		sl.ReportError(r.Char, "char", "Char", "target", err.Error())
	}
}

// Validate checks f and returns an error wrapping ErrInvalidTable that lists
// every problem found.
func (f *File) Validate() error {
	err := tableValidator().Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidTable, err)
	}
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidTable, strings.Join(problems, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "File.")
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "action":
		return fmt.Sprintf("%s: %q is not an action (pass, delete, str:<text>, char:<rune>)", field, fe.Value())
	case "rune":
		return fmt.Sprintf("%s: %q must be exactly one character", field, fe.Value())
	case "target":
		return fmt.Sprintf("%s: %s", strings.TrimSuffix(field, ".char"), fe.Param())
	default:
		return fmt.Sprintf("%s failed on %s", field, fe.Tag())
	}
}
