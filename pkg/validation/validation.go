// Package validation wraps go-playground/validator with JSON field naming and
// errors that carry a human-readable message per offending field.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid is wrapped by every *Error so callers can match with errors.Is.
var ErrInvalid = errors.New("validation failed")

// FieldError describes a single failed rule.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// Message renders the failure as "<field> <reason>".
func (f FieldError) Message() string {
	switch f.Rule {
	case "required", "required_without", "required_if":
		return f.Field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", f.Field, f.Param)
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", f.Field, f.Param)
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", f.Field, f.Param)
	case "contains":
		return fmt.Sprintf("%s must contain %s", f.Field, f.Param)
	case "excluded_with":
		return fmt.Sprintf("%s cannot be combined with %s", f.Field, f.Param)
	case "refnum":
		return f.Field + " may only contain letters, digits, '-', '/' and '.'"
	case "dive":
		return f.Field + " contains an invalid entry"
	}
	return fmt.Sprintf("%s failed %s validation", f.Field, f.Rule)
}

// Error collects every field that failed validation.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message()
	}
	return ErrInvalid.Error() + ": " + strings.Join(msgs, "; ")
}

func (e *Error) Unwrap() error {
	return ErrInvalid
}

// Failed builds an *Error for a single field, for rules checked outside struct tags.
func Failed(field, rule, param string) error {
	return &Error{Fields: []FieldError{{Field: field, Rule: rule, Param: param}}}
}

var refnumPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9./-]*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return fld.Name
		}
		return name
	})

	v.RegisterValidation("refnum", func(fl validator.FieldLevel) bool {
		return refnumPattern.MatchString(fl.Field().String())
	})

	return v
}

// Struct validates s against its `validate` tags.
// Returns nil, an *Error, or the validator's own error for non-struct input.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]FieldError, len(verrs))
	for i, fe := range verrs {
		fields[i] = FieldError{
			Field: fieldPath(fe),
			Rule:  fe.Tag(),
			Param: fe.Param(),
		}
	}
	return &Error{Fields: fields}
}

// fieldPath drops the root struct name from the namespace ("Cmd.items[0].reason" -> "items[0].reason").
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}
