// Package form binds submitted HTML forms to typed values, validates them
// with declarative struct tags and exposes per-field bindings for rendering.
//
// Rules live in `validate` tags (github.com/go-playground/validator/v10).
// Messages live next to them: `msg_<rule>` wins over `msg`, which wins over
// a generic "<field> is invalid".
package form

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"expensetracker/internal/core"
)

// Validator evaluates the declarative rules of a form struct.
type Validator struct {
	v *validator.Validate
}

// NewValidator returns a validator with the custom rules registered.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _ := parseFormTag(f)
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails on empty tags or nil funcs.
	_ = v.RegisterValidation("positive_amount", positiveAmount)
	_ = v.RegisterValidation("matches", matchesField)
	return &Validator{v: v}
}

// positiveAmount accepts decimal strings strictly greater than zero, with a
// dot or comma separator.
func positiveAmount(fl validator.FieldLevel) bool {
	_, err := core.NormalizeAmount(fl.Field().String())
	return err == nil
}

// matchesField compares against the struct field named by the parameter.
// It only fires once both sides have a value.
func matchesField(fl validator.FieldLevel) bool {
	parent := reflect.Indirect(fl.Parent())
	other := parent.FieldByName(fl.Param())
	if !other.IsValid() || other.Kind() != reflect.String {
		return false
	}
	a, b := fl.Field().String(), other.String()
	if a == "" || b == "" {
		return true
	}
	return a == b
}

// Validate returns one error per invalid field, keyed by form field name.
// A nil map means the value is valid.
func (v *Validator) Validate(s any) (map[string]error, error) {
	err := v.v.Struct(s)
	if err == nil {
		return nil, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, fmt.Errorf("validate %T: %w", s, err)
	}

	t := reflect.Indirect(reflect.ValueOf(s)).Type()
	out := make(map[string]error, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = &FieldError{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: message(t, fe),
		}
	}
	return out, nil
}

func message(t reflect.Type, fe validator.FieldError) string {
	if sf, ok := t.FieldByName(fe.StructField()); ok {
		if m := sf.Tag.Get("msg_" + fe.Tag()); m != "" {
			return m
		}
		if m := sf.Tag.Get("msg"); m != "" {
			return m
		}
	}
	return humanize(fe.Field()) + " is invalid"
}

// humanize turns "confirmPassword" into "Confirm password".
func humanize(name string) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case i == 0:
			b.WriteString(strings.ToUpper(string(r)))
		case r >= 'A' && r <= 'Z':
			b.WriteByte(' ')
			b.WriteString(strings.ToLower(string(r)))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// parseFormTag returns the field name and whether its value is kept raw
// (not trimmed) when bound.
func parseFormTag(f reflect.StructField) (name string, raw bool) {
	tag := f.Tag.Get("form")
	if tag == "" {
		return f.Name, false
	}
	name, opts, _ := strings.Cut(tag, ",")
	return name, opts == "raw"
}
