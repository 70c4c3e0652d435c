package form

import (
	"context"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"sync"
)

// Key names a field of form T. Keys of one form type cannot be registered
// on another.
type Key[T any] string

// Form tracks the values and errors of one submission of T.
type Form[T any] struct {
	validator *Validator
	defaults  T
	data      T
	errors    map[string]error
}

// New returns a form holding defaults.
func New[T any](v *Validator, defaults T) *Form[T] {
	return &Form[T]{
		validator: v,
		defaults:  defaults,
		data:      defaults,
		errors:    make(map[string]error),
	}
}

// Bind copies submitted values onto the form. Fields absent from values
// keep their current value.
func (f *Form[T]) Bind(values url.Values) {
	rv := reflect.ValueOf(&f.data).Elem()
	for name, fi := range fieldsOf(rv.Type()) {
		if _, ok := values[name]; !ok {
			continue
		}
		v := sanitize(values.Get(name))
		if !fi.raw {
			v = strings.TrimSpace(v)
		}
		rv.Field(fi.index).SetString(v)
	}
}

// Data returns a snapshot of the current values.
func (f *Form[T]) Data() T { return f.data }

// Value returns the current value of key.
func (f *Form[T]) Value(key Key[T]) string {
	fi, ok := fieldsOf(reflect.TypeOf((*T)(nil)).Elem())[string(key)]
	if !ok {
		return ""
	}
	return reflect.ValueOf(f.data).Field(fi.index).String()
}

// Register returns the binding used to render key.
func (f *Form[T]) Register(key Key[T], spec Spec) Field {
	typ := spec.Type
	if typ == "" {
		typ = TypeText
	}
	return Field{
		ID:          "field-" + string(key),
		Name:        string(key),
		Type:        typ,
		Label:       spec.Label,
		Placeholder: spec.Placeholder,
		Value:       f.Value(key),
		Err:         f.errors[string(key)],
	}
}

// Error returns the error attached to key, if any.
func (f *Form[T]) Error(key Key[T]) error { return f.errors[string(key)] }

// Errors returns the current error map keyed by field name.
func (f *Form[T]) Errors() map[string]error { return f.errors }

// Valid reports whether the last submit attempt found no errors.
func (f *Form[T]) Valid() bool { return len(f.errors) == 0 }

// SetError attaches a message to key, e.g. from a server response.
func (f *Form[T]) SetError(key Key[T], msg string) {
	f.errors[string(key)] = Message(msg)
}

// HandleSubmit validates the bound values. When every field passes it
// calls onValid with a snapshot and reports submitted=true; otherwise the
// error map is updated and onValid is never called.
func (f *Form[T]) HandleSubmit(ctx context.Context, onValid func(context.Context, T) error) (submitted bool, err error) {
	errs, err := f.validator.Validate(f.data)
	if err != nil {
		return false, err
	}
	f.errors = make(map[string]error, len(errs))
	for k, v := range errs {
		f.errors[k] = v
	}
	if len(f.errors) > 0 {
		return false, nil
	}
	if err := onValid(ctx, f.data); err != nil {
		return true, err
	}
	return true, nil
}

// Reset restores the defaults and clears errors.
func (f *Form[T]) Reset() {
	f.data = f.defaults
	f.errors = make(map[string]error)
}

type fieldInfo struct {
	index int
	raw   bool
}

var fieldCache sync.Map // reflect.Type -> map[string]fieldInfo

// fieldsOf indexes the string fields of a form struct by form name.
func fieldsOf(t reflect.Type) map[string]fieldInfo {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.(map[string]fieldInfo)
	}
	if t.Kind() != reflect.Struct {
		panic(fmt.Sprintf("form: %s is not a struct", t))
	}
	fields := make(map[string]fieldInfo, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() || sf.Type.Kind() != reflect.String {
			continue
		}
		name, raw := parseFormTag(sf)
		if name == "-" {
			continue
		}
		fields[name] = fieldInfo{index: i, raw: raw}
	}
	fieldCache.Store(t, fields)
	return fields
}

// sanitize removes control characters except tab, newline and carriage return.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
