// Package validation checks tagged structs with the validator/v10 library.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error lists the offending fields by their dotted config key
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + " " + e.Fields[k]
	}
	return "invalid configuration: " + strings.Join(parts, "; ")
}

// Validator wraps go-playground/validator with readable field names.
type Validator struct {
	v *validator.Validate
}

// New creates a validator that names fields by their mapstructure tag
func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("mapstructure")
		if name == "" {
			return fld.Name
		}
		if i := strings.IndexByte(name, ','); i >= 0 {
			name = name[:i]
		}
		return name
	})

	return &Validator{v: v}
}

// Validate checks s and returns an *Error describing every failed field
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fields := make(map[string]string, len(validationErrs))
	for _, e := range validationErrs {
		fields[fieldKey(e.Namespace())] = friendlyMessage(e)
	}
	return &Error{Fields: fields}
}

// fieldKey drops the root struct name: "Config.chapters.title_from" -> "chapters.title_from"
func fieldKey(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s, got %q", e.Param(), fmt.Sprint(e.Value()))
	case "min", "gte":
		return fmt.Sprintf("must be at least %s, got %v", e.Param(), e.Value())
	case "max", "lte":
		return fmt.Sprintf("must not exceed %s, got %v", e.Param(), e.Value())
	case "gt":
		return fmt.Sprintf("must be greater than %s, got %v", e.Param(), e.Value())
	default:
		return "is invalid"
	}
}
