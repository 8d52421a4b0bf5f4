// Package form validates user input before it reaches storage.
//
// Field rules are `validate` struct tags checked by go-playground/validator,
// which reports at most one failure per field. Rules that need storage or the
// clock run afterwards as Rule values and add to the same Errors.
package form

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Errors maps a field name to its messages.
type Errors map[string][]string

func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

// Err returns nil when no field failed, otherwise a *ValidationError.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return &ValidationError{Fields: e}
}

// ValidationError is returned by services when input is rejected.
type ValidationError struct {
	Fields Errors
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, strings.Join(e.Fields[name], "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

const (
	requiredMsg = "This field is required."
	// InvalidChoiceMsg reports a reference to a record the user cannot pick.
	InvalidChoiceMsg = "Select a valid choice. That choice is not one of the available choices."
)

var validate = newValidator()

// newValidator reports fields under their json names so messages line up
// with what the client sent.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})
	return v
}

// Struct checks the validate tags of v and records one message per failing
// field. The returned error is only for misuse, such as v not being a struct.
func Struct(errs Errors, v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return err
	}
	for _, fe := range fields {
		errs.Add(fe.Field(), message(fe))
	}
	return nil
}

// Var checks one value against a validator tag, such as a limit only known at
// run time. It reports whether the value passed.
func Var(errs Errors, name string, value any, tag string) bool {
	err := validate.Var(value, tag)
	if err == nil {
		return true
	}
	var fields validator.ValidationErrors
	if errors.As(err, &fields) && len(fields) > 0 {
		errs.Add(name, message(fields[0]))
	} else {
		errs.Add(name, err.Error())
	}
	return false
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return requiredMsg
	case "max":
		if s, ok := fe.Value().(string); ok {
			return fmt.Sprintf("Ensure this value has at most %s characters (it has %d).", fe.Param(), utf8.RuneCountInString(s))
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "min":
		if s, ok := fe.Value().(string); ok {
			return fmt.Sprintf("Ensure this value has at least %s characters (it has %d).", fe.Param(), utf8.RuneCountInString(s))
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "email":
		return "Enter a valid email address."
	case "datetime":
		return "Enter a valid date."
	case "oneof":
		return fmt.Sprintf("Select a valid choice. %v is not one of the available choices.", fe.Value())
	}
	return fmt.Sprintf("Failed the %q check.", fe.Tag())
}

// Rule checks one value and returns a message, or "" when it passes.
type Rule[T any] func(T) string

// Field runs rules in order and stops at the first failure.
// It reports whether the value passed all of them.
func Field[T any](errs Errors, name string, value T, rules ...Rule[T]) bool {
	for _, rule := range rules {
		if msg := rule(value); msg != "" {
			errs.Add(name, msg)
			return false
		}
	}
	return true
}

// NotBefore rejects dates earlier than min.
func NotBefore(min time.Time, msg string) Rule[time.Time] {
	return func(ts time.Time) string {
		if ts.Before(min) {
			return msg
		}
		return ""
	}
}
