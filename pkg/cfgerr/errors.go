// Package cfgerr defines the configuration error returned when a configuration cannot be built.
//
// Every configuration failure matches ErrConfig with errors.Is. Builders collect one error per
// missing or invalid field and report them together through Error.
package cfgerr

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrConfig is matched by every configuration error.
var ErrConfig = errors.New("config error")

// FieldError reports a single missing or invalid field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// Is makes every field error match ErrConfig.
func (e *FieldError) Is(target error) bool {
	return target == ErrConfig
}

// Missing reports a required field that was not set.
func Missing(field string) error {
	return &FieldError{Field: field, Reason: "is required"}
}

// Invalid reports a field holding an unusable value.
func Invalid(field, reason string) error {
	return &FieldError{Field: field, Reason: reason}
}

// Error aggregates the configuration errors of a component.
type Error struct {
	Component string
	Errors    []error
}

// New returns nil when errs holds no non-nil error.
func New(component string, errs ...error) error {
	filtered := nonNil(errs)
	if len(filtered) == 0 {
		return nil
	}

	return &Error{Component: component, Errors: filtered}
}

// Newf builds an error with a single formatted message.
func Newf(component, format string, args ...any) error {
	return &Error{Component: component, Errors: []error{fmt.Errorf(format, args...)}}
}

func (e *Error) Error() string {
	prefix := "invalid configuration"
	if e.Component != "" {
		prefix = "invalid " + e.Component + " configuration"
	}
	errs := nonNil(e.Errors)
	switch len(errs) {
	case 0:
		return prefix
	case 1:
		return fmt.Sprintf("%s: %v", prefix, errs[0])
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "%s: %d errors:", prefix, len(errs))
	for idx, err := range errs {
		fmt.Fprintf(&builder, "\n  %d. %v", idx+1, err)
	}

	return builder.String()
}

// Is matches ErrConfig and any aggregated error.
func (e *Error) Is(target error) bool {
	if target == ErrConfig {
		return true
	}
	for _, err := range nonNil(e.Errors) {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}

// As projects any aggregated error into target.
func (e *Error) As(target any) bool {
	for _, err := range nonNil(e.Errors) {
		if errors.As(err, target) {
			return true
		}
	}

	return false
}

// Fields returns the names of the field errors, in order.
func (e *Error) Fields() []string {
	var fields []string
	for _, err := range nonNil(e.Errors) {
		var fe *FieldError
		if errors.As(err, &fe) {
			fields = append(fields, fe.Field)
		}
	}

	return fields
}

func nonNil(errs []error) []error {
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}

	return filtered
}
