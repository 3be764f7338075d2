// Package validate checks a login submission for required fields and
// reports structured field errors with localized messages.
package validate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dkoval/authkit/models"
)

// CodeRequired is the error code reported for a missing required field.
const CodeRequired = "required"

// Resources resolves localized text for validation messages. The
// library never hardcodes display text, only resource keys.
type Resources interface {
	// Value returns the text stored under key.
	Value(key string) string
	// Format substitutes positional {0}-style placeholders in template.
	Format(template string, args ...any) string
}

// MapResources is a map-backed Resources implementation. Format
// delegates to the package Format function.
type MapResources map[string]string

func (m MapResources) Value(key string) string { return m[key] }

func (m MapResources) Format(template string, args ...any) string {
	return Format(template, args...)
}

// FieldError describes a single offending input field.
type FieldError struct {
	// Code identifies the rule that failed, e.g. "required".
	Code string `json:"code"`
	// Field is the name of the offending input.
	Field string `json:"field"`
	// Message is the resolved display text.
	Message string `json:"message"`
}

// Format substitutes positional placeholders {0}, {1}, ... in template
// with the corresponding arguments. An empty template yields an empty
// string. To pass an already-built slice, expand it with args... at the
// call site.
func Format(template string, args ...any) string {
	if template == "" {
		return ""
	}
	for i, arg := range args {
		template = strings.ReplaceAll(template, "{"+strconv.Itoa(i)+"}", fmt.Sprint(arg))
	}
	return template
}

// requiredFields lists the checked fields in their fixed order. The
// passcode entry only applies while a multi-step flow is active.
var requiredFields = []struct {
	name  string
	value func(models.AuthInfo) string
	when  func(models.AuthInfo) bool
}{
	{"username", func(u models.AuthInfo) string { return u.Username }, nil},
	{"password", func(u models.AuthInfo) string { return u.Password }, nil},
	{"passcode", func(u models.AuthInfo) string { return u.Passcode }, func(u models.AuthInfo) bool { return u.Step != 0 }},
}

// Validate checks user interactively: fields are checked in order
// username, password, passcode, and on the first missing one show is
// invoked with the resolved message and the field name. It reports at
// most one error per call and returns true when all applicable fields
// pass.
func Validate(user models.AuthInfo, r Resources, show func(message, field string)) bool {
	for _, f := range requiredFields {
		if f.when != nil && !f.when(user) {
			continue
		}
		if f.value(user) == "" {
			if show != nil {
				show(requiredMessage(r, f.name), f.name)
			}
			return false
		}
	}
	return true
}

// ValidateAll checks every applicable field and returns all errors
// found, in field order. The result is empty when the submission is
// valid.
func ValidateAll(user models.AuthInfo, r Resources) []FieldError {
	var errs []FieldError
	for _, f := range requiredFields {
		if f.when != nil && !f.when(user) {
			continue
		}
		if f.value(user) == "" {
			errs = append(errs, FieldError{
				Code:    CodeRequired,
				Field:   f.name,
				Message: requiredMessage(r, f.name),
			})
		}
	}
	return errs
}

func requiredMessage(r Resources, field string) string {
	return r.Format(r.Value("error_required"), r.Value(field))
}
