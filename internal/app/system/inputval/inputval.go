// Package inputval collects field-level validation failures for JSON payloads.
//
// Handlers build an *Errors, run checks against each field, and return
// 400 with the collected messages when Err() is non-nil. No store call is
// made before validation passes.
package inputval

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dalemusser/waffle/pantry/validate"
)

// Errors maps a field path (e.g. "pricing.basePrice") to its first failure.
type Errors struct {
	fields map[string]string
}

// New returns an empty error set.
func New() *Errors {
	return &Errors{fields: map[string]string{}}
}

// Add records msg for field unless the field already has a message.
func (e *Errors) Add(field, msg string) {
	if _, ok := e.fields[field]; !ok {
		e.fields[field] = msg
	}
}

// Has reports whether field already failed.
func (e *Errors) Has(field string) bool {
	_, ok := e.fields[field]
	return ok
}

// Fields returns a copy of the field → message map.
func (e *Errors) Fields() map[string]string {
	out := make(map[string]string, len(e.fields))
	for k, v := range e.fields {
		out[k] = v
	}
	return out
}

// Err returns e as an error, or nil when no field failed.
func (e *Errors) Err() error {
	if len(e.fields) == 0 {
		return nil
	}
	return e
}

// Error lists failures in field order so messages are stable.
func (e *Errors) Error() string {
	keys := make([]string, 0, len(e.fields))
	for k := range e.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// As extracts *Errors from err.
func As(err error) (*Errors, bool) {
	var ve *Errors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// Required fails when s is empty after trimming.
func (e *Errors) Required(field, s string) {
	if strings.TrimSpace(s) == "" {
		e.Add(field, "is required")
	}
}

// MaxLen fails when s is longer than n runes.
func (e *Errors) MaxLen(field, s string, n int) {
	if len([]rune(s)) > n {
		e.Add(field, fmt.Sprintf("must be at most %d characters", n))
	}
}

// IntRange fails when v is outside [lo, hi].
func (e *Errors) IntRange(field string, v, lo, hi int) {
	if v < lo || v > hi {
		e.Add(field, fmt.Sprintf("must be between %d and %d", lo, hi))
	}
}

// FloatRange fails when v is outside [lo, hi].
func (e *Errors) FloatRange(field string, v, lo, hi float64) {
	if v < lo || v > hi {
		e.Add(field, fmt.Sprintf("must be between %g and %g", lo, hi))
	}
}

// NonNegative fails when v < 0.
func (e *Errors) NonNegative(field string, v float64) {
	if v < 0 {
		e.Add(field, "must not be negative")
	}
}

// OneOf fails when v is not one of allowed.
func (e *Errors) OneOf(field, v string, allowed ...string) {
	for _, a := range allowed {
		if v == a {
			return
		}
	}
	e.Add(field, "must be one of "+strings.Join(allowed, ", "))
}

// Email fails when s does not look like an address.
func (e *Errors) Email(field, s string) {
	if !IsEmail(s) {
		e.Add(field, "must be a valid email address")
	}
}

// IsEmail reports whether s looks like an email address.
func IsEmail(s string) bool {
	s = strings.TrimSpace(s)
	at := strings.LastIndex(s, "@")
	if at <= 0 || at == len(s)-1 || strings.ContainsAny(s, " <>") {
		return false
	}
	return validate.SimpleEmailValid(s)
}
