package config

import (
	"fmt"
	"strings"
)

// ParseError reports a document that could not be decoded at all:
// malformed syntax or an unsupported format.
type ParseError struct {
	Format Format
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s config: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// TypeMismatchError reports a field that is present but holds a value
// of the wrong type. Field may be empty when the decoder cannot
// attribute the failure to a single key.
type TypeMismatchError struct {
	Field string
	Err   error
}

func (e *TypeMismatchError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("field %s: %v", e.Field, e.Err)
	}
	return e.Err.Error()
}

func (e *TypeMismatchError) Unwrap() error { return e.Err }

// ShapeMismatchError reports a per-layer sequence whose length does not
// match simpleconv.depth.
type ShapeMismatchError struct {
	Field string
	Want  int
	Got   int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("field %s: length %d does not match depth %d", e.Field, e.Got, e.Want)
}

// UnknownFieldError reports keys that no known field claims. It is
// returned only under the Strict option; the default policy is to warn.
type UnknownFieldError struct {
	Fields []string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown fields: %s", strings.Join(e.Fields, ", "))
}

// InvalidValueError reports a field with the right type but a value
// outside its allowed range.
type InvalidValueError struct {
	Field  string
	Value  any
	Reason string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("field %s: invalid value %v: %s", e.Field, e.Value, e.Reason)
}
