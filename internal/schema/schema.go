// Package schema validates configuration documents against the
// embedded JSON Schema.
//
// The schema covers per-field constraints (types, minima, enums);
// cross-field checks that JSON Schema cannot express, such as the
// per-layer sequence lengths against depth, live in the config
// validator.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "config.schema.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// ValidationError reports the first schema violation with a dotted
// field path.
type ValidationError struct {
	Path    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

func compile() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			compileErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiled, compileErr = compiler.Compile(schemaURL)
	})
	return compiled, compileErr
}

// Validate checks a decoded configuration document against the schema.
// The document is normalized through JSON first so values produced by
// any of the supported codecs validate alike.
func Validate(doc map[string]any) error {
	sch, err := compile()
	if err != nil {
		return err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	var obj interface{}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("unmarshal document: %w", err)
	}

	if err := sch.Validate(obj); err != nil {
		return mapValidationError(err)
	}
	return nil
}

// mapValidationError converts a jsonschema ValidationError into the
// package error type, keeping the most specific cause.
func mapValidationError(err error) error {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return &ValidationError{Message: err.Error()}
	}

	var result *ValidationError
	collectLeafError(ve, &result)
	if result != nil {
		return result
	}
	return &ValidationError{Message: ve.Message}
}

// collectLeafError walks the cause tree to the first leaf violation.
func collectLeafError(err *jsonschema.ValidationError, result **ValidationError) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		*result = &ValidationError{
			Path:    pointerToPath(err.InstanceLocation),
			Message: err.Message,
		}
		return
	}
	for _, cause := range err.Causes {
		if *result == nil {
			collectLeafError(cause, result)
		}
	}
}

// pointerToPath converts a JSON pointer like "/simpleconv/depth" into
// the dotted form used across the loader's errors.
func pointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(strings.TrimPrefix(ptr, "#"), "/")
	if ptr == "" {
		return ""
	}
	return strings.ReplaceAll(ptr, "/", ".")
}
