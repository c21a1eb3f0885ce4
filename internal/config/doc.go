// Package config defines the training configuration record and its
// loader.
//
// A document is decoded over the built-in defaults, checked against the
// field invariants, and returned as an immutable Config. Supported
// encodings are YAML (primary), TOML, and JSON, chosen by file
// extension. Unknown keys warn by default and fail under WithStrict.
//
// Load failures are reported through a small typed taxonomy:
// ParseError for malformed documents, TypeMismatchError for fields of
// the wrong type, ShapeMismatchError for per-layer sequences whose
// length disagrees with depth, UnknownFieldError under strict mode, and
// InvalidValueError for out-of-range values.
package config
