package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	yaml "gopkg.in/yaml.v3"
)

// Format identifies a supported document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatForPath maps a file extension to a Format.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported config extension %q", filepath.Ext(path))
	}
}

// Option configures loading behavior.
type Option func(*loadOptions)

type loadOptions struct {
	strict    bool
	onUnknown func(key string)
	skipEnv   bool
}

// WithStrict makes unknown document keys a load failure instead of a
// warning.
func WithStrict() Option {
	return func(o *loadOptions) { o.strict = true }
}

// WithUnknownKeyFunc registers a callback invoked for every unknown key
// when not in strict mode.
func WithUnknownKeyFunc(fn func(key string)) Option {
	return func(o *loadOptions) { o.onUnknown = fn }
}

// WithoutEnv disables BM_* environment overrides in LoadFile.
func WithoutEnv() Option {
	return func(o *loadOptions) { o.skipEnv = true }
}

// LoadFile reads, decodes, and validates a configuration file. The
// format is chosen by extension. Defaults fill absent fields, then
// BM_* environment variables override the scalar schedule knobs.
func LoadFile(path string, opts ...Option) (*Config, error) {
	o := applyOptions(opts)

	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg, err := decode(data, format, o)
	if err != nil {
		return nil, err
	}
	if !o.skipEnv {
		if err := ApplyEnv(cfg); err != nil {
			return nil, err
		}
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadBytes decodes and validates a configuration document already in
// memory. Environment overrides are not applied.
func LoadBytes(data []byte, format Format, opts ...Option) (*Config, error) {
	o := applyOptions(opts)
	cfg, err := decode(data, format, o)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyOptions(opts []Option) *loadOptions {
	o := &loadOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// decode unmarshals the document over a defaulted Config so absent
// fields keep their defaults, then applies the unknown-key policy.
func decode(data []byte, format Format, o *loadOptions) (*Config, error) {
	cfg := Default()

	var unknown []string
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			var te *yaml.TypeError
			if errors.As(err, &te) {
				return nil, &TypeMismatchError{Err: errors.New(strings.Join(te.Errors, "; "))}
			}
			return nil, &ParseError{Format: format, Err: err}
		}
		doc, err := DecodeDocument(data, format)
		if err != nil {
			return nil, err
		}
		unknown = unknownKeys(doc)
	case FormatJSON:
		if err := json.Unmarshal(data, cfg); err != nil {
			var ute *json.UnmarshalTypeError
			if errors.As(err, &ute) {
				return nil, &TypeMismatchError{Field: ute.Field, Err: err}
			}
			return nil, &ParseError{Format: format, Err: err}
		}
		doc, err := DecodeDocument(data, format)
		if err != nil {
			return nil, err
		}
		unknown = unknownKeys(doc)
	case FormatTOML:
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			if strings.Contains(err.Error(), "incompatible types") {
				return nil, &TypeMismatchError{Err: err}
			}
			return nil, &ParseError{Format: format, Err: err}
		}
		for _, key := range md.Undecoded() {
			unknown = append(unknown, key.String())
		}
		sort.Strings(unknown)
	default:
		return nil, &ParseError{Format: format, Err: fmt.Errorf("unsupported format %q", format)}
	}

	if len(unknown) > 0 {
		if o.strict {
			return nil, &UnknownFieldError{Fields: unknown}
		}
		if o.onUnknown != nil {
			for _, key := range unknown {
				o.onUnknown(key)
			}
		}
	}
	return cfg, nil
}

// DecodeDocument unmarshals a document into a generic nested map, the
// form consumed by schema validation and sweep expansion.
func DecodeDocument(data []byte, format Format) (map[string]any, error) {
	doc := map[string]any{}
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, &ParseError{Format: format, Err: err}
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, &ParseError{Format: format, Err: err}
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, &ParseError{Format: format, Err: err}
		}
	default:
		return nil, &ParseError{Format: format, Err: fmt.Errorf("unsupported format %q", format)}
	}
	return doc, nil
}

// knownKeys maps a dotted section prefix to the keys it may contain.
var knownKeys = map[string]map[string]bool{
	"": {
		"num_workers": true,
		"model_name":  true,
		"simpleconv":  true,
		"optim":       true,
		"norm":        true,
		"task":        true,
	},
	"simpleconv": {
		"hidden":               true,
		"batch_norm":           true,
		"depth":                true,
		"dilation_period":      true,
		"skip":                 true,
		"subject_layers":       true,
		"subject_dim":          true,
		"complex_out":          true,
		"glu":                  true,
		"glu_context":          true,
		"merger":               true,
		"merger_pos_dim":       true,
		"initial_linear":       true,
		"gelu":                 true,
		"avg_pool_out":         true,
		"flatten_out":          true,
		"flatten_out_channels": true,
		"strides":              true,
		"kernel_size":          true,
		"padding":              true,
		"seq_len":              true,
		"auto_padding":         true,
		"is_deformable_conv":   true,
	},
	"simpleconv.hidden": {"meg": true},
	"optim": {
		"loss":        true,
		"epochs":      true,
		"max_batches": true,
		"batch_size":  true,
	},
	"norm": {"clip": true},
	"task": {"type": true, "offset_meg_ms": true},
}

// unknownKeys walks a generic document against the key registry and
// returns every dotted key no field claims, sorted.
func unknownKeys(doc map[string]any) []string {
	var out []string
	collectUnknown(doc, "", &out)
	sort.Strings(out)
	return out
}

func collectUnknown(doc map[string]any, prefix string, out *[]string) {
	allowed := knownKeys[prefix]
	for key, value := range doc {
		dotted := key
		if prefix != "" {
			dotted = prefix + "." + key
		}
		if !allowed[key] {
			*out = append(*out, dotted)
			continue
		}
		if nested, ok := value.(map[string]any); ok {
			if _, isSection := knownKeys[dotted]; isSection {
				collectUnknown(nested, dotted, out)
			}
		}
	}
}
