// Package config tests configuration loading.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.NumWorkers != DefaultNumWorkers {
		t.Errorf("NumWorkers: got %d, want %d", cfg.NumWorkers, DefaultNumWorkers)
	}
	if cfg.ModelName != "simpleconv" {
		t.Errorf("ModelName: got %q, want simpleconv", cfg.ModelName)
	}
	if cfg.SimpleConv.Depth != DefaultDepth {
		t.Errorf("Depth: got %d, want %d", cfg.SimpleConv.Depth, DefaultDepth)
	}
	if len(cfg.SimpleConv.Strides) != cfg.SimpleConv.Depth {
		t.Errorf("Strides: got %d entries, want %d", len(cfg.SimpleConv.Strides), cfg.SimpleConv.Depth)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestLoadReferenceConfig(t *testing.T) {
	cfg, err := LoadFile(filepath.Join("testdata", "clip_meg.yaml"), WithoutEnv())
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.SimpleConv.Depth != 10 {
		t.Errorf("Depth: got %d, want 10", cfg.SimpleConv.Depth)
	}
	if len(cfg.SimpleConv.Strides) != 10 {
		t.Errorf("Strides: got %d entries, want 10", len(cfg.SimpleConv.Strides))
	}
	if cfg.Optim.BatchSize != 256 {
		t.Errorf("BatchSize: got %d, want 256", cfg.Optim.BatchSize)
	}
	if cfg.Task.OffsetMEGMs != 150 {
		t.Errorf("OffsetMEGMs: got %d, want 150", cfg.Task.OffsetMEGMs)
	}
	if cfg.Optim.Loss != "clip" {
		t.Errorf("Loss: got %q, want clip", cfg.Optim.Loss)
	}
}

func TestLoadOmittedFieldsUseDefaults(t *testing.T) {
	// num_workers is absent and must fall back to the default.
	doc := []byte("model_name: simpleconv\noptim:\n  batch_size: 128\n")

	cfg, err := LoadBytes(doc, FormatYAML)
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	if cfg.NumWorkers != DefaultNumWorkers {
		t.Errorf("NumWorkers: got %d, want default %d", cfg.NumWorkers, DefaultNumWorkers)
	}
	if cfg.Optim.BatchSize != 128 {
		t.Errorf("BatchSize: got %d, want 128", cfg.Optim.BatchSize)
	}
	if cfg.Optim.Epochs != DefaultEpochs {
		t.Errorf("Epochs: got %d, want default %d", cfg.Optim.Epochs, DefaultEpochs)
	}
}

func TestShapeMismatch(t *testing.T) {
	doc := []byte(`
simpleconv:
  depth: 3
  strides: [1, 2]
  kernel_size: [3, 3, 3]
  padding: [1, 1, 1]
`)
	_, err := LoadBytes(doc, FormatYAML)
	if err == nil {
		t.Fatal("expected ShapeMismatchError, got nil")
	}
	var sme *ShapeMismatchError
	if !errors.As(err, &sme) {
		t.Fatalf("expected ShapeMismatchError, got %T: %v", err, err)
	}
	if sme.Field != "simpleconv.strides" {
		t.Errorf("Field: got %q, want simpleconv.strides", sme.Field)
	}
	if sme.Want != 3 || sme.Got != 2 {
		t.Errorf("Want/Got: got %d/%d, want 3/2", sme.Want, sme.Got)
	}
}

func TestSubjectDimZeroAccepted(t *testing.T) {
	// subject_dim 0 with subject_layers true is valid; the combination
	// is deliberately not cross-validated.
	doc := []byte(`
simpleconv:
  subject_layers: true
  subject_dim: 0
`)
	cfg, err := LoadBytes(doc, FormatYAML)
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	if !cfg.SimpleConv.SubjectLayers {
		t.Error("SubjectLayers: got false, want true")
	}
	if cfg.SimpleConv.SubjectDim != 0 {
		t.Errorf("SubjectDim: got %d, want 0", cfg.SimpleConv.SubjectDim)
	}
}

func TestUnknownKeys(t *testing.T) {
	doc := []byte(`
model_nam: simpleconv
simpleconv:
  dephts: 10
`)

	t.Run("lenient collects warnings", func(t *testing.T) {
		var seen []string
		_, err := LoadBytes(doc, FormatYAML, WithUnknownKeyFunc(func(key string) {
			seen = append(seen, key)
		}))
		if err != nil {
			t.Fatalf("LoadBytes: %v", err)
		}
		if len(seen) != 2 {
			t.Fatalf("unknown keys: got %v, want 2 entries", seen)
		}
		if seen[0] != "model_nam" || seen[1] != "simpleconv.dephts" {
			t.Errorf("unknown keys: got %v", seen)
		}
	})

	t.Run("strict fails", func(t *testing.T) {
		_, err := LoadBytes(doc, FormatYAML, WithStrict())
		var ufe *UnknownFieldError
		if !errors.As(err, &ufe) {
			t.Fatalf("expected UnknownFieldError, got %T: %v", err, err)
		}
		if len(ufe.Fields) != 2 {
			t.Errorf("Fields: got %v, want 2 entries", ufe.Fields)
		}
	})
}

func TestTypeMismatch(t *testing.T) {
	doc := []byte("simpleconv:\n  depth: ten\n")
	_, err := LoadBytes(doc, FormatYAML)
	var tme *TypeMismatchError
	if !errors.As(err, &tme) {
		t.Fatalf("expected TypeMismatchError, got %T: %v", err, err)
	}
}

func TestMalformedDocument(t *testing.T) {
	doc := []byte("simpleconv: [unterminated\n  depth: 10\n")
	_, err := LoadBytes(doc, FormatYAML)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %T: %v", err, err)
	}
}

func TestLoadTOML(t *testing.T) {
	doc := []byte(`
num_workers = 4

[optim]
batch_size = 128
`)
	cfg, err := LoadBytes(doc, FormatTOML)
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	if cfg.NumWorkers != 4 {
		t.Errorf("NumWorkers: got %d, want 4", cfg.NumWorkers)
	}
	if cfg.Optim.BatchSize != 128 {
		t.Errorf("BatchSize: got %d, want 128", cfg.Optim.BatchSize)
	}
}

func TestLoadTOMLUnknownKeyStrict(t *testing.T) {
	doc := []byte(`
[optim]
batchsize = 128
`)
	_, err := LoadBytes(doc, FormatTOML, WithStrict())
	var ufe *UnknownFieldError
	if !errors.As(err, &ufe) {
		t.Fatalf("expected UnknownFieldError, got %T: %v", err, err)
	}
}

func TestLoadJSON(t *testing.T) {
	doc := []byte(`{"num_workers": 2, "task": {"offset_meg_ms": -50}}`)
	cfg, err := LoadBytes(doc, FormatJSON)
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	if cfg.NumWorkers != 2 {
		t.Errorf("NumWorkers: got %d, want 2", cfg.NumWorkers)
	}
	if cfg.Task.OffsetMEGMs != -50 {
		t.Errorf("OffsetMEGMs: got %d, want -50", cfg.Task.OffsetMEGMs)
	}
}

func TestEnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(path, []byte("model_name: simpleconv\n"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv(EnvBatchSize, "64")
	t.Setenv(EnvOffsetMEGMs, "-100")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Optim.BatchSize != 64 {
		t.Errorf("BatchSize: got %d, want 64", cfg.Optim.BatchSize)
	}
	if cfg.Task.OffsetMEGMs != -100 {
		t.Errorf("OffsetMEGMs: got %d, want -100", cfg.Task.OffsetMEGMs)
	}
}

func TestEnvOverrideInvalidInt(t *testing.T) {
	t.Setenv(EnvEpochs, "forty")
	cfg := Default()
	if err := ApplyEnv(cfg); err == nil {
		t.Error("expected error for non-integer env override")
	}
}

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"config.yaml", FormatYAML, false},
		{"config.yml", FormatYAML, false},
		{"config.toml", FormatTOML, false},
		{"config.json", FormatJSON, false},
		{"config.ini", "", true},
		{"config", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatForPath(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Errorf("FormatForPath(%q): expected error", tt.path)
				}
				return
			}
			if err != nil {
				t.Fatalf("FormatForPath(%q): %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("FormatForPath(%q): got %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
