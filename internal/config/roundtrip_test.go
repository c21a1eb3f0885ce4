package config

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	cfg, err := LoadFile(filepath.Join("testdata", "clip_meg.yaml"), WithoutEnv())
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	for _, format := range []Format{FormatYAML, FormatTOML, FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			data, err := Encode(cfg, format)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			reloaded, err := LoadBytes(data, format, WithStrict())
			if err != nil {
				t.Fatalf("LoadBytes: %v", err)
			}
			if !reflect.DeepEqual(cfg, reloaded) {
				t.Errorf("round trip differs:\n got %+v\nwant %+v", reloaded, cfg)
			}
		})
	}
}

func TestSaveAndReload(t *testing.T) {
	cfg := Default()
	cfg.Optim.Epochs = 13

	for _, name := range []string{"out.yaml", "out.toml", "out.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			if err := Save(cfg, path); err != nil {
				t.Fatalf("Save: %v", err)
			}
			reloaded, err := LoadFile(path, WithoutEnv())
			if err != nil {
				t.Fatalf("LoadFile: %v", err)
			}
			if !reflect.DeepEqual(cfg, reloaded) {
				t.Errorf("reloaded config differs:\n got %+v\nwant %+v", reloaded, cfg)
			}
		})
	}
}
