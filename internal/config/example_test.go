package config

import (
	"reflect"
	"testing"
)

func TestExampleConfigMatchesDefaults(t *testing.T) {
	cfg, err := LoadBytes([]byte(ExampleConfig()), FormatYAML, WithStrict())
	if err != nil {
		t.Fatalf("example config does not load: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("example config differs from defaults:\n got %+v\nwant %+v", cfg, Default())
	}
}
