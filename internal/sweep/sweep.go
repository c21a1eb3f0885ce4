// Package sweep expands hyperparameter grids into config variants.
//
// A sweep document names a base configuration and a grid of dotted-path
// axes. Expansion takes the cartesian product of the axes, applies each
// combination as overrides on the base document, and validates every
// resulting configuration. Running the resulting jobs is out of scope;
// the output is a set of config files.
package sweep

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/maryjis/brainmagick-MICCAI/internal/config"
)

// Spec describes a sweep: the base config file and the grid axes.
type Spec struct {
	Base   string           `yaml:"base"`
	OutDir string           `yaml:"out_dir"`
	Grid   map[string][]any `yaml:"grid"`
}

// ParseSpec decodes and checks a sweep document.
func ParseSpec(data []byte) (*Spec, error) {
	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse sweep spec: %w", err)
	}
	if spec.Base == "" {
		return nil, fmt.Errorf("sweep spec: base config path is required")
	}
	if len(spec.Grid) == 0 {
		return nil, fmt.Errorf("sweep spec: grid must name at least one axis")
	}
	for axis, values := range spec.Grid {
		if len(values) == 0 {
			return nil, fmt.Errorf("sweep spec: axis %s has no values", axis)
		}
	}
	return &spec, nil
}

// ParseSpecFile reads a sweep document from disk. Base and OutDir are
// resolved relative to the spec file's directory.
func ParseSpecFile(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sweep spec %s: %w", path, err)
	}
	spec, err := ParseSpec(data)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	if !filepath.IsAbs(spec.Base) {
		spec.Base = filepath.Join(dir, spec.Base)
	}
	if spec.OutDir == "" {
		spec.OutDir = dir
	} else if !filepath.IsAbs(spec.OutDir) {
		spec.OutDir = filepath.Join(dir, spec.OutDir)
	}
	return spec, nil
}

// Variant is one expanded grid point.
type Variant struct {
	Name      string
	Overrides map[string]any
	Doc       map[string]any
	Config    *config.Config
}

// Expand produces every grid point over the base document, in a
// deterministic order (axes sorted by name, values in declaration
// order). Every variant is validated before it is returned.
func (s *Spec) Expand(baseDoc map[string]any) ([]Variant, error) {
	axes := make([]string, 0, len(s.Grid))
	for axis := range s.Grid {
		axes = append(axes, axis)
	}
	sort.Strings(axes)

	total := 1
	for _, axis := range axes {
		total *= len(s.Grid[axis])
	}

	variants := make([]Variant, 0, total)
	indices := make([]int, len(axes))
	for i := 0; i < total; i++ {
		overrides := make(map[string]any, len(axes))
		for j, axis := range axes {
			overrides[axis] = s.Grid[axis][indices[j]]
		}

		doc, err := copyDoc(baseDoc)
		if err != nil {
			return nil, err
		}
		for _, axis := range axes {
			setPath(doc, axis, overrides[axis])
		}

		name := fmt.Sprintf("variant-%04d", i)
		cfg, err := materialize(doc)
		if err != nil {
			return nil, fmt.Errorf("%s (%s): %w", name, describeOverrides(axes, overrides), err)
		}
		variants = append(variants, Variant{
			Name:      name,
			Overrides: overrides,
			Doc:       doc,
			Config:    cfg,
		})

		// Advance the odometer, last axis fastest.
		for j := len(indices) - 1; j >= 0; j-- {
			indices[j]++
			if indices[j] < len(s.Grid[axes[j]]) {
				break
			}
			indices[j] = 0
		}
	}
	return variants, nil
}

// WriteFiles writes every variant as a YAML config file under dir,
// named <stem>-<variant>.yaml, and returns the written paths.
func WriteFiles(variants []Variant, dir, stem string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create sweep dir: %w", err)
	}
	paths := make([]string, 0, len(variants))
	for _, v := range variants {
		data, err := yaml.Marshal(v.Doc)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", v.Name, err)
		}
		path := filepath.Join(dir, fmt.Sprintf("%s-%s.yaml", stem, v.Name))
		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// materialize turns a generic document back into a validated Config.
func materialize(doc map[string]any) (*config.Config, error) {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return config.LoadBytes(data, config.FormatYAML)
}

func copyDoc(doc map[string]any) (map[string]any, error) {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// setPath writes value at a dotted path, creating intermediate maps as
// needed.
func setPath(doc map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	cur := doc
	for _, part := range parts[:len(parts)-1] {
		next, ok := cur[part].(map[string]any)
		if !ok {
			next = map[string]any{}
			cur[part] = next
		}
		cur = next
	}
	cur[parts[len(parts)-1]] = value
}

func describeOverrides(axes []string, overrides map[string]any) string {
	parts := make([]string, 0, len(axes))
	for _, axis := range axes {
		parts = append(parts, fmt.Sprintf("%s=%v", axis, overrides[axis]))
	}
	return strings.Join(parts, " ")
}
