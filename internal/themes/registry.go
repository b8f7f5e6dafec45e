// Package themes holds the fixed set of presentation themes. The set is
// enumerated in an embedded YAML file; the first entry is the default.
package themes

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed config/themes.yaml
var themesFile []byte

// Color is an RGB triple used by the PDF renderer.
type Color struct {
	Red   int `yaml:"red" json:"red"`
	Green int `yaml:"green" json:"green"`
	Blue  int `yaml:"blue" json:"blue"`
}

// Theme describes one presentation theme.
type Theme struct {
	Name       string `yaml:"name" json:"name"`
	Background Color  `yaml:"background" json:"background"`
	Heading    Color  `yaml:"heading" json:"heading"`
	Body       Color  `yaml:"body" json:"body"`
	Accent     Color  `yaml:"accent" json:"accent"`
}

// Registry is the loaded theme set, ordered as defined in YAML.
type Registry struct {
	themes []Theme
	byName map[string]Theme
}

// NewRegistry loads the embedded theme file.
func NewRegistry() (*Registry, error) {
	var parsed struct {
		Themes []Theme `yaml:"themes"`
	}
	if err := yaml.Unmarshal(themesFile, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal themes: %w", err)
	}
	if len(parsed.Themes) == 0 {
		return nil, fmt.Errorf("theme file defines no themes")
	}

	byName := make(map[string]Theme, len(parsed.Themes))
	for _, t := range parsed.Themes {
		byName[t.Name] = t
	}

	return &Registry{themes: parsed.Themes, byName: byName}, nil
}

// Default returns the first theme in the set.
func (r *Registry) Default() Theme {
	return r.themes[0]
}

// Get returns a theme by name.
func (r *Registry) Get(name string) (Theme, error) {
	t, ok := r.byName[name]
	if !ok {
		return Theme{}, fmt.Errorf("unknown theme: %s", name)
	}
	return t, nil
}

// List returns all themes in definition order.
func (r *Registry) List() []Theme {
	out := make([]Theme, len(r.themes))
	copy(out, r.themes)
	return out
}
