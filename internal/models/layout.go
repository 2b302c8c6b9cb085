package models

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed graveyard.yaml
var defaultLayout []byte

// Prop is one piece of scenery in a layout file.
type Prop struct {
	ID   string `yaml:"id"`
	Kind Kind   `yaml:"kind"`
	Pos  Vec    `yaml:",inline"`
}

// Layout describes the initial placement of the graveyard.
type Layout struct {
	Hero    string `yaml:"hero"`
	Scenery []Prop `yaml:"scenery"`
}

// DefaultLayout returns the built-in graveyard.
func DefaultLayout() (Layout, error) {
	return ParseLayout(defaultLayout)
}

// LoadLayout reads a layout from a YAML file.
func LoadLayout(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, err
	}
	layout, err := ParseLayout(data)
	if err != nil {
		return Layout{}, fmt.Errorf("layout %s: %w", path, err)
	}
	return layout, nil
}

// ParseLayout decodes and validates a YAML layout.
func ParseLayout(data []byte) (Layout, error) {
	var layout Layout
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return Layout{}, fmt.Errorf("failed to parse layout: %w", err)
	}
	if err := layout.Validate(); err != nil {
		return Layout{}, err
	}
	return layout, nil
}

// Validate checks that ids are unique and every prop is scenery.
func (l Layout) Validate() error {
	if l.Hero == "" {
		return fmt.Errorf("layout has no hero id")
	}
	seen := map[string]bool{l.Hero: true}
	for _, p := range l.Scenery {
		if p.ID == "" {
			return fmt.Errorf("scenery at (%g, %g) has no id", p.Pos.X, p.Pos.Y)
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate entity id %q", p.ID)
		}
		seen[p.ID] = true
		if !IsProp(p.Kind) {
			return fmt.Errorf("scenery %q has unknown kind %q", p.ID, p.Kind)
		}
	}
	return nil
}

// Entities returns the hero followed by the scenery, in file order.
func (l Layout) Entities() []Entity {
	entities := make([]Entity, 0, len(l.Scenery)+1)
	entities = append(entities, Hero{ID: l.Hero})
	for _, p := range l.Scenery {
		entities = append(entities, Scenery{ID: p.ID, Pos: p.Pos, Prop: p.Kind})
	}
	return entities
}
