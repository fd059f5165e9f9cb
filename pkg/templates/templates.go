// Package templates holds the starter flow templates shipped with the catalog.
package templates

import (
	_ "embed"
	"fmt"

	"github.com/teleboot/teleboot/pkg/models"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Fixture is a starter template before it is stored.
type Fixture struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Category    string       `yaml:"category"`
	Graph       models.Graph `yaml:"flow_data"`
}

// Defaults returns the starter templates in catalog order. Every graph is validated.
func Defaults() ([]Fixture, error) {
	return Parse(defaultsYAML)
}

// Parse decodes a YAML list of fixtures and validates their graphs.
func Parse(data []byte) ([]Fixture, error) {
	var fixtures []Fixture

	err := yaml.Unmarshal(data, &fixtures)
	if err != nil {
		return nil, fmt.Errorf("failed to decode template fixtures: %w", err)
	}

	for i := range fixtures {
		fixture := &fixtures[i]

		if fixture.Name == "" || fixture.Category == "" {
			return nil, fmt.Errorf("template fixture %d: name and category are required", i)
		}

		if fixture.Graph.Edges == nil {
			fixture.Graph.Edges = []models.Edge{}
		}

		if fixture.Graph.Nodes == nil {
			fixture.Graph.Nodes = []models.Node{}
		}

		err := fixture.Graph.Validate()
		if err != nil {
			return nil, fmt.Errorf("template fixture %q: %w", fixture.Name, err)
		}
	}

	return fixtures, nil
}
