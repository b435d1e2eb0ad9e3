package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/soundlane/renderplan/internal/graph"
	"github.com/soundlane/renderplan/internal/timeline"
)

// Scenario describes one evaluation run: a project and the instants to
// evaluate it at.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario covers.
	Description string `yaml:"description,omitempty"`

	// Quality selects the compile quality; defaults to standard.
	Quality string `yaml:"quality,omitempty"`

	// At lists the timeline instants (seconds) to evaluate.
	At []float64 `yaml:"at"`

	// Project is the authored project description.
	Project timeline.ProjectDoc `yaml:"project"`

	// Assertions are optional declarative checks run against each
	// evaluation.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// LoadScenario reads and validates a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks scenario invariants.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario: name is required")
	}
	if len(s.At) == 0 {
		return fmt.Errorf("scenario %q: at least one evaluation instant is required", s.Name)
	}
	switch graph.Quality(s.Quality) {
	case "", graph.QualityDraft, graph.QualityStandard, graph.QualityHigh:
	default:
		return fmt.Errorf("scenario %q: unknown quality %q", s.Name, s.Quality)
	}
	return nil
}

// quality returns the effective compile quality.
func (s *Scenario) quality() graph.Quality {
	if s.Quality == "" {
		return graph.QualityStandard
	}
	return graph.Quality(s.Quality)
}
