// Package fixtures loads the checker core's regression corpus from YAML and
// replays each entry against a freshly built ast.Repository/scope.Context,
// comparing the observed outcome against what the fixture declares: a small
// YAML-backed metadata struct plus a Kind-keyed dispatch, rather than a
// general-purpose type-expression parser.
package fixtures

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scenario describes one entry in testdata/scenarios.yaml: an id and
// human-readable description for reporting, a Kind selecting which builder
// in the Registry constructs and exercises it, and the expected outcome.
type Scenario struct {
	ID          string `yaml:"id"`
	Description string `yaml:"description"`
	Kind        string `yaml:"kind"`
	ExpectError bool   `yaml:"expect_error"`
	ErrorReason string `yaml:"error_reason"`
}

// scenarioFile is the top-level shape of testdata/scenarios.yaml.
type scenarioFile struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// LoadScenarios reads and validates every scenario in path.
func LoadScenarios(path string) ([]Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var file scenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	for i := range file.Scenarios {
		if err := file.Scenarios[i].validate(); err != nil {
			return nil, err
		}
	}
	return file.Scenarios, nil
}

func (s *Scenario) validate() error {
	if s.ID == "" {
		return fmt.Errorf("scenario missing required field: id")
	}
	if s.Kind == "" {
		return fmt.Errorf("scenario %s missing required field: kind", s.ID)
	}
	if _, ok := Registry[s.Kind]; !ok {
		return fmt.Errorf("scenario %s: unknown kind %q", s.ID, s.Kind)
	}
	return nil
}

// Run builds and exercises s via its Registry entry, then checks the
// resulting error (if any) against the scenario's declared expectation.
func Run(s Scenario) error {
	build, ok := Registry[s.Kind]
	if !ok {
		return fmt.Errorf("scenario %s: unknown kind %q", s.ID, s.Kind)
	}

	err := build()
	if s.ExpectError && err == nil {
		return fmt.Errorf("scenario %s: expected an error but succeeded", s.ID)
	}
	if !s.ExpectError && err != nil {
		return fmt.Errorf("scenario %s: unexpected error: %w", s.ID, err)
	}
	if s.ExpectError && s.ErrorReason != "" && !strings.Contains(err.Error(), s.ErrorReason) {
		return fmt.Errorf("scenario %s: error %q does not mention %q", s.ID, err.Error(), s.ErrorReason)
	}
	return nil
}
