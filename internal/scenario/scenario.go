// Package scenario defines declarative descriptions of
// value-synchronization systems, loaded from YAML files or taken from
// the built-in catalog.
package scenario

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tomjorquera/flock/internal/valuesync"
)

// AgentDef declares one agent of a scenario.
type AgentDef struct {
	ID        string   `yaml:"id"`
	Value     int      `yaml:"value"`
	Neighbors []string `yaml:"neighbors"`
}

// BoundsDef declares the value range of a scenario.
type BoundsDef struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Scenario is a complete declarative description of a system: topology,
// initial values, bounds, lookahead depth and driver round cap.
type Scenario struct {
	Name      string     `yaml:"name"`
	Depth     int        `yaml:"depth"`
	MaxRounds int        `yaml:"max_rounds"`
	Bounds    *BoundsDef `yaml:"bounds"`
	Agents    []AgentDef `yaml:"agents"`
}

// DefaultMaxRounds caps a run when the scenario does not set its own.
const DefaultMaxRounds = 100

// normalize fills in defaults for optional fields.
func (s *Scenario) normalize() {
	if s.MaxRounds == 0 {
		s.MaxRounds = DefaultMaxRounds
	}
	if s.Bounds == nil {
		s.Bounds = &BoundsDef{Min: valuesync.DefaultBounds.Min, Max: valuesync.DefaultBounds.Max}
	}
}

// Load reads and normalizes a scenario from a YAML file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario file %s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	s.normalize()
	return &s, nil
}

// LoadDir loads every .yaml/.yml scenario in a directory, sorted by
// name. A missing directory yields an empty list, not an error.
func LoadDir(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read scenario dir: %w", err)
	}

	var scenarios []*Scenario
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		s, err := Load(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	sort.Slice(scenarios, func(i, j int) bool { return scenarios[i].Name < scenarios[j].Name })
	return scenarios, nil
}

// Build constructs the runnable system described by the scenario. The
// scenario should be validated first; Build repeats only the structural
// checks the system itself enforces.
func (s *Scenario) Build() (*valuesync.System, error) {
	specs := make([]valuesync.NodeSpec, 0, len(s.Agents))
	for _, a := range s.Agents {
		specs = append(specs, valuesync.NodeSpec{
			ID:        a.ID,
			Value:     a.Value,
			Neighbors: a.Neighbors,
		})
	}
	bounds := valuesync.Bounds{Min: s.Bounds.Min, Max: s.Bounds.Max}
	sys, err := valuesync.NewSystem(specs, bounds, s.Depth)
	if err != nil {
		return nil, fmt.Errorf("build scenario %s: %w", s.Name, err)
	}
	return sys, nil
}
