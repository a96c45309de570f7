package valuesync

import (
	"fmt"
	"sort"

	"github.com/tomjorquera/flock/internal/coop"
)

// NodeSpec declares one agent of a system: its id, starting value and
// neighbor ids (the agent itself is added implicitly).
type NodeSpec struct {
	ID        string
	Value     int
	Neighbors []string
}

// System owns a running value-synchronization instance: the current
// environment plus the deterministic agent processing order.
type System struct {
	env   Env
	order []string
}

// Turn records what one agent did within a round.
type Turn struct {
	ID          string
	Actions     []Action
	Value       int
	Criticality Criticality
}

// NewSystem builds a system from node specs. Agents are processed in
// lexical id order each round. Neighbor references must resolve and
// values must sit within the bounds.
func NewSystem(specs []NodeSpec, bounds Bounds, depth int) (*System, error) {
	if bounds.Min >= bounds.Max {
		return nil, fmt.Errorf("invalid bounds [%d, %d]", bounds.Min, bounds.Max)
	}

	refs := make(map[string]*Node, len(specs))
	values := make(map[string]int, len(specs))
	for _, spec := range specs {
		if spec.ID == "" {
			return nil, fmt.Errorf("agent with empty id")
		}
		if _, ok := refs[spec.ID]; ok {
			return nil, fmt.Errorf("duplicate agent id %q", spec.ID)
		}
		if spec.Value < bounds.Min || spec.Value > bounds.Max {
			return nil, fmt.Errorf("agent %q value %d outside bounds [%d, %d]", spec.ID, spec.Value, bounds.Min, bounds.Max)
		}
		refs[spec.ID] = NewNode(spec.ID, spec.Neighbors, depth)
		values[spec.ID] = spec.Value
	}

	order := make([]string, 0, len(specs))
	for _, spec := range specs {
		for _, nb := range spec.Neighbors {
			if _, ok := refs[nb]; !ok {
				return nil, fmt.Errorf("agent %q references unknown neighbor %q", spec.ID, nb)
			}
		}
		order = append(order, spec.ID)
	}
	sort.Strings(order)

	return &System{
		env:   NewEnv(refs, values, bounds),
		order: order,
	}, nil
}

// Env returns the current environment snapshot.
func (s *System) Env() Env {
	return s.env
}

// IDs returns the agent ids in processing order.
func (s *System) IDs() []string {
	return s.order
}

// Round runs one decision-action turn for every agent in processing
// order, updating the environment after each agent, and reports what
// each agent did.
func (s *System) Round() []Turn {
	turns := make([]Turn, 0, len(s.order))
	for _, id := range s.order {
		n := s.env.Node(id)
		selected := Decision(n, s.env)
		s.env = coop.Act(s.env, selected)

		acts := make([]Action, len(selected.Items()))
		copy(acts, selected.Items())
		turns = append(turns, Turn{
			ID:          id,
			Actions:     acts,
			Value:       s.env.Value(id),
			Criticality: n.Criticality(s.env),
		})
	}
	return turns
}

// Converged reports whether every agent's criticality is zero.
func (s *System) Converged() bool {
	for _, id := range s.order {
		if s.env.Node(id).Criticality(s.env) != 0 {
			return false
		}
	}
	return true
}

// MaxCriticality returns the highest criticality across all agents.
func (s *System) MaxCriticality() Criticality {
	var max Criticality
	for _, id := range s.order {
		if c := s.env.Node(id).Criticality(s.env); c > max {
			max = c
		}
	}
	return max
}

// Criticalities returns each agent's current criticality keyed by id.
func (s *System) Criticalities() map[string]Criticality {
	out := make(map[string]Criticality, len(s.order))
	for _, id := range s.order {
		out[id] = s.env.Node(id).Criticality(s.env)
	}
	return out
}
