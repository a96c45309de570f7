package scenario

import "sort"

// Builtins returns the bundled scenarios, available without any files.
// "chain" is the canonical four-agent line; "converged" starts at the
// fixed point; "saturated" pins alternating agents to both bounds.
func Builtins() map[string]*Scenario {
	chain := &Scenario{
		Name: "chain",
		Agents: []AgentDef{
			{ID: "a", Value: 2, Neighbors: []string{"b"}},
			{ID: "b", Value: 9, Neighbors: []string{"a", "c"}},
			{ID: "c", Value: 3, Neighbors: []string{"b", "d"}},
			{ID: "d", Value: 6, Neighbors: []string{"c"}},
		},
	}
	converged := &Scenario{
		Name: "converged",
		Agents: []AgentDef{
			{ID: "a", Value: 5, Neighbors: []string{"b"}},
			{ID: "b", Value: 5, Neighbors: []string{"a", "c"}},
			{ID: "c", Value: 5, Neighbors: []string{"b", "d"}},
			{ID: "d", Value: 5, Neighbors: []string{"c"}},
		},
	}
	saturated := &Scenario{
		Name: "saturated",
		Agents: []AgentDef{
			{ID: "a", Value: 0, Neighbors: []string{"b"}},
			{ID: "b", Value: 10, Neighbors: []string{"a", "c"}},
			{ID: "c", Value: 0, Neighbors: []string{"b", "d"}},
			{ID: "d", Value: 10, Neighbors: []string{"c"}},
		},
	}

	out := map[string]*Scenario{
		chain.Name:     chain,
		converged.Name: converged,
		saturated.Name: saturated,
	}
	for _, s := range out {
		s.normalize()
	}
	return out
}

// BuiltinNames returns the names of the bundled scenarios in order.
func BuiltinNames() []string {
	builtins := Builtins()
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
