package valuesync

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tomjorquera/flock/internal/coop"
)

func chainSpecs(values map[string]int) []NodeSpec {
	return []NodeSpec{
		{ID: "a", Value: values["a"], Neighbors: []string{"b"}},
		{ID: "b", Value: values["b"], Neighbors: []string{"a", "c"}},
		{ID: "c", Value: values["c"], Neighbors: []string{"b", "d"}},
		{ID: "d", Value: values["d"], Neighbors: []string{"c"}},
	}
}

func runToConvergence(t *testing.T, sys *System, maxRounds int) int {
	t.Helper()
	prev := sys.MaxCriticality()
	for round := 1; round <= maxRounds; round++ {
		sys.Round()
		cur := sys.MaxCriticality()
		if cur.Compare(prev) > 0 {
			t.Fatalf("round %d: max criticality rose from %v to %v", round, prev, cur)
		}
		prev = cur
		if sys.Converged() {
			return round
		}
	}
	t.Fatalf("no convergence within %d rounds; values %v", maxRounds, sys.Env().Values())
	return 0
}

func assertUniform(t *testing.T, sys *System) {
	t.Helper()
	values := sys.Env().Values()
	var first int
	for i, id := range sys.IDs() {
		if i == 0 {
			first = values[id]
			continue
		}
		if values[id] != first {
			t.Fatalf("values not uniform after convergence: %v", values)
		}
	}
}

func TestChainConverges(t *testing.T) {
	sys, err := NewSystem(chainSpecs(map[string]int{"a": 2, "b": 9, "c": 3, "d": 6}), DefaultBounds, 0)
	if err != nil {
		t.Fatal(err)
	}

	rounds := runToConvergence(t, sys, 10)
	t.Logf("converged after %d rounds", rounds)
	assertUniform(t, sys)

	if got := sys.MaxCriticality(); got != 0 {
		t.Errorf("max criticality after convergence = %v, want 0", got)
	}
}

func TestConvergedSystemStaysPut(t *testing.T) {
	values := map[string]int{"a": 5, "b": 5, "c": 5, "d": 5}
	sys, err := NewSystem(chainSpecs(values), DefaultBounds, 0)
	if err != nil {
		t.Fatal(err)
	}

	if !sys.Converged() {
		t.Fatal("uniform system not reported converged")
	}

	env := sys.Env()
	for _, id := range sys.IDs() {
		if selected := Decision(env.Node(id), env); selected.Len() != 0 {
			t.Errorf("agent %s at equilibrium selected %v, want nothing", id, selected.Items())
		}
	}

	turns := sys.Round()
	for _, turn := range turns {
		if len(turn.Actions) != 0 {
			t.Errorf("agent %s acted at equilibrium: %v", turn.ID, turn.Actions)
		}
	}
	if diff := cmp.Diff(values, sys.Env().Values()); diff != "" {
		t.Errorf("values changed at equilibrium (-want +got):\n%s", diff)
	}
}

func TestSaturatedChainConverges(t *testing.T) {
	sys, err := NewSystem(chainSpecs(map[string]int{"a": 0, "b": 10, "c": 0, "d": 10}), DefaultBounds, 0)
	if err != nil {
		t.Fatal(err)
	}

	runToConvergence(t, sys, 50)
	assertUniform(t, sys)
}

func TestChainConvergesWithLookahead(t *testing.T) {
	sys, err := NewSystem(chainSpecs(map[string]int{"a": 2, "b": 9, "c": 3, "d": 6}), DefaultBounds, 1)
	if err != nil {
		t.Fatal(err)
	}

	env := sys.Env()
	for _, id := range sys.IDs() {
		n := env.Node(id)
		selected := Decision(n, env)
		// Compatibility closure: nothing selected contradicts the rest.
		for _, act := range selected.Items() {
			if n.ContradictoryActions(env, selected.Without(act)).Contains(act) {
				t.Errorf("agent %s: %v contradicts its own selection", id, act)
			}
		}
	}

	rounds := runToConvergence(t, sys, 10)
	t.Logf("converged after %d rounds at depth 1", rounds)
	assertUniform(t, sys)
}

func TestLookaheadDepthZeroMatchesOneStep(t *testing.T) {
	values := map[string]int{"a": 2, "b": 9, "c": 3, "d": 6}
	sys, err := NewSystem(chainSpecs(values), DefaultBounds, 0)
	if err != nil {
		t.Fatal(err)
	}

	env := sys.Env()
	for _, id := range sys.IDs() {
		n := env.Node(id)
		oneStep := coop.Decide[Env, Action, Criticality, *Node](n, env)
		depthZero := DecisionDepth(n, env, 0)
		if !oneStep.Equal(depthZero) {
			t.Errorf("agent %s: one-step %v != depth-0 %v", id, oneStep.Items(), depthZero.Items())
		}
	}
}

func TestRoundIsDeterministic(t *testing.T) {
	values := map[string]int{"a": 2, "b": 9, "c": 3, "d": 6}
	mk := func() *System {
		sys, err := NewSystem(chainSpecs(values), DefaultBounds, 0)
		if err != nil {
			t.Fatal(err)
		}
		return sys
	}

	first, second := mk(), mk()
	for round := 0; round < 3; round++ {
		t1, t2 := first.Round(), second.Round()
		if diff := cmp.Diff(turnStrings(t1), turnStrings(t2)); diff != "" {
			t.Fatalf("round %d diverged (-first +second):\n%s", round+1, diff)
		}
	}
	if diff := cmp.Diff(first.Env().Values(), second.Env().Values()); diff != "" {
		t.Fatalf("final values diverged (-first +second):\n%s", diff)
	}
}

func turnStrings(turns []Turn) []string {
	out := make([]string, 0, len(turns))
	for _, turn := range turns {
		line := turn.ID + ":"
		for _, a := range turn.Actions {
			line += " " + a.String()
		}
		out = append(out, line)
	}
	return out
}

func TestNewSystemRejectsBadSpecs(t *testing.T) {
	if _, err := NewSystem(chainSpecs(map[string]int{"a": 2}), Bounds{Min: 5, Max: 5}, 0); err == nil {
		t.Error("degenerate bounds accepted")
	}

	dup := []NodeSpec{
		{ID: "a", Value: 1, Neighbors: nil},
		{ID: "a", Value: 2, Neighbors: nil},
	}
	if _, err := NewSystem(dup, DefaultBounds, 0); err == nil {
		t.Error("duplicate id accepted")
	}

	dangling := []NodeSpec{{ID: "a", Value: 1, Neighbors: []string{"ghost"}}}
	if _, err := NewSystem(dangling, DefaultBounds, 0); err == nil {
		t.Error("unknown neighbor accepted")
	}

	outside := []NodeSpec{{ID: "a", Value: 42, Neighbors: nil}}
	if _, err := NewSystem(outside, DefaultBounds, 0); err == nil {
		t.Error("out-of-bounds value accepted")
	}
}

func TestLonelyAgentDoesNotWorsenItself(t *testing.T) {
	sys, err := NewSystem([]NodeSpec{{ID: "solo", Value: 4, Neighbors: nil}}, DefaultBounds, 0)
	if err != nil {
		t.Fatal(err)
	}

	env := sys.Env()
	n := env.Node("solo")
	before := n.Criticality(env)

	selected := Decision(n, env)
	after := n.Criticality(coop.Act(env, selected))
	if after.Compare(before) > 0 {
		t.Errorf("lonely agent worsened itself: %v -> %v", before, after)
	}
}
