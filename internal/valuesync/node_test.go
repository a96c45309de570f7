package valuesync

import (
	"testing"

	"github.com/tomjorquera/flock/internal/coop"
)

func chainEnv(t *testing.T, values map[string]int) Env {
	t.Helper()
	refs := map[string]*Node{
		"a": NewNode("a", []string{"b"}, 0),
		"b": NewNode("b", []string{"a", "c"}, 0),
		"c": NewNode("c", []string{"b", "d"}, 0),
		"d": NewNode("d", []string{"c"}, 0),
	}
	return NewEnv(refs, values, DefaultBounds)
}

func TestCriticalityIsMaxNeighborDistance(t *testing.T) {
	env := chainEnv(t, map[string]int{"a": 2, "b": 9, "c": 3, "d": 6})

	tests := []struct {
		id   string
		want Criticality
	}{
		{"a", 0.7}, // |2-9| / 10
		{"b", 0.7}, // max(|9-2|, |9-3|) / 10
		{"c", 0.6}, // max(|3-9|, |3-6|) / 10
		{"d", 0.3}, // |6-3| / 10
	}
	for _, tt := range tests {
		if got := env.Node(tt.id).Criticality(env); got != tt.want {
			t.Errorf("criticality(%s) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestCriticalityZeroWhenLevel(t *testing.T) {
	env := chainEnv(t, map[string]int{"a": 5, "b": 5, "c": 5, "d": 5})
	for _, id := range env.IDs() {
		if got := env.Node(id).Criticality(env); got != 0 {
			t.Errorf("criticality(%s) = %v, want 0", id, got)
		}
	}
}

func TestPossibleActionsAtBounds(t *testing.T) {
	env := chainEnv(t, map[string]int{"a": 0, "b": 10, "c": 5, "d": 5})

	bottom := env.Node("a").PossibleActions(env)
	if bottom.Len() != 1 || !bottom.Contains(Action{Kind: Increase, AgentID: "a"}) {
		t.Errorf("actions at lower bound = %v, want only Increase", bottom.Items())
	}

	top := env.Node("b").PossibleActions(env)
	if top.Len() != 1 || !top.Contains(Action{Kind: Decrease, AgentID: "b"}) {
		t.Errorf("actions at upper bound = %v, want only Decrease", top.Items())
	}

	middle := env.Node("c").PossibleActions(env)
	if middle.Len() != 2 {
		t.Errorf("actions mid-range = %v, want both", middle.Items())
	}
	if middle.Items()[0].Kind != Increase {
		t.Errorf("first mid-range action = %v, want Increase", middle.Items()[0])
	}
}

func TestContradictoryActionsAreMutual(t *testing.T) {
	env := chainEnv(t, map[string]int{"a": 5, "b": 5, "c": 5, "d": 5})
	n := env.Node("a")
	incr := Action{Kind: Increase, AgentID: "a"}
	decr := Action{Kind: Decrease, AgentID: "a"}

	withIncr := n.ContradictoryActions(env, coop.NewActionSet(incr))
	if !withIncr.Contains(decr) || withIncr.Contains(incr) {
		t.Errorf("contradictions of {Increase} = %v, want {Decrease}", withIncr.Items())
	}

	withDecr := n.ContradictoryActions(env, coop.NewActionSet(decr))
	if !withDecr.Contains(incr) || withDecr.Contains(decr) {
		t.Errorf("contradictions of {Decrease} = %v, want {Increase}", withDecr.Items())
	}

	empty := n.ContradictoryActions(env, coop.NewActionSet[Action]())
	if empty.Len() != 0 {
		t.Errorf("contradictions of empty selection = %v, want none", empty.Items())
	}
}

func TestActionApplyClampsAtBounds(t *testing.T) {
	env := chainEnv(t, map[string]int{"a": 0, "b": 10, "c": 5, "d": 5})

	down := Action{Kind: Decrease, AgentID: "a"}.Apply(env)
	if down.Value("a") != 0 {
		t.Errorf("Decrease at lower bound: value = %d, want 0", down.Value("a"))
	}

	up := Action{Kind: Increase, AgentID: "b"}.Apply(env)
	if up.Value("b") != 10 {
		t.Errorf("Increase at upper bound: value = %d, want 10", up.Value("b"))
	}

	moved := Action{Kind: Increase, AgentID: "c"}.Apply(env)
	if moved.Value("c") != 6 {
		t.Errorf("Increase mid-range: value = %d, want 6", moved.Value("c"))
	}
	if env.Value("c") != 5 {
		t.Errorf("original env mutated: c = %d", env.Value("c"))
	}
}

func TestPredictedCriticalityAppliesSelection(t *testing.T) {
	env := chainEnv(t, map[string]int{"a": 2, "b": 9, "c": 3, "d": 6})
	a := env.Node("a")

	selected := coop.NewActionSet(Action{Kind: Increase, AgentID: "a"})
	got := a.PredictedCriticality(env, selected, a)
	if got != 0.6 { // |3-9| / 10
		t.Errorf("predicted criticality = %v, want 0.6", got)
	}
	if env.Value("a") != 2 {
		t.Errorf("original env mutated: a = %d", env.Value("a"))
	}
}

func TestDecisionNeverSelectsBothMoves(t *testing.T) {
	env := chainEnv(t, map[string]int{"a": 2, "b": 9, "c": 3, "d": 6})
	for _, id := range env.IDs() {
		selected := Decision(env.Node(id), env)
		if selected.Len() > 1 {
			t.Errorf("agent %s selected %v, want at most one action", id, selected.Items())
		}
		if selected.Contains(Action{Kind: Increase, AgentID: id}) &&
			selected.Contains(Action{Kind: Decrease, AgentID: id}) {
			t.Errorf("agent %s selected both contradictory moves", id)
		}
	}
}
