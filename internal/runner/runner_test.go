package runner

import (
	"context"
	"errors"
	"testing"

	"github.com/tomjorquera/flock/internal/scenario"
)

type countingObserver struct {
	rounds []int
	fail   bool
}

func (o *countingObserver) ObserveRound(ctx context.Context, t *Trajectory, round Round) error {
	o.rounds = append(o.rounds, round.Number)
	if o.fail {
		return errors.New("observer down")
	}
	return nil
}

func TestRunConvergesChain(t *testing.T) {
	sc := scenario.Builtins()["chain"]

	trajectory, err := New().Run(context.Background(), sc)
	if err != nil {
		t.Fatal(err)
	}

	if !trajectory.Converged {
		t.Fatalf("chain did not converge in %d rounds", len(trajectory.Rounds))
	}
	if len(trajectory.Rounds) == 0 || len(trajectory.Rounds) > 10 {
		t.Fatalf("chain took %d rounds, want 1..10", len(trajectory.Rounds))
	}
	if trajectory.RunID == "" {
		t.Error("empty run id")
	}
	if trajectory.Scenario != "chain" {
		t.Errorf("scenario = %q, want chain", trajectory.Scenario)
	}

	for i, round := range trajectory.Rounds {
		if round.Number != i+1 {
			t.Errorf("round %d numbered %d", i, round.Number)
		}
		if len(round.Turns) != len(sc.Agents) {
			t.Errorf("round %d has %d turns, want %d", round.Number, len(round.Turns), len(sc.Agents))
		}
		if len(round.Values) != len(sc.Agents) {
			t.Errorf("round %d has %d values, want %d", round.Number, len(round.Values), len(sc.Agents))
		}
	}

	last := trajectory.Rounds[len(trajectory.Rounds)-1]
	if last.MaxCriticality != 0 {
		t.Errorf("final round max criticality = %v, want 0", last.MaxCriticality)
	}

	var first int
	i := 0
	for _, v := range trajectory.FinalValues {
		if i == 0 {
			first = v
		} else if v != first {
			t.Errorf("final values not uniform: %v", trajectory.FinalValues)
			break
		}
		i++
	}
}

func TestRunAlreadyConverged(t *testing.T) {
	trajectory, err := New().Run(context.Background(), scenario.Builtins()["converged"])
	if err != nil {
		t.Fatal(err)
	}
	if !trajectory.Converged {
		t.Error("converged scenario not reported converged")
	}
	if len(trajectory.Rounds) != 0 {
		t.Errorf("converged scenario ran %d rounds, want 0", len(trajectory.Rounds))
	}
}

func TestRunRespectsRoundCap(t *testing.T) {
	sc := scenario.Builtins()["chain"]
	capped := *sc
	capped.MaxRounds = 1

	trajectory, err := New().Run(context.Background(), &capped)
	if err != nil {
		t.Fatal(err)
	}
	if trajectory.Converged {
		t.Error("chain reported converged after a single round")
	}
	if len(trajectory.Rounds) != 1 {
		t.Errorf("ran %d rounds, want exactly 1", len(trajectory.Rounds))
	}
}

func TestRunNotifiesObservers(t *testing.T) {
	obs := &countingObserver{}
	trajectory, err := New(obs).Run(context.Background(), scenario.Builtins()["chain"])
	if err != nil {
		t.Fatal(err)
	}

	if len(obs.rounds) != len(trajectory.Rounds) {
		t.Errorf("observer saw %d rounds, trajectory has %d", len(obs.rounds), len(trajectory.Rounds))
	}
	for i, n := range obs.rounds {
		if n != i+1 {
			t.Errorf("observer round %d numbered %d", i, n)
		}
	}
}

func TestRunSurvivesObserverErrors(t *testing.T) {
	obs := &countingObserver{fail: true}
	trajectory, err := New(obs).Run(context.Background(), scenario.Builtins()["chain"])
	if err != nil {
		t.Fatal(err)
	}
	if !trajectory.Converged {
		t.Error("failing observer prevented convergence")
	}
}

func TestRunStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	trajectory, err := New().Run(ctx, scenario.Builtins()["chain"])
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if trajectory == nil {
		t.Fatal("no partial trajectory on cancellation")
	}
	if len(trajectory.Rounds) != 0 {
		t.Errorf("canceled run recorded %d rounds, want 0", len(trajectory.Rounds))
	}
}

func TestRunRejectsUnbuildableScenario(t *testing.T) {
	bad := &scenario.Scenario{
		Name:      "bad",
		MaxRounds: 5,
		Bounds:    &scenario.BoundsDef{Min: 0, Max: 10},
		Agents: []scenario.AgentDef{
			{ID: "a", Value: 1, Neighbors: []string{"ghost"}},
		},
	}
	if _, err := New().Run(context.Background(), bad); err == nil {
		t.Error("unbuildable scenario did not error")
	}
}
