// Package runner drives a system to convergence: per round, each agent
// decides and acts in deterministic order, and the resulting trajectory
// is recorded. Observers can follow rounds as they happen; they never
// influence a decision.
package runner

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/tomjorquera/flock/internal/scenario"
)

// AgentTurn records what one agent did in a round.
type AgentTurn struct {
	ID          string   `json:"id"`
	Actions     []string `json:"actions,omitempty"`
	Value       int      `json:"value"`
	Criticality float64  `json:"criticality"`
}

// Round is the full state transition of one round.
type Round struct {
	Number         int            `json:"number"`
	Turns          []AgentTurn    `json:"turns"`
	Values         map[string]int `json:"values"`
	MaxCriticality float64        `json:"max_criticality"`
}

// Trajectory is the complete record of a run.
type Trajectory struct {
	RunID       string         `json:"run_id"`
	Scenario    string         `json:"scenario"`
	Depth       int            `json:"depth"`
	Rounds      []Round        `json:"rounds"`
	Converged   bool           `json:"converged"`
	FinalValues map[string]int `json:"final_values"`
	StartedAt   time.Time      `json:"started_at"`
	FinishedAt  time.Time      `json:"finished_at"`
}

// RoundObserver follows a run round by round. Observer errors are
// logged, not propagated: observation must not interrupt a run.
type RoundObserver interface {
	ObserveRound(ctx context.Context, t *Trajectory, r Round) error
}

// Runner executes scenarios.
type Runner struct {
	observers []RoundObserver
}

// New creates a Runner with the given observers.
func New(observers ...RoundObserver) *Runner {
	return &Runner{observers: observers}
}

// Run builds the scenario's system and loops rounds until every agent's
// criticality is zero or the scenario's round cap is reached. The
// context is checked between rounds; a canceled run returns the partial
// trajectory alongside the context error.
func (r *Runner) Run(ctx context.Context, sc *scenario.Scenario) (*Trajectory, error) {
	sys, err := sc.Build()
	if err != nil {
		return nil, err
	}

	t := &Trajectory{
		RunID:     uuid.NewString(),
		Scenario:  sc.Name,
		Depth:     sc.Depth,
		StartedAt: time.Now().UTC(),
	}

	if sys.Converged() {
		t.Converged = true
		t.FinalValues = sys.Env().Values()
		t.FinishedAt = time.Now().UTC()
		return t, nil
	}

	for number := 1; number <= sc.MaxRounds; number++ {
		if err := ctx.Err(); err != nil {
			t.FinalValues = sys.Env().Values()
			t.FinishedAt = time.Now().UTC()
			return t, err
		}

		round := Round{
			Number: number,
			Values: make(map[string]int),
		}
		for _, turn := range sys.Round() {
			names := make([]string, 0, len(turn.Actions))
			for _, a := range turn.Actions {
				names = append(names, a.String())
			}
			round.Turns = append(round.Turns, AgentTurn{
				ID:          turn.ID,
				Actions:     names,
				Value:       turn.Value,
				Criticality: float64(turn.Criticality),
			})
		}
		for id, v := range sys.Env().Values() {
			round.Values[id] = v
		}
		round.MaxCriticality = float64(sys.MaxCriticality())

		t.Rounds = append(t.Rounds, round)
		r.notify(ctx, t, round)

		if sys.Converged() {
			t.Converged = true
			break
		}
	}

	t.FinalValues = sys.Env().Values()
	t.FinishedAt = time.Now().UTC()
	return t, nil
}

func (r *Runner) notify(ctx context.Context, t *Trajectory, round Round) {
	for _, o := range r.observers {
		if err := o.ObserveRound(ctx, t, round); err != nil {
			log.Printf("round observer error (run %s, round %d): %v", t.RunID, round.Number, err)
		}
	}
}
