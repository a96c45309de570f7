// Package history archives completed runs in PostgreSQL. The decision
// kernel itself is stateless; the archive is driver-side tooling for
// inspecting past trajectories.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tomjorquera/flock/internal/runner"
)

// ErrRunNotFound is returned when no archived run matches the id.
var ErrRunNotFound = errors.New("run not found")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id           UUID PRIMARY KEY,
	scenario     TEXT NOT NULL,
	depth        INT NOT NULL,
	rounds       INT NOT NULL,
	converged    BOOLEAN NOT NULL,
	final_values JSONB NOT NULL,
	started_at   TIMESTAMPTZ NOT NULL,
	finished_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS run_rounds (
	run_id          UUID NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	number          INT NOT NULL,
	max_criticality DOUBLE PRECISION NOT NULL,
	state           JSONB NOT NULL,
	PRIMARY KEY (run_id, number)
);
`

// RunSummary is one row of the run listing.
type RunSummary struct {
	RunID     string
	Scenario  string
	Depth     int
	Rounds    int
	Converged bool
	StartedAt time.Time
}

// Store persists trajectories.
type Store struct {
	db *pgxpool.Pool
}

// New creates a Store on the given pool.
func New(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the runs tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure runs schema: %w", err)
	}
	return nil
}

// SaveRun archives a completed trajectory, rounds included.
func (s *Store) SaveRun(ctx context.Context, t *runner.Trajectory) error {
	finalValues, err := json.Marshal(t.FinalValues)
	if err != nil {
		return fmt.Errorf("marshal final values: %w", err)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin save run: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO runs (id, scenario, depth, rounds, converged, final_values, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, t.RunID, t.Scenario, t.Depth, len(t.Rounds), t.Converged, finalValues, t.StartedAt, t.FinishedAt)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", t.RunID, err)
	}

	for _, round := range t.Rounds {
		state, err := json.Marshal(round)
		if err != nil {
			return fmt.Errorf("marshal round %d: %w", round.Number, err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO run_rounds (run_id, number, max_criticality, state)
			VALUES ($1, $2, $3, $4)
		`, t.RunID, round.Number, round.MaxCriticality, state)
		if err != nil {
			return fmt.Errorf("insert round %d of run %s: %w", round.Number, t.RunID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit run %s: %w", t.RunID, err)
	}
	return nil
}

// ListRuns returns archived runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, scenario, depth, rounds, converged, started_at
		FROM runs
		ORDER BY started_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.RunID, &r.Scenario, &r.Depth, &r.Rounds, &r.Converged, &r.StartedAt); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetRun loads one archived trajectory with all its rounds.
func (s *Store) GetRun(ctx context.Context, runID string) (*runner.Trajectory, error) {
	var t runner.Trajectory
	var finalValues []byte
	err := s.db.QueryRow(ctx, `
		SELECT id, scenario, depth, converged, final_values, started_at, finished_at
		FROM runs
		WHERE id = $1
	`, runID).Scan(&t.RunID, &t.Scenario, &t.Depth, &t.Converged, &finalValues, &t.StartedAt, &t.FinishedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("fetch run %s: %w", runID, err)
	}
	if err := json.Unmarshal(finalValues, &t.FinalValues); err != nil {
		return nil, fmt.Errorf("unmarshal final values of run %s: %w", runID, err)
	}

	rows, err := s.db.Query(ctx, `
		SELECT state FROM run_rounds WHERE run_id = $1 ORDER BY number
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("fetch rounds of run %s: %w", runID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var state []byte
		if err := rows.Scan(&state); err != nil {
			return nil, fmt.Errorf("scan round row: %w", err)
		}
		var round runner.Round
		if err := json.Unmarshal(state, &round); err != nil {
			return nil, fmt.Errorf("unmarshal round of run %s: %w", runID, err)
		}
		t.Rounds = append(t.Rounds, round)
	}
	return &t, rows.Err()
}
