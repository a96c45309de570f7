package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomjorquera/flock/internal/history"
	"github.com/tomjorquera/flock/internal/runner"
	"github.com/tomjorquera/flock/internal/stream"
)

var runCmd = &cobra.Command{
	Use:   "run [scenario]",
	Short: "Run a scenario until the system converges",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref := ""
		if len(args) > 0 {
			ref = args[0]
		}
		depth, _ := cmd.Flags().GetInt("depth")
		maxRounds, _ := cmd.Flags().GetInt("max-rounds")
		record, _ := cmd.Flags().GetBool("record")
		publish, _ := cmd.Flags().GetBool("publish")
		quiet, _ := cmd.Flags().GetBool("quiet")

		sc, err := loadScenario(ref)
		if err != nil {
			return err
		}
		if depth >= 0 {
			sc.Depth = depth
		}
		if maxRounds > 0 {
			sc.MaxRounds = maxRounds
		}
		if result := sc.Validate(); !result.Passed {
			return fmt.Errorf("%s", result.Message)
		}

		ctx := context.Background()

		var observers []runner.RoundObserver
		if publish {
			rdb, err := connectRedis()
			if err != nil {
				return err
			}
			defer rdb.Close()
			observers = append(observers, stream.NewPublisher(rdb))
		}
		if !quiet {
			observers = append(observers, printObserver{})
		}

		if !quiet {
			fmt.Printf("--- scenario %s (depth %d)\n", sc.Name, sc.Depth)
		}

		t, err := runner.New(observers...).Run(ctx, sc)
		if err != nil {
			return err
		}

		if t.Converged {
			fmt.Printf("converged after %d round(s)\n", len(t.Rounds))
		} else {
			fmt.Printf("did not converge within %d round(s)\n", len(t.Rounds))
		}
		for _, id := range sortedIDs(t.FinalValues) {
			fmt.Printf("  %s: %d\n", id, t.FinalValues[id])
		}

		if record {
			pool, err := connectDB(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			store := history.New(pool)
			if err := store.EnsureSchema(ctx); err != nil {
				return err
			}
			if err := store.SaveRun(ctx, t); err != nil {
				return fmt.Errorf("record run: %w", err)
			}
			fmt.Printf("recorded as run %s\n", t.RunID)
		}

		return nil
	},
}

// printObserver renders each round to stdout as it completes.
type printObserver struct{}

func (printObserver) ObserveRound(ctx context.Context, t *runner.Trajectory, round runner.Round) error {
	fmt.Printf("### round %d\n", round.Number)
	for _, turn := range round.Turns {
		action := "-"
		if len(turn.Actions) > 0 {
			action = ""
			for i, name := range turn.Actions {
				if i > 0 {
					action += ", "
				}
				action += name
			}
		}
		fmt.Printf("  %s: ( value: %d, crit: %.2f ) %s\n", turn.ID, turn.Value, turn.Criticality, action)
	}
	fmt.Printf("max criticality: %.2f\n\n", round.MaxCriticality)
	return nil
}

func init() {
	runCmd.Flags().Int("depth", -1, "override the scenario's lookahead depth")
	runCmd.Flags().Int("max-rounds", 0, "override the scenario's round cap")
	runCmd.Flags().Bool("record", false, "archive the trajectory in PostgreSQL")
	runCmd.Flags().Bool("publish", false, "publish rounds to the Redis stream")
	runCmd.Flags().Bool("quiet", false, "only print the final summary")
}
