package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomjorquera/flock/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Archived runs",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		ctx := context.Background()
		pool, err := connectDB(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		store := history.New(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}

		runs, err := store.ListRuns(ctx, limit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("no archived runs")
			return nil
		}

		for _, r := range runs {
			status := "converged"
			if !r.Converged {
				status = "capped"
			}
			fmt.Printf("%s  %-12s depth %d  %3d round(s)  %-9s  %s\n",
				r.RunID, r.Scenario, r.Depth, r.Rounds, status,
				r.StartedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Print one archived trajectory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		pool, err := connectDB(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		t, err := history.New(pool).GetRun(ctx, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("run %s: scenario %s, depth %d\n", t.RunID, t.Scenario, t.Depth)
		for _, round := range t.Rounds {
			fmt.Printf("### round %d (max criticality %.2f)\n", round.Number, round.MaxCriticality)
			for _, turn := range round.Turns {
				fmt.Printf("  %s: value %d, crit %.2f %v\n", turn.ID, turn.Value, turn.Criticality, turn.Actions)
			}
		}
		if t.Converged {
			fmt.Printf("converged after %d round(s)\n", len(t.Rounds))
		} else {
			fmt.Printf("did not converge within %d round(s)\n", len(t.Rounds))
		}
		for _, id := range sortedIDs(t.FinalValues) {
			fmt.Printf("  %s: %d\n", id, t.FinalValues[id])
		}
		return nil
	},
}

func init() {
	historyListCmd.Flags().Int("limit", 20, "maximum number of runs to list")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
}
