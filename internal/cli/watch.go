package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/tomjorquera/flock/internal/stream"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the live round stream",
	RunE: func(cmd *cobra.Command, args []string) error {
		consumer, _ := cmd.Flags().GetString("consumer")

		rdb, err := connectRedis()
		if err != nil {
			return err
		}
		defer rdb.Close()

		ctx := cmd.Context()
		reader := stream.NewReader(rdb)
		if err := reader.EnsureGroup(ctx); err != nil {
			return err
		}

		fmt.Println("watching flock_rounds (ctrl-c to stop)...")
		for {
			ev, msgID, err := reader.ReadRound(ctx, consumer)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.Printf("round read error: %v", err)
				continue
			}

			fmt.Printf("[%s] %s round %d: max criticality %.2f\n",
				ev.RunID, ev.Scenario, ev.Number, ev.MaxCriticality)
			for _, turn := range ev.Round.Turns {
				fmt.Printf("  %s: value %d, crit %.2f %v\n", turn.ID, turn.Value, turn.Criticality, turn.Actions)
			}

			reader.Ack(ctx, msgID)
		}
	},
}

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Round stream management",
}

var streamStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show entries in the round stream",
	RunE: func(cmd *cobra.Command, args []string) error {
		rdb, err := connectRedis()
		if err != nil {
			return err
		}
		defer rdb.Close()

		n, err := stream.Status(context.Background(), rdb)
		if err != nil {
			return err
		}
		fmt.Printf("flock_rounds: %d entries\n", n)
		return nil
	},
}

func init() {
	watchCmd.Flags().String("consumer", "watcher_1", "consumer name within the watcher group")
	streamCmd.AddCommand(streamStatusCmd)
}
