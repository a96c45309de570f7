package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomjorquera/flock/internal/scenario"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file|dir]",
	Short: "Validate scenario files",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := scenarioDir()
		if len(args) > 0 {
			target = args[0]
		}

		var scenarios []*scenario.Scenario
		info, err := os.Stat(target)
		switch {
		case err != nil:
			return fmt.Errorf("stat %s: %w", target, err)
		case info.IsDir():
			scenarios, err = scenario.LoadDir(target)
			if err != nil {
				return err
			}
			if len(scenarios) == 0 {
				fmt.Printf("no scenario files in %s\n", target)
				return nil
			}
		default:
			s, err := scenario.Load(target)
			if err != nil {
				return err
			}
			scenarios = append(scenarios, s)
		}

		failed := 0
		for _, s := range scenarios {
			result := s.Validate()
			if result.Passed {
				fmt.Printf("PASS %s\n", result.Message)
			} else {
				failed++
				fmt.Printf("FAIL %s\n", result.Message)
				for _, d := range result.Details {
					fmt.Printf("  [%s] expected %s, got %s\n", d.Check, d.Expected, d.Got)
					if d.Fix != "" {
						fmt.Printf("    fix: %s\n", d.Fix)
					}
				}
			}
			for _, w := range result.Warnings {
				fmt.Printf("  warning: %s\n", w)
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d scenario(s) failed validation", failed)
		}
		return nil
	},
}
