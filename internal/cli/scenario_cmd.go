package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tomjorquera/flock/internal/scenario"
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Scenario catalog",
}

var scenarioListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bundled scenarios and scenario files",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("built-in:")
		builtins := scenario.Builtins()
		for _, name := range scenario.BuiltinNames() {
			s := builtins[name]
			fmt.Printf("  %-12s %d agents, depth %d\n", s.Name, len(s.Agents), s.Depth)
		}

		files, err := scenario.LoadDir(scenarioDir())
		if err != nil {
			return err
		}
		if len(files) > 0 {
			fmt.Printf("from %s:\n", scenarioDir())
			for _, s := range files {
				fmt.Printf("  %-12s %d agents, depth %d\n", s.Name, len(s.Agents), s.Depth)
			}
		}
		return nil
	},
}

var scenarioShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a scenario as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadScenario(args[0])
		if err != nil {
			return err
		}
		out, err := yaml.Marshal(s)
		if err != nil {
			return fmt.Errorf("marshal scenario: %w", err)
		}
		fmt.Print(string(out))
		return nil
	},
}

func init() {
	scenarioCmd.AddCommand(scenarioListCmd)
	scenarioCmd.AddCommand(scenarioShowCmd)
}
