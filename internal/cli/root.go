package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/tomjorquera/flock/internal/config"
	"github.com/tomjorquera/flock/internal/db"
	"github.com/tomjorquera/flock/internal/scenario"
	"github.com/tomjorquera/flock/internal/stream"
)

var (
	cfg     *config.Config
	rootCmd = &cobra.Command{
		Use:   "flock",
		Short: "Cooperative multi-agent decision framework",
		Long: `flock runs systems of cooperative agents that repeatedly select the
conflict-free actions minimizing the worst predicted criticality in their
neighborhood, by lexicographic comparison of anticipated neighbor
criticalities.

Run the bundled four-agent chain:
  flock run chain

Step through it interactively:
  flock step chain`,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(scenarioCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(streamCmd)
	rootCmd.AddCommand(stepCmd)
	rootCmd.AddCommand(docsCmd)
}

func initConfig() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
}

func connectDB(ctx context.Context) (*pgxpool.Pool, error) {
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w\nSet FLOCK_DATABASE_URL environment variable", err)
	}
	return pool, nil
}

func connectRedis() (*redis.Client, error) {
	client, err := stream.Connect(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("%w\nSet FLOCK_REDIS_URL environment variable", err)
	}
	return client, nil
}

func scenarioDir() string {
	return cfg.ScenarioDir
}

// loadScenario resolves a scenario reference: a YAML file path, a
// bundled scenario name, or the name of a file in the scenario
// directory. An empty reference means the bundled chain.
func loadScenario(ref string) (*scenario.Scenario, error) {
	if ref == "" {
		ref = "chain"
	}

	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		return scenario.Load(ref)
	}

	if s, ok := scenario.Builtins()[ref]; ok {
		return s, nil
	}

	for _, ext := range []string{".yaml", ".yml"} {
		path := filepath.Join(scenarioDir(), ref+ext)
		if _, err := os.Stat(path); err == nil {
			return scenario.Load(path)
		}
	}

	return nil, fmt.Errorf("unknown scenario %q (built-ins: %v; scenario dir: %s)",
		ref, scenario.BuiltinNames(), scenarioDir())
}

// sortedIDs returns the keys of an id -> value map in lexical order.
func sortedIDs(values map[string]int) []string {
	ids := make([]string, 0, len(values))
	for id := range values {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
