package cmd

import (
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var Version = "dev"

func init() {
	if Version == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "(devel)" {
			Version = info.Main.Version
		}
	}
	rootCmd.Version = Version
}

var rootCmd = &cobra.Command{
	Use:          "planviz",
	SilenceUsage: true,
	Short:        "Parse, analyze and compare PostgreSQL EXPLAIN plans",
	Long: `planviz ingests PostgreSQL EXPLAIN (ANALYZE) output - the plain text form
or FORMAT JSON - and produces an annotated plan tree: exclusive cost and
duration per node, planner estimate accuracy, parallelism, and the
costliest, largest and slowest nodes.`,
	Example: `  # Analyze a captured plan
  planviz analyze plan.txt

  # Run a query through EXPLAIN and analyze the result
  planviz analyze query.sql --profile prod

  # Compare two plans
  planviz compare old.json new.json`,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
