package cmd

import (
	"fmt"
	"os"

	"github.com/planviz/planviz/internal/engine"
	"github.com/planviz/planviz/internal/output"
	"github.com/planviz/planviz/internal/plan"
	"github.com/planviz/planviz/internal/profile"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze a single query plan",
	Long: `Analyze a PostgreSQL query plan and print the annotated tree.

Input can be EXPLAIN (ANALYZE) text output, EXPLAIN (FORMAT JSON) output,
or a SQL file. Use "-" to read from stdin. If no file is provided, enters
interactive mode.

For SQL input, a database connection is required to run
EXPLAIN (ANALYZE, VERBOSE, BUFFERS, FORMAT JSON).`,
	Example: `  # Analyze a captured text plan
  planviz analyze plan.txt

  # Analyze from stdin
  psql -qAtc 'EXPLAIN ANALYZE SELECT 1' | planviz analyze -

  # Execute and analyze a query
  planviz analyze query.sql --profile prod

  # Machine-readable output
  planviz analyze plan.json --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _ := cmd.Flags().GetString("db")
		profileName, _ := cmd.Flags().GetString("profile")
		format, _ := cmd.Flags().GetString("format")
		name, _ := cmd.Flags().GetString("name")

		if format != "tree" && format != "json" {
			return fmt.Errorf("invalid output format %q: must be \"tree\" or \"json\"", format)
		}

		connStr, err := profile.ResolveConnStr(db, profileName)
		if err != nil {
			return err
		}

		var file string
		if len(args) > 0 {
			file = args[0]
		}

		source, err := plan.Resolve(file, connStr, "")
		if err != nil {
			return err
		}

		p, err := engine.CreatePlan(name, source.Text, source.Query)
		if err != nil {
			return err
		}

		switch format {
		case "json":
			return output.RenderJSON(os.Stdout, p)
		case "tree":
			return output.RenderTree(os.Stdout, p)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringP("db", "d", "", "PostgreSQL connection string")
	analyzeCmd.Flags().StringP("profile", "p", "", "Use named profile from config")
	analyzeCmd.Flags().StringP("format", "f", "tree", "Output format: tree, json")
	analyzeCmd.Flags().StringP("name", "n", "", "Name for the plan (default derived from creation time)")
	analyzeCmd.MarkFlagsMutuallyExclusive("db", "profile")
}
