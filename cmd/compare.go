package cmd

import (
	"fmt"
	"os"

	"github.com/planviz/planviz/internal/comparator"
	"github.com/planviz/planviz/internal/engine"
	"github.com/planviz/planviz/internal/output"
	"github.com/planviz/planviz/internal/plan"
	"github.com/planviz/planviz/internal/profile"

	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare <old> <new>",
	Short: "Compare two query plans",
	Long: `Compare two PostgreSQL query plans node by node.

Both inputs accept the same formats as analyze: EXPLAIN text, EXPLAIN
JSON, or SQL (executed against the configured database). Deltas use the
analyzer's exclusive per-node cost and duration.`,
	Example: `  # Compare two captured plans
  planviz compare old.json new.json

  # Compare the same query against two schema states
  planviz compare before.sql after.sql --profile staging`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _ := cmd.Flags().GetString("db")
		profileName, _ := cmd.Flags().GetString("profile")
		format, _ := cmd.Flags().GetString("format")
		threshold, _ := cmd.Flags().GetFloat64("threshold")

		if format != "text" && format != "json" {
			return fmt.Errorf("invalid output format %q: must be \"text\" or \"json\"", format)
		}

		connStr, err := profile.ResolveConnStr(db, profileName)
		if err != nil {
			return err
		}

		oldSource, err := plan.Resolve(args[0], connStr, "old ")
		if err != nil {
			return err
		}
		newSource, err := plan.Resolve(args[1], connStr, "new ")
		if err != nil {
			return err
		}

		oldPlan, err := engine.CreatePlan("old", oldSource.Text, oldSource.Query)
		if err != nil {
			return err
		}
		newPlan, err := engine.CreatePlan("new", newSource.Text, newSource.Query)
		if err != nil {
			return err
		}

		c := comparator.Comparator{Threshold: threshold}
		result := c.Compare(oldPlan, newPlan)

		switch format {
		case "json":
			return output.RenderJSON(os.Stdout, result)
		case "text":
			return output.RenderComparisonText(os.Stdout, result)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().StringP("db", "d", "", "PostgreSQL connection string")
	compareCmd.Flags().StringP("profile", "p", "", "Use named profile from config")
	compareCmd.Flags().StringP("format", "f", "text", "Output format: text, json")
	compareCmd.Flags().Float64P("threshold", "t", 1.0, "Percentage change below which deltas are noise")
	compareCmd.MarkFlagsMutuallyExclusive("db", "profile")
}
