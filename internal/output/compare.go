package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/planviz/planviz/internal/comparator"
)

// RenderComparisonText writes a plan-to-plan diff: summary first, then
// the whole delta tree. Metrics are printed only for nodes whose change
// passed the significance threshold; unchanged nodes are listed faintly.
func RenderComparisonText(w io.Writer, result comparator.ComparisonResult) error {
	tw := &treeWriter{w: w}
	s := result.Summary

	tw.printf("%s\n\n", color.New(color.Bold).Sprint("Summary"))
	tw.printf("  cost:           %s\n", formatDelta(s.OldTotalCost, s.NewTotalCost, s.CostPct, s.CostDir))
	if s.OldExecutionTime > 0 || s.NewExecutionTime > 0 {
		tw.printf("  execution time: %s\n", formatDelta(s.OldExecutionTime, s.NewExecutionTime, s.TimePct, s.TimeDir))
	}
	tw.printf("\n")

	changes := s.NodesAdded + s.NodesRemoved + s.NodesModified + s.NodesTypeChanged
	if changes == 0 {
		tw.printf("%s\n", color.GreenString("Plans are identical."))
		return tw.err
	}

	tw.printf("  changes: %d modified, %d type changed, %d added, %d removed\n\n",
		s.NodesModified, s.NodesTypeChanged, s.NodesAdded, s.NodesRemoved)

	for _, delta := range result.Deltas {
		tw.renderDelta(delta, 0)
	}

	return tw.err
}

func (tw *treeWriter) renderDelta(d comparator.NodeDelta, depth int) {
	indent := strings.Repeat("  ", depth+1)

	switch d.ChangeType {
	case comparator.Added:
		tw.printf("%s%s %s\n", indent, color.GreenString("+"), d.NodeType)
	case comparator.Removed:
		tw.printf("%s%s %s\n", indent, color.RedString("-"), d.NodeType)
	case comparator.TypeChanged:
		tw.printf("%s%s %s %s %s\n", indent, color.YellowString("~"),
			d.OldNodeType, color.New(color.Faint).Sprint("->"), d.NewNodeType)
		tw.renderDeltaMetrics(d, indent)
	case comparator.Modified:
		tw.printf("%s%s %s\n", indent, color.YellowString("~"), d.NodeType)
		tw.renderDeltaMetrics(d, indent)
	default:
		tw.printf("%s  %s\n", indent, color.New(color.Faint).Sprint(d.NodeType))
	}

	for _, child := range d.Children {
		tw.renderDelta(child, depth+1)
	}
}

func (tw *treeWriter) renderDeltaMetrics(d comparator.NodeDelta, indent string) {
	if d.CostDir != comparator.Unchanged {
		tw.printf("%s    cost %s\n", indent, formatDelta(d.OldCost, d.NewCost, d.CostPct, d.CostDir))
	}
	if d.DurationDir != comparator.Unchanged {
		tw.printf("%s    duration %s\n", indent, formatDelta(d.OldDuration, d.NewDuration, d.DurationPct, d.DurationDir))
	}
	if d.RowsDelta != 0 {
		tw.printf("%s    rows %.0f -> %.0f\n", indent, d.OldRows, d.NewRows)
	}
}

func formatDelta(old, new, pct float64, dir comparator.Direction) string {
	base := fmt.Sprintf("%.2f -> %.2f (%+.1f%%)", old, new, pct)
	switch dir {
	case comparator.Improved:
		return color.GreenString(base)
	case comparator.Regressed:
		return color.RedString(base)
	default:
		return base
	}
}
