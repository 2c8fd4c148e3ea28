// Package output renders analyzed plans for humans and machines.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mitchellh/go-wordwrap"
	"github.com/olekukonko/tablewriter"

	"github.com/planviz/planviz/internal/plan"
)

const wrapWidth = 72

type treeWriter struct {
	w   io.Writer
	err error
}

func (tw *treeWriter) printf(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.w, format, args...)
}

// RenderTree writes the annotated plan as an indented tree with the
// analyzer's derived metrics and outlier tags.
func RenderTree(w io.Writer, p *plan.Plan) error {
	tw := &treeWriter{w: w}

	tw.printf("%s\n", color.New(color.Bold).Sprint(p.Name))
	if p.Query != "" {
		for _, line := range strings.Split(wordwrap.WrapString(p.Query, wrapWidth), "\n") {
			tw.printf("  %s\n", color.New(color.Faint).Sprint(line))
		}
	}

	if t, ok := p.Content.Float("Planning Time"); ok {
		tw.printf("  planning time:  %s\n", formatDuration(t))
	}
	if t, ok := p.Content.Float("Execution Time"); ok {
		tw.printf("  execution time: %s\n", formatDuration(t))
	}
	tw.printf("\n")

	if root, ok := p.Content[plan.PropPlan].(plan.Node); ok {
		tw.renderNode(root, 0)
	}

	if triggers := triggerRows(p.Content); len(triggers) > 0 {
		tw.printf("\n%s\n", color.New(color.Bold).Sprint("Triggers"))
		tw.renderTriggers(triggers)
	}

	return tw.err
}

func (tw *treeWriter) renderNode(node plan.Node, depth int) {
	indent := strings.Repeat("  ", depth)

	tw.printf("%s%s%s%s\n",
		indent,
		color.New(color.Bold).Sprint(node.Str(plan.PropNodeType)),
		subplanLabel(node),
		outlierTags(node))

	if d, ok := node.Float(plan.PropActualDuration); ok {
		tw.printf("%s  duration: %s", indent, formatDuration(d))
		if c, ok := node.Float(plan.PropActualCost); ok {
			tw.printf("  cost: %s", humanize.Commaf(c))
		}
		if r, ok := node.Float(plan.PropActualRows); ok {
			tw.printf("  rows: %s", humanize.Comma(int64(r)))
		}
		tw.printf("\n")
	} else if c, ok := node.Float(plan.PropTotalCost); ok {
		tw.printf("%s  cost: %s  estimated rows: %s\n",
			indent, humanize.Commaf(c), formatRows(node, plan.PropPlanRows))
	}

	if direction := node.Str(plan.PropPlannerEstimateDirection); direction != "" && direction != plan.EstimateNone {
		if factor, ok := node.Float(plan.PropPlannerEstimateFactor); ok {
			tw.printf("%s  %s\n", indent,
				color.YellowString("rows %sestimated %.1fx", direction, factor))
		}
	}
	if method := node.Str(plan.PropSortMethod); method != "" {
		tw.printf("%s  sort: %s (%s: %skB)\n", indent, method,
			strings.ToLower(node.Str(plan.PropSortSpaceType)),
			formatRows(node, plan.PropSortSpaceUsed))
	}
	for _, worker := range node.Workers() {
		if n, ok := worker.Float(plan.PropWorkerNumber); ok {
			tw.printf("%s  worker %d: rows %s\n", indent, int64(n), formatRows(worker, plan.PropActualRows))
		}
	}

	for _, child := range node.Plans() {
		tw.renderNode(child, depth+1)
	}
}

func subplanLabel(node plan.Node) string {
	name := node.Str(plan.PropSubplanName)
	if name == "" {
		return ""
	}
	return " " + color.New(color.Faint).Sprintf("(%s)", name)
}

func outlierTags(node plan.Node) string {
	var tags []string
	if node.Bool(plan.PropSlowestNode) {
		tags = append(tags, color.RedString("slowest"))
	}
	if node.Bool(plan.PropCostliestNode) {
		tags = append(tags, color.MagentaString("costliest"))
	}
	if node.Bool(plan.PropLargestNode) {
		tags = append(tags, color.CyanString("largest"))
	}
	if len(tags) == 0 {
		return ""
	}
	return "  " + strings.Join(tags, " ")
}

func triggerRows(content plan.Node) [][]string {
	raw, ok := content[plan.PropTriggers].([]any)
	if !ok {
		return nil
	}
	var rows [][]string
	for _, t := range raw {
		trigger, ok := t.(plan.Node)
		if !ok {
			continue
		}
		time, _ := trigger.Float(plan.PropTriggerTime)
		rows = append(rows, []string{
			trigger.Str(plan.PropTriggerName),
			formatDuration(time),
			trigger.Str(plan.PropTriggerCalls),
		})
	}
	return rows
}

func (tw *treeWriter) renderTriggers(rows [][]string) {
	if tw.err != nil {
		return
	}
	table := tablewriter.NewTable(tw.w)
	table.Header([]string{"Trigger", "Time", "Calls"})
	for _, row := range rows {
		table.Append(row)
	}
	tw.err = table.Render()
}

func formatDuration(ms float64) string {
	switch {
	case ms < 1:
		return "<1 ms"
	case ms < 1000:
		return fmt.Sprintf("%.2f ms", ms)
	case ms < 60000:
		return fmt.Sprintf("%.2f s", ms/1000.0)
	default:
		return fmt.Sprintf("%.2f m", ms/60000.0)
	}
}

func formatRows(node plan.Node, prop string) string {
	v, _ := node.Float(prop)
	return humanize.Comma(int64(v))
}
