// Package analyzer walks a parsed plan tree and annotates it in place
// with derived metrics: exclusive cost and duration, planner estimate
// accuracy, parallelism, and outlier tags.
package analyzer

import (
	"strings"

	"github.com/planviz/planviz/internal/plan"
)

// maxima accumulates the tree-wide extremes during a single walk. It is
// scoped to one Analyze call so concurrent analyses never interfere.
type maxima struct {
	rows     float64
	cost     float64
	duration float64
}

// Analyze annotates every node reachable from p.Content. Running it
// again on an already-analyzed plan produces the same annotations:
// derived properties are recomputed from the source properties, which
// are never mutated.
func Analyze(p *plan.Plan) {
	if p == nil || p.Content == nil {
		return
	}
	root, ok := p.Content[plan.PropPlan].(plan.Node)
	if !ok {
		return
	}

	var m maxima
	processNode(root, false, &m)

	p.Content[plan.PropMaximumRows] = m.rows
	p.Content[plan.PropMaximumCosts] = m.cost
	p.Content[plan.PropMaximumDuration] = m.duration

	flagOutliers(root, &m)
}

// processNode handles one node: estimate accuracy on the way down,
// exclusive actuals and maxima on the way back up. parallel reports
// whether an ancestor Gather feeds this node, in which case reported
// times are per-worker averages rather than per-loop totals.
func processNode(node plan.Node, parallel bool, m *maxima) {
	calculateEstimate(node)

	childParallel := parallel || strings.Contains(node.Str(plan.PropNodeType), "Gather")
	for _, child := range node.Plans() {
		processNode(child, childParallel, m)
	}

	calculateActuals(node, parallel)
	updateMaxima(node, m)
}

// calculateEstimate records how far off the planner's row estimate was.
// The factor is always >= 1; the direction says which way the planner
// missed. Nodes that produced no rows are left untouched, as are nodes
// the planner expected to produce none (the ratio is unquantifiable).
func calculateEstimate(node plan.Node) {
	actualRows, ok := node.Float(plan.PropActualRows)
	if !ok || actualRows == 0 {
		return
	}
	planRows, ok := node.Float(plan.PropPlanRows)
	if !ok || planRows == 0 {
		return
	}

	ratio := actualRows / planRows
	switch {
	case ratio > 1:
		node[plan.PropPlannerEstimateDirection] = plan.EstimateUnder
		node[plan.PropPlannerEstimateFactor] = ratio
	case ratio < 1:
		node[plan.PropPlannerEstimateDirection] = plan.EstimateOver
		node[plan.PropPlannerEstimateFactor] = planRows / actualRows
	default:
		node[plan.PropPlannerEstimateDirection] = plan.EstimateNone
		node[plan.PropPlannerEstimateFactor] = ratio
	}
}

// calculateActuals derives the node's exclusive duration and cost.
// Children have already been processed, so their Actual Duration values
// are final. InitPlan subtrees are excluded from both subtractions;
// their contribution is accounted once where they are declared.
func calculateActuals(node plan.Node, parallel bool) {
	if totalTime, ok := node.Float(plan.PropActualTotalTime); ok {
		duration := totalTime
		loops, hasLoops := node.Float(plan.PropActualLoops)
		if !parallel {
			// Reported time is per loop.
			if hasLoops {
				duration *= loops
			}
		} else {
			node[plan.PropParallel] = hasLoops && loops > 1
		}
		node[plan.PropActualDuration] = duration - descendantDuration(node)
	}

	if totalCost, ok := node.Float(plan.PropTotalCost); ok {
		cost := totalCost
		for _, child := range node.Plans() {
			if child.Str(plan.PropParentRelationship) == plan.RelationInitPlan {
				continue
			}
			if childCost, ok := child.Float(plan.PropTotalCost); ok {
				cost -= childCost
			}
		}
		if cost < 0 {
			cost = 0
		}
		node[plan.PropActualCost] = cost
	}
}

// descendantDuration sums Actual Duration over every non-InitPlan
// descendant. Exclusive durations telescope, so the sum equals the
// total time spent below this node.
func descendantDuration(node plan.Node) float64 {
	var total float64
	for _, child := range node.Plans() {
		if child.Str(plan.PropParentRelationship) == plan.RelationInitPlan {
			continue
		}
		if d, ok := child.Float(plan.PropActualDuration); ok {
			total += d
		}
		total += descendantDuration(child)
	}
	return total
}

func updateMaxima(node plan.Node, m *maxima) {
	if rows, ok := node.Float(plan.PropActualRows); ok && rows > m.rows {
		m.rows = rows
	}
	if cost, ok := node.Float(plan.PropActualCost); ok && cost > m.cost {
		m.cost = cost
	}
	if duration, ok := node.Float(plan.PropActualDuration); ok && duration > m.duration {
		m.duration = duration
	}
}

// flagOutliers tags every node sitting at a tree-wide maximum. Ties tag
// every node involved. Largest Node skips empty nodes so a plan full of
// zero-row steps does not mark them all.
func flagOutliers(node plan.Node, m *maxima) {
	setTag(node, plan.PropCostliestNode, func() bool {
		cost, ok := node.Float(plan.PropActualCost)
		return ok && cost == m.cost
	})
	setTag(node, plan.PropLargestNode, func() bool {
		rows, ok := node.Float(plan.PropActualRows)
		return ok && rows == m.rows && rows != 0
	})
	setTag(node, plan.PropSlowestNode, func() bool {
		duration, ok := node.Float(plan.PropActualDuration)
		return ok && duration == m.duration
	})

	for _, child := range node.Plans() {
		flagOutliers(child, m)
	}
}

func setTag(node plan.Node, prop string, hit func() bool) {
	if hit() {
		node[prop] = true
	} else {
		delete(node, prop)
	}
}
