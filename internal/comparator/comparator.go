// Package comparator diffs two analyzed plan trees position by
// position, classifying each node as unchanged, modified, added,
// removed, or type-changed.
package comparator

import (
	"math"

	"github.com/planviz/planviz/internal/plan"
)

type Comparator struct {
	// Threshold is the percentage change below which a metric delta
	// is treated as noise.
	Threshold float64
}

// Compare diffs two analyzed plans. Both must have been through the
// analyzer; exclusive metrics drive the per-node classification.
func (c *Comparator) Compare(old, new *plan.Plan) ComparisonResult {
	oldRoot, _ := old.Content[plan.PropPlan].(plan.Node)
	newRoot, _ := new.Content[plan.PropPlan].(plan.Node)

	oldCost, _ := oldRoot.Float(plan.PropTotalCost)
	newCost, _ := newRoot.Float(plan.PropTotalCost)
	oldTime, _ := old.Content.Float("Execution Time")
	newTime, _ := new.Content.Float("Execution Time")

	summary := Summary{
		OldTotalCost: oldCost,
		NewTotalCost: newCost,
		CostDelta:    newCost - oldCost,
		CostPct:      pctChange(oldCost, newCost),
		CostDir:      c.direction(oldCost, newCost),

		OldExecutionTime: oldTime,
		NewExecutionTime: newTime,
		TimeDelta:        newTime - oldTime,
		TimePct:          pctChange(oldTime, newTime),
		TimeDir:          c.direction(oldTime, newTime),
	}

	rootDelta := c.diffNodes(oldRoot, newRoot)
	countChanges(&rootDelta, &summary)

	return ComparisonResult{
		Deltas:  []NodeDelta{rootDelta},
		Summary: summary,
	}
}

func (c *Comparator) diffNodes(old, new plan.Node) NodeDelta {
	delta := NodeDelta{}

	oldType := old.Str(plan.PropNodeType)
	newType := new.Str(plan.PropNodeType)
	if oldType != newType {
		delta.ChangeType = TypeChanged
		delta.OldNodeType = oldType
		delta.NewNodeType = newType
		delta.NodeType = newType
	} else {
		delta.ChangeType = Modified
		delta.NodeType = oldType
	}

	delta.OldCost, _ = old.Float(plan.PropActualCost)
	delta.NewCost, _ = new.Float(plan.PropActualCost)
	delta.CostDelta = delta.NewCost - delta.OldCost
	delta.CostPct = pctChange(delta.OldCost, delta.NewCost)
	delta.CostDir = c.direction(delta.OldCost, delta.NewCost)

	delta.OldDuration, _ = old.Float(plan.PropActualDuration)
	delta.NewDuration, _ = new.Float(plan.PropActualDuration)
	delta.DurationDelta = delta.NewDuration - delta.OldDuration
	delta.DurationPct = pctChange(delta.OldDuration, delta.NewDuration)
	delta.DurationDir = c.direction(delta.OldDuration, delta.NewDuration)

	delta.OldRows, _ = old.Float(plan.PropActualRows)
	delta.NewRows, _ = new.Float(plan.PropActualRows)
	delta.RowsDelta = delta.NewRows - delta.OldRows

	if delta.ChangeType == Modified && !c.isSignificant(delta) {
		delta.ChangeType = NoChange
	}

	delta.Children = c.diffChildren(old.Plans(), new.Plans())

	return delta
}

func (c *Comparator) diffChildren(oldKids, newKids []plan.Node) []NodeDelta {
	var deltas []NodeDelta

	n := len(oldKids)
	if len(newKids) > n {
		n = len(newKids)
	}
	for i := 0; i < n; i++ {
		if i >= len(oldKids) {
			deltas = append(deltas, onlyNode(newKids[i], Added))
			continue
		}
		if i >= len(newKids) {
			deltas = append(deltas, onlyNode(oldKids[i], Removed))
			continue
		}
		deltas = append(deltas, c.diffNodes(oldKids[i], newKids[i]))
	}

	return deltas
}

// onlyNode builds the delta for a node present on just one side.
func onlyNode(node plan.Node, change ChangeType) NodeDelta {
	delta := NodeDelta{
		ChangeType: change,
		NodeType:   node.Str(plan.PropNodeType),
	}
	cost, _ := node.Float(plan.PropActualCost)
	duration, _ := node.Float(plan.PropActualDuration)
	rows, _ := node.Float(plan.PropActualRows)

	if change == Added {
		delta.NewCost, delta.NewDuration, delta.NewRows = cost, duration, rows
	} else {
		delta.OldCost, delta.OldDuration, delta.OldRows = cost, duration, rows
	}

	for _, child := range node.Plans() {
		delta.Children = append(delta.Children, onlyNode(child, change))
	}

	return delta
}

func (c *Comparator) isSignificant(d NodeDelta) bool {
	if math.Abs(d.CostPct) >= c.Threshold {
		return true
	}
	if math.Abs(d.DurationPct) >= c.Threshold {
		return true
	}
	return d.RowsDelta != 0
}

func (c *Comparator) direction(old, new float64) Direction {
	if math.Abs(pctChange(old, new)) < c.Threshold {
		return Unchanged
	}
	if new < old {
		return Improved
	}
	return Regressed
}

func countChanges(delta *NodeDelta, summary *Summary) {
	switch delta.ChangeType {
	case Added:
		summary.NodesAdded++
	case Removed:
		summary.NodesRemoved++
	case Modified:
		summary.NodesModified++
	case TypeChanged:
		summary.NodesTypeChanged++
	}

	for i := range delta.Children {
		countChanges(&delta.Children[i], summary)
	}
}

func pctChange(old, new float64) float64 {
	if old == 0 {
		if new == 0 {
			return 0
		}
		return 100
	}
	return ((new - old) / old) * 100
}
