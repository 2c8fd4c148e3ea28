package plan

// Property names used by the core. The parsed properties match the keys
// PostgreSQL emits in EXPLAIN (FORMAT JSON) output; the text parser
// produces the same keys so downstream code never cares which format a
// plan came from. The derived properties, outlier tags and maxima are
// added by the analyzer.
const (
	PropNodeType           = "Node Type"
	PropPlans              = "Plans"
	PropWorkers            = "Workers"
	PropParentRelationship = "Parent Relationship"
	PropSubplanName        = "Subplan Name"

	PropStartupCost = "Startup Cost"
	PropTotalCost   = "Total Cost"
	PropPlanRows    = "Plan Rows"
	PropPlanWidth   = "Plan Width"

	PropActualStartupTime = "Actual Startup Time"
	PropActualTotalTime   = "Actual Total Time"
	PropActualRows        = "Actual Rows"
	PropActualLoops       = "Actual Loops"

	PropActualCost               = "Actual Cost"
	PropActualDuration           = "Actual Duration"
	PropPlannerEstimateFactor    = "Planner Estimate Factor"
	PropPlannerEstimateDirection = "Planner Estimate Direction"
	PropParallel                 = "Parallel"

	PropCostliestNode = "Costliest Node"
	PropLargestNode   = "Largest Node"
	PropSlowestNode   = "Slowest Node"

	PropSortMethod    = "Sort Method"
	PropSortSpaceType = "Sort Space Type"
	PropSortSpaceUsed = "Sort Space Used"

	PropWorkerNumber = "Worker Number"

	PropTriggerName  = "Trigger Name"
	PropTriggerTime  = "Time"
	PropTriggerCalls = "Calls"

	PropPlan     = "Plan"
	PropTriggers = "Triggers"

	// Tree-level maxima written by the analyzer.
	PropMaximumRows     = "maximum_rows"
	PropMaximumCosts    = "maximum_costs"
	PropMaximumDuration = "maximum_duration"
)

// Parent relationship values that change cost and time accounting.
const (
	RelationInitPlan = "InitPlan"
	RelationSubPlan  = "SubPlan"
)

// Planner estimate directions.
const (
	EstimateUnder = "under"
	EstimateOver  = "over"
	EstimateNone  = "none"
)
