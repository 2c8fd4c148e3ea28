// Package engine is the public entry point of the core: it turns a raw
// EXPLAIN source into a named, analyzed plan envelope.
package engine

import (
	"fmt"
	"regexp"
	"time"

	"github.com/planviz/planviz/internal/analyzer"
	"github.com/planviz/planviz/internal/plan"
)

const planIDPrefix = "plan_"

var interiorGapRe = regexp.MustCompile(`(\S)\s{2,}(\S)`)

// CreatePlan parses source, builds the plan envelope, and analyzes it.
// When name is empty a name is derived from the creation time. The
// query is stored with interior whitespace runs collapsed; leading and
// trailing whitespace are preserved so indentation survives.
func CreatePlan(name, source, query string) (*plan.Plan, error) {
	content, err := plan.FromSource(source)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if name == "" {
		name = "plan created on " + now.Format("Jan 2, 2006 at 15:04")
	}

	p := &plan.Plan{
		ID:        fmt.Sprintf("%s%d", planIDPrefix, now.UnixMilli()),
		Name:      name,
		CreatedOn: now,
		Content:   content,
		Query:     CollapseQuery(query),
		PlanStats: map[string]any{},
	}

	analyzer.Analyze(p)
	return p, nil
}

// CollapseQuery replaces every interior run of two or more whitespace
// characters with a single space. The transform is idempotent.
func CollapseQuery(query string) string {
	for {
		collapsed := interiorGapRe.ReplaceAllString(query, "$1 $2")
		if collapsed == query {
			return query
		}
		query = collapsed
	}
}
