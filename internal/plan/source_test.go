package plan

import (
	"strings"
	"testing"
)

func TestFromSource_DispatchesText(t *testing.T) {
	input := `Seq Scan on t  (cost=0.00..10.00 rows=100 width=4) (actual time=0.1..2.0 rows=100 loops=1)`

	root, err := FromSource(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := root[PropPlan].(Node).Str(PropNodeType); got != "Seq Scan on t" {
		t.Errorf("Node Type = %q", got)
	}
}

func TestFromSource_DispatchesJSON(t *testing.T) {
	input := strings.Join([]string{
		`[`,
		`  {`,
		`    "Plan": { "Node Type": "Result" }`,
		`  }`,
		`]`,
	}, "\n")

	root, err := FromSource(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := root[PropPlan].(Node).Str(PropNodeType); got != "Result" {
		t.Errorf("Node Type = %q", got)
	}
}

func TestFromSource_PGAdminQuotes(t *testing.T) {
	input := strings.Join([]string{
		`"Sort  (cost=69.83..72.33 rows=1000 width=8) (actual time=0.4..0.5 rows=1000 loops=1)"`,
		`"  Sort Key: id"`,
		`'  ->  Seq Scan on users  (cost=0.00..20.00 rows=1000 width=8) (actual time=0.0..0.1 rows=1000 loops=1)'`,
	}, "\n")

	root, err := FromSource(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rootNode := root[PropPlan].(Node)
	if got := rootNode.Str("Sort Key"); got != "id" {
		t.Errorf("Sort Key = %q", got)
	}
	if len(rootNode.Plans()) != 1 {
		t.Fatalf("expected 1 child, got %d", len(rootNode.Plans()))
	}
}

func TestFromSource_PSQLContinuationMarkers(t *testing.T) {
	input := strings.Join([]string{
		`Seq Scan on t  (cost=0.00..10.00 rows=100 width=4) (actual time=0.1..2.0 rows=100 loops=1)+`,
		`  Filter: (id > 4)  +`,
	}, "\n")

	root, err := FromSource(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := root[PropPlan].(Node).Str("Filter"); got != "(id > 4)" {
		t.Errorf("Filter = %q", got)
	}
}

func TestCleanupSource_Idempotent(t *testing.T) {
	input := "\"Seq Scan  (cost=0.00..1.00 rows=1 width=4)\"\nPlanning Time: 0.1 ms +"
	once := CleanupSource(input)
	twice := CleanupSource(once)
	if once != twice {
		t.Errorf("cleanup not idempotent:\nonce:  %q\ntwice: %q", once, twice)
	}
}
