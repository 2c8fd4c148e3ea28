package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/planviz/planviz/internal/comparator"
	"github.com/planviz/planviz/internal/engine"
)

func init() {
	color.NoColor = true
}

const fixture = `Sort  (cost=69.83..72.33 rows=1000 width=8) (actual time=0.456..12.478 rows=1000 loops=1)
  Sort Key: id
  Sort Method: quicksort  Memory: 71kB
  ->  Seq Scan on users  (cost=0.00..20.00 rows=500 width=8) (actual time=0.013..0.108 rows=1000 loops=1)
Planning Time: 0.107 ms
Execution Time: 12.545 ms
Trigger trg_audit: time=0.049 calls=1`

func TestRenderTree(t *testing.T) {
	p, err := engine.CreatePlan("fixture", fixture, "SELECT * FROM users ORDER BY id")
	if err != nil {
		t.Fatalf("CreatePlan failed: %v", err)
	}

	var buf bytes.Buffer
	if err := RenderTree(&buf, p); err != nil {
		t.Fatalf("RenderTree failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"fixture",
		"Sort",
		"Seq Scan on users",
		"execution time: 12.5",
		"costliest",
		"rows underestimated 2.0x",
		"trg_audit",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderJSON(t *testing.T) {
	p, err := engine.CreatePlan("fixture", fixture, "SELECT 1 WHERE 2 > 1")
	if err != nil {
		t.Fatalf("CreatePlan failed: %v", err)
	}

	var buf bytes.Buffer
	if err := RenderJSON(&buf, p); err != nil {
		t.Fatalf("RenderJSON failed: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, `"Node Type": "Sort"`) {
		t.Errorf("output missing plan tree:\n%s", out)
	}
	if !strings.Contains(out, "2 > 1") {
		t.Errorf("HTML escaping mangled the query:\n%s", out)
	}
}

func TestRenderComparisonText(t *testing.T) {
	old, err := engine.CreatePlan("old", fixture, "")
	if err != nil {
		t.Fatalf("CreatePlan failed: %v", err)
	}
	new, err := engine.CreatePlan("new", fixture, "")
	if err != nil {
		t.Fatalf("CreatePlan failed: %v", err)
	}

	c := comparator.Comparator{Threshold: 1.0}
	var buf bytes.Buffer
	if err := RenderComparisonText(&buf, c.Compare(old, new)); err != nil {
		t.Fatalf("RenderComparisonText failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Plans are identical.") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}
