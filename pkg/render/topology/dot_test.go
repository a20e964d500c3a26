package topology

import (
	"strings"
	"testing"

	"github.com/cartolab/mapgrid/pkg/grid"
	"github.com/cartolab/mapgrid/pkg/view"
	"github.com/cartolab/mapgrid/pkg/wiring"
)

func testPlan() view.Plan {
	g, _ := grid.NewPlan(3, 2)
	return view.Plan{
		Grid: g,
		Panels: []view.Panel{
			{Index: 0, ID: "map-a", Title: "Left"},
			{Index: 1, ID: "map-b", Title: "Right"},
			{Index: 2, ID: "map-c"},
		},
		Links: []wiring.Link{
			{SourceID: "map-a", TargetID: "map-b", SyncCursor: true},
			{SourceID: "map-b", TargetID: "map-a", SyncCursor: true},
		},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testPlan())

	for _, want := range []string{
		"digraph wiring",
		`"map-a" [label="Left"]`,
		`"map-b" [label="Right"]`,
		`"map-c" [label="panel 2"]`, // isolated panels still appear
		`"map-a" -> "map-b" [style=solid]`,
		`"map-b" -> "map-a" [style=solid]`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTEdgeStyle(t *testing.T) {
	plan := testPlan()
	plan.Links = []wiring.Link{{SourceID: "map-a", TargetID: "map-b"}}
	dot := ToDOT(plan)
	if !strings.Contains(dot, `"map-a" -> "map-b" [style=dashed]`) {
		t.Errorf("view-only link should render dashed:\n%s", dot)
	}
}

func TestToDOTDuplicateEdges(t *testing.T) {
	// Overlapping groups emit duplicate commands; the diagram keeps them.
	plan := testPlan()
	plan.Links = append(plan.Links, plan.Links[0])
	dot := ToDOT(plan)
	if n := strings.Count(dot, `"map-a" -> "map-b"`); n != 2 {
		t.Errorf("duplicate command should render twice, got %d edges", n)
	}
}

func TestToDOTEmptyPlan(t *testing.T) {
	g, _ := grid.NewPlan(0, 2)
	dot := ToDOT(view.Plan{Grid: g})
	if !strings.Contains(dot, "digraph wiring") {
		t.Errorf("empty plan should still produce a valid digraph:\n%s", dot)
	}
}
