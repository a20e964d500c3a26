// Package grid computes per-panel display geometry for a lattice view.
//
// A plan is a pure projection of (panelCount, ncol): panels flow left to
// right in source order and wrap every ncol panels. Each panel gets the same
// width share of the container, shaved by one percentage point so adjacent
// panels keep a visible gutter between them.
package grid

import "fmt"

// gutterPct is subtracted from each panel's width share so borders between
// adjacent panels stay visible.
const gutterPct = 1

// Plan is the display geometry for a panel set. It has no lifecycle of its
// own and is recomputed per invocation.
type Plan struct {
	PanelCount int `json:"panel_count"`
	Cols       int `json:"cols"`
	Rows       int `json:"rows"`

	// WidthPct is each panel's width as a whole percentage of the
	// container: floor(100/cols) - 1.
	WidthPct int `json:"width_pct"`
}

// Cell is one panel's position in the grid flow.
type Cell struct {
	Index int `json:"index"`
	Row   int `json:"row"`
	Col   int `json:"col"`
}

// NewPlan computes the grid plan for panelCount panels in ncol columns.
// ncol must be positive; panelCount may be zero (an empty, valid plan).
// When ncol >= panelCount all panels land in a single row.
func NewPlan(panelCount, ncol int) (Plan, error) {
	if ncol < 1 {
		return Plan{}, fmt.Errorf("ncol must be a positive integer, got %d", ncol)
	}
	if panelCount < 0 {
		return Plan{}, fmt.Errorf("panel count cannot be negative, got %d", panelCount)
	}

	rows := (panelCount + ncol - 1) / ncol
	return Plan{
		PanelCount: panelCount,
		Cols:       ncol,
		Rows:       rows,
		WidthPct:   100/ncol - gutterPct,
	}, nil
}

// Cell returns the position of panel i in the grid flow.
func (p Plan) Cell(i int) Cell {
	return Cell{Index: i, Row: i / p.Cols, Col: i % p.Cols}
}

// Cells returns all panel positions in index order.
func (p Plan) Cells() []Cell {
	cells := make([]Cell, p.PanelCount)
	for i := range cells {
		cells[i] = p.Cell(i)
	}
	return cells
}
