package view

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cartolab/mapgrid/pkg/grid"
	"github.com/cartolab/mapgrid/pkg/wiring"
)

// =============================================================================
// Plan - Serializable Composition
// =============================================================================

// Panel is the serialized identity of one panel in a plan.
type Panel struct {
	Index int    `json:"index"`
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
}

// Plan is the complete, serializable description of one composed view:
// panel identities in input order, grid geometry, and every link command.
// Plans round-trip through JSON without loss.
type Plan struct {
	Title  string        `json:"title,omitempty"`
	Grid   grid.Plan     `json:"grid"`
	Panels []Panel       `json:"panels"`
	Links  []wiring.Link `json:"links,omitempty"`
}

// MarshalPlan encodes a plan as indented JSON.
func MarshalPlan(p Plan) ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// UnmarshalPlan decodes a plan from JSON.
func UnmarshalPlan(data []byte) (Plan, error) {
	var p Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return Plan{}, fmt.Errorf("decode plan: %w", err)
	}
	return p, nil
}

// ReadPlanFile loads a plan from a JSON file.
func ReadPlanFile(path string) (Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Plan{}, fmt.Errorf("read plan %s: %w", path, err)
	}
	return UnmarshalPlan(data)
}

// WritePlanFile writes a plan to a JSON file.
func WritePlanFile(path string, p Plan) error {
	data, err := MarshalPlan(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
