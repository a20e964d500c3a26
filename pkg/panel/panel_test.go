package panel

import (
	"strings"
	"testing"
)

// fakeWidget is a minimal Widget for normalizer tests.
type fakeWidget struct {
	id string
}

func (w *fakeWidget) ID() string      { return w.id }
func (w *fakeWidget) SetID(id string) { w.id = id }

// wrapped is an alternate form convertible via an adapter.
type wrapped struct {
	inner *fakeWidget
}

func adaptWrapped(v any) (Widget, bool) {
	if wr, ok := v.(wrapped); ok {
		return wr.inner, true
	}
	return nil, false
}

func TestNormalizeEmpty(t *testing.T) {
	panels, err := Normalize(nil, nil)
	if err != nil {
		t.Fatalf("Normalize(nil) error: %v", err)
	}
	if len(panels) != 0 {
		t.Errorf("Normalize(nil) = %d panels, want 0", len(panels))
	}
}

func TestNormalizeVariadic(t *testing.T) {
	a, b := &fakeWidget{}, &fakeWidget{}
	panels, err := Normalize([]any{a, b}, nil)
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}
	if len(panels) != 2 {
		t.Fatalf("got %d panels, want 2", len(panels))
	}
	for i, p := range panels {
		if p.Index != i {
			t.Errorf("panel %d has Index %d", i, p.Index)
		}
		if p.ID == "" {
			t.Errorf("panel %d has empty id", i)
		}
	}
}

func TestNormalizeFlattensSlices(t *testing.T) {
	a, b, c := &fakeWidget{}, &fakeWidget{}, &fakeWidget{}

	// A single list argument behaves like passing elements individually.
	fromList, err := Normalize([]any{[]Widget{a, b, c}}, nil)
	if err != nil {
		t.Fatalf("list-call Normalize error: %v", err)
	}
	if len(fromList) != 3 {
		t.Fatalf("list call: got %d panels, want 3", len(fromList))
	}

	// Mixed nesting with []any flattens too.
	d, e := &fakeWidget{}, &fakeWidget{}
	mixed, err := Normalize([]any{d, []any{e}}, nil)
	if err != nil {
		t.Fatalf("mixed Normalize error: %v", err)
	}
	if len(mixed) != 2 {
		t.Fatalf("mixed: got %d panels, want 2", len(mixed))
	}
	if mixed[0].Widget != d || mixed[1].Widget != e {
		t.Error("mixed: input order not preserved")
	}
}

func TestNormalizeAdapter(t *testing.T) {
	inner := &fakeWidget{}
	panels, err := Normalize([]any{wrapped{inner: inner}}, adaptWrapped)
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}
	if len(panels) != 1 || panels[0].Widget != inner {
		t.Error("adapter result should be the converted widget")
	}
}

func TestNormalizeUnconvertible(t *testing.T) {
	if _, err := Normalize([]any{42}, nil); err == nil {
		t.Error("non-widget input without adapter should fail")
	}
	if _, err := Normalize([]any{42}, adaptWrapped); err == nil {
		t.Error("input the adapter rejects should fail")
	}
	if _, err := Normalize([]any{nil}, nil); err == nil {
		t.Error("nil input should fail")
	}
}

func TestNormalizeAssignsUniqueIDs(t *testing.T) {
	inputs := make([]any, 20)
	for i := range inputs {
		inputs[i] = &fakeWidget{}
	}
	panels, err := Normalize(inputs, nil)
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}

	seen := make(map[string]bool)
	for _, p := range panels {
		if seen[p.ID] {
			t.Fatalf("duplicate generated id %q", p.ID)
		}
		seen[p.ID] = true
		if !strings.HasPrefix(p.ID, "map-") {
			t.Errorf("generated id %q missing map- prefix", p.ID)
		}
		if p.Widget.ID() != p.ID {
			t.Errorf("widget id %q not annotated to match panel id %q", p.Widget.ID(), p.ID)
		}
	}
}

func TestNormalizeKeepsCallerIDs(t *testing.T) {
	w := &fakeWidget{id: "left"}
	panels, err := Normalize([]any{w, &fakeWidget{}}, nil)
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}
	if panels[0].ID != "left" {
		t.Errorf("caller-supplied id rewritten to %q", panels[0].ID)
	}
}

func TestNormalizeRejectsDuplicateIDs(t *testing.T) {
	_, err := Normalize([]any{&fakeWidget{id: "x"}, &fakeWidget{id: "x"}}, nil)
	if err == nil {
		t.Error("duplicate caller-supplied ids should fail")
	}
}

func TestIDs(t *testing.T) {
	panels := []Panel{
		{Index: 0, ID: "a"},
		{Index: 1, ID: "b"},
	}
	ids := IDs(panels)
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("IDs() = %v, want [a b]", ids)
	}
}
