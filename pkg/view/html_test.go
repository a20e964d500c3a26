package view

import (
	"html/template"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cartolab/mapgrid/pkg/grid"
	"github.com/cartolab/mapgrid/pkg/panel"
	"github.com/cartolab/mapgrid/pkg/wiring"
)

// stubWidget renders a trivial fragment for page composition tests.
type stubWidget struct {
	id     string
	body   string
	assets []panel.Asset
}

func (w *stubWidget) ID() string      { return w.id }
func (w *stubWidget) SetID(id string) { w.id = id }

func (w *stubWidget) Fragment() (panel.Fragment, error) {
	return panel.Fragment{
		Body:   template.HTML(w.body),
		Init:   template.JS("/* init " + w.id + " */"),
		Assets: w.assets,
	}, nil
}

// bareWidget has an identity but cannot render.
type bareWidget struct{ id string }

func (w *bareWidget) ID() string      { return w.id }
func (w *bareWidget) SetID(id string) { w.id = id }

func testPlan(t *testing.T, n int, links []wiring.Link) (Plan, []panel.Panel) {
	t.Helper()
	g, err := grid.NewPlan(n, 2)
	if err != nil {
		t.Fatalf("grid.NewPlan error: %v", err)
	}

	asset := panel.Asset{Kind: panel.AssetJS, URL: "https://example.com/maps.js"}
	plan := Plan{Title: "test view", Grid: g, Links: links}
	panels := make([]panel.Panel, n)
	for i := range panels {
		id := "map-" + string(rune('a'+i))
		plan.Panels = append(plan.Panels, Panel{Index: i, ID: id, Title: "Panel " + id})
		panels[i] = panel.Panel{
			Index:  i,
			ID:     id,
			Widget: &stubWidget{id: id, body: "<span>" + id + "</span>", assets: []panel.Asset{asset}},
		}
	}
	return plan, panels
}

func TestRenderPage(t *testing.T) {
	links := wiring.Generate([]string{"map-a", "map-b"}, []wiring.Group{{0, 1}}, wiring.LinkOptions{SyncCursor: true})
	plan, panels := testPlan(t, 2, links)

	out, err := Render(plan, panels)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	html := string(out)

	for _, want := range []string{
		`id="map-a"`,
		`id="map-b"`,
		"data-mapgrid-panel",
		"width: 49%",
		"<span>map-a</span>",
		"/* init map-b */",
		syncJSURL,
		`"source":"map-a"`,
		`"sync_cursor":true`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered page missing %q", want)
		}
	}

	// Shared assets are included once even when every panel requests them.
	if n := strings.Count(html, "https://example.com/maps.js"); n != 1 {
		t.Errorf("shared asset included %d times, want 1", n)
	}

	// Panels appear in source order.
	if strings.Index(html, `id="map-a"`) > strings.Index(html, `id="map-b"`) {
		t.Error("panels rendered out of input order")
	}
}

func TestRenderWithoutLinks(t *testing.T) {
	plan, panels := testPlan(t, 2, nil)
	out, err := Render(plan, panels)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	html := string(out)

	if strings.Contains(html, syncJSURL) {
		t.Error("sync runtime should not be declared for an unlinked view")
	}
	if strings.Contains(html, "bootstrap()") {
		t.Error("bootstrap script should not be emitted without commands")
	}
}

func TestRenderEmptyPlan(t *testing.T) {
	plan, panels := testPlan(t, 0, nil)
	out, err := Render(plan, panels)
	if err != nil {
		t.Fatalf("Render of empty plan error: %v", err)
	}
	if !strings.Contains(string(out), "<!DOCTYPE html>") {
		t.Error("empty plan should still produce a valid page")
	}
}

func TestRenderPanelCountMismatch(t *testing.T) {
	plan, panels := testPlan(t, 2, nil)
	if _, err := Render(plan, panels[:1]); err == nil {
		t.Error("mismatched widget count should fail")
	}
}

func TestRenderNonRenderableWidget(t *testing.T) {
	plan, panels := testPlan(t, 1, nil)
	panels[0].Widget = &bareWidget{id: panels[0].ID}
	if _, err := Render(plan, panels); err == nil {
		t.Error("widget without a fragment should fail")
	}
}

func TestBootstrapJS(t *testing.T) {
	links := []wiring.Link{
		{SourceID: "map-a", TargetID: "map-b", SyncCursor: true, NoInitialSync: true},
	}
	script, err := BootstrapJS(links)
	if err != nil {
		t.Fatalf("BootstrapJS error: %v", err)
	}

	s := string(script)
	for _, want := range []string{
		`"source":"map-a"`,
		`"target":"map-b"`,
		`"no_initial_sync":true`,
		`window.addEventListener("load", bootstrap, { once: true })`,
		"if (!source || !target",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("bootstrap script missing %q", want)
		}
	}
}

func TestBootstrapJSEmpty(t *testing.T) {
	script, err := BootstrapJS(nil)
	if err != nil {
		t.Fatalf("BootstrapJS(nil) error: %v", err)
	}
	if !strings.Contains(string(script), "var commands = []") {
		t.Error("empty command list should embed an empty array")
	}
}

func TestPlanFileRoundTrip(t *testing.T) {
	plan, _ := testPlan(t, 2, wiring.Generate([]string{"map-a", "map-b"}, []wiring.Group{{0, 1}}, wiring.LinkOptions{}))

	path := filepath.Join(t.TempDir(), "plan.json")
	if err := WritePlanFile(path, plan); err != nil {
		t.Fatalf("WritePlanFile error: %v", err)
	}
	back, err := ReadPlanFile(path)
	if err != nil {
		t.Fatalf("ReadPlanFile error: %v", err)
	}

	if back.Title != plan.Title || len(back.Panels) != len(plan.Panels) || len(back.Links) != len(plan.Links) {
		t.Errorf("round trip changed plan: %+v vs %+v", back, plan)
	}
	if back.Grid != plan.Grid {
		t.Errorf("round trip changed grid: %+v vs %+v", back.Grid, plan.Grid)
	}
}

func TestReadPlanFileMissing(t *testing.T) {
	if _, err := ReadPlanFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("missing plan file should fail")
	}
}
