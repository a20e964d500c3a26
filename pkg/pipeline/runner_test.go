package pipeline

import (
	"context"
	"html/template"
	"strings"
	"testing"

	"github.com/cartolab/mapgrid/pkg/cache"
	"github.com/cartolab/mapgrid/pkg/panel"
	"github.com/cartolab/mapgrid/pkg/view"
	"github.com/cartolab/mapgrid/pkg/wiring"
)

type fakeMap struct {
	id    string
	title string
}

func (f *fakeMap) ID() string        { return f.id }
func (f *fakeMap) SetID(id string)   { f.id = id }
func (f *fakeMap) PanelTitle() string { return f.title }

func (f *fakeMap) Fragment() (panel.Fragment, error) {
	return panel.Fragment{
		Init: template.JS("register(" + template.JSEscapeString(f.id) + ");"),
	}, nil
}

func fakeInputs(ids ...string) []any {
	inputs := make([]any, len(ids))
	for i, id := range ids {
		inputs[i] = &fakeMap{id: id, title: "map " + id}
	}
	return inputs
}

func TestComposeSyncAll(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	defer r.Close()

	opts := SyncOptions()
	opts.Formats = []string{FormatJSON, FormatHTML}

	result, err := r.Compose(context.Background(), fakeInputs("a", "b", "c"), opts)
	if err != nil {
		t.Fatalf("Compose error: %v", err)
	}

	if result.Stats.PanelCount != 3 {
		t.Errorf("PanelCount = %d, want 3", result.Stats.PanelCount)
	}
	if result.Stats.LinkCount != 6 {
		t.Errorf("LinkCount = %d, want 3*2", result.Stats.LinkCount)
	}
	if len(result.PlanHash) != 64 {
		t.Errorf("PlanHash = %q, want sha256 hex", result.PlanHash)
	}

	plan, err := view.UnmarshalPlan(result.Artifacts[FormatJSON])
	if err != nil {
		t.Fatalf("json artifact is not a plan: %v", err)
	}
	if len(plan.Links) != 6 {
		t.Errorf("serialized plan has %d links, want 6", len(plan.Links))
	}
	for _, l := range plan.Links {
		if !l.SyncCursor {
			t.Errorf("link %s->%s lost the cursor flag", l.SourceID, l.TargetID)
		}
	}

	page := string(result.Artifacts[FormatHTML])
	if !strings.Contains(page, `id="a"`) {
		t.Error("html artifact should contain the panel containers")
	}
}

func TestComposeLattice(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	defer r.Close()

	opts := LatticeOptions()
	opts.Ncol = 3
	opts.Formats = []string{FormatJSON}

	result, err := r.Compose(context.Background(), fakeInputs("a", "b", "c", "d"), opts)
	if err != nil {
		t.Fatalf("Compose error: %v", err)
	}
	if result.Stats.LinkCount != 0 {
		t.Errorf("lattice view generated %d links, want 0", result.Stats.LinkCount)
	}
	if result.Plan.Grid.Cols != 3 || result.Plan.Grid.Rows != 2 {
		t.Errorf("grid = %dx%d, want 2x3", result.Plan.Grid.Rows, result.Plan.Grid.Cols)
	}
}

func TestComposeOutOfRangeGroup(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	defer r.Close()

	opts := LatticeOptions()
	opts.Sync = wiring.Groups([]int{0, 5})
	opts.Formats = []string{FormatJSON}

	if _, err := r.Compose(context.Background(), fakeInputs("a", "b"), opts); err == nil {
		t.Error("out-of-range sync group should fail composition")
	}
}

func TestBuildPlanTitles(t *testing.T) {
	panels, err := panel.Normalize(fakeInputs("a", "b"), nil)
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}

	opts := LatticeOptions()
	plan, err := BuildPlan(panels, opts)
	if err != nil {
		t.Fatalf("BuildPlan error: %v", err)
	}
	if plan.Panels[0].Title != "map a" {
		t.Errorf("panel 0 title = %q, want widget title", plan.Panels[0].Title)
	}
}

func TestRenderCaching(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	r := NewRunner(c, nil, nil)
	defer r.Close()
	ctx := context.Background()

	opts := SyncOptions()
	opts.Formats = []string{FormatJSON, FormatDOT}
	opts.SourceHash = cache.Hash([]byte("manifest content"))

	first, err := r.Compose(ctx, fakeInputs("a", "b"), opts)
	if err != nil {
		t.Fatalf("first Compose error: %v", err)
	}
	if first.CacheInfo.RenderHit {
		t.Error("first run should miss the cache")
	}

	second, err := r.Compose(ctx, fakeInputs("a", "b"), opts)
	if err != nil {
		t.Fatalf("second Compose error: %v", err)
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should hit the cache")
	}
	if string(second.Artifacts[FormatJSON]) != string(first.Artifacts[FormatJSON]) {
		t.Error("cached artifact should match the first run")
	}

	// Refresh bypasses cached artifacts.
	opts.Refresh = true
	third, err := r.Compose(ctx, fakeInputs("a", "b"), opts)
	if err != nil {
		t.Fatalf("refresh Compose error: %v", err)
	}
	if third.CacheInfo.RenderHit {
		t.Error("refresh should bypass the cache")
	}
}

func TestRenderCachingRequiresSourceHash(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	r := NewRunner(c, nil, nil)
	defer r.Close()
	ctx := context.Background()

	opts := SyncOptions()
	opts.Formats = []string{FormatJSON}

	for range 2 {
		result, err := r.Compose(ctx, fakeInputs("a", "b"), opts)
		if err != nil {
			t.Fatalf("Compose error: %v", err)
		}
		if result.CacheInfo.RenderHit {
			t.Error("composition without a source hash should never hit the cache")
		}
	}
}
