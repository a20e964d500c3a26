package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cartolab/mapgrid/pkg/cache"
	"github.com/cartolab/mapgrid/pkg/grid"
	"github.com/cartolab/mapgrid/pkg/observability"
	"github.com/cartolab/mapgrid/pkg/panel"
	"github.com/cartolab/mapgrid/pkg/render/topology"
	"github.com/cartolab/mapgrid/pkg/view"
	"github.com/cartolab/mapgrid/pkg/wiring"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Panels is the normalized panel set in input order.
	Panels []panel.Panel

	// Plan is the composed view plan.
	Plan view.Plan

	// PlanHash is the content hash of the plan.
	PlanHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	PanelCount   int
	LinkCount    int
	AssembleTime time.Duration
	PlanTime     time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for the pipeline.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// Compose runs the complete assemble → plan → render pipeline with caching.
func (r *Runner) Compose(ctx context.Context, inputs []any, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Assemble
	assembleStart := time.Now()
	observability.Pipeline().OnAssembleStart(ctx, len(inputs))
	panels, err := r.Assemble(inputs, opts)
	observability.Pipeline().OnAssembleComplete(ctx, len(panels), time.Since(assembleStart), err)
	if err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}
	result.Panels = panels
	result.Stats.AssembleTime = time.Since(assembleStart)
	result.Stats.PanelCount = len(panels)

	r.Logger.Info("assembled panels",
		"panels", len(panels),
		"duration", result.Stats.AssembleTime)

	// Stage 2: Plan
	planStart := time.Now()
	observability.Pipeline().OnPlanStart(ctx, len(panels))
	plan, err := BuildPlan(panels, opts)
	observability.Pipeline().OnPlanComplete(ctx, len(plan.Links), time.Since(planStart), err)
	if err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}
	result.Plan = plan
	result.Stats.PlanTime = time.Since(planStart)
	result.Stats.LinkCount = len(plan.Links)

	// Compute plan hash for cache keys and server responses
	if planData, err := view.MarshalPlan(plan); err == nil {
		result.PlanHash = cache.Hash(planData)
	}

	r.Logger.Info("composed plan",
		"grid", fmt.Sprintf("%dx%d", plan.Grid.Rows, plan.Grid.Cols),
		"links", len(plan.Links),
		"duration", result.Stats.PlanTime)

	// Stage 3: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, plan, panels, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Assemble normalizes heterogeneous widget inputs into an ordered panel set.
func (r *Runner) Assemble(inputs []any, opts Options) ([]panel.Panel, error) {
	r.applyLogger(&opts)
	return panel.Normalize(inputs, opts.Adapter)
}

// BuildPlan composes a view plan from a normalized panel set: grid geometry,
// resolved sync groups, and the link commands they expand to.
//
// BuildPlan is pure and deterministic given its inputs, so it needs no
// caching and no context.
func BuildPlan(panels []panel.Panel, opts Options) (view.Plan, error) {
	if err := opts.ValidateForPlan(); err != nil {
		return view.Plan{}, err
	}

	g, err := grid.NewPlan(len(panels), opts.Ncol)
	if err != nil {
		return view.Plan{}, err
	}

	groups, err := opts.Sync.Resolve(len(panels))
	if err != nil {
		return view.Plan{}, err
	}
	links := wiring.Generate(panel.IDs(panels), groups, opts.LinkOptions())

	viewPanels := make([]view.Panel, len(panels))
	for i, p := range panels {
		vp := view.Panel{Index: p.Index, ID: p.ID}
		if titled, ok := p.Widget.(panel.Titled); ok {
			vp.Title = titled.PanelTitle()
		}
		viewPanels[i] = vp
	}

	return view.Plan{
		Title:  opts.Title,
		Grid:   g,
		Panels: viewPanels,
		Links:  links,
	}, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit
// info. Caching is all-or-nothing across the requested formats so the
// returned artifact set is always internally consistent, and it engages only
// when opts.SourceHash identifies the input content.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, plan view.Plan, panels []panel.Panel, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	cacheable := opts.SourceHash != ""
	var viewKey string
	if cacheable {
		viewKey = r.Keyer.ViewKey(opts.SourceHash, opts.ViewKeyOpts())
	}

	// Try to get all formats from cache (unless refresh requested)
	if cacheable && !opts.Refresh {
		allCached := true
		artifacts := make(map[string][]byte)
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(viewKey, format)
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
			} else {
				observability.Cache().OnCacheMiss(ctx, "artifact")
				allCached = false
				break
			}
		}
		if allCached && len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil // All artifacts from cache
		}
	}

	// Render all formats
	rendered := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := renderFormat(ctx, format, plan, panels)
		if err != nil {
			return nil, false, fmt.Errorf("render %s: %w", format, err)
		}
		rendered[format] = data
	}

	// Cache each format
	if cacheable {
		for format, data := range rendered {
			cacheKey := r.Keyer.ArtifactKey(viewKey, format)
			if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
				observability.Cache().OnCacheSet(ctx, "artifact", len(data))
			}
		}
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, plan view.Plan, panels []panel.Panel, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, plan, panels, opts)
	return artifacts, err
}

func renderFormat(ctx context.Context, format string, plan view.Plan, panels []panel.Panel) ([]byte, error) {
	switch format {
	case FormatHTML:
		return view.Render(plan, panels)
	case FormatJSON:
		return view.MarshalPlan(plan)
	case FormatDOT:
		return []byte(topology.ToDOT(plan)), nil
	case FormatSVG:
		return topology.RenderSVG(ctx, topology.ToDOT(plan))
	case FormatPNG:
		return topology.RenderPNG(ctx, topology.ToDOT(plan))
	default:
		return nil, fmt.Errorf("invalid format: %q", format)
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
