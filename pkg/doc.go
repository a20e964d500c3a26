// Package pkg provides the core libraries for mapgrid view composition.
//
// # Overview
//
// Mapgrid arranges interactive map widgets into grid layouts with optional
// pan and zoom synchronization between panels. The pkg directory is
// organized into four main areas:
//
//  1. Domain logic - panel normalization, grid geometry, sync wiring
//  2. Rendering - HTML page assembly and wiring diagrams
//  3. Infrastructure - caching, errors, observability
//  4. Orchestration - the assemble → plan → render pipeline
//
// # Architecture
//
// The typical data flow through mapgrid:
//
//	Widgets / Manifest
//	         ↓
//	    [panel] package (normalize inputs into an ordered panel set)
//	         ↓
//	    [grid] + [wiring] packages (geometry, groups, link commands)
//	         ↓
//	    [view] + [render/topology] packages (HTML page, diagrams)
//	         ↓
//	    HTML/JSON/DOT/SVG/PNG output
//
// # Quick Start
//
// Compose a synchronized two-panel view:
//
//	import (
//	    "context"
//	    "github.com/cartolab/mapgrid/pkg/leaflet"
//	    "github.com/cartolab/mapgrid/pkg/pipeline"
//	)
//
//	before := leaflet.New("Before")
//	after := leaflet.New("After")
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	opts := pipeline.SyncOptions()
//	result, err := runner.Compose(context.Background(), []any{before, after}, opts)
//	page := result.Artifacts["html"]
//
// # Main Packages
//
// [panel] - Input normalization. Flattens heterogeneous widget inputs into
// an ordered panel set and assigns unique runtime ids.
//
// [grid] - Grid geometry. Computes rows, columns, and panel width from a
// panel count and a column count.
//
// [wiring] - Sync wiring. Declarative sync specs ("all", "none", explicit
// index groups), group resolution, and link command generation.
//
// [view] - The serializable view plan and the HTML page renderer.
//
// [render/topology] - Graphviz diagrams of the sync wiring.
//
// [leaflet] - The built-in Leaflet map widget.
//
// [manifest] - TOML manifests declaring panels and options for the CLI.
//
// [pipeline] - Complete composition pipeline (assemble → plan → render)
// used by CLI, server, and library callers. Ensures consistent behavior
// across all entry points.
//
// [cache] - Content-addressed artifact caching with file, Redis, and null
// backends.
//
// [errors] - Structured error codes shared by CLI and server.
//
// [observability] - Optional instrumentation hooks for pipeline and cache
// events.
//
// [panel]: https://pkg.go.dev/github.com/cartolab/mapgrid/pkg/panel
// [grid]: https://pkg.go.dev/github.com/cartolab/mapgrid/pkg/grid
// [wiring]: https://pkg.go.dev/github.com/cartolab/mapgrid/pkg/wiring
// [view]: https://pkg.go.dev/github.com/cartolab/mapgrid/pkg/view
// [render/topology]: https://pkg.go.dev/github.com/cartolab/mapgrid/pkg/render/topology
// [leaflet]: https://pkg.go.dev/github.com/cartolab/mapgrid/pkg/leaflet
// [manifest]: https://pkg.go.dev/github.com/cartolab/mapgrid/pkg/manifest
// [pipeline]: https://pkg.go.dev/github.com/cartolab/mapgrid/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/cartolab/mapgrid/pkg/cache
// [errors]: https://pkg.go.dev/github.com/cartolab/mapgrid/pkg/errors
// [observability]: https://pkg.go.dev/github.com/cartolab/mapgrid/pkg/observability
package pkg
