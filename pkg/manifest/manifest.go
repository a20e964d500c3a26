// Package manifest loads view manifests: TOML files declaring the map
// panels of a lattice view and the options shaping it.
//
// A manifest is the CLI's input format. A minimal example:
//
//	title = "flood comparison"
//	ncol = 2
//	sync = "all"
//	sync_cursor = true
//
//	[[panel]]
//	title = "before"
//	center = [51.5, -0.09]
//	zoom = 13
//
//	[[panel]]
//	title = "after"
//	center = [51.5, -0.09]
//	zoom = 13
//
// Panels are addressed by their 0-based position in declaration order.
// Explicit sync groups use those indices:
//
//	groups = [[0, 1], [2, 3]]
//
// Either sync or groups may be set, not both. Panel ids are optional; when
// present they pin the runtime lookup keys (and keep artifact caching
// stable across runs), otherwise ids are generated per invocation.
package manifest

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/cartolab/mapgrid/pkg/errors"
	"github.com/cartolab/mapgrid/pkg/leaflet"
	"github.com/cartolab/mapgrid/pkg/wiring"
)

// Manifest declares one lattice view.
type Manifest struct {
	Title         string  `toml:"title"`
	Ncol          int     `toml:"ncol"`
	Sync          string  `toml:"sync"`
	Groups        [][]int `toml:"groups"`
	SyncCursor    bool    `toml:"sync_cursor"`
	NoInitialSync bool    `toml:"no_initial_sync"`
	Panels        []Panel `toml:"panel"`
}

// Panel declares one map panel.
type Panel struct {
	ID          string    `toml:"id"`
	Title       string    `toml:"title"`
	Tiles       string    `toml:"tiles"`
	Attribution string    `toml:"attribution"`
	Center      []float64 `toml:"center"`
	Zoom        int       `toml:"zoom"`
	Markers     []Marker  `toml:"marker"`
}

// Marker declares one point of interest.
type Marker struct {
	Coords []float64 `toml:"coords"`
	Label  string    `toml:"label"`
}

// Load reads and validates a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return m, nil
}

// Parse decodes and validates manifest TOML.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) validate() error {
	if m.Sync != "" && len(m.Groups) > 0 {
		return errors.New(errors.ErrCodeInvalidManifest, "sync and groups are mutually exclusive")
	}
	if m.Sync != "" && m.Sync != "all" && m.Sync != "none" {
		return errors.New(errors.ErrCodeInvalidSyncSpec, "sync must be \"all\" or \"none\", got %q", m.Sync)
	}
	for i, p := range m.Panels {
		if p.ID != "" {
			if err := errors.ValidatePanelID(p.ID); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidManifest, err, "panel %d", i)
			}
		}
		if p.Tiles != "" {
			if err := errors.ValidateTileURL(p.Tiles); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidManifest, err, "panel %d", i)
			}
		}
		if len(p.Center) != 0 {
			if err := errors.ValidateCoords(p.Center); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidManifest, err, "panel %d: center", i)
			}
		}
		for j, mk := range p.Markers {
			if err := errors.ValidateCoords(mk.Coords); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidManifest, err, "panel %d marker %d", i, j)
			}
		}
	}
	return nil
}

// SyncSpec returns the wiring spec declared by the manifest. The zero spec
// is returned when the manifest declares nothing, letting the entry point's
// default apply.
func (m *Manifest) SyncSpec() wiring.Spec {
	if len(m.Groups) > 0 {
		return wiring.Groups(m.Groups...)
	}
	switch m.Sync {
	case "all":
		return wiring.All()
	case "none":
		return wiring.None()
	default:
		return wiring.Spec{}
	}
}

// Widgets builds the Leaflet widgets for every declared panel, in order.
// The result feeds straight into panel normalization.
func (m *Manifest) Widgets() []any {
	widgets := make([]any, len(m.Panels))
	for i, p := range m.Panels {
		mp := leaflet.New(p.Title)
		if p.ID != "" {
			mp.SetID(p.ID)
		}
		if p.Tiles != "" {
			mp.Tiles = p.Tiles
			mp.Attribution = p.Attribution
		}
		if len(p.Center) == 2 {
			mp.Lat, mp.Lng = p.Center[0], p.Center[1]
		}
		if p.Zoom != 0 {
			mp.Zoom = p.Zoom
		}
		for _, mk := range p.Markers {
			mp.Markers = append(mp.Markers, leaflet.Marker{Lat: mk.Coords[0], Lng: mk.Coords[1], Label: mk.Label})
		}
		widgets[i] = mp
	}
	return widgets
}
