// Package leaflet provides a Leaflet-backed map widget for grid views.
//
// A [Map] describes one interactive map: a tile layer, an initial view, and
// optional markers. It implements the panel widget contract, so maps can be
// handed straight to the composition pipeline. The widget renders an init
// script that mounts the Leaflet instance into its panel container and
// attaches it to the container element, where the view bootstrap finds it.
//
// The map content itself is opaque to the rest of the system: nothing
// outside this package inspects tiles, markers, or the live instance.
package leaflet

import (
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/cartolab/mapgrid/pkg/panel"
)

// Defaults for maps that don't specify a tile layer or view.
const (
	DefaultTiles       = "https://tile.openstreetmap.org/{z}/{x}/{y}.png"
	DefaultAttribution = `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`
	DefaultZoom        = 3
)

// Asset URLs for the Leaflet runtime. Pinned so composed pages are
// reproducible.
const (
	cssURL = "https://unpkg.com/leaflet@1.9.4/dist/leaflet.css"
	jsURL  = "https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"
)

// instanceProp is the container element property the init script stores the
// live map under. The view bootstrap reads the same property.
const instanceProp = "_mapgridMap"

// Marker is a point of interest shown on a map.
type Marker struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Label string  `json:"label,omitempty"`
}

// Map is one Leaflet map widget.
type Map struct {
	id string

	// Title labels the panel in composed views and topology diagrams.
	Title string

	// Tiles is the tile layer URL template. Empty means DefaultTiles.
	Tiles string

	// Attribution is the tile layer attribution HTML.
	Attribution string

	// Lat, Lng and Zoom set the initial view.
	Lat, Lng float64
	Zoom     int

	Markers []Marker
}

// New creates a map with the default OpenStreetMap tile layer.
func New(title string) *Map {
	return &Map{
		Title:       title,
		Tiles:       DefaultTiles,
		Attribution: DefaultAttribution,
		Zoom:        DefaultZoom,
	}
}

// ID returns the panel identifier, or "" before normalization.
func (m *Map) ID() string { return m.id }

// SetID assigns the panel identifier. Called once by the normalizer.
func (m *Map) SetID(id string) { m.id = id }

// PanelTitle returns the display title for composed views.
func (m *Map) PanelTitle() string { return m.Title }

// Fragment renders the mount fragment for this map. The body stays empty -
// Leaflet draws directly into the panel container - and the init script
// creates the instance and attaches it to the container element.
func (m *Map) Fragment() (panel.Fragment, error) {
	if m.id == "" {
		return panel.Fragment{}, fmt.Errorf("map %q has no panel id; normalize before rendering", m.Title)
	}

	cfg := struct {
		ID          string   `json:"id"`
		Tiles       string   `json:"tiles"`
		Attribution string   `json:"attribution"`
		Center      []float64 `json:"center"`
		Zoom        int      `json:"zoom"`
		Markers     []Marker `json:"markers,omitempty"`
	}{
		ID:          m.id,
		Tiles:       m.Tiles,
		Attribution: m.Attribution,
		Center:      []float64{m.Lat, m.Lng},
		Zoom:        m.Zoom,
		Markers:     m.Markers,
	}
	if cfg.Tiles == "" {
		cfg.Tiles = DefaultTiles
		cfg.Attribution = DefaultAttribution
	}
	if cfg.Zoom == 0 {
		cfg.Zoom = DefaultZoom
	}

	// The widget config crosses into the script as one JSON literal; no
	// value is ever spliced into JS source as text.
	data, err := json.Marshal(cfg)
	if err != nil {
		return panel.Fragment{}, fmt.Errorf("encode map config: %w", err)
	}

	init := fmt.Sprintf(`(function () {
  var cfg = %s;
  var el = document.getElementById(cfg.id);
  if (!el) { return; }
  var map = L.map(el).setView(cfg.center, cfg.zoom);
  L.tileLayer(cfg.tiles, { attribution: cfg.attribution }).addTo(map);
  (cfg.markers || []).forEach(function (mk) {
    var marker = L.marker([mk.lat, mk.lng]).addTo(map);
    if (mk.label) { marker.bindPopup(mk.label); }
  });
  el.%s = map;
})();`, data, instanceProp)

	return panel.Fragment{
		Init: template.JS(init),
		Assets: []panel.Asset{
			{Kind: panel.AssetCSS, URL: cssURL},
			{Kind: panel.AssetJS, URL: jsURL},
		},
	}, nil
}

// Ensure Map satisfies the renderable widget contract.
var _ panel.Renderer = (*Map)(nil)
