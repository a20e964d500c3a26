package view

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/cartolab/mapgrid/pkg/panel"
	"github.com/cartolab/mapgrid/pkg/wiring"
)

// syncJSURL is the runtime dependency providing the map-to-map sync
// capability (Leaflet.Sync). Declared on the page whenever link commands
// exist.
const syncJSURL = "https://unpkg.com/leaflet.sync@0.2.4/L.Map.Sync.js"

// panelHeightPx is the fixed panel height in the composed page.
const panelHeightPx = 420

// pageTmpl lays out the panel containers in source order and defers all
// scripting to the bottom of the body: runtime assets, per-panel init
// scripts, then the one-shot bootstrap.
const pageTmpl = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
{{- range .CSS}}
<link rel="stylesheet" href="{{.}}">
{{- end}}
<style>
body { margin: 0; font-family: sans-serif; }
.mapgrid { overflow: hidden; padding: 4px; }
.mapgrid-panel { float: left; width: {{.WidthPct}}%; height: {{.HeightPx}}px; margin: 0 0.5% 8px 0.5%; border: 1px solid #ccc; box-sizing: border-box; }
.mapgrid-title { position: absolute; z-index: 1000; margin: 6px; padding: 2px 8px; background: rgba(255,255,255,.85); border-radius: 3px; font-size: 13px; }
</style>
</head>
<body>
<div class="mapgrid">
{{- range .Panels}}
<div id="{{.ID}}" class="mapgrid-panel" data-mapgrid-panel>{{if .Title}}<span class="mapgrid-title">{{.Title}}</span>{{end}}{{.Body}}</div>
{{- end}}
</div>
{{- range .JS}}
<script src="{{.}}"></script>
{{- end}}
{{- range .Inits}}
<script>{{.}}</script>
{{- end}}
{{- if .Bootstrap}}
<script>{{.Bootstrap}}</script>
{{- end}}
</body>
</html>
`

var page = template.Must(template.New("mapgrid").Parse(pageTmpl))

// renderedPanel is one panel's contribution to the page template.
type renderedPanel struct {
	ID    string
	Title string
	Body  template.HTML
}

// pageData is the fully resolved template input.
type pageData struct {
	Title     string
	WidthPct  int
	HeightPx  int
	CSS       []string
	JS        []string
	Panels    []renderedPanel
	Inits     []template.JS
	Bootstrap template.JS
}

// Render composes the embeddable HTML artifact for a plan.
//
// panels supplies the live widgets in the same order as plan.Panels; every
// widget must implement [panel.Renderer]. Assets requested by multiple
// widgets are included once, in first-seen order. When the plan carries link
// commands, the page additionally declares the sync runtime dependency and
// the deferred bootstrap script.
func Render(plan Plan, panels []panel.Panel) ([]byte, error) {
	if len(panels) != len(plan.Panels) {
		return nil, fmt.Errorf("plan has %d panels but %d widgets were supplied", len(plan.Panels), len(panels))
	}

	data := pageData{
		Title:    plan.Title,
		WidthPct: plan.Grid.WidthPct,
		HeightPx: panelHeightPx,
	}
	if data.Title == "" {
		data.Title = "mapgrid view"
	}

	seenAsset := make(map[panel.Asset]bool)
	for i, p := range panels {
		r, ok := p.Widget.(panel.Renderer)
		if !ok {
			return nil, fmt.Errorf("panel %d (%s): widget %T cannot render a fragment", p.Index, p.ID, p.Widget)
		}
		frag, err := r.Fragment()
		if err != nil {
			return nil, fmt.Errorf("panel %d (%s): %w", p.Index, p.ID, err)
		}

		for _, a := range frag.Assets {
			if seenAsset[a] {
				continue
			}
			seenAsset[a] = true
			switch a.Kind {
			case panel.AssetCSS:
				data.CSS = append(data.CSS, a.URL)
			case panel.AssetJS:
				data.JS = append(data.JS, a.URL)
			default:
				return nil, fmt.Errorf("panel %d (%s): unknown asset kind %q", p.Index, p.ID, a.Kind)
			}
		}
		if frag.Init != "" {
			data.Inits = append(data.Inits, frag.Init)
		}
		data.Panels = append(data.Panels, renderedPanel{
			ID:    p.ID,
			Title: plan.Panels[i].Title,
			Body:  frag.Body,
		})
	}

	if len(plan.Links) > 0 {
		data.JS = append(data.JS, syncJSURL)
		boot, err := BootstrapJS(plan.Links)
		if err != nil {
			return nil, err
		}
		data.Bootstrap = boot
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return buf.Bytes(), nil
}

// BootstrapJS builds the deferred bootstrap script for a command list.
//
// The script is single-shot: it waits for the page load event (the render
// complete signal of the host environment), builds a fresh registry from the
// mounted panel containers, and applies each command in order. Commands
// whose source or target is missing from the registry are skipped without
// aborting the rest. The command list is embedded as one JSON array; the
// boolean flags stay typed until this point.
func BootstrapJS(links []wiring.Link) (template.JS, error) {
	if links == nil {
		links = []wiring.Link{}
	}
	commands, err := json.Marshal(links)
	if err != nil {
		return "", fmt.Errorf("encode link commands: %w", err)
	}

	script := fmt.Sprintf(`(function () {
  var commands = %s;
  function bootstrap() {
    var registry = {};
    document.querySelectorAll("[data-mapgrid-panel]").forEach(function (el) {
      if (el._mapgridMap) { registry[el.id] = el._mapgridMap; }
    });
    commands.forEach(function (cmd) {
      var source = registry[cmd.source];
      var target = registry[cmd.target];
      if (!source || !target || typeof source.sync !== "function") { return; }
      source.sync(target, { syncCursor: cmd.sync_cursor, noInitialSync: cmd.no_initial_sync });
    });
  }
  if (document.readyState === "complete") { bootstrap(); }
  else { window.addEventListener("load", bootstrap, { once: true }); }
})();`, commands)

	return template.JS(script), nil
}
