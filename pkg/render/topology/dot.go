package topology

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/cartolab/mapgrid/pkg/view"
)

// ToDOT converts a plan's wiring into Graphviz DOT. Every panel appears as
// a node even when nothing links to it; isolated panels are part of the
// picture. Cursor-sharing links are drawn as solid edges, view-only links
// as dashed ones.
func ToDOT(plan view.Plan) string {
	var buf bytes.Buffer
	buf.WriteString("digraph wiring {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for _, p := range plan.Panels {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", p.ID, nodeLabel(p))
	}

	buf.WriteString("\n")
	for _, l := range plan.Links {
		style := "dashed"
		if l.SyncCursor {
			style = "solid"
		}
		fmt.Fprintf(&buf, "  %q -> %q [style=%s];\n", l.SourceID, l.TargetID, style)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// nodeLabel prefers the panel title; unnamed panels fall back to their
// grid position so the diagram stays readable with generated ids.
func nodeLabel(p view.Panel) string {
	if p.Title != "" {
		return p.Title
	}
	return fmt.Sprintf("panel %d", p.Index)
}

// RenderSVG renders a DOT diagram to SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.SVG)
}

// RenderPNG renders a DOT diagram to PNG.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
