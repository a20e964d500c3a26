package panel

import (
	"fmt"
	"html/template"

	"github.com/google/uuid"
)

// =============================================================================
// Widget Contract
// =============================================================================

// Widget is anything that can be placed in a grid panel.
//
// The normalizer only touches identity: it never inspects or mutates widget
// content. ID returns "" when no identifier has been assigned yet; SetID is
// called at most once per normalization.
type Widget interface {
	ID() string
	SetID(id string)
}

// Fragment is the renderable content of one mounted panel.
//
// Body is the markup placed inside the panel container. Init is a script
// executed after the container is in the document; it must create the live
// map instance and attach it to the container element so the bootstrap
// registry can find it. Assets are external stylesheets and scripts the
// composed page must include once, regardless of how many panels need them.
type Fragment struct {
	Body   template.HTML
	Init   template.JS
	Assets []Asset
}

// Asset is an external resource required by a widget's fragment.
type Asset struct {
	Kind string // "css" or "js"
	URL  string
}

// Asset kinds.
const (
	AssetCSS = "css"
	AssetJS  = "js"
)

// Renderer is implemented by widgets that can produce their mount fragment.
// Fragment is called after normalization, so the widget's ID is final.
type Renderer interface {
	Widget
	Fragment() (Fragment, error)
}

// Titled is optionally implemented by widgets that carry a display title.
// Titles only label panels in composed views and diagrams; addressing always
// goes through ids and indices.
type Titled interface {
	PanelTitle() string
}

// Adapter converts an alternate input form into a Widget.
// It reports ok=false when the value is not convertible; the normalizer
// then rejects the input. Passing a nil Adapter disables conversion.
type Adapter func(v any) (w Widget, ok bool)

// =============================================================================
// Panel
// =============================================================================

// Panel is one widget bound to its position and identifier in a view.
type Panel struct {
	// Index is the 0-based position in input order. Sync groups address
	// panels by this index.
	Index int

	// ID is the unique identifier, also used as the container DOM id and
	// the bootstrap registry key.
	ID string

	// Widget is the renderable content. Owned by the caller.
	Widget Widget
}

// IDs returns the panel identifiers in index order.
func IDs(panels []Panel) []string {
	ids := make([]string, len(panels))
	for i, p := range panels {
		ids[i] = p.ID
	}
	return ids
}

// =============================================================================
// Normalization
// =============================================================================

// Normalize flattens inputs into an ordered panel set and ensures every
// widget has a unique identifier.
//
// Each input may be a Widget, a []Widget, or a []any whose elements are
// themselves acceptable inputs; slices are flattened so that variadic and
// list-call styles behave identically. Values of any other type are passed
// to adapt; inputs that remain unconvertible are a configuration error.
//
// Widgets without an identifier are assigned one (unique within this call).
// Caller-supplied identifiers are kept verbatim, but a duplicate across the
// panel set is rejected.
//
// Empty input is valid and yields an empty panel set.
func Normalize(inputs []any, adapt Adapter) ([]Panel, error) {
	widgets, err := flatten(inputs, adapt)
	if err != nil {
		return nil, err
	}

	panels := make([]Panel, len(widgets))
	seen := make(map[string]int, len(widgets))
	for i, w := range widgets {
		id := w.ID()
		if id == "" {
			id = newID()
			w.SetID(id)
		}
		if prev, dup := seen[id]; dup {
			return nil, fmt.Errorf("duplicate panel id %q (panels %d and %d)", id, prev, i)
		}
		seen[id] = i
		panels[i] = Panel{Index: i, ID: id, Widget: w}
	}
	return panels, nil
}

// flatten expands slice inputs and adapts alternate forms, preserving order.
func flatten(inputs []any, adapt Adapter) ([]Widget, error) {
	var widgets []Widget
	for i, in := range inputs {
		switch v := in.(type) {
		case nil:
			return nil, fmt.Errorf("input %d: nil is not a widget", i)
		case Widget:
			widgets = append(widgets, v)
		case []Widget:
			widgets = append(widgets, v...)
		case []any:
			nested, err := flatten(v, adapt)
			if err != nil {
				return nil, fmt.Errorf("input %d: %w", i, err)
			}
			widgets = append(widgets, nested...)
		default:
			if adapt != nil {
				if w, ok := adapt(in); ok {
					widgets = append(widgets, w)
					continue
				}
			}
			return nil, fmt.Errorf("input %d: %T is not a map widget", i, in)
		}
	}
	return widgets, nil
}

// newID generates a panel identifier unique within the process.
// The "map-" prefix keeps ids valid as DOM element ids.
func newID() string {
	return "map-" + uuid.NewString()
}
