package export

import (
	"context"
	"math"
	"slices"

	"github.com/matzehuels/panelboard/pkg/diagram"
	"github.com/matzehuels/panelboard/pkg/errors"
	"github.com/matzehuels/panelboard/pkg/geom"
	"github.com/matzehuels/panelboard/pkg/template"
)

// Supported formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
)

// Formats lists the supported formats.
var Formats = []string{FormatDOT, FormatSVG, FormatPNG}

// DefaultPadding is the margin around the drawing, in document units.
const DefaultPadding = 20

// Options configures an export.
type Options struct {
	Format    string
	Scale     float64            // Output pixels per document unit; 0 means 1
	Distances bool               // Draw the document's distance annotations
	Grid      bool               // Draw the snap grid (png only)
	GridSize  float64            // Grid cell; 0 means diagram.DefaultGridSize
	Padding   float64            // 0 means DefaultPadding
	Registry  *template.Registry // Outline colors; nil means template.Default()
	Refresh   bool               // Skip the cache lookup in a Runner
}

// ContentType returns the MIME type of format.
func ContentType(format string) string {
	switch format {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	default:
		return "text/vnd.graphviz"
	}
}

// ValidateFormat returns UNSUPPORTED for unknown formats.
func ValidateFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return errors.New(errors.ErrCodeUnsupported, "unsupported export format %q", format)
	}
	return nil
}

func (o Options) withDefaults() Options {
	if o.Scale <= 0 {
		o.Scale = 1
	}
	if o.GridSize <= 0 {
		o.GridSize = diagram.DefaultGridSize
	}
	if o.Padding <= 0 {
		o.Padding = DefaultPadding
	}
	if o.Registry == nil {
		o.Registry = template.Default()
	}
	return o
}

// Render exports doc in opts.Format.
func Render(ctx context.Context, doc *diagram.Document, opts Options) ([]byte, error) {
	if err := ValidateFormat(opts.Format); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	switch opts.Format {
	case FormatDOT:
		return []byte(ToDOT(doc, opts)), nil
	case FormatSVG:
		return RenderSVG(ctx, ToDOT(doc, opts))
	default:
		return RenderPNG(doc, opts)
	}
}

// =============================================================================
// Scene
// =============================================================================

// scene is the laid-out part of a document in drawing order: enclosures
// behind components. Entities without a position are left out.
type scene struct {
	enclosures []placed
	components []placed
	bounds     geom.Rect // Covers every placed entity, before padding
}

type placed struct {
	key    string
	label  string
	fill   string
	stroke string
	rect   geom.Rect
}

func newScene(doc *diagram.Document, reg *template.Registry) scene {
	var s scene
	first := true
	grow := func(r geom.Rect) {
		if first {
			s.bounds, first = r, false
			return
		}
		s.bounds = s.bounds.Union(r)
	}

	for _, e := range doc.Enclosures() {
		r, ok := e.Bounds()
		if !ok {
			continue
		}
		s.enclosures = append(s.enclosures, placed{key: e.Key, label: e.DisplayName(), fill: e.Color, stroke: enclosureStroke, rect: r})
		grow(r)
	}
	for _, c := range doc.Components() {
		r, ok := c.Bounds()
		if !ok {
			continue
		}
		tpl := reg.Lookup(c.Type)
		fill := c.Color
		if fill == "" {
			fill = tpl.Color
		}
		s.components = append(s.components, placed{key: c.Key, label: c.Label, fill: fill, stroke: tpl.Stroke, rect: r})
		grow(r)
	}
	for _, a := range doc.Annotations() {
		grow(geom.R(
			min(a.Points[0].X, a.Points[1].X), min(a.Points[0].Y, a.Points[1].Y),
			math.Abs(a.Points[1].X-a.Points[0].X), math.Abs(a.Points[1].Y-a.Points[0].Y),
		))
	}
	return s
}

// center returns the center of the entity key, if it is placed.
func (s scene) center(key string) (geom.Point, bool) {
	for _, list := range [][]placed{s.components, s.enclosures} {
		for _, p := range list {
			if p.key == key {
				return p.rect.Center(), true
			}
		}
	}
	return geom.Point{}, false
}

const (
	enclosureStroke = "#555555"
	dimensionColor  = "#6B7280"
)
