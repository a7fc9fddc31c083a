package dimension

import (
	"math"
	"strconv"

	"github.com/matzehuels/panelboard/pkg/diagram"
	"github.com/matzehuels/panelboard/pkg/geom"
)

// Defaults for [Options].
const (
	DefaultProximity      = 100
	DefaultGroupProximity = 150
	DefaultMinEdgeGap     = 1
	DefaultScale          = 1
	DefaultUnit           = "px"
)

// Options tunes an [Annotator].
type Options struct {
	Proximity      float64 // Center alignment threshold between components
	GroupProximity float64 // Center alignment threshold between enclosures
	MinEdgeGap     float64 // Smallest component-to-enclosure gap worth showing
	Scale          float64 // Unit conversion applied to every value
	Unit           string  // Suffix of the display text
	Enclosures     bool    // Also measure between enclosures
}

// DefaultOptions returns the editor's standard tuning.
func DefaultOptions() Options {
	return Options{
		Proximity:      DefaultProximity,
		GroupProximity: DefaultGroupProximity,
		MinEdgeGap:     DefaultMinEdgeGap,
		Scale:          DefaultScale,
		Unit:           DefaultUnit,
		Enclosures:     true,
	}
}

// Annotator computes distance annotations. The zero value is not usable;
// use [New].
type Annotator struct {
	opts Options
}

// New returns an annotator. A zero Scale is treated as 1.
func New(opts Options) *Annotator {
	if opts.Scale == 0 {
		opts.Scale = DefaultScale
	}
	return &Annotator{opts: opts}
}

// Options returns the annotator's tuning.
func (a *Annotator) Options() Options { return a.opts }

// Apply replaces every annotation of d with a fresh computation and
// returns the number of annotations added.
func (a *Annotator) Apply(d *diagram.Diagram) int {
	anns := a.Compute(d.Document())
	d.SetAnnotations(anns)
	return len(anns)
}

type box struct {
	key   string
	group string
	rect  geom.Rect
}

// Compute returns the annotations for doc without modifying it. The result
// is deterministic: pairs follow document order.
func (a *Annotator) Compute(doc *diagram.Document) []diagram.Annotation {
	var comps, encs []box
	for _, e := range doc.Entities() {
		r, ok := e.Bounds()
		if !ok || r.IsDegenerate() {
			continue
		}
		switch e := e.(type) {
		case *diagram.Component:
			comps = append(comps, box{key: e.Key, group: e.Group, rect: r})
		case *diagram.Enclosure:
			encs = append(encs, box{key: e.Key, rect: r})
		}
	}

	var out []diagram.Annotation
	out = a.pairwise(out, comps, a.opts.Proximity)

	byKey := make(map[string]geom.Rect, len(encs))
	for _, g := range encs {
		byKey[g.key] = g.rect
	}
	for _, c := range comps {
		if g, ok := byKey[c.group]; ok {
			out = a.edges(out, c, c.group, g)
		}
	}

	if a.opts.Enclosures {
		out = a.pairwise(out, encs, a.opts.GroupProximity)
	}
	return out
}

func (a *Annotator) pairwise(out []diagram.Annotation, boxes []box, proximity float64) []diagram.Annotation {
	for i := 0; i < len(boxes); i++ {
		for j := i + 1; j < len(boxes); j++ {
			p, q := boxes[i], boxes[j]
			pc, qc := p.rect.Center(), q.rect.Center()
			if math.Abs(pc.Y-qc.Y) < proximity {
				if ann, ok := a.horizontal(p, q); ok {
					out = append(out, ann)
				}
			}
			if math.Abs(pc.X-qc.X) < proximity {
				if ann, ok := a.vertical(p, q); ok {
					out = append(out, ann)
				}
			}
		}
	}
	return out
}

// horizontal measures between the facing vertical edges of p and q.
func (a *Annotator) horizontal(p, q box) (diagram.Annotation, bool) {
	if p.rect.OverlapsX(q.rect) {
		return diagram.Annotation{}, false
	}
	left, right := p, q
	if q.rect.Right() <= p.rect.Left() {
		left, right = q, p
	}
	gap := right.rect.Left() - left.rect.Right()
	if gap <= 0 {
		return diagram.Annotation{}, false
	}
	return a.annotation(left.key, right.key, diagram.Horizontal,
		geom.Pt(left.rect.Right(), left.rect.Center().Y),
		geom.Pt(right.rect.Left(), right.rect.Center().Y),
		gap), true
}

// vertical measures between the facing horizontal edges of p and q.
func (a *Annotator) vertical(p, q box) (diagram.Annotation, bool) {
	if p.rect.OverlapsY(q.rect) {
		return diagram.Annotation{}, false
	}
	top, bottom := p, q
	if q.rect.Bottom() <= p.rect.Top() {
		top, bottom = q, p
	}
	gap := bottom.rect.Top() - top.rect.Bottom()
	if gap <= 0 {
		return diagram.Annotation{}, false
	}
	return a.annotation(top.key, bottom.key, diagram.Vertical,
		geom.Pt(top.rect.Center().X, top.rect.Bottom()),
		geom.Pt(bottom.rect.Center().X, bottom.rect.Top()),
		gap), true
}

// edges measures from each side of a member to the same side of its
// enclosure.
func (a *Annotator) edges(out []diagram.Annotation, c box, group string, g geom.Rect) []diagram.Annotation {
	r := c.rect
	mid := r.Center()
	sides := []struct {
		orient   diagram.Orientation
		from, to geom.Point
		gap      float64
	}{
		{diagram.Horizontal, geom.Pt(g.Left(), mid.Y), geom.Pt(r.Left(), mid.Y), r.Left() - g.Left()},
		{diagram.Horizontal, geom.Pt(r.Right(), mid.Y), geom.Pt(g.Right(), mid.Y), g.Right() - r.Right()},
		{diagram.Vertical, geom.Pt(mid.X, g.Top()), geom.Pt(mid.X, r.Top()), r.Top() - g.Top()},
		{diagram.Vertical, geom.Pt(mid.X, r.Bottom()), geom.Pt(mid.X, g.Bottom()), g.Bottom() - r.Bottom()},
	}
	for _, s := range sides {
		if s.gap > a.opts.MinEdgeGap {
			out = append(out, a.annotation(c.key, group, s.orient, s.from, s.to, s.gap))
		}
	}
	return out
}

func (a *Annotator) annotation(from, to string, o diagram.Orientation, p1, p2 geom.Point, gap float64) diagram.Annotation {
	v := gap * a.opts.Scale
	return diagram.Annotation{
		From:        from,
		To:          to,
		Orientation: o,
		Points:      [2]geom.Point{p1, p2},
		Value:       v,
		Text:        Format(v, a.opts.Unit),
	}
}

// Format renders a measured value rounded to the nearest integer with its
// unit, e.g. "12px".
func Format(v float64, unit string) string {
	return strconv.FormatFloat(math.Round(v), 'f', 0, 64) + unit
}
