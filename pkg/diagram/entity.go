package diagram

import "github.com/matzehuels/panelboard/pkg/geom"

// Metadata stores record fields the editor does not interpret. They are
// preserved verbatim across a load/save round trip.
type Metadata map[string]any

// Entity is either a [*Component] or an [*Enclosure].
type Entity interface {
	// EntityKey returns the unique key.
	EntityKey() string
	// Bounds returns the bounding box, or false when the entity has not
	// been laid out yet.
	Bounds() (geom.Rect, bool)

	entity()
}

// Component is one electrical part placed on the canvas.
type Component struct {
	Key   string
	Type  string
	Label string
	Color string
	Image string
	Pos   *geom.Point // nil until laid out
	Size  geom.Size
	Group string // Enclosure key; empty means top-level
	Extra Metadata
}

func (c *Component) EntityKey() string { return c.Key }

func (c *Component) Bounds() (geom.Rect, bool) {
	if c.Pos == nil {
		return geom.Rect{}, false
	}
	return geom.RectAt(*c.Pos, c.Size), true
}

func (*Component) entity() {}

// TopLevel reports whether the component belongs to no enclosure.
func (c *Component) TopLevel() bool { return c.Group == "" }

// Enclosure is a rectangular panel boundary owning components by reference.
type Enclosure struct {
	Key   string
	Label string
	Color string
	Pos   *geom.Point
	Size  geom.Size
	Extra Metadata
}

func (e *Enclosure) EntityKey() string { return e.Key }

func (e *Enclosure) Bounds() (geom.Rect, bool) {
	if e.Pos == nil {
		return geom.Rect{}, false
	}
	return geom.RectAt(*e.Pos, e.Size), true
}

func (*Enclosure) entity() {}

// DisplayName returns the label, or the key when no label is set.
func (e *Enclosure) DisplayName() string {
	if e.Label != "" {
		return e.Label
	}
	return e.Key
}

// Link is a persisted connection between two entities. Rare in panel
// layouts but part of the document format.
type Link struct {
	Key   string // optional
	From  string
	To    string
	Text  string
	Extra Metadata
}

// Orientation is the axis a distance annotation measures along.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Annotation is a transient distance measurement between two entities.
// From is the left (horizontal) or upper (vertical) entity. Edge
// measurements between a component and its enclosure have From set to
// the component and To set to the enclosure.
type Annotation struct {
	From        string
	To          string
	Orientation Orientation
	Points      [2]geom.Point
	Value       float64 // scaled gap, unrounded
	Text        string  // rounded value plus unit, e.g. "12px"
}
