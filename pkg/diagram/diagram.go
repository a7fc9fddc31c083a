package diagram

import (
	"math"
	"strconv"

	"github.com/google/uuid"

	"github.com/matzehuels/panelboard/pkg/errors"
	"github.com/matzehuels/panelboard/pkg/geom"
	"github.com/matzehuels/panelboard/pkg/template"
)

// DefaultGridSize is the grid cell size of a new diagram.
const DefaultGridSize = 10

// DefaultEnclosureLabel names enclosures added without a label.
const DefaultEnclosureLabel = "Enclosure"

// Rejection reasons reported in [Placement.Reason].
const (
	ReasonOutsideEnclosure = "outside every enclosure and top-level placement is disallowed"
	ReasonMemberOutside    = "enclosure would no longer contain its members"
)

// Options configures a [Diagram].
type Options struct {
	// AllowTopLevel permits components outside every enclosure.
	AllowTopLevel bool
	// GridSize is the snap cell size. Zero disables snapping.
	GridSize float64
	// KeyFunc generates unique keys from a prefix. Defaults to prefix-uuid.
	KeyFunc func(prefix string) string
}

// DefaultOptions returns the options of a new editor session: top-level
// placement disallowed and a 10 unit grid.
func DefaultOptions() Options {
	return Options{GridSize: DefaultGridSize}
}

// Placement reports the outcome of a move or resize.
type Placement struct {
	Key      string
	Group    string // Enclosure the entity belongs to afterwards
	Accepted bool
	Reason   string // Set when rejected
	Pos      geom.Point
	Size     geom.Size
}

// ComponentSpec describes a component to add. Zero fields take the
// template defaults.
type ComponentSpec struct {
	Type  string
	Label string
	Color string
	Image string
	Pos   geom.Point
	Size  *geom.Size
}

// Diagram is the state container. It owns one [Document] and guarantees
// that every mutation keeps the document invariants.
type Diagram struct {
	doc      *Document
	opts     Options
	reg      *template.Registry
	revision uint64
}

// New creates an empty diagram. A nil registry uses [template.Default].
func New(opts Options, reg *template.Registry) *Diagram {
	if reg == nil {
		reg = template.Default()
	}
	if opts.KeyFunc == nil {
		opts.KeyFunc = uuidKey
	}
	return &Diagram{doc: newDocument(), opts: opts, reg: reg}
}

func uuidKey(prefix string) string { return prefix + "-" + uuid.NewString() }

// Document returns the current document.
func (d *Diagram) Document() *Document { return d.doc }

// Registry returns the template registry.
func (d *Diagram) Registry() *template.Registry { return d.reg }

// Options returns the active options.
func (d *Diagram) Options() Options { return d.opts }

// AllowTopLevel reports whether components may sit outside enclosures.
func (d *Diagram) AllowTopLevel() bool { return d.opts.AllowTopLevel }

// SetAllowTopLevel toggles top-level placement. Existing top-level
// components are left where they are.
func (d *Diagram) SetAllowTopLevel(allow bool) { d.opts.AllowTopLevel = allow }

// Revision increases on every mutation.
func (d *Diagram) Revision() uint64 { return d.revision }

// Entity returns the entity with the given key.
func (d *Diagram) Entity(key string) (Entity, bool) { return d.doc.Entity(key) }

// Components returns all components in document order.
func (d *Diagram) Components() []*Component { return d.doc.Components() }

// Enclosures returns all enclosures in document order.
func (d *Diagram) Enclosures() []*Enclosure { return d.doc.Enclosures() }

// Members returns the components of an enclosure.
func (d *Diagram) Members(enclosureKey string) []*Component { return d.doc.Members(enclosureKey) }

// Links returns the persisted links.
func (d *Diagram) Links() []Link { return d.doc.Links() }

// Annotations returns the current distance annotations.
func (d *Diagram) Annotations() []Annotation { return d.doc.Annotations() }

func (d *Diagram) touch() { d.revision++ }

func (d *Diagram) cell() float64 {
	if d.opts.GridSize > 0 {
		return d.opts.GridSize
	}
	return DefaultGridSize
}

// EnclosureMinSize is the smallest enclosure: two grid cells on each axis.
func (d *Diagram) EnclosureMinSize() geom.Size {
	return geom.Sz(2*d.cell(), 2*d.cell())
}

func (d *Diagram) minSize(e Entity) geom.Size {
	switch e := e.(type) {
	case *Component:
		return d.reg.Lookup(e.Type).MinSize
	default:
		return d.EnclosureMinSize()
	}
}

// =============================================================================
// Additions
// =============================================================================

// AddComponent places a new component of the given type and returns its
// key. A nil size or empty label takes the template default. The
// component joins the enclosure that fully contains it. Adding never
// fails; hosts that enforce top-level rules check [Diagram.ContainerFor]
// before calling.
func (d *Diagram) AddComponent(typ string, pos geom.Point, size *geom.Size, label string) string {
	return d.AddComponentSpec(ComponentSpec{Type: typ, Pos: pos, Size: size, Label: label})
}

// AddComponentSpec is AddComponent with color and image overrides.
func (d *Diagram) AddComponentSpec(spec ComponentSpec) string {
	typ := spec.Type
	if typ == "" {
		typ = template.GenericType
	}
	tpl := d.reg.Lookup(typ)

	c := &Component{
		Key:   d.uniqueKey(d.opts.KeyFunc(typ)),
		Type:  typ,
		Label: spec.Label,
		Color: spec.Color,
		Image: spec.Image,
		Size:  tpl.Size,
	}
	if c.Label == "" {
		c.Label = tpl.DefaultLabel()
	}
	if c.Color == "" {
		c.Color = tpl.Color
	}
	if c.Image == "" {
		c.Image = tpl.Image
	}
	if spec.Size != nil {
		c.Size = spec.Size.Max(tpl.MinSize)
	}
	pos := d.snap(spec.Pos)
	c.Pos = &pos

	if enc := d.ContainerFor(geom.RectAt(pos, c.Size), c.Key); enc != nil && CanAdmit(enc, c) {
		c.Group = enc.Key
	}
	d.doc.insert(c)
	d.touch()
	return c.Key
}

// AddEnclosure adds an enclosure and returns its key: the label when no
// entity uses it yet, otherwise the label with a unique suffix. The size
// is clamped to [Diagram.EnclosureMinSize].
func (d *Diagram) AddEnclosure(label string, pos geom.Point, size geom.Size) string {
	if label == "" {
		label = DefaultEnclosureLabel
	}
	key := label
	if _, taken := d.doc.entities[key]; taken {
		key = d.uniqueKey(d.opts.KeyFunc(label))
	}
	p := d.snap(pos)
	e := &Enclosure{
		Key:  key,
		Pos:  &p,
		Size: size.Max(d.EnclosureMinSize()),
	}
	if key != label {
		e.Label = label
	}
	d.doc.insert(e)
	d.touch()
	return key
}

// AddLink connects two existing entities and returns the link key.
func (d *Diagram) AddLink(from, to, text string) (string, error) {
	if _, ok := d.doc.entities[from]; !ok {
		return "", errors.New(errors.ErrCodeNotFound, "link source %q not found", from)
	}
	if _, ok := d.doc.entities[to]; !ok {
		return "", errors.New(errors.ErrCodeNotFound, "link target %q not found", to)
	}
	key := d.opts.KeyFunc("link")
	d.doc.links = append(d.doc.links, Link{Key: key, From: from, To: to, Text: text})
	d.touch()
	return key, nil
}

// uniqueKey guards against a KeyFunc that repeats itself.
func (d *Diagram) uniqueKey(key string) string {
	base := key
	for i := 2; ; i++ {
		if _, taken := d.doc.entities[key]; !taken {
			return key
		}
		key = base + "-" + strconv.Itoa(i)
	}
}

// =============================================================================
// Mutations
// =============================================================================

// Move sets the position of an entity, snapped to the grid.
//
// Moving an enclosure translates its members by the same delta. Moving a
// component re-resolves its enclosure; when none contains it and
// top-level placement is disallowed the move is rejected and nothing
// changes.
func (d *Diagram) Move(key string, pos geom.Point) (Placement, error) {
	e, ok := d.doc.entities[key]
	if !ok {
		return Placement{}, errors.New(errors.ErrCodeNotFound, "entity %q not found", key)
	}
	if !finite(pos.X) || !finite(pos.Y) {
		return Placement{}, errors.New(errors.ErrCodeInvalidInput, "position %s is not finite", pos)
	}
	p := d.snap(pos)

	switch e := e.(type) {
	case *Enclosure:
		var dx, dy float64
		if e.Pos != nil {
			dx, dy = p.Sub(*e.Pos)
		}
		e.Pos = &p
		for _, m := range d.doc.Members(e.Key) {
			if m.Pos != nil {
				moved := m.Pos.Add(dx, dy)
				m.Pos = &moved
			}
		}
		d.touch()
		return accepted(e.Key, "", p, e.Size), nil

	case *Component:
		group, ok := d.resolveGroup(e, geom.RectAt(p, e.Size))
		if !ok {
			return d.rejected(e, ReasonOutsideEnclosure), nil
		}
		e.Pos = &p
		e.Group = group
		d.touch()
		return accepted(e.Key, group, p, e.Size), nil
	}
	return Placement{}, errors.New(errors.ErrCodeInternal, "entity %q has unknown kind", key)
}

// Resize sets the size of an entity, clamped to its minimum and snapped
// to the grid.
//
// A component re-resolves its enclosure like [Diagram.Move]. An
// enclosure resize is rejected when a member would stick out.
func (d *Diagram) Resize(key string, size geom.Size) (Placement, error) {
	e, ok := d.doc.entities[key]
	if !ok {
		return Placement{}, errors.New(errors.ErrCodeNotFound, "entity %q not found", key)
	}
	if !finite(size.Width) || !finite(size.Height) || size.Width < 0 || size.Height < 0 {
		return Placement{}, errors.New(errors.ErrCodeInvalidInput, "size %s is invalid", size)
	}
	s := size
	if d.opts.GridSize > 0 {
		s = geom.SnapSize(s, d.opts.GridSize)
	}
	s = s.Max(d.minSize(e))

	switch e := e.(type) {
	case *Enclosure:
		if e.Pos != nil {
			r := geom.RectAt(*e.Pos, s)
			for _, m := range d.doc.Members(e.Key) {
				if b, ok := m.Bounds(); ok && !r.Contains(b) {
					return Placement{Key: e.Key, Reason: ReasonMemberOutside, Pos: *e.Pos, Size: e.Size}, nil
				}
			}
		}
		e.Size = s
		d.touch()
		return accepted(e.Key, "", position(e.Pos), s), nil

	case *Component:
		if e.Pos == nil {
			e.Size = s
			d.touch()
			return accepted(e.Key, e.Group, geom.Point{}, s), nil
		}
		group, ok := d.resolveGroup(e, geom.RectAt(*e.Pos, s))
		if !ok {
			return d.rejected(e, ReasonOutsideEnclosure), nil
		}
		e.Size = s
		e.Group = group
		d.touch()
		return accepted(e.Key, group, *e.Pos, s), nil
	}
	return Placement{}, errors.New(errors.ErrCodeInternal, "entity %q has unknown kind", key)
}

// Remove deletes an entity. Members of a removed enclosure become
// top-level; links and annotations touching the entity are dropped.
func (d *Diagram) Remove(key string) error {
	e, ok := d.doc.entities[key]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "entity %q not found", key)
	}
	if _, isEnclosure := e.(*Enclosure); isEnclosure {
		for _, m := range d.doc.Members(key) {
			m.Group = ""
		}
	}
	d.doc.delete(key)

	links := d.doc.links[:0]
	for _, l := range d.doc.links {
		if l.From != key && l.To != key {
			links = append(links, l)
		}
	}
	d.doc.links = links

	anns := d.doc.annotations[:0]
	for _, a := range d.doc.annotations {
		if a.From != key && a.To != key {
			anns = append(anns, a)
		}
	}
	d.doc.annotations = anns
	d.touch()
	return nil
}

// SetAnnotations replaces every annotation with anns.
func (d *Diagram) SetAnnotations(anns []Annotation) {
	d.doc.annotations = append([]Annotation(nil), anns...)
	d.touch()
}

// ClearAnnotations removes every annotation and reports how many there were.
func (d *Diagram) ClearAnnotations() int {
	n := len(d.doc.annotations)
	if n > 0 {
		d.doc.annotations = nil
		d.touch()
	}
	return n
}

// resolveGroup finds the enclosure for a component occupying r. The
// second result is false when the placement must be rejected.
func (d *Diagram) resolveGroup(c *Component, r geom.Rect) (string, bool) {
	if enc := d.ContainerFor(r, c.Key); enc != nil && CanAdmit(enc, c) {
		return enc.Key, true
	}
	if d.opts.AllowTopLevel {
		return "", true
	}
	return c.Group, false
}

func (d *Diagram) rejected(c *Component, reason string) Placement {
	return Placement{Key: c.Key, Group: c.Group, Reason: reason, Pos: position(c.Pos), Size: c.Size}
}

func accepted(key, group string, p geom.Point, s geom.Size) Placement {
	return Placement{Key: key, Group: group, Accepted: true, Pos: p, Size: s}
}

func (d *Diagram) snap(p geom.Point) geom.Point { return geom.Snap(p, d.opts.GridSize) }

func position(p *geom.Point) geom.Point {
	if p == nil {
		return geom.Point{}
	}
	return *p
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
