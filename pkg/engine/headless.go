package engine

import (
	"math"

	"github.com/matzehuels/panelboard/pkg/diagram"
	"github.com/matzehuels/panelboard/pkg/errors"
	"github.com/matzehuels/panelboard/pkg/geom"
)

// View maps view space onto the document: the view's top-left corner
// shows document point Position, and one document unit spans Scale
// view pixels.
type View struct {
	Position geom.Point
	Scale    float64
}

// DefaultView is the identity transform.
var DefaultView = View{Scale: 1}

// RenderFunc is called once per committed outermost transaction.
type RenderFunc func(doc *diagram.Document)

// Headless is an in-memory [Engine] over a [diagram.Diagram]. It renders
// nothing; it counts renders and forwards them to an optional
// [RenderFunc]. Headless is not safe for concurrent use.
type Headless struct {
	d        *diagram.Diagram
	view     View
	subs     map[Kind][]subscription
	nextID   int
	depth    int
	before   diagram.Snapshot
	renders  int
	onRender RenderFunc
}

type subscription struct {
	id int
	h  Handler
}

var _ Engine = (*Headless)(nil)

// Open creates a headless engine. It fails with ENGINE_INIT when d is nil
// or the view transform is unusable.
func Open(d *diagram.Diagram, view View) (*Headless, error) {
	if d == nil {
		return nil, errors.New(errors.ErrCodeEngineInit, "no diagram to attach to")
	}
	if view.Scale <= 0 || math.IsNaN(view.Scale) || math.IsInf(view.Scale, 0) {
		return nil, errors.New(errors.ErrCodeEngineInit, "invalid view scale %v", view.Scale)
	}
	if math.IsNaN(view.Position.X) || math.IsNaN(view.Position.Y) {
		return nil, errors.New(errors.ErrCodeEngineInit, "invalid view position %s", view.Position)
	}
	return &Headless{d: d, view: view, subs: make(map[Kind][]subscription)}, nil
}

// OnRender installs fn as the render callback.
func (h *Headless) OnRender(fn RenderFunc) { h.onRender = fn }

// Renders returns how many renders have happened.
func (h *Headless) Renders() int { return h.renders }

// Diagram returns the attached diagram.
func (h *Headless) Diagram() *diagram.Diagram { return h.d }

// View returns the current view transform.
func (h *Headless) View() View { return h.view }

// SetView changes the view transform. Non-positive scales are ignored.
func (h *Headless) SetView(v View) {
	if v.Scale > 0 {
		h.view = v
	}
}

func (h *Headless) ViewToDoc(p geom.Point) geom.Point {
	return geom.Pt(h.view.Position.X+p.X/h.view.Scale, h.view.Position.Y+p.Y/h.view.Scale)
}

// DocToView is the inverse of ViewToDoc.
func (h *Headless) DocToView(p geom.Point) geom.Point {
	return geom.Pt((p.X-h.view.Position.X)*h.view.Scale, (p.Y-h.view.Position.Y)*h.view.Scale)
}

func (h *Headless) Nodes() []Part {
	var parts []Part
	for _, c := range h.d.Components() {
		r, ok := c.Bounds()
		parts = append(parts, Part{Key: c.Key, Group: c.Group, Bounds: r, LaidOut: ok})
	}
	return parts
}

func (h *Headless) Groups() []Part {
	var parts []Part
	for _, e := range h.d.Enclosures() {
		r, ok := e.Bounds()
		parts = append(parts, Part{Key: e.Key, IsGroup: true, Bounds: r, LaidOut: ok})
	}
	return parts
}

// InTransaction reports whether a transaction is open.
func (h *Headless) InTransaction() bool { return h.depth > 0 }

func (h *Headless) StartTransaction(string) {
	if h.depth == 0 {
		h.before = h.d.Snapshot()
	}
	h.depth++
}

func (h *Headless) CommitTransaction(string) bool {
	if h.depth == 0 {
		return false
	}
	h.depth--
	if h.depth == 0 {
		h.before = diagram.Snapshot{}
		h.render()
	}
	return true
}

func (h *Headless) RollbackTransaction(string) bool {
	if h.depth == 0 {
		return false
	}
	h.depth = 0
	h.d.Restore(h.before)
	h.before = diagram.Snapshot{}
	h.render()
	return true
}

func (h *Headless) render() {
	h.renders++
	if h.onRender != nil {
		h.onRender(h.d.Document())
	}
}

func (h *Headless) Subscribe(kind Kind, fn Handler) Unsubscribe {
	h.nextID++
	id := h.nextID
	h.subs[kind] = append(h.subs[kind], subscription{id: id, h: fn})
	return func() {
		subs := h.subs[kind]
		for i, s := range subs {
			if s.id == id {
				h.subs[kind] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Subscribers returns the number of handlers registered for kind.
func (h *Headless) Subscribers(kind Kind) int { return len(h.subs[kind]) }

// Emit dispatches ev to the handlers subscribed when Emit was called.
func (h *Headless) Emit(ev Event) {
	subs := append([]subscription(nil), h.subs[ev.Kind]...)
	for _, s := range subs {
		s.h(ev)
	}
}

// =============================================================================
// Simulated interaction
// =============================================================================

// Select emits a selection change.
func (h *Headless) Select(keys ...string) {
	h.Emit(Event{Kind: SelectionChanged, Selected: keys})
}

// Drag emits a move of key to the document position pos.
func (h *Headless) Drag(key string, pos geom.Point) {
	h.Emit(Event{Kind: PartMoved, Key: key, Pos: pos})
}

// ResizePart emits a resize of key.
func (h *Headless) ResizePart(key string, size geom.Size) {
	h.Emit(Event{Kind: PartResized, Key: key, Size: size})
}

// Drop emits an external drop at the view position p.
func (h *Headless) Drop(p geom.Point, data map[string]string) {
	h.Emit(Event{Kind: ExternalDrop, Pos: p, Data: data})
}

// Cancel emits a drag cancellation.
func (h *Headless) Cancel() {
	h.Emit(Event{Kind: DragCancelled})
}
