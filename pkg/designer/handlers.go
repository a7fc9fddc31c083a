package designer

import (
	"github.com/matzehuels/panelboard/pkg/diagram"
	"github.com/matzehuels/panelboard/pkg/engine"
	"github.com/matzehuels/panelboard/pkg/geom"
	"github.com/matzehuels/panelboard/pkg/observability"
)

func (ds *Designer) onSelection(ev engine.Event) {
	ds.selected = append([]string(nil), ev.Selected...)
	if len(ev.Selected) > 0 {
		if ds.dragging {
			return
		}
		ds.dragging = true
		ds.before = ds.d.Snapshot()
		if ds.showDistances {
			ds.transact("begin drag", func() { ds.annotate() })
		}
		return
	}
	ds.dragging = false
	ds.before = diagram.Snapshot{}
	ds.transact("end drag", func() { ds.d.ClearAnnotations() })
}

func (ds *Designer) onMoved(ev engine.Event) {
	ds.Move(ev.Key, ev.Pos)
}

func (ds *Designer) onResized(ev engine.Event) {
	ds.Resize(ev.Key, ev.Size)
}

func (ds *Designer) onDrop(ev engine.Event) {
	data, ok := ev.Data[DragMIME]
	if !ok {
		return
	}
	p, err := DecodePayload(data)
	if err != nil {
		ds.logger.Warn("ignoring drop", "err", err)
		return
	}
	ds.Drop(ev.Pos, p)
}

func (ds *Designer) onCancel(engine.Event) {
	if !ds.dragging || !ds.before.Has() {
		return
	}
	snap := ds.before
	ds.transact("cancel drag", func() { ds.d.Restore(snap) })
	ds.logger.Debug("drag cancelled", "restored", ds.d.Document().Len())
	// The session stays open until the selection clears; a second
	// cancel restores the same snapshot.
}

// Drop places a component from a palette payload dropped at the view
// point viewPt. The drop is rejected without changes when the component
// would be outside every enclosure and top-level placement is disallowed.
func (ds *Designer) Drop(viewPt geom.Point, p Payload) diagram.Placement {
	docPt := geom.Snap(ds.eng.ViewToDoc(viewPt), ds.d.Options().GridSize)
	tpl := ds.d.Registry().Lookup(p.Type)
	size := tpl.Size
	if s := p.size(); s != nil {
		size = s.Max(tpl.MinSize)
	}

	group, ok := ds.d.PlacementFor(geom.RectAt(docPt, size))
	if !ok {
		observability.Designer().OnPlacement(ds.ctx, "drop", false)
		ds.logger.Debug("drop rejected", "type", p.Type, "pos", docPt)
		return diagram.Placement{Reason: diagram.ReasonOutsideEnclosure, Pos: docPt, Size: size}
	}

	var key string
	ds.transact("drop", func() {
		key = ds.d.AddComponentSpec(diagram.ComponentSpec{
			Type:  p.Type,
			Label: p.Data.Label,
			Color: p.Data.Color,
			Pos:   docPt,
			Size:  &size,
		})
		if ds.dragging && ds.showDistances {
			ds.annotate()
		}
	})
	observability.Designer().OnPlacement(ds.ctx, "drop", true)
	ds.logger.Debug("component dropped", "key", key, "group", group)
	return diagram.Placement{Key: key, Group: group, Accepted: true, Pos: docPt, Size: size}
}
