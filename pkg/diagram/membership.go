package diagram

import "github.com/matzehuels/panelboard/pkg/geom"

// CanAdmit reports whether dragged may become a member of group.
// Enclosures never nest, so an enclosure is never admitted.
func CanAdmit(group *Enclosure, dragged Entity) bool {
	if group == nil || dragged == nil {
		return false
	}
	_, isEnclosure := dragged.(*Enclosure)
	return !isEnclosure
}

// ContainerFor returns the enclosure that fully contains r, ignoring the
// entity named exclude. When several qualify the smallest by area wins,
// ties going to the earliest in document order. Returns nil when none does.
func (d *Diagram) ContainerFor(r geom.Rect, exclude string) *Enclosure {
	var best *Enclosure
	var bestArea float64
	for _, e := range d.doc.Enclosures() {
		if e.Key == exclude {
			continue
		}
		b, ok := e.Bounds()
		if !ok || !b.Contains(r) {
			continue
		}
		if best == nil || b.Area() < bestArea {
			best, bestArea = e, b.Area()
		}
	}
	return best
}

// PlacementFor reports which enclosure a new component occupying r would
// join and whether the placement is allowed under the current top-level
// setting.
func (d *Diagram) PlacementFor(r geom.Rect) (group string, ok bool) {
	if enc := d.ContainerFor(r, ""); enc != nil {
		return enc.Key, true
	}
	return "", d.opts.AllowTopLevel
}
