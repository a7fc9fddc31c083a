package diagram

import "github.com/matzehuels/panelboard/pkg/geom"

// Snapshot is a deep copy of a document's persistent state, taken before
// a drag so a cancelled drag can restore it exactly.
type Snapshot struct {
	doc *Document
}

// Snapshot captures the current entities, links and model fields.
// Annotations are transient and not captured.
func (d *Diagram) Snapshot() Snapshot {
	return Snapshot{doc: cloneDocument(d.doc)}
}

// Restore replaces the document with the snapshot and clears annotations.
// The snapshot stays valid and may be restored again.
func (d *Diagram) Restore(s Snapshot) {
	if s.doc == nil {
		return
	}
	d.doc = cloneDocument(s.doc)
	d.touch()
}

// Has reports whether the snapshot holds a document.
func (s Snapshot) Has() bool { return s.doc != nil }

func cloneDocument(src *Document) *Document {
	doc := newDocument()
	for _, e := range src.Entities() {
		doc.insert(cloneEntity(e))
	}
	for _, l := range src.links {
		l.Extra = cloneMetadata(l.Extra)
		doc.links = append(doc.links, l)
	}
	doc.meta = cloneMetadata(src.meta)
	if doc.meta == nil {
		doc.meta = Metadata{}
	}
	return doc
}

func cloneEntity(e Entity) Entity {
	switch e := e.(type) {
	case *Component:
		c := *e
		c.Pos = clonePoint(e.Pos)
		c.Extra = cloneMetadata(e.Extra)
		return &c
	case *Enclosure:
		g := *e
		g.Pos = clonePoint(e.Pos)
		g.Extra = cloneMetadata(e.Extra)
		return &g
	}
	return e
}

func clonePoint(p *geom.Point) *geom.Point {
	if p == nil {
		return nil
	}
	q := *p
	return &q
}

func cloneMetadata(m Metadata) Metadata {
	if m == nil {
		return nil
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, x := range v {
			out[k] = cloneValue(x)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, x := range v {
			out[i] = cloneValue(x)
		}
		return out
	default:
		return v
	}
}
