package diagram

import "github.com/matzehuels/panelboard/pkg/errors"

// Check verifies the document invariants and returns the first violation.
func (d *Diagram) Check() error {
	doc := d.doc
	if len(doc.order) != len(doc.entities) {
		return errors.New(errors.ErrCodeInternal, "entity order has %d keys, index has %d", len(doc.order), len(doc.entities))
	}
	for _, k := range doc.order {
		e, ok := doc.entities[k]
		if !ok {
			return errors.New(errors.ErrCodeInternal, "ordered key %q is not indexed", k)
		}
		if e.EntityKey() != k {
			return errors.New(errors.ErrCodeInternal, "entity %q indexed as %q", e.EntityKey(), k)
		}
		if k == "" {
			return errors.New(errors.ErrCodeInternal, "entity with empty key")
		}
		c, ok := e.(*Component)
		if !ok || c.Group == "" {
			continue
		}
		if _, ok := doc.Enclosure(c.Group); !ok {
			return errors.New(errors.ErrCodeInternal, "component %q references missing enclosure %q", c.Key, c.Group)
		}
	}
	for i, l := range doc.links {
		if _, ok := doc.entities[l.From]; !ok {
			return errors.New(errors.ErrCodeInternal, "link %d references missing source %q", i, l.From)
		}
		if _, ok := doc.entities[l.To]; !ok {
			return errors.New(errors.ErrCodeInternal, "link %d references missing target %q", i, l.To)
		}
	}
	return nil
}

// Equal reports whether two documents hold the same entities, links and
// model fields in the same order. Annotations are ignored.
func Equal(a, b *Document) bool {
	ab, err := SerializeDocument(a)
	if err != nil {
		return false
	}
	bb, err := SerializeDocument(b)
	if err != nil {
		return false
	}
	return string(ab) == string(bb)
}
