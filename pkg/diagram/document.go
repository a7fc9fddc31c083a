package diagram

// Document is the root aggregate: ordered entities, links and transient
// annotations.
//
// Entities returned by Document accessors are live; callers must not
// modify them and should go through [Diagram] instead.
type Document struct {
	order       []string
	entities    map[string]Entity
	links       []Link
	annotations []Annotation
	meta        Metadata
}

func newDocument() *Document {
	return &Document{entities: make(map[string]Entity), meta: Metadata{}}
}

// Len returns the number of entities.
func (doc *Document) Len() int { return len(doc.order) }

// Entity returns the entity with the given key.
func (doc *Document) Entity(key string) (Entity, bool) {
	e, ok := doc.entities[key]
	return e, ok
}

// Component returns the component with the given key.
func (doc *Document) Component(key string) (*Component, bool) {
	c, ok := doc.entities[key].(*Component)
	return c, ok
}

// Enclosure returns the enclosure with the given key.
func (doc *Document) Enclosure(key string) (*Enclosure, bool) {
	e, ok := doc.entities[key].(*Enclosure)
	return e, ok
}

// Entities returns all entities in document order.
func (doc *Document) Entities() []Entity {
	out := make([]Entity, 0, len(doc.order))
	for _, k := range doc.order {
		out = append(out, doc.entities[k])
	}
	return out
}

// Components returns all components in document order.
func (doc *Document) Components() []*Component {
	var out []*Component
	for _, k := range doc.order {
		if c, ok := doc.entities[k].(*Component); ok {
			out = append(out, c)
		}
	}
	return out
}

// Enclosures returns all enclosures in document order.
func (doc *Document) Enclosures() []*Enclosure {
	var out []*Enclosure
	for _, k := range doc.order {
		if e, ok := doc.entities[k].(*Enclosure); ok {
			out = append(out, e)
		}
	}
	return out
}

// Members returns the components whose Group is enclosureKey, in document order.
func (doc *Document) Members(enclosureKey string) []*Component {
	var out []*Component
	for _, c := range doc.Components() {
		if c.Group == enclosureKey {
			out = append(out, c)
		}
	}
	return out
}

// Links returns the persisted links.
func (doc *Document) Links() []Link { return doc.links }

// Annotations returns the current distance annotations.
func (doc *Document) Annotations() []Annotation { return doc.annotations }

// Meta returns model-level fields preserved from the loaded document.
func (doc *Document) Meta() Metadata { return doc.meta }

func (doc *Document) insert(e Entity) {
	k := e.EntityKey()
	doc.order = append(doc.order, k)
	doc.entities[k] = e
}

func (doc *Document) delete(key string) {
	delete(doc.entities, key)
	for i, k := range doc.order {
		if k == key {
			doc.order = append(doc.order[:i], doc.order[i+1:]...)
			return
		}
	}
}
