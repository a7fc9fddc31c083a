package diagram

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/matzehuels/panelboard/pkg/errors"
	"github.com/matzehuels/panelboard/pkg/geom"
)

// ModelClass is the model class written to and accepted from documents.
const ModelClass = "GraphLinksModel"

// Record field names of the persisted format.
const (
	fieldClass   = "class"
	fieldNodes   = "nodeDataArray"
	fieldLinks   = "linkDataArray"
	fieldKey     = "key"
	fieldIsGroup = "isGroup"
	fieldGroup   = "group"
	fieldType    = "type"
	fieldLabel   = "label"
	fieldColor   = "color"
	fieldImage   = "image"
	fieldPos     = "pos"
	fieldSize    = "size"
	fieldFrom    = "from"
	fieldTo      = "to"
	fieldText    = "text"
)

// =============================================================================
// Serialization
// =============================================================================

// Serialize encodes the document as indented JSON. Record keys are
// sorted and entity order is preserved, so serializing an unchanged
// document twice yields identical bytes. Annotations are not written.
func (d *Diagram) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SerializeDocument encodes doc the way [Diagram.Serialize] does.
func SerializeDocument(doc *Document) ([]byte, error) {
	return (&Diagram{doc: doc}).Serialize()
}

// Write encodes the document to w. See [Diagram.Serialize].
func (d *Diagram) Write(w io.Writer) error {
	model := make(map[string]any, len(d.doc.meta)+3)
	for k, v := range d.doc.meta {
		model[k] = v
	}
	model[fieldClass] = ModelClass

	nodes := make([]map[string]any, 0, d.doc.Len())
	for _, e := range d.doc.Entities() {
		nodes = append(nodes, encodeEntity(e))
	}
	links := make([]map[string]any, 0, len(d.doc.links))
	for _, l := range d.doc.links {
		links = append(links, encodeLink(l))
	}
	model[fieldNodes] = nodes
	model[fieldLinks] = links

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(model); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode document")
	}
	return nil
}

func encodeEntity(e Entity) map[string]any {
	switch e := e.(type) {
	case *Component:
		rec := withExtra(e.Extra)
		rec[fieldKey] = e.Key
		setString(rec, fieldType, e.Type)
		setString(rec, fieldLabel, e.Label)
		setString(rec, fieldColor, e.Color)
		setString(rec, fieldImage, e.Image)
		setString(rec, fieldGroup, e.Group)
		if e.Pos != nil {
			rec[fieldPos] = e.Pos.String()
		}
		rec[fieldSize] = e.Size.String()
		return rec
	case *Enclosure:
		rec := withExtra(e.Extra)
		rec[fieldKey] = e.Key
		rec[fieldIsGroup] = true
		setString(rec, fieldLabel, e.Label)
		setString(rec, fieldColor, e.Color)
		if e.Pos != nil {
			rec[fieldPos] = e.Pos.String()
		}
		rec[fieldSize] = e.Size.String()
		return rec
	}
	return nil
}

func encodeLink(l Link) map[string]any {
	rec := withExtra(l.Extra)
	setString(rec, fieldKey, l.Key)
	rec[fieldFrom] = l.From
	rec[fieldTo] = l.To
	setString(rec, fieldText, l.Text)
	return rec
}

func withExtra(extra Metadata) map[string]any {
	rec := make(map[string]any, len(extra)+8)
	for k, v := range extra {
		rec[k] = v
	}
	return rec
}

func setString(rec map[string]any, field, v string) {
	if v != "" {
		rec[field] = v
	}
}

// =============================================================================
// Deserialization
// =============================================================================

// Deserialize replaces the document with the one encoded in data.
//
// It fails with a FORMAT_ERROR when data is not a well-formed document,
// when keys are missing or duplicated, when a component references a
// group that is not a known enclosure, when an enclosure is nested, or
// when a link references an unknown entity. On failure the current
// document is left untouched. Numbers in preserved fields are kept as
// [json.Number].
func (d *Diagram) Deserialize(data []byte) error {
	doc, err := d.decode(data)
	if err != nil {
		return err
	}
	d.doc = doc
	d.touch()
	return nil
}

// Read replaces the document with the one read from r. See [Diagram.Deserialize].
func (d *Diagram) Read(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFormat, err, "read document")
	}
	return d.Deserialize(data)
}

func (d *Diagram) decode(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var model map[string]any
	if err := dec.Decode(&model); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFormat, err, "decode document")
	}
	if model == nil {
		return nil, errors.New(errors.ErrCodeFormat, "document must be a JSON object")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New(errors.ErrCodeFormat, "unexpected data after document")
	}

	doc := newDocument()
	for k, v := range model {
		switch k {
		case fieldClass:
			if s, ok := v.(string); !ok || s != ModelClass {
				return nil, errors.New(errors.ErrCodeFormat, "unsupported model class %v", v)
			}
		case fieldNodes, fieldLinks:
		default:
			doc.meta[k] = v
		}
	}

	nodes, err := recordList(model, fieldNodes)
	if err != nil {
		return nil, err
	}
	for i, rec := range nodes {
		e, err := d.decodeNode(rec)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFormat, err, "node %d", i)
		}
		if _, dup := doc.entities[e.EntityKey()]; dup {
			return nil, errors.New(errors.ErrCodeFormat, "node %d: duplicate key %q", i, e.EntityKey())
		}
		doc.insert(e)
	}
	for _, c := range doc.Components() {
		if c.Group == "" {
			continue
		}
		if _, ok := doc.Enclosure(c.Group); !ok {
			return nil, errors.New(errors.ErrCodeFormat, "node %q: group %q is not a known enclosure", c.Key, c.Group)
		}
	}

	links, err := recordList(model, fieldLinks)
	if err != nil {
		return nil, err
	}
	for i, rec := range links {
		l, err := decodeLink(rec)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFormat, err, "link %d", i)
		}
		if _, ok := doc.entities[l.From]; !ok {
			return nil, errors.New(errors.ErrCodeFormat, "link %d: unknown source %q", i, l.From)
		}
		if _, ok := doc.entities[l.To]; !ok {
			return nil, errors.New(errors.ErrCodeFormat, "link %d: unknown target %q", i, l.To)
		}
		doc.links = append(doc.links, l)
	}
	return doc, nil
}

func recordList(model map[string]any, field string) ([]map[string]any, error) {
	v, ok := model[field]
	if !ok || v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, errors.New(errors.ErrCodeFormat, "%s must be an array", field)
	}
	out := make([]map[string]any, len(list))
	for i, item := range list {
		rec, ok := item.(map[string]any)
		if !ok {
			return nil, errors.New(errors.ErrCodeFormat, "%s[%d] must be an object", field, i)
		}
		out[i] = rec
	}
	return out, nil
}

func (d *Diagram) decodeNode(rec map[string]any) (Entity, error) {
	r := reader{rec: rec}
	key := r.string(fieldKey)
	if err := errors.ValidateKey(key); err != nil && r.err == nil {
		r.err = err
	}
	isGroup := r.bool(fieldIsGroup)
	pos := r.point(fieldPos)
	size, hasSize := r.size(fieldSize)
	label := r.string(fieldLabel)
	color := r.string(fieldColor)
	group := r.string(fieldGroup)
	if r.err != nil {
		return nil, r.err
	}

	if isGroup {
		if group != "" {
			return nil, errors.New(errors.ErrCodeFormat, "enclosure %q cannot belong to group %q", key, group)
		}
		if !hasSize {
			size = d.EnclosureMinSize()
		}
		return &Enclosure{Key: key, Label: label, Color: color, Pos: pos, Size: size, Extra: r.extra()}, nil
	}

	typ := r.string(fieldType)
	image := r.string(fieldImage)
	if r.err != nil {
		return nil, r.err
	}
	if !hasSize {
		size = d.reg.Lookup(typ).Size
	}
	return &Component{
		Key:   key,
		Type:  typ,
		Label: label,
		Color: color,
		Image: image,
		Pos:   pos,
		Size:  size,
		Group: group,
		Extra: r.extra(),
	}, nil
}

func decodeLink(rec map[string]any) (Link, error) {
	r := reader{rec: rec}
	var key string
	if _, ok := rec[fieldKey].(string); ok {
		key = r.string(fieldKey)
	}
	from := r.string(fieldFrom)
	to := r.string(fieldTo)
	text := r.string(fieldText)
	if r.err != nil {
		return Link{}, r.err
	}
	if from == "" || to == "" {
		return Link{}, errors.New(errors.ErrCodeFormat, "from and to are required")
	}
	return Link{Key: key, From: from, To: to, Text: text, Extra: r.extra()}, nil
}

// reader pulls typed fields out of a record and remembers which ones it
// consumed. The first type error sticks.
type reader struct {
	rec  map[string]any
	used map[string]bool
	err  error
}

func (r *reader) take(field string) (any, bool) {
	v, ok := r.rec[field]
	if !ok || v == nil {
		return nil, false
	}
	if r.used == nil {
		r.used = make(map[string]bool)
	}
	r.used[field] = true
	return v, true
}

func (r *reader) fail(field string, want string) {
	if r.err == nil {
		r.err = errors.New(errors.ErrCodeFormat, "field %q must be %s", field, want)
	}
}

func (r *reader) string(field string) string {
	v, ok := r.take(field)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		r.fail(field, "a string")
	}
	if s == "" {
		// Empty strings are omitted on write; keep them verbatim instead.
		delete(r.used, field)
	}
	return s
}

func (r *reader) bool(field string) bool {
	v, ok := r.take(field)
	if !ok {
		return false
	}
	b, ok := v.(bool)
	if !ok {
		r.fail(field, "a boolean")
	}
	if !b {
		// An explicit false is not the default encoding; keep it verbatim.
		delete(r.used, field)
	}
	return b
}

func (r *reader) point(field string) *geom.Point {
	s := r.string(field)
	if s == "" || r.err != nil {
		return nil
	}
	p, err := geom.ParsePoint(s)
	if err != nil {
		r.err = errors.Wrap(errors.ErrCodeFormat, err, "field %q", field)
		return nil
	}
	return &p
}

func (r *reader) size(field string) (geom.Size, bool) {
	s := r.string(field)
	if s == "" || r.err != nil {
		return geom.Size{}, false
	}
	sz, err := geom.ParseSize(s)
	if err != nil {
		r.err = errors.Wrap(errors.ErrCodeFormat, err, "field %q", field)
		return geom.Size{}, false
	}
	return sz, true
}

// extra returns the fields no accessor consumed.
func (r *reader) extra() Metadata {
	var m Metadata
	for k, v := range r.rec {
		if r.used[k] {
			continue
		}
		if m == nil {
			m = Metadata{}
		}
		m[k] = v
	}
	return m
}
