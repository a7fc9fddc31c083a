package template

import (
	"sort"

	"github.com/matzehuels/panelboard/pkg/errors"
	"github.com/matzehuels/panelboard/pkg/geom"
)

// Category is the closed set of component kinds.
type Category string

const (
	CategoryBreaker     Category = "breaker"
	CategoryTransformer Category = "transformer"
	CategoryBusbar      Category = "busbar"
	CategorySwitch      Category = "switch"
	CategoryGeneric     Category = "generic"
)

// Categories lists every category in palette order.
var Categories = []Category{
	CategoryBreaker,
	CategoryTransformer,
	CategoryBusbar,
	CategorySwitch,
	CategoryGeneric,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, k := range Categories {
		if k == c {
			return true
		}
	}
	return false
}

// GenericType is the type name of the fallback template.
const GenericType = "Generic"

// Template describes the defaults for one component type.
type Template struct {
	Type     string    // Type name as persisted in documents
	Category Category  // Component kind
	Label    string    // Default display label (the type name when empty)
	Color    string    // Default fill color of new components
	Stroke   string    // Outline color used by exporters
	Image    string    // Optional image path, relative
	Size     geom.Size // Default size of a dropped component
	MinSize  geom.Size // Lower bound enforced on resize
}

// DefaultLabel returns the label a new component of this type starts with.
func (t Template) DefaultLabel() string {
	if t.Label != "" {
		return t.Label
	}
	return t.Type
}

// Preset is a named palette entry: a type with its own size and color.
type Preset struct {
	Name     string
	Type     string
	Category Category
	Color    string
	Size     geom.Size
}

// Group is one palette section.
type Group struct {
	Category Category
	Presets  []Preset
}

// Registry holds component templates and palette presets.
//
// A Registry is not safe for concurrent mutation; hosts build it once at
// startup and only read it afterwards.
type Registry struct {
	templates map[string]Template
	generic   Template
	presets   []Preset
}

// New returns an empty registry whose fallback is the generic template.
func New() *Registry {
	return &Registry{
		templates: make(map[string]Template),
		generic:   genericTemplate,
	}
}

// Register adds or replaces the template for t.Type.
//
// Missing sizes are taken from the generic template. A minimum size larger
// than the default size is rejected.
func (r *Registry) Register(t Template) error {
	if err := errors.ValidateKey(t.Type); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "template type")
	}
	if t.Category == "" {
		t.Category = CategoryGeneric
	}
	if !t.Category.Valid() {
		return errors.New(errors.ErrCodeInvalidInput, "template %s: unknown category %q", t.Type, t.Category)
	}
	if err := errors.ValidateColor(t.Color); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "template %s", t.Type)
	}
	if err := errors.ValidateColor(t.Stroke); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "template %s", t.Type)
	}
	if t.Image != "" {
		if err := errors.ValidateRelativePath(t.Image); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "template %s", t.Type)
		}
	}
	if t.Color == "" {
		t.Color = r.generic.Color
	}
	if t.Stroke == "" {
		t.Stroke = r.generic.Stroke
	}
	if t.Size.IsZero() {
		t.Size = r.generic.Size
	}
	if t.MinSize.IsZero() {
		t.MinSize = r.generic.MinSize
	}
	if t.MinSize.Width > t.Size.Width || t.MinSize.Height > t.Size.Height {
		return errors.New(errors.ErrCodeInvalidInput,
			"template %s: minimum size %s exceeds default size %s", t.Type, t.MinSize, t.Size)
	}
	r.templates[t.Type] = t
	return nil
}

// Lookup returns the template for typ. Unknown types get the generic
// template with Type set to typ.
func (r *Registry) Lookup(typ string) Template {
	if t, ok := r.templates[typ]; ok {
		return t
	}
	t := r.generic
	if typ != "" {
		t.Type = typ
		t.Label = ""
	}
	return t
}

// Known reports whether typ has a registered template.
func (r *Registry) Known(typ string) bool {
	_, ok := r.templates[typ]
	return ok
}

// Types returns the registered type names, sorted.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.templates))
	for typ := range r.templates {
		types = append(types, typ)
	}
	sort.Strings(types)
	return types
}

// AddPreset appends a palette entry. The preset's type must be registered;
// its category, color and size default to the type's template.
func (r *Registry) AddPreset(p Preset) error {
	if p.Name == "" {
		return errors.New(errors.ErrCodeInvalidInput, "preset name cannot be empty")
	}
	t, ok := r.templates[p.Type]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "preset %s: unknown type %q", p.Name, p.Type)
	}
	if p.Category == "" {
		p.Category = t.Category
	}
	if p.Color == "" {
		p.Color = t.Color
	} else if err := errors.ValidateColor(p.Color); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "preset %s", p.Name)
	}
	if p.Size.IsZero() {
		p.Size = t.Size
	}
	r.presets = append(r.presets, p)
	return nil
}

// Preset finds a palette entry by name.
func (r *Registry) Preset(name string) (Preset, bool) {
	for _, p := range r.presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// Palette groups the presets by category, in [Categories] order.
// Empty categories are omitted; presets keep their insertion order.
func (r *Registry) Palette() []Group {
	var groups []Group
	for _, c := range Categories {
		var g Group
		for _, p := range r.presets {
			if p.Category == c {
				g.Presets = append(g.Presets, p)
			}
		}
		if len(g.Presets) > 0 {
			g.Category = c
			groups = append(groups, g)
		}
	}
	return groups
}
