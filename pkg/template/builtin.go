package template

import "github.com/matzehuels/panelboard/pkg/geom"

var genericTemplate = Template{
	Type:     GenericType,
	Category: CategoryGeneric,
	Color:    "white",
	Stroke:   "#333333",
	Size:     geom.Sz(60, 100),
	MinSize:  geom.Sz(20, 20),
}

var builtinTemplates = []Template{
	{Type: "NSX250", Category: CategoryBreaker, Color: "white", Stroke: "#333333", Size: geom.Sz(70, 120), MinSize: geom.Sz(60, 100)},
	{Type: "Schneider250A", Category: CategoryBreaker, Color: "white", Stroke: "#666666", Size: geom.Sz(70, 120), MinSize: geom.Sz(70, 100)},
	{Type: "ACB", Category: CategoryBreaker, Color: "white", Stroke: "#FF0000", Size: geom.Sz(70, 120), MinSize: geom.Sz(50, 80)},
	{Type: "MCB", Category: CategoryBreaker, Color: "white", Stroke: "#333333", Size: geom.Sz(50, 110), MinSize: geom.Sz(40, 50)},
	{Type: "Breaker", Category: CategoryBreaker, Color: "white", Stroke: "#333333", Size: geom.Sz(60, 100), MinSize: geom.Sz(40, 50)},
	{Type: "Transformer", Category: CategoryTransformer, Color: "white", Stroke: "#444444", Size: geom.Sz(100, 120), MinSize: geom.Sz(100, 100)},
	{Type: "Busbar", Category: CategoryBusbar, Color: "white", Stroke: "#8B4513", Size: geom.Sz(150, 30), MinSize: geom.Sz(150, 30)},
	{Type: "Disconnector", Category: CategorySwitch, Color: "white", Stroke: "#D946EF", Size: geom.Sz(70, 60), MinSize: geom.Sz(50, 40)},
	{Type: "Isolator", Category: CategorySwitch, Color: "white", Stroke: "#D946EF", Size: geom.Sz(70, 60), MinSize: geom.Sz(50, 40)},
	{Type: "Changeover", Category: CategorySwitch, Color: "white", Stroke: "#D946EF", Size: geom.Sz(100, 70), MinSize: geom.Sz(70, 50)},
}

var builtinPresets = []Preset{
	{Name: "ACB 1", Type: "ACB", Color: "#F97316", Size: geom.Sz(50, 80)},
	{Name: "ACB 2", Type: "ACB", Color: "#F97316", Size: geom.Sz(50, 80)},
	{Name: "MCB 1P", Type: "MCB", Size: geom.Sz(50, 50)},
	{Name: "MCB 3P", Type: "MCB", Size: geom.Sz(50, 50)},
	{Name: "TX 100kVA", Type: "Transformer", Color: "#8B5CF6", Size: geom.Sz(100, 100)},
	{Name: "TX 250kVA", Type: "Transformer", Color: "#8B5CF6", Size: geom.Sz(120, 120)},
	{Name: "TX 500kVA", Type: "Transformer", Color: "#8B5CF6", Size: geom.Sz(150, 150)},
	{Name: "Bus Bar 100A", Type: "Busbar", Color: "#0EA5E9", Size: geom.Sz(150, 30)},
	{Name: "Bus Bar 250A", Type: "Busbar", Color: "#0EA5E9", Size: geom.Sz(200, 30)},
	{Name: "Bus Bar 400A", Type: "Busbar", Color: "#0EA5E9", Size: geom.Sz(250, 30)},
	{Name: "Bus Bar 630A", Type: "Busbar", Color: "#0EA5E9", Size: geom.Sz(300, 30)},
	{Name: "Disconnector", Type: "Disconnector", Color: "#D946EF", Size: geom.Sz(70, 60)},
	{Name: "Isolator", Type: "Isolator", Color: "#D946EF", Size: geom.Sz(70, 60)},
	{Name: "Changeover", Type: "Changeover", Color: "#D946EF", Size: geom.Sz(100, 70)},
}

// Default returns a new registry with the built-in templates and palette.
func Default() *Registry {
	r := New()
	for _, t := range builtinTemplates {
		if err := r.Register(t); err != nil {
			panic(err)
		}
	}
	for _, p := range builtinPresets {
		if err := r.AddPreset(p); err != nil {
			panic(err)
		}
	}
	return r
}
