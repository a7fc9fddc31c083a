package template

import (
	"testing"

	"github.com/matzehuels/panelboard/pkg/errors"
	"github.com/matzehuels/panelboard/pkg/geom"
)

func TestDefaultSizes(t *testing.T) {
	reg := Default()
	tests := []struct {
		typ  string
		size geom.Size
	}{
		{"NSX250", geom.Sz(70, 120)},
		{"Schneider250A", geom.Sz(70, 120)},
		{"ACB", geom.Sz(70, 120)},
		{"MCB", geom.Sz(50, 110)},
		{"Busbar", geom.Sz(150, 30)},
		{"Transformer", geom.Sz(100, 120)},
		{"Breaker", geom.Sz(60, 100)},
		{"SomethingNew", geom.Sz(60, 100)},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			got := reg.Lookup(tt.typ)
			if got.Size != tt.size {
				t.Errorf("Lookup(%q).Size = %v, want %v", tt.typ, got.Size, tt.size)
			}
			if got.Type != tt.typ {
				t.Errorf("Lookup(%q).Type = %q", tt.typ, got.Type)
			}
			if got.Color != "white" {
				t.Errorf("Lookup(%q).Color = %q, want white", tt.typ, got.Color)
			}
		})
	}
}

func TestLookupFallback(t *testing.T) {
	reg := Default()
	got := reg.Lookup("Contactor")
	if reg.Known("Contactor") {
		t.Fatal("Contactor should not be registered")
	}
	if got.Category != CategoryGeneric {
		t.Errorf("Category = %v, want %v", got.Category, CategoryGeneric)
	}
	if got.DefaultLabel() != "Contactor" {
		t.Errorf("DefaultLabel() = %q, want Contactor", got.DefaultLabel())
	}
	if empty := reg.Lookup(""); empty.Type != GenericType {
		t.Errorf("Lookup(\"\").Type = %q, want %q", empty.Type, GenericType)
	}
}

func TestMinSizeNeverExceedsDefaults(t *testing.T) {
	reg := Default()
	for _, typ := range reg.Types() {
		tpl := reg.Lookup(typ)
		if tpl.MinSize.Width > tpl.Size.Width || tpl.MinSize.Height > tpl.Size.Height {
			t.Errorf("%s: min %v exceeds default %v", typ, tpl.MinSize, tpl.Size)
		}
	}
	for _, g := range reg.Palette() {
		for _, p := range g.Presets {
			min := reg.Lookup(p.Type).MinSize
			if p.Size.Width < min.Width || p.Size.Height < min.Height {
				t.Errorf("preset %s: size %v below minimum %v", p.Name, p.Size, min)
			}
		}
	}
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name    string
		tpl     Template
		wantErr bool
	}{
		{name: "minimal", tpl: Template{Type: "Contactor"}},
		{name: "full", tpl: Template{Type: "Meter", Category: CategorySwitch, Color: "#112233", Size: geom.Sz(40, 40), MinSize: geom.Sz(20, 20), Image: "images/meter.png"}},
		{name: "empty type", tpl: Template{}, wantErr: true},
		{name: "bad category", tpl: Template{Type: "X", Category: "relay"}, wantErr: true},
		{name: "bad color", tpl: Template{Type: "X", Color: "#12"}, wantErr: true},
		{name: "absolute image", tpl: Template{Type: "X", Image: "/etc/x.png"}, wantErr: true},
		{name: "min above default", tpl: Template{Type: "X", Size: geom.Sz(10, 10), MinSize: geom.Sz(20, 20)}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := New()
			err := reg.Register(tt.tpl)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Register() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, errors.ErrCodeInvalidInput) {
					t.Errorf("error code = %v, want INVALID_INPUT", errors.GetCode(err))
				}
				return
			}
			got := reg.Lookup(tt.tpl.Type)
			if got.Size.IsZero() || got.MinSize.IsZero() {
				t.Errorf("registered template missing sizes: %+v", got)
			}
		})
	}
}

func TestRegistriesAreIndependent(t *testing.T) {
	a := Default()
	b := Default()
	if err := a.Register(Template{Type: "MCB", Size: geom.Sz(99, 99)}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if b.Lookup("MCB").Size == geom.Sz(99, 99) {
		t.Error("override leaked into another registry")
	}
}

func TestPalette(t *testing.T) {
	reg := Default()
	groups := reg.Palette()
	if len(groups) != 4 {
		t.Fatalf("len(Palette()) = %d, want 4", len(groups))
	}
	want := []Category{CategoryBreaker, CategoryTransformer, CategoryBusbar, CategorySwitch}
	for i, g := range groups {
		if g.Category != want[i] {
			t.Errorf("group %d = %v, want %v", i, g.Category, want[i])
		}
	}
	if first := groups[0].Presets[0]; first.Name != "ACB 1" {
		t.Errorf("first preset = %q, want ACB 1", first.Name)
	}

	p, ok := reg.Preset("TX 250kVA")
	if !ok {
		t.Fatal("TX 250kVA preset missing")
	}
	if p.Size != geom.Sz(120, 120) || p.Color != "#8B5CF6" {
		t.Errorf("TX 250kVA = %+v", p)
	}
	if mcb, _ := reg.Preset("MCB 1P"); mcb.Color != "white" {
		t.Errorf("MCB 1P color = %q, want template default", mcb.Color)
	}
}

func TestAddPresetUnknownType(t *testing.T) {
	reg := New()
	err := reg.AddPreset(Preset{Name: "X", Type: "Nope"})
	if !errors.IsNotFound(err) {
		t.Errorf("AddPreset() error = %v, want NOT_FOUND", err)
	}
}
