package diagram

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/matzehuels/panelboard/pkg/errors"
	"github.com/matzehuels/panelboard/pkg/geom"
)

func seqKeys() func(string) string {
	n := 0
	return func(prefix string) string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func newTestDiagram(allowTopLevel bool) *Diagram {
	return New(Options{AllowTopLevel: allowTopLevel, GridSize: DefaultGridSize, KeyFunc: seqKeys()}, nil)
}

func mustSerialize(t *testing.T, d *Diagram) string {
	t.Helper()
	data, err := d.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	return string(data)
}

func mustCheck(t *testing.T, d *Diagram) {
	t.Helper()
	if err := d.Check(); err != nil {
		t.Fatalf("Check: %v", err)
	}
}

func component(t *testing.T, d *Diagram, key string) *Component {
	t.Helper()
	c, ok := d.Document().Component(key)
	if !ok {
		t.Fatalf("component %q not found", key)
	}
	return c
}

func TestBreakerJoinsPanelAndRejectsOutsideMove(t *testing.T) {
	d := newTestDiagram(false)
	panel := d.AddEnclosure("Panel A", geom.Pt(0, 0), geom.Sz(250, 350))
	if panel != "Panel A" {
		t.Fatalf("enclosure key = %q, want Panel A", panel)
	}

	key := d.AddComponent("Breaker", geom.Pt(10, 10), nil, "")
	c := component(t, d, key)
	if c.Group != "Panel A" {
		t.Fatalf("Group = %q, want Panel A", c.Group)
	}

	before := mustSerialize(t, d)
	pl, err := d.Move(key, geom.Pt(1000, 1000))
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if pl.Accepted {
		t.Fatal("move outside every enclosure was accepted")
	}
	if pl.Reason != ReasonOutsideEnclosure {
		t.Errorf("Reason = %q", pl.Reason)
	}
	if *c.Pos != geom.Pt(10, 10) {
		t.Errorf("Pos = %v, want 10 10", *c.Pos)
	}
	if pl.Pos != geom.Pt(10, 10) || pl.Group != "Panel A" {
		t.Errorf("Placement = %+v", pl)
	}
	if after := mustSerialize(t, d); after != before {
		t.Errorf("rejected move changed the document:\n%s\nvs\n%s", before, after)
	}
	mustCheck(t, d)
}

func TestMoveTopLevel(t *testing.T) {
	d := newTestDiagram(true)
	d.AddEnclosure("Panel A", geom.Pt(0, 0), geom.Sz(200, 300))
	key := d.AddComponent("MCB", geom.Pt(10, 10), nil, "")

	pl, err := d.Move(key, geom.Pt(1000, 1000))
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if !pl.Accepted || pl.Group != "" {
		t.Fatalf("Placement = %+v, want accepted top-level", pl)
	}
	if c := component(t, d, key); !c.TopLevel() || *c.Pos != geom.Pt(1000, 1000) {
		t.Errorf("component = %+v", c)
	}

	// Moving back in re-joins the enclosure.
	pl, _ = d.Move(key, geom.Pt(20, 20))
	if pl.Group != "Panel A" {
		t.Errorf("Group = %q, want Panel A", pl.Group)
	}
}

func TestMoveBetweenEnclosures(t *testing.T) {
	d := NewStarter(Options{GridSize: DefaultGridSize, KeyFunc: seqKeys()}, nil)
	key := d.AddComponent("MCB", geom.Pt(10, 10), nil, "")
	if g := component(t, d, key).Group; g != "Panel A" {
		t.Fatalf("Group = %q, want Panel A", g)
	}

	pl, err := d.Move(key, geom.Pt(260, 10))
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if !pl.Accepted || pl.Group != "Panel B" {
		t.Errorf("Placement = %+v, want accepted into Panel B", pl)
	}

	// Straddling Panel A and Panel B is inside neither.
	pl, _ = d.Move(key, geom.Pt(180, 10))
	if pl.Accepted {
		t.Errorf("straddling move accepted: %+v", pl)
	}
	if g := component(t, d, key).Group; g != "Panel B" {
		t.Errorf("Group after rejection = %q, want Panel B", g)
	}
}

func TestMoveSnapsToGrid(t *testing.T) {
	d := newTestDiagram(true)
	key := d.AddComponent("MCB", geom.Pt(3, 4), nil, "")
	if p := *component(t, d, key).Pos; p != geom.Pt(0, 0) {
		t.Errorf("added at %v, want 0 0", p)
	}
	pl, _ := d.Move(key, geom.Pt(13, 17))
	if pl.Pos != geom.Pt(10, 20) {
		t.Errorf("Pos = %v, want 10 20", pl.Pos)
	}

	free := New(Options{AllowTopLevel: true}, nil)
	k := free.AddComponent("MCB", geom.Pt(13.5, 17.25), nil, "")
	if p := *component(t, free, k).Pos; p != geom.Pt(13.5, 17.25) {
		t.Errorf("grid disabled: Pos = %v", p)
	}
}

func TestMoveInvalidInput(t *testing.T) {
	d := newTestDiagram(true)
	key := d.AddComponent("MCB", geom.Pt(0, 0), nil, "")

	if _, err := d.Move("missing", geom.Pt(0, 0)); !errors.IsNotFound(err) {
		t.Errorf("Move(missing) error = %v, want NOT_FOUND", err)
	}
	if _, err := d.Resize("missing", geom.Sz(10, 10)); !errors.IsNotFound(err) {
		t.Errorf("Resize(missing) error = %v, want NOT_FOUND", err)
	}
	if err := d.Remove("missing"); !errors.IsNotFound(err) {
		t.Errorf("Remove(missing) error = %v, want NOT_FOUND", err)
	}
	nan := geom.Pt(0, 0)
	nan.X = nan.X / nan.Y // NaN
	if _, err := d.Move(key, nan); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Move(NaN) error = %v, want INVALID_INPUT", err)
	}
	if _, err := d.Resize(key, geom.Sz(-1, 10)); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Resize(negative) error = %v, want INVALID_INPUT", err)
	}
}

func TestContainerTieBreak(t *testing.T) {
	d := newTestDiagram(false)
	d.AddEnclosure("Outer", geom.Pt(0, 0), geom.Sz(500, 500))
	d.AddEnclosure("Inner", geom.Pt(10, 10), geom.Sz(200, 200))
	d.AddEnclosure("Twin 1", geom.Pt(600, 0), geom.Sz(200, 200))
	d.AddEnclosure("Twin 2", geom.Pt(600, 0), geom.Sz(200, 200))

	tests := []struct {
		name string
		pos  geom.Point
		want string
	}{
		{"smallest wins", geom.Pt(20, 20), "Inner"},
		{"only outer", geom.Pt(300, 300), "Outer"},
		{"equal area first wins", geom.Pt(610, 10), "Twin 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := d.AddComponent("Breaker", tt.pos, nil, "")
			if g := component(t, d, key).Group; g != tt.want {
				t.Errorf("Group = %q, want %q", g, tt.want)
			}
		})
	}
}

func TestCanAdmit(t *testing.T) {
	panel := &Enclosure{Key: "Panel A"}
	tests := []struct {
		name    string
		group   *Enclosure
		dragged Entity
		want    bool
	}{
		{"component", panel, &Component{Key: "c"}, true},
		{"enclosure", panel, &Enclosure{Key: "Panel B"}, false},
		{"no group", nil, &Component{Key: "c"}, false},
		{"nothing dragged", panel, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanAdmit(tt.group, tt.dragged); got != tt.want {
				t.Errorf("CanAdmit() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEnclosureMoveCarriesMembers(t *testing.T) {
	d := newTestDiagram(false)
	d.AddEnclosure("Panel A", geom.Pt(0, 0), geom.Sz(200, 300))
	a := d.AddComponent("MCB", geom.Pt(10, 10), nil, "")
	b := d.AddComponent("MCB", geom.Pt(80, 10), nil, "")

	pl, err := d.Move("Panel A", geom.Pt(100, 100))
	if err != nil || !pl.Accepted {
		t.Fatalf("Move(enclosure) = %+v, %v", pl, err)
	}
	if p := *component(t, d, a).Pos; p != geom.Pt(110, 110) {
		t.Errorf("member a at %v, want 110 110", p)
	}
	if p := *component(t, d, b).Pos; p != geom.Pt(180, 110) {
		t.Errorf("member b at %v, want 180 110", p)
	}
	mustCheck(t, d)
}

func TestResize(t *testing.T) {
	d := newTestDiagram(false)
	d.AddEnclosure("Panel A", geom.Pt(0, 0), geom.Sz(250, 350))
	key := d.AddComponent("Breaker", geom.Pt(10, 10), nil, "")

	t.Run("clamped to minimum", func(t *testing.T) {
		pl, err := d.Resize(key, geom.Sz(5, 5))
		if err != nil || !pl.Accepted {
			t.Fatalf("Resize = %+v, %v", pl, err)
		}
		if pl.Size != geom.Sz(40, 50) {
			t.Errorf("Size = %v, want 40 50", pl.Size)
		}
	})

	t.Run("grows within enclosure", func(t *testing.T) {
		pl, _ := d.Resize(key, geom.Sz(101, 149))
		if !pl.Accepted || pl.Size != geom.Sz(100, 150) {
			t.Errorf("Placement = %+v", pl)
		}
	})

	t.Run("rejected beyond enclosure", func(t *testing.T) {
		pl, _ := d.Resize(key, geom.Sz(500, 500))
		if pl.Accepted {
			t.Fatal("oversize resize accepted")
		}
		if s := component(t, d, key).Size; s != geom.Sz(100, 150) {
			t.Errorf("Size after rejection = %v, want 100 150", s)
		}
	})

	t.Run("enclosure cannot cut off members", func(t *testing.T) {
		pl, _ := d.Resize("Panel A", geom.Sz(50, 50))
		if pl.Accepted || pl.Reason != ReasonMemberOutside {
			t.Errorf("Placement = %+v", pl)
		}
		pl, _ = d.Resize("Panel A", geom.Sz(300, 400))
		if !pl.Accepted {
			t.Errorf("growing enclosure rejected: %+v", pl)
		}
	})

	t.Run("enclosure minimum", func(t *testing.T) {
		k := d.AddEnclosure("Tiny", geom.Pt(1000, 0), geom.Sz(5, 5))
		pl, _ := d.Resize(k, geom.Sz(1, 1))
		if pl.Size != geom.Sz(20, 20) {
			t.Errorf("Size = %v, want 20 20", pl.Size)
		}
	})
	mustCheck(t, d)
}

func TestAddEnclosureKeys(t *testing.T) {
	d := newTestDiagram(false)
	first := d.AddEnclosure("Panel A", geom.Pt(0, 0), geom.Sz(100, 100))
	second := d.AddEnclosure("Panel A", geom.Pt(200, 0), geom.Sz(100, 100))
	unnamed := d.AddEnclosure("", geom.Pt(400, 0), geom.Sz(5, 5))

	if first != "Panel A" {
		t.Errorf("first = %q", first)
	}
	if second == first || second != "Panel A-1" {
		t.Errorf("second = %q, want Panel A-1", second)
	}
	enc, _ := d.Document().Enclosure(second)
	if enc.DisplayName() != "Panel A" {
		t.Errorf("DisplayName() = %q, want Panel A", enc.DisplayName())
	}
	if unnamed != DefaultEnclosureLabel {
		t.Errorf("unnamed = %q", unnamed)
	}
	u, _ := d.Document().Enclosure(unnamed)
	if u.Size != geom.Sz(20, 20) {
		t.Errorf("Size = %v, want 20 20", u.Size)
	}
}

func TestAddComponentDefaults(t *testing.T) {
	d := newTestDiagram(true)
	key := d.AddComponent("ACB", geom.Pt(0, 0), nil, "")
	c := component(t, d, key)
	if key != "ACB-1" {
		t.Errorf("key = %q", key)
	}
	if c.Size != geom.Sz(70, 120) || c.Color != "white" || c.Label != "ACB" || c.Type != "ACB" {
		t.Errorf("component = %+v", c)
	}

	small := geom.Sz(1, 1)
	k := d.AddComponentSpec(ComponentSpec{Type: "Transformer", Label: "TX 100kVA", Color: "#8B5CF6", Size: &small})
	tx := component(t, d, k)
	if tx.Size != geom.Sz(100, 100) || tx.Color != "#8B5CF6" || tx.Label != "TX 100kVA" {
		t.Errorf("component = %+v", tx)
	}

	g := d.AddComponent("", geom.Pt(0, 0), nil, "")
	if c := component(t, d, g); c.Type != "Generic" || c.Size != geom.Sz(60, 100) {
		t.Errorf("generic component = %+v", c)
	}
}

func TestAddComponentNeverRejected(t *testing.T) {
	d := newTestDiagram(false)
	key := d.AddComponent("MCB", geom.Pt(5000, 5000), nil, "")
	if !component(t, d, key).TopLevel() {
		t.Error("component outside enclosures should be top-level")
	}
	if _, ok := d.PlacementFor(geom.R(5000, 5000, 50, 110)); ok {
		t.Error("PlacementFor should refuse a top-level placement")
	}
}

func TestRemoveOrphansMembers(t *testing.T) {
	d := newTestDiagram(false)
	d.AddEnclosure("Panel A", geom.Pt(0, 0), geom.Sz(250, 350))
	var keys []string
	for i := 0; i < 3; i++ {
		keys = append(keys, d.AddComponent("MCB", geom.Pt(float64(10+60*i), 10), nil, ""))
	}
	if got := len(d.Members("Panel A")); got != 3 {
		t.Fatalf("members = %d, want 3", got)
	}

	if err := d.Remove("Panel A"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if got := len(d.Components()); got != 3 {
		t.Errorf("components = %d, want 3", got)
	}
	for _, k := range keys {
		if !component(t, d, k).TopLevel() {
			t.Errorf("%s still has group", k)
		}
	}
	mustCheck(t, d)
}

func TestRemoveDropsLinksAndAnnotations(t *testing.T) {
	d := newTestDiagram(true)
	a := d.AddComponent("MCB", geom.Pt(0, 0), nil, "")
	b := d.AddComponent("MCB", geom.Pt(100, 0), nil, "")
	c := d.AddComponent("MCB", geom.Pt(200, 0), nil, "")
	if _, err := d.AddLink(a, b, "feed"); err != nil {
		t.Fatalf("AddLink: %v", err)
	}
	if _, err := d.AddLink(b, c, ""); err != nil {
		t.Fatalf("AddLink: %v", err)
	}
	if _, err := d.AddLink(a, "missing", ""); !errors.IsNotFound(err) {
		t.Errorf("AddLink(missing) error = %v", err)
	}
	d.SetAnnotations([]Annotation{{From: a, To: b}, {From: b, To: c}})

	if err := d.Remove(a); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if got := len(d.Links()); got != 1 {
		t.Errorf("links = %d, want 1", got)
	}
	if got := len(d.Annotations()); got != 1 {
		t.Errorf("annotations = %d, want 1", got)
	}
	if n := d.ClearAnnotations(); n != 1 {
		t.Errorf("ClearAnnotations() = %d, want 1", n)
	}
	mustCheck(t, d)
}

func TestRevision(t *testing.T) {
	d := newTestDiagram(false)
	r0 := d.Revision()
	key := d.AddComponent("MCB", geom.Pt(1000, 1000), nil, "")
	r1 := d.Revision()
	if r1 <= r0 {
		t.Fatal("AddComponent did not bump revision")
	}
	d.SetAllowTopLevel(false)
	d.AddEnclosure("Panel A", geom.Pt(0, 0), geom.Sz(100, 100))
	r2 := d.Revision()
	if pl, _ := d.Move(key, geom.Pt(2000, 2000)); pl.Accepted {
		t.Fatal("move accepted")
	}
	if d.Revision() != r2 {
		t.Error("rejected move bumped revision")
	}
}

func TestContainmentInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	d := NewStarter(Options{GridSize: DefaultGridSize, KeyFunc: seqKeys()}, nil)
	types := []string{"MCB", "ACB", "Busbar", "Transformer", "Isolator"}

	for i := 0; i < 500; i++ {
		keys := d.Document().order
		var key string
		if len(keys) > 0 {
			key = keys[rng.Intn(len(keys))]
		}
		pos := geom.Pt(rng.Float64()*600-50, rng.Float64()*700-50)
		switch op := rng.Intn(7); {
		case op == 0:
			d.AddComponent(types[rng.Intn(len(types))], pos, nil, "")
		case op == 1 && rng.Intn(4) == 0:
			d.AddEnclosure(fmt.Sprintf("Panel %d", i), pos, geom.Sz(rng.Float64()*300, rng.Float64()*300))
		case op == 2 && key != "":
			d.SetAllowTopLevel(rng.Intn(2) == 0)
			if _, err := d.Move(key, pos); err != nil {
				t.Fatalf("step %d: Move: %v", i, err)
			}
		case op == 3 && key != "":
			if _, err := d.Resize(key, geom.Sz(rng.Float64()*200, rng.Float64()*200)); err != nil {
				t.Fatalf("step %d: Resize: %v", i, err)
			}
		case op == 4 && key != "" && rng.Intn(3) == 0:
			if err := d.Remove(key); err != nil {
				t.Fatalf("step %d: Remove: %v", i, err)
			}
		default:
			if key != "" {
				d.Move(key, pos)
			}
		}
		if err := d.Check(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		for _, c := range d.Components() {
			if c.Group == "" {
				continue
			}
			if _, ok := d.Document().Enclosure(c.Group); !ok {
				t.Fatalf("step %d: %s references %q", i, c.Key, c.Group)
			}
		}
	}
}
