package dimension

import (
	"testing"

	"github.com/matzehuels/panelboard/pkg/diagram"
	"github.com/matzehuels/panelboard/pkg/geom"
)

func freeDiagram() *diagram.Diagram {
	return diagram.New(diagram.Options{AllowTopLevel: true}, nil)
}

func TestAlignedPairYieldsOneAnnotation(t *testing.T) {
	d := freeDiagram()
	size := geom.Sz(50, 110)
	a := d.AddComponent("MCB", geom.Pt(0, -5), &size, "")  // center y = 50
	b := d.AddComponent("MCB", geom.Pt(100, -3), &size, "") // center y = 52

	ann := New(DefaultOptions())
	if n := ann.Apply(d); n != 1 {
		t.Fatalf("Apply() = %d, want 1", n)
	}
	got := d.Annotations()[0]
	if got.From != a || got.To != b || got.Orientation != diagram.Horizontal {
		t.Errorf("annotation = %+v", got)
	}
	if got.Value != 50 || got.Text != "50px" {
		t.Errorf("Value/Text = %v/%q, want 50/50px", got.Value, got.Text)
	}
	wantPts := [2]geom.Point{geom.Pt(50, 50), geom.Pt(100, 52)}
	if got.Points != wantPts {
		t.Errorf("Points = %v, want %v", got.Points, wantPts)
	}

	// Re-running replaces instead of accumulating.
	if n := ann.Apply(d); n != 1 || len(d.Annotations()) != 1 {
		t.Errorf("second Apply() = %d, annotations = %d", n, len(d.Annotations()))
	}
}

func TestPairRules(t *testing.T) {
	size := geom.Sz(50, 50)
	tests := []struct {
		name   string
		a, b   geom.Point
		want   int
		orient diagram.Orientation
		text   string
	}{
		{name: "far apart vertically", a: geom.Pt(0, 0), b: geom.Pt(100, 300), want: 0},
		{name: "overlapping on x", a: geom.Pt(0, 0), b: geom.Pt(20, 60), want: 1, orient: diagram.Vertical, text: "10px"},
		{name: "touching edges", a: geom.Pt(0, 0), b: geom.Pt(50, 0), want: 0},
		{name: "reversed order", a: geom.Pt(200, 0), b: geom.Pt(0, 10), want: 1, orient: diagram.Horizontal, text: "150px"},
		{name: "diagonal and close", a: geom.Pt(0, 0), b: geom.Pt(60, 60), want: 2},
		{name: "overlapping boxes", a: geom.Pt(0, 0), b: geom.Pt(10, 10), want: 0},
		{name: "fractional gap rounds", a: geom.Pt(0, 0), b: geom.Pt(62.5, 0), want: 1, orient: diagram.Horizontal, text: "13px"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := freeDiagram()
			d.AddComponent("MCB", tt.a, &size, "")
			d.AddComponent("MCB", tt.b, &size, "")
			got := New(DefaultOptions()).Compute(d.Document())
			if len(got) != tt.want {
				t.Fatalf("len = %d, want %d: %+v", len(got), tt.want, got)
			}
			if tt.want == 1 {
				if got[0].Orientation != tt.orient || got[0].Text != tt.text {
					t.Errorf("annotation = %+v", got[0])
				}
			}
		})
	}
}

func TestReversedOrderMeasuresLeftToRight(t *testing.T) {
	d := freeDiagram()
	size := geom.Sz(50, 50)
	right := d.AddComponent("MCB", geom.Pt(200, 0), &size, "")
	left := d.AddComponent("MCB", geom.Pt(0, 0), &size, "")
	got := New(DefaultOptions()).Compute(d.Document())
	if len(got) != 1 || got[0].From != left || got[0].To != right {
		t.Fatalf("got %+v", got)
	}
	if got[0].Points[0].X != 50 || got[0].Points[1].X != 200 {
		t.Errorf("Points = %v", got[0].Points)
	}
}

func TestEnclosureEdges(t *testing.T) {
	d := diagram.New(diagram.Options{}, nil)
	d.AddEnclosure("Panel A", geom.Pt(0, 0), geom.Sz(200, 300))
	size := geom.Sz(50, 100)
	key := d.AddComponent("MCB", geom.Pt(10, 0), &size, "")

	opts := DefaultOptions()
	opts.Scale = 2
	opts.Unit = "mm"
	got := New(opts).Compute(d.Document())

	// Top edge touches the enclosure: only left, right and bottom remain.
	want := map[string]bool{"20mm": true, "280mm": true, "400mm": true}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3: %+v", len(got), got)
	}
	for _, a := range got {
		if a.From != key || a.To != "Panel A" {
			t.Errorf("annotation endpoints = %s -> %s", a.From, a.To)
		}
		if !want[a.Text] {
			t.Errorf("unexpected text %q", a.Text)
		}
	}
	if got[0].Points != [2]geom.Point{geom.Pt(0, 50), geom.Pt(10, 50)} {
		t.Errorf("left edge points = %v", got[0].Points)
	}
}

func TestMinEdgeGap(t *testing.T) {
	d := diagram.New(diagram.Options{}, nil)
	d.AddEnclosure("Panel A", geom.Pt(0, 0), geom.Sz(52, 100))
	size := geom.Sz(50, 98)
	d.AddComponent("MCB", geom.Pt(1, 1), &size, "")

	// Every gap is exactly 1, which does not exceed the minimum.
	if got := New(DefaultOptions()).Compute(d.Document()); len(got) != 0 {
		t.Errorf("got %+v, want none", got)
	}
	opts := DefaultOptions()
	opts.MinEdgeGap = 0.5
	if got := New(opts).Compute(d.Document()); len(got) != 4 {
		t.Errorf("len = %d, want 4", len(got))
	}
}

func TestEnclosurePairs(t *testing.T) {
	d := diagram.NewStarter(diagram.DefaultOptions(), nil)

	got := New(DefaultOptions()).Compute(d.Document())
	// Panel A/B side by side, A/C and B/C stacked; every gap is 50.
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3: %+v", len(got), got)
	}
	if got[0].From != "Panel A" || got[0].To != "Panel B" || got[0].Text != "50px" {
		t.Errorf("first = %+v", got[0])
	}

	opts := DefaultOptions()
	opts.Enclosures = false
	if got := New(opts).Compute(d.Document()); len(got) != 0 {
		t.Errorf("Enclosures=false: len = %d, want 0", len(got))
	}
}

func TestSkipsEntitiesWithoutGeometry(t *testing.T) {
	d := freeDiagram()
	if err := d.Deserialize([]byte(`{"nodeDataArray": [
		{"key": "a", "type": "MCB", "pos": "0 0", "size": "50 50"},
		{"key": "b", "type": "MCB", "size": "50 50"},
		{"key": "c", "type": "MCB", "pos": "100 0", "size": "0 50"}
	]}`)); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if got := New(DefaultOptions()).Compute(d.Document()); len(got) != 0 {
		t.Errorf("got %+v, want none", got)
	}
}

func TestApplyClearsStale(t *testing.T) {
	d := freeDiagram()
	size := geom.Sz(50, 50)
	a := d.AddComponent("MCB", geom.Pt(0, 0), &size, "")
	d.AddComponent("MCB", geom.Pt(100, 0), &size, "")
	ann := New(DefaultOptions())
	ann.Apply(d)

	if _, err := d.Move(a, geom.Pt(0, 500)); err != nil {
		t.Fatal(err)
	}
	if n := ann.Apply(d); n != 0 || len(d.Annotations()) != 0 {
		t.Errorf("stale annotations remain: %+v", d.Annotations())
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		v    float64
		unit string
		want string
	}{
		{12, "px", "12px"},
		{12.5, "px", "13px"},
		{12.49, "mm", "12mm"},
		{0.4, "", "0"},
	}
	for _, tt := range tests {
		if got := Format(tt.v, tt.unit); got != tt.want {
			t.Errorf("Format(%v, %q) = %q, want %q", tt.v, tt.unit, got, tt.want)
		}
	}
}
