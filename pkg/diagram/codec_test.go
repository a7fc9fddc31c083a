package diagram

import (
	"strings"
	"testing"

	"github.com/matzehuels/panelboard/pkg/errors"
	"github.com/matzehuels/panelboard/pkg/geom"
)

const goldenDocument = `{
  "class": "GraphLinksModel",
  "linkDataArray": [],
  "nodeDataArray": [
    {
      "isGroup": true,
      "key": "Panel A",
      "pos": "0 0",
      "size": "200 300"
    },
    {
      "color": "white",
      "group": "Panel A",
      "key": "MCB-1",
      "label": "MCB",
      "pos": "10 10",
      "size": "50 110",
      "type": "MCB"
    }
  ]
}
`

func TestSerializeGolden(t *testing.T) {
	d := newTestDiagram(false)
	d.AddEnclosure("Panel A", geom.Pt(0, 0), geom.Sz(200, 300))
	d.AddComponent("MCB", geom.Pt(10, 10), nil, "")
	d.SetAnnotations([]Annotation{{From: "MCB-1", To: "Panel A", Text: "10px"}})

	if got := mustSerialize(t, d); got != goldenDocument {
		t.Errorf("Serialize() =\n%s\nwant\n%s", got, goldenDocument)
	}
}

func TestRoundTrip(t *testing.T) {
	src := NewStarter(Options{GridSize: DefaultGridSize, KeyFunc: seqKeys()}, nil)
	src.AddComponent("ACB", geom.Pt(10, 10), nil, "Main")
	src.AddComponent("Busbar", geom.Pt(260, 20), nil, "")
	src.AddComponentSpec(ComponentSpec{Type: "Transformer", Pos: geom.Pt(20, 360), Color: "#8B5CF6", Image: "images/tx.png"})
	src.SetAllowTopLevel(true)
	top := src.AddComponent("MCB", geom.Pt(900, 900), nil, "")
	if _, err := src.AddLink("ACB-1", top, "feeder"); err != nil {
		t.Fatalf("AddLink: %v", err)
	}

	first := mustSerialize(t, src)
	dst := New(DefaultOptions(), nil)
	if err := dst.Deserialize([]byte(first)); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if !Equal(src.Document(), dst.Document()) {
		t.Error("round trip changed the document")
	}
	if second := mustSerialize(t, dst); second != first {
		t.Errorf("re-serialization differs:\n%s\nvs\n%s", first, second)
	}

	for _, c := range src.Components() {
		got, ok := dst.Document().Component(c.Key)
		if !ok {
			t.Fatalf("%s missing after round trip", c.Key)
		}
		if got.Group != c.Group || got.Type != c.Type || got.Label != c.Label ||
			got.Color != c.Color || got.Image != c.Image || *got.Pos != *c.Pos || got.Size != c.Size {
			t.Errorf("%s: got %+v, want %+v", c.Key, got, c)
		}
	}
	mustCheck(t, dst)
}

func TestDeserializePreservesUnknownFields(t *testing.T) {
	input := `{
  "class": "GraphLinksModel",
  "linkKeyProperty": "key",
  "modelData": {"revision": 3},
  "nodeDataArray": [
    {"key": "Panel A", "isGroup": true, "pos": "0 0", "size": "200 300", "category": "panel"},
    {"key": "NSX250-1700000000000", "type": "NSX250", "label": "", "pos": "10 10", "size": "70 120",
     "color": "white", "image": "", "movable": true, "resizable": true, "ratings": [250, 36], "group": "Panel A"}
  ],
  "linkDataArray": [
    {"from": "Panel A", "to": "NSX250-1700000000000", "key": -1, "points": [0, 0, 10, 10]}
  ]
}`
	d := New(DefaultOptions(), nil)
	if err := d.Deserialize([]byte(input)); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	c, ok := d.Document().Component("NSX250-1700000000000")
	if !ok {
		t.Fatal("component missing")
	}
	if c.Group != "Panel A" || c.Extra["movable"] != true {
		t.Errorf("component = %+v", c)
	}
	if d.Document().Meta()["linkKeyProperty"] != "key" {
		t.Errorf("Meta = %v", d.Document().Meta())
	}

	out := mustSerialize(t, d)
	for _, want := range []string{
		`"linkKeyProperty": "key"`,
		`"revision": 3`,
		`"category": "panel"`,
		`"movable": true`,
		`"resizable": true`,
		`"label": ""`,
		`"image": ""`,
		`"key": -1`,
		`"points": [`,
		`250,`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}

	again := New(DefaultOptions(), nil)
	if err := again.Deserialize([]byte(out)); err != nil {
		t.Fatalf("Deserialize(output): %v", err)
	}
	if mustSerialize(t, again) != out {
		t.Error("second round trip is not byte-identical")
	}
}

func TestDeserializeDefaults(t *testing.T) {
	input := `{"nodeDataArray": [
		{"key": "Panel A", "isGroup": true, "pos": "0 0"},
		{"key": "b", "type": "MCB"},
		{"key": "c", "type": "Contactor", "pos": "5 5"}
	]}`
	d := New(DefaultOptions(), nil)
	if err := d.Deserialize([]byte(input)); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	enc, _ := d.Document().Enclosure("Panel A")
	if enc.Size != geom.Sz(20, 20) {
		t.Errorf("enclosure size = %v, want minimum", enc.Size)
	}
	b := component(t, d, "b")
	if b.Pos != nil {
		t.Errorf("b.Pos = %v, want nil", *b.Pos)
	}
	if _, ok := b.Bounds(); ok {
		t.Error("b should not have bounds")
	}
	if b.Size != geom.Sz(50, 110) {
		t.Errorf("b.Size = %v, want MCB default", b.Size)
	}
	if c := component(t, d, "c"); c.Size != geom.Sz(60, 100) {
		t.Errorf("c.Size = %v, want generic default", c.Size)
	}
}

func TestDeserializeFormatErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", `{"nodeDataArray": [`},
		{"array", `[]`},
		{"null", `null`},
		{"trailing data", `{} {}`},
		{"wrong class", `{"class": "TreeModel"}`},
		{"nodes not array", `{"nodeDataArray": {}}`},
		{"node not object", `{"nodeDataArray": [1]}`},
		{"missing key", `{"nodeDataArray": [{"type": "MCB"}]}`},
		{"numeric key", `{"nodeDataArray": [{"key": 5}]}`},
		{"duplicate key", `{"nodeDataArray": [{"key": "a"}, {"key": "a"}]}`},
		{"bad pos", `{"nodeDataArray": [{"key": "a", "pos": "ten 10"}]}`},
		{"negative size", `{"nodeDataArray": [{"key": "a", "size": "-5 10"}]}`},
		{"isGroup not bool", `{"nodeDataArray": [{"key": "a", "isGroup": "yes"}]}`},
		{"dangling group", `{"nodeDataArray": [{"key": "a", "group": "Panel Z"}]}`},
		{"group is a component", `{"nodeDataArray": [{"key": "a"}, {"key": "b", "group": "a"}]}`},
		{"nested enclosure", `{"nodeDataArray": [{"key": "A", "isGroup": true}, {"key": "B", "isGroup": true, "group": "A"}]}`},
		{"link unknown target", `{"nodeDataArray": [{"key": "a"}], "linkDataArray": [{"from": "a", "to": "z"}]}`},
		{"link missing from", `{"nodeDataArray": [{"key": "a"}], "linkDataArray": [{"to": "a"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDiagram(false)
			d.AddEnclosure("Panel A", geom.Pt(0, 0), geom.Sz(200, 300))
			d.AddComponent("MCB", geom.Pt(10, 10), nil, "")
			before := mustSerialize(t, d)
			rev := d.Revision()

			err := d.Deserialize([]byte(tt.input))
			if err == nil {
				t.Fatal("Deserialize() succeeded, want FORMAT_ERROR")
			}
			if !errors.IsFormat(err) {
				t.Errorf("error = %v, want FORMAT_ERROR", err)
			}
			if mustSerialize(t, d) != before || d.Revision() != rev {
				t.Error("failed load modified the document")
			}
		})
	}
}

func TestDeserializeClearsAnnotations(t *testing.T) {
	d := newTestDiagram(true)
	d.SetAnnotations([]Annotation{{From: "a", To: "b"}})
	if err := d.Deserialize([]byte(`{"class": "GraphLinksModel"}`)); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if n := len(d.Annotations()); n != 0 {
		t.Errorf("annotations = %d, want 0", n)
	}
	if d.Document().Len() != 0 {
		t.Errorf("Len() = %d, want 0", d.Document().Len())
	}
}

func TestSnapshotRestore(t *testing.T) {
	d := NewStarter(Options{GridSize: DefaultGridSize, KeyFunc: seqKeys()}, nil)
	key := d.AddComponent("MCB", geom.Pt(10, 10), nil, "")
	d.Document().Meta()["note"] = map[string]any{"a": []any{"x"}}
	before := mustSerialize(t, d)

	snap := d.Snapshot()
	if !snap.Has() {
		t.Fatal("snapshot is empty")
	}
	if _, err := d.Move(key, geom.Pt(260, 10)); err != nil {
		t.Fatal(err)
	}
	if err := d.Remove("Panel C"); err != nil {
		t.Fatal(err)
	}
	d.Document().Meta()["note"].(map[string]any)["a"].([]any)[0] = "changed"
	d.SetAnnotations([]Annotation{{From: key, To: "Panel B"}})

	d.Restore(snap)
	if after := mustSerialize(t, d); after != before {
		t.Errorf("Restore() =\n%s\nwant\n%s", after, before)
	}
	if len(d.Annotations()) != 0 {
		t.Error("Restore() kept annotations")
	}

	// A snapshot can be restored more than once.
	d.Move(key, geom.Pt(260, 10))
	d.Restore(snap)
	if mustSerialize(t, d) != before {
		t.Error("second Restore() differs")
	}
	d.Restore(Snapshot{})
	mustCheck(t, d)
}
