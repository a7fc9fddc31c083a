package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/matzehuels/panelboard/pkg/diagram"
	perrors "github.com/matzehuels/panelboard/pkg/errors"
	"github.com/matzehuels/panelboard/pkg/geom"
)

func openTest(t *testing.T) (*Headless, *diagram.Diagram) {
	t.Helper()
	d := diagram.NewStarter(diagram.DefaultOptions(), nil)
	h, err := Open(d, DefaultView)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return h, d
}

func TestOpenFailures(t *testing.T) {
	d := diagram.New(diagram.DefaultOptions(), nil)
	tests := []struct {
		name string
		d    *diagram.Diagram
		view View
	}{
		{"nil diagram", nil, DefaultView},
		{"zero scale", d, View{}},
		{"negative scale", d, View{Scale: -1}},
		{"infinite scale", d, View{Scale: math.Inf(1)}},
		{"nan position", d, View{Scale: 1, Position: geom.Pt(math.NaN(), 0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(tt.d, tt.view)
			if !perrors.Is(err, perrors.ErrCodeEngineInit) {
				t.Errorf("Open() error = %v, want ENGINE_INIT", err)
			}
		})
	}
}

func TestViewTransform(t *testing.T) {
	h, _ := openTest(t)
	h.SetView(View{Position: geom.Pt(-100, -50), Scale: 2})

	doc := h.ViewToDoc(geom.Pt(200, 100))
	if doc != geom.Pt(0, 0) {
		t.Errorf("ViewToDoc = %v, want 0 0", doc)
	}
	if back := h.DocToView(doc); back != geom.Pt(200, 100) {
		t.Errorf("DocToView = %v, want 200 100", back)
	}

	h.SetView(View{Scale: 0})
	if h.View().Scale != 2 {
		t.Error("SetView accepted a zero scale")
	}
}

func TestPartsReflectDiagram(t *testing.T) {
	h, d := openTest(t)
	key := d.AddComponent("MCB", geom.Pt(10, 10), nil, "")

	groups := h.Groups()
	if len(groups) != 3 || !groups[0].IsGroup || groups[0].Key != "Panel A" {
		t.Errorf("Groups() = %+v", groups)
	}
	nodes := h.Nodes()
	if len(nodes) != 1 || nodes[0].Key != key || nodes[0].Group != "Panel A" || !nodes[0].LaidOut {
		t.Errorf("Nodes() = %+v", nodes)
	}
	if nodes[0].Bounds != geom.R(10, 10, 50, 110) {
		t.Errorf("Bounds = %v", nodes[0].Bounds)
	}
}

func TestTransactionsRenderOncePerOutermostCommit(t *testing.T) {
	h, d := openTest(t)
	var rendered []int
	h.OnRender(func(doc *diagram.Document) { rendered = append(rendered, doc.Len()) })

	h.StartTransaction("outer")
	d.AddComponent("MCB", geom.Pt(10, 10), nil, "")
	h.StartTransaction("inner")
	d.AddComponent("MCB", geom.Pt(70, 10), nil, "")
	if !h.CommitTransaction("inner") {
		t.Fatal("inner commit failed")
	}
	if h.Renders() != 0 {
		t.Fatalf("inner commit rendered")
	}
	h.CommitTransaction("outer")
	if h.Renders() != 1 || len(rendered) != 1 || rendered[0] != 5 {
		t.Errorf("renders = %d, rendered = %v", h.Renders(), rendered)
	}
	if h.CommitTransaction("stray") {
		t.Error("commit without transaction reported success")
	}
	if h.InTransaction() {
		t.Error("transaction still open")
	}
}

func TestRollbackRestoresDiagram(t *testing.T) {
	h, d := openTest(t)
	before, _ := d.Serialize()

	h.StartTransaction("add")
	d.AddComponent("MCB", geom.Pt(10, 10), nil, "")
	h.StartTransaction("nested")
	d.Remove("Panel B")
	if !h.RollbackTransaction("add") {
		t.Fatal("rollback failed")
	}
	after, _ := d.Serialize()
	if string(after) != string(before) {
		t.Errorf("rollback left changes:\n%s", after)
	}
	if h.InTransaction() {
		t.Error("rollback left a transaction open")
	}
	if h.RollbackTransaction("none") {
		t.Error("rollback without transaction reported success")
	}
}

func TestTransact(t *testing.T) {
	h, d := openTest(t)
	err := Transact(h, "ok", func() error {
		d.AddComponent("MCB", geom.Pt(10, 10), nil, "")
		return nil
	})
	if err != nil || h.Renders() != 1 || len(d.Components()) != 1 {
		t.Fatalf("Transact ok: err=%v renders=%d", err, h.Renders())
	}

	boom := errors.New("boom")
	err = Transact(h, "fail", func() error {
		d.AddComponent("MCB", geom.Pt(70, 10), nil, "")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("Transact error = %v", err)
	}
	if len(d.Components()) != 1 {
		t.Errorf("components = %d, want 1 after rollback", len(d.Components()))
	}
}

func TestSubscribeAndScope(t *testing.T) {
	h, _ := openTest(t)
	var got []Kind
	record := func(ev Event) { got = append(got, ev.Kind) }

	var scope Scope
	scope.Subscribe(h, PartMoved, record)
	scope.Subscribe(h, PartMoved, record)
	scope.Subscribe(h, DragCancelled, record)
	if scope.Len() != 3 || h.Subscribers(PartMoved) != 2 {
		t.Fatalf("scope.Len() = %d, subscribers = %d", scope.Len(), h.Subscribers(PartMoved))
	}

	h.Drag("x", geom.Pt(0, 0))
	h.Cancel()
	h.Select("x")
	if len(got) != 3 {
		t.Errorf("events = %v, want 3", got)
	}

	scope.Close()
	scope.Close()
	h.Drag("x", geom.Pt(0, 0))
	if len(got) != 3 {
		t.Errorf("handler ran after Close: %v", got)
	}
	if h.Subscribers(PartMoved) != 0 || h.Subscribers(DragCancelled) != 0 {
		t.Error("subscriptions survived Close")
	}
}

func TestUnsubscribeDuringDispatch(t *testing.T) {
	h, _ := openTest(t)
	calls := 0
	var unsub Unsubscribe
	unsub = h.Subscribe(PartResized, func(Event) {
		calls++
		unsub()
	})
	h.Subscribe(PartResized, func(Event) { calls++ })

	h.ResizePart("x", geom.Sz(1, 1))
	h.ResizePart("x", geom.Sz(1, 1))
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	unsub()
}

func TestKindString(t *testing.T) {
	if ExternalDrop.String() != "external-drop" || Kind(99).String() != "unknown" {
		t.Error("unexpected Kind names")
	}
}
