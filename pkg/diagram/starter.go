package diagram

import (
	"github.com/matzehuels/panelboard/pkg/geom"
	"github.com/matzehuels/panelboard/pkg/template"
)

// StarterPanel is one enclosure of the starter layout.
type StarterPanel struct {
	Label string
	Pos   geom.Point
	Size  geom.Size
}

// StarterPanels is the layout a new editor session opens with.
var StarterPanels = []StarterPanel{
	{Label: "Panel A", Pos: geom.Pt(0, 0), Size: geom.Sz(200, 300)},
	{Label: "Panel B", Pos: geom.Pt(250, 0), Size: geom.Sz(200, 300)},
	{Label: "Panel C", Pos: geom.Pt(0, 350), Size: geom.Sz(450, 200)},
}

// NewStarter creates a diagram pre-populated with [StarterPanels].
func NewStarter(opts Options, reg *template.Registry) *Diagram {
	d := New(opts, reg)
	for _, p := range StarterPanels {
		d.AddEnclosure(p.Label, p.Pos, p.Size)
	}
	return d
}
