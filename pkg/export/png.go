package export

import (
	"bytes"
	"image/color"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/matzehuels/panelboard/pkg/diagram"
	"github.com/matzehuels/panelboard/pkg/errors"
	"github.com/matzehuels/panelboard/pkg/geom"
)

var (
	monoOnce sync.Once
	monoFont *truetype.Font
	monoErr  error
)

func fontFace(size float64) (font.Face, error) {
	monoOnce.Do(func() { monoFont, monoErr = truetype.Parse(gomono.TTF) })
	if monoErr != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, monoErr, "parse font")
	}
	return truetype.NewFace(monoFont, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull}), nil
}

// RenderPNG rasterizes a document: grid, then enclosures, links,
// components and finally distance annotations on top.
func RenderPNG(doc *diagram.Document, opts Options) ([]byte, error) {
	opts = opts.withDefaults()
	s := newScene(doc, opts.Registry)
	frame := s.bounds.Inset(-opts.Padding)

	width := int(math.Ceil(frame.Width * opts.Scale))
	height := int(math.Ceil(frame.Height * opts.Scale))
	dc := gg.NewContext(max(width, 1), max(height, 1))
	dc.SetColor(color.White)
	dc.Clear()
	dc.Scale(opts.Scale, opts.Scale)
	dc.Translate(-frame.X, -frame.Y)

	face, err := fontFace(11)
	if err != nil {
		return nil, err
	}
	dc.SetFontFace(face)

	if opts.Grid {
		drawGrid(dc, frame, opts.GridSize)
	}
	for _, e := range s.enclosures {
		drawEnclosure(dc, e)
	}
	dc.SetColor(color.Black)
	dc.SetLineWidth(1)
	for _, l := range doc.Links() {
		from, ok1 := s.center(l.From)
		to, ok2 := s.center(l.To)
		if ok1 && ok2 {
			drawArrow(dc, from, to)
		}
	}
	for _, c := range s.components {
		drawComponent(dc, c)
	}
	if opts.Distances {
		for _, a := range doc.Annotations() {
			drawDimension(dc, a)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

func drawGrid(dc *gg.Context, frame geom.Rect, cell float64) {
	dc.SetColor(color.RGBA{R: 0xEE, G: 0xEE, B: 0xEE, A: 0xFF})
	dc.SetLineWidth(0.5)
	for x := math.Ceil(frame.Left()/cell) * cell; x <= frame.Right(); x += cell {
		dc.DrawLine(x, frame.Top(), x, frame.Bottom())
	}
	for y := math.Ceil(frame.Top()/cell) * cell; y <= frame.Bottom(); y += cell {
		dc.DrawLine(frame.Left(), y, frame.Right(), y)
	}
	dc.Stroke()
}

func drawEnclosure(dc *gg.Context, e placed) {
	r := e.rect
	if fill, ok := parseColor(e.fill); ok {
		dc.SetColor(fill)
		dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
		dc.Fill()
	}
	stroke, _ := parseColor(e.stroke)
	dc.SetColor(stroke)
	dc.SetLineWidth(1.5)
	dc.SetDash(6, 4)
	dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	dc.Stroke()
	dc.SetDash()
	dc.DrawStringAnchored(e.label, r.X+4, r.Y+4, 0, 1)
}

func drawComponent(dc *gg.Context, c placed) {
	r := c.rect
	fill, ok := parseColor(c.fill)
	if !ok {
		fill = color.White
	}
	dc.SetColor(fill)
	dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	dc.Fill()

	stroke, ok := parseColor(c.stroke)
	if !ok {
		stroke = color.Black
	}
	dc.SetColor(stroke)
	dc.SetLineWidth(1)
	dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	dc.Stroke()

	dc.SetColor(color.Black)
	center := r.Center()
	dc.DrawStringAnchored(c.label, center.X, center.Y, 0.5, 0.5)
}

func drawArrow(dc *gg.Context, from, to geom.Point) {
	dc.DrawLine(from.X, from.Y, to.X, to.Y)
	dc.Stroke()

	dx, dy := to.Sub(from)
	length := math.Hypot(dx, dy)
	if length < 0.1 {
		return
	}
	dx, dy = dx/length, dy/length
	const size, spread = 6.0, 0.5
	dc.MoveTo(to.X, to.Y)
	dc.LineTo(to.X-size*dx+size*dy*spread, to.Y-size*dy-size*dx*spread)
	dc.LineTo(to.X-size*dx-size*dy*spread, to.Y-size*dy+size*dx*spread)
	dc.ClosePath()
	dc.Fill()
}

// drawDimension draws a measurement line with end ticks and its text at
// the midpoint.
func drawDimension(dc *gg.Context, a diagram.Annotation) {
	c, _ := parseColor(dimensionColor)
	dc.SetColor(c)
	dc.SetLineWidth(1)
	p, q := a.Points[0], a.Points[1]
	dc.DrawLine(p.X, p.Y, q.X, q.Y)

	const tick = 4.0
	for _, e := range []geom.Point{p, q} {
		if a.Orientation == diagram.Horizontal {
			dc.DrawLine(e.X, e.Y-tick, e.X, e.Y+tick)
		} else {
			dc.DrawLine(e.X-tick, e.Y, e.X+tick, e.Y)
		}
	}
	dc.Stroke()

	mid := geom.Pt((p.X+q.X)/2, (p.Y+q.Y)/2)
	if a.Orientation == diagram.Horizontal {
		dc.DrawStringAnchored(a.Text, mid.X, mid.Y-tick, 0.5, 0)
	} else {
		dc.DrawStringAnchored(a.Text, mid.X+tick, mid.Y, 0, 0.5)
	}
}

// parseColor understands hex (#RGB, #RRGGBB, #RRGGBBAA), SVG color names
// and rgb()/rgba(). It reports false for empty or unknown colors.
func parseColor(s string) (color.Color, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch {
	case s == "" || s == "transparent":
		return nil, false
	case strings.HasPrefix(s, "#"):
		return parseHex(s[1:])
	case strings.HasPrefix(s, "rgb"):
		return parseRGBFunc(s)
	}
	c, ok := colornames.Map[s]
	return c, ok
}

func parseHex(h string) (color.Color, bool) {
	if len(h) == 3 || len(h) == 4 {
		var b strings.Builder
		for _, r := range h {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		h = b.String()
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return nil, false
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return nil, false
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, true
}

func parseRGBFunc(s string) (color.Color, bool) {
	lp, rp := strings.IndexByte(s, '('), strings.LastIndexByte(s, ')')
	if lp < 0 || rp < lp {
		return nil, false
	}
	parts := strings.Split(s[lp+1:rp], ",")
	if len(parts) != 3 && len(parts) != 4 {
		return nil, false
	}
	var ch [4]uint8
	ch[3] = 0xFF
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, false
		}
		if i == 3 {
			v *= 255
		}
		ch[i] = uint8(math.Max(0, math.Min(255, math.Round(v))))
	}
	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, true
}
