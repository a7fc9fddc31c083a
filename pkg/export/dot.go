package export

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/panelboard/pkg/diagram"
	"github.com/matzehuels/panelboard/pkg/errors"
)

// pointsPerInch converts document units (points) to Graphviz inches.
const pointsPerInch = 72

// ToDOT converts a document to Graphviz DOT. Every node is pinned
// ("pos=x,y!") so neato keeps the document layout; y is flipped because
// Graphviz's origin is the bottom-left corner.
func ToDOT(doc *diagram.Document, opts Options) string {
	opts = opts.withDefaults()
	s := newScene(doc, opts.Registry)
	frame := s.bounds.Inset(-opts.Padding)
	pos := func(x, y float64) string {
		return fmt.Sprintf("%s,%s!", num((x-frame.X)*opts.Scale), num((frame.Bottom()-y)*opts.Scale))
	}
	inches := func(v float64) string { return num(v * opts.Scale / pointsPerInch) }

	var buf bytes.Buffer
	buf.WriteString("digraph panelboard {\n")
	buf.WriteString("  bgcolor=\"white\";\n")
	fmt.Fprintf(&buf, "  inputscale=%d;\n", pointsPerInch)
	buf.WriteString("  notranslate=true;\n")
	buf.WriteString("  splines=false;\n")
	fmt.Fprintf(&buf, "  node [shape=box, fixedsize=true, fontname=\"Helvetica\", fontsize=%s];\n", num(10*opts.Scale))
	buf.WriteString("  edge [arrowsize=0.6];\n")

	if len(s.enclosures) > 0 {
		buf.WriteString("\n")
	}
	for _, e := range s.enclosures {
		c := e.rect.Center()
		attrs := []string{
			"label="+quote(e.label),
			"labelloc=t",
			fmt.Sprintf("width=%s, height=%s", inches(e.rect.Width), inches(e.rect.Height)),
			"pos="+quote(pos(c.X, c.Y)),
			"color="+quote(e.stroke),
		}
		if fill := dotColor(e.fill, ""); fill != "" {
			attrs = append(attrs, "style=\"dashed,filled\"", "fillcolor="+quote(fill))
		} else {
			attrs = append(attrs, "style=dashed")
		}
		fmt.Fprintf(&buf, "  %s [%s];\n", quote(e.key), strings.Join(attrs, ", "))
	}

	if len(s.components) > 0 {
		buf.WriteString("\n")
	}
	for _, p := range s.components {
		c := p.rect.Center()
		fmt.Fprintf(&buf, "  %s [label=%s, width=%s, height=%s, pos=%s, style=filled, fillcolor=%s, color=%s];\n",
			quote(p.key), quote(p.label), inches(p.rect.Width), inches(p.rect.Height), quote(pos(c.X, c.Y)),
			quote(dotColor(p.fill, "white")), quote(dotColor(p.stroke, "black")))
	}

	links := doc.Links()
	if len(links) > 0 {
		buf.WriteString("\n")
	}
	for _, l := range links {
		_, okFrom := s.center(l.From)
		_, okTo := s.center(l.To)
		if !okFrom || !okTo {
			continue
		}
		if l.Text != "" {
			fmt.Fprintf(&buf, "  %s -> %s [label=%s];\n", quote(l.From), quote(l.To), quote(l.Text))
		} else {
			fmt.Fprintf(&buf, "  %s -> %s;\n", quote(l.From), quote(l.To))
		}
	}

	if opts.Distances {
		anns := doc.Annotations()
		if len(anns) > 0 {
			buf.WriteString("\n")
		}
		for i, a := range anns {
			from, to := fmt.Sprintf("dim%d.a", i), fmt.Sprintf("dim%d.b", i)
			for j, id := range []string{from, to} {
				fmt.Fprintf(&buf, "  %s [shape=point, width=0.01, height=0.01, label=\"\", style=invis, pos=%s];\n",
					quote(id), quote(pos(a.Points[j].X, a.Points[j].Y)))
			}
			fmt.Fprintf(&buf, "  %s -> %s [dir=both, arrowhead=tee, arrowtail=tee, color=%s, fontcolor=%s, fontsize=%s, label=%s];\n",
				quote(from), quote(to), quote(dimensionColor), quote(dimensionColor), num(9*opts.Scale), quote(a.Text))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG lays out DOT source with neato and renders it to SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render svg")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a
// pixel-sized one so browsers show the drawing at document scale.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

var dotNamedColor = regexp.MustCompile(`^[a-zA-Z]+[0-9]*$`)

// dotColor passes hex and named colors through; Graphviz understands
// neither rgb() nor rgba(), so those become fallback.
func dotColor(c, fallback string) string {
	if strings.HasPrefix(c, "#") || dotNamedColor.MatchString(c) {
		return c
	}
	return fallback
}

// quote renders s as a DOT quoted string.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
