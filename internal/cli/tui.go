package cli

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/panelboard/pkg/designer"
	"github.com/matzehuels/panelboard/pkg/diagram"
	"github.com/matzehuels/panelboard/pkg/geom"
	pio "github.com/matzehuels/panelboard/pkg/io"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listErrorStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// EditModel - Interactive layout editing
// =============================================================================

// EditModel is the bubbletea model of the terminal editor. Keys drive the
// headless engine the same way pointer gestures drive a canvas: moving
// the cursor entity selects it (opening a drag session with live
// distances), enter releases it and esc cancels the drag.
type EditModel struct {
	s       *session
	step    float64
	cursor  int
	status  string
	failed  bool
	dirty   bool
	quitArm bool
	width   int
}

// NewEditModel creates an editor over s. Arrow keys move by step.
func NewEditModel(s *session, step float64) EditModel {
	if step <= 0 {
		step = diagram.DefaultGridSize
	}
	return EditModel{s: s, step: step, width: 80}
}

func (m EditModel) Init() tea.Cmd {
	return nil
}

func (m EditModel) keys() []string {
	entities := m.s.d.Document().Entities()
	keys := make([]string, len(entities))
	for i, e := range entities {
		keys[i] = e.EntityKey()
	}
	return keys
}

func (m EditModel) current() (diagram.Entity, bool) {
	keys := m.keys()
	if m.cursor < 0 || m.cursor >= len(keys) {
		return nil, false
	}
	return m.s.d.Entity(keys[m.cursor])
}

func (m EditModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		key := msg.String()
		if key != "q" {
			m.quitArm = false
		}
		switch key {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			if m.dirty && !m.quitArm {
				m.quitArm = true
				m.setStatus("Unsaved changes; press q again to quit", true)
				return m, nil
			}
			return m, tea.Quit
		case "tab", "j":
			m.release()
			if n := len(m.keys()); n > 0 {
				m.cursor = (m.cursor + 1) % n
			}
		case "shift+tab", "k":
			m.release()
			if n := len(m.keys()); n > 0 {
				m.cursor = (m.cursor + n - 1) % n
			}
		case "up", "down", "left", "right":
			m.nudge(key)
		case "+", "=":
			m.grow(m.step)
		case "-":
			m.grow(-m.step)
		case "enter":
			m.release()
		case "esc":
			if m.s.ds.Dragging() {
				m.s.eng.Cancel()
				m.s.eng.Select()
				m.setStatus("Drag cancelled", false)
			}
		case "x", "delete":
			if e, ok := m.current(); ok {
				m.release()
				if err := m.s.ds.Remove(e.EntityKey()); err != nil {
					m.setStatus(err.Error(), true)
				} else {
					m.dirty = true
					m.setStatus("Removed "+e.EntityKey(), false)
					if m.cursor >= len(m.keys()) && m.cursor > 0 {
						m.cursor--
					}
				}
			}
		case "d":
			m.s.ds.SetShowDistances(!m.s.ds.ShowDistances())
		case "t":
			m.s.ds.SetAllowTopLevel(!m.s.ds.AllowTopLevel())
		case "g":
			m.s.ds.SetShowGrid(!m.s.ds.ShowGrid())
		case "s":
			m.save()
		}
		m.collect()
	}
	return m, nil
}

// nudge moves the cursor entity one step, opening a drag session first.
func (m *EditModel) nudge(dir string) {
	e, ok := m.current()
	if !ok {
		return
	}
	r, ok := e.Bounds()
	if !ok {
		return
	}
	pos := r.Position()
	switch dir {
	case "up":
		pos.Y -= m.step
	case "down":
		pos.Y += m.step
	case "left":
		pos.X -= m.step
	case "right":
		pos.X += m.step
	}
	if !m.s.ds.Dragging() {
		m.s.eng.Select(e.EntityKey())
	}
	before := m.s.d.Revision()
	m.s.eng.Drag(e.EntityKey(), pos)
	if m.s.d.Revision() != before {
		m.dirty = true
	}
}

func (m *EditModel) grow(delta float64) {
	e, ok := m.current()
	if !ok {
		return
	}
	r, ok := e.Bounds()
	if !ok {
		return
	}
	if !m.s.ds.Dragging() {
		m.s.eng.Select(e.EntityKey())
	}
	before := m.s.d.Revision()
	m.s.eng.ResizePart(e.EntityKey(), geom.Sz(r.Width+delta, r.Height+delta))
	if m.s.d.Revision() != before {
		m.dirty = true
	}
}

// release ends the drag session, if any.
func (m *EditModel) release() {
	if m.s.ds.Dragging() {
		m.s.eng.Select()
	}
}

func (m *EditModel) save() {
	var buf bytes.Buffer
	if err := m.s.ds.Save(&buf); err != nil {
		return
	}
	if err := pio.WriteFile(m.s.path, buf.Bytes()); err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.dirty = false
}

// collect turns the newest designer notification into the status line.
func (m *EditModel) collect() {
	notes := m.s.notes.Drain()
	if len(notes) == 0 {
		return
	}
	n := notes[len(notes)-1]
	m.setStatus(n.Message, n.Level == designer.LevelError)
}

func (m *EditModel) setStatus(s string, failed bool) {
	m.status, m.failed = s, failed
}

func (m EditModel) View() string {
	var b strings.Builder

	title := "Edit " + m.s.path
	if m.dirty {
		title += " *"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("tab/j/k select  ←↑↓→ move  +/- resize  ⏎ drop  esc cancel  x delete"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("d distances:%s  t top-level:%s  g grid:%s  s save  q quit",
		onOff(m.s.ds.ShowDistances()), onOff(m.s.ds.AllowTopLevel()), onOff(m.s.ds.ShowGrid()))))
	b.WriteString("\n\n")

	keys := m.keys()
	for i, k := range keys {
		e, _ := m.s.d.Entity(k)
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		line := cursor + describe(e)
		switch {
		case i == m.cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case isEnclosure(e):
			b.WriteString(listNormalStyle.Render(line))
		default:
			b.WriteString(listDimStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(renderMinimap(m.s.d, m.selectedKey(), m.s.ds.ShowGrid(), min(m.width-2, 72)))
	b.WriteString("\n")

	if anns := m.s.d.Annotations(); len(anns) > 0 {
		b.WriteString("\n")
		for _, a := range anns {
			b.WriteString(fmt.Sprintf("  %s %s %s %s\n", StyleNumber.Render(fmt.Sprintf("%6s", a.Text)),
				a.From, StyleDim.Render(iconArrow), a.To))
		}
	}

	if m.status != "" {
		b.WriteString("\n")
		if m.failed {
			b.WriteString(listErrorStyle.Render(iconError + " " + m.status))
		} else {
			b.WriteString(StyleSuccess.Render(iconSuccess + " " + m.status))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m EditModel) selectedKey() string {
	if e, ok := m.current(); ok {
		return e.EntityKey()
	}
	return ""
}

// =============================================================================
// Helpers
// =============================================================================

func describe(e diagram.Entity) string {
	switch e := e.(type) {
	case *diagram.Enclosure:
		return fmt.Sprintf("%-16s %s  %s", e.DisplayName(), pos(e.Pos), e.Size)
	case *diagram.Component:
		group := e.Group
		if group == "" {
			group = "top level"
		}
		return fmt.Sprintf("  %-14s %s  %s  in %s", e.Key, pos(e.Pos), e.Size, group)
	}
	return ""
}

func isEnclosure(e diagram.Entity) bool {
	_, ok := e.(*diagram.Enclosure)
	return ok
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

// renderMinimap draws the layout on a character grid at most width
// columns wide. Cells are twice as tall as wide, like terminal glyphs.
func renderMinimap(d *diagram.Diagram, selected string, grid bool, width int) string {
	var bounds geom.Rect
	var found bool
	for _, e := range d.Document().Entities() {
		if r, ok := e.Bounds(); ok {
			if !found {
				bounds, found = r, true
			} else {
				bounds = bounds.Union(r)
			}
		}
	}
	if !found || width < 10 || bounds.Width <= 0 {
		return ""
	}

	sx := bounds.Width / float64(width-1)
	sy := sx * 2
	height := int(math.Ceil(bounds.Height/sy)) + 1
	cells := make([][]rune, height)
	for y := range cells {
		fill := ' '
		if grid {
			fill = '·'
		}
		cells[y] = []rune(strings.Repeat(string(fill), width))
	}
	cell := func(p geom.Point) (int, int) {
		x := int(math.Round((p.X - bounds.X) / sx))
		y := int(math.Round((p.Y - bounds.Y) / sy))
		return min(max(x, 0), width-1), min(max(y, 0), height-1)
	}

	for _, e := range d.Enclosures() {
		r, ok := e.Bounds()
		if !ok {
			continue
		}
		x0, y0 := cell(r.Position())
		x1, y1 := cell(geom.Pt(r.Right(), r.Bottom()))
		for x := x0; x <= x1; x++ {
			cells[y0][x], cells[y1][x] = '─', '─'
		}
		for y := y0; y <= y1; y++ {
			cells[y][x0], cells[y][x1] = '│', '│'
		}
		cells[y0][x0], cells[y0][x1], cells[y1][x0], cells[y1][x1] = '┌', '┐', '└', '┘'
	}
	for _, c := range d.Components() {
		r, ok := c.Bounds()
		if !ok {
			continue
		}
		mark := '▒'
		if c.Key == selected {
			mark = '█'
		}
		x0, y0 := cell(r.Position())
		x1, y1 := cell(geom.Pt(r.Right(), r.Bottom()))
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				cells[y][x] = mark
			}
		}
	}

	lines := make([]string, height)
	for y, row := range cells {
		lines[y] = string(row)
	}
	return listDimStyle.Render(strings.Join(lines, "\n"))
}
