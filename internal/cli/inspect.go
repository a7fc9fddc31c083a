package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/panelboard/pkg/diagram"
	"github.com/matzehuels/panelboard/pkg/geom"
)

// inspectCommand creates the "inspect" command.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Summarize a layout document",
		Long:  `Print every entity of a layout document with its enclosure, position and size, then check the document's invariants.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			d, err := openDocument(cfg, args[0])
			if err != nil {
				return err
			}

			fmt.Println(StyleTitle.Render(args[0]))
			printStats(len(d.Enclosures()), len(d.Components()), len(d.Links()))
			printNewline()
			fmt.Println(entityTable(d))

			if err := d.Check(); err != nil {
				printWarning("%v", err)
				return nil
			}
			printSuccess("Layout is consistent")
			return nil
		},
	}
}

// entityTable renders enclosures followed by their members; top-level
// components come last.
func entityTable(d *diagram.Diagram) string {
	var rows [][]string
	for _, e := range d.Enclosures() {
		rows = append(rows, []string{e.Key, "enclosure", e.DisplayName(), "", pos(e.Pos), e.Size.String()})
		for _, m := range d.Members(e.Key) {
			rows = append(rows, componentRow(m, "  "))
		}
	}
	for _, m := range d.Components() {
		if m.TopLevel() {
			rows = append(rows, componentRow(m, ""))
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Key", "Type", "Label", "Enclosure", "Position", "Size").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case rows[row][1] == "enclosure":
				return lipgloss.NewStyle().Foreground(colorCyan)
			case col >= 4:
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return lipgloss.NewStyle()
		}).
		String()
}

func componentRow(m *diagram.Component, indent string) []string {
	group := m.Group
	if group == "" {
		group = "—"
	}
	return []string{indent + m.Key, m.Type, m.Label, group, pos(m.Pos), m.Size.String()}
}

func pos(p *geom.Point) string {
	if p == nil {
		return "—"
	}
	return p.String()
}
