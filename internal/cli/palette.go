package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// paletteCommand creates the "palette" command.
func (c *CLI) paletteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "palette",
		Short: "List component presets by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			reg, err := cfg.Registry()
			if err != nil {
				return err
			}
			for i, g := range reg.Palette() {
				if i > 0 {
					printNewline()
				}
				fmt.Println(StyleTitle.Render(string(g.Category)))
				for _, p := range g.Presets {
					detail := p.Type + " · " + p.Size.String()
					if p.Color != "" {
						detail += " · " + p.Color
					}
					printKeyValue(p.Name, StyleDim.Render(detail))
				}
			}
			return nil
		},
	}
}
