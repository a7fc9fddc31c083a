package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/panelboard/pkg/diagram"
	"github.com/matzehuels/panelboard/pkg/dimension"
	perrors "github.com/matzehuels/panelboard/pkg/errors"
)

// measureCommand creates the "measure" command.
func (c *CLI) measureCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "measure <file> [key]",
		Short: "Print distance annotations",
		Long: `Print the distance annotations the editor shows while dragging: gaps
between aligned components, each component's gaps to its enclosure edges,
and gaps between aligned enclosures. With a key, only annotations that
involve that entity are printed.`,
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: c.completeFileThenKey,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			d, err := openDocument(cfg, args[0])
			if err != nil {
				return err
			}
			anns := dimension.New(cfg.DimensionOptions()).Compute(d.Document())
			if len(args) == 2 {
				key := args[1]
				if _, ok := d.Entity(key); !ok {
					return perrors.New(perrors.ErrCodeNotFound, "entity %q not found", key)
				}
				anns = involving(anns, key)
			}
			if len(anns) == 0 {
				printInfo("No distances to show")
				return nil
			}
			for _, a := range anns {
				printAnnotation(a)
			}
			return nil
		},
	}
	return cmd
}

func involving(anns []diagram.Annotation, key string) []diagram.Annotation {
	var out []diagram.Annotation
	for _, a := range anns {
		if a.From == key || a.To == key {
			out = append(out, a)
		}
	}
	return out
}

func printAnnotation(a diagram.Annotation) {
	fmt.Printf("%s %s %s %s  %s\n",
		StyleNumber.Render(fmt.Sprintf("%8s", a.Text)),
		StyleValue.Render(a.From),
		StyleDim.Render(iconArrow),
		StyleValue.Render(a.To),
		StyleDim.Render(a.Orientation.String()))
}
