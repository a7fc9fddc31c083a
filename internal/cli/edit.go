package cli

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/panelboard/pkg/diagram"
	perrors "github.com/matzehuels/panelboard/pkg/errors"
	pio "github.com/matzehuels/panelboard/pkg/io"
)

// editCommand creates the interactive editor command.
func (c *CLI) editCommand() *cobra.Command {
	var step float64

	cmd := &cobra.Command{
		Use:   "edit <file>",
		Short: "Edit a layout interactively",
		Long: `Open the terminal editor on a layout document. A missing file starts
from the starter panels and is created on the first save.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if path == pio.Stdio {
				return perrors.New(perrors.ErrCodeInvalidPath, "the editor needs a file, not stdin")
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			var d *diagram.Diagram
			if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
				reg, err := cfg.Registry()
				if err != nil {
					return err
				}
				d = diagram.NewStarter(cfg.DiagramOptions(), reg)
			} else if d, err = openDocument(cfg, path); err != nil {
				return err
			}

			s, err := c.attach(cmd.Context(), cfg, path, d)
			if err != nil {
				return err
			}
			defer s.close()

			if step == 0 {
				step = cfg.Grid.Size
			}
			p := tea.NewProgram(NewEditModel(s, step), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			final, err := p.Run()
			if err != nil {
				return err
			}
			if m, ok := final.(EditModel); ok && m.dirty {
				printWarning("Quit with unsaved changes")
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&step, "step", 0, "arrow key step (default: grid size)")

	return cmd
}
