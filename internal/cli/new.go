package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/panelboard/pkg/designer"
	"github.com/matzehuels/panelboard/pkg/diagram"
	perrors "github.com/matzehuels/panelboard/pkg/errors"
	pio "github.com/matzehuels/panelboard/pkg/io"
)

// newCommand creates the "new" command.
func (c *CLI) newCommand() *cobra.Command {
	var empty, force bool

	cmd := &cobra.Command{
		Use:   "new [file]",
		Short: "Create a layout document",
		Long: `Create a layout document with the three starter panels.

The file defaults to ` + designer.DefaultFilename + `; "-" writes to stdout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := designer.DefaultFilename
			if len(args) == 1 {
				path = args[0]
			}
			if path != pio.Stdio && !force {
				if _, err := os.Stat(path); err == nil {
					return perrors.New(perrors.ErrCodeInvalidPath, "%s exists (use --force to overwrite)", path)
				}
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			reg, err := cfg.Registry()
			if err != nil {
				return err
			}
			d := diagram.NewStarter(cfg.DiagramOptions(), reg)
			if empty {
				d = diagram.New(cfg.DiagramOptions(), reg)
			}
			if err := pio.ExportFile(d, path); err != nil {
				return err
			}
			if path == pio.Stdio {
				return nil
			}
			printSuccess("Created layout")
			printFile(path)
			printStats(len(d.Enclosures()), len(d.Components()), len(d.Links()))
			printNewline()
			printNextStep("Edit it", appName+" edit "+path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&empty, "empty", false, "start without the starter panels")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	return cmd
}
