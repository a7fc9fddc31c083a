package cli

import (
	"github.com/spf13/cobra"

	pio "github.com/matzehuels/panelboard/pkg/io"
)

// copyCommand creates the "copy" command.
func (c *CLI) copyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "copy <file>",
		Short: "Copy a layout document to the clipboard",
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
			if err := pio.CopyDocument(d); err != nil {
				return err
			}
			printSuccess("Copied %s to the clipboard", args[0])
			return nil
		},
	}
}

// pasteCommand creates the "paste" command.
func (c *CLI) pasteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "paste <file>",
		Short: "Write the layout document on the clipboard to a file",
		Long:  `Parse the clipboard as a layout document and write it to file. Nothing is written when the clipboard does not hold a valid layout.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			d, err := newDiagram(cfg)
			if err != nil {
				return err
			}
			if err := pio.PasteDocument(d); err != nil {
				return err
			}
			if err := pio.ExportFile(d, args[0]); err != nil {
				return err
			}
			printSuccess("Pasted layout")
			printFile(args[0])
			printStats(len(d.Enclosures()), len(d.Components()), len(d.Links()))
			return nil
		},
	}
}
