package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/panelboard/pkg/designer"
	"github.com/matzehuels/panelboard/pkg/diagram"
	perrors "github.com/matzehuels/panelboard/pkg/errors"
	"github.com/matzehuels/panelboard/pkg/geom"
)

// placeCommand creates the "place" command group. Every subcommand edits
// the file in place through one designer transaction.
func (c *CLI) placeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "place",
		Short: "Add, move, resize and remove entities",
	}

	cmd.AddCommand(c.placeAddCommand())
	cmd.AddCommand(c.placeEnclosureCommand())
	cmd.AddCommand(c.placeDropCommand())
	cmd.AddCommand(c.placeMoveCommand())
	cmd.AddCommand(c.placeResizeCommand())
	cmd.AddCommand(c.placeRemoveCommand())

	return cmd
}

// edit opens a session on path, runs fn and saves when fn reports a change.
func (c *CLI) edit(cmd *cobra.Command, path string, fn func(s *session) (bool, error)) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	s, err := c.openSession(cmd.Context(), cfg, path)
	if err != nil {
		return err
	}
	defer s.close()

	changed, err := fn(s)
	for _, n := range s.notes.Drain() {
		if n.Level == designer.LevelError {
			printNotification(n)
		}
	}
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	if err := s.save(); err != nil {
		return err
	}
	printFile(path)
	return nil
}

func (c *CLI) placeAddCommand() *cobra.Command {
	var typ, label, color, at, size string

	cmd := &cobra.Command{
		Use:   "add <file>",
		Short: "Add a component",
		Long: `Add a component at a position ("x y"). The component joins the smallest
enclosure containing it; outside every enclosure it is added top-level.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec := diagram.ComponentSpec{Type: typ, Label: label, Color: color}
			if err := perrors.ValidateColor(color); err != nil {
				return err
			}
			p, err := parsePointFlag("at", at)
			if err != nil {
				return err
			}
			spec.Pos = p
			if size != "" {
				sz, err := parseSizeFlag("size", size)
				if err != nil {
					return err
				}
				spec.Size = &sz
			}
			return c.edit(cmd, args[0], func(s *session) (bool, error) {
				key := s.ds.AddComponent(spec)
				comp, _ := s.d.Document().Component(key)
				printPlacement("Added", diagram.Placement{
					Key: key, Group: comp.Group, Accepted: true, Pos: *comp.Pos, Size: comp.Size,
				})
				return true, nil
			})
		},
	}

	cmd.Flags().StringVarP(&typ, "type", "t", "", "component type (see palette)")
	cmd.Flags().StringVarP(&label, "label", "l", "", "display label (default: type)")
	cmd.Flags().StringVar(&color, "color", "", "fill color")
	cmd.Flags().StringVar(&at, "at", "0 0", `position as "x y"`)
	cmd.Flags().StringVar(&size, "size", "", `size as "w h" (default: template size)`)
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func (c *CLI) placeEnclosureCommand() *cobra.Command {
	var label, at, size string

	cmd := &cobra.Command{
		Use:   "enclosure <file>",
		Short: "Add an enclosure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parsePointFlag("at", at)
			if err != nil {
				return err
			}
			return c.edit(cmd, args[0], func(s *session) (bool, error) {
				sz := s.d.EnclosureMinSize()
				if size != "" {
					if sz, err = parseSizeFlag("size", size); err != nil {
						return false, err
					}
				}
				key := s.ds.AddEnclosure(label, p, sz)
				e, _ := s.d.Document().Enclosure(key)
				printPlacement("Added", diagram.Placement{Key: key, Accepted: true, Pos: *e.Pos, Size: e.Size})
				return true, nil
			})
		},
	}

	cmd.Flags().StringVarP(&label, "label", "l", "", "enclosure label (also its key)")
	cmd.Flags().StringVar(&at, "at", "0 0", `position as "x y"`)
	cmd.Flags().StringVar(&size, "size", "", `size as "w h" (default: minimum enclosure size)`)

	return cmd
}

func (c *CLI) placeDropCommand() *cobra.Command {
	var preset, payload, at string

	cmd := &cobra.Command{
		Use:   "drop <file>",
		Short: "Drop a palette preset or drag payload",
		Long: `Drop a component the way the palette does. Unlike "place add", a drop
outside every enclosure is rejected unless top-level placement is allowed.`,
		Example: `  panelboard place drop layout.json --preset "TX 250kVA" --at "20 360"
  panelboard place drop layout.json --payload '{"type":"ACB","data":{"label":"ACB 1"}}' --at "270 20"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parsePointFlag("at", at)
			if err != nil {
				return err
			}
			return c.edit(cmd, args[0], func(s *session) (bool, error) {
				var pl designer.Payload
				switch {
				case preset != "":
					pr, ok := s.d.Registry().Preset(preset)
					if !ok {
						return false, perrors.New(perrors.ErrCodeNotFound, "preset %q not found", preset)
					}
					pl = designer.PresetPayload(pr)
				case payload != "":
					if pl, err = designer.DecodePayload(payload); err != nil {
						return false, err
					}
				default:
					return false, perrors.New(perrors.ErrCodeInvalidInput, "one of --preset or --payload is required")
				}
				placed := s.ds.Drop(p, pl)
				printPlacement("Dropped", placed)
				return placed.Accepted, nil
			})
		},
	}

	cmd.Flags().StringVarP(&preset, "preset", "p", "", "palette preset name")
	cmd.Flags().StringVar(&payload, "payload", "", "drag payload JSON")
	cmd.Flags().StringVar(&at, "at", "0 0", `drop point as "x y"`)
	cmd.MarkFlagsMutuallyExclusive("preset", "payload")

	return cmd
}

func (c *CLI) placeMoveCommand() *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:               "move <file> <key>",
		Short:             "Move an entity",
		Long:              `Move an entity to a position. Moving an enclosure carries its members along.`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: c.completeFileThenKey,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parsePointFlag("to", to)
			if err != nil {
				return err
			}
			return c.edit(cmd, args[0], func(s *session) (bool, error) {
				pl, err := s.ds.Move(args[1], p)
				if err != nil {
					return false, err
				}
				printPlacement("Moved", pl)
				return pl.Accepted, nil
			})
		},
	}

	cmd.Flags().StringVar(&to, "to", "", `target position as "x y"`)
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func (c *CLI) placeResizeCommand() *cobra.Command {
	var size string

	cmd := &cobra.Command{
		Use:               "resize <file> <key>",
		Short:             "Resize an entity",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: c.completeFileThenKey,
		RunE: func(cmd *cobra.Command, args []string) error {
			sz, err := parseSizeFlag("size", size)
			if err != nil {
				return err
			}
			return c.edit(cmd, args[0], func(s *session) (bool, error) {
				pl, err := s.ds.Resize(args[1], sz)
				if err != nil {
					return false, err
				}
				printPlacement("Resized", pl)
				return pl.Accepted, nil
			})
		},
	}

	cmd.Flags().StringVar(&size, "size", "", `new size as "w h"`)
	_ = cmd.MarkFlagRequired("size")

	return cmd
}

func (c *CLI) placeRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "remove <file> <key>",
		Short:             "Remove an entity",
		Long:              `Remove an entity. Members of a removed enclosure become top-level.`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: c.completeFileThenKey,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(cmd, args[0], func(s *session) (bool, error) {
				if err := s.ds.Remove(args[1]); err != nil {
					return false, err
				}
				printSuccess("Removed %s", StyleHighlight.Render(args[1]))
				return true, nil
			})
		},
	}
}

// =============================================================================
// Flag Parsing
// =============================================================================

func parsePointFlag(name, v string) (geom.Point, error) {
	p, err := geom.ParsePoint(v)
	if err != nil {
		return geom.Point{}, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "--%s", name)
	}
	return p, nil
}

func parseSizeFlag(name, v string) (geom.Size, error) {
	s, err := geom.ParseSize(v)
	if err != nil {
		return geom.Size{}, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "--%s", name)
	}
	return s, nil
}
