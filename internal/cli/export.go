package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/panelboard/pkg/dimension"
	perrors "github.com/matzehuels/panelboard/pkg/errors"
	"github.com/matzehuels/panelboard/pkg/export"
	pio "github.com/matzehuels/panelboard/pkg/io"
)

type exportOpts struct {
	formats   string
	output    string
	scale     float64
	distances bool
	measure   string
	grid      bool
	noCache   bool
	refresh   bool
}

// exportCommand creates the "export" command.
func (c *CLI) exportCommand() *cobra.Command {
	var opts exportOpts

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Render a layout as DOT, SVG or PNG",
		Long: `Render a layout document. Artifacts are cached by document content and
options, so re-exporting an unchanged layout is instant.

With --measure, the distance annotations of one entity are computed and
drawn, as the editor shows them while that entity is dragged.`,
		Example: `  panelboard export layout.json -f svg,png
  panelboard export layout.json -f png --scale 2 --grid --measure MCB-1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "comma-separated formats: dot, svg, png (default from config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `output base path (default: input without extension; "-" for stdout)`)
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "pixels per document unit (default from config)")
	cmd.Flags().BoolVar(&opts.distances, "distances", false, "draw the annotations stored in the document")
	cmd.Flags().StringVar(&opts.measure, "measure", "", "compute and draw the distances of this entity")
	cmd.Flags().BoolVar(&opts.grid, "grid", false, "draw the snap grid (png)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render and overwrite cached artifacts")

	return cmd
}

func (c *CLI) runExport(cmd *cobra.Command, path string, opts exportOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	formats := parseFormats(opts.formats, cfg.Export.Format)
	for _, f := range formats {
		if err := export.ValidateFormat(f); err != nil {
			return err
		}
	}
	if opts.output == pio.Stdio && len(formats) > 1 {
		return perrors.New(perrors.ErrCodeInvalidInput, "stdout takes a single format")
	}
	scale := opts.scale
	if scale == 0 {
		scale = cfg.Export.Scale
	}

	d, err := openDocument(cfg, path)
	if err != nil {
		return err
	}
	if opts.measure != "" {
		if _, ok := d.Entity(opts.measure); !ok {
			return perrors.New(perrors.ErrCodeNotFound, "entity %q not found", opts.measure)
		}
		d.SetAnnotations(involving(dimension.New(cfg.DimensionOptions()).Compute(d.Document()), opts.measure))
		opts.distances = true
	}

	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	base := opts.output
	if base == "" {
		base = strings.TrimSuffix(path, filepath.Ext(path))
	}

	prog := newProgress(logger)
	var written []string
	for _, format := range formats {
		spinner := newSpinnerWithContext(ctx, "Rendering "+format+"...")
		spinner.Start()
		res, err := runner.Export(ctx, d.Document(), export.Options{
			Format:    format,
			Scale:     scale,
			Distances: opts.distances,
			Grid:      opts.grid,
			GridSize:  cfg.Grid.Size,
			Registry:  d.Registry(),
			Refresh:   opts.refresh,
		})
		spinner.Stop()
		if spinner.Cancelled() {
			return ctx.Err()
		}
		if err != nil {
			return fmt.Errorf("export %s: %w", format, err)
		}

		out := base + "." + format
		if base == pio.Stdio {
			out = pio.Stdio
		}
		if err := pio.WriteFile(out, res.Data); err != nil {
			return err
		}
		if out == pio.Stdio {
			return nil
		}
		logger.Debug("exported", "format", format, "bytes", len(res.Data), "cached", res.Cached, "key", res.Key)
		written = append(written, out)
		printFile(out)
		printCacheStatus(res.Cached)
	}
	prog.donef("Exported %d files", len(written))
	return nil
}

// parseFormats parses a comma-separated format list.
func parseFormats(s, fallback string) []string {
	if s == "" {
		return []string{fallback}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}
