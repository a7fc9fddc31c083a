package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/panelboard/internal/server"
	"github.com/matzehuels/panelboard/pkg/config"
	"github.com/matzehuels/panelboard/pkg/diagram"
)

// serveCommand creates the "serve" command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve one editing session over HTTP",
		Long: `Serve an editing session over a JSON HTTP API. The session starts from
file when given, otherwise from the starter panels (or an empty layout
when server.starter is false). GET /document returns the current layout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			d, err := c.serveDocument(cfg, args)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv, err := server.New(ctx, d, server.Options{
				Designer:     cfg.DesignerOptions(),
				Runner:       runner,
				Logger:       c.Logger,
				ReadTimeout:  time.Duration(cfg.Server.ReadTimeout),
				WriteTimeout: time.Duration(cfg.Server.WriteTimeout),
			})
			if err != nil {
				return err
			}

			printSuccess("Serving on %s", StyleHighlight.Render(addr))
			printDetail("Press Ctrl+C to stop")
			err = srv.Run(ctx, addr)
			if errors.Is(err, context.Canceled) {
				printInfo("Server stopped")
			}
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the artifact cache")

	return cmd
}

func (c *CLI) serveDocument(cfg config.Config, args []string) (*diagram.Diagram, error) {
	if len(args) == 1 {
		return openDocument(cfg, args[0])
	}
	if !cfg.Server.Starter {
		return newDiagram(cfg)
	}
	reg, err := cfg.Registry()
	if err != nil {
		return nil, err
	}
	return diagram.NewStarter(cfg.DiagramOptions(), reg), nil
}
