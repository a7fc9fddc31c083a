// Package cli implements the panelboard command-line interface.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/panelboard/pkg/buildinfo"
	"github.com/matzehuels/panelboard/pkg/cache"
	"github.com/matzehuels/panelboard/pkg/config"
	"github.com/matzehuels/panelboard/pkg/diagram"
	"github.com/matzehuels/panelboard/pkg/export"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "panelboard"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Panelboard lays out electrical panel enclosures",
		Long:         `Panelboard edits enclosure layout documents: components placed inside panel enclosures, snapped to a grid, with live distance annotations while dragging.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/panelboard/config.toml)")

	root.AddCommand(c.newCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.placeCommand())
	root.AddCommand(c.measureCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.paletteCommand())
	root.AddCommand(c.copyCommand())
	root.AddCommand(c.pasteCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// config loads the configuration once per process.
func (c *CLI) loadConfig() (config.Config, error) {
	if c.cfg != nil {
		return *c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	c.Logger.Debug("config loaded", "path", c.configPath, "cache", cfg.Cache.Backend)
	c.cfg = &cfg
	return cfg, nil
}

// newDiagram creates an empty diagram configured from cfg.
func newDiagram(cfg config.Config) (*diagram.Diagram, error) {
	reg, err := cfg.Registry()
	if err != nil {
		return nil, err
	}
	return diagram.New(cfg.DiagramOptions(), reg), nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates an export runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, noCache bool) (*export.Runner, error) {
	cc, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	// Artifacts of one release are never served to another.
	keyer := cache.NewScopedKeyer(nil, buildinfo.Version+":")
	r := export.NewRunner(cc, keyer, c.Logger)
	r.TTL = time.Duration(cfg.Cache.TTL)
	return r, nil
}

// newCache opens the configured backend. An unreachable Redis falls back
// to no caching with a warning.
func (c *CLI) newCache(ctx context.Context, cfg config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		r := cfg.Cache.Redis
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: r.Addr, Password: r.Password, DB: r.DB, Prefix: r.Prefix})
		if err != nil {
			c.Logger.Warn("redis cache unavailable, exporting uncached", "addr", r.Addr, "err", err)
			return cache.NewNullCache(), nil
		}
		return rc, nil
	default:
		dir, err := cacheDir(cfg)
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

// cacheDir returns the configured file cache directory.
func cacheDir(cfg config.Config) (string, error) {
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	return config.CacheDir()
}
