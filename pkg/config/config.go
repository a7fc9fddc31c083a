// Package config loads panelboard settings from a TOML file.
//
// Every value has a default, so a missing file yields [Default]. The file
// lives at $XDG_CONFIG_HOME/panelboard/config.toml, falling back to
// ~/.config/panelboard/config.toml:
//
//	[grid]
//	size = 10
//	allow_top_level = false
//
//	[dimension]
//	scale = 0.5
//	unit = "mm"
//
//	[designer]
//	settle_delay = "100ms"
//
//	[cache]
//	backend = "redis"
//	[cache.redis]
//	addr = "localhost:6379"
//
//	[[templates]]
//	type = "MCCB"
//	category = "breaker"
//	size = "60 130"
//	min_size = "50 90"
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/panelboard/pkg/cache"
	"github.com/matzehuels/panelboard/pkg/designer"
	"github.com/matzehuels/panelboard/pkg/diagram"
	"github.com/matzehuels/panelboard/pkg/dimension"
	perrors "github.com/matzehuels/panelboard/pkg/errors"
	"github.com/matzehuels/panelboard/pkg/geom"
	"github.com/matzehuels/panelboard/pkg/template"
)

const (
	appName  = "panelboard"
	fileName = "config.toml"
)

// Cache backends.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Duration is a time.Duration written as a Go duration string ("100ms").
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) { return []byte(time.Duration(d).String()), nil }

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Config is the full configuration file.
type Config struct {
	Grid      Grid       `toml:"grid"`
	Dimension Dimension  `toml:"dimension"`
	Designer  Designer   `toml:"designer"`
	Export    Export     `toml:"export"`
	Cache     Cache      `toml:"cache"`
	Server    Server     `toml:"server"`
	Templates []Template `toml:"templates"`
	Presets   []Preset   `toml:"presets"`
}

// Grid configures the diagram.
type Grid struct {
	Size          float64 `toml:"size"`
	AllowTopLevel bool    `toml:"allow_top_level"`
}

// Dimension configures distance annotations.
type Dimension struct {
	Proximity      float64 `toml:"proximity"`
	GroupProximity float64 `toml:"group_proximity"`
	MinEdgeGap     float64 `toml:"min_edge_gap"`
	Scale          float64 `toml:"scale"`
	Unit           string  `toml:"unit"`
	Enclosures     bool    `toml:"enclosures"`
}

// Designer configures editing sessions.
type Designer struct {
	SettleDelay   Duration `toml:"settle_delay"`
	ShowDistances bool     `toml:"show_distances"`
	ShowGrid      bool     `toml:"show_grid"`
}

// Export configures exporters.
type Export struct {
	Format string  `toml:"format"`
	Scale  float64 `toml:"scale"`
}

// Cache configures the export artifact cache.
type Cache struct {
	Backend string   `toml:"backend"`
	Dir     string   `toml:"dir"` // Empty means the XDG cache directory
	TTL     Duration `toml:"ttl"`
	Redis   Redis    `toml:"redis"`
}

// Redis configures the Redis cache backend.
type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// Server configures the HTTP API.
type Server struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	Starter      bool     `toml:"starter"` // Start from the three starter panels
}

// Template adds or overrides a component template. Sizes are "w h".
type Template struct {
	Type     string `toml:"type"`
	Category string `toml:"category"`
	Label    string `toml:"label"`
	Color    string `toml:"color"`
	Stroke   string `toml:"stroke"`
	Image    string `toml:"image"`
	Size     string `toml:"size"`
	MinSize  string `toml:"min_size"`
}

// Preset adds a palette entry.
type Preset struct {
	Name  string `toml:"name"`
	Type  string `toml:"type"`
	Color string `toml:"color"`
	Size  string `toml:"size"`
}

// Default returns the built-in configuration.
func Default() Config {
	dim := dimension.DefaultOptions()
	return Config{
		Grid: Grid{Size: diagram.DefaultGridSize},
		Dimension: Dimension{
			Proximity:      dim.Proximity,
			GroupProximity: dim.GroupProximity,
			MinEdgeGap:     dim.MinEdgeGap,
			Scale:          dim.Scale,
			Unit:           dim.Unit,
			Enclosures:     dim.Enclosures,
		},
		Designer: Designer{
			SettleDelay:   Duration(designer.DefaultSettleDelay),
			ShowDistances: true,
			ShowGrid:      true,
		},
		Export: Export{Format: "svg", Scale: 1},
		Cache: Cache{
			Backend: BackendFile,
			TTL:     Duration(cache.TTLArtifact),
			Redis:   Redis{Addr: "localhost:6379", Prefix: appName + ":"},
		},
		Server: Server{
			Addr:         ":8080",
			ReadTimeout:  Duration(10 * time.Second),
			WriteTimeout: Duration(30 * time.Second),
			Starter:      true,
		},
	}
}

// =============================================================================
// Paths
// =============================================================================

// Dir returns the configuration directory.
func Dir() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// Path returns the default configuration file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// CacheDir returns the default artifact cache directory
// ($XDG_CACHE_HOME/panelboard, falling back to ~/.cache/panelboard).
func CacheDir() (string, error) {
	if home := os.Getenv("XDG_CACHE_HOME"); home != "" {
		return filepath.Join(home, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Loading
// =============================================================================

// Load reads the file at path over the defaults. An empty path means
// [Path]; a missing default file is not an error, a missing explicit one
// is.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return Default(), nil
		}
		path = p
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return Default(), nil
	}
	if err != nil {
		return Config{}, perrors.Wrap(perrors.ErrCodeInvalidPath, err, "open config")
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses TOML from r over the defaults and validates the result.
// Unknown keys are rejected.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, perrors.Wrap(perrors.ErrCodeFormat, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, perrors.New(perrors.ErrCodeFormat, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Encode writes cfg as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// String returns cfg as TOML.
func (c Config) String() string {
	var buf bytes.Buffer
	_ = c.Encode(&buf)
	return buf.String()
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	switch {
	case c.Grid.Size < 0:
		return invalid("grid.size must not be negative")
	case c.Dimension.Scale <= 0:
		return invalid("dimension.scale must be positive")
	case c.Dimension.Proximity < 0 || c.Dimension.GroupProximity < 0:
		return invalid("dimension proximities must not be negative")
	case c.Designer.SettleDelay < 0:
		return invalid("designer.settle_delay must not be negative")
	case c.Export.Scale <= 0:
		return invalid("export.scale must be positive")
	}
	switch c.Export.Format {
	case "dot", "svg", "png":
	default:
		return invalid("export.format %q is not one of dot, svg, png", c.Export.Format)
	}
	switch c.Cache.Backend {
	case BackendNone, BackendFile, BackendRedis:
	default:
		return invalid("cache.backend %q is not one of none, file, redis", c.Cache.Backend)
	}
	if c.Cache.Backend == BackendRedis && c.Cache.Redis.Addr == "" {
		return invalid("cache.redis.addr is required for the redis backend")
	}
	if c.Cache.Dir != "" {
		if err := perrors.ValidatePath(c.Cache.Dir); err != nil {
			return err
		}
	}
	for i, t := range c.Templates {
		if t.Type == "" {
			return invalid("templates[%d]: type is required", i)
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return perrors.New(perrors.ErrCodeInvalidInput, format, args...)
}

// =============================================================================
// Conversions
// =============================================================================

// DiagramOptions returns the diagram options of cfg.
func (c Config) DiagramOptions() diagram.Options {
	opts := diagram.DefaultOptions()
	opts.GridSize = c.Grid.Size
	opts.AllowTopLevel = c.Grid.AllowTopLevel
	return opts
}

// DimensionOptions returns the annotator options of cfg.
func (c Config) DimensionOptions() dimension.Options {
	d := c.Dimension
	return dimension.Options{
		Proximity:      d.Proximity,
		GroupProximity: d.GroupProximity,
		MinEdgeGap:     d.MinEdgeGap,
		Scale:          d.Scale,
		Unit:           d.Unit,
		Enclosures:     d.Enclosures,
	}
}

// DesignerOptions returns the designer options of cfg. Logger and
// notifier are left for the host to set.
func (c Config) DesignerOptions() designer.Options {
	return designer.Options{
		SettleDelay:   time.Duration(c.Designer.SettleDelay),
		ShowDistances: c.Designer.ShowDistances,
		ShowGrid:      c.Designer.ShowGrid,
		Dimension:     c.DimensionOptions(),
	}
}

// Registry returns the built-in registry extended with the configured
// templates and presets.
func (c Config) Registry() (*template.Registry, error) {
	reg := template.Default()
	for _, t := range c.Templates {
		tpl := template.Template{
			Type:     t.Type,
			Category: template.Category(t.Category),
			Label:    t.Label,
			Color:    t.Color,
			Stroke:   t.Stroke,
			Image:    t.Image,
		}
		if tpl.Category == "" {
			tpl.Category = template.CategoryGeneric
		}
		var err error
		if tpl.Size, err = optionalSize(t.Size); err != nil {
			return nil, fmt.Errorf("template %s: %w", t.Type, err)
		}
		if tpl.MinSize, err = optionalSize(t.MinSize); err != nil {
			return nil, fmt.Errorf("template %s: %w", t.Type, err)
		}
		if err := reg.Register(tpl); err != nil {
			return nil, err
		}
	}
	for _, p := range c.Presets {
		size, err := optionalSize(p.Size)
		if err != nil {
			return nil, fmt.Errorf("preset %s: %w", p.Name, err)
		}
		if err := reg.AddPreset(template.Preset{Name: p.Name, Type: p.Type, Color: p.Color, Size: size}); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func optionalSize(s string) (geom.Size, error) {
	if s == "" {
		return geom.Size{}, nil
	}
	size, err := geom.ParseSize(s)
	if err != nil {
		return geom.Size{}, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "size")
	}
	return size, nil
}
