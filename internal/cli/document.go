package cli

import (
	"context"

	"github.com/matzehuels/panelboard/pkg/config"
	"github.com/matzehuels/panelboard/pkg/designer"
	"github.com/matzehuels/panelboard/pkg/diagram"
	"github.com/matzehuels/panelboard/pkg/engine"
	pio "github.com/matzehuels/panelboard/pkg/io"
)

// openDocument reads the layout document at path ("-" for stdin).
func openDocument(cfg config.Config, path string) (*diagram.Diagram, error) {
	d, err := newDiagram(cfg)
	if err != nil {
		return nil, err
	}
	if err := pio.ImportFile(d, path); err != nil {
		return nil, err
	}
	return d, nil
}

// session is a designer attached to a headless engine over one file.
type session struct {
	path  string
	d     *diagram.Diagram
	eng   *engine.Headless
	ds    *designer.Designer
	notes *designer.Recorder
}

// openSession loads path and attaches a designer to it. Notifications are
// recorded, not printed; commands decide which ones the user sees.
func (c *CLI) openSession(ctx context.Context, cfg config.Config, path string) (*session, error) {
	d, err := openDocument(cfg, path)
	if err != nil {
		return nil, err
	}
	return c.attach(ctx, cfg, path, d)
}

func (c *CLI) attach(ctx context.Context, cfg config.Config, path string, d *diagram.Diagram) (*session, error) {
	eng, err := engine.Open(d, engine.DefaultView)
	if err != nil {
		return nil, err
	}
	notes := &designer.Recorder{}
	opts := cfg.DesignerOptions()
	opts.SettleDelay = 0
	opts.Logger = c.Logger
	opts.Notifier = notes
	ds := designer.New(d, eng, opts)
	if err := ds.Attach(ctx); err != nil {
		return nil, err
	}
	return &session{path: path, d: d, eng: eng, ds: ds, notes: notes}, nil
}

// save writes the document back to its file.
func (s *session) save() error {
	return pio.ExportFile(s.d, s.path)
}

func (s *session) close() { s.ds.Close() }
