package designer

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/panelboard/pkg/diagram"
	"github.com/matzehuels/panelboard/pkg/dimension"
	"github.com/matzehuels/panelboard/pkg/engine"
	"github.com/matzehuels/panelboard/pkg/errors"
	"github.com/matzehuels/panelboard/pkg/geom"
	"github.com/matzehuels/panelboard/pkg/observability"
)

// DefaultSettleDelay is how long Attach waits for the view to settle
// before subscribing to engine events.
const DefaultSettleDelay = 100 * time.Millisecond

// Options configures a [Designer].
type Options struct {
	SettleDelay   time.Duration // Zero means no delay
	ShowDistances bool
	ShowGrid      bool
	Dimension     dimension.Options
	Logger        *log.Logger // Defaults to a discarding logger
	Notifier      Notifier    // Defaults to LogNotifier(Logger)
}

// DefaultOptions returns the options of a new editor session.
func DefaultOptions() Options {
	return Options{
		SettleDelay:   DefaultSettleDelay,
		ShowDistances: true,
		ShowGrid:      true,
		Dimension:     dimension.DefaultOptions(),
	}
}

// Designer is one editing session. It is not safe for concurrent use;
// hosts deliver events from a single goroutine or serialize access.
type Designer struct {
	d        *diagram.Diagram
	eng      engine.Engine
	annot    *dimension.Annotator
	logger   *log.Logger
	notifier Notifier
	delay    time.Duration

	ctx      context.Context
	scope    engine.Scope
	attached bool

	showDistances bool
	showGrid      bool

	dragging bool
	selected []string
	before   diagram.Snapshot
}

// New creates a designer over d rendered by eng. Call [Designer.Attach]
// before delivering events.
func New(d *diagram.Diagram, eng engine.Engine, opts Options) *Designer {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = LogNotifier(logger)
	}
	return &Designer{
		d:             d,
		eng:           eng,
		annot:         dimension.New(opts.Dimension),
		logger:        logger,
		notifier:      notifier,
		delay:         opts.SettleDelay,
		ctx:           context.Background(),
		showDistances: opts.ShowDistances,
		showGrid:      opts.ShowGrid,
	}
}

// Diagram returns the session's diagram.
func (ds *Designer) Diagram() *diagram.Diagram { return ds.d }

// Engine returns the session's engine.
func (ds *Designer) Engine() engine.Engine { return ds.eng }

// =============================================================================
// Lifecycle
// =============================================================================

// Attach waits the settle delay, then subscribes to engine events. It
// fails with ENGINE_INIT when there is no engine or diagram, and with
// ctx.Err() when ctx ends first. Attaching twice is a no-op.
func (ds *Designer) Attach(ctx context.Context) error {
	if ds.attached {
		return nil
	}
	if ds.eng == nil || ds.d == nil {
		err := errors.New(errors.ErrCodeEngineInit, "diagram engine is not available")
		ds.notifier.Notify(Notification{
			Level:   LevelError,
			Title:   "Error",
			Message: "Failed to initialize the diagram. Please reload.",
			Code:    errors.ErrCodeEngineInit,
		})
		return err
	}
	if ds.delay > 0 {
		timer := time.NewTimer(ds.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	ds.ctx = ctx
	ds.scope.Subscribe(ds.eng, engine.SelectionChanged, ds.handle(ds.onSelection))
	ds.scope.Subscribe(ds.eng, engine.PartMoved, ds.handle(ds.onMoved))
	ds.scope.Subscribe(ds.eng, engine.PartResized, ds.handle(ds.onResized))
	ds.scope.Subscribe(ds.eng, engine.ExternalDrop, ds.handle(ds.onDrop))
	ds.scope.Subscribe(ds.eng, engine.DragCancelled, ds.handle(ds.onCancel))
	ds.attached = true
	ds.logger.Debug("designer attached", "entities", ds.d.Document().Len())
	return nil
}

// Ready reports whether the designer is attached.
func (ds *Designer) Ready() bool { return ds.attached }

// Close unsubscribes every handler. The designer may be attached again.
func (ds *Designer) Close() {
	ds.scope.Close()
	ds.attached = false
}

func (ds *Designer) handle(fn func(engine.Event)) engine.Handler {
	return func(ev engine.Event) {
		start := time.Now()
		fn(ev)
		observability.Designer().OnEvent(ds.ctx, ev.Kind.String(), time.Since(start))
	}
}

// =============================================================================
// Settings
// =============================================================================

// ShowDistances reports whether distance annotations are shown.
func (ds *Designer) ShowDistances() bool { return ds.showDistances }

// SetShowDistances toggles distance annotations. Turning them off removes
// every annotation; turning them on during a drag computes them.
func (ds *Designer) SetShowDistances(on bool) {
	ds.showDistances = on
	ds.transact("toggle distances", func() {
		if on && ds.dragging {
			ds.annotate()
		} else if !on {
			ds.d.ClearAnnotations()
		}
	})
}

// AllowTopLevel reports whether components may be placed outside enclosures.
func (ds *Designer) AllowTopLevel() bool { return ds.d.AllowTopLevel() }

// SetAllowTopLevel toggles top-level placement.
func (ds *Designer) SetAllowTopLevel(on bool) {
	ds.d.SetAllowTopLevel(on)
	msg := "Top-level placement disabled"
	if on {
		msg = "Top-level placement enabled"
	}
	ds.notifier.Notify(Notification{Level: LevelInfo, Message: msg})
}

// ShowGrid reports whether the grid is visible.
func (ds *Designer) ShowGrid() bool { return ds.showGrid }

// SetShowGrid toggles grid visibility and re-renders.
func (ds *Designer) SetShowGrid(on bool) {
	ds.showGrid = on
	ds.transact("toggle grid", func() {})
}

// Dragging reports whether a drag session is active.
func (ds *Designer) Dragging() bool { return ds.dragging }

// Selected returns the keys of the current selection.
func (ds *Designer) Selected() []string { return ds.selected }

// =============================================================================
// Direct operations
// =============================================================================

// Move moves an entity in one transaction, as a drag would.
func (ds *Designer) Move(key string, pos geom.Point) (diagram.Placement, error) {
	var pl diagram.Placement
	var err error
	ds.transact("move", func() {
		pl, err = ds.d.Move(key, pos)
		ds.afterPlacement("move", pl, err)
	})
	return pl, err
}

// Resize resizes an entity in one transaction.
func (ds *Designer) Resize(key string, size geom.Size) (diagram.Placement, error) {
	var pl diagram.Placement
	var err error
	ds.transact("resize", func() {
		pl, err = ds.d.Resize(key, size)
		ds.afterPlacement("resize", pl, err)
	})
	return pl, err
}

// Remove deletes an entity in one transaction.
func (ds *Designer) Remove(key string) error {
	var err error
	ds.transact("remove", func() {
		err = ds.d.Remove(key)
		if err == nil && ds.dragging && ds.showDistances {
			ds.annotate()
		}
	})
	return err
}

// AddEnclosure adds an enclosure in one transaction.
func (ds *Designer) AddEnclosure(label string, pos geom.Point, size geom.Size) string {
	var key string
	ds.transact("add enclosure", func() {
		key = ds.d.AddEnclosure(label, pos, size)
	})
	return key
}

// AddComponent adds a component in one transaction regardless of the
// top-level setting. Use [Designer.Drop] for palette drops.
func (ds *Designer) AddComponent(spec diagram.ComponentSpec) string {
	var key string
	ds.transact("add component", func() {
		key = ds.d.AddComponentSpec(spec)
	})
	return key
}

// BeginDrag selects keys and starts a drag session.
func (ds *Designer) BeginDrag(keys ...string) {
	ds.onSelection(engine.Event{Kind: engine.SelectionChanged, Selected: keys})
}

// EndDrag clears the selection and ends the drag session.
func (ds *Designer) EndDrag() {
	ds.onSelection(engine.Event{Kind: engine.SelectionChanged})
}

// CancelDrag restores the document to its state when the drag began.
func (ds *Designer) CancelDrag() {
	ds.onCancel(engine.Event{Kind: engine.DragCancelled})
}

// Annotate recomputes distances now, regardless of drag state, and
// returns how many were produced. It returns 0 when distances are off.
func (ds *Designer) Annotate() int {
	var n int
	ds.transact("annotate", func() {
		if ds.showDistances {
			n = ds.annotate()
		}
	})
	return n
}

// =============================================================================
// Internals
// =============================================================================

func (ds *Designer) transact(name string, fn func()) {
	ds.eng.StartTransaction(name)
	fn()
	ds.eng.CommitTransaction(name)
}

func (ds *Designer) annotate() int {
	n := ds.annot.Apply(ds.d)
	observability.Designer().OnAnnotations(ds.ctx, n)
	return n
}

func (ds *Designer) afterPlacement(op string, pl diagram.Placement, err error) {
	if err != nil {
		ds.logger.Warn("placement failed", "op", op, "err", err)
		return
	}
	observability.Designer().OnPlacement(ds.ctx, op, pl.Accepted)
	if !pl.Accepted {
		ds.logger.Debug("placement rejected", "op", op, "key", pl.Key, "reason", pl.Reason)
		return
	}
	if ds.dragging && ds.showDistances {
		ds.annotate()
	}
}
