// Package server exposes one editing session over HTTP.
//
// The server owns a single in-memory document driven through the same
// designer as the terminal editor. Requests are serialized with one mutex,
// so the session sees the same one-event-at-a-time order an interactive
// host delivers.
//
// Errors are JSON objects:
//
//	{"code": "FORMAT_ERROR", "message": "node 2: group \"Panel Z\" not found"}
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/panelboard/pkg/designer"
	"github.com/matzehuels/panelboard/pkg/diagram"
	"github.com/matzehuels/panelboard/pkg/engine"
	"github.com/matzehuels/panelboard/pkg/export"
)

// Options configures a [Server].
type Options struct {
	Designer     designer.Options // Notifier is replaced by the server's
	Runner       *export.Runner   // nil means uncached exports
	Logger       *log.Logger
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server is an HTTP host for one designer session.
type Server struct {
	mu     sync.Mutex
	d      *diagram.Diagram
	eng    *engine.Headless
	ds     *designer.Designer
	notes  *designer.Recorder
	runner *export.Runner
	logger *log.Logger
	opts   Options
}

// New attaches a designer to d and returns a server for it. Attach honors
// ctx during the settle delay.
func New(ctx context.Context, d *diagram.Diagram, opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Runner == nil {
		opts.Runner = export.NewRunner(nil, nil, opts.Logger)
	}
	eng, err := engine.Open(d, engine.DefaultView)
	if err != nil {
		return nil, err
	}

	s := &Server{
		d:      d,
		eng:    eng,
		notes:  &designer.Recorder{},
		runner: opts.Runner,
		logger: opts.Logger,
		opts:   opts,
	}
	dopts := opts.Designer
	dopts.Logger = opts.Logger
	logged := designer.LogNotifier(opts.Logger)
	dopts.Notifier = designer.NotifierFunc(func(n designer.Notification) {
		s.notes.Notify(n)
		logged.Notify(n)
	})
	s.ds = designer.New(d, eng, dopts)
	if err := s.ds.Attach(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Designer returns the session.
func (s *Server) Designer() *designer.Designer { return s.ds }

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)
	r.Use(s.serialize)

	r.Get("/healthz", s.health)

	r.Get("/document", s.getDocument)
	r.Put("/document", s.putDocument)

	r.Post("/components", s.addComponent)
	r.Post("/enclosures", s.addEnclosure)
	r.Post("/drop", s.drop)

	r.Route("/entities/{key}", func(r chi.Router) {
		r.Patch("/position", s.move)
		r.Patch("/size", s.resize)
		r.Delete("/", s.remove)
	})

	r.Post("/drag/{key}", s.beginDrag)
	r.Post("/drag/end", s.endDrag)
	r.Delete("/drag", s.cancelDrag)
	r.Get("/distances", s.distances)

	r.Get("/settings", s.getSettings)
	r.Put("/settings", s.putSettings)
	r.Get("/palette", s.palette)
	r.Get("/notifications", s.notifications)
	r.Get("/export/{format}", s.export)
	return r
}

// Run serves on addr until ctx ends, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("serving", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.ds.Close()
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}
