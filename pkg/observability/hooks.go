// Package observability lets a host observe the editor without the editor
// depending on any metrics or tracing backend.
//
// Four hook sets exist: designer interactions, exports, the export
// artifact cache and the HTTP API. Each starts as a no-op. A host swaps in
// its own implementation once, before the first session or request:
//
//	observability.SetExportHooks(promExport{})
//
// Emitting packages fetch the current set on every call:
//
//	observability.Export().OnExportStart(ctx, "svg", entities)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Hook sets
// =============================================================================

// DesignerHooks observes the host integration layer.
type DesignerHooks interface {
	// OnEvent fires after an engine event was handled.
	OnEvent(ctx context.Context, kind string, duration time.Duration)
	// OnPlacement fires for every move, resize or drop outcome.
	OnPlacement(ctx context.Context, op string, accepted bool)
	OnAnnotations(ctx context.Context, count int)
	OnPersist(ctx context.Context, op string, size int, err error)
}

// ExportHooks observes rendering.
type ExportHooks interface {
	OnExportStart(ctx context.Context, format string, entities int)
	OnExportComplete(ctx context.Context, format string, size int, duration time.Duration, err error)
}

// CacheHooks observes the export artifact cache. kind names the artifact
// class, currently always "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, kind string)
	OnCacheMiss(ctx context.Context, kind string)
	OnCacheSet(ctx context.Context, kind string, size int)
}

// HTTPHooks observes the HTTP API. route is the chi pattern, not the raw
// path, so entity keys do not explode cardinality.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op sets
// =============================================================================

type (
	NoopDesignerHooks struct{}
	NoopExportHooks   struct{}
	NoopCacheHooks    struct{}
	NoopHTTPHooks     struct{}
)

func (NoopDesignerHooks) OnEvent(context.Context, string, time.Duration) {}
func (NoopDesignerHooks) OnPlacement(context.Context, string, bool)      {}
func (NoopDesignerHooks) OnAnnotations(context.Context, int)             {}
func (NoopDesignerHooks) OnPersist(context.Context, string, int, error)  {}

func (NoopExportHooks) OnExportStart(context.Context, string, int)                         {}
func (NoopExportHooks) OnExportComplete(context.Context, string, int, time.Duration, error) {}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Registry
// =============================================================================

// slot holds one registered hook set. Setting nil keeps the current set.
type slot[T any] struct {
	mu   sync.RWMutex
	noop T
	cur  T
	set  bool
}

func (s *slot[T]) store(h T, ok bool) {
	if !ok {
		return
	}
	s.mu.Lock()
	s.cur, s.set = h, true
	s.mu.Unlock()
}

func (s *slot[T]) load() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.set {
		return s.noop
	}
	return s.cur
}

func (s *slot[T]) reset() {
	s.mu.Lock()
	var zero T
	s.cur, s.set = zero, false
	s.mu.Unlock()
}

var (
	designerSlot = slot[DesignerHooks]{noop: NoopDesignerHooks{}}
	exportSlot   = slot[ExportHooks]{noop: NoopExportHooks{}}
	cacheSlot    = slot[CacheHooks]{noop: NoopCacheHooks{}}
	httpSlot     = slot[HTTPHooks]{noop: NoopHTTPHooks{}}
)

func SetDesignerHooks(h DesignerHooks) { designerSlot.store(h, h != nil) }
func SetExportHooks(h ExportHooks)     { exportSlot.store(h, h != nil) }
func SetCacheHooks(h CacheHooks)       { cacheSlot.store(h, h != nil) }
func SetHTTPHooks(h HTTPHooks)         { httpSlot.store(h, h != nil) }

func Designer() DesignerHooks { return designerSlot.load() }
func Export() ExportHooks     { return exportSlot.load() }
func Cache() CacheHooks       { return cacheSlot.load() }
func HTTP() HTTPHooks         { return httpSlot.load() }

// Reset puts every set back to its no-op. Tests call it between cases.
func Reset() {
	designerSlot.reset()
	exportSlot.reset()
	cacheSlot.reset()
	httpSlot.reset()
}
