package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Designer hooks
	d := NoopDesignerHooks{}
	d.OnEvent(ctx, "part-moved", time.Millisecond)
	d.OnPlacement(ctx, "move", false)
	d.OnAnnotations(ctx, 4)
	d.OnPersist(ctx, "save", 512, nil)

	// Export hooks
	e := NoopExportHooks{}
	e.OnExportStart(ctx, "svg", 12)
	e.OnExportComplete(ctx, "svg", 2048, time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "export")
	c.OnCacheMiss(ctx, "export")
	c.OnCacheSet(ctx, "export", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "/document")
	h.OnResponse(ctx, "GET", "/document", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Designer().(NoopDesignerHooks); !ok {
		t.Error("Designer() should return NoopDesignerHooks by default")
	}
	if _, ok := Export().(NoopExportHooks); !ok {
		t.Error("Export() should return NoopExportHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customDesigner := &testDesignerHooks{}
	SetDesignerHooks(customDesigner)
	if Designer() != customDesigner {
		t.Error("SetDesignerHooks should set custom hooks")
	}

	customExport := &testExportHooks{}
	SetExportHooks(customExport)
	if Export() != customExport {
		t.Error("SetExportHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Designer().(NoopDesignerHooks); !ok {
		t.Error("Reset() should restore NoopDesignerHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testDesignerHooks{}
	SetDesignerHooks(custom)

	// Setting nil should be ignored
	SetDesignerHooks(nil)

	if Designer() != custom {
		t.Error("SetDesignerHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testDesignerHooks struct{ NoopDesignerHooks }
type testExportHooks struct{ NoopExportHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
