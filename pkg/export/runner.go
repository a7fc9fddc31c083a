package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/panelboard/pkg/cache"
	"github.com/matzehuels/panelboard/pkg/diagram"
	"github.com/matzehuels/panelboard/pkg/observability"
)

// Runner renders exports through a cache. It holds no per-export state;
// one Runner may serve many goroutines if its cache does.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration
}

// Result is one rendered artifact.
type Result struct {
	Format   string
	Data     []byte
	Cached   bool   // Served from the cache
	Key      string // Cache key
	Duration time.Duration
}

// NewRunner creates a runner. A nil cache disables caching; a nil keyer
// means [cache.DefaultKeyer].
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger, TTL: cache.TTLArtifact}
}

// Export renders doc, reusing a cached artifact of the same document
// content and options unless opts.Refresh is set. Cache failures are
// logged and never fail the export.
func (r *Runner) Export(ctx context.Context, doc *diagram.Document, opts Options) (*Result, error) {
	if err := ValidateFormat(opts.Format); err != nil {
		return nil, err
	}
	start := time.Now()

	hash, err := documentHash(doc, opts.Distances)
	if err != nil {
		return nil, fmt.Errorf("hash document: %w", err)
	}
	key := r.Keyer.ArtifactKey(hash, cache.ArtifactKeyOpts{
		Format:    opts.Format,
		Scale:     opts.Scale,
		Distances: opts.Distances,
		Grid:      opts.Grid && opts.Format == FormatPNG,
	})

	if !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		switch {
		case err != nil:
			r.Logger.Warn("cache read failed", "err", err)
		case hit:
			observability.Cache().OnCacheHit(ctx, "artifact")
			r.Logger.Debug("export cache hit", "format", opts.Format)
			return &Result{Format: opts.Format, Data: data, Cached: true, Key: key, Duration: time.Since(start)}, nil
		default:
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
	}

	observability.Export().OnExportStart(ctx, opts.Format, doc.Len())
	data, err := Render(ctx, doc, opts)
	observability.Export().OnExportComplete(ctx, opts.Format, len(data), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	r.Logger.Debug("exported", "format", opts.Format, "bytes", len(data), "duration", time.Since(start))
	return &Result{Format: opts.Format, Data: data, Key: key, Duration: time.Since(start)}, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// documentHash hashes the serialized document, plus its annotations when
// they will be drawn.
func documentHash(doc *diagram.Document, withAnnotations bool) (string, error) {
	data, err := diagram.SerializeDocument(doc)
	if err != nil {
		return "", err
	}
	if withAnnotations {
		var buf bytes.Buffer
		buf.Write(data)
		if err := json.NewEncoder(&buf).Encode(doc.Annotations()); err != nil {
			return "", err
		}
		data = buf.Bytes()
	}
	return cache.Hash(data), nil
}
