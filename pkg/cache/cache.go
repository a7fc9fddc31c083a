// Package cache stores rendered export artifacts.
//
// A [Cache] is a byte store with per-entry TTL. Three backends exist:
//   - [NullCache] never stores anything (caching disabled)
//   - [FileCache] stores entries under a directory, for the CLI
//   - [RedisCache] stores entries in Redis, for the HTTP server
//
// Keys come from a [Keyer] so that every host derives the same key for the
// same document and export options.
package cache

import (
	"context"
	"time"
)

// TTLArtifact is how long an exported artifact stays cached. Artifacts are
// keyed by document content, so a stale entry can only be evicted, never
// served for a changed document.
const TTLArtifact = 7 * 24 * time.Hour

// Cache is a byte store with expiration.
type Cache interface {
	// Get returns the stored data and whether the key was present and
	// unexpired. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// ArtifactKeyOpts are the export options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format    string  `json:"format"`
	Scale     float64 `json:"scale,omitempty"`
	Distances bool    `json:"distances,omitempty"`
	Grid      bool    `json:"grid,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// ArtifactKey returns the key of an export of the document whose
	// serialized form hashes to docHash.
	ArtifactKey(docHash string, opts ArtifactKeyOpts) string
}
