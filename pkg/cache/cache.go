// Package cache stores rendered artifacts keyed by drawing content.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache for the HTTP API and multiple instances
//   - [NullCache]: caching disabled
//
// Keys are built by a [Keyer] so that every caller derives identical keys
// for identical inputs. [ScopedKeyer] prefixes keys for tenant isolation.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key and whether it was found. A missing or
	// expired key is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// DefaultTTL is how long rendered artifacts are kept.
const DefaultTTL = 7 * 24 * time.Hour

// ArtifactKeyOpts are the render settings that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Style       string  `json:"style,omitempty"`
	Margin      float64 `json:"margin,omitempty"`
	StrokeWidth float64 `json:"stroke_width,omitempty"`
	Labels      bool    `json:"labels,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// ArtifactKey is the key of a rendered artifact of a drawing whose
	// content hash is docHash.
	ArtifactKey(docHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey hashes the render options together with the document hash.
func (DefaultKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", docHash, opts)
}
