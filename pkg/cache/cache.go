// Package cache stores solved layouts and graph exports keyed by document
// content.
//
// Three backends implement [Cache]: [FileCache] for the CLI (one JSON file
// per entry under the XDG cache directory), [RedisCache] for the HTTP
// service when several instances share results, and [NullCache] when
// caching is disabled. Keys come from a [Keyer] so callers never build
// them by hand.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// Entry lifetimes. Layouts are a pure function of the document and the
// engine options, so they only expire to bound disk usage.
const (
	TTLLayout = 7 * 24 * time.Hour
	TTLGraph  = 24 * time.Hour
)

// LayoutKeyOpts holds the engine options that change a solve result.
type LayoutKeyOpts struct {
	DisableDirect           bool `json:"disable_direct,omitempty"`
	DisableGraph            bool `json:"disable_graph,omitempty"`
	DisableSolver           bool `json:"disable_solver,omitempty"`
	DisableWrapOptimization bool `json:"disable_wrap_optimization,omitempty"`
}

// GraphKeyOpts holds the export options that change a graph artifact.
type GraphKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed,omitempty"`
	NoWrap   bool   `json:"no_wrap,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey keys a solve result by document hash and engine options.
	LayoutKey(docHash string, opts LayoutKeyOpts) string

	// GraphKey keys a dependency graph export.
	GraphKey(docHash string, opts GraphKeyOpts) string
}

// DefaultKeyer hashes the options into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements [Keyer].
func (DefaultKeyer) LayoutKey(docHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", docHash, opts)
}

// GraphKey implements [Keyer].
func (DefaultKeyer) GraphKey(docHash string, opts GraphKeyOpts) string {
	return hashKey("graph", docHash, opts)
}
