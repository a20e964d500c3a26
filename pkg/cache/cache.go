// Package cache provides content-addressed caching for composed artifacts.
//
// The pipeline caches rendered artifacts (HTML pages, plan JSON, wiring
// diagrams) under keys derived from the view's source content and options,
// so re-composing an unchanged manifest is free. Three backends are
// provided: a file cache for CLI use, a Redis cache for server deployments,
// and a null cache that disables caching entirely.
package cache

import (
	"context"
	"time"
)

// TTLArtifact bounds rendered artifacts. Artifacts are pure functions of
// their source and options, so a long TTL is safe.
const TTLArtifact = 7 * 24 * time.Hour

// Cache is a byte-oriented key-value store with per-entry expiry.
// Implementations must treat Get misses as (nil, false, nil), not errors.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// ViewKeyOpts are the option fields that change a composed view. Together
// with the source hash they identify one composition.
type ViewKeyOpts struct {
	Ncol          int    `json:"ncol"`
	Sync          string `json:"sync"`
	SyncCursor    bool   `json:"sync_cursor"`
	NoInitialSync bool   `json:"no_initial_sync"`
	Title         string `json:"title,omitempty"`
}

// Keyer derives cache keys for composed views and their artifacts.
type Keyer interface {
	// ViewKey identifies a composed view by the hash of its source
	// (manifest content) and the options that shaped it.
	ViewKey(sourceHash string, opts ViewKeyOpts) string

	// ArtifactKey identifies one rendered artifact of a view.
	ArtifactKey(viewKey, format string) string
}

// DefaultKeyer hashes key components into prefixed, fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ViewKey implements Keyer.
func (k *DefaultKeyer) ViewKey(sourceHash string, opts ViewKeyOpts) string {
	return hashKey("view", sourceHash, opts)
}

// ArtifactKey implements Keyer.
func (k *DefaultKeyer) ArtifactKey(viewKey, format string) string {
	return hashKey("artifact", viewKey, format)
}
