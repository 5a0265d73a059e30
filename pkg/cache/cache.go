// Package cache stores serialized library artifacts between runs.
//
// Generation is deterministic, so a symbol library, CSV table or descriptor
// produced for one set of parameters can be reused whenever the same
// parameters come back. The pipeline asks a [Keyer] for the key of each
// artifact and consults a [Cache] before expanding and serializing.
//
// Three backends are provided:
//
//   - [FileCache] keeps entries as JSON files under a directory (CLI default)
//   - [RedisCache] shares entries between processes through redis
//   - [NullCache] disables caching
//
// Footprints are never cached: they carry a wall-clock stamp.
package cache

import (
	"context"
	"time"
)

// ArtifactTTL is how long artifacts stay valid.
const ArtifactTTL = 7 * 24 * time.Hour

// Cache is a byte store with expiry.
type Cache interface {
	// Get returns the stored value and whether it was found. A miss is not
	// an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// ArtifactKeyOpts are the inputs that determine an artifact's bytes.
type ArtifactKeyOpts struct {
	Format           string    `json:"format"`
	Series           int       `json:"series"`
	Package          string    `json:"package"`
	Decades          []int64   `json:"decades"`
	Manufacturers    []string  `json:"manufacturers,omitempty"`
	BaseValues       []float64 `json:"base_values,omitempty"`
	Style            string    `json:"style,omitempty"`
	FootprintLibrary string    `json:"footprint_library,omitempty"`

	// Version is the generator build. Artifacts from another build are
	// never reused.
	Version string `json:"version"`
}

// Keyer derives cache keys.
type Keyer interface {
	ArtifactKey(opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the full option set.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey returns "artifact:{format}:{sha256}".
func (DefaultKeyer) ArtifactKey(opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, opts)
}
