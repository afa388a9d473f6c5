// Package cache provides plan and artifact caching for hallgen.
//
// Compiling a plan is cheap, but rendered artifacts (SVG site plans,
// dataflow diagrams) are not, and the serving API wants both memoized.
// The package offers three backends behind one interface: a file cache
// for CLI usage, a Redis cache for the serving API, and a null cache
// that disables caching entirely.
//
// Keys are produced by a Keyer so that every component derives them the
// same way; see DefaultKeyer.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys with optional TTLs.
//
// Implementations must treat a missing key as (nil, false, nil), not as
// an error; errors are reserved for backend failures.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
