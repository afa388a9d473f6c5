package cache

import (
	"github.com/hallgen/hallgen/pkg/layout"
)

// Keyer derives cache keys for plans and rendered artifacts.
// All components must share one Keyer so keys agree across CLI and API.
type Keyer interface {
	// PlanKey derives the key for a compiled plan. Two configurations
	// that differ in any field, or two different seeds, get distinct keys.
	PlanKey(cfg layout.Config, seed uint64) string

	// ArtifactKey derives the key for a rendered artifact of a plan.
	// planHash is the content hash of the serialized plan.
	ArtifactKey(planHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render parameters that affect artifact bytes.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Scale  float64 `json:"scale,omitempty"`
}

// DefaultKeyer hashes the full key material with SHA-256. Keys carry a
// short prefix naming the key type so backends can be inspected by hand.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// PlanKey generates a key for plan caching.
func (k *DefaultKeyer) PlanKey(cfg layout.Config, seed uint64) string {
	return hashKey("plan", cfg, seed)
}

// ArtifactKey generates a key for artifact caching.
func (k *DefaultKeyer) ArtifactKey(planHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", planHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix so separate deployments can
// share one backend without colliding.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to every key.
// A nil inner falls back to the default keyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// PlanKey generates a prefixed plan key.
func (k *ScopedKeyer) PlanKey(cfg layout.Config, seed uint64) string {
	return k.prefix + k.inner.PlanKey(cfg, seed)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(planHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(planHash, opts)
}
