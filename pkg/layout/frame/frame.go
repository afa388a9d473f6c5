// Package frame derives the portal-frame roof geometry shared by the
// structure and solar generators.
//
// Geometry is a pure function of the structure configuration: it is
// recomputed whenever the configuration changes and never mutated in
// place. Both downstream generators read it; neither writes it.
package frame

import (
	"math"

	"github.com/hallgen/hallgen/pkg/errors"
	"github.com/hallgen/hallgen/pkg/layout"
)

// rafterOverhang is the eaves-side extension of each rafter beyond the
// slope face, in meters. It keeps the rafter visually proud of the roof
// sheet; it does not affect panel placement.
const rafterOverhang = 0.4

// Geometry holds the derived dual-pitch roof measurements.
//
// Pitch is the angle between a roof slope and the horizontal. By
// convention the left slope uses +Pitch and the right slope -Pitch; all
// consumers must preserve this sign pairing for the facility to stay
// bilaterally symmetric.
type Geometry struct {
	HalfSpan     float64 `json:"half_span"`
	EavesHeight  float64 `json:"eaves_height"`
	Rise         float64 `json:"rise"`
	Pitch        float64 `json:"pitch"` // radians
	SlopeLength  float64 `json:"slope_length"`
	RafterLength float64 `json:"rafter_length"`
}

// Compute derives the frame geometry from the structure configuration.
// It fails with a configuration error when the span is non-positive or
// the ridge does not rise above the eaves, both of which would make the
// pitch undefined or non-positive.
func Compute(cfg layout.StructureConfig) (Geometry, error) {
	if cfg.Width <= 0 {
		return Geometry{}, errors.New(errors.ErrCodeInvalidDimension,
			"structure width must be positive, got %g", cfg.Width)
	}
	if cfg.RidgeHeight <= cfg.EavesHeight {
		return Geometry{}, errors.New(errors.ErrCodeInvalidDimension,
			"ridge height (%g) must exceed eaves height (%g)", cfg.RidgeHeight, cfg.EavesHeight)
	}

	halfSpan := cfg.Width / 2
	rise := cfg.RidgeHeight - cfg.EavesHeight
	slope := math.Hypot(rise, halfSpan)

	return Geometry{
		HalfSpan:     halfSpan,
		EavesHeight:  cfg.EavesHeight,
		Rise:         rise,
		Pitch:        math.Atan(rise / halfSpan),
		SlopeLength:  slope,
		RafterLength: slope + rafterOverhang,
	}, nil
}
