// Package solar tiles the rooftop panel grid across the two roof slopes.
//
// Each slope carries an identical rows-by-columns grid of panels, built
// from centered local offsets and rotated onto the slope plane. The right
// slope mirrors the along-slope ordering relative to the ridge and then
// receives a small fixed down-slope correction; see [overhangFix].
//
// The along-slope extent of a grid is not clamped to the slope length: a
// configuration that asks for more panel rows than the slope can hold is
// accepted and simply overflows visually. That is a config-authoring
// concern, not a runtime error.
package solar

import (
	"math"

	"github.com/hallgen/hallgen/pkg/layout"
	"github.com/hallgen/hallgen/pkg/layout/frame"
)

const (
	// panelStandoff lifts the panel plane off the roof sheet, in meters.
	panelStandoff = 0.12

	// overhangFix nudges the right slope's grid anchor down-slope, away
	// from the ridge. The right slope is built by negating the
	// along-slope offsets of the left slope's grid, which shifts its
	// rows one half-step toward the ridge; without this correction the
	// top row would cross the ridge line. The left slope needs no
	// correction. Applied as (+cos(pitch), -sin(pitch)) · overhangFix.
	overhangFix = 0.25

	panelThickness = 0.04
)

// Count returns the number of panel instances Place emits:
// rows × columns × 2 slopes, independent of all other parameters.
func Count(cfg layout.SolarConfig) int {
	return cfg.RowsPerSlope * cfg.PanelsPerRow * 2
}

// Place tiles the configured panel grid onto both slopes and returns one
// instance per panel. The left slope uses sign s=+1, the right s=-1; the
// only rotation component is s·pitch about the length axis.
func Place(cfg layout.SolarConfig, geom frame.Geometry) ([]layout.Instance, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	instances := make([]layout.Instance, 0, Count(cfg))
	for _, s := range []float64{+1, -1} {
		instances = append(instances, placeSlope(cfg, geom, s)...)
	}
	return instances, nil
}

func placeSlope(cfg layout.SolarConfig, geom frame.Geometry, s float64) []layout.Instance {
	cx := s * geom.HalfSpan / 2
	cy := geom.EavesHeight + geom.Rise/2 + panelStandoff
	cz := 0.0

	if s < 0 {
		// Right slope only: push the anchor down-slope so the mirrored
		// grid cannot cross the ridge.
		cx += math.Cos(geom.Pitch) * overhangFix
		cy -= math.Sin(geom.Pitch) * overhangFix
	}

	theta := s * geom.Pitch
	sin, cos := math.Sin(theta), math.Cos(theta)

	out := make([]layout.Instance, 0, cfg.RowsPerSlope*cfg.PanelsPerRow)
	for row := 0; row < cfg.RowsPerSlope; row++ {
		xOff := float64(row)*(cfg.PanelLength+cfg.GapAlongSlope) -
			float64(cfg.RowsPerSlope)*cfg.PanelLength/2 + cfg.PanelLength/2
		if s < 0 {
			// Mirror the row ordering relative to the ridge.
			xOff = -xOff
		}

		for col := 0; col < cfg.PanelsPerRow; col++ {
			zOff := float64(col)*(cfg.PanelWidth+cfg.GapAlongLength) -
				float64(cfg.PanelsPerRow)*cfg.PanelWidth/2

			out = append(out, layout.Instance{
				Kind: layout.KindSolarPanel,
				Position: layout.Vec3{
					X: cx + xOff*cos,
					Y: cy + xOff*sin,
					Z: cz + zOff,
				},
				Rotation:   layout.Rotation{Axis: layout.AxisZ, Radians: theta},
				Dimensions: layout.Vec3{X: cfg.PanelLength, Y: panelThickness, Z: cfg.PanelWidth},
			})
		}
	}
	return out
}
