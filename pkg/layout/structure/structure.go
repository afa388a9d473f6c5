// Package structure lays out the portal-frame columns, rafters and roof
// slopes along the length axis of the facility.
package structure

import (
	"math"

	"github.com/hallgen/hallgen/pkg/errors"
	"github.com/hallgen/hallgen/pkg/layout"
	"github.com/hallgen/hallgen/pkg/layout/frame"
)

// Member cross-sections and the roof-sheet overhang, in meters.
const (
	columnSection = 0.30 // square column side
	rafterDepth   = 0.22
	rafterBreadth = 0.12
	roofSheet     = 0.06 // roof slope panel thickness
	roofOverhang  = 0.50 // roof sheet extension past each gable end
)

// Build places the structural instances for the configured frame: one
// left/right column pair plus two rafters per column tick, and two
// full-length roof-slope panels emitted once.
//
// Column ticks sit at z_i = i*spacing - length/2. The final tick may
// land past +length/2 when the length is not a multiple of the spacing;
// this overhang is accepted as-is, never re-centered or clipped.
func Build(cfg layout.StructureConfig, geom frame.Geometry) ([]layout.Instance, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	colCount := int(math.Ceil(cfg.Length/cfg.ColumnSpacing)) + 1
	if colCount < 2 {
		return nil, errors.New(errors.ErrCodeDegenerateStructure,
			"structure needs at least 2 column ticks, got %d (length %g, spacing %g)",
			colCount, cfg.Length, cfg.ColumnSpacing)
	}

	instances := make([]layout.Instance, 0, colCount*4+2)
	rafterY := cfg.EavesHeight + geom.Rise/2

	for i := 0; i < colCount; i++ {
		z := float64(i)*cfg.ColumnSpacing - cfg.Length/2

		for _, side := range []float64{-1, +1} {
			instances = append(instances, layout.Instance{
				Kind:       layout.KindColumn,
				Position:   layout.Vec3{X: side * cfg.Width / 2, Y: cfg.EavesHeight / 2, Z: z},
				Rotation:   layout.Rotation{Axis: layout.AxisY},
				Dimensions: layout.Vec3{X: columnSection, Y: cfg.EavesHeight, Z: columnSection},
			})
		}

		// One rafter per slope, pivoting about the length axis. The
		// sign pairing (-halfSpan/2 with +pitch, +halfSpan/2 with
		// -pitch) is the frame's slope convention.
		for _, s := range []float64{+1, -1} {
			instances = append(instances, layout.Instance{
				Kind:       layout.KindRafter,
				Position:   layout.Vec3{X: -s * geom.HalfSpan / 2, Y: rafterY, Z: z},
				Rotation:   layout.Rotation{Axis: layout.AxisZ, Radians: s * geom.Pitch},
				Dimensions: layout.Vec3{X: geom.RafterLength, Y: rafterDepth, Z: rafterBreadth},
			})
		}
	}

	// The two roof-slope panels span the whole structure plus the gable
	// overhang; they are emitted once, not per tick.
	for _, s := range []float64{+1, -1} {
		instances = append(instances, layout.Instance{
			Kind:       layout.KindRoofSlope,
			Position:   layout.Vec3{X: -s * geom.HalfSpan / 2, Y: rafterY, Z: 0},
			Rotation:   layout.Rotation{Axis: layout.AxisZ, Radians: s * geom.Pitch},
			Dimensions: layout.Vec3{X: geom.SlopeLength, Y: roofSheet, Z: cfg.Length + 2*roofOverhang},
		})
	}

	return instances, nil
}

// ColumnCount returns the number of column ticks Build will emit for the
// configuration: ceil(length/spacing) + 1.
func ColumnCount(cfg layout.StructureConfig) int {
	return int(math.Ceil(cfg.Length/cfg.ColumnSpacing)) + 1
}
