// Package parking plans the angled stall dividers and their optional
// vehicle occupants along the facility aisle.
//
// Two vehicle classes are planned independently: cars park on both
// sides of the aisle, coaches on one. Occupancy is a per-bay Bernoulli
// draw from a caller-supplied randomness source; the planner never
// samples an ambient global generator, so two runs with the same
// configuration and the same seeded source are byte-identical.
package parking

import (
	"math"

	"github.com/hallgen/hallgen/pkg/errors"
	"github.com/hallgen/hallgen/pkg/layout"
)

// Class selects one of the two planned vehicle classes.
type Class string

const (
	ClassCar   Class = "car"
	ClassCoach Class = "coach"
)

// Classes lists the planned classes in planning order.
func Classes() []Class {
	return []Class{ClassCar, ClassCoach}
}

// Per-class planning constants: required clearance from each structure
// end, the number of bays dropped from the raw fit, the aisle sides the
// class occupies, and the occupant's visual height.
var classParams = map[Class]struct {
	endClearance float64
	marginBays   int
	sides        []float64
	height       float64
}{
	ClassCar:   {endClearance: 6.0, marginBays: 1, sides: []float64{+1, -1}, height: 1.5},
	ClassCoach: {endClearance: 10.0, marginBays: 1, sides: []float64{+1}, height: 3.2},
}

// Divider line cross-section, in meters.
const (
	dividerThickness = 0.05
	dividerHeight    = 0.02
)

// bay is a transient planning record. It is consumed into one divider
// and at most one vehicle instance per aisle side, then discarded.
type bay struct {
	index    int
	z        float64
	sideSign float64
	occupied bool
}

// BayPitch returns the along-aisle spacing between successive dividers
// of a class: width / sin(angle).
func BayPitch(cfg layout.ClassConfig) float64 {
	return cfg.Width / math.Sin(cfg.AngleDegrees*math.Pi/180)
}

// BayCount returns the number of bays per aisle side the class fits
// into the structure length: floor(available/pitch) - margin.
func BayCount(class Class, cfg layout.ClassConfig, structureLength float64) int {
	p := classParams[class]
	available := structureLength - 2*p.endClearance
	return int(math.Floor(available/BayPitch(cfg))) - p.marginBays
}

// Plan lays out both vehicle classes and returns their instances, cars
// first. Randomness draws are consumed in planning order: class, then
// aisle side, then bay index.
func Plan(cfg layout.ParkingConfig, structureLength float64, src layout.Source) ([]layout.Instance, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var instances []layout.Instance
	for _, class := range Classes() {
		classCfg := cfg.Car
		if class == ClassCoach {
			classCfg = cfg.Coach
		}
		placed, err := PlanClass(class, classCfg, structureLength, src)
		if err != nil {
			return nil, err
		}
		instances = append(instances, placed...)
	}
	return instances, nil
}

// PlanClass lays out one vehicle class. Each bay emits a divider
// instance and, when its occupancy draw succeeds, a vehicle instance
// rotated 180 degrees from the divider so it faces into the aisle.
func PlanClass(class Class, cfg layout.ClassConfig, structureLength float64, src layout.Source) ([]layout.Instance, error) {
	if err := cfg.Validate(string(class)); err != nil {
		return nil, err
	}

	p, ok := classParams[class]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown vehicle class %q", class)
	}

	pitch := BayPitch(cfg)
	count := BayCount(class, cfg, structureLength)
	if count < 2 {
		return nil, errors.New(errors.ErrCodeDegenerateBays,
			"%s class fits %d bays into structure length %g, need at least 2",
			class, count, structureLength)
	}

	angleRad := cfg.AngleDegrees * math.Pi / 180
	startZ := -structureLength/2 + p.endClearance

	instances := make([]layout.Instance, 0, len(p.sides)*count*2)
	for _, side := range p.sides {
		for i := 0; i < count; i++ {
			b := bay{
				index:    i,
				z:        startZ + float64(i)*pitch,
				sideSign: side,
				occupied: src() > 1-cfg.FillProbability,
			}
			instances = append(instances, placeBay(class, cfg, p.height, angleRad, b)...)
		}
	}
	return instances, nil
}

func placeBay(class Class, cfg layout.ClassConfig, vehicleHeight, angleRad float64, b bay) []layout.Instance {
	heading := b.sideSign * angleRad

	// Unit divider direction: the aisle-side x axis rotated by the
	// heading about the vertical.
	dx := b.sideSign * math.Cos(angleRad)
	dz := -math.Sin(angleRad)

	pivotX := b.sideSign * cfg.AisleOffset
	center := layout.Vec3{
		X: pivotX + dx*cfg.Length/2,
		Y: dividerHeight / 2,
		Z: b.z + dz*cfg.Length/2,
	}

	out := []layout.Instance{{
		Kind:       layout.KindParkingDivider,
		Position:   center,
		Rotation:   layout.Rotation{Axis: layout.AxisY, Radians: heading},
		Dimensions: layout.Vec3{X: cfg.Length, Y: dividerHeight, Z: dividerThickness},
	}}

	if b.occupied {
		out = append(out, layout.Instance{
			Kind: layout.KindVehicle,
			Position: layout.Vec3{
				X: pivotX + dx*cfg.Length/2,
				Y: vehicleHeight / 2,
				Z: b.z + dz*cfg.Length/2,
			},
			Rotation:   layout.Rotation{Axis: layout.AxisY, Radians: heading + math.Pi},
			Dimensions: layout.Vec3{X: cfg.Length, Y: vehicleHeight, Z: cfg.Width},
		})
	}
	return out
}
