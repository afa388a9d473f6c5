// Package layout defines the core data model for hallgen: the facility
// configuration consumed by the generators and the placed-instance records
// they produce.
//
// All lengths are meters. Angles are degrees at the configuration boundary
// and radians everywhere internally. The coordinate frame is right-handed:
// X runs across the structure width, Y is up, Z runs along the structure
// length. The facility is centered on the origin in X and Z.
//
// A compiled facility is a flat ordered slice of [Instance] values. The
// order is insertion order and carries no semantic meaning beyond grouping
// by kind for draw-call convenience; consumers must treat [Kind] as an
// opaque tag and must not depend on ordering for correctness.
package layout

// Kind tags a placed instance with the element class it represents.
// Consumers treat this as an opaque tag.
type Kind string

// Instance kinds emitted by the generators.
const (
	KindColumn         Kind = "column"
	KindRafter         Kind = "rafter"
	KindRoofSlope      Kind = "roofSlope"
	KindSolarPanel     Kind = "solarPanel"
	KindParkingDivider Kind = "parkingDivider"
	KindVehicle        Kind = "vehicle"
)

// Kinds lists all instance kinds in emission order.
// Useful for building per-kind summaries with a stable ordering.
func Kinds() []Kind {
	return []Kind{
		KindColumn, KindRafter, KindRoofSlope,
		KindSolarPanel, KindParkingDivider, KindVehicle,
	}
}

// Axis identifies a rotation axis in the facility coordinate frame.
type Axis string

// Rotation axes. Z is the length axis (roof pitch rotations), Y is the
// vertical axis (parking stall headings).
const (
	AxisX Axis = "x"
	AxisY Axis = "y"
	AxisZ Axis = "z"
)

// Vec3 is a point or extent in the facility coordinate frame, in meters.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Rotation is a single-axis rotation in radians.
// No generator emits more than one rotation component per instance.
type Rotation struct {
	Axis    Axis    `json:"axis"`
	Radians float64 `json:"radians"`
}

// Instance is one discrete placed geometric element. Instances are
// immutable once produced; ownership transfers to the consumer.
//
// Dimensions are the local extents of the element before its rotation
// is applied; Position is the element's centroid.
type Instance struct {
	Kind       Kind     `json:"kind"`
	Position   Vec3     `json:"position"`
	Rotation   Rotation `json:"rotation"`
	Dimensions Vec3     `json:"dimensions"`
}

// Source supplies randomness to generators that need it. It returns a
// value in [0, 1). Generators never sample an ambient global generator:
// injecting the source keeps compilation deterministic under test, where
// two calls with the same configuration and the same seeded source must
// produce byte-identical output.
type Source func() float64
