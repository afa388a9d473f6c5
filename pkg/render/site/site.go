// Package site renders a compiled plan as a top-down SVG site plan.
//
// The drawing projects every instance onto the ground plane: the X axis
// maps to SVG x and the Z axis to SVG y. Roof-pitched elements are
// foreshortened by the cosine of their pitch; stall dividers and vehicles
// keep their footprint and are rotated in place. Draw order goes from
// large background surfaces to small foreground marks so columns and
// stalls stay visible on top of the roof sheet.
package site

import (
	"bytes"
	"fmt"
	"math"

	"github.com/hallgen/hallgen/pkg/layout"
	"github.com/hallgen/hallgen/pkg/pipeline"
)

// DefaultScale is the default pixels-per-meter scale.
const DefaultScale = 10.0

// margin is the canvas padding around the site bounding box, in pixels.
const margin = 20.0

// fills maps instance kinds to their site-plan fill colors.
var fills = map[layout.Kind]string{
	layout.KindRoofSlope:      "#e8e4da",
	layout.KindSolarPanel:     "#2b3a55",
	layout.KindRafter:         "#b8a88a",
	layout.KindColumn:         "#6b6b6b",
	layout.KindParkingDivider: "#f2f2f2",
	layout.KindVehicle:        "#7a9e7e",
}

// drawOrder layers the projection from background to foreground.
var drawOrder = []layout.Kind{
	layout.KindRoofSlope,
	layout.KindSolarPanel,
	layout.KindRafter,
	layout.KindColumn,
	layout.KindParkingDivider,
	layout.KindVehicle,
}

// SVGOption configures site-plan rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	scale     float64
	showRoof  bool
	showTitle bool
}

// WithScale sets the pixels-per-meter scale.
func WithScale(scale float64) SVGOption { return func(r *svgRenderer) { r.scale = scale } }

// WithoutRoof omits the roof sheet and solar array, exposing the frame
// and parking below.
func WithoutRoof() SVGOption { return func(r *svgRenderer) { r.showRoof = false } }

// WithTitle adds a title line with the per-kind instance counts.
func WithTitle() SVGOption { return func(r *svgRenderer) { r.showTitle = true } }

// RenderSVG draws the plan as a top-down site plan and returns the SVG
// bytes.
func RenderSVG(p *pipeline.Plan, opts ...SVGOption) []byte {
	r := svgRenderer{scale: DefaultScale, showRoof: true}
	for _, opt := range opts {
		opt(&r)
	}

	minX, minZ, maxX, maxZ := bounds(p.Instances)
	w := (maxX-minX)*r.scale + 2*margin
	h := (maxZ-minZ)*r.scale + 2*margin

	// World-to-canvas mapping.
	px := func(x float64) float64 { return (x-minX)*r.scale + margin }
	py := func(z float64) float64 { return (z-minZ)*r.scale + margin }

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="#fafaf7"/>`+"\n", w, h)

	for _, kind := range drawOrder {
		if !r.showRoof && (kind == layout.KindRoofSlope || kind == layout.KindSolarPanel) {
			continue
		}
		for _, in := range p.Instances {
			if in.Kind == kind {
				renderFootprint(&buf, in, px, py, r.scale)
			}
		}
	}

	if r.showTitle {
		renderTitle(&buf, p)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// footprint returns the ground-plane extents of an instance and its
// in-plane rotation in degrees (SVG clockwise convention).
func footprint(in layout.Instance) (extentX, extentZ, rotateDeg float64) {
	switch in.Rotation.Axis {
	case layout.AxisZ:
		// Pitched elements foreshorten along X when seen from above.
		return in.Dimensions.X * math.Abs(math.Cos(in.Rotation.Radians)), in.Dimensions.Z, 0
	case layout.AxisY:
		// Rotation about the vertical axis spins the footprint in place.
		// The world rotation is counterclockwise in the XZ plane; SVG
		// rotates clockwise with y down, so the sign flips.
		return in.Dimensions.X, in.Dimensions.Z, -in.Rotation.Radians * 180 / math.Pi
	default:
		return in.Dimensions.X, in.Dimensions.Z, 0
	}
}

func renderFootprint(buf *bytes.Buffer, in layout.Instance, px, py func(float64) float64, scale float64) {
	ex, ez, deg := footprint(in)
	cx, cy := px(in.Position.X), py(in.Position.Z)
	w, h := ex*scale, ez*scale

	fill := fills[in.Kind]
	if deg != 0 {
		fmt.Fprintf(buf,
			`  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" stroke="#444" stroke-width="0.5" transform="rotate(%.2f %.2f %.2f)"/>`+"\n",
			cx-w/2, cy-h/2, w, h, fill, deg, cx, cy)
		return
	}
	fmt.Fprintf(buf,
		`  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" stroke="#444" stroke-width="0.5"/>`+"\n",
		cx-w/2, cy-h/2, w, h, fill)
}

func renderTitle(buf *bytes.Buffer, p *pipeline.Plan) {
	var parts []byte
	for _, e := range p.Summary() {
		if len(parts) > 0 {
			parts = append(parts, ' ')
		}
		parts = fmt.Appendf(parts, "%s:%d", e.Kind, e.Count)
	}
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-family="monospace" font-size="11" fill="#333">%s</text>`+"\n",
		margin, margin-6, parts)
}

// bounds computes the ground-plane bounding box over all instance
// footprints. Rotated footprints use their circumscribed radius, which
// overestimates slightly but never clips.
func bounds(instances []layout.Instance) (minX, minZ, maxX, maxZ float64) {
	minX, minZ = math.Inf(1), math.Inf(1)
	maxX, maxZ = math.Inf(-1), math.Inf(-1)
	for _, in := range instances {
		rx := in.Dimensions.X / 2
		rz := in.Dimensions.Z / 2
		if in.Rotation.Axis == layout.AxisY && in.Rotation.Radians != 0 {
			r := math.Hypot(in.Dimensions.X, in.Dimensions.Z) / 2
			rx, rz = r, r
		}
		minX = math.Min(minX, in.Position.X-rx)
		maxX = math.Max(maxX, in.Position.X+rx)
		minZ = math.Min(minZ, in.Position.Z-rz)
		maxZ = math.Max(maxZ, in.Position.Z+rz)
	}
	if minX > maxX {
		return 0, 0, 0, 0
	}
	return minX, minZ, maxX, maxZ
}
