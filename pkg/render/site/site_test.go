package site

import (
	"bytes"
	"context"
	"math"
	"strings"
	"testing"

	"github.com/hallgen/hallgen/pkg/layout"
	"github.com/hallgen/hallgen/pkg/pipeline"
)

func testPlan(t *testing.T) *pipeline.Plan {
	t.Helper()
	cfg := layout.Config{
		Structure: layout.StructureConfig{
			Length: 96, Width: 12, ColumnSpacing: 6,
			EavesHeight: 5, RidgeHeight: 5.9,
		},
		Solar: layout.SolarConfig{
			PanelWidth: 1.1, PanelLength: 1.8,
			RowsPerSlope: 3, PanelsPerRow: 40,
		},
		Parking: layout.ParkingConfig{
			Car: layout.ClassConfig{
				Width: 2.4, Length: 5.0, AngleDegrees: 45,
				AisleOffset: 3.5, FillProbability: 0.6,
			},
			Coach: layout.ClassConfig{
				Width: 3.5, Length: 14.0, AngleDegrees: 60,
				AisleOffset: 6.0, FillProbability: 0.4,
			},
		},
	}
	plan, err := pipeline.Compile(context.Background(), cfg, pipeline.Options{Seed: 7})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return plan
}

func TestRenderSVG(t *testing.T) {
	plan := testPlan(t)
	svg := RenderSVG(plan)

	if !bytes.HasPrefix(svg, []byte(`<svg xmlns="http://www.w3.org/2000/svg"`)) {
		t.Fatal("output does not start with an svg element")
	}
	if !bytes.HasSuffix(bytes.TrimSpace(svg), []byte("</svg>")) {
		t.Fatal("output is not closed")
	}

	// One rect per instance plus the background.
	rects := bytes.Count(svg, []byte("<rect"))
	if want := len(plan.Instances) + 1; rects != want {
		t.Errorf("rect count = %d, want %d", rects, want)
	}
}

func TestRenderSVGWithoutRoof(t *testing.T) {
	plan := testPlan(t)

	full := bytes.Count(RenderSVG(plan), []byte("<rect"))
	bare := bytes.Count(RenderSVG(plan, WithoutRoof()), []byte("<rect"))

	hidden := plan.Count(layout.KindRoofSlope) + plan.Count(layout.KindSolarPanel)
	if full-bare != hidden {
		t.Errorf("WithoutRoof hid %d rects, want %d", full-bare, hidden)
	}
}

func TestRenderSVGWithTitle(t *testing.T) {
	plan := testPlan(t)
	svg := string(RenderSVG(plan, WithTitle()))

	if !strings.Contains(svg, "<text") {
		t.Fatal("WithTitle produced no text element")
	}
	if !strings.Contains(svg, "column:34") {
		t.Errorf("title missing column count: %s", svg[:200])
	}
}

func TestFootprint(t *testing.T) {
	// Pitched elements foreshorten along X.
	pitched := layout.Instance{
		Kind:       layout.KindSolarPanel,
		Rotation:   layout.Rotation{Axis: layout.AxisZ, Radians: math.Pi / 3},
		Dimensions: layout.Vec3{X: 2, Y: 0.04, Z: 1},
	}
	ex, ez, deg := footprint(pitched)
	if math.Abs(ex-2*math.Cos(math.Pi/3)) > 1e-9 {
		t.Errorf("pitched extentX = %g, want %g", ex, 2*math.Cos(math.Pi/3))
	}
	if ez != 1 || deg != 0 {
		t.Errorf("pitched extentZ/deg = %g/%g, want 1/0", ez, deg)
	}

	// Vertical-axis rotations keep their extents and spin in place.
	spun := layout.Instance{
		Kind:       layout.KindVehicle,
		Rotation:   layout.Rotation{Axis: layout.AxisY, Radians: math.Pi / 4},
		Dimensions: layout.Vec3{X: 5, Y: 1.5, Z: 2.4},
	}
	ex, ez, deg = footprint(spun)
	if ex != 5 || ez != 2.4 {
		t.Errorf("spun extents = %g/%g, want 5/2.4", ex, ez)
	}
	if math.Abs(deg+45) > 1e-9 {
		t.Errorf("spun rotation = %g, want -45", deg)
	}
}

func TestBoundsEmpty(t *testing.T) {
	minX, minZ, maxX, maxZ := bounds(nil)
	if minX != 0 || minZ != 0 || maxX != 0 || maxZ != 0 {
		t.Errorf("empty bounds = %g %g %g %g, want zeros", minX, minZ, maxX, maxZ)
	}
}
