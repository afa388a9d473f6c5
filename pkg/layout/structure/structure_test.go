package structure

import (
	"math"
	"testing"

	"github.com/hallgen/hallgen/pkg/errors"
	"github.com/hallgen/hallgen/pkg/layout"
	"github.com/hallgen/hallgen/pkg/layout/frame"
)

const eps = 1e-9

func testConfig() layout.StructureConfig {
	return layout.StructureConfig{
		Length:        96,
		Width:         12,
		ColumnSpacing: 6,
		EavesHeight:   5,
		RidgeHeight:   5.9,
	}
}

func build(t *testing.T, cfg layout.StructureConfig) []layout.Instance {
	t.Helper()
	geom, err := frame.Compute(cfg)
	if err != nil {
		t.Fatalf("frame.Compute: %v", err)
	}
	instances, err := Build(cfg, geom)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return instances
}

func byKind(instances []layout.Instance, kind layout.Kind) []layout.Instance {
	var out []layout.Instance
	for _, in := range instances {
		if in.Kind == kind {
			out = append(out, in)
		}
	}
	return out
}

func TestBuildCounts(t *testing.T) {
	cfg := testConfig()
	instances := build(t, cfg)

	// 96 / 6 = 16 spans → 17 ticks.
	wantTicks := 17
	if got := ColumnCount(cfg); got != wantTicks {
		t.Errorf("ColumnCount = %d, want %d", got, wantTicks)
	}

	if got := len(byKind(instances, layout.KindColumn)); got != wantTicks*2 {
		t.Errorf("columns = %d, want %d", got, wantTicks*2)
	}
	if got := len(byKind(instances, layout.KindRafter)); got != wantTicks*2 {
		t.Errorf("rafters = %d, want %d", got, wantTicks*2)
	}
	if got := len(byKind(instances, layout.KindRoofSlope)); got != 2 {
		t.Errorf("roof slopes = %d, want 2", got)
	}
}

func TestBuildColumnSymmetry(t *testing.T) {
	cfg := testConfig()
	columns := byKind(build(t, cfg), layout.KindColumn)

	// Every left column must have a right partner at the same z.
	left := map[float64]int{}
	right := map[float64]int{}
	for _, c := range columns {
		switch c.Position.X {
		case -cfg.Width / 2:
			left[c.Position.Z]++
		case +cfg.Width / 2:
			right[c.Position.Z]++
		default:
			t.Errorf("column at unexpected x = %g", c.Position.X)
		}
	}
	if len(left) != len(right) {
		t.Fatalf("left ticks %d != right ticks %d", len(left), len(right))
	}
	for z, n := range left {
		if right[z] != n {
			t.Errorf("tick z=%g has %d left but %d right columns", z, n, right[z])
		}
	}
}

func TestBuildTickPositions(t *testing.T) {
	cfg := testConfig()
	cfg.Length = 50 // 50/6 → ceil 9 spans → 10 ticks, last at 4*... check overhang
	columns := byKind(build(t, cfg), layout.KindColumn)

	wantTicks := int(math.Ceil(50.0/6.0)) + 1 // 10
	zs := map[float64]bool{}
	for _, c := range columns {
		zs[c.Position.Z] = true
	}
	if len(zs) != wantTicks {
		t.Fatalf("distinct ticks = %d, want %d", len(zs), wantTicks)
	}

	// Ticks are z_i = i*spacing - length/2 and the last one may exceed
	// +length/2; it must not be clamped.
	for i := 0; i < wantTicks; i++ {
		z := float64(i)*cfg.ColumnSpacing - cfg.Length/2
		if !zs[z] {
			t.Errorf("missing tick at z = %g", z)
		}
	}
	last := float64(wantTicks-1)*cfg.ColumnSpacing - cfg.Length/2
	if last <= cfg.Length/2 {
		t.Fatalf("test setup expected an overhanging final tick, got z = %g", last)
	}
	if !zs[last] {
		t.Error("overhanging final tick was clipped or re-centered")
	}
}

func TestBuildRafters(t *testing.T) {
	cfg := testConfig()
	geom, err := frame.Compute(cfg)
	if err != nil {
		t.Fatal(err)
	}
	rafters := byKind(build(t, cfg), layout.KindRafter)

	for _, r := range rafters {
		if r.Rotation.Axis != layout.AxisZ {
			t.Fatalf("rafter rotation axis = %v, want z", r.Rotation.Axis)
		}
		if math.Abs(r.Position.Y-(cfg.EavesHeight+geom.Rise/2)) > eps {
			t.Errorf("rafter y = %g, want %g", r.Position.Y, cfg.EavesHeight+geom.Rise/2)
		}
		switch r.Position.X {
		case -geom.HalfSpan / 2:
			if math.Abs(r.Rotation.Radians-geom.Pitch) > eps {
				t.Errorf("rafter at x=%g has rotation %g, want +pitch %g", r.Position.X, r.Rotation.Radians, geom.Pitch)
			}
		case +geom.HalfSpan / 2:
			if math.Abs(r.Rotation.Radians+geom.Pitch) > eps {
				t.Errorf("rafter at x=%g has rotation %g, want -pitch %g", r.Position.X, r.Rotation.Radians, -geom.Pitch)
			}
		default:
			t.Errorf("rafter at unexpected x = %g", r.Position.X)
		}
	}
}

func TestBuildRoofSlopes(t *testing.T) {
	cfg := testConfig()
	geom, err := frame.Compute(cfg)
	if err != nil {
		t.Fatal(err)
	}
	slopes := byKind(build(t, cfg), layout.KindRoofSlope)
	if len(slopes) != 2 {
		t.Fatalf("roof slopes = %d, want 2", len(slopes))
	}

	for _, s := range slopes {
		if s.Position.Z != 0 {
			t.Errorf("roof slope z = %g, want 0", s.Position.Z)
		}
		if math.Abs(s.Dimensions.X-geom.SlopeLength) > eps {
			t.Errorf("roof slope width = %g, want slope length %g", s.Dimensions.X, geom.SlopeLength)
		}
		if math.Abs(s.Dimensions.Z-(cfg.Length+2*roofOverhang)) > eps {
			t.Errorf("roof slope span = %g, want %g", s.Dimensions.Z, cfg.Length+2*roofOverhang)
		}
	}

	// The two slopes mirror each other about x=0.
	if slopes[0].Position.X != -slopes[1].Position.X {
		t.Errorf("slope x positions not mirrored: %g vs %g", slopes[0].Position.X, slopes[1].Position.X)
	}
	if slopes[0].Rotation.Radians != -slopes[1].Rotation.Radians {
		t.Errorf("slope rotations not mirrored: %g vs %g", slopes[0].Rotation.Radians, slopes[1].Rotation.Radians)
	}
}

func TestBuildValidatesConfig(t *testing.T) {
	// Build guards its own inputs like the other generators; direct
	// library callers must not depend on Config.Validate having run.
	geom, err := frame.Compute(testConfig())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		mutate func(*layout.StructureConfig)
		code   errors.Code
	}{
		{"zero spacing", func(c *layout.StructureConfig) { c.ColumnSpacing = 0 }, errors.ErrCodeInvalidSpacing},
		{"negative spacing", func(c *layout.StructureConfig) { c.ColumnSpacing = -2 }, errors.ErrCodeInvalidSpacing},
		{"zero length", func(c *layout.StructureConfig) { c.Length = 0 }, errors.ErrCodeInvalidDimension},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			instances, err := Build(cfg, geom)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), tt.code)
			}
			if instances != nil {
				t.Error("expected nil instances on error")
			}
		})
	}
}
