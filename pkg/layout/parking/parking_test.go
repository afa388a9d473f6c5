package parking

import (
	"math"
	"testing"

	"github.com/hallgen/hallgen/pkg/errors"
	"github.com/hallgen/hallgen/pkg/layout"
)

const eps = 1e-9

func carConfig() layout.ClassConfig {
	return layout.ClassConfig{
		Width:           2.4,
		Length:          5.0,
		AngleDegrees:    45,
		AisleOffset:     3.5,
		FillProbability: 0.6,
	}
}

func coachConfig() layout.ClassConfig {
	return layout.ClassConfig{
		Width:           3.5,
		Length:          14.0,
		AngleDegrees:    60,
		AisleOffset:     6.0,
		FillProbability: 0.4,
	}
}

// constSource always returns the same draw.
func constSource(v float64) layout.Source {
	return func() float64 { return v }
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

func TestBayPitch(t *testing.T) {
	if got := BayPitch(carConfig()); math.Abs(got-3.394) > 1e-3 {
		t.Errorf("car bay pitch = %g, want ~3.394", got)
	}
	want := 3.5 / math.Sin(60*math.Pi/180)
	if got := BayPitch(coachConfig()); math.Abs(got-want) > eps {
		t.Errorf("coach bay pitch = %g, want %g", got, want)
	}
}

func TestBayCount(t *testing.T) {
	tests := []struct {
		name   string
		class  Class
		cfg    layout.ClassConfig
		length float64
		want   int
	}{
		// car: (96-12)/3.3941 = 24.74 → 24, minus 1 margin bay.
		{"car 96m", ClassCar, carConfig(), 96, 23},
		// coach: (96-20)/4.0415 = 18.80 → 18, minus 1 margin bay.
		{"coach 96m", ClassCoach, coachConfig(), 96, 17},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BayCount(tt.class, tt.cfg, tt.length)
			pitch := BayPitch(tt.cfg)
			available := tt.length - 2*classParams[tt.class].endClearance
			if want := int(math.Floor(available/pitch)) - classParams[tt.class].marginBays; got != want {
				t.Fatalf("BayCount disagrees with its own formula: %d vs %d", got, want)
			}
			if got != tt.want {
				t.Errorf("BayCount = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPlanClassEmptyAndFull(t *testing.T) {
	cfg := carConfig()
	bays := BayCount(ClassCar, cfg, 96)

	// A draw of 0 never clears 1-fill, so no bay is occupied.
	empty, err := PlanClass(ClassCar, cfg, 96, constSource(0))
	if err != nil {
		t.Fatalf("PlanClass: %v", err)
	}
	if got := len(byKind(empty, layout.KindVehicle)); got != 0 {
		t.Errorf("vehicles with zero draws = %d, want 0", got)
	}
	if got := len(byKind(empty, layout.KindParkingDivider)); got != bays*2 {
		t.Errorf("dividers = %d, want %d (both sides)", got, bays*2)
	}

	// A draw just under 1 always clears it.
	full, err := PlanClass(ClassCar, cfg, 96, constSource(0.999))
	if err != nil {
		t.Fatal(err)
	}
	if got := len(byKind(full, layout.KindVehicle)); got != bays*2 {
		t.Errorf("vehicles with max draws = %d, want %d", got, bays*2)
	}
}

func TestPlanClassCoachSingleRow(t *testing.T) {
	cfg := coachConfig()
	instances, err := PlanClass(ClassCoach, cfg, 96, constSource(0))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := len(instances), BayCount(ClassCoach, cfg, 96); got != want {
		t.Fatalf("coach dividers = %d, want %d (single row)", got, want)
	}
	for _, in := range instances {
		if in.Position.X <= 0 {
			t.Errorf("coach divider on wrong aisle side, x = %g", in.Position.X)
		}
	}
}

func TestPlanClassVehicleOrientation(t *testing.T) {
	cfg := carConfig()
	instances, err := PlanClass(ClassCar, cfg, 96, constSource(0.999))
	if err != nil {
		t.Fatal(err)
	}

	// Instances alternate divider, vehicle per bay; each vehicle shares
	// its divider's footprint and faces 180 degrees the other way.
	if len(instances)%2 != 0 {
		t.Fatalf("odd instance count %d with every bay occupied", len(instances))
	}
	for i := 0; i < len(instances); i += 2 {
		div, veh := instances[i], instances[i+1]
		if div.Kind != layout.KindParkingDivider || veh.Kind != layout.KindVehicle {
			t.Fatalf("pair %d is %q/%q", i/2, div.Kind, veh.Kind)
		}
		if veh.Rotation.Axis != layout.AxisY {
			t.Fatalf("vehicle rotation axis = %v, want y", veh.Rotation.Axis)
		}
		if math.Abs(veh.Rotation.Radians-(div.Rotation.Radians+math.Pi)) > eps {
			t.Errorf("vehicle heading = %g, want divider %g + pi", veh.Rotation.Radians, div.Rotation.Radians)
		}
		if math.Abs(veh.Position.X-div.Position.X) > eps || math.Abs(veh.Position.Z-div.Position.Z) > eps {
			t.Errorf("vehicle not centered on its bay: (%g,%g) vs (%g,%g)",
				veh.Position.X, veh.Position.Z, div.Position.X, div.Position.Z)
		}
	}
}

func TestPlanClassDividerGeometry(t *testing.T) {
	cfg := carConfig()
	instances, err := PlanClass(ClassCar, cfg, 96, constSource(0))
	if err != nil {
		t.Fatal(err)
	}

	angleRad := cfg.AngleDegrees * math.Pi / 180
	pitch := BayPitch(cfg)
	startZ := -96.0/2 + classParams[ClassCar].endClearance

	// First divider of the +x row: pivot at (aisleOffset, startZ),
	// center half a stall length along the rotated divider axis.
	first := instances[0]
	wantX := cfg.AisleOffset + math.Cos(angleRad)*cfg.Length/2
	wantZ := startZ - math.Sin(angleRad)*cfg.Length/2
	if math.Abs(first.Position.X-wantX) > eps {
		t.Errorf("first divider x = %g, want %g", first.Position.X, wantX)
	}
	if math.Abs(first.Position.Z-wantZ) > eps {
		t.Errorf("first divider z = %g, want %g", first.Position.Z, wantZ)
	}
	if math.Abs(first.Rotation.Radians-angleRad) > eps {
		t.Errorf("first divider heading = %g, want %g", first.Rotation.Radians, angleRad)
	}

	// Successive dividers in a row advance by exactly one bay pitch.
	second := instances[1]
	if math.Abs((second.Position.Z-first.Position.Z)-pitch) > eps {
		t.Errorf("divider spacing = %g, want pitch %g", second.Position.Z-first.Position.Z, pitch)
	}
}

func TestPlanDeterministic(t *testing.T) {
	cfg := layout.ParkingConfig{Car: carConfig(), Coach: coachConfig()}

	// A fixed pseudo-random sequence, restarted for each run.
	seq := func() layout.Source {
		state := uint64(0x9e3779b97f4a7c15)
		return func() float64 {
			state = state*6364136223846793005 + 1442695040888963407
			return float64(state>>11) / (1 << 53)
		}
	}

	a, err := Plan(cfg, 96, seq())
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	b, err := Plan(cfg, 96, seq())
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("instance %d differs between runs", i)
		}
	}
}

func TestPlanValidatesBothClasses(t *testing.T) {
	// A bad coach angle must fail the whole plan even when the car
	// class is valid.
	cfg := layout.ParkingConfig{Car: carConfig(), Coach: coachConfig()}
	cfg.Coach.AngleDegrees = 90

	instances, err := Plan(cfg, 96, constSource(0.5))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, errors.ErrCodeInvalidAngle) {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidAngle)
	}
	if instances != nil {
		t.Error("expected nil instances on error")
	}
}

func TestPlanClassErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*layout.ClassConfig)
		length float64
		code   errors.Code
	}{
		{"flat angle", func(c *layout.ClassConfig) { c.AngleDegrees = 0 }, 96, errors.ErrCodeInvalidAngle},
		{"perpendicular angle", func(c *layout.ClassConfig) { c.AngleDegrees = 90 }, 96, errors.ErrCodeInvalidAngle},
		{"too short", func(c *layout.ClassConfig) {}, 20, errors.ErrCodeDegenerateBays},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := carConfig()
			tt.mutate(&cfg)
			instances, err := PlanClass(ClassCar, cfg, tt.length, constSource(0.5))
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
