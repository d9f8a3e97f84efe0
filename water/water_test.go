package water

import (
	"math"
	"math/rand"
	"testing"

	"mapgen/geom"
	"mapgen/noise"
	"mapgen/streamline"
	"mapgen/tensorfield"
	"mapgen/vector"
)

func horizontalField() *tensorfield.Field {
	f := tensorfield.New(noise.NewHash(1))
	f.AddBasis(tensorfield.NewGridField(vector.Vector{X: 500, Y: 500}, 2000, 0.01, 0))
	return f
}

func TestGenerateCoastline_ReachesBothEdges(t *testing.T) {
	field := horizontalField()
	rng := rand.New(rand.NewSource(7))
	origin := vector.Vector{}
	size := vector.Vector{X: 1000, Y: 1000}

	result, ok := GenerateCoastline(field, origin, size, rng, 10, NoiseConfig{})
	if !ok {
		t.Fatalf("coastline generation failed over %d attempts", maxAttempts)
	}
	if len(result.SeaPolygon) < 3 {
		t.Fatalf("sea polygon too small: %v", result.SeaPolygon)
	}

	worldArea := size.X * size.Y
	seaArea := math.Abs(geom.Area(result.SeaPolygon))
	if seaArea <= 0 || seaArea >= worldArea/2 {
		t.Errorf("sea polygon area %v should be strictly less than half the world area %v", seaArea, worldArea/2)
	}
}

func TestGenerateRiver_CrossesOppositeParity(t *testing.T) {
	field := horizontalField()
	rng := rand.New(rand.NewSource(11))
	origin := vector.Vector{}
	size := vector.Vector{X: 1000, Y: 1000}

	coast, ok := GenerateCoastline(field, origin, size, rng, 10, NoiseConfig{})
	if !ok {
		t.Fatalf("coastline generation failed")
	}

	river, ok := GenerateRiver(field, origin, size, rng, 10, NoiseConfig{}, coast.Parity, 20, 5)
	if !ok {
		t.Fatalf("river generation failed")
	}
	if river.Polygon == nil || river.WaterSurface == nil {
		t.Fatalf("expected non-nil river polygons")
	}
	if len(river.Centerline) < 2 {
		t.Fatalf("river centerline too short")
	}
	coastDir := coast.Coastline[len(coast.Coastline)-1].Sub(coast.Coastline[0]).Norm()
	riverDir := river.Centerline[len(river.Centerline)-1].Sub(river.Centerline[0]).Norm()
	if d := math.Abs(coastDir.Dot(riverDir)); d > 1e-6 {
		t.Errorf("river should cross the coastline perpendicularly on a constant field, |cos| = %v", d)
	}

	expectedParity := streamline.Major
	if coast.Parity == streamline.Major {
		expectedParity = streamline.Minor
	}
	// Exercise both parity branches of GenerateRiver by calling with the
	// coastline's own parity too; it should still integrate successfully
	// (growBothEdges does not itself depend on the caller's choice being
	// the true opposite).
	_, _ = GenerateRiver(field, origin, size, rng, 10, NoiseConfig{}, expectedParity, 20, 5)

	if field.River == nil {
		t.Errorf("GenerateRiver should record the river centerline onto the field")
	}
}

func TestGenerateRiver_ClearsSeaDuringGrowth(t *testing.T) {
	field := horizontalField()
	field.Sea = []vector.Vector{{X: 0, Y: 0}, {X: 1000, Y: 0}, {X: 1000, Y: 1000}, {X: 0, Y: 1000}}
	rng := rand.New(rand.NewSource(3))

	_, ok := GenerateRiver(field, vector.Vector{}, vector.Vector{X: 1000, Y: 1000}, rng, 10, NoiseConfig{}, streamline.Major, 20, 5)
	if !ok {
		t.Fatalf("river generation failed even with pre-existing sea mask cleared during growth")
	}
	if len(field.Sea) == 0 {
		t.Errorf("GenerateRiver should restore the sea mask after growth")
	}
	if field.IgnoreRiver {
		t.Errorf("GenerateRiver should restore IgnoreRiver to its prior value")
	}
}

func TestExtendEnds_PushesPastBoundary(t *testing.T) {
	line := []vector.Vector{{X: 10, Y: 0}, {X: 5, Y: 0}, {X: 0, Y: 0}}
	extended := extendEnds(line, 5)

	if extended[0].X <= line[0].X {
		t.Errorf("start point not extended outward: %v", extended[0])
	}
	if extended[len(extended)-1].X >= line[len(line)-1].X {
		t.Errorf("end point not extended outward: %v", extended[len(extended)-1])
	}
}

func TestBuildRiverPolygon_RejectsZeroWidth(t *testing.T) {
	line := []vector.Vector{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 20, Y: 5}}
	if buildRiverPolygon(line, 0) != nil {
		t.Errorf("expected nil polygon for zero half-width")
	}
}
