package streamline

import (
	"math"
	"testing"

	"mapgen/tensorfield"
	"mapgen/vector"
)

func TestRK4Step_FollowsConstantEastField(t *testing.T) {
	field := constantField{tensor: tensorfield.FromAngle(0)}
	p := vector.Vector{X: 0, Y: 0}
	dir := vector.Vector{X: 1, Y: 0}

	next, newDir, degenerate := rk4Step(field, p, dir, Major, 10)
	if degenerate {
		t.Fatalf("unexpected degenerate step")
	}
	if math.Abs(next.Y) > 1e-6 {
		t.Errorf("expected purely horizontal motion, got %v", next)
	}
	if next.X <= 0 {
		t.Errorf("expected forward progress along +x, got %v", next)
	}
	if newDir.Dot(dir) < 0 {
		t.Errorf("new direction flipped relative to previous: %v", newDir)
	}
}

func TestRK4Step_DegenerateFieldStopsIntegration(t *testing.T) {
	field := constantField{tensor: tensorfield.Zero}
	_, _, degenerate := rk4Step(field, vector.Vector{}, vector.Vector{X: 1, Y: 0}, Major, 10)
	if !degenerate {
		t.Errorf("expected degenerate report over a zero tensor field")
	}
}

func TestEulerStep_MatchesEigenvectorDirection(t *testing.T) {
	field := constantField{tensor: tensorfield.FromAngle(0)}
	next, _, degenerate := eulerStep(field, vector.Vector{}, vector.Vector{X: 1, Y: 0}, Major, 5)
	if degenerate {
		t.Fatalf("unexpected degenerate step")
	}
	if math.Abs(next.Y) > 1e-6 || next.X <= 0 {
		t.Errorf("eulerStep moved unexpectedly: %v", next)
	}
}

func TestParity_String(t *testing.T) {
	if Major.String() != "major" || Minor.String() != "minor" {
		t.Errorf("unexpected Parity.String() values")
	}
}
