package building

import (
	"math"
	"math/rand"
	"testing"

	"mapgen/vector"
)

func lotSquare() []vector.Vector {
	return []vector.Vector{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
}

func TestProject_OrthographicShiftsRoofAlongCameraDirection(t *testing.T) {
	view := ViewState{
		Zoom:            1,
		CameraDirection: vector.Vector{X: 0, Y: -1},
		Orthographic:    true,
	}
	model := Project(lotSquare(), 40, view)

	for i, roof := range model.Roof {
		delta := roof.Sub(model.ScreenLot[i])
		if delta.X != 0 {
			t.Errorf("vertex %d: orthographic shift should be purely along camera direction, got %v", i, delta)
		}
		if delta.Y >= 0 {
			t.Errorf("vertex %d: expected roof displaced along camera direction (0,-1), got delta %v", i, delta)
		}
	}
}

// TestProject_OrthographicMatchesWorkedScenario reproduces spec.md §8
// scenario 5 exactly: zoom=1.0, height=40, camera direction (0,-1) must
// translate the roof by exactly (0,-40) with no focal/convergence term.
func TestProject_OrthographicMatchesWorkedScenario(t *testing.T) {
	view := ViewState{
		Zoom:            1.0,
		CameraDirection: vector.Vector{X: 0, Y: -1},
		Orthographic:    true,
	}
	model := Project(lotSquare(), 40, view)

	for i, roof := range model.Roof {
		delta := roof.Sub(model.ScreenLot[i])
		if !approx(delta.X, 0) || !approx(delta.Y, -40) {
			t.Errorf("vertex %d: delta = %v, want (0,-40)", i, delta)
		}
	}
}

func TestProject_PerspectiveScalesAwayFromCamera(t *testing.T) {
	view := ViewState{
		Zoom:           1,
		CameraPosition: vector.Vector{X: -1000, Y: -1000},
		Orthographic:   false,
	}
	model := Project(lotSquare(), 40, view)

	for i, roof := range model.Roof {
		distLot := model.ScreenLot[i].Distance(view.CameraPosition)
		distRoof := roof.Distance(view.CameraPosition)
		if distRoof <= distLot {
			t.Errorf("vertex %d: perspective roof point should move farther from the camera, lot=%v roof=%v", i, distLot, distRoof)
		}
	}
}

func TestProject_EmitsOneSideQuadPerEdge(t *testing.T) {
	view := ViewState{Zoom: 1, CameraDirection: vector.Vector{X: 0, Y: -1}, Orthographic: true}
	lot := lotSquare()
	model := Project(lot, 40, view)

	if len(model.Sides) != len(lot) {
		t.Fatalf("expected %d side quads, got %d", len(lot), len(model.Sides))
	}
	for i, quad := range model.Sides {
		j := (i + 1) % len(lot)
		if quad[0] != model.ScreenLot[i] || quad[1] != model.ScreenLot[j] {
			t.Errorf("side quad %d base edge mismatch: %v", i, quad)
		}
		if quad[2] != model.Roof[j] || quad[3] != model.Roof[i] {
			t.Errorf("side quad %d roof edge mismatch: %v", i, quad)
		}
	}
}

func TestSortByHeightAscending(t *testing.T) {
	models := []Model{{Height: 30}, {Height: 10}, {Height: 20}}
	SortByHeightAscending(models)

	for i := 1; i < len(models); i++ {
		if models[i].Height < models[i-1].Height {
			t.Fatalf("models not sorted ascending: %v", models)
		}
	}
}

func TestHeightRange_SampleWithinBounds(t *testing.T) {
	r := HeightRange{Min: 20, Max: 40}
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		h := r.SampleHeight(rng)
		if h < r.Min || h > r.Max {
			t.Fatalf("sampled height %v outside [%v, %v]", h, r.Min, r.Max)
		}
	}
}

func TestHeightRange_DegenerateRangeReturnsMin(t *testing.T) {
	r := HeightRange{Min: 25, Max: 25}
	rng := rand.New(rand.NewSource(1))
	if h := r.SampleHeight(rng); !approx(h, 25) {
		t.Errorf("SampleHeight on degenerate range = %v, want 25", h)
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
