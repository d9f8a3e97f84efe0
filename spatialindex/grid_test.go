package spatialindex

import (
	"math"
	"testing"

	"mapgen/vector"
)

func TestGrid_EmptyIsInfinitelyFar(t *testing.T) {
	g := New(vector.Vector{}, vector.Vector{X: 1000, Y: 1000}, 10)
	if d := g.NearestDistance(vector.Vector{X: 5, Y: 5}); !math.IsInf(d, 0) && d < 1e200 {
		t.Errorf("NearestDistance on empty grid = %v, want a large sentinel", d)
	}
}

func TestGrid_FindsInsertedSample(t *testing.T) {
	g := New(vector.Vector{}, vector.Vector{X: 1000, Y: 1000}, 10)
	g.Add(1, 0, vector.Vector{X: 50, Y: 50})

	d := g.NearestDistance(vector.Vector{X: 52, Y: 50})
	if !approx(d, 2, 1e-9) {
		t.Errorf("NearestDistance = %v, want 2", d)
	}
}

func TestGrid_IgnoresSamplesOutsideNeighbourhood(t *testing.T) {
	g := New(vector.Vector{}, vector.Vector{X: 1000, Y: 1000}, 10)
	g.Add(1, 0, vector.Vector{X: 500, Y: 500})

	// Far outside the 3x3 cell neighbourhood of (0,0).
	d := g.NearestDistance(vector.Vector{X: 0, Y: 0})
	if d < 400 {
		t.Errorf("NearestDistance leaked a sample outside the 3x3 neighbourhood: %v", d)
	}
}

func TestGrid_OkForRadius(t *testing.T) {
	g := New(vector.Vector{}, vector.Vector{X: 1000, Y: 1000}, 20)
	g.Add(1, 0, vector.Vector{X: 100, Y: 100})

	if g.OkForRadius(vector.Vector{X: 101, Y: 100}, 5) {
		t.Errorf("OkForRadius should reject a point within radius of a sample")
	}
	if !g.OkForRadius(vector.Vector{X: 200, Y: 200}, 5) {
		t.Errorf("OkForRadius should accept a point far from every sample")
	}
}

func TestGrid_AddPolylineInsertsEverySample(t *testing.T) {
	g := New(vector.Vector{}, vector.Vector{X: 1000, Y: 1000}, 10)
	line := []vector.Vector{{X: 0, Y: 0}, {X: 100, Y: 100}, {X: 200, Y: 0}}
	g.AddPolyline(7, line)

	for _, p := range line {
		if d := g.NearestDistance(p); d > 1e-9 {
			t.Errorf("NearestDistance(%v) = %v, want ~0", p, d)
		}
	}
}

func TestGrid_Clear(t *testing.T) {
	g := New(vector.Vector{}, vector.Vector{X: 1000, Y: 1000}, 10)
	g.Add(1, 0, vector.Vector{X: 50, Y: 50})
	g.Clear()

	if d := g.NearestDistance(vector.Vector{X: 50, Y: 50}); d < 1e200 {
		t.Errorf("NearestDistance after Clear = %v, want empty", d)
	}
}

func approx(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}
