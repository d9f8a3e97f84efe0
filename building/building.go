// Package building projects building lots into pseudo-3D roof and side
// geometry under a camera view, per spec.md §4.J. The source's process-wide
// pan/zoom singleton is replaced with an explicit ViewState value, per
// spec.md §9 "Singletons".
package building

import (
	"math/rand"

	"mapgen/internal/xslice"
	"mapgen/vector"
)

// ViewState is the explicit value carrying what the source kept in a
// process-wide "domain controller" (spec.md §9). The core pipeline does not
// depend on it; only building projection and rendering do.
type ViewState struct {
	Origin          vector.Vector
	Zoom            float64
	WorldDimensions vector.Vector

	// CameraPosition is the screen-space camera point used by the
	// perspective projection formula; CameraDirection is the unit
	// screen-space direction used by the orthographic formula. Both are
	// supplied by the caller in screen space (spec.md §4.J).
	CameraPosition  vector.Vector
	CameraDirection vector.Vector

	Orthographic bool
}

// WorldToScreen applies the view's pan/zoom to a world point.
func (v ViewState) WorldToScreen(p vector.Vector) vector.Vector {
	return p.Sub(v.Origin).Mul(v.Zoom)
}

// HeightRange configures the random height each building is sampled from.
// The source hard-codes [20, 40]; spec.md §9 requires this be configurable.
type HeightRange struct {
	Min, Max float64
}

// SampleHeight draws a uniform height in r, via rng.
func (r HeightRange) SampleHeight(rng *rand.Rand) float64 {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Model is a fully-owned projected building (spec.md §3 "BuildingModel").
type Model struct {
	Lot       []vector.Vector // world space
	ScreenLot []vector.Vector // screen space, pre-extrusion
	Roof      []vector.Vector
	Sides     [][4]vector.Vector
	Height    float64
}

// Project computes a Model for lot at the given height under view,
// implementing spec.md §4.J's per-vertex roof formulas and emitting one side
// quad per lot edge.
func Project(lot []vector.Vector, height float64, view ViewState) Model {
	focal := 1000 / view.Zoom

	screenLot := make([]vector.Vector, len(lot))
	roof := make([]vector.Vector, len(lot))
	for i, v := range lot {
		sv := view.WorldToScreen(v)
		screenLot[i] = sv
		if view.Orthographic {
			// Orthographic has no focal point: translate by height along
			// the camera direction with no convergence term (spec.md §4.J,
			// §8 scenario 5).
			roof[i] = sv.Add(view.CameraDirection.Norm().Mul(height))
		} else {
			roof[i] = sv.Add(sv.Sub(view.CameraPosition).Mul(height / (focal - height)))
		}
	}

	n := len(lot)
	sides := make([][4]vector.Vector, n)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sides[i] = [4]vector.Vector{screenLot[i], screenLot[j], roof[j], roof[i]}
	}

	return Model{Lot: lot, ScreenLot: screenLot, Roof: roof, Sides: sides, Height: height}
}

// SortByHeightAscending sorts models so taller buildings are drawn after
// (over) shorter ones (spec.md §4.J "Sort buildings ascending by height").
func SortByHeightAscending(models []Model) {
	xslice.SortByKey(models, func(m Model) float64 { return m.Height })
}
