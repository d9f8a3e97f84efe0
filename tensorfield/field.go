package tensorfield

import (
	"math"

	"mapgen/geom"
	"mapgen/vector"
)

// NoiseSource is the pluggable noise2D(x, y) -> [-1, 1] black box (spec.md
// §1 "noise backend", §4.C).
type NoiseSource interface {
	Noise2D(x, y float64) float64
}

// NoiseParams configures one noise modulator: an angle magnitude in degrees
// and a spatial size that the sample point is divided by before being fed to
// the noise source (spec.md §6 tensorField.noiseParams).
type NoiseParams struct {
	Enabled bool
	AngleDeg float64
	Size     float64
}

// rotation returns the rotation (in the doubled-theta tensor domain) that
// noise contributes at p.
func (np NoiseParams) rotation(noise NoiseSource, p vector.Vector) float64 {
	if !np.Enabled || np.Size == 0 {
		return 0
	}
	n := noise.Noise2D(p.X/np.Size, p.Y/np.Size)
	angleRad := np.AngleDeg * math.Pi / 180
	return 2 * (n * angleRad)
}

// Field is the TensorField of spec.md §3: an ordered list of basis fields
// plus water/park masks and noise modulators. Sample(p) returns Zero
// outside the effective range of every basis field.
type Field struct {
	Basis []BasisField

	Sea         []vector.Vector   // sea polygon, empty if none
	River       []vector.Vector   // river polyline (not yet buffered), empty if none
	RiverBuffer []vector.Vector   // buffered river polygon used for masking
	Parks       [][]vector.Vector // park polygons

	IgnoreRiver bool

	GlobalNoise NoiseParams
	ParkNoise   NoiseParams

	Noise NoiseSource
}

// New creates an empty Field. Basis fields and masks are added by the
// caller (normally the pipeline driver, per parameter input).
func New(noise NoiseSource) *Field {
	return &Field{Noise: noise}
}

// AddBasis appends a basis field to the field's blend.
func (f *Field) AddBasis(b BasisField) {
	f.Basis = append(f.Basis, b)
}

// InsideSea reports whether p lies inside the sea polygon.
func (f *Field) InsideSea(p vector.Vector) bool {
	return len(f.Sea) > 0 && geom.PointInPolygon(p, f.Sea)
}

// InsideRiver reports whether p lies inside the buffered river polygon.
func (f *Field) InsideRiver(p vector.Vector) bool {
	return len(f.RiverBuffer) > 0 && geom.PointInPolygon(p, f.RiverBuffer)
}

// InsidePark reports whether p lies inside any park polygon.
func (f *Field) InsidePark(p vector.Vector) bool {
	for _, park := range f.Parks {
		if geom.PointInPolygon(p, park) {
			return true
		}
	}
	return false
}

// Sample implements spec.md §4.C's sample(p) algorithm:
//  1. hard water mask -> Zero
//  2. weighted sum of basis tensors
//  3. noise rotation (park-local or global)
//  4. degenerate sentinel if magnitude below epsilon
func (f *Field) Sample(p vector.Vector) Tensor {
	if f.InsideSea(p) {
		return Zero
	}
	if !f.IgnoreRiver && f.InsideRiver(p) {
		return Zero
	}

	var total Tensor
	for _, b := range f.Basis {
		w := b.Weight(p)
		if w <= 0 {
			continue
		}
		t := b.TensorAt(p).Scale(w)
		total = total.Add(t)
	}

	if total.IsDegenerate() {
		return Zero
	}

	if f.Noise != nil {
		inPark := f.InsidePark(p)
		if inPark && f.ParkNoise.Enabled {
			total = total.Rotate(f.ParkNoise.rotation(f.Noise, p))
		} else if f.GlobalNoise.Enabled {
			total = total.Rotate(f.GlobalNoise.rotation(f.Noise, p))
		}
	}

	if total.IsDegenerate() {
		return Zero
	}
	return total
}
