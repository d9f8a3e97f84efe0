package tensorfield

import (
	"math"

	"mapgen/vector"
)

// BasisField is a primitive directional field with a centre of influence
// that decays to zero away from it (spec.md §3 "Basis field", §4.B).
type BasisField interface {
	// TensorAt returns the basis field's tensor value at p, ignoring decay
	// weighting (weighting is applied by the caller via Weight).
	TensorAt(p vector.Vector) Tensor
	// Weight returns how strongly this field should be blended at p, in
	// [0, 1], decaying with distance from the field's centre.
	Weight(p vector.Vector) float64
	// Centre returns the basis field's centre of influence.
	Centre() vector.Vector
}

// GridField is a constant-direction basis field: every point's tensor
// points the same way (theta), and weight decays with squared distance from
// centre normalized by size (spec.md §4.B).
type GridField struct {
	CentreV vector.Vector
	Size    float64
	Decay   float64
	Theta   float64 // field direction in radians
}

// NewGridField constructs a GridField.
func NewGridField(centre vector.Vector, size, decay, theta float64) *GridField {
	return &GridField{CentreV: centre, Size: size, Decay: decay, Theta: theta}
}

func (f *GridField) Centre() vector.Vector { return f.CentreV }

func (f *GridField) TensorAt(p vector.Vector) Tensor {
	return Tensor{R: f.Size * f.Size, Theta: wrapTheta(2 * f.Theta)}
}

func (f *GridField) Weight(p vector.Vector) float64 {
	d2 := p.DistanceSquared(f.CentreV)
	return math.Exp(-f.Decay * d2 / (f.Size * f.Size))
}

// RadialField orients its tensor perpendicular to the vector from centre to
// p, so streamlines following it spiral around centre (spec.md §4.B).
type RadialField struct {
	CentreV vector.Vector
	Size    float64
	Decay   float64
}

// NewRadialField constructs a RadialField.
func NewRadialField(centre vector.Vector, size, decay float64) *RadialField {
	return &RadialField{CentreV: centre, Size: size, Decay: decay}
}

func (f *RadialField) Centre() vector.Vector { return f.CentreV }

func (f *RadialField) TensorAt(p vector.Vector) Tensor {
	d := p.Sub(f.CentreV)
	if d.LengthSquared() < 1e-12 {
		return Zero
	}
	theta := d.Angle()
	// Perpendicular direction, doubled for tensor representation.
	return Tensor{R: f.Size * f.Size, Theta: wrapTheta(2 * (theta + math.Pi/2))}
}

func (f *RadialField) Weight(p vector.Vector) float64 {
	d2 := p.DistanceSquared(f.CentreV)
	return math.Exp(-f.Decay * d2 / (f.Size * f.Size))
}
