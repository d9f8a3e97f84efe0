// Package streamline implements the integrator and tracer of spec.md §4.D
// and §4.F: growing separated polylines along the tensor field's
// eigenvector directions under grid-accelerated proximity constraints.
package streamline

import (
	"mapgen/tensorfield"
	"mapgen/vector"
)

// Parity selects which of the tensor field's two orthogonal eigenvector
// directions a streamline follows at each step (spec.md Glossary "Parity").
type Parity int

const (
	Major Parity = iota
	Minor
)

func (p Parity) String() string {
	if p == Major {
		return "major"
	}
	return "minor"
}

// Sampler is the subset of *tensorfield.Field's behaviour the integrator
// needs, narrowed so the integrator and tracer can be tested against a
// stand-in field.
type Sampler interface {
	Sample(p vector.Vector) tensorfield.Tensor
}

// eigenvector returns the unit direction of field's tensor at p for the
// given parity, aligned with prevDir (dot >= 0) to avoid 180-degree flips at
// tensor-sign ambiguities (spec.md §4.D). ok is false if the tensor is
// degenerate.
func eigenvector(field Sampler, p, prevDir vector.Vector, parity Parity) (vector.Vector, bool) {
	t := field.Sample(p)
	if t.IsDegenerate() {
		return vector.Vector{}, false
	}
	if parity == Major {
		return t.Major(prevDir), true
	}
	return t.Minor(prevDir), true
}

// rk4Step advances p by dstep along the chosen eigenvector field using a
// fourth-order Runge-Kutta step, re-aligning the eigenvector at each
// sub-point to the running direction. Reports degenerate if the tensor is
// degenerate at any of the four sub-points (spec.md §4.D).
func rk4Step(field Sampler, p, dir vector.Vector, parity Parity, dstep float64) (next, newDir vector.Vector, degenerate bool) {
	k1, ok := eigenvector(field, p, dir, parity)
	if !ok {
		return p, dir, true
	}
	k2, ok := eigenvector(field, p.AddScaled(k1, dstep/2), k1, parity)
	if !ok {
		return p, dir, true
	}
	k3, ok := eigenvector(field, p.AddScaled(k2, dstep/2), k2, parity)
	if !ok {
		return p, dir, true
	}
	k4, ok := eigenvector(field, p.AddScaled(k3, dstep), k3, parity)
	if !ok {
		return p, dir, true
	}

	avg := k1.Add(k2.Mul(2)).Add(k3.Mul(2)).Add(k4).Mul(1.0 / 6.0).Norm()
	if avg.LengthSquared() < 1e-12 {
		return p, dir, true
	}
	return p.AddScaled(avg, dstep), avg, false
}

// eulerStep is a single forward step along the eigenvector at p, with no
// sub-point sampling. It reports degenerate under the same condition as
// rk4Step's first sub-point; the tracer and water generator integrate with
// rk4Step only and do not call it.
func eulerStep(field Sampler, p, dir vector.Vector, parity Parity, dstep float64) (next, newDir vector.Vector, degenerate bool) {
	k1, ok := eigenvector(field, p, dir, parity)
	if !ok {
		return p, dir, true
	}
	return p.AddScaled(k1, dstep), k1, false
}
