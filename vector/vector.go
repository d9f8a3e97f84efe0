// Package vector provides 2D point/vector arithmetic used throughout the
// map generator. Vector is a value type: methods take and return Vector by
// value so callers never share mutable state through a pointer.
package vector

import "math"

// Vector is a point or displacement in world units.
type Vector struct {
	X, Y float64
}

// Zero is the origin.
var Zero = Vector{}

// New constructs a Vector.
func New(x, y float64) Vector {
	return Vector{X: x, Y: y}
}

// Clone returns a copy of vec. Present for parity with call sites that want
// to make the copy-on-write explicit even though value semantics already
// guarantee it.
func (vec Vector) Clone() Vector {
	return vec
}

func (vec Vector) Add(other Vector) Vector {
	return Vector{X: vec.X + other.X, Y: vec.Y + other.Y}
}

func (vec Vector) Sub(other Vector) Vector {
	return Vector{X: vec.X - other.X, Y: vec.Y - other.Y}
}

func (vec Vector) Mul(factor float64) Vector {
	return Vector{X: vec.X * factor, Y: vec.Y * factor}
}

func (vec Vector) Div(divisor float64) Vector {
	return vec.Mul(1.0 / divisor)
}

// AddScaled returns vec + other*factor.
func (vec Vector) AddScaled(other Vector, factor float64) Vector {
	return Vector{X: vec.X + other.X*factor, Y: vec.Y + other.Y*factor}
}

func (vec Vector) Dot(other Vector) float64 {
	return vec.X*other.X + vec.Y*other.Y
}

// Cross returns the z-component of the 3D cross product, i.e. the signed
// area of the parallelogram spanned by vec and other.
func (vec Vector) Cross(other Vector) float64 {
	return vec.X*other.Y - vec.Y*other.X
}

// Rot90 rotates 90 degrees counter-clockwise.
func (vec Vector) Rot90() Vector {
	return Vector{X: -vec.Y, Y: vec.X}
}

// RotN90 rotates 90 degrees clockwise.
func (vec Vector) RotN90() Vector {
	return Vector{X: vec.Y, Y: -vec.X}
}

func (vec Vector) Length() float64 {
	return math.Hypot(vec.X, vec.Y)
}

func (vec Vector) LengthSquared() float64 {
	return vec.X*vec.X + vec.Y*vec.Y
}

func (vec Vector) Distance(other Vector) float64 {
	return vec.Sub(other).Length()
}

func (vec Vector) DistanceSquared(other Vector) float64 {
	dx := vec.X - other.X
	dy := vec.Y - other.Y
	return dx*dx + dy*dy
}

// Norm returns a unit vector in the same direction as vec. Returns Zero if
// vec has zero length.
func (vec Vector) Norm() Vector {
	l := vec.Length()
	if l == 0 {
		return Zero
	}
	return vec.Div(l)
}

// Angle returns the direction of vec as radians in (-pi, pi].
func (vec Vector) Angle() float64 {
	return math.Atan2(vec.Y, vec.X)
}

func Lerp(a, b, factor float64) float64 {
	return a + (b-a)*factor
}

func (vec Vector) Lerp(other Vector, factor float64) Vector {
	return Vector{X: Lerp(vec.X, other.X, factor), Y: Lerp(vec.Y, other.Y, factor)}
}

// FromAngle returns the unit vector pointing at angle radians.
func FromAngle(angle float64) Vector {
	return Vector{X: math.Cos(angle), Y: math.Sin(angle)}
}
