package tensorfield

import (
	"math"
	"testing"

	"mapgen/vector"
)

func approx(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

func TestTensor_ScaleStability(t *testing.T) {
	base := FromAngle(math.Pi / 6)
	doubled := base.Add(base)

	n1 := base.Normalized()
	n2 := doubled.Normalized()

	if !approx(n1.Theta, n2.Theta, 1e-9) {
		t.Errorf("direction not stable under scaling: %v vs %v", n1.Theta, n2.Theta)
	}
}

func TestTensor_MajorMinorOrthogonal(t *testing.T) {
	tensor := FromAngle(0.73)
	major := tensor.Major(vector.Vector{})
	minor := tensor.Minor(vector.Vector{})

	if d := major.Dot(minor); !approx(d, 0, 1e-9) {
		t.Errorf("major/minor not orthogonal, dot=%v", d)
	}
}

func TestTensor_MajorAlignsWithPreferred(t *testing.T) {
	tensor := FromAngle(0)
	preferred := vector.Vector{X: -1, Y: 0}
	major := tensor.Major(preferred)
	if major.Dot(preferred) < 0 {
		t.Errorf("Major() not aligned with preferred direction: %v", major)
	}
}

func TestTensor_ZeroIsDegenerate(t *testing.T) {
	if !Zero.IsDegenerate() {
		t.Errorf("Zero tensor should be degenerate")
	}
}
