package streamline

import (
	"math"
	"math/rand"
	"testing"

	"mapgen/tensorfield"
	"mapgen/vector"
)

// constantField always returns the same tensor, so major streamlines run
// due east/west and minor streamlines run due north/south.
type constantField struct {
	tensor tensorfield.Tensor
}

func (f constantField) Sample(p vector.Vector) tensorfield.Tensor { return f.tensor }

func horizontalField() constantField {
	return constantField{tensor: tensorfield.FromAngle(0)}
}

func defaultParams() Params {
	return Params{
		Dsep:              50,
		Dtest:             25,
		Dstep:             5,
		Dlookahead:        10,
		Dcirclejoin:       10,
		JoinAngle:         math.Pi / 6,
		PathIterations:    500,
		SeedTries:         30,
		SimplifyTolerance: 1,
	}
}

func TestTracer_GrowProducesHorizontalStreamline(t *testing.T) {
	field := horizontalField()
	tr := NewTracer(field, vector.Vector{}, vector.Vector{X: 1000, Y: 1000}, 50)

	s, ok := tr.Grow(vector.Vector{X: 500, Y: 500}, Major, defaultParams())
	if !ok {
		t.Fatalf("Grow rejected the streamline")
	}
	if len(s.Dense) < 5 {
		t.Fatalf("streamline too short: %d samples", len(s.Dense))
	}
	for i := 1; i < len(s.Dense); i++ {
		dy := math.Abs(s.Dense[i].Y - s.Dense[i-1].Y)
		if dy > 1e-6 {
			t.Errorf("sample %d moved vertically by %v on a horizontal field", i, dy)
		}
	}
}

func TestTracer_ConsecutiveSamplesWithinDstep(t *testing.T) {
	field := horizontalField()
	tr := NewTracer(field, vector.Vector{}, vector.Vector{X: 1000, Y: 1000}, 50)
	p := defaultParams()

	s, ok := tr.Grow(vector.Vector{X: 500, Y: 500}, Major, p)
	if !ok {
		t.Fatalf("Grow rejected the streamline")
	}
	for i := 1; i < len(s.Dense); i++ {
		d := s.Dense[i].Distance(s.Dense[i-1])
		if d > p.Dstep*1.05 {
			t.Errorf("sample %d..%d distance %v exceeds dstep*(1+eps)", i-1, i, d)
		}
	}
}

func TestTracer_SameParitySeparation(t *testing.T) {
	field := horizontalField()
	tr := NewTracer(field, vector.Vector{}, vector.Vector{X: 1000, Y: 1000}, 50)
	p := defaultParams()

	first, ok := tr.Grow(vector.Vector{X: 500, Y: 500}, Major, p)
	if !ok {
		t.Fatalf("first Grow rejected")
	}

	// A seed 5 units away (well under dtest) should fail ok_for_dsep against
	// the committed streamline's grid.
	nearSeed := vector.Vector{X: 500, Y: 505}
	if tr.MajorGrid().OkForRadius(nearSeed, p.Dsep) {
		t.Errorf("seed near an existing major streamline should fail ok_for_dsep")
	}
	_ = first
}

func TestTracer_RejectsOutOfBoundsSeed(t *testing.T) {
	field := horizontalField()
	// A world so small the first step immediately leaves it; streamline
	// should be rejected for falling under 5 samples.
	tr := NewTracer(field, vector.Vector{}, vector.Vector{X: 1, Y: 1000}, 50)
	p := defaultParams()

	_, ok := tr.Grow(vector.Vector{X: 0.5, Y: 500}, Major, p)
	if ok {
		t.Errorf("expected rejection for a streamline with no room to grow")
	}
}

func TestTracer_SeedRespectsBothGrids(t *testing.T) {
	field := horizontalField()
	tr := NewTracer(field, vector.Vector{}, vector.Vector{X: 100, Y: 100}, 50)
	tr.major.AddPolyline(0, []vector.Vector{{X: 50, Y: 50}})
	tr.minor.AddPolyline(0, []vector.Vector{{X: 10, Y: 10}})

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		p, ok := tr.Seed(rng, 50, 5)
		if !ok {
			continue
		}
		if tr.major.NearestDistance(p) < 50 || tr.minor.NearestDistance(p) < 50 {
			t.Errorf("seed %v too close to a stored sample", p)
		}
	}
}

func TestTracer_StepIsDeterministicWithFixedSeed(t *testing.T) {
	p := defaultParams()
	run := func() []Streamline {
		field := horizontalField()
		tr := NewTracer(field, vector.Vector{}, vector.Vector{X: 300, Y: 300}, 50)
		rng := rand.New(rand.NewSource(42))
		tr.RunToCompletion(rng, p)
		return tr.Streamlines
	}

	a := run()
	b := run()
	if len(a) != len(b) {
		t.Fatalf("streamline counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if len(a[i].Dense) != len(b[i].Dense) {
			t.Fatalf("streamline %d length differs between runs", i)
		}
		for j := range a[i].Dense {
			if a[i].Dense[j] != b[i].Dense[j] {
				t.Fatalf("streamline %d sample %d differs between runs", i, j)
			}
		}
	}
}

func TestTracer_Clear(t *testing.T) {
	field := horizontalField()
	tr := NewTracer(field, vector.Vector{}, vector.Vector{X: 1000, Y: 1000}, 50)
	tr.Grow(vector.Vector{X: 500, Y: 500}, Major, defaultParams())

	tr.Clear()
	if len(tr.Streamlines) != 0 || len(tr.AllSimple) != 0 {
		t.Errorf("Clear did not drop streamline buffers")
	}
	if tr.MajorGrid().NearestDistance(vector.Vector{X: 500, Y: 500}) < 1e200 {
		t.Errorf("Clear did not drop grid contents")
	}
}
