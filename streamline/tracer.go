package streamline

import (
	"math"
	"math/rand"
	"time"

	"mapgen/geom"
	"mapgen/spatialindex"
	"mapgen/vector"
)

// Streamline is the ordered polyline of spec.md §3, in both its dense
// (collision) and simplified (rendering/graph) forms.
type Streamline struct {
	ID     int
	Parity Parity
	Dense  []vector.Vector
	Simple []vector.Vector
}

// Tracer grows, separates, joins and simplifies streamlines over a field,
// maintaining one grid per parity so major and minor streamlines may cross
// each other freely but never cross same-parity samples within dtest
// (spec.md §4.E, §4.F).
type Tracer struct {
	Field  Sampler
	origin vector.Vector
	size   vector.Vector

	major *spatialindex.Grid
	minor *spatialindex.Grid

	nextID       int
	parityToggle int

	Streamlines []Streamline
	AllSimple   [][]vector.Vector
}

// NewTracer creates a Tracer over the world rectangle [origin, origin+size),
// with grid cells sized dsep (spec.md §4.E).
func NewTracer(field Sampler, origin, size vector.Vector, dsep float64) *Tracer {
	return &Tracer{
		Field:  field,
		origin: origin,
		size:   size,
		major:  spatialindex.New(origin, size, dsep),
		minor:  spatialindex.New(origin, size, dsep),
	}
}

// MajorGrid and MinorGrid expose the per-parity grids so an earlier
// pipeline stage's samples can be pre-seeded into a later stage's grid
// (spec.md §4.K "collide_with").
func (t *Tracer) MajorGrid() *spatialindex.Grid { return t.major }
func (t *Tracer) MinorGrid() *spatialindex.Grid { return t.minor }

func (t *Tracer) gridFor(parity Parity) *spatialindex.Grid {
	if parity == Major {
		return t.major
	}
	return t.minor
}

func (t *Tracer) inBounds(p vector.Vector) bool {
	return p.X >= t.origin.X && p.X <= t.origin.X+t.size.X &&
		p.Y >= t.origin.Y && p.Y <= t.origin.Y+t.size.Y
}

// Clear drops all buffers and grids atomically (spec.md §4.F "cancellation
// = clear()").
func (t *Tracer) Clear() {
	t.major.Clear()
	t.minor.Clear()
	t.Streamlines = nil
	t.AllSimple = nil
	t.nextID = 0
	t.parityToggle = 0
}

// Seed draws a point by rejection sampling: uniform in the world rectangle,
// accepted if the field is not degenerate there (so not in water) and it is
// ok_for_dsep in both the major and minor grids. Returns false if no
// acceptable point was found within tries attempts (spec.md §4.F "Seeding").
func (t *Tracer) Seed(rng *rand.Rand, dsep float64, tries int) (vector.Vector, bool) {
	for i := 0; i < tries; i++ {
		p := vector.Vector{
			X: t.origin.X + rng.Float64()*t.size.X,
			Y: t.origin.Y + rng.Float64()*t.size.Y,
		}
		if t.Field.Sample(p).IsDegenerate() {
			continue
		}
		if t.major.OkForRadius(p, dsep) && t.minor.OkForRadius(p, dsep) {
			return p, true
		}
	}
	return vector.Vector{}, false
}

// NextParity alternates major/minor across successive calls, interleaving
// the two families as seeds are drawn (spec.md §4.F "Seeds alternate
// between major and minor").
func (t *Tracer) NextParity() Parity {
	parity := t.parityToggle
	t.parityToggle = 1 - t.parityToggle
	if parity == 0 {
		return Major
	}
	return Minor
}

// Grow integrates a single streamline from seed in both directions, commits
// it if accepted, and reports whether it was accepted (spec.md §4.F "Single-
// streamline integration" and "Ownership and commit"). A rejected growth
// (fewer than 5 samples) leaves grids and buffers untouched.
func (t *Tracer) Grow(seed vector.Vector, parity Parity, p Params) (Streamline, bool) {
	tensor := t.Field.Sample(seed)
	if tensor.IsDegenerate() {
		return Streamline{}, false
	}

	var initialDir vector.Vector
	if parity == Major {
		initialDir = tensor.Major(vector.Vector{})
	} else {
		initialDir = tensor.Minor(vector.Vector{})
	}

	fwd := t.growHalf(seed, initialDir, parity, p)
	bwd := t.growHalf(seed, initialDir.Mul(-1), parity, p)

	dense := make([]vector.Vector, 0, len(fwd)+len(bwd)+1)
	for i := len(bwd) - 1; i >= 0; i-- {
		dense = append(dense, bwd[i])
	}
	dense = append(dense, seed)
	dense = append(dense, fwd...)

	if len(dense) < 5 {
		return Streamline{}, false
	}

	simple := geom.PolylineRDP(dense, p.SimplifyTolerance)

	s := Streamline{ID: t.nextID, Parity: parity, Dense: dense, Simple: simple}
	t.nextID++
	t.commit(s)
	return s, true
}

func (t *Tracer) commit(s Streamline) {
	t.gridFor(s.Parity).AddPolyline(s.ID, s.Dense)
	t.Streamlines = append(t.Streamlines, s)
	t.AllSimple = append(t.AllSimple, s.Simple)
}

// growHalf grows one half-streamline from seed in the given initial
// direction, up to p.PathIterations steps, applying the stop conditions of
// spec.md §4.F step 2.b in this order: degenerate tensor, leaving the world
// rectangle, join, then dtest separation failure (with the collide-early
// lookahead exception).
func (t *Tracer) growHalf(seed, initialDir vector.Vector, parity Parity, p Params) []vector.Vector {
	grid := t.gridFor(parity)
	var pts []vector.Vector
	cur := seed
	dir := initialDir

	for i := 0; i < p.PathIterations; i++ {
		next, newDir, degenerate := rk4Step(t.Field, cur, dir, parity, p.Dstep)
		if degenerate {
			break
		}
		if !t.inBounds(next) {
			break
		}
		if joinPoint, ok := checkJoin(newDir, next, grid, p); ok {
			pts = append(pts, joinPoint)
			break
		}
		if failsSeparation(next, cur, grid, p) {
			break
		}
		pts = append(pts, next)
		cur = next
		dir = newDir
	}
	return pts
}

// failsSeparation reports whether next should end this half-streamline
// because it is too close to an existing same-parity sample, unless it
// falls within the collide-early lookahead window of the current end
// (spec.md §4.F stop condition 3).
func failsSeparation(next, cur vector.Vector, grid *spatialindex.Grid, p Params) bool {
	if grid.NearestDistance(next) >= p.Dtest {
		return false
	}
	lookahead := p.Dlookahead * p.CollideEarly
	if lookahead > 0 && cur.Distance(next) <= lookahead {
		return false
	}
	return true
}

// checkJoin reports whether next should close the streamline against an
// existing same-parity sample: within dcirclejoin, and the angle between
// the current direction and the segment to that sample is within joinangle
// (spec.md §4.F stop condition 4).
func checkJoin(dir, next vector.Vector, grid *spatialindex.Grid, p Params) (vector.Vector, bool) {
	sample, found := grid.Nearest(next)
	if !found {
		return vector.Vector{}, false
	}
	seg := sample.Position.Sub(next)
	if seg.Length() > p.Dcirclejoin {
		return vector.Vector{}, false
	}
	if seg.LengthSquared() < 1e-12 {
		return sample.Position, true
	}
	cosAngle := clamp(dir.Norm().Dot(seg.Norm()), -1, 1)
	angle := math.Acos(cosAngle)
	if angle <= p.JoinAngle {
		return sample.Position, true
	}
	return vector.Vector{}, false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// GrowUnconstrained grows a single half-streamline with no separation or
// join checks — used by the water generator, which only ever grows one
// exclusive coastline or river streamline at a time and so has no same-
// parity neighbours to separate from (spec.md §4.G). Reports whether growth
// stopped because the streamline left the world rectangle, as opposed to
// hitting a degenerate tensor or the iteration cap.
func GrowUnconstrained(field Sampler, seed, initialDir vector.Vector, parity Parity, dstep float64, maxSteps int, origin, size vector.Vector) ([]vector.Vector, bool) {
	inBounds := func(p vector.Vector) bool {
		return p.X >= origin.X && p.X <= origin.X+size.X && p.Y >= origin.Y && p.Y <= origin.Y+size.Y
	}

	var pts []vector.Vector
	cur := seed
	dir := initialDir
	reachedBoundary := false
	for i := 0; i < maxSteps; i++ {
		next, newDir, degenerate := rk4Step(field, cur, dir, parity, dstep)
		if degenerate {
			break
		}
		if !inBounds(next) {
			reachedBoundary = true
			break
		}
		pts = append(pts, next)
		cur = next
		dir = newDir
	}
	return pts, reachedBoundary
}

// Step performs bounded work — seeding and growing streamlines, alternating
// parity — for at most budget, then returns. It reports true if the caller
// should call Step again (budget elapsed with seeding still viable), false
// if seeding is exhausted (spec.md §5 "step(budget_ms) -> bool", §9
// "Coroutine-style animation").
func (t *Tracer) Step(rng *rand.Rand, p Params, budget time.Duration) bool {
	deadline := time.Now().Add(budget)
	for time.Now().Before(deadline) {
		parity := t.NextParity()
		seed, ok := t.Seed(rng, p.Dsep, p.SeedTries)
		if !ok {
			return false
		}
		t.Grow(seed, parity, p)
	}
	return true
}

// RunToCompletion drives Step in a tight loop (no budget) until seeding is
// exhausted. Convenience for non-interactive callers (spec.md §6 "host
// reports ... empty output").
func (t *Tracer) RunToCompletion(rng *rand.Rand, p Params) {
	for t.Step(rng, p, time.Hour) {
	}
}
