// Package water implements the coastline and river generators of spec.md
// §4.G: specializations of the streamline tracer's single-streamline growth
// that must reach both world edges, followed by polygon slicing (coastline)
// or polyline buffering (river). Grounded on the tracer's unconstrained
// growth path (mapgen/streamline.GrowUnconstrained) and the geometry
// module's polygon-line slicing and offset primitives.
package water

import (
	"math"
	"math/rand"

	"mapgen/geom"
	"mapgen/streamline"
	"mapgen/tensorfield"
	"mapgen/vector"
)

// NoiseConfig mirrors one water *Params group of spec.md §6:
// {noiseEnabled, noiseSize, noiseAngle}.
type NoiseConfig struct {
	Enabled  bool
	Size     float64
	AngleDeg float64
}

const maxAttempts = 100
const edgeExtensionSteps = 5
const coastlinePathIterations = 10000

// CoastlineResult is the coastline generator's output.
type CoastlineResult struct {
	Coastline  []vector.Vector // recorded as a road, spec.md §4.G.1
	SeaPolygon []vector.Vector
	Parity     streamline.Parity // "coastline-major" flag, spec.md Glossary
}

// GenerateCoastline repeatedly samples a seed and grows a streamline of
// either parity until one reaches both world edges (spec.md §4.G.1), up to
// maxAttempts tries. Returns false (CoastNotFound, spec.md §7) if none did.
func GenerateCoastline(field *tensorfield.Field, origin, size vector.Vector, rng *rand.Rand, dstep float64, noise NoiseConfig) (CoastlineResult, bool) {
	field.GlobalNoise = tensorfield.NoiseParams{Enabled: noise.Enabled, AngleDeg: noise.AngleDeg, Size: noise.Size}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		parity := streamline.Major
		if rng.Intn(2) == 1 {
			parity = streamline.Minor
		}
		seed := randomPoint(rng, origin, size)

		line, ok := growBothEdges(field, seed, parity, dstep, origin, size)
		if !ok {
			continue
		}
		extended := extendEnds(line, dstep*edgeExtensionSteps)

		pieces, ok := geom.SliceByPolyline(rectangle(origin, size), extended)
		if !ok {
			continue
		}

		return CoastlineResult{
			Coastline:  extended,
			SeaPolygon: smaller(pieces),
			Parity:     parity,
		}, true
	}
	return CoastlineResult{}, false
}

// RiverResult is the river generator's output.
type RiverResult struct {
	Centerline   []vector.Vector
	Polygon      []vector.Vector // outer corridor, buffered by riverSize
	WaterSurface []vector.Vector // buffered by riverSize - riverBankSize
	Banks        [2][]vector.Vector
}

// GenerateRiver grows a streamline of the parity opposite coastParity, with
// the sea mask temporarily cleared and the river mask disabled, so that the
// river and coastline cross perpendicularly and the river isn't blocked by
// its own eventual mask (spec.md §4.G.2). Returns false (RiverNotFound,
// spec.md §7) if no attempt reached both world edges.
func GenerateRiver(field *tensorfield.Field, origin, size vector.Vector, rng *rand.Rand, dstep float64, noise NoiseConfig, coastParity streamline.Parity, riverSize, riverBankSize float64) (RiverResult, bool) {
	savedSea, savedIgnore := field.Sea, field.IgnoreRiver
	field.Sea = nil
	field.IgnoreRiver = true
	defer func() {
		field.Sea = savedSea
		field.IgnoreRiver = savedIgnore
	}()

	field.GlobalNoise = tensorfield.NoiseParams{Enabled: noise.Enabled, AngleDeg: noise.AngleDeg, Size: noise.Size}

	opposite := streamline.Minor
	if coastParity == streamline.Minor {
		opposite = streamline.Major
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		seed := randomPoint(rng, origin, size)
		line, ok := growBothEdges(field, seed, opposite, dstep, origin, size)
		if !ok {
			continue
		}
		extended := extendEnds(line, dstep*edgeExtensionSteps)

		polygon := buildRiverPolygon(extended, riverSize)
		waterSurface := buildRiverPolygon(extended, riverSize-riverBankSize)
		if polygon == nil || waterSurface == nil {
			continue
		}

		left := filterOutside(geom.OffsetPolyline(extended, riverSize), waterSurface)
		right := filterOutside(geom.OffsetPolyline(extended, -riverSize), waterSurface)

		field.River = extended
		return RiverResult{
			Centerline:   extended,
			Polygon:      polygon,
			WaterSurface: waterSurface,
			Banks:        [2][]vector.Vector{left, right},
		}, true
	}
	return RiverResult{}, false
}

func randomPoint(rng *rand.Rand, origin, size vector.Vector) vector.Vector {
	return vector.Vector{
		X: origin.X + rng.Float64()*size.X,
		Y: origin.Y + rng.Float64()*size.Y,
	}
}

// growBothEdges grows a single streamline from seed in both directions and
// reports success only if both halves left the world rectangle (the "must
// reach both world edges" rule shared by coastline and river, spec.md
// §4.G).
func growBothEdges(field *tensorfield.Field, seed vector.Vector, parity streamline.Parity, dstep float64, origin, size vector.Vector) ([]vector.Vector, bool) {
	tensor := field.Sample(seed)
	if tensor.IsDegenerate() {
		return nil, false
	}
	var dir vector.Vector
	if parity == streamline.Major {
		dir = tensor.Major(vector.Vector{})
	} else {
		dir = tensor.Minor(vector.Vector{})
	}

	fwd, fwdReached := streamline.GrowUnconstrained(field, seed, dir, parity, dstep, coastlinePathIterations, origin, size)
	bwd, bwdReached := streamline.GrowUnconstrained(field, seed, dir.Mul(-1), parity, dstep, coastlinePathIterations, origin, size)
	if !fwdReached || !bwdReached {
		return nil, false
	}

	line := make([]vector.Vector, 0, len(fwd)+len(bwd)+1)
	for i := len(bwd) - 1; i >= 0; i-- {
		line = append(line, bwd[i])
	}
	line = append(line, seed)
	line = append(line, fwd...)
	return line, true
}

// extendEnds pushes both endpoints of line outward along their local
// tangent by extension, guaranteeing a clean crossing of the world boundary
// for slicing (spec.md §4.G.1 "Extend both ends ... forces clean edge
// hits").
func extendEnds(line []vector.Vector, extension float64) []vector.Vector {
	if len(line) < 2 {
		return line
	}
	out := make([]vector.Vector, len(line))
	copy(out, line)

	startTangent := out[0].Sub(out[1]).Norm()
	out[0] = out[0].AddScaled(startTangent, extension)

	n := len(out)
	endTangent := out[n-1].Sub(out[n-2]).Norm()
	out[n-1] = out[n-1].AddScaled(endTangent, extension)

	return out
}

func rectangle(origin, size vector.Vector) []vector.Vector {
	return []vector.Vector{
		origin,
		{X: origin.X + size.X, Y: origin.Y},
		{X: origin.X + size.X, Y: origin.Y + size.Y},
		{X: origin.X, Y: origin.Y + size.Y},
	}
}

// smaller returns the lower-area piece of a two-piece split, re-oriented
// CCW (spec.md §4.G.1 "the smaller of the two sides becomes the sea
// polygon").
func smaller(pieces [2][]vector.Vector) []vector.Vector {
	if math.Abs(geom.Area(pieces[0])) <= math.Abs(geom.Area(pieces[1])) {
		return geom.EnsureCCW(pieces[0])
	}
	return geom.EnsureCCW(pieces[1])
}

// buildRiverPolygon buffers centerline into a closed polygon of the given
// half-width on each side (spec.md §4.G.2 "buffer the polyline").
func buildRiverPolygon(centerline []vector.Vector, halfWidth float64) []vector.Vector {
	if halfWidth <= 0 {
		return nil
	}
	left := geom.OffsetPolyline(centerline, halfWidth)
	right := geom.OffsetPolyline(centerline, -halfWidth)
	if left == nil || right == nil {
		return nil
	}

	poly := make([]vector.Vector, 0, len(left)+len(right))
	poly = append(poly, left...)
	for i := len(right) - 1; i >= 0; i-- {
		poly = append(poly, right[i])
	}
	return geom.EnsureCCW(poly)
}

func filterOutside(pts, poly []vector.Vector) []vector.Vector {
	var out []vector.Vector
	for _, p := range pts {
		if !geom.PointInPolygon(p, poly) {
			out = append(out, p)
		}
	}
	return out
}
