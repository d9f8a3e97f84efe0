// Package polygon extracts block polygons from a planar graph and
// recursively subdivides them into building lots, per spec.md §4.I.
package polygon

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"mapgen/geom"
	"mapgen/graph"
	"mapgen/internal/xslice"
	"mapgen/vector"
)

// Block is a minimum-cycle polygon extracted from the planar graph (a city
// block, spec.md Glossary).
type Block struct {
	Points []vector.Vector
	Area   float64
}

type dirEdge struct{ from, to int }

// ExtractFaces walks every (node, outgoing-edge) pair by always choosing
// the clockwise-next edge in the arrival node's CCW neighbour ordering,
// returning the face to the left of the starting edge. Outer (unbounded)
// faces are rejected by area sign; faces below minArea are rejected (spec.md
// §4.I "Cycle extraction").
func ExtractFaces(g *graph.Graph, minArea float64) []Block {
	visited := map[dirEdge]bool{}
	seen := map[string]bool{}
	var blocks []Block

	for from := range g.Nodes {
		for _, to := range g.Neighbors[from] {
			if visited[dirEdge{from, to}] {
				continue
			}
			loop := walkFace(g, from, to, visited)
			if len(loop) < 3 {
				continue
			}

			pts := make([]vector.Vector, len(loop))
			for i, idx := range loop {
				pts[i] = g.Nodes[idx]
			}
			area := geom.Area(pts)
			if area <= 0 {
				continue // CW winding: the outer face
			}
			if area < minArea {
				continue
			}

			key := canonicalKey(loop)
			if seen[key] {
				continue
			}
			seen[key] = true
			blocks = append(blocks, Block{Points: pts, Area: area})
		}
	}
	return blocks
}

// walkFace traces the face to the left of the directed edge startFrom ->
// startTo: at each arrival node, the next edge is the neighbour immediately
// before the reverse edge in the node's CCW-sorted neighbour list (i.e. the
// clockwise-next edge). Marks every directed edge it traverses as visited
// so the caller's outer loop never retraces a face. Returns nil if the walk
// fails to close within a generous step bound (a malformed graph).
func walkFace(g *graph.Graph, startFrom, startTo int, visited map[dirEdge]bool) []int {
	from, to := startFrom, startTo
	var loop []int
	limit := len(g.Nodes)*4 + 16

	for step := 0; step < limit; step++ {
		visited[dirEdge{from, to}] = true
		loop = append(loop, from)

		neighbors := g.Neighbors[to]
		pos := xslice.IndexFunc(neighbors, func(n int) bool { return n == from })
		if pos < 0 {
			return nil
		}
		nextPos := (pos - 1 + len(neighbors)) % len(neighbors)
		next := neighbors[nextPos]

		from, to = to, next
		if from == startFrom && to == startTo {
			return loop
		}
	}
	return nil
}

// canonicalKey returns a rotation-invariant key for a face's node-index
// loop, used to deduplicate faces discovered from more than one starting
// edge (spec.md §4.I "Deduplicate faces by a canonical rotation").
func canonicalKey(loop []int) string {
	n := len(loop)
	minIdx := 0
	for i := 1; i < n; i++ {
		if loop[i] < loop[minIdx] {
			minIdx = i
		}
	}
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "%d,", loop[(minIdx+i)%n])
	}
	return b.String()
}

// Lot is a final subdivided, setback-shrunk building parcel.
type Lot struct {
	Points []vector.Vector
	Depth  int
}

// SubdivideParams configures recursive block bisection (spec.md §6
// "buildings").
type SubdivideParams struct {
	MinArea        float64
	ChanceNoDivide float64
	ShrinkSpacing  float64
}

// Subdivide recursively bisects block into lots by longest-edge bisection,
// then shrinks each final lot inward for street setback (spec.md §4.I
// "Subdivision" and "Setback").
func Subdivide(block Block, p SubdivideParams, rng *rand.Rand) []Lot {
	var lots []Lot
	subdivideRecurse(block.Points, 0, p, rng, &lots)
	return lots
}

func subdivideRecurse(poly []vector.Vector, depth int, p SubdivideParams, rng *rand.Rand, out *[]Lot) {
	area := math.Abs(geom.Area(poly))
	if area < 0.5*p.MinArea {
		return
	}
	if geom.ShapeIndex(poly) < 0.04 {
		return
	}
	if area < 2*p.MinArea {
		emitLot(poly, depth, p, out)
		return
	}
	if rng.Float64() < p.ChanceNoDivide {
		emitLot(poly, depth, p, out)
		return
	}

	edge := geom.LongestEdge(poly)
	n := len(poly)
	a, b := poly[edge], poly[(edge+1)%n]
	t := 0.4 + rng.Float64()*0.2
	point := a.Lerp(b, t)

	normal := b.Sub(a).Norm().Rot90()
	const extent = 100.0
	pieces := geom.SliceByLine(poly, point.AddScaled(normal, extent), point.AddScaled(normal, -extent))
	if len(pieces) != 2 {
		emitLot(poly, depth, p, out)
		return
	}
	for _, piece := range pieces {
		subdivideRecurse(piece, depth+1, p, rng, out)
	}
}

func emitLot(poly []vector.Vector, depth int, p SubdivideParams, out *[]Lot) {
	shrunk := geom.OffsetPolygon(geom.EnsureCCW(poly), -p.ShrinkSpacing)
	if shrunk == nil {
		return // BufferFailure: discarded, spec.md §7
	}
	*out = append(*out, Lot{Points: shrunk, Depth: depth})
}
