// Package graph builds the planar graph of spec.md §4.H from a multiset of
// polylines: computing all segment intersections, splitting polylines at
// them, deduplicating endpoints into nodes, and sorting each node's
// neighbours into counter-clockwise angular order.
package graph

import (
	"math"

	"mapgen/geom"
	"mapgen/internal/xslice"
	"mapgen/vector"
)

// Polyline is one input road (or water) line, tagged with the class used
// for downstream styling (spec.md §3 "carries the original polyline origin
// (road class)").
type Polyline struct {
	Points []vector.Vector
	Class  string
}

// Graph is the planar graph: nodes at unique (deduplicated) positions, each
// with neighbours listed in CCW angular order.
type Graph struct {
	Nodes     []vector.Vector
	Neighbors [][]int

	edgeClass map[[2]int]string
	index     map[[2]int64]int
	tolerance float64
}

type segCut struct {
	t  float64
	pt vector.Vector
}

// Build constructs a Graph from polylines. tolerance is the position
// quantization tolerance used to merge near-coincident points into one node
// (spec.md §4.H step 3); the caller typically passes dstep/10 (spec.md
// §4.H step 1's intersection dedup tolerance, reused here).
func Build(polylines []Polyline, tolerance float64) *Graph {
	g := &Graph{
		edgeClass: map[[2]int]string{},
		index:     map[[2]int64]int{},
		tolerance: tolerance,
	}

	cuts := make([]map[int][]segCut, len(polylines))
	for i := range cuts {
		cuts[i] = map[int][]segCut{}
	}

	for i := 0; i < len(polylines); i++ {
		for j := i + 1; j < len(polylines); j++ {
			findCrossings(polylines[i].Points, polylines[j].Points, tolerance,
				func(si int, ti float64, sj int, tj float64, p vector.Vector) {
					addCut(cuts[i], si, ti, p, tolerance)
					addCut(cuts[j], sj, tj, p, tolerance)
				})
		}
	}

	for idx, pl := range polylines {
		dense := splitPolyline(pl.Points, cuts[idx])
		for k := 0; k+1 < len(dense); k++ {
			a := g.nodeFor(dense[k])
			b := g.nodeFor(dense[k+1])
			if a == b {
				continue
			}
			g.addEdge(a, b, pl.Class)
		}
	}

	g.sortAdjacency()
	return g
}

// findCrossings reports every intersection (endpoint contacts included)
// between polyline a and polyline b (spec.md §4.H step 1, O(N^2) in segment count — "no BVH for
// simplicity").
func findCrossings(a, b []vector.Vector, tolerance float64, report func(segA int, tA float64, segB int, tB float64, p vector.Vector)) {
	for si := 0; si+1 < len(a); si++ {
		a1, a2 := a[si], a[si+1]
		for sj := 0; sj+1 < len(b); sj++ {
			b1, b2 := b[sj], b[sj+1]
			if ip, ok := geom.SegmentIntersect(a1, a2, b1, b2); ok {
				report(si, paramAlong(a1, a2, ip), sj, paramAlong(b1, b2, ip), ip)
			}
		}
	}
	_ = tolerance
}

func paramAlong(a, b, p vector.Vector) float64 {
	d := b.Sub(a)
	if math.Abs(d.X) >= math.Abs(d.Y) {
		if math.Abs(d.X) < 1e-9 {
			return 0
		}
		return (p.X - a.X) / d.X
	}
	if math.Abs(d.Y) < 1e-9 {
		return 0
	}
	return (p.Y - a.Y) / d.Y
}

func addCut(segCuts map[int][]segCut, seg int, t float64, p vector.Vector, tolerance float64) {
	for _, c := range segCuts[seg] {
		if c.pt.DistanceSquared(p) <= tolerance*tolerance {
			return
		}
	}
	segCuts[seg] = append(segCuts[seg], segCut{t: t, pt: p})
}

// splitPolyline inserts each segment's cuts (sorted by parameter t along
// the segment) between its endpoints (spec.md §4.H step 2).
func splitPolyline(points []vector.Vector, cuts map[int][]segCut) []vector.Vector {
	if len(points) == 0 {
		return nil
	}
	out := make([]vector.Vector, 0, len(points))
	for i := 0; i+1 < len(points); i++ {
		out = append(out, points[i])
		segCuts := cuts[i]
		xslice.SortByKey(segCuts, func(c segCut) float64 { return c.t })
		for _, c := range segCuts {
			out = append(out, c.pt)
		}
	}
	out = append(out, points[len(points)-1])
	return out
}

// nodeFor returns the node index for p, merging it into an existing node if
// both quantize to the same tolerance-sized cell (spec.md §4.H step 3, §7
// GraphDegenerate).
func (g *Graph) nodeFor(p vector.Vector) int {
	key := geom.QuantizeKey(p, g.tolerance)
	if idx, ok := g.index[key]; ok {
		return idx
	}
	idx := len(g.Nodes)
	g.Nodes = append(g.Nodes, p)
	g.Neighbors = append(g.Neighbors, nil)
	g.index[key] = idx
	return idx
}

func (g *Graph) addEdge(a, b int, class string) {
	if xslice.Contains(g.Neighbors[a], b) {
		return
	}
	g.Neighbors[a] = append(g.Neighbors[a], b)
	g.Neighbors[b] = append(g.Neighbors[b], a)
	g.edgeClass[edgeKey(a, b)] = class
}

// EdgeClass returns the road class recorded for the edge between a and b.
func (g *Graph) EdgeClass(a, b int) (string, bool) {
	c, ok := g.edgeClass[edgeKey(a, b)]
	return c, ok
}

func edgeKey(a, b int) [2]int {
	if a < b {
		return [2]int{a, b}
	}
	return [2]int{b, a}
}

// sortAdjacency sorts every node's neighbour list into CCW angular order
// (spec.md §4.H step 4).
func (g *Graph) sortAdjacency() {
	for i, neighbors := range g.Neighbors {
		if len(neighbors) == 0 {
			continue
		}
		dirs := make([]vector.Vector, len(neighbors))
		for k, n := range neighbors {
			dirs[k] = g.Nodes[n].Sub(g.Nodes[i])
		}
		order := geom.SortIndicesByAngle(dirs)
		sorted := make([]int, len(neighbors))
		for k, idx := range order {
			sorted[k] = neighbors[idx]
		}
		g.Neighbors[i] = sorted
	}
}
