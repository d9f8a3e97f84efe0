// Package geom provides the computational-geometry primitives the map
// generator needs: segment intersection, polygon slicing by a line, a
// straight-skeleton-approximation buffer, polyline simplification, and
// point-in-polygon tests. Per spec.md §9 these are the only non-trivial
// geometry primitives required; no dependency on a general GIS library is
// wired in (see DESIGN.md).
package geom

import (
	"math"
	"sort"

	"mapgen/vector"
)

const epsilon = 1e-9

// SegmentIntersect returns the intersection point of segments a1-a2 and
// b1-b2, if one exists within both segments (endpoints included, within a
// small tolerance). The bool reports whether an intersection was found.
func SegmentIntersect(a1, a2, b1, b2 vector.Vector) (vector.Vector, bool) {
	r := a2.Sub(a1)
	s := b2.Sub(b1)
	denom := r.Cross(s)
	if math.Abs(denom) < epsilon {
		return vector.Zero, false // parallel or collinear
	}

	qp := b1.Sub(a1)
	t := qp.Cross(s) / denom
	u := qp.Cross(r) / denom

	if t < -epsilon || t > 1+epsilon || u < -epsilon || u > 1+epsilon {
		return vector.Zero, false
	}

	return a1.AddScaled(r, t), true
}

// PointInPolygon reports whether p lies inside poly using ray casting.
// poly is an ordered loop of vertices with no repeated closing vertex.
func PointInPolygon(p vector.Vector, poly []vector.Vector) bool {
	n := len(poly)
	if n < 3 {
		return false
	}

	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		vi, vj := poly[i], poly[j]
		if (vi.Y > p.Y) != (vj.Y > p.Y) {
			xCross := (vj.X-vi.X)*(p.Y-vi.Y)/(vj.Y-vi.Y) + vi.X
			if p.X < xCross {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// Area returns the signed area of poly (shoelace formula). Positive for
// counter-clockwise winding.
func Area(poly []vector.Vector) float64 {
	n := len(poly)
	if n < 3 {
		return 0
	}
	sum := 0.0
	j := n - 1
	for i := 0; i < n; i++ {
		sum += (poly[j].X + poly[i].X) * (poly[i].Y - poly[j].Y)
		j = i
	}
	return sum * 0.5
}

// Perimeter returns the total edge length of the closed loop poly.
func Perimeter(poly []vector.Vector) float64 {
	n := len(poly)
	if n < 2 {
		return 0
	}
	total := 0.0
	j := n - 1
	for i := 0; i < n; i++ {
		total += poly[j].Distance(poly[i])
		j = i
	}
	return total
}

// ShapeIndex returns area / perimeter^2, a compactness metric used to
// reject sliver polygons (spec.md §4.I).
func ShapeIndex(poly []vector.Vector) float64 {
	perim := Perimeter(poly)
	if perim == 0 {
		return 0
	}
	return math.Abs(Area(poly)) / (perim * perim)
}

// Reverse returns poly with vertex order reversed.
func Reverse(poly []vector.Vector) []vector.Vector {
	out := make([]vector.Vector, len(poly))
	for i, v := range poly {
		out[len(poly)-1-i] = v
	}
	return out
}

// EnsureCCW returns poly re-oriented counter-clockwise if it is currently
// clockwise.
func EnsureCCW(poly []vector.Vector) []vector.Vector {
	if Area(poly) < 0 {
		return Reverse(poly)
	}
	return poly
}

// PolylineRDP simplifies pts using the Ramer-Douglas-Peucker algorithm with
// the given perpendicular-distance tolerance.
func PolylineRDP(pts []vector.Vector, tolerance float64) []vector.Vector {
	if len(pts) < 3 {
		out := make([]vector.Vector, len(pts))
		copy(out, pts)
		return out
	}

	keep := make([]bool, len(pts))
	keep[0] = true
	keep[len(pts)-1] = true
	rdpRecurse(pts, 0, len(pts)-1, tolerance, keep)

	out := make([]vector.Vector, 0, len(pts))
	for i, k := range keep {
		if k {
			out = append(out, pts[i])
		}
	}
	return out
}

func rdpRecurse(pts []vector.Vector, start, end int, tolerance float64, keep []bool) {
	if end <= start+1 {
		return
	}

	a, b := pts[start], pts[end]
	maxDist := -1.0
	maxIdx := -1

	for i := start + 1; i < end; i++ {
		d := perpendicularDistance(pts[i], a, b)
		if d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}

	if maxDist > tolerance {
		keep[maxIdx] = true
		rdpRecurse(pts, start, maxIdx, tolerance, keep)
		rdpRecurse(pts, maxIdx, end, tolerance, keep)
	}
}

func perpendicularDistance(p, a, b vector.Vector) float64 {
	ab := b.Sub(a)
	length := ab.Length()
	if length < epsilon {
		return p.Distance(a)
	}
	return math.Abs(ab.Cross(p.Sub(a))) / length
}

// SliceByLine splits poly by the infinite line through a and b, returning
// the resulting sub-polygons (0, 1, or 2 pieces depending on whether the
// line actually crosses poly). Each returned polygon is a simple loop with
// no repeated closing vertex.
func SliceByLine(poly []vector.Vector, a, b vector.Vector) [][]vector.Vector {
	n := len(poly)
	if n < 3 {
		return nil
	}

	dir := b.Sub(a)
	side := func(p vector.Vector) float64 {
		return dir.Cross(p.Sub(a))
	}

	var left, right []vector.Vector
	for i := 0; i < n; i++ {
		cur := poly[i]
		next := poly[(i+1)%n]

		curSide := side(cur)
		if curSide >= 0 {
			left = append(left, cur)
		}
		if curSide <= 0 {
			right = append(right, cur)
		}

		nextSide := side(next)
		if (curSide > 0 && nextSide < 0) || (curSide < 0 && nextSide > 0) {
			if ip, ok := lineLineIntersect(a, dir, cur, next.Sub(cur)); ok {
				left = append(left, ip)
				right = append(right, ip)
			}
		}
	}

	var pieces [][]vector.Vector
	if len(left) >= 3 {
		pieces = append(pieces, dedupClosed(left))
	}
	if len(right) >= 3 {
		pieces = append(pieces, dedupClosed(right))
	}
	return pieces
}

// polylineCrossing is one point where an open polyline crosses a polygon's
// boundary.
type polylineCrossing struct {
	segIndex  int // index i such that the crossing lies on line[i]-line[i+1]
	edgeIndex int // index i such that the crossing lies on poly[i]-poly[i+1]
	t         float64
	point     vector.Vector
}

// SliceByPolyline splits poly into two pieces using an open polyline whose
// two ends lie outside (or exactly on) poly's boundary and which crosses
// that boundary exactly twice — the shape every water-generator coastline
// satisfies after edge extension (spec.md §4.G). Returns false if the
// polyline does not cross the boundary exactly twice.
func SliceByPolyline(poly []vector.Vector, line []vector.Vector) ([2][]vector.Vector, bool) {
	var none [2][]vector.Vector
	n := len(poly)
	if n < 3 || len(line) < 2 {
		return none, false
	}

	var crossings []polylineCrossing
	for i := 0; i+1 < len(line); i++ {
		a, b := line[i], line[i+1]
		for e := 0; e < n; e++ {
			p0, p1 := poly[e], poly[(e+1)%n]
			if ip, ok := SegmentIntersect(a, b, p0, p1); ok {
				t := paramAlong(a, b, ip)
				crossings = append(crossings, polylineCrossing{segIndex: i, edgeIndex: e, t: t, point: ip})
			}
		}
	}
	if len(crossings) != 2 {
		return none, false
	}
	sort.Slice(crossings, func(i, j int) bool {
		if crossings[i].segIndex != crossings[j].segIndex {
			return crossings[i].segIndex < crossings[j].segIndex
		}
		return crossings[i].t < crossings[j].t
	})
	first, last := crossings[0], crossings[1]

	interior := []vector.Vector{first.point}
	for i := first.segIndex + 1; i <= last.segIndex; i++ {
		interior = append(interior, line[i])
	}
	interior = append(interior, last.point)

	arcLastToFirst := boundaryArc(poly, last.edgeIndex, last.point, first.edgeIndex, first.point)
	arcFirstToLast := boundaryArc(poly, first.edgeIndex, first.point, last.edgeIndex, last.point)

	polyA := dedupClosed(append(append([]vector.Vector{}, interior...), arcLastToFirst[1:]...))
	polyB := dedupClosed(append(append([]vector.Vector{}, reverseOf(interior)...), arcFirstToLast[1:]...))

	if len(polyA) < 3 || len(polyB) < 3 {
		return none, false
	}
	return [2][]vector.Vector{polyA, polyB}, true
}

// boundaryArc walks poly's vertices from fromPt (on edge fromEdge) forward
// (increasing index) to toPt (on edge toEdge), inclusive of both ends.
func boundaryArc(poly []vector.Vector, fromEdge int, fromPt vector.Vector, toEdge int, toPt vector.Vector) []vector.Vector {
	n := len(poly)
	arc := []vector.Vector{fromPt}
	i := (fromEdge + 1) % n
	stop := (toEdge + 1) % n
	for i != stop {
		arc = append(arc, poly[i])
		i = (i + 1) % n
	}
	arc = append(arc, toPt)
	return arc
}

func reverseOf(pts []vector.Vector) []vector.Vector {
	out := make([]vector.Vector, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

func paramAlong(a, b, p vector.Vector) float64 {
	d := b.Sub(a)
	if math.Abs(d.X) >= math.Abs(d.Y) {
		if math.Abs(d.X) < epsilon {
			return 0
		}
		return (p.X - a.X) / d.X
	}
	if math.Abs(d.Y) < epsilon {
		return 0
	}
	return (p.Y - a.Y) / d.Y
}

// lineLineIntersect intersects the infinite line through p with direction
// dp against the segment q, q+dq.
func lineLineIntersect(p, dp, q, dq vector.Vector) (vector.Vector, bool) {
	denom := dp.Cross(dq)
	if math.Abs(denom) < epsilon {
		return vector.Zero, false
	}
	t := q.Sub(p).Cross(dq) / denom
	return p.AddScaled(dp, t), true
}

// dedupClosed removes consecutive duplicate vertices (within epsilon) from
// a closed loop, including the wrap-around pair.
func dedupClosed(poly []vector.Vector) []vector.Vector {
	if len(poly) == 0 {
		return poly
	}
	out := make([]vector.Vector, 0, len(poly))
	for i, v := range poly {
		prev := poly[(i-1+len(poly))%len(poly)]
		if v.DistanceSquared(prev) > epsilon*epsilon || len(out) == 0 {
			out = append(out, v)
		}
	}
	if len(out) > 1 && out[0].DistanceSquared(out[len(out)-1]) <= epsilon*epsilon {
		out = out[:len(out)-1]
	}
	return out
}

// OffsetPolyline returns pts shifted by distance along the local normal,
// with flat (butt) caps at both ends. A positive distance offsets to the
// left of travel direction.
func OffsetPolyline(pts []vector.Vector, distance float64) []vector.Vector {
	if len(pts) < 2 {
		return nil
	}

	out := make([]vector.Vector, len(pts))
	for i, p := range pts {
		var tangent vector.Vector
		switch {
		case i == 0:
			tangent = pts[i+1].Sub(p)
		case i == len(pts)-1:
			tangent = p.Sub(pts[i-1])
		default:
			tangent = pts[i+1].Sub(pts[i-1])
		}
		normal := tangent.Norm().Rot90()
		out[i] = p.AddScaled(normal, distance)
	}
	return out
}

// OffsetPolygon grows (distance > 0) or shrinks (distance < 0) a CCW polygon
// by distance along each edge's outward normal, mitering at vertices. This
// is a straight-skeleton approximation, not an exact Minkowski sum (spec.md
// §9 accepts this simplification). Returns nil if the result degenerates
// (fewer than 3 surviving vertices or the polygon inverts).
func OffsetPolygon(poly []vector.Vector, distance float64) []vector.Vector {
	n := len(poly)
	if n < 3 {
		return nil
	}

	edgeNormals := make([]vector.Vector, n)
	for i := 0; i < n; i++ {
		a := poly[i]
		b := poly[(i+1)%n]
		edgeNormals[i] = b.Sub(a).Norm().RotN90() // outward normal for CCW polygon
	}

	out := make([]vector.Vector, n)
	for i := 0; i < n; i++ {
		prevNormal := edgeNormals[(i-1+n)%n]
		curNormal := edgeNormals[i]

		bisector := prevNormal.Add(curNormal)
		blen := bisector.Length()
		if blen < epsilon {
			// Normals cancel out (near-180 degree turn); fall back to one
			// normal's direction.
			out[i] = poly[i].AddScaled(curNormal, distance)
			continue
		}
		bisector = bisector.Div(blen)

		cosHalf := bisector.Dot(curNormal)
		if math.Abs(cosHalf) < epsilon {
			out[i] = poly[i].AddScaled(curNormal, distance)
			continue
		}
		miterLength := distance / cosHalf
		out[i] = poly[i].AddScaled(bisector, miterLength)
	}

	if !isSimplePolygon(out) {
		return nil
	}
	if sameSign(Area(poly), Area(out)) {
		return out
	}
	return nil
}

func sameSign(a, b float64) bool {
	return (a >= 0) == (b >= 0)
}

// isSimplePolygon does an O(n^2) check for self-intersection. Acceptable
// because lots and blocks have few vertices (spec.md §4.H notes input
// polylines are already simplified, keeping N tractable; the same applies
// to subdivided lot polygons).
func isSimplePolygon(poly []vector.Vector) bool {
	n := len(poly)
	if n < 3 {
		return false
	}
	for i := 0; i < n; i++ {
		a1, a2 := poly[i], poly[(i+1)%n]
		for j := i + 1; j < n; j++ {
			if j == i+1 || (j+1)%n == i {
				continue
			}
			b1, b2 := poly[j], poly[(j+1)%n]
			if _, ok := SegmentIntersect(a1, a2, b1, b2); ok {
				return false
			}
		}
	}
	return true
}

// LongestEdge returns the index of poly's longest edge (edge i connects
// poly[i] to poly[i+1 mod n]).
func LongestEdge(poly []vector.Vector) int {
	n := len(poly)
	best := 0
	bestLen := -1.0
	for i := 0; i < n; i++ {
		l := poly[i].DistanceSquared(poly[(i+1)%n])
		if l > bestLen {
			bestLen = l
			best = i
		}
	}
	return best
}

// QuantizeKey returns a hashable key for p snapped to the given tolerance,
// used to merge near-coincident points into a single planar-graph node.
func QuantizeKey(p vector.Vector, tolerance float64) [2]int64 {
	return [2]int64{
		int64(math.Round(p.X / tolerance)),
		int64(math.Round(p.Y / tolerance)),
	}
}

// SortIndicesByAngle returns the indices of dirs sorted by polar angle,
// counter-clockwise from +x.
func SortIndicesByAngle(dirs []vector.Vector) []int {
	idx := make([]int, len(dirs))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool {
		return dirs[idx[i]].Angle() < dirs[idx[j]].Angle()
	})
	return idx
}
