// Package spatialindex implements the grid-accelerated proximity index of
// spec.md §4.E: a uniform spatial hash over streamline sample points,
// supporting O(1+k) radius queries limited to the 3x3 cell neighbourhood.
// Modeled on the teacher's server/world/sector uniform-bucket world (a flat
// array of cells keyed by quantized position) rather than its quadtree,
// because a fixed dsep-sized cell is the natural fit for a bounded radius
// query over a bounded world rectangle.
package spatialindex

import (
	"mapgen/vector"
)

// Sample identifies one stored sample point by the streamline that owns it
// and its index within that streamline's dense buffer.
type Sample struct {
	StreamlineID int
	Index        int
	Position     vector.Vector
}

// Grid is a uniform grid of side CellSize covering a world rectangle,
// storing streamline sample points for proximity queries.
type Grid struct {
	cellSize float64
	originX  float64
	originY  float64
	cols     int
	rows     int
	cells    [][]Sample
}

// New creates a Grid covering [origin, origin+size) with cells of side
// cellSize (spec.md §4.E: "Cell side equals dsep").
func New(origin vector.Vector, size vector.Vector, cellSize float64) *Grid {
	cols := int(size.X/cellSize) + 1
	rows := int(size.Y/cellSize) + 1
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return &Grid{
		cellSize: cellSize,
		originX:  origin.X,
		originY:  origin.Y,
		cols:     cols,
		rows:     rows,
		cells:    make([][]Sample, cols*rows),
	}
}

// Clear removes all stored samples, as happens on streamline-generator
// reset (spec.md §3 "Grid index" lifecycle).
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

func (g *Grid) cellCoord(p vector.Vector) (int, int) {
	col := int((p.X - g.originX) / g.cellSize)
	row := int((p.Y - g.originY) / g.cellSize)
	return col, row
}

func (g *Grid) clamp(col, row int) (int, int, bool) {
	if col < 0 || col >= g.cols || row < 0 || row >= g.rows {
		return 0, 0, false
	}
	return col, row, true
}

// Add inserts a single sample point.
func (g *Grid) Add(streamlineID, index int, p vector.Vector) {
	col, row := g.cellCoord(p)
	col, row, ok := g.clamp(col, row)
	if !ok {
		return
	}
	idx := row*g.cols + col
	g.cells[idx] = append(g.cells[idx], Sample{StreamlineID: streamlineID, Index: index, Position: p})
}

// AddPolyline inserts every sample of line (spec.md §4.E: "inserts every
// sample (not just endpoints)").
func (g *Grid) AddPolyline(streamlineID int, line []vector.Vector) {
	for i, p := range line {
		g.Add(streamlineID, i, p)
	}
}

// NearestDistance returns the minimum distance from p to any stored sample,
// limited to the 3x3 cell neighbourhood around p's cell. Returns the
// sentinel distance 1e300 if no sample is found there.
func (g *Grid) NearestDistance(p vector.Vector) float64 {
	nearest, found := g.nearestSample(p)
	if !found {
		return inf
	}
	return p.Distance(nearest.Position)
}

const inf = 1e300

// nearestSample scans the 3x3 neighbourhood around p's cell and returns the
// closest stored sample, if any.
func (g *Grid) nearestSample(p vector.Vector) (Sample, bool) {
	centerCol, centerRow := g.cellCoord(p)

	best := inf
	var bestSample Sample
	found := false

	for dc := -1; dc <= 1; dc++ {
		for dr := -1; dr <= 1; dr++ {
			col, row, ok := g.clamp(centerCol+dc, centerRow+dr)
			if !ok {
				continue
			}
			for _, s := range g.cells[row*g.cols+col] {
				d := p.Distance(s.Position)
				if d < best {
					best = d
					bestSample = s
					found = true
				}
			}
		}
	}
	return bestSample, found
}

// Nearest returns the closest stored sample to p within the 3x3 cell
// neighbourhood, for callers (e.g. the streamline tracer's join check) that
// need the sample itself and not just its distance.
func (g *Grid) Nearest(p vector.Vector) (Sample, bool) {
	return g.nearestSample(p)
}

// OkForRadius reports whether p is at least radius away from every stored
// sample in the 3x3 neighbourhood. Cell side must be >= radius for this to
// be complete (spec.md §4.E).
func (g *Grid) OkForRadius(p vector.Vector, radius float64) bool {
	return g.NearestDistance(p) >= radius
}
