// Package pipeline sequences the tensor field, water, streamline, graph,
// polygon and building stages into the full generation run of spec.md
// §4.K, with an explicit dependency DAG replacing the source's pre/post
// closure hooks (spec.md §9 "Callbacks for pipeline invalidation").
package pipeline

import (
	"math/rand"
	"time"

	"mapgen/building"
	"mapgen/geom"
	"mapgen/graph"
	"mapgen/params"
	"mapgen/polygon"
	"mapgen/streamline"
	"mapgen/tensorfield"
	"mapgen/vector"
	"mapgen/water"
)

// ReportCounts has one counter per non-fatal failure kind of spec.md §7.
// The driver increments SeedExhausted, CoastNotFound and RiverNotFound;
// BufferFailure and GraphDegenerate are never incremented, since discarded
// lots and merged graph nodes are not reported back to the driver.
type ReportCounts struct {
	SeedExhausted   int
	CoastNotFound   int
	RiverNotFound   int
	BufferFailure   int
	GraphDegenerate int
}

// Report is the pipeline's non-fatal diagnostic surface (spec.md §7): no
// error aborts the run mid-stage, so failures accumulate here instead.
type Report struct {
	Counts ReportCounts
}

// Output holds every downstream-rendering query surface of spec.md §6.
type Output struct {
	SeaPolygon     []vector.Vector
	RiverPolygon   []vector.Vector
	Coastline      []vector.Vector
	Main           [][]vector.Vector
	Major          [][]vector.Vector
	Minor          [][]vector.Vector
	CoastlineRoads [][]vector.Vector
	SecondaryRiver [][]vector.Vector
	Parks          [][]vector.Vector
	Lots           []polygon.Lot
	Buildings      []building.Model
}

// Stage names one node of the pipeline's dependency DAG, for use with
// Invalidate.
type Stage int

const (
	StageCoastline Stage = iota
	StageMain
	StageMajor
	StageParksBig
	StageMinor
	StageParksSmall
	StageBuildings
	numStages
)

var stageOrder = [numStages]Stage{StageCoastline, StageMain, StageMajor, StageParksBig, StageMinor, StageParksSmall, StageBuildings}

// Driver sequences the stages, threading a single seeded RNG per spec.md §5
// ("All randomness threads through a single seedable RNG provided at
// pipeline construction").
type Driver struct {
	Params params.Params
	Field  *tensorfield.Field
	RNG    *rand.Rand
	Report Report
	Output Output

	dirty [numStages]bool

	coastParity streamline.Parity
	mainTracer  *streamline.Tracer
	majorTracer *streamline.Tracer
	minorTracer *streamline.Tracer
	bigBlocks   []polygon.Block
	finalBlocks []polygon.Block
}

// New constructs a Driver from p, wiring noiseSrc into the tensor field and
// its basis fields from p.TensorField.BasisFields.
func New(p params.Params, noiseSrc tensorfield.NoiseSource) *Driver {
	field := tensorfield.New(noiseSrc)
	for _, bf := range p.TensorField.BasisFields {
		centre := vector.Vector{X: bf.X, Y: bf.Y}
		switch bf.Type {
		case "grid":
			field.AddBasis(tensorfield.NewGridField(centre, bf.Size, bf.Decay, bf.Theta))
		case "radial":
			field.AddBasis(tensorfield.NewRadialField(centre, bf.Size, bf.Decay))
		}
	}
	field.GlobalNoise = tensorfield.NoiseParams{
		Enabled: p.TensorField.GlobalNoise, AngleDeg: p.TensorField.NoiseAngleGlobal, Size: p.TensorField.NoiseSizeGlobal,
	}
	field.ParkNoise = tensorfield.NoiseParams{
		Enabled: true, AngleDeg: p.TensorField.NoiseAnglePark, Size: p.TensorField.NoiseSizePark,
	}

	d := &Driver{Params: p, Field: field, RNG: rand.New(rand.NewSource(p.Seed))}
	for i := range d.dirty {
		d.dirty[i] = true
	}
	return d
}

// Invalidate marks stage and every stage that transitively depends on it
// dirty, so the next Run/Step reruns exactly the affected suffix of the
// sequence (spec.md §4.K, §9).
func (d *Driver) Invalidate(s Stage) {
	for i := int(s); i < int(numStages); i++ {
		d.dirty[i] = true
	}
}

// Run executes every dirty stage to completion.
func (d *Driver) Run() {
	for d.Step(time.Hour) {
	}
}

// Step runs at most one pending stage then returns whether any stage
// remains dirty (spec.md §5 "step(budget_ms) -> bool"; driven at stage
// granularity here — a coarser cooperative grain than the per-streamline
// granularity streamline.Tracer.Step offers a host that needs finer
// control).
func (d *Driver) Step(budget time.Duration) bool {
	_ = budget
	for _, s := range stageOrder {
		if !d.dirty[s] {
			continue
		}
		d.runStage(s)
		d.dirty[s] = false
		return d.anyDirty()
	}
	return false
}

func (d *Driver) anyDirty() bool {
	for _, dirty := range d.dirty {
		if dirty {
			return true
		}
	}
	return false
}

func (d *Driver) runStage(s Stage) {
	switch s {
	case StageCoastline:
		d.runCoastline()
	case StageMain:
		d.runMain()
	case StageMajor:
		d.runMajor()
	case StageParksBig:
		d.runParksBig()
	case StageMinor:
		d.runMinor()
	case StageParksSmall:
		d.runParksSmall()
	case StageBuildings:
		d.runBuildings()
	}
}

func (d *Driver) runCoastline() {
	result, ok := water.GenerateCoastline(
		d.Field, d.Params.Origin, d.Params.WorldDimensions, d.RNG, d.Params.Streamlines.Main.Dstep,
		water.NoiseConfig{
			Enabled: d.Params.Water.CoastParams.NoiseEnabled, Size: d.Params.Water.CoastParams.NoiseSize, AngleDeg: d.Params.Water.CoastParams.NoiseAngle,
		},
	)
	if !ok {
		d.Report.Counts.CoastNotFound++
		d.Field.Sea = nil
	} else {
		d.Output.Coastline = result.Coastline
		d.Output.CoastlineRoads = [][]vector.Vector{result.Coastline}
		d.Output.SeaPolygon = result.SeaPolygon
		d.Field.Sea = result.SeaPolygon
		d.coastParity = result.Parity
	}

	river, ok := water.GenerateRiver(
		d.Field, d.Params.Origin, d.Params.WorldDimensions, d.RNG, d.Params.Streamlines.Main.Dstep,
		water.NoiseConfig{
			Enabled: d.Params.Water.RiverParams.NoiseEnabled, Size: d.Params.Water.RiverParams.NoiseSize, AngleDeg: d.Params.Water.RiverParams.NoiseAngle,
		},
		d.coastParity, d.Params.Water.RiverSize, d.Params.Water.RiverBankSize,
	)
	if !ok {
		d.Report.Counts.RiverNotFound++
		return
	}
	d.Output.RiverPolygon = river.WaterSurface
	d.Output.SecondaryRiver = [][]vector.Vector{river.Banks[0], river.Banks[1]}
}

func (d *Driver) runMain() {
	sp := toStreamlineParams(d.Params.Streamlines.Main)
	tracer := streamline.NewTracer(d.Field, d.Params.Origin, d.Params.WorldDimensions, sp.Dsep)
	seedGrids(tracer, d.Output.Coastline, d.Output.RiverPolygon)
	tracer.RunToCompletion(d.RNG, sp)
	if len(tracer.Streamlines) == 0 {
		d.Report.Counts.SeedExhausted++
	}
	d.mainTracer = tracer
	d.Output.Main = tracer.AllSimple
}

func (d *Driver) runMajor() {
	sp := toStreamlineParams(d.Params.Streamlines.Major)
	tracer := streamline.NewTracer(d.Field, d.Params.Origin, d.Params.WorldDimensions, sp.Dsep)
	seedGrids(tracer, d.Output.Coastline, d.Output.RiverPolygon)
	seedFamily(tracer, d.mainTracer)
	tracer.RunToCompletion(d.RNG, sp)
	if len(tracer.Streamlines) == 0 {
		d.Report.Counts.SeedExhausted++
	}
	d.majorTracer = tracer
	d.Output.Major = tracer.AllSimple
}

func (d *Driver) runParksBig() {
	lines := toPolylines(d.Output.Main, "main")
	lines = append(lines, toPolylines(d.Output.Major, "major")...)
	g := graph.Build(lines, d.Params.Streamlines.Main.Dstep/10)

	d.bigBlocks = polygon.ExtractFaces(g, d.Params.Buildings.MinArea)
	chosen := selectParks(d.bigBlocks, d.Params.Parks.NumBigParks, d.Params.Parks.ClusterBigParks, d.RNG)

	polys := toPolygons(chosen)
	d.Output.Parks = polys
	d.Field.Parks = polys
}

func (d *Driver) runMinor() {
	sp := toStreamlineParams(d.Params.Streamlines.Minor)
	tracer := streamline.NewTracer(d.Field, d.Params.Origin, d.Params.WorldDimensions, sp.Dsep)
	seedGrids(tracer, d.Output.Coastline, d.Output.RiverPolygon)
	seedFamily(tracer, d.mainTracer)
	seedFamily(tracer, d.majorTracer)
	tracer.RunToCompletion(d.RNG, sp)
	if len(tracer.Streamlines) == 0 {
		d.Report.Counts.SeedExhausted++
	}
	d.minorTracer = tracer
	d.Output.Minor = tracer.AllSimple
}

func (d *Driver) runParksSmall() {
	lines := toPolylines(d.Output.Main, "main")
	lines = append(lines, toPolylines(d.Output.Major, "major")...)
	lines = append(lines, toPolylines(d.Output.Minor, "minor")...)
	g := graph.Build(lines, d.Params.Streamlines.Main.Dstep/10)
	d.finalBlocks = polygon.ExtractFaces(g, d.Params.Buildings.MinArea)

	remaining := excludeParks(d.finalBlocks, d.Output.Parks)
	small := selectParks(remaining, d.Params.Parks.NumSmallParks, false, d.RNG)

	d.Output.Parks = append(d.Output.Parks, toPolygons(small)...)
	d.Field.Parks = d.Output.Parks
}

func (d *Driver) runBuildings() {
	lotBlocks := excludeParks(d.finalBlocks, d.Output.Parks)
	sp := polygon.SubdivideParams{
		MinArea:        d.Params.Buildings.MinArea,
		ChanceNoDivide: d.Params.Buildings.ChanceNoDivide,
		ShrinkSpacing:  d.Params.Buildings.ShrinkSpacing,
	}

	var lots []polygon.Lot
	for _, block := range lotBlocks {
		lots = append(lots, polygon.Subdivide(block, sp, d.RNG)...)
	}
	d.Output.Lots = lots

	view := building.ViewState{
		Origin:          d.Params.Origin,
		Zoom:            d.Params.Zoom,
		WorldDimensions: d.Params.WorldDimensions,
		CameraPosition:  vector.Vector{X: d.Params.Options.CameraX, Y: d.Params.Options.CameraY},
		CameraDirection: vector.Vector{X: 0, Y: -1},
		Orthographic:    d.Params.Options.Orthographic,
	}
	heightRange := building.HeightRange{Min: d.Params.Buildings.HeightMin, Max: d.Params.Buildings.HeightMax}

	models := make([]building.Model, 0, len(lots))
	for _, lot := range lots {
		h := heightRange.SampleHeight(d.RNG)
		models = append(models, building.Project(lot.Points, h, view))
	}
	building.SortByHeightAscending(models)
	d.Output.Buildings = models
}

func toStreamlineParams(s params.StreamlineSpec) streamline.Params {
	return streamline.Params{
		Dsep: s.Dsep, Dtest: s.Dtest, Dstep: s.Dstep, Dlookahead: s.Dlookahead,
		Dcirclejoin: s.Dcirclejoin, JoinAngle: s.JoinAngle,
		PathIterations: s.PathIterations, SeedTries: s.SeedTries,
		SimplifyTolerance: s.SimplifyTolerance, CollideEarly: s.CollideEarly,
	}
}

// seedGrids pre-seeds both of tracer's grids with fixed obstacle lines
// (coastline, river) so the new family avoids crossing them too closely
// (spec.md §4.K "collide_with").
func seedGrids(tracer *streamline.Tracer, lines ...[]vector.Vector) {
	id := -1
	for _, line := range lines {
		if len(line) == 0 {
			continue
		}
		tracer.MajorGrid().AddPolyline(id, line)
		tracer.MinorGrid().AddPolyline(id, line)
		id--
	}
}

// seedFamily pre-seeds tracer's grids with every streamline an earlier
// family committed, each into the grid of its own parity, so later families
// keep their distance from earlier same-parity roads and cross the
// perpendicular ones (spec.md §4.K "major roads avoid main+coast").
func seedFamily(tracer *streamline.Tracer, earlier *streamline.Tracer) {
	if earlier == nil {
		return
	}
	for _, s := range earlier.Streamlines {
		if s.Parity == streamline.Major {
			tracer.MajorGrid().AddPolyline(s.ID+1_000_000, s.Dense)
		} else {
			tracer.MinorGrid().AddPolyline(s.ID+1_000_000, s.Dense)
		}
	}
}

func toPolylines(lines [][]vector.Vector, class string) []graph.Polyline {
	out := make([]graph.Polyline, 0, len(lines))
	for _, l := range lines {
		if len(l) < 2 {
			continue
		}
		out = append(out, graph.Polyline{Points: l, Class: class})
	}
	return out
}

func toPolygons(blocks []polygon.Block) [][]vector.Vector {
	out := make([][]vector.Vector, len(blocks))
	for i, b := range blocks {
		out[i] = b.Points
	}
	return out
}

// selectParks implements spec.md §4.K's big/small-park selection: either
// numParks random polygons, or (cluster) numParks contiguous polygons
// starting at a random index. If numParks >= len(blocks), every block
// becomes a park (spec.md §8 boundary behavior).
func selectParks(blocks []polygon.Block, numParks int, cluster bool, rng *rand.Rand) []polygon.Block {
	if numParks <= 0 || len(blocks) == 0 {
		return nil
	}
	if numParks >= len(blocks) {
		out := make([]polygon.Block, len(blocks))
		copy(out, blocks)
		return out
	}
	if cluster {
		start := rng.Intn(len(blocks))
		out := make([]polygon.Block, numParks)
		for i := 0; i < numParks; i++ {
			out[i] = blocks[(start+i)%len(blocks)]
		}
		return out
	}
	perm := rng.Perm(len(blocks))[:numParks]
	out := make([]polygon.Block, numParks)
	for i, idx := range perm {
		out[i] = blocks[idx]
	}
	return out
}

func excludeParks(blocks []polygon.Block, parks [][]vector.Vector) []polygon.Block {
	var out []polygon.Block
	for _, b := range blocks {
		c := centroid(b.Points)
		insidePark := false
		for _, park := range parks {
			if geom.PointInPolygon(c, park) {
				insidePark = true
				break
			}
		}
		if !insidePark {
			out = append(out, b)
		}
	}
	return out
}

func centroid(poly []vector.Vector) vector.Vector {
	var sum vector.Vector
	for _, p := range poly {
		sum = sum.Add(p)
	}
	return sum.Div(float64(len(poly)))
}
