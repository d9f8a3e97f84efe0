package streamline

// Params bundles the separation/stepping constants that govern one
// streamline family, per spec.md §4.F. A pipeline typically holds three
// distinct Params values keyed "main", "major", "minor" (spec.md §6).
type Params struct {
	Dsep        float64
	Dtest       float64
	Dstep       float64
	Dlookahead  float64
	Dcirclejoin float64
	JoinAngle   float64 // radians; spec's "joinangle"

	PathIterations int
	SeedTries      int

	SimplifyTolerance float64

	// CollideEarly in [0,1] scales Dlookahead for the early-collision
	// exception (spec.md §9 Open Question: semantics left ambiguous in the
	// source; plumbed through unchanged rather than given invented
	// behavior). Zero (the source's only exercised value) reduces the
	// exception to a no-op.
	CollideEarly float64
}
