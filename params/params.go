// Package params defines the pipeline's nested parameter object (spec.md
// §6) and its JSON loading, grounded on the teacher's jsoniter codec
// conventions (server/jsoniter.go).
package params

import (
	"fmt"
	"os"

	"mapgen/vector"
)

// NoiseSpec mirrors one *Params noise group: {noiseEnabled, noiseSize,
// noiseAngle} (spec.md §6 "water").
type NoiseSpec struct {
	NoiseEnabled bool    `json:"noiseEnabled"`
	NoiseSize    float64 `json:"noiseSize"`
	NoiseAngle   float64 `json:"noiseAngle"`
}

// BasisFieldSpec is one tensorField.basisFields entry (spec.md §6).
type BasisFieldSpec struct {
	Type  string  `json:"type"` // "grid" | "radial"
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size"`
	Decay float64 `json:"decay"`
	Theta float64 `json:"theta,omitempty"` // grid only
}

// TensorFieldSpec is tensorField.* (spec.md §6).
type TensorFieldSpec struct {
	GlobalNoise     bool             `json:"globalNoise"`
	NoiseSizePark   float64          `json:"noiseSizePark"`
	NoiseAnglePark  float64          `json:"noiseAnglePark"`
	NoiseSizeGlobal float64          `json:"noiseSizeGlobal"`
	NoiseAngleGlobal float64         `json:"noiseAngleGlobal"`
	BasisFields     []BasisFieldSpec `json:"basisFields"`
}

// WaterSpec is water.* (spec.md §6).
type WaterSpec struct {
	CoastParams   NoiseSpec `json:"coastParams"`
	RiverParams   NoiseSpec `json:"riverParams"`
	RiverBankSize float64   `json:"riverBankSize"`
	RiverSize     float64   `json:"riverSize"`
}

// StreamlineSpec is one streamlines.{main,major,minor} record (spec.md
// §4.F's full StreamlineParams).
type StreamlineSpec struct {
	Dsep              float64 `json:"dsep"`
	Dtest             float64 `json:"dtest"`
	Dstep             float64 `json:"dstep"`
	Dlookahead        float64 `json:"dlookahead"`
	Dcirclejoin       float64 `json:"dcirclejoin"`
	JoinAngle         float64 `json:"joinangle"`
	PathIterations    int     `json:"pathIterations"`
	SeedTries         int     `json:"seedTries"`
	SimplifyTolerance float64 `json:"simplifyTolerance"`
	CollideEarly      float64 `json:"collideEarly"`
}

// StreamlinesSpec is streamlines.* (spec.md §6).
type StreamlinesSpec struct {
	Main  StreamlineSpec `json:"main"`
	Major StreamlineSpec `json:"major"`
	Minor StreamlineSpec `json:"minor"`
}

// ParksSpec is parks.* (spec.md §6).
type ParksSpec struct {
	NumBigParks     int  `json:"numBigParks"`
	NumSmallParks   int  `json:"numSmallParks"`
	ClusterBigParks bool `json:"clusterBigParks"`
}

// BuildingsSpec is buildings.* (spec.md §6), with height range added per
// spec.md §9's Open Question ("keep it configurable in the rewrite").
type BuildingsSpec struct {
	MinArea        float64 `json:"minArea"`
	ShrinkSpacing  float64 `json:"shrinkSpacing"`
	ChanceNoDivide float64 `json:"chanceNoDivide"`
	HeightMin      float64 `json:"heightMin"`
	HeightMax      float64 `json:"heightMax"`
}

// OptionsSpec is options.* (spec.md §6).
type OptionsSpec struct {
	DrawCentre       bool    `json:"drawCentre"`
	AnimationSpeedMs int     `json:"animationSpeedMs"`
	Orthographic     bool    `json:"orthographic"`
	CameraX          float64 `json:"cameraX"`
	CameraY          float64 `json:"cameraY"`
}

// Params is the full nested parameter object of spec.md §6.
type Params struct {
	Zoom            float64         `json:"zoom"`
	WorldDimensions vector.Vector   `json:"worldDimensions"`
	Origin          vector.Vector   `json:"origin"`
	Seed            int64           `json:"seed"`
	TensorField     TensorFieldSpec `json:"tensorField"`
	Water           WaterSpec       `json:"water"`
	Streamlines     StreamlinesSpec `json:"streamlines"`
	Parks           ParksSpec       `json:"parks"`
	Buildings       BuildingsSpec   `json:"buildings"`
	Options         OptionsSpec     `json:"options"`
}

// Default returns a Params with the values used throughout spec.md §8's
// end-to-end scenarios (world 2000x1000, origin (0,0), seed 42's companion
// defaults).
func Default() Params {
	mainStream := StreamlineSpec{
		Dsep: 400, Dtest: 200, Dstep: 1, Dlookahead: 200,
		Dcirclejoin: 5, JoinAngle: 0.1, PathIterations: 2000,
		SeedTries: 300, SimplifyTolerance: 0.5,
	}
	majorStream := mainStream
	majorStream.Dsep, majorStream.Dtest = 100, 30
	minorStream := mainStream
	minorStream.Dsep, minorStream.Dtest = 20, 10

	return Params{
		Zoom:            1,
		WorldDimensions: vector.Vector{X: 2000, Y: 1000},
		Origin:          vector.Vector{X: 0, Y: 0},
		Seed:            42,
		TensorField: TensorFieldSpec{
			BasisFields: []BasisFieldSpec{
				{Type: "grid", X: 1000, Y: 500, Size: 500, Decay: 50, Theta: 0},
			},
		},
		Water: WaterSpec{RiverBankSize: 5, RiverSize: 30},
		Streamlines: StreamlinesSpec{
			Main:  mainStream,
			Major: majorStream,
			Minor: minorStream,
		},
		Parks: ParksSpec{NumBigParks: 2, NumSmallParks: 4},
		Buildings: BuildingsSpec{
			MinArea: 500, ShrinkSpacing: 2, ChanceNoDivide: 0.05,
			HeightMin: 20, HeightMax: 40,
		},
		Options: OptionsSpec{AnimationSpeedMs: 16},
	}
}

// Load reads and parses a Params document from path (spec.md §6 "loaded
// from a JSON document").
func Load(path string) (Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Params{}, fmt.Errorf("reading params: %w", err)
	}
	p := Default()
	if err := JSON.Unmarshal(data, &p); err != nil {
		return Params{}, &InvalidError{Field: "(document)", Reason: err.Error()}
	}
	return p, nil
}

// InvalidError is spec.md §7's ParamInvalid kind: fatal, surfaced to the
// caller.
type InvalidError struct {
	Field  string
	Reason string
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("invalid param %s: %s", e.Field, e.Reason)
}

// Validate checks the structural invariants spec.md §6 and §7 require
// before a pipeline run starts.
func (p Params) Validate() error {
	if p.Zoom < 0.3 || p.Zoom > 20 {
		return &InvalidError{"zoom", "must satisfy 0.3 <= zoom <= 20"}
	}
	if p.WorldDimensions.X <= 0 || p.WorldDimensions.Y <= 0 {
		return &InvalidError{"worldDimensions", "must be positive"}
	}
	for name, s := range map[string]StreamlineSpec{
		"streamlines.main": p.Streamlines.Main, "streamlines.major": p.Streamlines.Major, "streamlines.minor": p.Streamlines.Minor,
	} {
		if s.Dsep <= 0 {
			return &InvalidError{name + ".dsep", "must be positive"}
		}
		if s.Dstep <= 0 || s.Dstep >= s.Dtest || s.Dtest > s.Dsep {
			return &InvalidError{name, "must satisfy dstep << dtest <= dsep"}
		}
		if s.CollideEarly < 0 || s.CollideEarly > 1 {
			return &InvalidError{name + ".collideEarly", "must be in [0,1]"}
		}
	}
	if p.Buildings.HeightMax < p.Buildings.HeightMin {
		return &InvalidError{"buildings", "heightMax must be >= heightMin"}
	}
	for _, bf := range p.TensorField.BasisFields {
		if bf.Type != "grid" && bf.Type != "radial" {
			return &InvalidError{"tensorField.basisFields[].type", "must be \"grid\" or \"radial\""}
		}
	}
	return nil
}
