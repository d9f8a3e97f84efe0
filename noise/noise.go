// Package noise supplies the noise2D(x, y) -> [-1, 1] black box that the
// tensor field's global/park modulation and the water generator's coastline
// wobble sample from (spec.md §4.C, §4.G). It is deliberately swappable:
// tensorfield.NoiseSource is a one-method interface, and Perlin is the
// default production implementation grounded on the teacher's
// server/terrain/noise generator.
package noise

import (
	"github.com/aquilax/go-perlin"
)

// Source produces coherent noise in [-1, 1] for any 2D point.
type Source interface {
	Noise2D(x, y float64) float64
}

// Perlin wraps aquilax/go-perlin, the same library the teacher's terrain
// generator (server/terrain/noise/noise.go) uses for its land/water
// heightmap octaves.
type Perlin struct {
	gen *perlin.Perlin
}

// NewPerlin creates a Perlin noise source seeded deterministically. alpha
// and beta control amplitude/frequency falloff per octave and n is the
// octave count, mirroring the teacher's perlin.NewPerlin(alpha, beta, n,
// seed) construction.
func NewPerlin(seed int64) *Perlin {
	return &Perlin{gen: perlin.NewPerlin(2, 2, 3, seed)}
}

// Noise2D returns a value in [-1, 1] (go-perlin's Noise2D is already
// approximately so for these alpha/beta/n parameters).
func (p *Perlin) Noise2D(x, y float64) float64 {
	v := p.gen.Noise2D(x, y)
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	return v
}

// Hash is a dependency-free, bit-reproducible noise source used by tests
// that need identical output across Go/library versions rather than
// visually pleasing noise. It is not used by the production pipeline.
type Hash struct {
	seed int64
}

// NewHash creates a Hash noise source.
func NewHash(seed int64) *Hash {
	return &Hash{seed: seed}
}

// Noise2D hashes the quantized coordinates and seed into a value in
// [-1, 1]. Discontinuous at every 1/1000 step of either coordinate by
// construction; good enough
// for exercising determinism, not for production geometry.
func (h *Hash) Noise2D(x, y float64) float64 {
	ix := int64(x * 1000)
	iy := int64(y * 1000)
	n := ix*374761393 + iy*668265263 + h.seed*2246822519
	n = (n ^ (n >> 13)) * 1274126177
	n = n ^ (n >> 16)
	// Map low 32 bits to [-1, 1].
	frac := float64(uint32(n)) / float64(1<<32)
	return frac*2 - 1
}
