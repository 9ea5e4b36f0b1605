package scene

import (
	"math"
	"math/rand/v2"
)

const (
	StarCount = 150
	RingCount = 4
)

// Star is one point of the twinkling starfield.
type Star struct {
	X, Y          float64
	Size          float64
	TwinkleOffset float64
}

// Ring is one of the concentric elliptical rings around the sphere.
type Ring struct {
	Radius   float64
	Rotation float64 // starting angle
	Drift    float64 // radians per second
}

// Params holds the decorative layout seeded once per mount. Draw never
// mutates it, so star and ring layouts stay stable across the loop.
type Params struct {
	Stars []Star
	Rings []Ring
}

// NewParams seeds a layout for a width x height logical surface.
func NewParams(rng *rand.Rand, width, height float64) Params {
	p := Params{
		Stars: make([]Star, StarCount),
		Rings: make([]Ring, RingCount),
	}
	for i := range p.Stars {
		p.Stars[i] = Star{
			X:             rng.Float64() * width,
			Y:             rng.Float64() * height,
			Size:          rng.Float64()*2 + 0.5,
			TwinkleOffset: rng.Float64() * math.Pi * 2,
		}
	}
	for i := range p.Rings {
		p.Rings[i] = Ring{
			Radius:   170 + float64(i)*35,
			Rotation: rng.Float64() * math.Pi * 2,
			Drift:    rng.Float64()*0.002 + 0.001,
		}
	}
	return p
}

// NewSeededParams is NewParams with a PCG source built from seed.
func NewSeededParams(seed uint64, width, height float64) Params {
	return NewParams(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), width, height)
}

// Clone returns a deep copy.
func (p Params) Clone() Params {
	return Params{
		Stars: append([]Star(nil), p.Stars...),
		Rings: append([]Ring(nil), p.Rings...),
	}
}
