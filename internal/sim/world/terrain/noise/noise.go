// Package noise holds the continuous 2D fields sampled by the layer stages.
// Values are pure functions of (seed, x, z).
package noise

import (
	"math"

	"github.com/ojrac/opensimplex-go"

	"layergen.ai/internal/sim/world/logic/mathx"
)

type Noise2D interface {
	Noise(x, z float64) float64
}

// Func adapts a plain function to Noise2D.
type Func func(x, z float64) float64

func (f Func) Noise(x, z float64) float64 { return f(x, z) }

// OpenSimplex2D returns simplex noise in roughly [-1, 1].
func OpenSimplex2D(seed int64) Noise2D {
	n := opensimplex.New(seed)
	return Func(n.Eval2)
}

// White2D returns an uncorrelated value in [0, 1) per integer cell.
func White2D(seed int64) Noise2D {
	return Func(func(x, z float64) float64 {
		return mathx.Unit(mathx.Hash2(seed, mathx.FloorToInt64(x), mathx.FloorToInt64(z)))
	})
}

// Spread multiplies the input coordinates by f.
func Spread(n Noise2D, f float64) Noise2D {
	return Func(func(x, z float64) float64 {
		return n.Noise(x*f, z*f)
	})
}

// Scaled maps a [-1, 1] field onto [min, max].
func Scaled(n Noise2D, min, max float64) Noise2D {
	return Func(func(x, z float64) float64 {
		return min + (n.Noise(x, z)+1)*0.5*(max-min)
	})
}

// Warped displaces the input of n by the value of warp. The z displacement
// samples warp with swapped axes so the two offsets are not identical.
func Warped(n, warp Noise2D) Noise2D {
	return Func(func(x, z float64) float64 {
		return n.Noise(x+warp.Noise(x, z), z+warp.Noise(z, x))
	})
}

// Terraces quantises a [0, 1) field into the given number of levels.
func Terraces(n Noise2D, levels int) Noise2D {
	if levels <= 0 {
		return n
	}
	l := float64(levels)
	return Func(func(x, z float64) float64 {
		return math.Floor(n.Noise(x, z)*l) / l
	})
}
