package layer

import "layergen.ai/internal/sim/world/terrain/noise"

const forestSpread = 0.3

// ForestInit quantises simplex noise into unforested, normal and old growth.
func ForestInit(seed int64) Quantize {
	return Quantize{
		Field: noise.Spread(noise.OpenSimplex2D(seed), forestSpread),
		Cuts:  []float64{-0.1, 0.45},
		IDs:   []int{ForestNone, ForestNormal, ForestOld},
	}
}

var (
	ForestRandomize = Randomize{OneIn: 3, Alternates: map[int][]int{
		ForestNormal: {ForestSparse, ForestOld},
		ForestOld:    {ForestNormal},
		ForestSparse: {ForestNormal},
	}}
	ForestRandomizeSmall = Randomize{OneIn: 16, Alternates: map[int][]int{
		ForestNone: {ForestSparse},
		ForestOld:  {ForestNormal},
	}}
)

// ForestBorder thins the border of every forest touching open land.
var ForestBorder = AdjacentFunc(func(_ *Random, north, west, south, east, center int) int {
	if center != ForestNone && anyOf([4]int{north, west, south, east}, func(v int) bool { return v == ForestNone }) {
		return ForestEdge
	}
	return center
})
