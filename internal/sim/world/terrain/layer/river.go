package layer

import "layergen.ai/internal/sim/world/terrain/noise"

const (
	riverWarpScale   = 1.7
	riverWarpSpread  = 0.15
	riverCellSpread  = 0.072
	riverTerraceBand = 5
)

// RiverNoise builds the field whose terrace boundaries become rivers: a
// cellular field warped by simplex noise and cut into bands.
func RiverNoise(warpSeed, cellSeed int64) noise.Noise2D {
	warp := noise.Scaled(noise.Spread(noise.OpenSimplex2D(warpSeed), riverWarpSpread), -riverWarpScale, riverWarpScale)
	cells := noise.NewCellular2D(cellSeed).Spread(riverCellSpread)
	return noise.Terraces(noise.Warped(cells, warp), riverTerraceBand)
}

// RiverShape marks every cell on a boundary between two noise bands.
var RiverShape = AdjacentFunc(func(_ *Random, north, west, south, east, center int) int {
	if north != center || west != center || south != center || east != center {
		return RiverMarker
	}
	return NullMarker
})

// AcuteVertex fills the inside corner where a river turns at a right angle,
// so the river stays 4-connected after zooming.
var AcuteVertex = AdjacentFunc(func(_ *Random, north, west, south, east, center int) int {
	if center != NullMarker {
		return center
	}
	r := func(v int) bool { return v == RiverMarker }
	switch {
	case r(north) && r(west) && !r(south) && !r(east),
		r(north) && r(east) && !r(south) && !r(west),
		r(south) && r(west) && !r(north) && !r(east),
		r(south) && r(east) && !r(north) && !r(west):
		return RiverMarker
	}
	return center
})

// MergeRiver places the river variant of the biome wherever the river
// branch marks a river. Oceans and lakes are never overwritten.
var MergeRiver = MergeFunc(func(_ *Random, primary, secondary int) int {
	if secondary == RiverMarker && HasRiver(primary) {
		return RiverFor(primary)
	}
	return primary
})

// RiverWiden extends rivers by one cell into neighbouring biomes of the
// configured set.
type RiverWiden struct {
	biomes map[int]bool
}

func newRiverWiden(ids ...int) RiverWiden {
	w := RiverWiden{biomes: make(map[int]bool, len(ids))}
	for _, id := range ids {
		w.biomes[id] = true
	}
	return w
}

var (
	RiverWidenMedium = newRiverWiden(Plains, Hills, Lowlands, LowCanyons, RollingHills, Canyons)
	RiverWidenLow    = newRiverWiden(Lowlands, LowCanyons, Plains)
)

func (w RiverWiden) Apply(_ Context, parent Reader, x, z int64) int {
	center := parent.Get(x, z)
	if !w.biomes[center] {
		return center
	}
	if IsRiver(parent.Get(x, z-1)) || IsRiver(parent.Get(x-1, z)) ||
		IsRiver(parent.Get(x, z+1)) || IsRiver(parent.Get(x+1, z)) {
		return RiverFor(center)
	}
	return center
}
