package layer

import (
	"layergen.ai/internal/sim/tuning"
	"layergen.ai/internal/sim/world/terrain/noise"
)

const (
	plateSpread = 0.2

	largeLakeOneIn = 16
	smallLakeOneIn = 24
)

// Observer labels, one per pipeline section. Indices restart at 1 in
// every section.
const (
	LabelPlateGeneration = "plate_generation"
	LabelPlateBoundary   = "plate_boundary"
	LabelBiomes          = "biomes"
	LabelLake            = "lake"
	LabelRiver           = "river"
	LabelForest          = "forest"
	LabelPlateInfo       = "plate_info"
	LabelRock            = "rock"
)

// builder threads one master seed stream through a graph. Every stage
// draws its context in the order its method is called.
type builder struct {
	g     *Graph
	seeds *Seeds
	obs   Observer
}

func newBuilder(seed int64, cacheSize int, opts []Option) *builder {
	o := options{observer: nopObserver{}, cacheSize: cacheSize}
	for _, opt := range opts {
		opt(&o)
	}
	return &builder{g: NewGraph(o.cacheSize), seeds: NewSeeds(seed), obs: o.observer}
}

func (b *builder) draw(label string, index int, f Factory) Factory {
	b.obs.Observe(label, index, f)
	return f
}

func (b *builder) source(label string, index int, s Source) Factory {
	return b.draw(label, index, b.g.Source(label, b.seeds.Next(), s))
}

func (b *builder) transform(label string, index int, t Transform, parent Factory) Factory {
	return b.draw(label, index, b.g.Transform(label, b.seeds.Next(), t, parent))
}

func (b *builder) transformWith(label string, index int, ctx Context, t Transform, parent Factory) Factory {
	return b.draw(label, index, b.g.Transform(label, ctx, t, parent))
}

func (b *builder) merge(label string, index int, m Merge, primary, secondary Factory) Factory {
	return b.draw(label, index, b.g.Merge(label, b.seeds.Next(), m, primary, secondary))
}

// plates assembles plate generation, its fuzzy zoom and the boundary
// classification, the opening shared by the biome and plate info pipelines.
func (b *builder) plates(oceanPercent float64, boundaryLabel string) Factory {
	cells := noise.NewCellular2D(b.seeds.NoiseSeed()).Spread(plateSpread)
	ctx := b.seeds.Next()
	gen := NewPlates(cells, oceanPercent, ctx)
	f := b.draw(LabelPlateGeneration, 1, b.g.Source(LabelPlateGeneration, ctx, gen))
	f = b.transform(LabelPlateGeneration, 2, ZoomFuzzy, f)
	return b.transform(boundaryLabel, 1, PlateBoundary{Plates: gen}, f)
}

// BuildBiomes assembles the biome pipeline. The final grid holds real
// biome ids only.
func BuildBiomes(seed int64, settings tuning.LayerSettings, opts ...Option) Factory {
	b := newBuilder(seed, settings.CacheSize, opts)
	zooms := NewZoomSeeds(b.seeds)

	main := b.plates(settings.OceanPercent, LabelPlateBoundary)
	main = b.transform(LabelPlateBoundary, 2, Smooth, main)
	main = b.transform(LabelPlateBoundary, 3, PlateBoundaryModifier, main)

	main = b.transform(LabelBiomes, 1, PlateBiome, main)

	lake := b.transform(LabelLake, 1, Inland, main)
	lake = b.transformWith(LabelLake, 2, zooms.At(0), ZoomNormal, lake)
	lake = b.transform(LabelLake, 3, AddLakes{OneIn: largeLakeOneIn}, lake)
	lake = b.transformWith(LabelLake, 4, zooms.At(1), ZoomNormal, lake)
	lake = b.transform(LabelLake, 5, AddLakes{OneIn: smallLakeOneIn}, lake)
	lake = b.transformWith(LabelLake, 6, zooms.At(2), ZoomNormal, lake)

	main = b.transform(LabelBiomes, 2, OceanBorder, main)
	main = b.transformWith(LabelBiomes, 3, zooms.At(0), ZoomNormal, main)
	main = b.transform(LabelBiomes, 4, Archipelago, main)
	main = b.transform(LabelBiomes, 5, ReefBorder, main)
	main = b.transformWith(LabelBiomes, 6, zooms.At(1), ZoomNormal, main)
	main = b.transform(LabelBiomes, 7, EdgeBiome, main)
	main = b.transformWith(LabelBiomes, 8, zooms.At(2), ZoomNormal, main)
	main = b.merge(LabelBiomes, 9, MergeLake, main, lake)
	main = b.transform(LabelBiomes, 10, AddShores, main)
	for i := 0; i < 4; i++ {
		main = b.transform(LabelBiomes, 11+i, ZoomNormal, main)
	}
	main = b.transform(LabelBiomes, 15, Smooth, main)

	warpSeed := b.seeds.NoiseSeed()
	cellSeed := b.seeds.NoiseSeed()
	river := b.source(LabelRiver, 1, FloatNoise{Field: RiverNoise(warpSeed, cellSeed)})
	for i := 0; i < 4; i++ {
		river = b.transform(LabelRiver, 2+i, ZoomNormal, river)
	}
	river = b.transform(LabelRiver, 6, RiverShape, river)
	river = b.transform(LabelRiver, 7, AcuteVertex, river)
	river = b.transform(LabelRiver, 8, ZoomNormal, river)
	river = b.transform(LabelRiver, 9, Smooth, river)

	main = b.merge(LabelBiomes, 16, MergeRiver, main, river)
	main = b.transform(LabelBiomes, 17, RiverWidenMedium, main)
	return b.transform(LabelBiomes, 18, RiverWidenLow, main)
}

// BuildForests assembles the forest density pipeline.
func BuildForests(seed int64, settings tuning.LayerSettings, opts ...Option) Factory {
	b := newBuilder(seed, settings.CacheSize, opts)

	f := b.source(LabelForest, 1, ForestInit(b.seeds.NoiseSeed()))
	f = b.transform(LabelForest, 2, ForestRandomize, f)
	f = b.transform(LabelForest, 3, ZoomFuzzy, f)
	f = b.transform(LabelForest, 4, ForestRandomize, f)
	f = b.transform(LabelForest, 5, ZoomFuzzy, f)
	f = b.transform(LabelForest, 6, ZoomNormal, f)
	f = b.transform(LabelForest, 7, ForestBorder, f)
	f = b.transform(LabelForest, 8, ForestRandomizeSmall, f)
	for i := 0; i < 4; i++ {
		f = b.transform(LabelForest, 9+i, ZoomNormal, f)
	}
	return f
}

// BuildPlateInfo assembles the coarse tectonic classification: the biome
// pipeline's plate opening followed by five zooms.
func BuildPlateInfo(seed int64, settings tuning.LayerSettings, opts ...Option) Factory {
	b := newBuilder(seed, settings.CacheSize, opts)

	f := b.plates(settings.OceanPercent, LabelPlateInfo)
	for i := 0; i < 5; i++ {
		f = b.transform(LabelPlateInfo, 2+i, ZoomNormal, f)
	}
	return f
}

// BuildRocks assembles the rock region pipeline. Neighbour randomisation
// runs exactly once; further passes barely reduce adjacent equal pairs.
func BuildRocks(seed int64, settings tuning.LayerSettings, opts ...Option) Factory {
	b := newBuilder(seed, settings.CacheSize, opts)

	f := b.source(LabelRock, 1, RockSource{Count: settings.RockCount})
	f = b.transform(LabelRock, 2, RandomizeNeighbors{Count: settings.RockCount}, f)
	index := 3
	for i := 0; i < 2; i++ {
		f = b.transform(LabelRock, index, ZoomExact, f)
		f = b.transform(LabelRock, index+1, ZoomNormal, f)
		f = b.transform(LabelRock, index+2, Smooth, f)
		index += 3
	}
	for i := 0; i < settings.RockLayerScale; i++ {
		f = b.transform(LabelRock, index, ZoomNormal, f)
		index++
	}
	return f
}
