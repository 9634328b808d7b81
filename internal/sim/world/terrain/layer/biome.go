package layer

func anyOf(n [4]int, pred func(int) bool) bool {
	for _, v := range n {
		if pred(v) {
			return true
		}
	}
	return false
}

func isOceanicIsland(v int) bool {
	return v == OceanicMountains || v == VolcanicOceanicMountains
}

// OceanBorder resolves diverging ocean ridges to shallow ocean and lifts
// deep ocean next to land to shallow ocean.
var OceanBorder = AdjacentFunc(func(_ *Random, north, west, south, east, center int) int {
	switch center {
	case OceanOceanDivergingMarker:
		return Ocean
	case DeepOcean, DeepOceanTrench:
		if anyOf([4]int{north, west, south, east}, func(v int) bool { return !IsOceanOrMarker(v) }) {
			return Ocean
		}
	}
	return center
})

// Archipelago turns converging ocean plates into oceanic island chains
// and reef candidates.
var Archipelago = CenterFunc(func(r *Random, value int) int {
	if value != OceanOceanConvergingMarker {
		return value
	}
	switch r.Choice(3) {
	case 0:
		return OceanicMountains
	case 1:
		return VolcanicOceanicMountains
	default:
		return OceanReefMarker
	}
})

// ReefBorder keeps reefs only where they touch an island, and raises deep
// ocean around islands.
var ReefBorder = AdjacentFunc(func(_ *Random, north, west, south, east, center int) int {
	n := [4]int{north, west, south, east}
	switch center {
	case OceanReefMarker:
		if anyOf(n, isOceanicIsland) {
			return OceanReef
		}
		return Ocean
	case DeepOcean, DeepOceanTrench:
		if anyOf(n, isOceanicIsland) {
			return Ocean
		}
	}
	return center
})

// EdgeBiome softens hard transitions: mountains beside lowland get rolling
// hills, plateaus beside low canyons get hills.
var EdgeBiome = AdjacentFunc(func(_ *Random, north, west, south, east, center int) int {
	n := [4]int{north, west, south, east}
	switch center {
	case Mountains, OldMountains, VolcanicMountains:
		if anyOf(n, IsLow) {
			return RollingHills
		}
	case Plateau, Badlands:
		if anyOf(n, func(v int) bool { return v == Lowlands || v == LowCanyons }) {
			return Hills
		}
	}
	return center
})

// AddShores puts a shore on every land cell that touches ocean, unless the
// biome has no shore variant.
var AddShores = AdjacentFunc(func(_ *Random, north, west, south, east, center int) int {
	if isLand(center) && HasShore(center) && anyOf([4]int{north, west, south, east}, IsOcean) {
		return ShoreFor(center)
	}
	return center
})
