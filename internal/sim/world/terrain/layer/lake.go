package layer

// Inland marks cells that are neither ocean nor next to ocean. It feeds the
// lake branch only; every other cell becomes NullMarker.
var Inland = AdjacentFunc(func(_ *Random, north, west, south, east, center int) int {
	if IsOceanOrMarker(center) || anyOf([4]int{north, west, south, east}, IsOceanOrMarker) {
		return NullMarker
	}
	return InlandMarker
})

// AddLakes seeds a lake with probability 1/OneIn in inland cells whose four
// neighbours are inland too.
type AddLakes struct {
	OneIn int
}

func (l AddLakes) Apply(ctx Context, parent Reader, x, z int64) int {
	center := parent.Get(x, z)
	if center != InlandMarker {
		return center
	}
	if parent.Get(x, z-1) != InlandMarker || parent.Get(x-1, z) != InlandMarker ||
		parent.Get(x, z+1) != InlandMarker || parent.Get(x+1, z) != InlandMarker {
		return center
	}
	r := ctx.At(x, z)
	if r.OneIn(l.OneIn) {
		return LakeMarker
	}
	return center
}

// MergeLake places the lake variant of the biome under every lake mark.
var MergeLake = MergeFunc(func(_ *Random, primary, secondary int) int {
	if secondary == LakeMarker && HasLake(primary) {
		return LakeFor(primary)
	}
	return primary
})
