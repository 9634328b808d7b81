package layer

// Plate tectonic classification ids, produced by the plate boundary stage.
const (
	Oceanic = iota
	ContinentalLow
	ContinentalMid
	ContinentalHigh
	OceanOceanDiverging
	OceanOceanConvergingLower
	OceanOceanConvergingUpper
	OceanContinentConvergingLower
	OceanContinentConvergingUpper
	OceanContinentDiverging
	ContinentContinentDiverging
	ContinentContinentConverging
	ContinentalShelf

	plateClassCount
)

// Forest density ids.
const (
	ForestNone = iota
	ForestNormal
	ForestSparse
	ForestEdge
	ForestOld

	forestClassCount
)

// Biome ids. The order is the registration order of NewBiomeRegistry and
// must not change: ids are positional.
const (
	Ocean = iota
	OceanReef
	DeepOcean
	DeepOceanTrench
	Plains
	Hills
	Lowlands
	LowCanyons
	RollingHills
	Badlands
	Plateau
	OldMountains
	Mountains
	VolcanicMountains
	OceanicMountains
	VolcanicOceanicMountains
	Canyons
	Shore
	Lake
	River
	MountainRiver
	VolcanicMountainRiver
	OldMountainRiver
	OceanicMountainRiver
	VolcanicOceanicMountainRiver
	MountainLake
	VolcanicMountainLake
	OldMountainLake
	OceanicMountainLake
	VolcanicOceanicMountainLake
	PlateauLake

	// Markers tag cells for a later stage of the biome pipeline and are all
	// consumed before it returns.
	OceanOceanConvergingMarker
	OceanOceanDivergingMarker
	LakeMarker
	RiverMarker
	NullMarker
	InlandMarker
	OceanReefMarker

	biomeIDCount
)

// biomeVariantNames lists the catalog variant for every real biome id.
var biomeVariantNames = [...]string{
	Ocean:                        "OCEAN",
	OceanReef:                    "OCEAN_REEF",
	DeepOcean:                    "DEEP_OCEAN",
	DeepOceanTrench:              "DEEP_OCEAN_TRENCH",
	Plains:                       "PLAINS",
	Hills:                        "HILLS",
	Lowlands:                     "LOWLANDS",
	LowCanyons:                   "LOW_CANYONS",
	RollingHills:                 "ROLLING_HILLS",
	Badlands:                     "BADLANDS",
	Plateau:                      "PLATEAU",
	OldMountains:                 "OLD_MOUNTAINS",
	Mountains:                    "MOUNTAINS",
	VolcanicMountains:            "VOLCANIC_MOUNTAINS",
	OceanicMountains:             "OCEANIC_MOUNTAINS",
	VolcanicOceanicMountains:     "VOLCANIC_OCEANIC_MOUNTAINS",
	Canyons:                      "CANYONS",
	Shore:                        "SHORE",
	Lake:                         "LAKE",
	River:                        "RIVER",
	MountainRiver:                "MOUNTAIN_RIVER",
	VolcanicMountainRiver:        "VOLCANIC_MOUNTAIN_RIVER",
	OldMountainRiver:             "OLD_MOUNTAIN_RIVER",
	OceanicMountainRiver:         "OCEANIC_MOUNTAIN_RIVER",
	VolcanicOceanicMountainRiver: "VOLCANIC_OCEANIC_MOUNTAIN_RIVER",
	MountainLake:                 "MOUNTAIN_LAKE",
	VolcanicMountainLake:         "VOLCANIC_MOUNTAIN_LAKE",
	OldMountainLake:              "OLD_MOUNTAIN_LAKE",
	OceanicMountainLake:          "OCEANIC_MOUNTAIN_LAKE",
	VolcanicOceanicMountainLake:  "VOLCANIC_OCEANIC_MOUNTAIN_LAKE",
	PlateauLake:                  "PLATEAU_LAKE",
}

var forestNames = [...]string{
	ForestNone:   "NONE",
	ForestNormal: "NORMAL",
	ForestSparse: "SPARSE",
	ForestEdge:   "EDGE",
	ForestOld:    "OLD_GROWTH",
}

var plateNames = [...]string{
	Oceanic:                       "OCEANIC",
	ContinentalLow:                "CONTINENTAL_LOW",
	ContinentalMid:                "CONTINENTAL_MID",
	ContinentalHigh:               "CONTINENTAL_HIGH",
	OceanOceanDiverging:           "OCEAN_OCEAN_DIVERGING",
	OceanOceanConvergingLower:     "OCEAN_OCEAN_CONVERGING_LOWER",
	OceanOceanConvergingUpper:     "OCEAN_OCEAN_CONVERGING_UPPER",
	OceanContinentConvergingLower: "OCEAN_CONTINENT_CONVERGING_LOWER",
	OceanContinentConvergingUpper: "OCEAN_CONTINENT_CONVERGING_UPPER",
	OceanContinentDiverging:       "OCEAN_CONTINENT_DIVERGING",
	ContinentContinentDiverging:   "CONTINENT_CONTINENT_DIVERGING",
	ContinentContinentConverging:  "CONTINENT_CONTINENT_CONVERGING",
	ContinentalShelf:              "CONTINENTAL_SHELF",
}

// ForestName returns the name of a forest id, or "" if out of range.
func ForestName(id int) string {
	if id < 0 || id >= forestClassCount {
		return ""
	}
	return forestNames[id]
}

// PlateName returns the name of a plate classification id, or "".
func PlateName(id int) string {
	if id < 0 || id >= plateClassCount {
		return ""
	}
	return plateNames[id]
}

func ForestPalette() []string { return append([]string(nil), forestNames[:]...) }
func PlatePalette() []string  { return append([]string(nil), plateNames[:]...) }

// IsMarker reports whether a biome id is a transient marker.
func IsMarker(id int) bool {
	return id >= OceanOceanConvergingMarker && id < biomeIDCount
}

func IsContinental(v int) bool {
	return v == ContinentalLow || v == ContinentalMid || v == ContinentalHigh
}

func HasShore(v int) bool {
	return v != Lowlands && v != LowCanyons && v != Canyons && v != OceanicMountains && v != VolcanicOceanicMountains
}

func ShoreFor(int) int { return Shore }

func HasLake(v int) bool {
	return !IsOcean(v) && v != Badlands
}

func LakeFor(v int) int {
	switch v {
	case Mountains:
		return MountainLake
	case VolcanicMountains:
		return VolcanicMountainLake
	case OldMountains:
		return OldMountainLake
	case OceanicMountains:
		return OceanicMountainLake
	case VolcanicOceanicMountains:
		return VolcanicOceanicMountainLake
	case Plateau:
		return PlateauLake
	}
	return Lake
}

func HasRiver(v int) bool {
	return !IsOcean(v) && !IsLake(v)
}

func RiverFor(v int) int {
	switch v {
	case Mountains:
		return MountainRiver
	case VolcanicMountains:
		return VolcanicMountainRiver
	case OldMountains:
		return OldMountainRiver
	case OceanicMountains:
		return OceanicMountainRiver
	case VolcanicOceanicMountains:
		return VolcanicOceanicMountainRiver
	}
	return River
}

func IsOcean(v int) bool {
	return v == Ocean || v == DeepOcean || v == DeepOceanTrench || v == OceanReef
}

func IsOceanOrMarker(v int) bool {
	return IsOcean(v) || v == OceanOceanConvergingMarker || v == OceanOceanDivergingMarker || v == OceanReefMarker
}

func IsLake(v int) bool {
	switch v {
	case Lake, OceanicMountainLake, OldMountainLake, MountainLake, VolcanicOceanicMountainLake, VolcanicMountainLake, PlateauLake:
		return true
	}
	return false
}

func IsRiver(v int) bool {
	switch v {
	case River, OceanicMountainRiver, OldMountainRiver, MountainRiver, VolcanicOceanicMountainRiver, VolcanicMountainRiver:
		return true
	}
	return false
}

func IsMountains(v int) bool {
	switch v {
	case Mountains, OceanicMountains, OldMountains, VolcanicMountains, VolcanicOceanicMountains:
		return true
	}
	return false
}

func IsLow(v int) bool {
	return v == Plains || v == Hills || v == LowCanyons || v == Lowlands
}

// isLand is a non-marker biome that is not ocean.
func isLand(v int) bool {
	return v >= 0 && v < OceanOceanConvergingMarker && !IsOcean(v)
}
