package layer

import (
	"math"

	"layergen.ai/internal/sim/world/logic/mathx"
	"layergen.ai/internal/sim/world/terrain/noise"
)

// Plate is one tectonic plate: a cellular noise cell with drift, elevation
// and an oceanic/continental class.
type Plate struct {
	CenterX, CenterZ float64
	DriftX, DriftZ   float64
	Elevation        float64 // [0, 1)
	Oceanic          bool
}

// Plates assigns every cell to the plate of its nearest cellular feature
// point. The grid it produces carries plate keys, not classification ids;
// Plate turns a key back into the plate. Keys pack the two lattice
// coordinates as 32-bit halves of an int, so this requires a 64-bit int.
type Plates struct {
	cells        noise.Cellular2D
	seed         int64
	oceanPercent float64
}

func NewPlates(cells noise.Cellular2D, oceanPercent float64, ctx Context) *Plates {
	return &Plates{cells: cells, seed: ctx.Seed, oceanPercent: oceanPercent}
}

func (p *Plates) Apply(_ Context, x, z int64) int {
	c := p.cells.Cell(float64(x), float64(z))
	return packPlateKey(c.X, c.Z)
}

// Plate derives the plate for a key. The result depends only on the key,
// the plate seed and the ocean fraction.
func (p *Plates) Plate(key int) Plate {
	cx, cz := unpackPlateKey(key)
	cell := p.cells.CellAt(cx, cz)
	s := mathx.NewStream(int64(mathx.Hash2(p.seed, cx, cz)))
	oceanic := s.Float64() < p.oceanPercent
	angle := 2 * math.Pi * s.Float64()
	speed := s.Float64()
	return Plate{
		CenterX:   cell.CenterX,
		CenterZ:   cell.CenterZ,
		DriftX:    math.Cos(angle) * speed,
		DriftZ:    math.Sin(angle) * speed,
		Elevation: s.Float64(),
		Oceanic:   oceanic,
	}
}

func packPlateKey(cx, cz int64) int {
	return int(uint64(uint32(int32(cx)))<<32 | uint64(uint32(int32(cz))))
}

func unpackPlateKey(key int) (int64, int64) {
	u := uint64(key)
	return int64(int32(uint32(u >> 32))), int64(int32(uint32(u)))
}

// PlateBoundary classifies each cell of a plate key grid. Interior cells
// get the plate's class; cells whose plate differs from an orthogonal
// neighbour get a boundary class from the relative drift of the two plates.
// The first differing neighbour in north, west, south, east order decides.
type PlateBoundary struct {
	Plates *Plates
}

func (b PlateBoundary) Apply(_ Context, parent Reader, x, z int64) int {
	center := parent.Get(x, z)
	plate := b.Plates.Plate(center)
	for _, k := range [4]int{
		parent.Get(x, z-1),
		parent.Get(x-1, z),
		parent.Get(x, z+1),
		parent.Get(x+1, z),
	} {
		if k != center {
			return boundary(plate, b.Plates.Plate(k))
		}
	}
	switch {
	case plate.Oceanic:
		return Oceanic
	case plate.Elevation < 1.0/3:
		return ContinentalLow
	case plate.Elevation < 2.0/3:
		return ContinentalMid
	default:
		return ContinentalHigh
	}
}

func boundary(p, o Plate) int {
	nx, nz := o.CenterX-p.CenterX, o.CenterZ-p.CenterZ
	rx, rz := p.DriftX-o.DriftX, p.DriftZ-o.DriftZ
	converging := nx*rx+nz*rz > 0

	switch {
	case p.Oceanic && o.Oceanic:
		if !converging {
			return OceanOceanDiverging
		}
		if p.Elevation < o.Elevation {
			return OceanOceanConvergingLower
		}
		return OceanOceanConvergingUpper
	case p.Oceanic != o.Oceanic:
		if !converging {
			return OceanContinentDiverging
		}
		if p.Oceanic {
			return OceanContinentConvergingLower
		}
		return OceanContinentConvergingUpper
	default:
		if converging {
			return ContinentContinentConverging
		}
		return ContinentContinentDiverging
	}
}

// PlateBoundaryModifier adds continental shelves around continents and
// widens continental collision ranges.
var PlateBoundaryModifier = AdjacentFunc(func(r *Random, north, west, south, east, center int) int {
	n := [4]int{north, west, south, east}
	switch {
	case center == Oceanic:
		for _, v := range n {
			if IsContinental(v) {
				return ContinentalShelf
			}
		}
	case IsContinental(center):
		for _, v := range n {
			if v == ContinentContinentConverging {
				if r.OneIn(3) {
					return ContinentContinentConverging
				}
				break
			}
		}
	}
	return center
})

var (
	lowBiomes  = []int{Plains, Hills, Lowlands, LowCanyons, RollingHills}
	midBiomes  = []int{RollingHills, Plateau, Badlands, Hills}
	highBiomes = []int{Plateau, OldMountains, Badlands, RollingHills}
)

// PlateBiome maps plate classes to initial biomes. Ocean-ocean boundaries
// become markers resolved by the ocean border and archipelago stages.
var PlateBiome = CenterFunc(func(r *Random, value int) int {
	switch value {
	case Oceanic:
		return DeepOcean
	case ContinentalShelf:
		return Ocean
	case ContinentalLow:
		return lowBiomes[r.Choice(len(lowBiomes))]
	case ContinentalMid:
		return midBiomes[r.Choice(len(midBiomes))]
	case ContinentalHigh:
		return highBiomes[r.Choice(len(highBiomes))]
	case OceanOceanDiverging:
		return OceanOceanDivergingMarker
	case OceanOceanConvergingLower, OceanContinentConvergingLower:
		return DeepOceanTrench
	case OceanOceanConvergingUpper:
		return OceanOceanConvergingMarker
	case OceanContinentConvergingUpper:
		if r.OneIn(3) {
			return Mountains
		}
		return VolcanicMountains
	case OceanContinentDiverging:
		return Lowlands
	case ContinentContinentDiverging:
		return r.Pick2(LowCanyons, Canyons)
	case ContinentContinentConverging:
		if r.OneIn(4) {
			return OldMountains
		}
		return Mountains
	}
	return DeepOcean
})
