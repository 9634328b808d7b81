package noise

import (
	"layergen.ai/internal/sim/world/logic/mathx"
)

// Cell is the feature point nearest to a sampled position.
type Cell struct {
	X, Z             int64   // lattice cell owning the feature point
	CenterX, CenterZ float64 // feature point, in unspread coordinates
	Value            float64 // per-cell value in [0, 1)
}

// Cellular2D is Worley style F1 noise: every lattice cell holds one
// jittered feature point and a sample resolves to the nearest of them.
type Cellular2D struct {
	seed   int64
	spread float64
}

func NewCellular2D(seed int64) Cellular2D {
	return Cellular2D{seed: seed, spread: 1}
}

// Spread returns a copy sampling at coordinates multiplied by f.
func (c Cellular2D) Spread(f float64) Cellular2D {
	c.spread *= f
	return c
}

func (c Cellular2D) Noise(x, z float64) float64 {
	return c.Cell(x, z).Value
}

func (c Cellular2D) Cell(x, z float64) Cell {
	sx, sz := x*c.spread, z*c.spread
	ix, iz := mathx.FloorToInt64(sx), mathx.FloorToInt64(sz)

	best := Cell{}
	bestDist := -1.0
	for dz := int64(-1); dz <= 1; dz++ {
		for dx := int64(-1); dx <= 1; dx++ {
			cx, cz := ix+dx, iz+dz
			cell := c.CellAt(cx, cz)
			ddx, ddz := cell.CenterX*c.spread-sx, cell.CenterZ*c.spread-sz
			d := ddx*ddx + ddz*ddz
			if bestDist < 0 || d < bestDist {
				bestDist = d
				best = cell
			}
		}
	}
	return best
}

// CellAt returns the feature point of lattice cell (cx, cz).
func (c Cellular2D) CellAt(cx, cz int64) Cell {
	h := mathx.Hash2(c.seed, cx, cz)
	px := float64(cx) + mathx.Unit(mathx.Mix64(h^0x1))
	pz := float64(cz) + mathx.Unit(mathx.Mix64(h^0x2))
	return Cell{
		X:       cx,
		Z:       cz,
		CenterX: px / c.spread,
		CenterZ: pz / c.spread,
		Value:   mathx.Unit(h),
	}
}
