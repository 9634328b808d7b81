package layer

import (
	"math/bits"

	"layergen.ai/internal/sim/world/logic/mathx"
)

// Seeds is the master stream a pipeline draws its stage and noise seeds
// from. Draw order is part of the output: a builder must never reorder or
// parallelise its draws.
type Seeds struct {
	s *mathx.Stream
}

func NewSeeds(worldSeed int64) *Seeds {
	return &Seeds{s: mathx.NewStream(worldSeed)}
}

// Next returns the context for the next stage.
func (s *Seeds) Next() Context {
	return Context{Seed: s.s.Int64()}
}

// NoiseSeed draws a seed for a noise field.
func (s *Seeds) NoiseSeed() int64 {
	return int64(s.s.Int32())
}

// ZoomSeeds is a list of zoom contexts shared by several branches of one
// pipeline. Index i is drawn from the master stream the first time any
// index >= i is requested, so the request order fixes the draw order.
type ZoomSeeds struct {
	master *Seeds
	seeds  []Context
}

func NewZoomSeeds(master *Seeds) *ZoomSeeds {
	return &ZoomSeeds{master: master}
}

func (z *ZoomSeeds) At(i int) Context {
	for len(z.seeds) <= i {
		z.seeds = append(z.seeds, z.master.Next())
	}
	return z.seeds[i]
}

// Context is the per-stage seed.
type Context struct {
	Seed int64
}

// At returns the decision stream for one cell. It is a pure function of
// (stage seed, x, z); successive draws model distinct call sites.
func (c Context) At(x, z int64) Random {
	return Random{state: mathx.Hash2(c.Seed, x, z)}
}

// Random is a per-cell SplitMix64 stream. Use it by pointer within one
// stage evaluation and discard it afterwards.
type Random struct {
	state uint64
}

func (r *Random) next() uint64 {
	r.state += 0x9e3779b97f4a7c15
	return mathx.Mix64(r.state)
}

// Choice returns a value in [0, n). n <= 1 yields 0.
func (r *Random) Choice(n int) int {
	if n <= 1 {
		return 0
	}
	hi, _ := bits.Mul64(r.next(), uint64(n))
	return int(hi)
}

// Chance returns true with probability p.
func (r *Random) Chance(p float64) bool {
	return mathx.Unit(r.next()) < p
}

// OneIn returns true with probability 1/n.
func (r *Random) OneIn(n int) bool {
	return r.Choice(n) == 0
}

func (r *Random) Pick2(a, b int) int {
	if r.Choice(2) == 0 {
		return a
	}
	return b
}

func (r *Random) Pick4(a, b, c, d int) int {
	switch r.Choice(4) {
	case 0:
		return a
	case 1:
		return b
	case 2:
		return c
	default:
		return d
	}
}
