package layer

import (
	"math"

	"layergen.ai/internal/sim/world/terrain/noise"
)

// Quantize samples a noise field at the cell coordinates and maps the value
// to IDs[k], where k is the number of cut points <= value. Any spatial
// spread belongs to the field.
type Quantize struct {
	Field noise.Noise2D
	Cuts  []float64 // ascending, len(IDs)-1
	IDs   []int
}

func (q Quantize) Apply(_ Context, x, z int64) int {
	v := q.Field.Noise(float64(x), float64(z))
	k := 0
	for k < len(q.Cuts) && v >= q.Cuts[k] {
		k++
	}
	return q.IDs[k]
}

// EvenBuckets returns a Quantize splitting a [0, 1) field into n equally
// likely ids 0..n-1.
func EvenBuckets(field noise.Noise2D, n int) Quantize {
	if n < 1 {
		n = 1
	}
	q := Quantize{Field: field, Cuts: make([]float64, n-1), IDs: make([]int, n)}
	for i := range q.IDs {
		q.IDs[i] = i
	}
	for i := range q.Cuts {
		q.Cuts[i] = float64(i+1) / float64(n)
	}
	return q
}

// FloatNoise carries the raw float32 bits of a field, so later stages can
// compare samples for equality.
type FloatNoise struct {
	Field noise.Noise2D
}

func (f FloatNoise) Apply(_ Context, x, z int64) int {
	return int(math.Float32bits(float32(f.Field.Noise(float64(x), float64(z)))))
}

// Randomize replaces a value that has alternates with one of them, with
// probability 1/OneIn per cell. Values without alternates pass through
// without consuming a draw.
type Randomize struct {
	OneIn      int
	Alternates map[int][]int
}

func (rz Randomize) Apply(ctx Context, parent Reader, x, z int64) int {
	v := parent.Get(x, z)
	alts := rz.Alternates[v]
	if len(alts) == 0 {
		return v
	}
	r := ctx.At(x, z)
	if !r.OneIn(rz.OneIn) {
		return v
	}
	return alts[r.Choice(len(alts))]
}

// RandomizeNeighbors re-rolls a cell in [0, Count) when it equals any
// orthogonal neighbour, preferring a value no neighbour holds.
type RandomizeNeighbors struct {
	Count int
}

func (rn RandomizeNeighbors) Apply(ctx Context, parent Reader, x, z int64) int {
	north := parent.Get(x, z-1)
	west := parent.Get(x-1, z)
	south := parent.Get(x, z+1)
	east := parent.Get(x+1, z)
	center := parent.Get(x, z)
	if center != north && center != west && center != south && center != east {
		return center
	}
	r := ctx.At(x, z)
	start := r.Choice(rn.Count)
	for k := 0; k < rn.Count; k++ {
		v := (start + k) % rn.Count
		if v != north && v != west && v != south && v != east {
			return v
		}
	}
	return center
}
