package layer

// RockSource assigns each coarse cell one of Count rock region ids at
// random.
type RockSource struct {
	Count int
}

func (s RockSource) Apply(ctx Context, x, z int64) int {
	r := ctx.At(x, z)
	return r.Choice(s.Count)
}
