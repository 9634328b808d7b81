package layer

// Area is a lazily evaluated grid. Get is total over int64 coordinates and
// safe for concurrent use; the cache never changes a returned value.
type Area struct {
	n       *node
	parents [2]*Area
	cache   *pointCache
}

func (a *Area) Get(x, z int64) int {
	if v, ok := a.cache.get(x, z); ok {
		return v
	}
	var v int
	switch a.n.kind {
	case kindSource:
		v = a.n.source.Apply(a.n.ctx, x, z)
	case kindTransform:
		v = a.n.transform.Apply(a.n.ctx, a.parents[0], x, z)
	case kindMerge:
		v = a.n.merge.Apply(a.n.ctx, a.parents[0], a.parents[1], x, z)
	}
	a.cache.put(x, z, v)
	return v
}

// Label is the label of the stage this grid was built from.
func (a *Area) Label() string { return a.n.label }

// Sample fills a w*h row-major window starting at (x, z).
func Sample(r Reader, x, z int64, w, h int) []int {
	out := make([]int, 0, w*h)
	for dz := 0; dz < h; dz++ {
		for dx := 0; dx < w; dx++ {
			out = append(out, r.Get(x+int64(dx), z+int64(dz)))
		}
	}
	return out
}
