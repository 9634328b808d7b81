package layer

type zoomMode uint8

const (
	zoomNormal zoomMode = iota
	zoomFuzzy
	zoomExact
)

// Zoom doubles resolution. Output cells at even coordinates copy the parent
// cell (x/2, z/2) unchanged; odd cells are chosen among the two or four
// parent cells they sit between.
type Zoom struct {
	mode zoomMode
}

var (
	// ZoomNormal prefers a value shared by two of the four candidates and
	// falls back to a seeded pick.
	ZoomNormal = Zoom{mode: zoomNormal}
	// ZoomFuzzy always takes a seeded pick.
	ZoomFuzzy = Zoom{mode: zoomFuzzy}
	// ZoomExact repeats each parent cell as a 2x2 block; it draws nothing.
	ZoomExact = Zoom{mode: zoomExact}
)

func (zm Zoom) Apply(ctx Context, parent Reader, x, z int64) int {
	px, pz := x>>1, z>>1
	nw := parent.Get(px, pz)
	if zm.mode == zoomExact {
		return nw
	}
	oddX, oddZ := x&1 != 0, z&1 != 0
	if !oddX && !oddZ {
		return nw
	}

	r := ctx.At(x, z)
	if !oddX {
		return r.Pick2(nw, parent.Get(px, pz+1))
	}
	ne := parent.Get(px+1, pz)
	if !oddZ {
		return r.Pick2(nw, ne)
	}
	sw := parent.Get(px, pz+1)
	se := parent.Get(px+1, pz+1)
	if zm.mode == zoomFuzzy {
		return r.Pick4(nw, ne, sw, se)
	}
	return modeOrRandom(&r, nw, ne, sw, se)
}

// modeOrRandom returns the first value of the first agreeing pair, scanning
// (a,b) (a,c) (a,d) (b,c) (b,d) (c,d); with no agreement it picks at random.
func modeOrRandom(r *Random, a, b, c, d int) int {
	switch {
	case a == b, a == c, a == d:
		return a
	case b == c, b == d:
		return b
	case c == d:
		return c
	}
	return r.Pick4(a, b, c, d)
}
