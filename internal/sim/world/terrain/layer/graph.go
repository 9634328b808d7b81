package layer

// Reader is anything that resolves a cell to a classification id.
type Reader interface {
	Get(x, z int64) int
}

// Source is a stage without parents.
type Source interface {
	Apply(ctx Context, x, z int64) int
}

// Transform is a stage reading one parent, at any coordinates.
type Transform interface {
	Apply(ctx Context, parent Reader, x, z int64) int
}

// Merge is a stage reading two parents at the same coordinates.
type Merge interface {
	Apply(ctx Context, primary, secondary Reader, x, z int64) int
}

// CenterFunc adapts a per-cell mapping of the parent value.
type CenterFunc func(r *Random, value int) int

func (f CenterFunc) Apply(ctx Context, parent Reader, x, z int64) int {
	r := ctx.At(x, z)
	return f(&r, parent.Get(x, z))
}

// AdjacentFunc adapts a mapping over the cell and its four orthogonal
// neighbours. North is -z, west is -x.
type AdjacentFunc func(r *Random, north, west, south, east, center int) int

func (f AdjacentFunc) Apply(ctx Context, parent Reader, x, z int64) int {
	r := ctx.At(x, z)
	return f(&r,
		parent.Get(x, z-1),
		parent.Get(x-1, z),
		parent.Get(x, z+1),
		parent.Get(x+1, z),
		parent.Get(x, z),
	)
}

// MergeFunc adapts a per-cell combination of two parents.
type MergeFunc func(r *Random, primary, secondary int) int

func (f MergeFunc) Apply(ctx Context, primary, secondary Reader, x, z int64) int {
	r := ctx.At(x, z)
	return f(&r, primary.Get(x, z), secondary.Get(x, z))
}

type nodeKind uint8

const (
	kindSource nodeKind = iota + 1
	kindTransform
	kindMerge
)

// node is one stage descriptor. Parents are arena indices and always
// precede the node, so the arena is a DAG in topological order.
type node struct {
	label     string
	ctx       Context
	kind      nodeKind
	source    Source
	transform Transform
	merge     Merge
	parents   [2]int
}

// Graph is the arena of stages assembled by one pipeline build.
type Graph struct {
	nodes     []node
	cacheSize int
}

func NewGraph(cacheSize int) *Graph {
	return &Graph{cacheSize: cacheSize}
}

// Factory references one stage of a graph. The zero value is invalid.
type Factory struct {
	g  *Graph
	id int
}

func (f Factory) Valid() bool { return f.g != nil }

// Label is the stage label given at assembly.
func (f Factory) Label() string { return f.g.nodes[f.id].label }

// Depth is the number of stages on the longest path to a source.
func (f Factory) Depth() int {
	n := f.g.nodes[f.id]
	switch n.kind {
	case kindTransform:
		return 1 + Factory{g: f.g, id: n.parents[0]}.Depth()
	case kindMerge:
		a := Factory{g: f.g, id: n.parents[0]}.Depth()
		b := Factory{g: f.g, id: n.parents[1]}.Depth()
		return 1 + max(a, b)
	default:
		return 1
	}
}

func (g *Graph) add(n node) Factory {
	g.nodes = append(g.nodes, n)
	return Factory{g: g, id: len(g.nodes) - 1}
}

func (g *Graph) checkParent(f Factory) {
	if f.g != g {
		panic("layer: parent factory belongs to a different graph")
	}
}

func (g *Graph) Source(label string, ctx Context, s Source) Factory {
	return g.add(node{label: label, ctx: ctx, kind: kindSource, source: s})
}

func (g *Graph) Transform(label string, ctx Context, t Transform, parent Factory) Factory {
	g.checkParent(parent)
	return g.add(node{label: label, ctx: ctx, kind: kindTransform, transform: t, parents: [2]int{parent.id, -1}})
}

func (g *Graph) Merge(label string, ctx Context, m Merge, primary, secondary Factory) Factory {
	g.checkParent(primary)
	g.checkParent(secondary)
	return g.add(node{label: label, ctx: ctx, kind: kindMerge, merge: m, parents: [2]int{primary.id, secondary.id}})
}

// Build instantiates the grid for this stage with fresh caches. Stages
// shared by several branches get a single Area.
func (f Factory) Build() *Area {
	return f.BuildWithCache(f.g.cacheSize)
}

// BuildWithCache is Build with an explicit per-stage cache capacity.
func (f Factory) BuildWithCache(cacheSize int) *Area {
	built := make([]*Area, f.id+1)
	var build func(id int) *Area
	build = func(id int) *Area {
		if a := built[id]; a != nil {
			return a
		}
		n := &f.g.nodes[id]
		a := &Area{n: n, cache: newPointCache(cacheSize)}
		switch n.kind {
		case kindTransform:
			a.parents[0] = build(n.parents[0])
		case kindMerge:
			a.parents[0] = build(n.parents[0])
			a.parents[1] = build(n.parents[1])
		}
		built[id] = a
		return a
	}
	return build(f.id)
}
