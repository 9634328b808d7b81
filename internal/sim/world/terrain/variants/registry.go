// Package variants maps positional layer ids to externally defined variant
// handles. Ids are assigned in registration order, so callers must register
// in a fixed, documented order.
package variants

import "fmt"

// Registry is a bidirectional id <-> variant map. It is not safe for
// concurrent registration; register everything at start-up, then share.
type Registry[V comparable] struct {
	slots []slot[V]
	index map[V]int
}

type slot[V comparable] struct {
	v     V
	dummy bool
}

func NewRegistry[V comparable]() *Registry[V] {
	return &Registry[V]{index: map[V]int{}}
}

// Register appends v and returns its id. Registering the same variant twice
// is a configuration defect and returns an error.
func (r *Registry[V]) Register(v V) (int, error) {
	if id, ok := r.index[v]; ok {
		return -1, fmt.Errorf("variant %v already registered as id %d", v, id)
	}
	id := len(r.slots)
	r.slots = append(r.slots, slot[V]{v: v})
	r.index[v] = id
	return id, nil
}

// RegisterDummy reserves an id for a marker that never resolves to a variant.
func (r *Registry[V]) RegisterDummy() int {
	id := len(r.slots)
	r.slots = append(r.slots, slot[V]{dummy: true})
	return id
}

func (r *Registry[V]) Lookup(id int) (V, error) {
	var zero V
	if id < 0 || id >= len(r.slots) {
		return zero, fmt.Errorf("layer id %d is not registered", id)
	}
	s := r.slots[id]
	if s.dummy {
		return zero, fmt.Errorf("layer id %d is a marker and has no variant", id)
	}
	return s.v, nil
}

// MustLookup panics on an unknown or marker id.
func (r *Registry[V]) MustLookup(id int) V {
	v, err := r.Lookup(id)
	if err != nil {
		panic(err)
	}
	return v
}

// ID returns the id a variant was registered under.
func (r *Registry[V]) ID(v V) (int, bool) {
	id, ok := r.index[v]
	return id, ok
}

func (r *Registry[V]) IsDummy(id int) bool {
	return id >= 0 && id < len(r.slots) && r.slots[id].dummy
}

// IsVariant reports whether id resolves to a real variant.
func (r *Registry[V]) IsVariant(id int) bool {
	return id >= 0 && id < len(r.slots) && !r.slots[id].dummy
}

func (r *Registry[V]) Len() int { return len(r.slots) }
