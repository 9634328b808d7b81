package layer

// Smooth replaces a cell only when all four orthogonal neighbours share one
// value different from it. Every other pattern passes through.
var Smooth = AdjacentFunc(func(_ *Random, north, west, south, east, center int) int {
	if north == south && west == east && north == west && center != north {
		return north
	}
	return center
})
