package tensor

// MultiIndex iterates the Cartesian product of a set of dimensions in
// row-major order. It replaces nested loops over (frequency x temperature x
// incoming angle x element) combinations:
//
//	it := tensor.NewMultiIndex(nf, nt, ne)
//	for it.Next() {
//		c := it.Coords() // [f, t, e]
//	}
//
// Iterations are independent of one another, so a caller may also partition
// the linear index range across workers.
type MultiIndex struct {
	dims    []int
	coords  []int
	started bool
	done    bool
}

// NewMultiIndex returns an iterator over the given dimensions. Dimensions
// must be positive.
func NewMultiIndex(dims ...int) *MultiIndex {
	return &MultiIndex{
		dims:   append([]int(nil), dims...),
		coords: make([]int, len(dims)),
	}
}

// Next advances to the next coordinate tuple, returning false when the
// product is exhausted. The first call positions the iterator at the origin.
func (it *MultiIndex) Next() bool {
	if it.done {
		return false
	}
	if !it.started {
		it.started = true
		for _, d := range it.dims {
			if d <= 0 {
				it.done = true
				return false
			}
		}
		return true
	}
	for k := len(it.coords) - 1; k >= 0; k-- {
		it.coords[k]++
		if it.coords[k] < it.dims[k] {
			return true
		}
		it.coords[k] = 0
	}
	it.done = true
	return false
}

// Coords returns the current coordinate tuple. The slice is reused between
// calls to Next; copy it if it needs to outlive the iteration step.
func (it *MultiIndex) Coords() []int { return it.coords }

// Reset rewinds the iterator to before the origin.
func (it *MultiIndex) Reset() {
	it.started = false
	it.done = false
	for i := range it.coords {
		it.coords[i] = 0
	}
}
