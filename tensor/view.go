package tensor

import "fmt"

// Vec is a strided 1-D view into a tensor's storage along a single axis.
// Reads and writes go straight through to the backing tensor.
type Vec[T Scalar] struct {
	data   []T
	off    int
	n      int
	stride int
}

// Len returns the view's length.
func (v Vec[T]) Len() int { return v.n }

// At returns element i.
func (v Vec[T]) At(i int) T { return v.data[v.off+i*v.stride] }

// Set stores x at element i.
func (v Vec[T]) Set(i int, x T) { v.data[v.off+i*v.stride] = x }

// Slice copies the view into a fresh slice.
func (v Vec[T]) Slice() []T {
	out := make([]T, v.n)
	for i := range out {
		out[i] = v.data[v.off+i*v.stride]
	}
	return out
}

// Assign copies src into the view. Lengths must match.
func (v Vec[T]) Assign(src []T) {
	if len(src) != v.n {
		panic(fmt.Sprintf("tensor: assigning %d values to view of length %d", len(src), v.n))
	}
	for i, x := range src {
		v.data[v.off+i*v.stride] = x
	}
}

// Mat is a strided 2-D view into a tensor's storage over two axes.
type Mat[T Scalar] struct {
	data       []T
	off        int
	rows, cols int
	rs, cs     int
}

// Rows returns the number of rows.
func (m Mat[T]) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m Mat[T]) Cols() int { return m.cols }

// At returns element (i, j).
func (m Mat[T]) At(i, j int) T { return m.data[m.off+i*m.rs+j*m.cs] }

// Set stores x at element (i, j).
func (m Mat[T]) Set(i, j int, x T) { m.data[m.off+i*m.rs+j*m.cs] = x }

// Vec returns a 1-D view along axis ax. The index slice must have the
// tensor's rank; its entry at position ax is ignored.
func (d *Dense[T]) Vec(ax int, index []int) Vec[T] {
	if len(index) != len(d.shape) {
		panic(fmt.Sprintf("tensor: index rank %d does not match tensor rank %d", len(index), len(d.shape)))
	}
	off := 0
	for k, i := range index {
		if k == ax {
			continue
		}
		off += i * d.stride[k]
	}
	return Vec[T]{data: d.data, off: off, n: d.shape[ax], stride: d.stride[ax]}
}

// Mat returns a 2-D view over axes ax1 (rows) and ax2 (columns). The index
// slice must have the tensor's rank; its entries at ax1 and ax2 are ignored.
func (d *Dense[T]) Mat(ax1, ax2 int, index []int) Mat[T] {
	if len(index) != len(d.shape) {
		panic(fmt.Sprintf("tensor: index rank %d does not match tensor rank %d", len(index), len(d.shape)))
	}
	off := 0
	for k, i := range index {
		if k == ax1 || k == ax2 {
			continue
		}
		off += i * d.stride[k]
	}
	return Mat[T]{
		data: d.data,
		off:  off,
		rows: d.shape[ax1], cols: d.shape[ax2],
		rs: d.stride[ax1], cs: d.stride[ax2],
	}
}
