// Package tensor provides dense row-major tensors of arbitrary rank for
// real- and complex-valued scattering data.
//
// Tensors follow an explicit ownership model: constructors and Copy allocate
// fresh backing storage, while plain struct assignment shares it. Code that
// wants to mutate a tensor without affecting other holders of the same handle
// must call Copy first.
package tensor

import "fmt"

// Scalar is the set of element types scattering data is stored in. Gridded
// data is real, spectral coefficients are complex.
type Scalar interface {
	float64 | complex128
}

// Dense is a dense row-major tensor. The zero value is not usable; use New
// or FromSlice.
type Dense[T Scalar] struct {
	shape  []int
	stride []int
	data   []T
}

// New returns a zero-filled tensor with the given shape. All dimensions must
// be positive.
func New[T Scalar](shape ...int) *Dense[T] {
	n := 1
	for _, d := range shape {
		if d <= 0 {
			panic(fmt.Sprintf("tensor: non-positive dimension %d in shape %v", d, shape))
		}
		n *= d
	}
	return &Dense[T]{
		shape:  append([]int(nil), shape...),
		stride: strides(shape),
		data:   make([]T, n),
	}
}

// FromSlice wraps an existing flat slice as a tensor with the given shape.
// The slice is used directly, not copied, so the caller shares storage with
// the returned tensor.
func FromSlice[T Scalar](data []T, shape ...int) (*Dense[T], error) {
	n := 1
	for _, d := range shape {
		if d <= 0 {
			return nil, fmt.Errorf("tensor: non-positive dimension %d in shape %v", d, shape)
		}
		n *= d
	}
	if len(data) != n {
		return nil, fmt.Errorf("tensor: data length %d does not match shape %v (need %d)", len(data), shape, n)
	}
	return &Dense[T]{
		shape:  append([]int(nil), shape...),
		stride: strides(shape),
		data:   data,
	}, nil
}

func strides(shape []int) []int {
	s := make([]int, len(shape))
	acc := 1
	for i := len(shape) - 1; i >= 0; i-- {
		s[i] = acc
		acc *= shape[i]
	}
	return s
}

// Rank returns the number of axes.
func (d *Dense[T]) Rank() int { return len(d.shape) }

// Dim returns the size of axis i.
func (d *Dense[T]) Dim(i int) int { return d.shape[i] }

// Shape returns a copy of the tensor's shape.
func (d *Dense[T]) Shape() []int { return append([]int(nil), d.shape...) }

// Len returns the total number of elements.
func (d *Dense[T]) Len() int { return len(d.data) }

// Data returns the backing slice. The slice aliases the tensor's storage;
// writes through it are visible to every holder of this tensor handle.
func (d *Dense[T]) Data() []T { return d.data }

func (d *Dense[T]) offset(idx []int) int {
	if len(idx) != len(d.shape) {
		panic(fmt.Sprintf("tensor: index rank %d does not match tensor rank %d", len(idx), len(d.shape)))
	}
	off := 0
	for k, i := range idx {
		if i < 0 || i >= d.shape[k] {
			panic(fmt.Sprintf("tensor: index %d out of range for axis %d (size %d)", i, k, d.shape[k]))
		}
		off += i * d.stride[k]
	}
	return off
}

// At returns the element at the given multi-index.
func (d *Dense[T]) At(idx ...int) T { return d.data[d.offset(idx)] }

// Set stores v at the given multi-index.
func (d *Dense[T]) Set(v T, idx ...int) { d.data[d.offset(idx)] = v }

// Copy returns a deep copy: the result owns fresh backing storage that is
// fully independent of the receiver's.
func (d *Dense[T]) Copy() *Dense[T] {
	data := make([]T, len(d.data))
	copy(data, d.data)
	return &Dense[T]{
		shape:  append([]int(nil), d.shape...),
		stride: append([]int(nil), d.stride...),
		data:   data,
	}
}

// Scale multiplies every element by c in place.
func (d *Dense[T]) Scale(c T) {
	for i := range d.data {
		d.data[i] *= c
	}
}

// AddAssign adds o element-wise in place. The shapes must match.
func (d *Dense[T]) AddAssign(o *Dense[T]) {
	if !shapeEqual(d.shape, o.shape) {
		panic(fmt.Sprintf("tensor: shape mismatch %v + %v", d.shape, o.shape))
	}
	for i, v := range o.data {
		d.data[i] += v
	}
}

func shapeEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Block returns the contiguous backing sub-slice obtained by fixing the
// given leading indices. With k leading indices fixed the slice covers the
// remaining rank-k axes in row-major order. The slice aliases the tensor's
// storage.
func (d *Dense[T]) Block(leading ...int) []T {
	if len(leading) > len(d.shape) {
		panic(fmt.Sprintf("tensor: %d leading indices for rank-%d tensor", len(leading), len(d.shape)))
	}
	off := 0
	for k, i := range leading {
		if i < 0 || i >= d.shape[k] {
			panic(fmt.Sprintf("tensor: index %d out of range for axis %d (size %d)", i, k, d.shape[k]))
		}
		off += i * d.stride[k]
	}
	n := 1
	for k := len(leading); k < len(d.shape); k++ {
		n *= d.shape[k]
	}
	return d.data[off : off+n]
}

// ResizeLastAxis returns a new tensor whose trailing axis has size n. The
// first min(old, n) entries along that axis are copied; entries added when
// growing are zero. The receiver is left untouched.
func (d *Dense[T]) ResizeLastAxis(n int) *Dense[T] {
	last := len(d.shape) - 1
	shape := d.Shape()
	shape[last] = n
	out := New[T](shape...)
	keep := min(d.shape[last], n)
	rows := len(d.data) / d.shape[last]
	for r := 0; r < rows; r++ {
		copy(out.data[r*n:r*n+keep], d.data[r*d.shape[last]:r*d.shape[last]+keep])
	}
	return out
}
