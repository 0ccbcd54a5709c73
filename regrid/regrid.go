// Package regrid interpolates tensor data along one or more named axes from
// a source grid onto a target grid. Interpolation is 1-D and linear per
// axis; other axes are left untouched.
//
// The out-of-range policy lives here: with extrapolation disabled, target
// points outside the source range clamp to the boundary value; with it
// enabled, the nearest segment is extended linearly.
package regrid

import (
	"fmt"
	"sort"

	"github.com/simonpf/scatlib/tensor"
)

// Axis names one tensor axis together with its source and target grids.
// Grids must be in ascending order.
type Axis struct {
	Axis   int
	Source []float64
	Target []float64
}

// Regridder holds precomputed interpolation weights for a set of axes.
type Regridder struct {
	axes    []axisWeights
	rankMin int
}

type axisWeights struct {
	axis  int
	nodes []node
}

// node interpolates one target point from up to two source points.
type node struct {
	lo, hi int
	w      float64
}

// New builds a Regridder for the given axes. Weights are computed once and
// can be applied to any tensor whose named axes match the source grids.
func New(extrapolate bool, axes ...Axis) (*Regridder, error) {
	r := &Regridder{}
	for _, a := range axes {
		if len(a.Source) == 0 || len(a.Target) == 0 {
			return nil, fmt.Errorf("regrid: axis %d has an empty grid", a.Axis)
		}
		r.axes = append(r.axes, axisWeights{
			axis:  a.Axis,
			nodes: weights(a.Source, a.Target, extrapolate),
		})
		if a.Axis+1 > r.rankMin {
			r.rankMin = a.Axis + 1
		}
	}
	return r, nil
}

func weights(src, dst []float64, extrapolate bool) []node {
	out := make([]node, len(dst))
	n := len(src)
	for i, x := range dst {
		if n == 1 {
			out[i] = node{0, 0, 0}
			continue
		}
		j := sort.SearchFloat64s(src, x)
		switch {
		case j == 0:
			if x == src[0] || !extrapolate {
				out[i] = node{0, 0, 0}
			} else {
				out[i] = node{0, 1, (x - src[0]) / (src[1] - src[0])}
			}
		case j == n:
			if !extrapolate {
				out[i] = node{n - 1, n - 1, 0}
			} else {
				out[i] = node{n - 2, n - 1, (x - src[n-2]) / (src[n-1] - src[n-2])}
			}
		default:
			if x == src[j] {
				out[i] = node{j, j, 0}
			} else {
				out[i] = node{j - 1, j, (x - src[j-1]) / (src[j] - src[j-1])}
			}
		}
	}
	return out
}

// Apply regrids t along every axis configured in r, returning a new tensor.
// The source tensor is never modified.
func Apply[T tensor.Scalar](r *Regridder, t *tensor.Dense[T]) *tensor.Dense[T] {
	if t.Rank() < r.rankMin {
		panic(fmt.Sprintf("regrid: tensor rank %d below configured axis range %d", t.Rank(), r.rankMin))
	}
	cur := t
	for _, aw := range r.axes {
		cur = applyAxis(cur, aw)
	}
	if cur == t {
		cur = t.Copy()
	}
	return cur
}

func applyAxis[T tensor.Scalar](t *tensor.Dense[T], aw axisWeights) *tensor.Dense[T] {
	shape := t.Shape()
	shape[aw.axis] = len(aw.nodes)
	out := tensor.New[T](shape...)

	// Iterate every line along the interpolation axis.
	loopDims := t.Shape()
	loopDims[aw.axis] = 1
	it := tensor.NewMultiIndex(loopDims...)
	for it.Next() {
		src := t.Vec(aw.axis, it.Coords())
		dst := out.Vec(aw.axis, it.Coords())
		for i, nd := range aw.nodes {
			if nd.lo == nd.hi {
				dst.Set(i, src.At(nd.lo))
				continue
			}
			lo, hi := src.At(nd.lo), src.At(nd.hi)
			dst.Set(i, lo+mulReal(hi-lo, nd.w))
		}
	}
	return out
}

// mulReal scales a tensor scalar by a real interpolation weight.
func mulReal[T tensor.Scalar](v T, w float64) T {
	switch x := any(v).(type) {
	case float64:
		return any(x * w).(T)
	case complex128:
		return any(x * complex(w, 0)).(T)
	}
	panic("unreachable")
}
