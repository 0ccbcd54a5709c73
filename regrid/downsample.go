package regrid

import (
	"fmt"
	"math"

	"github.com/simonpf/scatlib/tensor"
)

// DownsampleLongitude reduces the resolution of a periodic angular axis
// while conserving the integral of the data over the full period.
//
// The source data is treated as a piecewise-linear periodic function on
// [0, 2*pi). Each target node receives the mean of that function over its
// cell, with cell boundaries at the midpoints between neighbouring target
// nodes. The trapezoidal weight of a node on a periodic grid equals its cell
// width, so the integral over the target grid reproduces the source integral
// exactly. Plain interpolation offers no such guarantee, which is what
// separates downsampling from regridding.
func DownsampleLongitude(t *tensor.Dense[float64], axis int, src, dst []float64) *tensor.Dense[float64] {
	const period = 2 * math.Pi
	if axis < 0 || axis >= t.Rank() {
		panic(fmt.Sprintf("regrid: downsample axis %d out of range for rank %d", axis, t.Rank()))
	}
	if t.Dim(axis) != len(src) {
		panic(fmt.Sprintf("regrid: source grid size %d does not match axis size %d", len(src), t.Dim(axis)))
	}

	stencils := cellMeanStencils(src, dst, period)

	shape := t.Shape()
	shape[axis] = len(dst)
	out := tensor.New[float64](shape...)

	loopDims := t.Shape()
	loopDims[axis] = 1
	it := tensor.NewMultiIndex(loopDims...)
	for it.Next() {
		in := t.Vec(axis, it.Coords())
		res := out.Vec(axis, it.Coords())
		for i, st := range stencils {
			acc := 0.0
			for k, c := range st {
				acc += c * in.At(k)
			}
			res.Set(i, acc)
		}
	}
	return out
}

// cellMeanStencils returns, per target node, linear coefficients over the
// source nodes such that the stencil applied to source values yields the
// cell mean of the piecewise-linear periodic source function.
func cellMeanStencils(src, dst []float64, period float64) [][]float64 {
	n := len(src)
	m := len(dst)
	stencils := make([][]float64, m)

	for i := range dst {
		var lo, hi float64
		switch {
		case m == 1:
			lo, hi = dst[0], dst[0]+period
		case i == 0:
			lo = 0.5 * (dst[m-1] - period + dst[0])
			hi = 0.5 * (dst[0] + dst[1])
		case i == m-1:
			lo = 0.5 * (dst[m-2] + dst[m-1])
			hi = 0.5 * (dst[m-1] + dst[0] + period)
		default:
			lo = 0.5 * (dst[i-1] + dst[i])
			hi = 0.5 * (dst[i] + dst[i+1])
		}

		coeffs := make([]float64, n)
		if n == 1 {
			// Constant source function: the cell mean is the value itself.
			coeffs[0] = 1
			stencils[i] = coeffs
			continue
		}
		accumulateCellIntegral(coeffs, src, period, lo, hi)
		width := hi - lo
		for k := range coeffs {
			coeffs[k] /= width
		}
		stencils[i] = coeffs
	}
	return stencils
}

// accumulateCellIntegral adds to coeffs the nodal coefficients of the
// integral of the piecewise-linear periodic source function over [a, b].
func accumulateCellIntegral(coeffs []float64, src []float64, period, a, b float64) {
	base := src[0]
	// Normalize the interval into one period starting at the first node.
	for a < base {
		a += period
		b += period
	}
	for a >= base+period {
		a -= period
		b -= period
	}
	if b > base+period {
		accumulateSpan(coeffs, src, period, a, base+period)
		accumulateSpan(coeffs, src, period, base, b-period)
		return
	}
	accumulateSpan(coeffs, src, period, a, b)
}

// accumulateSpan handles a span that lies within a single period starting
// at src[0]. The closing segment from src[n-1] back to src[0]+period wraps
// to node 0.
func accumulateSpan(coeffs []float64, src []float64, period, a, b float64) {
	n := len(src)
	for j := 0; j < n; j++ {
		x0 := src[j]
		var x1 float64
		next := j + 1
		if next == n {
			x1 = src[0] + period
			next = 0
		} else {
			x1 = src[next]
		}
		u := math.Max(a, x0)
		v := math.Min(b, x1)
		if v <= u {
			continue
		}
		h := x1 - x0
		mid := 0.5 * (u + v)
		frac := (mid - x0) / h
		coeffs[j] += (v - u) * (1 - frac)
		coeffs[next] += (v - u) * frac
	}
}
