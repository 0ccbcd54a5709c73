// Package quadrature provides node/weight rules for the angular integrals
// used by scattering data fields.
package quadrature

import (
	"gonum.org/v1/gonum/integrate/quad"
)

// Rule holds quadrature nodes and the matching weights.
type Rule struct {
	Nodes   []float64
	Weights []float64
}

// GaussLegendre returns the n-point Gauss-Legendre rule on [-1, 1] with
// nodes in ascending order. The rule integrates polynomials up to degree
// 2n-1 exactly.
func GaussLegendre(n int) Rule {
	if n == 1 {
		return Rule{Nodes: []float64{0}, Weights: []float64{2}}
	}
	r := Rule{
		Nodes:   make([]float64, n),
		Weights: make([]float64, n),
	}
	quad.Legendre{}.FixedLocations(r.Nodes, r.Weights, -1, 1)
	// gonum fills the locations in descending order.
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		r.Nodes[i], r.Nodes[j] = r.Nodes[j], r.Nodes[i]
		r.Weights[i], r.Weights[j] = r.Weights[j], r.Weights[i]
	}
	return r
}

// TrapezoidWeights returns trapezoidal-rule weights for an arbitrary
// ascending grid: integrating f over [xs[0], xs[n-1]] is sum(w_i * f_i).
// A single-point grid gets weight zero; the caller owns any convention for
// the degenerate case.
func TrapezoidWeights(xs []float64) []float64 {
	n := len(xs)
	w := make([]float64, n)
	if n < 2 {
		return w
	}
	w[0] = 0.5 * (xs[1] - xs[0])
	w[n-1] = 0.5 * (xs[n-1] - xs[n-2])
	for i := 1; i < n-1; i++ {
		w[i] = 0.5 * (xs[i+1] - xs[i-1])
	}
	return w
}

// PeriodicTrapezoidWeights returns trapezoidal weights for an ascending grid
// on a periodic domain [xs[0], xs[0]+period). The wrap-around segment closes
// the circle, so the weights always sum to period. A single-point grid gets
// the full period.
func PeriodicTrapezoidWeights(xs []float64, period float64) []float64 {
	n := len(xs)
	w := make([]float64, n)
	if n == 1 {
		w[0] = period
		return w
	}
	for i := range xs {
		next := i + 1
		prev := i - 1
		var right, left float64
		if next == n {
			right = xs[0] + period
		} else {
			right = xs[next]
		}
		if prev < 0 {
			left = xs[n-1] - period
		} else {
			left = xs[prev]
		}
		w[i] = 0.5 * (right - left)
	}
	return w
}
