package sht

import (
	"math"
	"testing"

	"github.com/simonpf/scatlib/quadrature"
)

func TestPlmDegreeZero(t *testing.T) {
	table := plmTable(0, 0, []float64{-0.7, 0, 0.3})
	want := 1 / (2 * math.SqrtPi) // 1/sqrt(4*pi)
	for j, p := range table[0] {
		if math.Abs(p-want) > 1e-15 {
			t.Errorf("Pbar00 at node %d mismatch: expected %g, got %g", j, want, p)
		}
	}
}

// The normalized functions satisfy
// integral Pbar_lm Pbar_l'm du = delta_ll' / (2*pi), which Gauss-Legendre
// quadrature reproduces exactly for the degrees involved.
func TestPlmOrthonormality(t *testing.T) {
	const lMax, mMax, n = 5, 3, 8
	rule := quadrature.GaussLegendre(n)
	s := &SHT{lMax: lMax, mMax: mMax}
	table := plmTable(lMax, mMax, rule.Nodes)

	for m := 0; m <= mMax; m++ {
		for l := m; l <= lMax; l++ {
			for lp := m; lp <= lMax; lp++ {
				var acc float64
				for j := 0; j < n; j++ {
					acc += rule.Weights[j] * table[s.coeffIndex(l, m)][j] * table[s.coeffIndex(lp, m)][j]
				}
				want := 0.0
				if l == lp {
					want = 1 / (2 * math.Pi)
				}
				if math.Abs(acc-want) > 1e-12 {
					t.Errorf("Orthonormality (l=%d, l'=%d, m=%d): expected %g, got %g", l, lp, m, want, acc)
				}
			}
		}
	}
}

func TestPlmNegativeOrderSymmetry(t *testing.T) {
	s := &SHT{lMax: 3, mMax: 2}
	s.plm = plmTable(3, 2, []float64{0.4})

	for m := 1; m <= 2; m++ {
		for l := m; l <= 3; l++ {
			pos := s.plmAt(l, m, 0)
			neg := s.plmAt(l, -m, 0)
			want := pos
			if m%2 == 1 {
				want = -pos
			}
			if math.Abs(neg-want) > 1e-15 {
				t.Errorf("Pbar(%d, %d) mismatch: expected %g, got %g", l, -m, want, neg)
			}
		}
	}
}
