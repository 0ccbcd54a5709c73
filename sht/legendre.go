package sht

import "math"

// plmTable evaluates the spherical-harmonic normalized associated Legendre
// functions
//
//	Pbar_lm(x) = sqrt((2l+1)/(4*pi) * (l-m)!/(l+m)!) * P_lm(x)
//
// for m = 0..mMax, l = m..lMax at every node in xs. The result is indexed
// by the packed m-major coefficient index (see coeffIndex) and the node
// index. The recursion is the standard stable three-term recurrence on the
// normalized functions, seeded at Pbar_00 = 1/sqrt(4*pi); the Condon-
// Shortley phase is carried by the diagonal step.
func plmTable(lMax, mMax int, xs []float64) [][]float64 {
	idx := func(l, m int) int { return m*(lMax+1) - m*(m-1)/2 + (l - m) }
	total := idx(lMax, mMax) + 1
	tab := make([][]float64, total)
	for i := range tab {
		tab[i] = make([]float64, len(xs))
	}

	for j, x := range xs {
		sx := math.Sqrt((1 - x) * (1 + x))
		pmm := 1.0 / math.Sqrt(4*math.Pi)
		for m := 0; m <= mMax; m++ {
			if m > 0 {
				pmm *= -math.Sqrt(float64(2*m+1)/float64(2*m)) * sx
			}
			tab[idx(m, m)][j] = pmm
			if m == lMax {
				continue
			}
			prev2 := pmm
			prev := math.Sqrt(float64(2*m+3)) * x * pmm
			tab[idx(m+1, m)][j] = prev
			for l := m + 2; l <= lMax; l++ {
				a := math.Sqrt(float64(4*l*l-1) / float64(l*l-m*m))
				b := math.Sqrt(float64((l-1)*(l-1)-m*m) / float64(4*(l-1)*(l-1)-1))
				p := a * (x*prev - b*prev2)
				tab[idx(l, m)][j] = p
				prev2, prev = prev, p
			}
		}
	}
	return tab
}
