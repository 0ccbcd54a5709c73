// Package sht implements the spherical-harmonic transform used to move
// scattering data between an angular grid and a spectral coefficient
// vector.
//
// A transform object is built for a fixed truncation (lMax, mMax) and a
// fixed angular grid: nLon equidistant longitudes on [0, 2*pi) and nLat
// Gauss-Legendre latitudes on (0, pi). Longitudes are handled with an FFT,
// latitudes with a Gauss-Legendre-weighted projection onto normalized
// associated Legendre functions.
//
// Conventions: spherical harmonics are orthonormal over the sphere, so the
// full-sphere integral of a synthesized field equals sqrt(4*pi) times its
// degree-zero coefficient. The real-argument transform stores orders
// m = 0..mMax (negative orders are implied by conjugate symmetry); the
// complex-argument transform stores all orders m = -mMax..mMax.
package sht

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/simonpf/scatlib/quadrature"
	"github.com/simonpf/scatlib/tensor"
)

const twoPi = 2 * math.Pi

// SHT performs spherical-harmonic analysis and synthesis for one fixed
// truncation and grid. Grids and precomputed tables are immutable after
// construction, so a single instance can be shared by any number of
// scattering data fields.
type SHT struct {
	lMax, mMax int
	nLon, nLat int

	lonGrid []float64
	latGrid []float64
	// cosLat and glWeights follow latGrid's ordering.
	cosLat    []float64
	glWeights []float64

	// plm[coeffIndex(l, m)][j] = Pbar_lm(cosLat[j]) for m >= 0.
	plm [][]float64

	fft  *fourier.FFT
	cfft *fourier.CmplxFFT
}

// Params returns the maximal truncation that is safe against aliasing on an
// nLon x nLat angular grid, together with the grid sizes: lMax = nLat-1
// (Gauss-Legendre quadrature with nLat nodes is exact through degree
// 2*nLat-1, covering products of two such functions) and mMax bounded by
// the longitude Nyquist condition 2*mMax < nLon.
func Params(nLon, nLat int) (lMax, mMax, nLonOut, nLatOut int) {
	lMax = nLat - 1
	if lMax < 0 {
		lMax = 0
	}
	mMax = (nLon - 1) / 2
	if mMax > lMax {
		mMax = lMax
	}
	return lMax, mMax, nLon, nLat
}

// New builds a transform for truncation (lMax, mMax) on an nLon x nLat
// grid. The truncation must satisfy mMax <= lMax, nLat > lMax and
// nLon > 2*mMax; anything else cannot be represented without aliasing and
// is rejected.
func New(lMax, mMax, nLon, nLat int) (*SHT, error) {
	switch {
	case lMax < 0 || mMax < 0:
		return nil, fmt.Errorf("sht: negative truncation (l_max %d, m_max %d)", lMax, mMax)
	case mMax > lMax:
		return nil, fmt.Errorf("sht: m_max %d exceeds l_max %d", mMax, lMax)
	case nLat < lMax+1:
		return nil, fmt.Errorf("sht: %d latitudes cannot resolve l_max %d", nLat, lMax)
	case nLon < 2*mMax+1:
		return nil, fmt.Errorf("sht: %d longitudes cannot resolve m_max %d", nLon, mMax)
	}

	s := &SHT{lMax: lMax, mMax: mMax, nLon: nLon, nLat: nLat}

	s.lonGrid = make([]float64, nLon)
	for k := range s.lonGrid {
		s.lonGrid[k] = twoPi * float64(k) / float64(nLon)
	}

	rule := quadrature.GaussLegendre(nLat)
	s.latGrid = make([]float64, nLat)
	s.cosLat = make([]float64, nLat)
	s.glWeights = make([]float64, nLat)
	for j := 0; j < nLat; j++ {
		// Ascending latitudes; acos reverses the ascending node order.
		x := rule.Nodes[nLat-1-j]
		s.latGrid[j] = math.Acos(x)
		s.cosLat[j] = x
		s.glWeights[j] = rule.Weights[nLat-1-j]
	}

	s.plm = plmTable(lMax, mMax, s.cosLat)

	if nLon > 1 {
		s.fft = fourier.NewFFT(nLon)
		s.cfft = fourier.NewCmplxFFT(nLon)
	}
	return s, nil
}

// LMax returns the maximum retained degree.
func (s *SHT) LMax() int { return s.lMax }

// MMax returns the maximum retained order.
func (s *SHT) MMax() int { return s.mMax }

// NumLongitudes returns the longitude grid size.
func (s *SHT) NumLongitudes() int { return s.nLon }

// NumLatitudes returns the latitude grid size.
func (s *SHT) NumLatitudes() int { return s.nLat }

// LongitudeGrid returns the equidistant longitude grid on [0, 2*pi). The
// slice is shared and must not be modified.
func (s *SHT) LongitudeGrid() []float64 { return s.lonGrid }

// LatitudeGrid returns the ascending Gauss-Legendre latitude grid on
// (0, pi). The slice is shared and must not be modified.
func (s *SHT) LatitudeGrid() []float64 { return s.latGrid }

// NumSpectralCoeffs returns the coefficient count of the real-argument
// transform.
func (s *SHT) NumSpectralCoeffs() int {
	return (s.mMax+1)*(s.lMax+1) - s.mMax*(s.mMax+1)/2
}

// NumSpectralCoeffsCmplx returns the coefficient count of the
// complex-argument transform, which retains negative orders.
func (s *SHT) NumSpectralCoeffsCmplx() int {
	return (2*s.mMax+1)*(s.lMax+1) - s.mMax*(s.mMax+1)
}

// coeffIndex packs (l, m) with m >= 0 into the m-major real-argument
// layout: blocks of decreasing length lMax+1-m.
func (s *SHT) coeffIndex(l, m int) int {
	return m*(s.lMax+1) - m*(m-1)/2 + (l - m)
}

// coeffIndexCmplx packs (l, m) with m in [-mMax, mMax] into the m-major
// complex-argument layout, orders ascending from -mMax.
func (s *SHT) coeffIndexCmplx(l, m int) int {
	off := 0
	for mp := -s.mMax; mp < m; mp++ {
		off += s.lMax + 1 - abs(mp)
	}
	return off + (l - abs(m))
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}

// plmAt returns Pbar_lm(cosLat[j]) for any order in [-mMax, mMax], using
// Pbar_{l,-m} = (-1)^m Pbar_{l,m}.
func (s *SHT) plmAt(l, m, j int) float64 {
	p := s.plm[s.coeffIndex(l, abs(m))][j]
	if m < 0 && abs(m)%2 == 1 {
		return -p
	}
	return p
}

// Transform maps a real field sampled on the transform's grid (rows are
// longitudes, columns latitudes) to its spectral coefficients.
func (s *SHT) Transform(field tensor.Mat[float64]) []complex128 {
	s.checkGrid(field.Rows(), field.Cols())

	// Longitude integrals I_m(j) = integral f(phi, theta_j) e^{-im phi} dphi.
	im := make([][]complex128, s.mMax+1)
	for m := range im {
		im[m] = make([]complex128, s.nLat)
	}
	if s.nLon == 1 {
		for j := 0; j < s.nLat; j++ {
			im[0][j] = complex(twoPi*field.At(0, j), 0)
		}
	} else {
		row := make([]float64, s.nLon)
		spec := make([]complex128, s.nLon/2+1)
		scale := complex(twoPi/float64(s.nLon), 0)
		for j := 0; j < s.nLat; j++ {
			for k := 0; k < s.nLon; k++ {
				row[k] = field.At(k, j)
			}
			s.fft.Coefficients(spec, row)
			for m := 0; m <= s.mMax; m++ {
				im[m][j] = scale * spec[m]
			}
		}
	}

	// Latitude projection with Gauss-Legendre weights.
	out := make([]complex128, s.NumSpectralCoeffs())
	for m := 0; m <= s.mMax; m++ {
		for l := m; l <= s.lMax; l++ {
			p := s.plm[s.coeffIndex(l, m)]
			var acc complex128
			for j := 0; j < s.nLat; j++ {
				acc += complex(s.glWeights[j]*p[j], 0) * im[m][j]
			}
			out[s.coeffIndex(l, m)] = acc
		}
	}
	return out
}

// Synthesize evaluates the spectral coefficients on the transform's grid,
// writing the real field into dst (rows are longitudes, columns latitudes).
// For band-limited input it is the exact inverse of Transform.
func (s *SHT) Synthesize(coeffs []complex128, dst tensor.Mat[float64]) {
	s.checkGrid(dst.Rows(), dst.Cols())
	s.checkCoeffs(len(coeffs), s.NumSpectralCoeffs())

	if s.nLon == 1 {
		for j := 0; j < s.nLat; j++ {
			var g complex128
			for l := 0; l <= s.lMax; l++ {
				g += coeffs[s.coeffIndex(l, 0)] * complex(s.plm[s.coeffIndex(l, 0)][j], 0)
			}
			dst.Set(0, j, real(g))
		}
		return
	}

	spec := make([]complex128, s.nLon/2+1)
	row := make([]float64, s.nLon)
	for j := 0; j < s.nLat; j++ {
		for i := range spec {
			spec[i] = 0
		}
		for m := 0; m <= s.mMax; m++ {
			var g complex128
			for l := m; l <= s.lMax; l++ {
				g += coeffs[s.coeffIndex(l, m)] * complex(s.plm[s.coeffIndex(l, m)][j], 0)
			}
			spec[m] = g
		}
		s.fft.Sequence(row, spec)
		for k := 0; k < s.nLon; k++ {
			dst.Set(k, j, row[k])
		}
	}
}

// TransformCmplx maps a complex field sampled on the transform's grid to
// its spectral coefficients, retaining negative orders.
func (s *SHT) TransformCmplx(field tensor.Mat[complex128]) []complex128 {
	s.checkGrid(field.Rows(), field.Cols())

	im := make([][]complex128, 2*s.mMax+1) // index m + mMax
	for m := range im {
		im[m] = make([]complex128, s.nLat)
	}
	if s.nLon == 1 {
		for j := 0; j < s.nLat; j++ {
			im[s.mMax][j] = complex(twoPi, 0) * field.At(0, j)
		}
	} else {
		row := make([]complex128, s.nLon)
		spec := make([]complex128, s.nLon)
		scale := complex(twoPi/float64(s.nLon), 0)
		for j := 0; j < s.nLat; j++ {
			for k := 0; k < s.nLon; k++ {
				row[k] = field.At(k, j)
			}
			s.cfft.Coefficients(spec, row)
			for m := -s.mMax; m <= s.mMax; m++ {
				idx := m
				if idx < 0 {
					idx += s.nLon
				}
				im[m+s.mMax][j] = scale * spec[idx]
			}
		}
	}

	out := make([]complex128, s.NumSpectralCoeffsCmplx())
	for m := -s.mMax; m <= s.mMax; m++ {
		for l := abs(m); l <= s.lMax; l++ {
			var acc complex128
			for j := 0; j < s.nLat; j++ {
				acc += complex(s.glWeights[j]*s.plmAt(l, m, j), 0) * im[m+s.mMax][j]
			}
			out[s.coeffIndexCmplx(l, m)] = acc
		}
	}
	return out
}

// SynthesizeCmplx evaluates complex-argument spectral coefficients on the
// transform's grid, writing the complex field into dst.
func (s *SHT) SynthesizeCmplx(coeffs []complex128, dst tensor.Mat[complex128]) {
	s.checkGrid(dst.Rows(), dst.Cols())
	s.checkCoeffs(len(coeffs), s.NumSpectralCoeffsCmplx())

	if s.nLon == 1 {
		for j := 0; j < s.nLat; j++ {
			var g complex128
			for l := 0; l <= s.lMax; l++ {
				g += coeffs[s.coeffIndexCmplx(l, 0)] * complex(s.plmAt(l, 0, j), 0)
			}
			dst.Set(0, j, g)
		}
		return
	}

	spec := make([]complex128, s.nLon)
	row := make([]complex128, s.nLon)
	for j := 0; j < s.nLat; j++ {
		for i := range spec {
			spec[i] = 0
		}
		for m := -s.mMax; m <= s.mMax; m++ {
			var g complex128
			for l := abs(m); l <= s.lMax; l++ {
				g += coeffs[s.coeffIndexCmplx(l, m)] * complex(s.plmAt(l, m, j), 0)
			}
			idx := m
			if idx < 0 {
				idx += s.nLon
			}
			spec[idx] = g
		}
		s.cfft.Sequence(row, spec)
		for k := 0; k < s.nLon; k++ {
			dst.Set(k, j, row[k])
		}
	}
}

func (s *SHT) checkGrid(rows, cols int) {
	if rows != s.nLon || cols != s.nLat {
		panic(fmt.Sprintf("sht: field is %dx%d, transform grid is %dx%d", rows, cols, s.nLon, s.nLat))
	}
}

func (s *SHT) checkCoeffs(got, want int) {
	if got != want {
		panic(fmt.Sprintf("sht: coefficient vector has length %d, want %d", got, want))
	}
}
