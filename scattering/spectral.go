package scattering

import (
	"fmt"

	"github.com/simonpf/scatlib/regrid"
	"github.com/simonpf/scatlib/sht"
	"github.com/simonpf/scatlib/tensor"
)

// Spectral holds scattering data whose scattering-angle dependency is
// expanded into spherical-harmonic coefficients while the incoming angles
// stay gridded. The data tensor has rank 6 with axes (frequency,
// temperature, incoming azimuth, incoming zenith, harmonic coefficient,
// element); the coefficient axis follows the real-field layout of the
// attached transform.
type Spectral struct {
	fieldBase
	fGrid, tGrid   []float64
	lonInc, latInc []float64
	shtScat        *sht.SHT
	data           *tensor.Dense[complex128]
}

// NewSpectral wraps an existing coefficient tensor. The tensor must have
// rank 6, match the grid lengths on its leading four axes and the
// transform's coefficient count on axis 4.
func NewSpectral(fGrid, tGrid, lonInc, latInc []float64, shtScat *sht.SHT, data *tensor.Dense[complex128]) (*Spectral, error) {
	if data.Rank() != 6 {
		return nil, fmt.Errorf("spectral scattering data must have rank 6, got %d", data.Rank())
	}
	grids := [][]float64{fGrid, tGrid, lonInc, latInc}
	names := []string{"frequency", "temperature", "incoming azimuth", "incoming zenith"}
	for ax, g := range grids {
		if len(g) == 0 {
			return nil, fmt.Errorf("%s grid is empty", names[ax])
		}
		if data.Dim(ax) != len(g) {
			return nil, fmt.Errorf("%s grid has %d points but data axis %d has extent %d",
				names[ax], len(g), ax, data.Dim(ax))
		}
	}
	if n := shtScat.NumSpectralCoeffs(); data.Dim(4) != n {
		return nil, fmt.Errorf("transform expects %d coefficients but data axis 4 has extent %d", n, data.Dim(4))
	}
	return newSpectral(fGrid, tGrid, lonInc, latInc, shtScat, data), nil
}

// newSpectral skips validation; internal callers construct consistent
// shapes by design.
func newSpectral(fGrid, tGrid, lonInc, latInc []float64, shtScat *sht.SHT, data *tensor.Dense[complex128]) *Spectral {
	return &Spectral{
		fieldBase: newFieldBase(len(fGrid), len(tGrid), len(lonInc), len(latInc),
			shtScat.NumLongitudes(), shtScat.NumLatitudes()),
		fGrid: fGrid, tGrid: tGrid,
		lonInc: lonInc, latInc: latInc,
		shtScat: shtScat,
		data:    data,
	}
}

// NewSpectralZero allocates an all-zero dataset with nElements entries on
// the element axis.
func NewSpectralZero(fGrid, tGrid, lonInc, latInc []float64, shtScat *sht.SHT, nElements int) (*Spectral, error) {
	data := tensor.New[complex128](len(fGrid), len(tGrid), len(lonInc), len(latInc),
		shtScat.NumSpectralCoeffs(), nElements)
	return NewSpectral(fGrid, tGrid, lonInc, latInc, shtScat, data)
}

// FrequencyGrid returns the shared frequency grid.
func (s *Spectral) FrequencyGrid() []float64 { return s.fGrid }

// TemperatureGrid returns the shared temperature grid.
func (s *Spectral) TemperatureGrid() []float64 { return s.tGrid }

// LonIncGrid returns the shared incoming-azimuth grid.
func (s *Spectral) LonIncGrid() []float64 { return s.lonInc }

// LatIncGrid returns the shared incoming-zenith grid.
func (s *Spectral) LatIncGrid() []float64 { return s.latInc }

// LonScatGrid returns the scattering-azimuth quadrature grid of the
// attached transform.
func (s *Spectral) LonScatGrid() []float64 { return s.shtScat.LongitudeGrid() }

// LatScatGrid returns the scattering-zenith quadrature grid of the attached
// transform.
func (s *Spectral) LatScatGrid() []float64 { return s.shtScat.LatitudeGrid() }

// SHT returns the scattering-angle transform attached to the dataset.
func (s *Spectral) SHT() *sht.SHT { return s.shtScat }

// NumElements returns the extent of the element axis.
func (s *Spectral) NumElements() int { return s.data.Dim(5) }

// Data returns the shared coefficient tensor.
func (s *Spectral) Data() *tensor.Dense[complex128] { return s.data }

// Copy returns an independent instance with a deep copy of the coefficient
// tensor. Grids and the transform stay shared.
func (s *Spectral) Copy() *Spectral {
	dup := *s
	dup.data = s.data.Copy()
	return &dup
}

// InterpolateFrequency linearly interpolates the coefficients to a new
// frequency grid with clamping at the boundaries.
func (s *Spectral) InterpolateFrequency(fGrid []float64) (*Spectral, error) {
	r, err := regrid.New(false, regrid.Axis{Axis: 0, Source: s.fGrid, Target: fGrid})
	if err != nil {
		return nil, err
	}
	return newSpectral(fGrid, s.tGrid, s.lonInc, s.latInc, s.shtScat, regrid.Apply(r, s.data)), nil
}

// InterpolateTemperature linearly interpolates to a new temperature grid.
// With extrapolate set, out-of-range temperatures are linearly extended from
// the boundary segment; otherwise they are clamped.
func (s *Spectral) InterpolateTemperature(tGrid []float64, extrapolate bool) (*Spectral, error) {
	r, err := regrid.New(extrapolate, regrid.Axis{Axis: 1, Source: s.tGrid, Target: tGrid})
	if err != nil {
		return nil, err
	}
	return newSpectral(s.fGrid, tGrid, s.lonInc, s.latInc, s.shtScat, regrid.Apply(r, s.data)), nil
}

// InterpolateAngles linearly interpolates the incoming-angle axes. The
// scattering-angle dependency is spectral and unaffected.
func (s *Spectral) InterpolateAngles(lonInc, latInc []float64) (*Spectral, error) {
	r, err := regrid.New(false,
		regrid.Axis{Axis: 2, Source: s.lonInc, Target: lonInc},
		regrid.Axis{Axis: 3, Source: s.latInc, Target: latInc},
	)
	if err != nil {
		return nil, err
	}
	return newSpectral(s.fGrid, s.tGrid, lonInc, latInc, s.shtScat, regrid.Apply(r, s.data)), nil
}

// Regrid interpolates the dataset onto a full replacement set of gridded
// axes with clamping everywhere.
func (s *Spectral) Regrid(fGrid, tGrid, lonInc, latInc []float64) (*Spectral, error) {
	r, err := regrid.New(false,
		regrid.Axis{Axis: 0, Source: s.fGrid, Target: fGrid},
		regrid.Axis{Axis: 1, Source: s.tGrid, Target: tGrid},
		regrid.Axis{Axis: 2, Source: s.lonInc, Target: lonInc},
		regrid.Axis{Axis: 3, Source: s.latInc, Target: latInc},
	)
	if err != nil {
		return nil, err
	}
	return newSpectral(fGrid, tGrid, lonInc, latInc, s.shtScat, regrid.Apply(r, s.data)), nil
}

// SetData accumulates the first (frequency, temperature) slice of other
// into the (freqIndex, tempIndex) slice of the receiver. Other's incoming
// angles are interpolated onto the receiver's grids and its coefficients
// re-expressed on the receiver's truncation; coefficients outside the
// receiver's truncation are dropped, missing ones contribute zero. Element
// counts must agree.
func (s *Spectral) SetData(freqIndex, tempIndex int, other *Spectral) error {
	if freqIndex < 0 || freqIndex >= s.nFreqs {
		return fmt.Errorf("frequency index %d out of range [0, %d)", freqIndex, s.nFreqs)
	}
	if tempIndex < 0 || tempIndex >= s.nTemps {
		return fmt.Errorf("temperature index %d out of range [0, %d)", tempIndex, s.nTemps)
	}
	if other.NumElements() != s.NumElements() {
		return fmt.Errorf("element count mismatch: %d vs %d", other.NumElements(), s.NumElements())
	}
	r, err := regrid.New(false,
		regrid.Axis{Axis: 2, Source: other.lonInc, Target: s.lonInc},
		regrid.Axis{Axis: 3, Source: other.latInc, Target: s.latInc},
	)
	if err != nil {
		return err
	}
	src := regrid.Apply(r, other.data)
	it := tensor.NewMultiIndex(s.nLonInc, s.nLatInc, s.NumElements())
	for it.Next() {
		c := it.Coords()
		dst := s.data.Vec(4, []int{freqIndex, tempIndex, c[0], c[1], 0, c[2]})
		coeffs := dst.Slice()
		sht.AddCoeffs(s.shtScat, coeffs, other.shtScat,
			src.Vec(4, []int{0, 0, c[0], c[1], 0, c[2]}).Slice())
		dst.Assign(coeffs)
	}
	return nil
}

// IntegrateScatteringAngles returns the scattering-sphere integral of every
// index combination as a rank-5 tensor over (frequency, temperature,
// incoming azimuth, incoming zenith, element). In the spectral
// representation the integral is read off the degree-zero coefficient.
func (s *Spectral) IntegrateScatteringAngles() *tensor.Dense[float64] {
	out := tensor.New[float64](s.nFreqs, s.nTemps, s.nLonInc, s.nLatInc, s.NumElements())
	it := tensor.NewMultiIndex(s.nFreqs, s.nTemps, s.nLonInc, s.nLatInc, s.NumElements())
	for it.Next() {
		c := it.Coords()
		c00 := s.data.At(c[0], c[1], c[2], c[3], 0, c[4])
		out.Set(sqrt4Pi*real(c00), c...)
	}
	return out
}

// Normalize rescales the coefficients in place so that the
// scattering-sphere integral of element 0 equals value for every
// (frequency, temperature, incoming-direction) combination. Combinations
// whose element-0 integral is exactly zero are left untouched.
func (s *Spectral) Normalize(value float64) {
	integrals := s.IntegrateScatteringAngles()
	it := tensor.NewMultiIndex(s.nFreqs, s.nTemps, s.nLonInc, s.nLatInc)
	for it.Next() {
		c := it.Coords()
		integral := integrals.At(c[0], c[1], c[2], c[3], 0)
		if integral == 0.0 {
			continue
		}
		scale := complex(value/integral, 0)
		block := s.data.Block(c[0], c[1], c[2], c[3])
		for i := range block {
			block[i] *= scale
		}
	}
}

// AddAssign interpolates other onto the receiver's grids, re-expresses its
// coefficients on the receiver's truncation and accumulates them in place.
// The receiver's grids and truncation define the result. Element counts
// must agree.
func (s *Spectral) AddAssign(other *Spectral) error {
	if other.NumElements() != s.NumElements() {
		return fmt.Errorf("element count mismatch: %d vs %d", other.NumElements(), s.NumElements())
	}
	regridded, err := other.Regrid(s.fGrid, s.tGrid, s.lonInc, s.latInc)
	if err != nil {
		return err
	}
	it := tensor.NewMultiIndex(s.nFreqs, s.nTemps, s.nLonInc, s.nLatInc, s.NumElements())
	for it.Next() {
		c := it.Coords()
		dst := s.data.Vec(4, []int{c[0], c[1], c[2], c[3], 0, c[4]})
		coeffs := dst.Slice()
		sht.AddCoeffs(s.shtScat, coeffs, regridded.shtScat,
			regridded.data.Vec(4, []int{c[0], c[1], c[2], c[3], 0, c[4]}).Slice())
		dst.Assign(coeffs)
	}
	return nil
}

// Add returns the sum of the two datasets on the receiver's grids and
// truncation, leaving both operands unmodified.
func (s *Spectral) Add(other *Spectral) (*Spectral, error) {
	sum := s.Copy()
	if err := sum.AddAssign(other); err != nil {
		return nil, err
	}
	return sum, nil
}

// ScaleAssign multiplies the coefficient tensor by c in place.
func (s *Spectral) ScaleAssign(c float64) { s.data.Scale(complex(c, 0)) }

// Scale returns a scaled copy.
func (s *Spectral) Scale(c float64) *Spectral {
	dup := s.Copy()
	dup.ScaleAssign(c)
	return dup
}

// SetNumScatteringCoeffs resizes the element axis in place. Existing
// elements are retained up to the new count; added elements are zero.
func (s *Spectral) SetNumScatteringCoeffs(n int) {
	s.data = s.data.ResizeLastAxis(n)
}

// ToSpectral re-expresses the dataset on a different scattering-angle
// truncation. Coefficients the new truncation cannot hold are dropped;
// coefficients it adds are zero.
func (s *Spectral) ToSpectral(t *sht.SHT) *Spectral {
	data := tensor.New[complex128](s.nFreqs, s.nTemps, s.nLonInc, s.nLatInc,
		t.NumSpectralCoeffs(), s.NumElements())
	out := newSpectral(s.fGrid, s.tGrid, s.lonInc, s.latInc, t, data)
	// Accumulating into the zero tensor performs the truncation change.
	if err := out.AddAssign(s); err != nil {
		panic(err)
	}
	return out
}

// ToGridded synthesizes the coefficients back onto the transform's angular
// quadrature grid, yielding the Gridded representation.
func (s *Spectral) ToGridded() *Gridded {
	nElem := s.NumElements()
	data := tensor.New[float64](s.nFreqs, s.nTemps, s.nLonInc, s.nLatInc,
		s.nLonScat, s.nLatScat, nElem)
	it := tensor.NewMultiIndex(s.nFreqs, s.nTemps, s.nLonInc, s.nLatInc, nElem)
	for it.Next() {
		c := it.Coords()
		coeffs := s.data.Vec(4, []int{c[0], c[1], c[2], c[3], 0, c[4]}).Slice()
		dst := data.Mat(4, 5, []int{c[0], c[1], c[2], c[3], 0, 0, c[4]})
		s.shtScat.Synthesize(coeffs, dst)
	}
	return &Gridded{
		fieldBase: s.fieldBase,
		fGrid:     s.fGrid, tGrid: s.tGrid,
		lonInc: s.lonInc, latInc: s.latInc,
		lonScat: s.shtScat.LongitudeGrid(),
		latScat: s.shtScat.LatitudeGrid(),
		data:    data,
	}
}

// ToFullySpectral expands the incoming-angle dependency with the given
// transform, whose grid sizes must match the incoming-angle grids. The
// incoming angles are assumed sampled on the transform's quadrature grid.
func (s *Spectral) ToFullySpectral(t *sht.SHT) (*FullySpectral, error) {
	if t.NumLongitudes() != s.nLonInc || t.NumLatitudes() != s.nLatInc {
		return nil, fmt.Errorf("transform grid %dx%d does not match incoming grids %dx%d",
			t.NumLongitudes(), t.NumLatitudes(), s.nLonInc, s.nLatInc)
	}
	nCoeffScat := s.shtScat.NumSpectralCoeffs()
	nElem := s.NumElements()
	data := tensor.New[complex128](s.nFreqs, s.nTemps, t.NumSpectralCoeffsCmplx(), nCoeffScat, nElem)
	it := tensor.NewMultiIndex(s.nFreqs, s.nTemps, nCoeffScat, nElem)
	for it.Next() {
		c := it.Coords()
		field := s.data.Mat(2, 3, []int{c[0], c[1], 0, 0, c[2], c[3]})
		coeffs := t.TransformCmplx(field)
		data.Vec(2, []int{c[0], c[1], 0, c[2], c[3]}).Assign(coeffs)
	}
	return &FullySpectral{
		fieldBase: s.fieldBase,
		fGrid:     s.fGrid, tGrid: s.tGrid,
		shtInc:  t,
		shtScat: s.shtScat,
		data:    data,
	}, nil
}

// ToFullySpectralMax converts to the fully spectral format at the highest
// incoming-angle truncation the grids support without aliasing.
func (s *Spectral) ToFullySpectralMax() (*FullySpectral, error) {
	lMax, mMax, _, _ := sht.Params(s.nLonInc, s.nLatInc)
	t, err := sht.New(lMax, mMax, s.nLonInc, s.nLatInc)
	if err != nil {
		return nil, err
	}
	return s.ToFullySpectral(t)
}
