package scattering

import (
	"fmt"

	"github.com/simonpf/scatlib/regrid"
	"github.com/simonpf/scatlib/sht"
	"github.com/simonpf/scatlib/tensor"
)

// FullySpectral holds scattering data with both angular dependencies
// expanded into spherical-harmonic coefficients. The data tensor has rank 5
// with axes (frequency, temperature, incoming coefficient, scattering
// coefficient, element). The incoming axis follows the complex-field
// coefficient layout of its transform, since the values being expanded
// (scattering coefficients) are themselves complex; the scattering axis
// keeps the real-field layout it had in the Spectral format.
type FullySpectral struct {
	fieldBase
	fGrid, tGrid []float64
	shtInc       *sht.SHT
	shtScat      *sht.SHT
	data         *tensor.Dense[complex128]
}

// NewFullySpectral wraps an existing coefficient tensor. The tensor must
// have rank 5, match the grid lengths on its leading two axes and the two
// transforms' coefficient counts on axes 2 and 3.
func NewFullySpectral(fGrid, tGrid []float64, shtInc, shtScat *sht.SHT, data *tensor.Dense[complex128]) (*FullySpectral, error) {
	if data.Rank() != 5 {
		return nil, fmt.Errorf("fully spectral scattering data must have rank 5, got %d", data.Rank())
	}
	if len(fGrid) == 0 {
		return nil, fmt.Errorf("frequency grid is empty")
	}
	if len(tGrid) == 0 {
		return nil, fmt.Errorf("temperature grid is empty")
	}
	if data.Dim(0) != len(fGrid) {
		return nil, fmt.Errorf("frequency grid has %d points but data axis 0 has extent %d", len(fGrid), data.Dim(0))
	}
	if data.Dim(1) != len(tGrid) {
		return nil, fmt.Errorf("temperature grid has %d points but data axis 1 has extent %d", len(tGrid), data.Dim(1))
	}
	if n := shtInc.NumSpectralCoeffsCmplx(); data.Dim(2) != n {
		return nil, fmt.Errorf("incoming transform expects %d coefficients but data axis 2 has extent %d", n, data.Dim(2))
	}
	if n := shtScat.NumSpectralCoeffs(); data.Dim(3) != n {
		return nil, fmt.Errorf("scattering transform expects %d coefficients but data axis 3 has extent %d", n, data.Dim(3))
	}
	return newFullySpectral(fGrid, tGrid, shtInc, shtScat, data), nil
}

func newFullySpectral(fGrid, tGrid []float64, shtInc, shtScat *sht.SHT, data *tensor.Dense[complex128]) *FullySpectral {
	return &FullySpectral{
		fieldBase: newFieldBase(len(fGrid), len(tGrid),
			shtInc.NumLongitudes(), shtInc.NumLatitudes(),
			shtScat.NumLongitudes(), shtScat.NumLatitudes()),
		fGrid: fGrid, tGrid: tGrid,
		shtInc: shtInc, shtScat: shtScat,
		data: data,
	}
}

// NewFullySpectralZero allocates an all-zero dataset with nElements entries
// on the element axis.
func NewFullySpectralZero(fGrid, tGrid []float64, shtInc, shtScat *sht.SHT, nElements int) (*FullySpectral, error) {
	data := tensor.New[complex128](len(fGrid), len(tGrid),
		shtInc.NumSpectralCoeffsCmplx(), shtScat.NumSpectralCoeffs(), nElements)
	return NewFullySpectral(fGrid, tGrid, shtInc, shtScat, data)
}

// FrequencyGrid returns the shared frequency grid.
func (f *FullySpectral) FrequencyGrid() []float64 { return f.fGrid }

// TemperatureGrid returns the shared temperature grid.
func (f *FullySpectral) TemperatureGrid() []float64 { return f.tGrid }

// SHTInc returns the incoming-angle transform.
func (f *FullySpectral) SHTInc() *sht.SHT { return f.shtInc }

// SHTScat returns the scattering-angle transform.
func (f *FullySpectral) SHTScat() *sht.SHT { return f.shtScat }

// NumElements returns the extent of the element axis.
func (f *FullySpectral) NumElements() int { return f.data.Dim(4) }

// Data returns the shared coefficient tensor.
func (f *FullySpectral) Data() *tensor.Dense[complex128] { return f.data }

// Copy returns an independent instance with a deep copy of the coefficient
// tensor. Grids and transforms stay shared.
func (f *FullySpectral) Copy() *FullySpectral {
	dup := *f
	dup.data = f.data.Copy()
	return &dup
}

// InterpolateFrequency linearly interpolates the coefficients to a new
// frequency grid with clamping at the boundaries.
func (f *FullySpectral) InterpolateFrequency(fGrid []float64) (*FullySpectral, error) {
	r, err := regrid.New(false, regrid.Axis{Axis: 0, Source: f.fGrid, Target: fGrid})
	if err != nil {
		return nil, err
	}
	return newFullySpectral(fGrid, f.tGrid, f.shtInc, f.shtScat, regrid.Apply(r, f.data)), nil
}

// InterpolateTemperature linearly interpolates to a new temperature grid.
// With extrapolate set, out-of-range temperatures are linearly extended
// from the boundary segment; otherwise they are clamped.
func (f *FullySpectral) InterpolateTemperature(tGrid []float64, extrapolate bool) (*FullySpectral, error) {
	r, err := regrid.New(extrapolate, regrid.Axis{Axis: 1, Source: f.tGrid, Target: tGrid})
	if err != nil {
		return nil, err
	}
	return newFullySpectral(f.fGrid, tGrid, f.shtInc, f.shtScat, regrid.Apply(r, f.data)), nil
}

// Regrid interpolates the dataset onto new frequency and temperature grids
// with clamping. The angular dependencies are spectral and unaffected.
func (f *FullySpectral) Regrid(fGrid, tGrid []float64) (*FullySpectral, error) {
	r, err := regrid.New(false,
		regrid.Axis{Axis: 0, Source: f.fGrid, Target: fGrid},
		regrid.Axis{Axis: 1, Source: f.tGrid, Target: tGrid},
	)
	if err != nil {
		return nil, err
	}
	return newFullySpectral(fGrid, tGrid, f.shtInc, f.shtScat, regrid.Apply(r, f.data)), nil
}

// SetData accumulates the first (frequency, temperature) slice of other
// into the (freqIndex, tempIndex) slice of the receiver, re-expressing
// other's coefficients on the receiver's truncations. Element counts must
// agree.
func (f *FullySpectral) SetData(freqIndex, tempIndex int, other *FullySpectral) error {
	if freqIndex < 0 || freqIndex >= f.nFreqs {
		return fmt.Errorf("frequency index %d out of range [0, %d)", freqIndex, f.nFreqs)
	}
	if tempIndex < 0 || tempIndex >= f.nTemps {
		return fmt.Errorf("temperature index %d out of range [0, %d)", tempIndex, f.nTemps)
	}
	if other.NumElements() != f.NumElements() {
		return fmt.Errorf("element count mismatch: %d vs %d", other.NumElements(), f.NumElements())
	}
	for e := 0; e < f.NumElements(); e++ {
		sht.AddCoeffs2(f.shtInc, f.shtScat, f.data.Mat(2, 3, []int{freqIndex, tempIndex, 0, 0, e}),
			other.shtInc, other.shtScat, other.data.Mat(2, 3, []int{0, 0, 0, 0, e}))
	}
	return nil
}

// AddAssign interpolates other onto the receiver's frequency and
// temperature grids, re-expresses its coefficients on the receiver's
// truncations and accumulates them in place. Element counts must agree.
func (f *FullySpectral) AddAssign(other *FullySpectral) error {
	if other.NumElements() != f.NumElements() {
		return fmt.Errorf("element count mismatch: %d vs %d", other.NumElements(), f.NumElements())
	}
	regridded, err := other.Regrid(f.fGrid, f.tGrid)
	if err != nil {
		return err
	}
	it := tensor.NewMultiIndex(f.nFreqs, f.nTemps, f.NumElements())
	for it.Next() {
		c := it.Coords()
		sht.AddCoeffs2(f.shtInc, f.shtScat, f.data.Mat(2, 3, []int{c[0], c[1], 0, 0, c[2]}),
			regridded.shtInc, regridded.shtScat, regridded.data.Mat(2, 3, []int{c[0], c[1], 0, 0, c[2]}))
	}
	return nil
}

// Add returns the sum of the two datasets on the receiver's grids and
// truncations, leaving both operands unmodified.
func (f *FullySpectral) Add(other *FullySpectral) (*FullySpectral, error) {
	sum := f.Copy()
	if err := sum.AddAssign(other); err != nil {
		return nil, err
	}
	return sum, nil
}

// ScaleAssign multiplies the coefficient tensor by c in place.
func (f *FullySpectral) ScaleAssign(c float64) { f.data.Scale(complex(c, 0)) }

// Scale returns a scaled copy.
func (f *FullySpectral) Scale(c float64) *FullySpectral {
	dup := f.Copy()
	dup.ScaleAssign(c)
	return dup
}

// SetNumScatteringCoeffs resizes the element axis in place. Existing
// elements are retained up to the new count; added elements are zero.
func (f *FullySpectral) SetNumScatteringCoeffs(n int) {
	f.data = f.data.ResizeLastAxis(n)
}

// ToSpectral synthesizes the incoming-angle dependency back onto the
// incoming transform's quadrature grid, yielding the Spectral
// representation.
func (f *FullySpectral) ToSpectral() *Spectral {
	nCoeffScat := f.shtScat.NumSpectralCoeffs()
	nElem := f.NumElements()
	data := tensor.New[complex128](f.nFreqs, f.nTemps, f.nLonInc, f.nLatInc, nCoeffScat, nElem)
	it := tensor.NewMultiIndex(f.nFreqs, f.nTemps, nCoeffScat, nElem)
	for it.Next() {
		c := it.Coords()
		coeffs := f.data.Vec(2, []int{c[0], c[1], 0, c[2], c[3]}).Slice()
		dst := data.Mat(2, 3, []int{c[0], c[1], 0, 0, c[2], c[3]})
		f.shtInc.SynthesizeCmplx(coeffs, dst)
	}
	return newSpectral(f.fGrid, f.tGrid,
		f.shtInc.LongitudeGrid(), f.shtInc.LatitudeGrid(), f.shtScat, data)
}

// ToSpectralWith re-expresses the scattering-angle dependency on a new
// truncation before synthesizing the incoming angles back onto their grid.
func (f *FullySpectral) ToSpectralWith(t *sht.SHT) *Spectral {
	data := tensor.New[complex128](f.nFreqs, f.nTemps,
		f.shtInc.NumSpectralCoeffsCmplx(), t.NumSpectralCoeffs(), f.NumElements())
	out := newFullySpectral(f.fGrid, f.tGrid, f.shtInc, t, data)
	// Accumulating into the zero tensor performs the truncation change.
	if err := out.AddAssign(f); err != nil {
		panic(err)
	}
	return out.ToSpectral()
}
