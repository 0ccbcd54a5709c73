package scattering

import (
	"fmt"
	"math"

	"github.com/simonpf/scatlib/quadrature"
	"github.com/simonpf/scatlib/regrid"
	"github.com/simonpf/scatlib/sht"
	"github.com/simonpf/scatlib/tensor"
)

// Gridded holds scattering data sampled on explicit angular grids. The data
// tensor has rank 7 with axes (frequency, temperature, incoming azimuth,
// incoming zenith, scattering azimuth, scattering zenith, element).
//
// Grid slices are shared between instances and must not be mutated by the
// caller. Assigning a Gridded value (as opposed to calling Copy) aliases the
// underlying data tensor.
type Gridded struct {
	fieldBase
	fGrid, tGrid     []float64
	lonInc, latInc   []float64
	lonScat, latScat []float64
	data             *tensor.Dense[float64]
}

// NewGridded wraps an existing data tensor. The tensor must have rank 7 and
// its leading six dimensions must match the grid lengths; the trailing
// element dimension is free.
func NewGridded(fGrid, tGrid, lonInc, latInc, lonScat, latScat []float64, data *tensor.Dense[float64]) (*Gridded, error) {
	if data.Rank() != 7 {
		return nil, fmt.Errorf("gridded scattering data must have rank 7, got %d", data.Rank())
	}
	grids := [][]float64{fGrid, tGrid, lonInc, latInc, lonScat, latScat}
	names := []string{"frequency", "temperature", "incoming azimuth", "incoming zenith", "scattering azimuth", "scattering zenith"}
	for ax, g := range grids {
		if len(g) == 0 {
			return nil, fmt.Errorf("%s grid is empty", names[ax])
		}
		if data.Dim(ax) != len(g) {
			return nil, fmt.Errorf("%s grid has %d points but data axis %d has extent %d",
				names[ax], len(g), ax, data.Dim(ax))
		}
	}
	return &Gridded{
		fieldBase: newFieldBase(len(fGrid), len(tGrid), len(lonInc), len(latInc), len(lonScat), len(latScat)),
		fGrid:     fGrid, tGrid: tGrid,
		lonInc: lonInc, latInc: latInc,
		lonScat: lonScat, latScat: latScat,
		data: data,
	}, nil
}

// NewGriddedZero allocates an all-zero dataset with nElements entries on the
// element axis, intended to be filled slice by slice via SetData.
func NewGriddedZero(fGrid, tGrid, lonInc, latInc, lonScat, latScat []float64, nElements int) (*Gridded, error) {
	data := tensor.New[float64](len(fGrid), len(tGrid), len(lonInc), len(latInc), len(lonScat), len(latScat), nElements)
	return NewGridded(fGrid, tGrid, lonInc, latInc, lonScat, latScat, data)
}

// FrequencyGrid returns the shared frequency grid.
func (g *Gridded) FrequencyGrid() []float64 { return g.fGrid }

// TemperatureGrid returns the shared temperature grid.
func (g *Gridded) TemperatureGrid() []float64 { return g.tGrid }

// LonIncGrid returns the shared incoming-azimuth grid.
func (g *Gridded) LonIncGrid() []float64 { return g.lonInc }

// LatIncGrid returns the shared incoming-zenith grid.
func (g *Gridded) LatIncGrid() []float64 { return g.latInc }

// LonScatGrid returns the shared scattering-azimuth grid.
func (g *Gridded) LonScatGrid() []float64 { return g.lonScat }

// LatScatGrid returns the shared scattering-zenith grid.
func (g *Gridded) LatScatGrid() []float64 { return g.latScat }

// NumElements returns the extent of the element axis.
func (g *Gridded) NumElements() int { return g.data.Dim(6) }

// Data returns the shared data tensor.
func (g *Gridded) Data() *tensor.Dense[float64] { return g.data }

// Copy returns an independent instance with a deep copy of the data tensor.
// Grids stay shared; they are immutable.
func (g *Gridded) Copy() *Gridded {
	dup := *g
	dup.data = g.data.Copy()
	return &dup
}

func (g *Gridded) withData(data *tensor.Dense[float64], newGrids ...func(*Gridded)) *Gridded {
	dup := *g
	dup.data = data
	for _, apply := range newGrids {
		apply(&dup)
	}
	dup.fieldBase = newFieldBase(len(dup.fGrid), len(dup.tGrid),
		len(dup.lonInc), len(dup.latInc), len(dup.lonScat), len(dup.latScat))
	return &dup
}

// InterpolateFrequency linearly interpolates the dataset to a new frequency
// grid. Frequencies outside the source grid are clamped to the boundary.
func (g *Gridded) InterpolateFrequency(fGrid []float64) (*Gridded, error) {
	r, err := regrid.New(false, regrid.Axis{Axis: 0, Source: g.fGrid, Target: fGrid})
	if err != nil {
		return nil, err
	}
	return g.withData(regrid.Apply(r, g.data), func(d *Gridded) { d.fGrid = fGrid }), nil
}

// InterpolateTemperature linearly interpolates to a new temperature grid.
// With extrapolate set, temperatures outside the source grid are linearly
// extended from the boundary segment; otherwise they are clamped.
func (g *Gridded) InterpolateTemperature(tGrid []float64, extrapolate bool) (*Gridded, error) {
	r, err := regrid.New(extrapolate, regrid.Axis{Axis: 1, Source: g.tGrid, Target: tGrid})
	if err != nil {
		return nil, err
	}
	return g.withData(regrid.Apply(r, g.data), func(d *Gridded) { d.tGrid = tGrid }), nil
}

// InterpolateAngles linearly interpolates all four angular axes at once.
// Angles outside the source grids are clamped.
func (g *Gridded) InterpolateAngles(lonInc, latInc, lonScat, latScat []float64) (*Gridded, error) {
	r, err := regrid.New(false,
		regrid.Axis{Axis: 2, Source: g.lonInc, Target: lonInc},
		regrid.Axis{Axis: 3, Source: g.latInc, Target: latInc},
		regrid.Axis{Axis: 4, Source: g.lonScat, Target: lonScat},
		regrid.Axis{Axis: 5, Source: g.latScat, Target: latScat},
	)
	if err != nil {
		return nil, err
	}
	return g.withData(regrid.Apply(r, g.data), func(d *Gridded) {
		d.lonInc, d.latInc, d.lonScat, d.latScat = lonInc, latInc, lonScat, latScat
	}), nil
}

// Regrid interpolates the dataset onto a full replacement set of grids with
// clamping on every axis.
func (g *Gridded) Regrid(fGrid, tGrid, lonInc, latInc, lonScat, latScat []float64) (*Gridded, error) {
	r, err := regrid.New(false,
		regrid.Axis{Axis: 0, Source: g.fGrid, Target: fGrid},
		regrid.Axis{Axis: 1, Source: g.tGrid, Target: tGrid},
		regrid.Axis{Axis: 2, Source: g.lonInc, Target: lonInc},
		regrid.Axis{Axis: 3, Source: g.latInc, Target: latInc},
		regrid.Axis{Axis: 4, Source: g.lonScat, Target: lonScat},
		regrid.Axis{Axis: 5, Source: g.latScat, Target: latScat},
	)
	if err != nil {
		return nil, err
	}
	return g.withData(regrid.Apply(r, g.data), func(d *Gridded) {
		d.fGrid, d.tGrid = fGrid, tGrid
		d.lonInc, d.latInc, d.lonScat, d.latScat = lonInc, latInc, lonScat, latScat
	}), nil
}

// DownsampleScatteringAngles reduces the scattering-angle resolution. The
// azimuth axis is downsampled with integral-conserving cell averaging so
// that the azimuthal integral of the data is preserved exactly; the zenith
// axis is linearly interpolated.
func (g *Gridded) DownsampleScatteringAngles(lonScat, latScat []float64) (*Gridded, error) {
	if len(lonScat) == 0 || len(latScat) == 0 {
		return nil, fmt.Errorf("scattering-angle grids must be non-empty")
	}
	coarse := regrid.DownsampleLongitude(g.data, 4, g.lonScat, lonScat)
	r, err := regrid.New(false, regrid.Axis{Axis: 5, Source: g.latScat, Target: latScat})
	if err != nil {
		return nil, err
	}
	return g.withData(regrid.Apply(r, coarse), func(d *Gridded) {
		d.lonScat, d.latScat = lonScat, latScat
	}), nil
}

// SetData overwrites the (freq, temp) slice of the dataset with the first
// (frequency, temperature) slice of other, after interpolating other's
// angular grids onto the receiver's. Element counts must agree.
func (g *Gridded) SetData(freqIndex, tempIndex int, other *Gridded) error {
	if freqIndex < 0 || freqIndex >= g.nFreqs {
		return fmt.Errorf("frequency index %d out of range [0, %d)", freqIndex, g.nFreqs)
	}
	if tempIndex < 0 || tempIndex >= g.nTemps {
		return fmt.Errorf("temperature index %d out of range [0, %d)", tempIndex, g.nTemps)
	}
	if other.NumElements() != g.NumElements() {
		return fmt.Errorf("element count mismatch: %d vs %d", other.NumElements(), g.NumElements())
	}
	r, err := regrid.New(false,
		regrid.Axis{Axis: 2, Source: other.lonInc, Target: g.lonInc},
		regrid.Axis{Axis: 3, Source: other.latInc, Target: g.latInc},
		regrid.Axis{Axis: 4, Source: other.lonScat, Target: g.lonScat},
		regrid.Axis{Axis: 5, Source: other.latScat, Target: g.latScat},
	)
	if err != nil {
		return err
	}
	src := regrid.Apply(r, other.data)
	copy(g.data.Block(freqIndex, tempIndex), src.Block(0, 0))
	return nil
}

// IntegrateScatteringAngles integrates the data over the scattering sphere
// for every remaining index combination, returning a rank-5 tensor over
// (frequency, temperature, incoming azimuth, incoming zenith, element).
//
// The azimuth uses periodic trapezoidal quadrature over the full circle and
// the zenith trapezoidal quadrature in u = -cos(theta). Degenerate single
// point axes contribute their full measure (2*pi and 2 respectively), so an
// isotropic unit field always integrates to 4*pi.
func (g *Gridded) IntegrateScatteringAngles() *tensor.Dense[float64] {
	wLon := quadrature.PeriodicTrapezoidWeights(g.lonScat, twoPi)
	u := make([]float64, g.nLatScat)
	for j, lat := range g.latScat {
		u[j] = -math.Cos(lat)
	}
	wLat := quadrature.TrapezoidWeights(u)
	if g.nLatScat == 1 {
		wLat[0] = 2
	}

	out := tensor.New[float64](g.nFreqs, g.nTemps, g.nLonInc, g.nLatInc, g.NumElements())
	it := tensor.NewMultiIndex(g.nFreqs, g.nTemps, g.nLonInc, g.nLatInc, g.NumElements())
	for it.Next() {
		c := it.Coords()
		m := g.data.Mat(4, 5, []int{c[0], c[1], c[2], c[3], 0, 0, c[4]})
		var acc float64
		for k := 0; k < g.nLonScat; k++ {
			for j := 0; j < g.nLatScat; j++ {
				acc += wLon[k] * wLat[j] * m.At(k, j)
			}
		}
		out.Set(acc, c...)
	}
	return out
}

// Normalize rescales the data in place so that the scattering-angle
// integral of element 0 equals value for every (frequency, temperature,
// incoming-direction) combination. All elements of a combination are scaled
// by the same factor, preserving their ratios. Combinations whose element-0
// integral is exactly zero are left untouched.
func (g *Gridded) Normalize(value float64) {
	integrals := g.IntegrateScatteringAngles()
	it := tensor.NewMultiIndex(g.nFreqs, g.nTemps, g.nLonInc, g.nLatInc)
	for it.Next() {
		c := it.Coords()
		integral := integrals.At(c[0], c[1], c[2], c[3], 0)
		if integral == 0.0 {
			continue
		}
		scale := value / integral
		block := g.data.Block(c[0], c[1], c[2], c[3])
		for i := range block {
			block[i] *= scale
		}
	}
}

// AddAssign interpolates other onto the receiver's grids and accumulates it
// element-wise in place. The receiver's grids define the result; other is
// not modified. Element counts must agree.
func (g *Gridded) AddAssign(other *Gridded) error {
	if other.NumElements() != g.NumElements() {
		return fmt.Errorf("element count mismatch: %d vs %d", other.NumElements(), g.NumElements())
	}
	regridded, err := other.Regrid(g.fGrid, g.tGrid, g.lonInc, g.latInc, g.lonScat, g.latScat)
	if err != nil {
		return err
	}
	g.data.AddAssign(regridded.data)
	return nil
}

// Add returns the sum of the two datasets on the receiver's grids, leaving
// both operands unmodified.
func (g *Gridded) Add(other *Gridded) (*Gridded, error) {
	sum := g.Copy()
	if err := sum.AddAssign(other); err != nil {
		return nil, err
	}
	return sum, nil
}

// ScaleAssign multiplies the data tensor by c in place.
func (g *Gridded) ScaleAssign(c float64) { g.data.Scale(c) }

// Scale returns a scaled copy, leaving the receiver unmodified.
func (g *Gridded) Scale(c float64) *Gridded {
	dup := g.Copy()
	dup.ScaleAssign(c)
	return dup
}

// SetNumScatteringCoeffs resizes the element axis. Existing elements are
// retained up to the new count; added elements are zero.
func (g *Gridded) SetNumScatteringCoeffs(n int) {
	g.data = g.data.ResizeLastAxis(n)
}

// ToSpectral expands the scattering-angle dependency into spherical-harmonic
// coefficients using the given transform, whose grid sizes must match the
// scattering-angle grids. The data is assumed sampled on the transform's
// quadrature grid.
func (g *Gridded) ToSpectral(t *sht.SHT) (*Spectral, error) {
	if t.NumLongitudes() != g.nLonScat || t.NumLatitudes() != g.nLatScat {
		return nil, fmt.Errorf("transform grid %dx%d does not match scattering grids %dx%d",
			t.NumLongitudes(), t.NumLatitudes(), g.nLonScat, g.nLatScat)
	}
	nCoeffs := t.NumSpectralCoeffs()
	nElem := g.NumElements()
	data := tensor.New[complex128](g.nFreqs, g.nTemps, g.nLonInc, g.nLatInc, nCoeffs, nElem)
	it := tensor.NewMultiIndex(g.nFreqs, g.nTemps, g.nLonInc, g.nLatInc, nElem)
	for it.Next() {
		c := it.Coords()
		m := g.data.Mat(4, 5, []int{c[0], c[1], c[2], c[3], 0, 0, c[4]})
		coeffs := t.Transform(m)
		data.Vec(4, []int{c[0], c[1], c[2], c[3], 0, c[4]}).Assign(coeffs)
	}
	return &Spectral{
		fieldBase: g.fieldBase,
		fGrid:     g.fGrid, tGrid: g.tGrid,
		lonInc: g.lonInc, latInc: g.latInc,
		shtScat: t,
		data:    data,
	}, nil
}

// ToSpectralMax converts to the Spectral format at the highest truncation
// the scattering-angle grids support without aliasing.
func (g *Gridded) ToSpectralMax() (*Spectral, error) {
	lMax, mMax, _, _ := sht.Params(g.nLonScat, g.nLatScat)
	t, err := sht.New(lMax, mMax, g.nLonScat, g.nLatScat)
	if err != nil {
		return nil, err
	}
	return g.ToSpectral(t)
}
