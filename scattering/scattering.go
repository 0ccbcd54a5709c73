// Package scattering represents directionally and frequency/temperature
// resolved single-scattering properties of particles and converts between
// three equivalent representations of their angular dependency:
//
//   - Gridded: a dense rank-7 tensor over (frequency, temperature, incoming
//     azimuth, incoming zenith, scattering azimuth, scattering zenith,
//     element).
//   - Spectral: incoming angles stay gridded, the scattering-angle
//     dependency is expanded into spherical-harmonic coefficients (rank 6,
//     complex).
//   - FullySpectral: both angular dependencies are expanded (rank 5,
//     complex).
//
// The element axis packs physically distinct quantities (phase-matrix
// entries, extinction entries, ...); its semantic meaning is owned by the
// caller.
//
// Grids and transform objects are immutable and shared freely between
// instances. The bulk data tensor is shared until a mutating operation is
// wanted, at which point Copy yields a fully independent instance;
// operations returning new instances always allocate fresh tensors, while
// in-place operations (ScaleAssign, AddAssign, Normalize, SetData) write
// through the shared handle.
package scattering

import (
	"math"
)

const (
	// twoPi is the full azimuthal period of the angular grids.
	twoPi = 2 * math.Pi
	// sqrt4Pi relates the degree-zero spherical-harmonic coefficient of a
	// field to its full-sphere integral.
	sqrt4Pi = 2 * math.SqrtPi
)

// ParticleType classifies a scattering dataset by which of its angular
// dependencies are trivial.
type ParticleType int

const (
	// Random: fully isotropic particle ensemble; only the scattering
	// zenith dependency remains.
	Random ParticleType = iota
	// AzimuthallyRandom: no dependency on the incoming azimuth angle.
	AzimuthallyRandom
	// General: all four angular dependencies present.
	General
)

// String returns the classification name.
func (t ParticleType) String() string {
	switch t {
	case Random:
		return "Random"
	case AzimuthallyRandom:
		return "AzimuthallyRandom"
	default:
		return "General"
	}
}

// DetermineType derives the particle classification from the angular grid
// cardinalities. The function is pure and total over sizes >= 1; the
// scattering-zenith cardinality never influences the result.
func DetermineType(nLonInc, nLatInc, nLonScat, _ int) ParticleType {
	if nLonInc == 1 && nLatInc == 1 && nLonScat == 1 {
		return Random
	}
	if nLonInc == 1 {
		return AzimuthallyRandom
	}
	return General
}

// fieldBase carries the grid cardinalities common to all three data formats
// together with the derived particle classification. The classification is
// recomputed from the grid sizes at construction and never stored
// independently, so it cannot diverge from the grids.
type fieldBase struct {
	nFreqs, nTemps     int
	nLonInc, nLatInc   int
	nLonScat, nLatScat int
	particleType       ParticleType
}

func newFieldBase(nFreqs, nTemps, nLonInc, nLatInc, nLonScat, nLatScat int) fieldBase {
	return fieldBase{
		nFreqs: nFreqs, nTemps: nTemps,
		nLonInc: nLonInc, nLatInc: nLatInc,
		nLonScat: nLonScat, nLatScat: nLatScat,
		particleType: DetermineType(nLonInc, nLatInc, nLonScat, nLatScat),
	}
}

// Type returns the derived particle classification.
func (b *fieldBase) Type() ParticleType { return b.particleType }

// NumFreqs returns the frequency grid size.
func (b *fieldBase) NumFreqs() int { return b.nFreqs }

// NumTemps returns the temperature grid size.
func (b *fieldBase) NumTemps() int { return b.nTemps }

// NumLonInc returns the incoming-azimuth grid size.
func (b *fieldBase) NumLonInc() int { return b.nLonInc }

// NumLatInc returns the incoming-zenith grid size.
func (b *fieldBase) NumLatInc() int { return b.nLatInc }

// NumLonScat returns the scattering-azimuth grid size.
func (b *fieldBase) NumLonScat() int { return b.nLonScat }

// NumLatScat returns the scattering-zenith grid size.
func (b *fieldBase) NumLatScat() int { return b.nLatScat }
