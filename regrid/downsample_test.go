package regrid

import (
	"math"
	"math/rand"
	"testing"

	"github.com/simonpf/scatlib/quadrature"
	"github.com/simonpf/scatlib/tensor"
)

func uniformCircle(n int) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = 2 * math.Pi * float64(i) / float64(n)
	}
	return xs
}

func periodicIntegral(grid, vals []float64) float64 {
	w := quadrature.PeriodicTrapezoidWeights(grid, 2*math.Pi)
	var sum float64
	for i, v := range vals {
		sum += w[i] * v
	}
	return sum
}

func TestDownsampleLongitudeConstantField(t *testing.T) {
	t.Parallel()
	src := uniformCircle(16)
	dst := uniformCircle(4)

	d := tensor.New[float64](16)
	for i := range src {
		d.Set(3.25, i)
	}

	out := DownsampleLongitude(d, 0, src, dst)
	for i := 0; i < 4; i++ {
		if math.Abs(out.At(i)-3.25) > 1e-14 {
			t.Errorf("Constant field not preserved at %d: got %f", i, out.At(i))
		}
	}
}

// Downsampling must reproduce the periodic trapezoidal integral of the
// source data on the coarse grid, which is what distinguishes it from
// plain interpolation.
func TestDownsampleLongitudeConservesIntegral(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(42))

	testCases := []struct {
		name string
		nSrc int
		nDst int
	}{
		{"16_to_4", 16, 4},
		{"32_to_8", 32, 8},
		{"17_to_5", 17, 5},
		{"8_to_1", 8, 1},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			src := uniformCircle(tc.nSrc)
			dst := uniformCircle(tc.nDst)

			d := tensor.New[float64](tc.nSrc)
			for i := 0; i < tc.nSrc; i++ {
				d.Set(rng.Float64()+0.5, i)
			}

			out := DownsampleLongitude(d, 0, src, dst)

			want := periodicIntegral(src, d.Data())
			got := periodicIntegral(dst, out.Data())
			if math.Abs(got-want) > 1e-12*math.Abs(want) {
				t.Errorf("Integral not conserved: source %g, downsampled %g", want, got)
			}
		})
	}
}

func TestDownsampleLongitudeSinglePointSource(t *testing.T) {
	t.Parallel()
	d := tensor.New[float64](1)
	d.Set(2.5, 0)

	out := DownsampleLongitude(d, 0, []float64{0}, uniformCircle(3))
	for i := 0; i < 3; i++ {
		if out.At(i) != 2.5 {
			t.Errorf("Single-point source must broadcast: got %f at %d", out.At(i), i)
		}
	}
}

func TestDownsampleLongitudeInnerAxis(t *testing.T) {
	t.Parallel()
	src := uniformCircle(8)
	dst := uniformCircle(2)

	d := tensor.New[float64](2, 8)
	for r := 0; r < 2; r++ {
		for i := 0; i < 8; i++ {
			d.Set(float64(r+1)*math.Sin(src[i])+2, r, i)
		}
	}

	out := DownsampleLongitude(d, 1, src, dst)
	if out.Dim(0) != 2 || out.Dim(1) != 2 {
		t.Fatalf("Shape mismatch: expected 2x2, got %dx%d", out.Dim(0), out.Dim(1))
	}
	for r := 0; r < 2; r++ {
		want := periodicIntegral(src, d.Block(r))
		got := periodicIntegral(dst, out.Block(r))
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("Row %d integral not conserved: source %g, downsampled %g", r, want, got)
		}
	}
}
