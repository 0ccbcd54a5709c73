package scattering

import (
	"math/cmplx"
	"math/rand"
	"testing"

	"github.com/simonpf/scatlib/sht"
	"github.com/simonpf/scatlib/tensor"
)

func randomFullySpectral(t *testing.T, rng *rand.Rand, fGrid, tGrid []float64, inc, scat *sht.SHT, nElem int) *FullySpectral {
	t.Helper()
	sp := randomSpectral(t, rng, fGrid, tGrid, inc.LongitudeGrid(), inc.LatitudeGrid(), scat, nElem)
	fs, err := sp.ToFullySpectral(inc)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	return fs
}

func TestNewFullySpectralValidation(t *testing.T) {
	inc := maxSHT(t, 4, 2)
	scat := maxSHT(t, 8, 4)
	fGrid := []float64{1}

	t.Run("wrong_rank", func(t *testing.T) {
		data := tensor.New[complex128](1, 1, inc.NumSpectralCoeffsCmplx(), scat.NumSpectralCoeffs())
		if _, err := NewFullySpectral(fGrid, fGrid, inc, scat, data); err == nil {
			t.Error("Expected error for rank mismatch, got nil")
		}
	})
	t.Run("incoming_count_mismatch", func(t *testing.T) {
		data := tensor.New[complex128](1, 1, inc.NumSpectralCoeffsCmplx()+1, scat.NumSpectralCoeffs(), 1)
		if _, err := NewFullySpectral(fGrid, fGrid, inc, scat, data); err == nil {
			t.Error("Expected error for incoming coefficient mismatch, got nil")
		}
	})
	t.Run("valid", func(t *testing.T) {
		fs, err := NewFullySpectralZero(fGrid, fGrid, inc, scat, 2)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if fs.NumElements() != 2 {
			t.Errorf("Element count mismatch: expected 2, got %d", fs.NumElements())
		}
		if fs.NumLonInc() != 4 || fs.NumLatInc() != 2 || fs.NumLonScat() != 8 || fs.NumLatScat() != 4 {
			t.Errorf("Angular sizes mismatch: %d %d %d %d",
				fs.NumLonInc(), fs.NumLatInc(), fs.NumLonScat(), fs.NumLatScat())
		}
	})
}

func TestFullySpectralCopyAndScale(t *testing.T) {
	rng := rand.New(rand.NewSource(71))
	inc := maxSHT(t, 4, 2)
	scat := maxSHT(t, 8, 4)
	fs := randomFullySpectral(t, rng, []float64{1}, []float64{250}, inc, scat, 1)

	orig := fs.Data().At(0, 0, 1, 1, 0)

	dup := fs.Copy()
	dup.ScaleAssign(2)
	if got := fs.Data().At(0, 0, 1, 1, 0); got != orig {
		t.Error("Scaling a copy modified the original")
	}
	if got := dup.Data().At(0, 0, 1, 1, 0); cmplx.Abs(got-2*orig) > 1e-13 {
		t.Errorf("Scaled coefficient mismatch: expected %v, got %v", 2*orig, got)
	}
}

func TestFullySpectralInterpolateFrequency(t *testing.T) {
	inc := maxSHT(t, 4, 2)
	scat := maxSHT(t, 8, 4)
	fs, err := NewFullySpectralZero([]float64{1, 3}, []float64{250}, inc, scat, 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for f, val := range []complex128{complex(2, -2), complex(6, -6)} {
		block := fs.Data().Block(f)
		for i := range block {
			block[i] = val
		}
	}

	out, err := fs.InterpolateFrequency([]float64{2})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	want := complex(4, -4)
	if got := out.Data().At(0, 0, 0, 0, 0); cmplx.Abs(got-want) > 1e-14 {
		t.Errorf("Interpolated coefficient mismatch: expected %v, got %v", want, got)
	}
}

func TestFullySpectralAddAssign(t *testing.T) {
	rng := rand.New(rand.NewSource(73))
	inc := maxSHT(t, 4, 2)
	scat := maxSHT(t, 8, 4)
	a := randomFullySpectral(t, rng, []float64{1}, []float64{250}, inc, scat, 1)
	b := randomFullySpectral(t, rng, []float64{1}, []float64{250}, inc, scat, 1)

	sum, err := a.Add(b)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for i, v := range sum.Data().Data() {
		want := a.Data().Data()[i] + b.Data().Data()[i]
		if cmplx.Abs(v-want) > 1e-13 {
			t.Fatalf("Sum mismatch at %d: expected %v, got %v", i, want, v)
		}
	}
}

func TestFullySpectralSetData(t *testing.T) {
	rng := rand.New(rand.NewSource(79))
	inc := maxSHT(t, 4, 2)
	scat := maxSHT(t, 8, 4)
	src := randomFullySpectral(t, rng, []float64{2}, []float64{250}, inc, scat, 1)

	container, err := NewFullySpectralZero([]float64{1, 2}, []float64{250}, inc, scat, 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := container.SetData(1, 0, src); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for i, v := range container.Data().Block(1, 0) {
		if cmplx.Abs(v-src.Data().Block(0, 0)[i]) > 1e-14 {
			t.Fatalf("Slice content mismatch at %d", i)
		}
	}
	for _, v := range container.Data().Block(0, 0) {
		if v != 0 {
			t.Fatal("Untargeted slice must stay zero")
		}
	}

	t.Run("element_mismatch", func(t *testing.T) {
		other, err := NewFullySpectralZero([]float64{2}, []float64{250}, inc, scat, 3)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if err := container.SetData(0, 0, other); err == nil {
			t.Error("Expected error for element mismatch, got nil")
		}
	})
}

func TestFullySpectralToSpectralWith(t *testing.T) {
	rng := rand.New(rand.NewSource(83))
	inc := maxSHT(t, 4, 2)
	scat := maxSHT(t, 16, 8)
	fs := randomFullySpectral(t, rng, []float64{1}, []float64{250}, inc, scat, 1)

	small, err := sht.New(3, 2, 16, 8)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Truncating before and after incoming synthesis must agree.
	a := fs.ToSpectralWith(small)
	b := fs.ToSpectral().ToSpectral(small)
	for i, v := range a.Data().Data() {
		if cmplx.Abs(v-b.Data().Data()[i]) > 1e-10 {
			t.Fatalf("Truncation order mismatch at %d: %v vs %v", i, v, b.Data().Data()[i])
		}
	}
}
