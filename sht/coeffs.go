package sht

import (
	"github.com/simonpf/scatlib/tensor"
)

// AddCoeffs re-expresses a coefficient vector from the source truncation on
// the target truncation and accumulates it into dst. Coefficients outside
// the target truncation are dropped; coefficients missing from the source
// are treated as zero. This is the sole primitive by which spectrally
// represented data on mismatched truncations is combined.
//
// dst uses target's real-argument layout, src uses source's.
func AddCoeffs(target *SHT, dst []complex128, source *SHT, src []complex128) {
	target.checkCoeffs(len(dst), target.NumSpectralCoeffs())
	source.checkCoeffs(len(src), source.NumSpectralCoeffs())

	mMax := min(target.mMax, source.mMax)
	lMax := min(target.lMax, source.lMax)
	for m := 0; m <= mMax; m++ {
		for l := m; l <= lMax; l++ {
			dst[target.coeffIndex(l, m)] += src[source.coeffIndex(l, m)]
		}
	}
}

// AddCoeffs2 is the two-axis variant of AddCoeffs for fully spectral data:
// src is a coefficient matrix whose rows follow srcInc's complex-argument
// layout and whose columns follow srcScat's real-argument layout. It is
// re-expressed on (dstInc, dstScat) and accumulated into dst.
func AddCoeffs2(dstInc, dstScat *SHT, dst tensor.Mat[complex128], srcInc, srcScat *SHT, src tensor.Mat[complex128]) {
	mMaxInc := min(dstInc.mMax, srcInc.mMax)
	lMaxInc := min(dstInc.lMax, srcInc.lMax)
	mMaxScat := min(dstScat.mMax, srcScat.mMax)
	lMaxScat := min(dstScat.lMax, srcScat.lMax)

	for mi := -mMaxInc; mi <= mMaxInc; mi++ {
		for li := abs(mi); li <= lMaxInc; li++ {
			row := dstInc.coeffIndexCmplx(li, mi)
			srcRow := srcInc.coeffIndexCmplx(li, mi)
			for ms := 0; ms <= mMaxScat; ms++ {
				for ls := ms; ls <= lMaxScat; ls++ {
					col := dstScat.coeffIndex(ls, ms)
					srcCol := srcScat.coeffIndex(ls, ms)
					dst.Set(row, col, dst.At(row, col)+src.At(srcRow, srcCol))
				}
			}
		}
	}
}
