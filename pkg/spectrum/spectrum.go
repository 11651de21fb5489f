// Package spectrum implements the Hermitian-symmetry enforcement and
// resampling primitives used to move a frequency-domain spectrum between
// sample counts, plus the DFT backend contract those primitives and the
// noise toolkit (pkg/noise) are built on.
//
// Grounded on original_source/util/inc/WireCellUtil/Spectrum.h.
package spectrum

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/lartpc-toolkit/wctgo/pkg/wcterr"
)

// DFT is the external discrete-Fourier-transform backend contract. Core
// code (pkg/noise) depends only on this interface; pkg/fftdft provides
// one concrete implementation for testing and example use.
//
// Forward transforms accrue no normalization; inverse transforms accrue
// 1/N where N is the transform length, grounded on
// WireCellAux/DftTools.h's documented IDFT convention.
//
// The batched and 2-D methods operate on a row-major, flattened
// nrows*ncols complex buffer. axis follows DftTools.h's convention:
// axis=1 transforms along the column dimension (each row independently,
// length ncols); axis=0 transforms along the row dimension (each column
// independently, length nrows).
type DFT interface {
	// Fwd1D computes the forward complex-to-complex DFT.
	Fwd1D(in []complex128) []complex128
	// Inv1D computes the inverse complex-to-complex DFT, normalized by 1/N.
	Inv1D(in []complex128) []complex128
	// FwdR2C computes the forward real-to-complex DFT, returning only
	// the first N/2+1 Hermitian-unique bins.
	FwdR2C(in []float64) []complex128
	// InvC2R computes the inverse complex-to-real DFT from the first
	// N/2+1 Hermitian-unique bins, producing n real samples.
	InvC2R(in []complex128, n int) []float64
	// Fwd1B computes the forward complex-to-complex DFT independently
	// along axis of a row-major nrows*ncols buffer (batched 1-D).
	Fwd1B(in []complex128, nrows, ncols, axis int) []complex128
	// Inv1B computes the corresponding inverse, normalized by 1/N per
	// transformed line.
	Inv1B(in []complex128, nrows, ncols, axis int) []complex128
	// Fwd2D computes the forward complex-to-complex DFT along both
	// dimensions of a row-major nrows*ncols buffer.
	Fwd2D(in []complex128, nrows, ncols int) []complex128
	// Inv2D computes the corresponding inverse, normalized by 1/(nrows*ncols).
	Inv2D(in []complex128, nrows, ncols int) []complex128
}

// HermitianMirror enforces Hermitian symmetry on s in place: s is
// interpreted as a full-length spectrum (not just its unique half), bin
// 0 and (if n is even) the Nyquist bin are forced real, and every bin
// above the midpoint is overwritten with the conjugate of its mirror
// image below, grounded on Spectrum.h's hermitian_mirror(beg,end).
func HermitianMirror(s []complex128) {
	n := len(s)
	if n == 0 {
		return
	}
	s[0] = complex(real(s[0]), 0)
	mid := n / 2
	if n%2 == 1 {
		// odd length: mid+1 .. n-1 mirrors 1 .. mid (inclusive), reversed
		for i := 1; i <= mid; i++ {
			s[n-i] = cmplx.Conj(s[i])
		}
		return
	}
	// even length: bin mid is Nyquist, forced real by magnitude (not
	// Re(·)) so a prior fluctuation's amplitude survives the symmetry
	// enforcement, per Spectrum.h's hermitian_mirror.
	s[mid] = complex(cmplx.Abs(s[mid]), 0)
	for i := 1; i < mid; i++ {
		s[n-i] = cmplx.Conj(s[i])
	}
}

// HermitianMirror2D enforces Hermitian symmetry independently along axis
// of a row-major nrows*ncols spectrum buffer (axis=1: per row, length
// ncols; axis=0: per column, length nrows), grounded on DftTools.h's
// hermitian_symmetry_inplace(array, axis).
func HermitianMirror2D(s []complex128, nrows, ncols, axis int) {
	if axis == 1 {
		for r := 0; r < nrows; r++ {
			HermitianMirror(s[r*ncols : (r+1)*ncols])
		}
		return
	}
	col := make([]complex128, nrows)
	for c := 0; c < ncols; c++ {
		for r := 0; r < nrows; r++ {
			col[r] = s[r*ncols+c]
		}
		HermitianMirror(col)
		for r := 0; r < nrows; r++ {
			s[r*ncols+c] = col[r]
		}
	}
}

// Convolve convolves real waveforms a and b via DFT, returning a result
// of size len(a)+len(b)-1 with no circular aliasing; callers must not
// pre-pad either input, grounded on DftTools.h's convolve.
func Convolve(dft DFT, a, b []float64) []float64 {
	n := len(a) + len(b) - 1
	if n <= 0 {
		return nil
	}
	ca := padComplex(a, n)
	cb := padComplex(b, n)
	fa := dft.Fwd1D(ca)
	fb := dft.Fwd1D(cb)
	prod := make([]complex128, n)
	for i := range prod {
		prod[i] = fa[i] * fb[i]
	}
	return realPart(dft.Inv1D(prod))
}

// Replace computes inverse-DFT(DFT(meas)*DFT(res2)/DFT(res1)), replacing
// the res1 response folded into meas with res2, at a size large enough
// to avoid circular aliasing. Grounded on DftTools.h's replace.
func Replace(dft DFT, meas, res1, res2 []float64) []float64 {
	smallest := minInt(len(meas), minInt(len(res1), len(res2)))
	n := len(meas) + len(res1) + len(res2) - smallest - 1
	if n <= 0 {
		return nil
	}
	cmeas := dft.Fwd1D(padComplex(meas, n))
	cres1 := dft.Fwd1D(padComplex(res1, n))
	cres2 := dft.Fwd1D(padComplex(res2, n))
	prod := make([]complex128, n)
	for i := range prod {
		prod[i] = cmeas[i] * cres2[i] / cres1[i]
	}
	return realPart(dft.Inv1D(prod))
}

func padComplex(in []float64, n int) []complex128 {
	out := make([]complex128, n)
	for i, v := range in {
		out[i] = complex(v, 0)
	}
	return out
}

func realPart(in []complex128) []float64 {
	out := make([]float64, len(in))
	for i, c := range in {
		out[i] = real(c)
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Interp resamples a full-length spectrum in to length newLen by
// linear interpolation across frequency bins, then rescales
// by sqrt(newn/oldn) to preserve total power under Parseval's theorem,
// grounded on Spectrum.h's interp.
func Interp(in []complex128, newLen int) []complex128 {
	oldLen := len(in)
	if oldLen == 0 || newLen == 0 {
		return make([]complex128, newLen)
	}
	out := make([]complex128, newLen)
	scale := complex(math.Sqrt(float64(newLen)/float64(oldLen)), 0)
	for i := 0; i < newLen; i++ {
		// map output bin i to a fractional input bin position
		pos := float64(i) * float64(oldLen-1) / float64(maxInt(newLen-1, 1))
		lo := int(math.Floor(pos))
		hi := lo + 1
		if hi >= oldLen {
			hi = oldLen - 1
		}
		frac := pos - float64(lo)
		out[i] = in[lo]*complex(1-frac, 0) + in[hi]*complex(frac, 0)
		out[i] *= scale
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Extrap grows a full-length spectrum in to a longer length newLen by
// keeping its low and high (mirror) halves and filling the newly opened
// middle with constant (or, if constant < 0, with the original Nyquist
// bin value), grounded on Spectrum.h's extrap. Raises ValueError if
// len(in) > newLen.
func Extrap(in []complex128, newLen int, constant float64) ([]complex128, error) {
	oldLen := len(in)
	if oldLen > newLen {
		return nil, fmt.Errorf("spectrum: Extrap: %w: input longer than output", wcterr.ErrValue)
	}
	out := make([]complex128, newLen)
	half := oldLen / 2
	var lo, extra int
	if oldLen%2 == 0 {
		lo, extra = half, 1
	} else {
		lo, extra = half+1, 0
	}
	hi := lo + extra
	fill := complex(constant, 0)
	if constant < 0 {
		fill = in[half]
	}

	copy(out[:lo], in[:lo])
	nmid := newLen - oldLen + extra
	for i := 0; i < nmid; i++ {
		out[lo+i] = fill
	}
	copy(out[lo+nmid:], in[hi:])
	return out, nil
}

// Alias folds a full-length spectrum in down to a shorter length newLen
// by summing aliased bins, then enforces Hermitian symmetry and rescales
// by sqrt(newLen/oldLen), grounded on Spectrum.h's alias. Raises
// ValueError if len(in) < newLen.
func Alias(in []complex128, newLen int) ([]complex128, error) {
	oldLen := len(in)
	if oldLen < newLen {
		return nil, fmt.Errorf("spectrum: Alias: %w: input shorter than output", wcterr.ErrValue)
	}
	out := make([]complex128, newLen)
	half := oldLen / 2
	l := (oldLen + newLen - 1) / newLen // ceil(oldLen/newLen)
	m := newLen / 2
	for mm := 0; mm <= m; mm++ {
		for l2 := 0; l2 < l; l2++ {
			oldind := mm + l2*m
			if oldind > half {
				break
			}
			out[mm] += in[oldind]
		}
	}
	HermitianMirror(out)
	scale := complex(math.Sqrt(float64(newLen)/float64(oldLen)), 0)
	for i := range out {
		out[i] *= scale
	}
	return out, nil
}

// Resample moves a full-length spectrum in of period-ratio relperiod
// (new-sample-period / old-sample-period) to a new length newLen,
// combining Interp with either Alias (when growing the sample period,
// relperiod > 1) or Extrap (when shrinking it), grounded on Spectrum.h's
// resample.
func Resample(in []complex128, newLen int, relperiod float64) ([]complex128, error) {
	tmpLen := int(math.Ceil(float64(newLen) * relperiod))
	tmp := Interp(in, tmpLen)
	if relperiod > 1 {
		return Alias(tmp, newLen)
	}
	return Extrap(tmp, newLen, 0)
}

// Rayleigh draws a Rayleigh-distributed magnitude from a uniform sample
// u in [0,1) and a mode (sigma) parameter, grounded on Spectrum.h's
// rayleigh: sigma*sqrt(-2*ln(u)).
func Rayleigh(sigma, u float64) float64 {
	return sigma * math.Sqrt(-2*math.Log(u))
}
