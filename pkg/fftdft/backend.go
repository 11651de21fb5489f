// Package fftdft provides one concrete spectrum.DFT backend, wrapping
// gonum's FFT implementation. This package is explicitly not part of the
// core data model: pkg/spectrum and pkg/noise depend only on the
// spectrum.DFT interface, and any backend (this one, a cgo FFTW binding,
// a GPU kernel) can stand in for it.
package fftdft

import (
	"gonum.org/v1/gonum/dsp/fourier"
)

// Backend implements spectrum.DFT using gonum.org/v1/gonum/dsp/fourier,
// the dependency the teacher's go.mod already carries indirectly via
// gorgonia and which this module promotes to a direct dependency for
// real signal-processing use, same role math32 plays for the teacher's
// KDTree and dsp packages.
type Backend struct{}

// New returns a Backend. It is stateless; gonum's FFT plans are built
// per call sized to the input, matching the teacher's dsp.NewFFT1D
// padding-per-call style rather than caching a plan across calls.
func New() *Backend { return &Backend{} }

func (Backend) Fwd1D(in []complex128) []complex128 {
	n := len(in)
	fft := fourier.NewCmplxFFT(n)
	return fft.Coefficients(nil, in)
}

// Inv1D applies gonum's inverse transform. gonum's Sequence does not
// normalize, so the result is scaled by 1/n here.
func (Backend) Inv1D(in []complex128) []complex128 {
	n := len(in)
	fft := fourier.NewCmplxFFT(n)
	out := fft.Sequence(nil, in)
	for i := range out {
		out[i] /= complex(float64(n), 0)
	}
	return out
}

func (Backend) FwdR2C(in []float64) []complex128 {
	n := len(in)
	fft := fourier.NewFFT(n)
	return fft.Coefficients(nil, in)
}

func (Backend) InvC2R(in []complex128, n int) []float64 {
	fft := fourier.NewFFT(n)
	out := fft.Sequence(nil, in)
	for i := range out {
		out[i] /= float64(n)
	}
	return out
}

// Fwd1B transforms each line along axis independently: axis=1 treats
// each row (length ncols) as one transform; axis=0 treats each column
// (length nrows) as one transform, gathering the strided elements into
// a contiguous buffer first since gonum's FFT requires one.
func (b Backend) Fwd1B(in []complex128, nrows, ncols, axis int) []complex128 {
	return b.batch1D(in, nrows, ncols, axis, false)
}

// Inv1B is the inverse of Fwd1B, normalized by 1/N per transformed line.
func (b Backend) Inv1B(in []complex128, nrows, ncols, axis int) []complex128 {
	return b.batch1D(in, nrows, ncols, axis, true)
}

func (Backend) batch1D(in []complex128, nrows, ncols, axis int, inverse bool) []complex128 {
	out := make([]complex128, len(in))
	copy(out, in)
	apply := func(n int, line []complex128) []complex128 {
		fft := fourier.NewCmplxFFT(n)
		if inverse {
			res := fft.Sequence(nil, line)
			for i := range res {
				res[i] /= complex(float64(n), 0)
			}
			return res
		}
		return fft.Coefficients(nil, line)
	}
	if axis == 1 {
		for r := 0; r < nrows; r++ {
			row := out[r*ncols : (r+1)*ncols]
			copy(row, apply(ncols, row))
		}
		return out
	}
	col := make([]complex128, nrows)
	for c := 0; c < ncols; c++ {
		for r := 0; r < nrows; r++ {
			col[r] = out[r*ncols+c]
		}
		res := apply(nrows, col)
		for r := 0; r < nrows; r++ {
			out[r*ncols+c] = res[r]
		}
	}
	return out
}

// Fwd2D transforms along both dimensions of a row-major nrows*ncols
// buffer: rows first (axis=1), then columns (axis=0), matching
// DftTools.h's fwd2d.
func (b Backend) Fwd2D(in []complex128, nrows, ncols int) []complex128 {
	return b.Fwd1B(b.Fwd1B(in, nrows, ncols, 1), nrows, ncols, 0)
}

// Inv2D is the inverse of Fwd2D.
func (b Backend) Inv2D(in []complex128, nrows, ncols int) []complex128 {
	return b.Inv1B(b.Inv1B(in, nrows, ncols, 0), nrows, ncols, 1)
}
