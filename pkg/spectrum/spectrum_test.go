package spectrum

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/lartpc-toolkit/wctgo/pkg/fftdft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHermitianMirror_EvenLength(t *testing.T) {
	s := []complex128{
		complex(1, 2), complex(3, 4), complex(5, 6), complex(7, 8),
	}
	HermitianMirror(s)
	assert.Equal(t, complex(1, 0), s[0], "DC bin must be real")
	assert.Equal(t, complex(cmplx.Abs(complex(5, 6)), 0), s[2], "Nyquist bin must be real, forced by magnitude")
	assert.Equal(t, cmplx.Conj(s[1]), s[3])
}

func TestHermitianMirror_OddLength(t *testing.T) {
	s := []complex128{
		complex(1, 2), complex(3, 4), complex(5, 6),
	}
	HermitianMirror(s)
	assert.Equal(t, complex(1, 0), s[0])
	assert.Equal(t, cmplx.Conj(s[1]), s[2])
}

func TestInterp_PreservesLengthRatioScaling(t *testing.T) {
	in := []complex128{1, 2, 3, 4}
	out := Interp(in, 8)
	assert.Len(t, out, 8)
	// endpoints should map exactly (scaled)
	scale := math.Sqrt(8.0 / 4.0)
	assert.InDelta(t, real(in[0])*scale, real(out[0]), 1e-9)
}

func TestExtrap_RejectsShrink(t *testing.T) {
	in := make([]complex128, 8)
	_, err := Extrap(in, 4, 0)
	require.Error(t, err)
}

func TestExtrap_KeepsLowAndHighHalves(t *testing.T) {
	in := []complex128{1, 2, 3, 4} // even, half=2
	out, err := Extrap(in, 8, 0)
	require.NoError(t, err)
	require.Len(t, out, 8)
	assert.Equal(t, in[0], out[0])
	assert.Equal(t, in[1], out[1])
	assert.Equal(t, in[3], out[len(out)-1])
}

func TestAlias_RejectsGrow(t *testing.T) {
	in := make([]complex128, 4)
	_, err := Alias(in, 8)
	require.Error(t, err)
}

func TestAlias_EnforcesHermitianSymmetry(t *testing.T) {
	in := make([]complex128, 8)
	for i := range in {
		in[i] = complex(float64(i+1), float64(i))
	}
	out, err := Alias(in, 4)
	require.NoError(t, err)
	require.Len(t, out, 4)
	assert.Equal(t, 0.0, imag(out[0]))
}

func TestRayleigh_MonotoneInSigma(t *testing.T) {
	u := 0.3
	small := Rayleigh(1.0, u)
	big := Rayleigh(2.0, u)
	assert.Greater(t, big, small)
}

func TestHermitianMirror2D_PerRowAxis(t *testing.T) {
	const nrows, ncols = 2, 4
	s := make([]complex128, nrows*ncols)
	for i := range s {
		s[i] = complex(float64(i+1), float64(i))
	}
	HermitianMirror2D(s, nrows, ncols, 1)
	for r := 0; r < nrows; r++ {
		row := s[r*ncols : (r+1)*ncols]
		assert.Equal(t, 0.0, imag(row[0]), "DC bin of row %d must be real", r)
		assert.Equal(t, cmplx.Conj(row[1]), row[3])
	}
}

func TestHermitianMirror2D_PerColumnAxis(t *testing.T) {
	const nrows, ncols = 4, 2
	s := make([]complex128, nrows*ncols)
	for i := range s {
		s[i] = complex(float64(i+1), float64(i))
	}
	HermitianMirror2D(s, nrows, ncols, 0)
	for c := 0; c < ncols; c++ {
		assert.Equal(t, 0.0, imag(s[c]), "DC bin of column %d must be real", c)
		assert.Equal(t, cmplx.Conj(s[ncols+c]), s[3*ncols+c])
	}
}

func TestConvolve_SizeIsSumMinusOne(t *testing.T) {
	dft := fftdft.New()
	a := []float64{1, 2, 3}
	b := []float64{1, 1}
	out := Convolve(dft, a, b)
	require.Len(t, out, len(a)+len(b)-1)
	assert.InDelta(t, 1.0, out[0], 1e-9)
	assert.InDelta(t, 3.0, out[1], 1e-9)
	assert.InDelta(t, 3.0, out[len(out)-1], 1e-9)
}

func TestReplace_IdentityWhenResponsesMatch(t *testing.T) {
	dft := fftdft.New()
	meas := []float64{1, 2, 3, 4}
	res := []float64{1, 0.5}
	out := Replace(dft, meas, res, res)
	n := len(meas) + 2*len(res) - len(res) - 1
	require.Len(t, out, n)
	for i, v := range meas {
		assert.InDelta(t, v, out[i], 1e-6, "replace with res1==res2 must reproduce meas")
	}
}

func TestFwd1BInv1B_RoundTrip(t *testing.T) {
	dft := fftdft.New()
	const nrows, ncols = 2, 4
	in := make([]complex128, nrows*ncols)
	for i := range in {
		in[i] = complex(float64(i+1), 0)
	}
	for _, axis := range []int{0, 1} {
		spec := dft.Fwd1B(in, nrows, ncols, axis)
		back := dft.Inv1B(spec, nrows, ncols, axis)
		for i, c := range back {
			assert.InDelta(t, real(in[i]), real(c), 1e-9)
			assert.InDelta(t, 0, imag(c), 1e-9)
		}
	}
}

func TestFwd2DInv2D_RoundTrip(t *testing.T) {
	dft := fftdft.New()
	const nrows, ncols = 2, 3
	in := make([]complex128, nrows*ncols)
	for i := range in {
		in[i] = complex(float64(i+1), 0)
	}
	spec := dft.Fwd2D(in, nrows, ncols)
	back := dft.Inv2D(spec, nrows, ncols)
	for i, c := range back {
		assert.InDelta(t, real(in[i]), real(c), 1e-9)
		assert.InDelta(t, 0, imag(c), 1e-9)
	}
}
