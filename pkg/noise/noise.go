// Package noise implements a spectral noise model: a Collector that
// accumulates amplitude/power/autocorrelation estimates across many
// waveforms, and Generator implementations that synthesize new waveforms
// matching an estimated (or externally supplied) amplitude spectrum.
//
// Grounded on original_source/aux/inc/WireCellAux/NoiseTools.h and
// aux/src/NoiseTools.cxx, which the spec's distillation dropped in favor
// of naming only the data model its output feeds (spectrum.DFT,
// pcloud.Array); this package supplies the noise-estimation and
// noise-generation logic those original files actually contain.
package noise

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/lartpc-toolkit/wctgo/pkg/spectrum"
	"github.com/lartpc-toolkit/wctgo/pkg/wcterr"
)

// RNG is the random-number contract NoiseGenerator implementations draw
// on; pkg/randsrc provides MathRand, Fresh and Recycling-backed
// implementations of the two draw shapes used here.
type RNG interface {
	// Uniform returns n samples drawn uniformly from [0,1).
	Uniform(n int) []float64
	// Normal returns n samples drawn from the standard normal distribution.
	Normal(n int) []float64
}

// OptimumSize returns the waveform length that gives nwaves full periods
// of resolution at a sample cadence of nticks samples per period,
// matching NoiseTools.h's optimum_size: the smallest sample count that
// keeps bin spacing commensurate with the requested cycle count.
func OptimumSize(nwaves, nticks int) int {
	if nwaves < 1 {
		nwaves = 1
	}
	return nwaves * nticks
}

// Collector accumulates per-frequency-bin magnitude statistics across
// repeated calls to Add, and exposes the estimators NoiseTools.cxx
// derives from those accumulators. It is not safe for concurrent use.
type Collector struct {
	dft    spectrum.DFT
	nticks int
	n      int

	sum  []float64 // running sum of |X_k|
	sum2 []float64 // running sum of |X_k|^2
	bac  []float64 // running sum of the time-domain autocorrelation
}

// NewCollector returns an empty Collector backed by dft.
func NewCollector(dft spectrum.DFT) *Collector {
	return &Collector{dft: dft}
}

// Add accumulates one waveform, requiring it match the length of any
// waveform added previously.
func (c *Collector) Add(wave []float64) error {
	return c.add(wave, false)
}

// AddSafe accumulates one waveform, growing the accumulators (zero-filled
// in the newly opened bins) if wave is longer than anything seen so far
// and zero-padding wave to the current length if it is shorter, matching NoiseTools.cxx's add_safe used when channels report varying
// trace lengths.
func (c *Collector) AddSafe(wave []float64) error {
	return c.add(wave, true)
}

func (c *Collector) add(wave []float64, safe bool) error {
	if len(wave) == 0 {
		return fmt.Errorf("noise: Collector.Add: %w: empty waveform", wcterr.ErrValue)
	}
	if c.nticks == 0 {
		c.resize(len(wave))
	} else if len(wave) != c.nticks {
		if !safe {
			return fmt.Errorf("noise: Collector.Add: %w: waveform length %d, expected %d", wcterr.ErrValue, len(wave), c.nticks)
		}
		if len(wave) > c.nticks {
			c.resize(len(wave))
		} else {
			padded := make([]float64, c.nticks)
			copy(padded, wave)
			wave = padded
		}
	}

	spec := c.dft.FwdR2C(wave)
	power := make([]complex128, len(spec))
	for k, v := range spec {
		mag := cmplx.Abs(v)
		c.sum[k] += mag
		c.sum2[k] += mag * mag
		power[k] = complex(mag*mag, 0)
	}
	corr := c.dft.InvC2R(power, c.nticks)
	for i, v := range corr {
		c.bac[i] += v
	}
	c.n++
	return nil
}

func (c *Collector) resize(nticks int) {
	nbins := nticks/2 + 1
	grow := func(old []float64, n int) []float64 {
		out := make([]float64, n)
		copy(out, old)
		return out
	}
	c.sum = grow(c.sum, nbins)
	c.sum2 = grow(c.sum2, nbins)
	c.bac = grow(c.bac, nticks)
	c.nticks = nticks
}

// N reports the number of waveforms accumulated so far.
func (c *Collector) N() int { return c.n }

// Nticks reports the waveform length the accumulators are sized for.
func (c *Collector) Nticks() int { return c.nticks }

func (c *Collector) meanOf(acc []float64) []float64 {
	out := make([]float64, len(acc))
	if c.n == 0 {
		return out
	}
	for i, v := range acc {
		out[i] = v / float64(c.n)
	}
	return out
}

// Amplitude returns the mean per-bin magnitude spectrum, |X_k| averaged
// across every waveform added.
func (c *Collector) Amplitude() []float64 { return c.meanOf(c.sum) }

// Linear is an alias for Amplitude, matching NoiseTools.cxx's naming of
// the same estimator.
func (c *Collector) Linear() []float64 { return c.Amplitude() }

// Square returns the mean per-bin squared magnitude, the raw power
// accumulator before any normalization.
func (c *Collector) Square() []float64 { return c.meanOf(c.sum2) }

// RMS returns the square root of Square, the per-bin root-mean-square
// amplitude.
func (c *Collector) RMS() []float64 {
	sq := c.Square()
	out := make([]float64, len(sq))
	for i, v := range sq {
		out[i] = math.Sqrt(v)
	}
	return out
}

// Periodogram returns Square normalized by the waveform length, the
// standard periodogram power-spectral estimator.
func (c *Collector) Periodogram() []float64 {
	sq := c.Square()
	out := make([]float64, len(sq))
	if c.nticks == 0 {
		return out
	}
	for i, v := range sq {
		out[i] = v / float64(c.nticks)
	}
	return out
}

// PSD returns the one-sided power spectral density, Periodogram scaled
// by 2 for every bin strictly between DC and Nyquist.
func (c *Collector) PSD() []float64 {
	p := c.Periodogram()
	out := make([]float64, len(p))
	last := len(p) - 1
	for i, v := range p {
		if i == 0 || (c.nticks%2 == 0 && i == last) {
			out[i] = v
			continue
		}
		out[i] = 2 * v
	}
	return out
}

// BAC returns the mean time-domain baseline autocorrelation, the inverse
// transform of the per-waveform power spectrum averaged across every
// waveform added.
func (c *Collector) BAC() []float64 { return c.meanOf(c.bac) }

// SAC returns the spectral autocorrelation: the forward transform of
// BAC, which by the Wiener-Khinchin theorem reproduces the averaged
// power spectrum from the time-domain side.
func (c *Collector) SAC() []complex128 {
	return c.dft.FwdR2C(c.BAC())
}

// Sigmas returns the per-bin noise sigma estimate used to seed
// GeneratorN/GeneratorU, following NoiseTools.cxx's
// sqrt(2*nsamples/(pi*nticks)) * amplitude normalization of the
// Rayleigh-mode relationship between mean magnitude and the underlying
// Gaussian sigma. nsamples is the fixed spectrum size (here c.nticks,
// since this collector collapses nsamples onto nticks), not the running
// waveform count — using the waveform count would make the estimate grow
// unboundedly with n instead of converging.
func (c *Collector) Sigmas() []float64 {
	amp := c.Amplitude()
	if c.nticks == 0 {
		return amp
	}
	factor := math.Sqrt(2 * float64(c.nticks) / (math.Pi * float64(c.nticks)))
	out := make([]float64, len(amp))
	for i, v := range amp {
		out[i] = factor * v
	}
	return out
}

// Generator synthesizes noise waveforms matching a fixed per-bin
// amplitude spectrum.
type Generator interface {
	// Generate returns one synthetic waveform of the configured length.
	Generate() []float64
}

// GeneratorN synthesizes waveforms by drawing independent real and
// imaginary parts per bin from a normal distribution scaled by sigmas,
// matching NoiseTools.cxx's Gaussian-phase generator.
type GeneratorN struct {
	dft    spectrum.DFT
	rng    RNG
	sigmas []float64
	nticks int
}

// NewGeneratorN returns a GeneratorN producing waveforms of length nticks
// whose per-bin sigma is given by sigmas (length nticks/2+1).
func NewGeneratorN(dft spectrum.DFT, rng RNG, sigmas []float64, nticks int) *GeneratorN {
	return &GeneratorN{dft: dft, rng: rng, sigmas: sigmas, nticks: nticks}
}

func (g *GeneratorN) Generate() []float64 {
	nbins := len(g.sigmas)
	re := g.rng.Normal(nbins)
	im := g.rng.Normal(nbins)
	half := make([]complex128, nbins)
	for k, sigma := range g.sigmas {
		if k == 0 || (g.nticks%2 == 0 && k == nbins-1) {
			half[k] = complex(re[k]*sigma, 0)
			continue
		}
		half[k] = complex(re[k]*sigma, im[k]*sigma)
	}
	return g.dft.InvC2R(half, g.nticks)
}

// GeneratorU synthesizes waveforms by drawing a Rayleigh-distributed
// magnitude (via spectrum.Rayleigh, mode = sigmas[k]) and a uniform
// random phase per bin, matching NoiseTools.cxx's Rayleigh-magnitude
// generator.
type GeneratorU struct {
	dft    spectrum.DFT
	rng    RNG
	sigmas []float64
	nticks int
}

// NewGeneratorU returns a GeneratorU producing waveforms of length nticks
// whose per-bin Rayleigh mode is given by sigmas (length nticks/2+1).
func NewGeneratorU(dft spectrum.DFT, rng RNG, sigmas []float64, nticks int) *GeneratorU {
	return &GeneratorU{dft: dft, rng: rng, sigmas: sigmas, nticks: nticks}
}

func (g *GeneratorU) Generate() []float64 {
	nbins := len(g.sigmas)
	umag := g.rng.Uniform(nbins)
	uphase := g.rng.Uniform(nbins)
	half := make([]complex128, nbins)
	for k, sigma := range g.sigmas {
		mag := spectrum.Rayleigh(sigma, clampUnit(umag[k]))
		if k == 0 || (g.nticks%2 == 0 && k == nbins-1) {
			half[k] = complex(mag, 0)
			continue
		}
		phase := 2 * math.Pi * uphase[k]
		half[k] = cmplx.Rect(mag, phase)
	}
	return g.dft.InvC2R(half, g.nticks)
}

// clampUnit keeps a uniform draw strictly inside (0,1) so Rayleigh's
// log(u) never sees u=0.
func clampUnit(u float64) float64 {
	const eps = 1e-300
	if u <= 0 {
		return eps
	}
	if u >= 1 {
		return 1 - eps
	}
	return u
}
