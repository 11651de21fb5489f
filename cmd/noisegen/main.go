// Command noisegen is a thin CLI driver composing pkg/noise and
// pkg/fftdft: it synthesizes a batch of noise waveforms from a flat
// amplitude spectrum and prints their per-bin sigma estimate, grounded
// on the teacher's flag-based cmd/spectrometer entry point style.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/lartpc-toolkit/wctgo/pkg/fftdft"
	"github.com/lartpc-toolkit/wctgo/pkg/logger"
	"github.com/lartpc-toolkit/wctgo/pkg/noise"
	"github.com/lartpc-toolkit/wctgo/pkg/randsrc"
)

var (
	nticks   = flag.Int("nticks", 4096, "waveform length in samples")
	nwaves   = flag.Int("nwaves", 100, "number of waveforms to synthesize and accumulate")
	sigma    = flag.Float64("sigma", 1.0, "flat per-bin noise sigma to synthesize from")
	kind     = flag.String("kind", "normal", "generator kind: normal or uniform")
	seed1    = flag.Uint64("seed1", 1, "first RNG seed word")
	seed2    = flag.Uint64("seed2", 2, "second RNG seed word")
	showBins = flag.Int("print-bins", 8, "number of low-frequency sigma bins to print")
)

func main() {
	flag.Parse()
	log := logger.Log

	dft := fftdft.New()
	rng := randsrc.NewMathRand(*seed1, *seed2)

	nbins := *nticks/2 + 1
	flat := make([]float64, nbins)
	for i := range flat {
		flat[i] = *sigma
	}

	var gen noise.Generator
	switch *kind {
	case "normal":
		gen = noise.NewGeneratorN(dft, rng, flat, *nticks)
	case "uniform":
		gen = noise.NewGeneratorU(dft, rng, flat, *nticks)
	default:
		log.Error().Str("kind", *kind).Msg("unknown generator kind")
		os.Exit(1)
	}

	collector := noise.NewCollector(dft)
	for i := 0; i < *nwaves; i++ {
		if err := collector.Add(gen.Generate()); err != nil {
			log.Error().Err(err).Int("wave", i).Msg("accumulate failed")
			os.Exit(1)
		}
	}

	log.Info().Int("n", collector.N()).Int("nticks", collector.Nticks()).Msg("accumulated noise waveforms")

	sigmas := collector.Sigmas()
	w := csv.NewWriter(os.Stdout)
	defer w.Flush()
	_ = w.Write([]string{"bin", "sigma"})
	n := *showBins
	if n > len(sigmas) {
		n = len(sigmas)
	}
	for i := 0; i < n; i++ {
		_ = w.Write([]string{strconv.Itoa(i), fmt.Sprintf("%.6g", sigmas[i])})
	}
}
