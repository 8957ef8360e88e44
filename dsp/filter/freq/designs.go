package freq

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-sigfilter/dsp/taper"
)

// LowPass passes |f| <= cutoff. A non-zero band width rolls the gain off
// with a Blackman taper inside the pass band edges.
type LowPass struct {
	base
	cutoff    float64
	bandWidth float64
}

// NewLowPass designs a low-pass filter for signals of length n sampled at fs.
func NewLowPass(n int, fs, cutoff, bandWidth float64) (*LowPass, error) {
	b, err := newBase(n, fs)
	if err != nil {
		return nil, err
	}
	if !(cutoff > 0) || cutoff > b.nyquist() {
		return nil, fmt.Errorf("%w: low-pass cutoff must be in (0, %g]: %g", ErrInvalidParameter, b.nyquist(), cutoff)
	}
	if bandWidth < 0 || math.IsNaN(bandWidth) {
		return nil, fmt.Errorf("%w: low-pass band width must be >= 0: %g", ErrInvalidParameter, bandWidth)
	}

	axis := b.axis()
	b.gains = make([]float64, n)
	first, last := -1, -1
	for i, f := range axis {
		if math.Abs(f) <= cutoff {
			b.gains[i] = 1
			if first < 0 {
				first = i
			}
			last = i
		}
	}

	if width := binsFor(bandWidth, fs, n); width > 0 && first >= 0 {
		taper.Apply(b.gains, first, taper.Rise(taper.Blackman, width))
		taper.Apply(b.gains, last-width+1, taper.Fall(taper.Blackman, width))
	}

	return &LowPass{base: b, cutoff: cutoff, bandWidth: bandWidth}, nil
}

// Parameters implements [Filter].
func (l *LowPass) Parameters() map[string]any {
	p := l.parameters()
	p["low_pass_cut_off"] = l.cutoff
	p["low_pass_band_width"] = l.bandWidth
	return p
}

// NoiseBand rejects bands of the given widths centered on ±freqs.
type NoiseBand struct {
	base
	freqs  []float64
	widths []float64
}

// NewNoiseBand designs a band-reject filter. freqs and widths pair up.
func NewNoiseBand(n int, fs float64, freqs, widths []float64) (*NoiseBand, error) {
	b, err := newBase(n, fs)
	if err != nil {
		return nil, err
	}
	if len(freqs) == 0 || len(freqs) != len(widths) {
		return nil, fmt.Errorf("%w: noise band needs matching frequencies and widths: %d vs %d",
			ErrInvalidParameter, len(freqs), len(widths))
	}
	for i := range freqs {
		if freqs[i] < 0 || freqs[i] > b.nyquist() {
			return nil, fmt.Errorf("%w: noise band frequency out of range: %g", ErrInvalidParameter, freqs[i])
		}
		if !(widths[i] > 0) {
			return nil, fmt.Errorf("%w: noise band width must be > 0: %g", ErrInvalidParameter, widths[i])
		}
	}

	axis := b.axis()
	b.gains = make([]float64, n)
	for i, f := range axis {
		b.gains[i] = 1
		for j := range freqs {
			if math.Abs(math.Abs(f)-freqs[j]) <= widths[j]/2 {
				b.gains[i] = 0
				break
			}
		}
	}

	return &NoiseBand{
		base:   b,
		freqs:  append([]float64(nil), freqs...),
		widths: append([]float64(nil), widths...),
	}, nil
}

// Parameters implements [Filter].
func (nb *NoiseBand) Parameters() map[string]any {
	p := nb.parameters()
	p["noise_band_frequencies"] = append([]float64(nil), nb.freqs...)
	p["noise_band_widths"] = append([]float64(nil), nb.widths...)
	return p
}

// HarmonicPass passes bands of width bandWidth around ±k*first for
// k = 1..numHarmonics and rejects everything else.
type HarmonicPass struct {
	base
	first        float64
	bandWidth    float64
	numHarmonics int
}

// NewHarmonicPass designs a harmonic comb filter.
func NewHarmonicPass(n int, fs, first, bandWidth float64, numHarmonics int) (*HarmonicPass, error) {
	b, err := newBase(n, fs)
	if err != nil {
		return nil, err
	}
	if !(first > 0) || first >= b.nyquist() {
		return nil, fmt.Errorf("%w: harmonic start frequency must be in (0, %g): %g", ErrInvalidParameter, b.nyquist(), first)
	}
	if !(bandWidth > 0) {
		return nil, fmt.Errorf("%w: harmonic band width must be > 0: %g", ErrInvalidParameter, bandWidth)
	}
	if numHarmonics < 1 {
		return nil, fmt.Errorf("%w: number of harmonics must be >= 1: %d", ErrInvalidParameter, numHarmonics)
	}

	axis := b.axis()
	b.gains = make([]float64, n)
	for i, f := range axis {
		af := math.Abs(f)
		for k := 1; k <= numHarmonics; k++ {
			if math.Abs(af-float64(k)*first) <= bandWidth/2 {
				b.gains[i] = 1
				break
			}
		}
	}

	return &HarmonicPass{base: b, first: first, bandWidth: bandWidth, numHarmonics: numHarmonics}, nil
}

// Parameters implements [Filter].
func (h *HarmonicPass) Parameters() map[string]any {
	p := h.parameters()
	p["harmonic_pass_start_freq"] = h.first
	p["harmonic_pass_band_width"] = h.bandWidth
	p["harmonic_pass_num_harm"] = h.numHarmonics
	return p
}

// binsFor converts a bandwidth in Hz to a whole number of bins.
func binsFor(hz, fs float64, n int) int {
	if hz <= 0 {
		return 0
	}
	return int(math.Round(hz * float64(n) / fs))
}
