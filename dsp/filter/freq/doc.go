// Package freq designs frequency-domain gain arrays ("frequency filters") for
// whole-row spectral filtering.
//
// Every filter is defined over the centered spectrum of a row of fixed length
// sampled at a fixed rate: index len/2 is the zero frequency, matching the
// output of spectrum.Shift. Filters describe themselves through a parameter
// map so that a processing run can record which filters produced its output.
//
// # Designs
//
//   - [LowPass]: passes |f| <= cutoff with an optional Blackman roll-off.
//   - [NoiseBand]: rejects narrow bands around chosen frequencies.
//   - [HarmonicPass]: passes narrow bands around the harmonics of a tone.
//   - [Custom]: wraps a caller-supplied gain array.
//
// # Composition
//
// Filters that share length and sample rate are [Compatible] and can be
// folded into one gain array with [Compose]:
//
//	lp, _ := freq.NewLowPass(n, fs, 10e3, 1e3)
//	nb, _ := freq.NewNoiseBand(n, fs, []float64{50}, []float64{5})
//	gains, err := freq.Compose(freq.Many(lp, nb))
package freq
