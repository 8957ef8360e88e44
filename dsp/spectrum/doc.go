// Package spectrum provides the frequency-domain primitives used by the
// signal filter: a planned forward/inverse DFT, zero-frequency centering,
// centered frequency axes, and magnitude extraction.
//
// # Transforms
//
// [Transform] wraps an algo-fft plan for a fixed length. Lengths that the
// planner does not support fall back to go-dsp, which handles any size. The
// inverse transform is normalized, so Forward followed by Inverse returns the
// input within floating-point tolerance.
//
//	tr, err := spectrum.NewTransform(len(row))
//	bins := make([]complex128, len(row))
//	err = tr.ForwardReal(bins, row)
//	spectrum.Shift(bins) // zero frequency at index len/2
//
// # Centering
//
// [Shift] and [InverseShift] follow the usual fftshift convention: after
// Shift, bin len/2 holds the zero frequency and negative frequencies precede
// it. Odd lengths are supported and InverseShift always undoes Shift.
//
// # Magnitudes
//
// [Magnitude] uses the SIMD kernels of algo-vecmath with pooled scratch
// buffers, so in steady state only the output slice is allocated.
package spectrum
