// Package taper generates half-window transition tapers for frequency-domain
// filter design.
//
// A taper is the rising half of a symmetric cosine-sum window. Filter designs
// place it on the edges of a pass band so that gains move smoothly between 0
// and 1 instead of stepping, which limits ringing in the reconstructed signal.
package taper

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Kind selects the window shape a taper is cut from.
type Kind int

const (
	// Blackman uses the classic three-term Blackman window.
	Blackman Kind = iota
	// Hann uses the raised-cosine window.
	Hann
	// Linear rises in a straight line.
	Linear
)

var (
	blackmanCoeffs = []float64{0.42, 0.5, 0.08}
	hannCoeffs     = []float64{0.5, 0.5}
)

func (k Kind) String() string {
	switch k {
	case Blackman:
		return "blackman"
	case Hann:
		return "hann"
	case Linear:
		return "linear"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Rise returns n gains rising strictly between 0 and 1.
func Rise(kind Kind, n int) []float64 {
	if n <= 0 {
		return nil
	}

	out := make([]float64, n)
	for i := range out {
		// x walks the first half of the window, endpoints excluded.
		x := float64(i+1) / float64(2*(n+1))
		out[i] = at(kind, x)
	}
	return out
}

// Fall returns the mirror image of [Rise].
func Fall(kind Kind, n int) []float64 {
	out := Rise(kind, n)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Apply multiplies gains[start:start+len(t)] by t in place, clipping the
// range to gains.
func Apply(gains []float64, start int, t []float64) {
	lo, hi := start, start+len(t)
	if lo < 0 {
		t = t[-lo:]
		lo = 0
	}
	if hi > len(gains) {
		hi = len(gains)
	}
	if lo >= hi {
		return
	}
	vecmath.MulBlockInPlace(gains[lo:hi], t[:hi-lo])
}

func at(kind Kind, x float64) float64 {
	switch kind {
	case Hann:
		return cosineSum(x, hannCoeffs)
	case Linear:
		return 2 * x
	default:
		return cosineSum(x, blackmanCoeffs)
	}
}

// cosineSum evaluates a0 - a1*cos(2*pi*x) + a2*cos(4*pi*x) - ...
func cosineSum(x float64, coeffs []float64) float64 {
	sum := 0.0
	sign := 1.0
	for k, a := range coeffs {
		sum += sign * a * math.Cos(2*math.Pi*float64(k)*x)
		sign = -sign
	}
	return sum
}
