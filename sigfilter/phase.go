package sigfilter

import (
	"math"
	"slices"
)

// PhaseCorrector adjusts a reconstructed row in place for a phase angle in
// radians.
type PhaseCorrector interface {
	Correct(row []float64, phase float64)
}

// PhaseCorrectorFunc adapts a function to [PhaseCorrector].
type PhaseCorrectorFunc func(row []float64, phase float64)

// Correct calls fn.
func (fn PhaseCorrectorFunc) Correct(row []float64, phase float64) { fn(row, phase) }

// CircularRotation delays a row by phase/(2π) of its length, wrapping
// samples around the end.
var CircularRotation PhaseCorrector = PhaseCorrectorFunc(rotate)

func rotate(row []float64, phase float64) {
	n := len(row)
	if n == 0 {
		return
	}
	k := int(math.Round(phase/(2*math.Pi)*float64(n))) % n
	if k < 0 {
		k += n
	}
	if k == 0 {
		return
	}
	slices.Reverse(row)
	slices.Reverse(row[:k])
	slices.Reverse(row[k:])
}
