package sigfilter

import (
	"slices"

	"github.com/cwbudde/algo-sigfilter/dsp/spectrum"
)

// Composite is the combined gain applied to every centered spectrum. The
// zero value is the identity.
type Composite struct {
	weights []float64
}

// Identity returns the composite that leaves spectra unchanged.
func Identity() Composite { return Composite{} }

// NewComposite copies weights into a composite filter.
func NewComposite(weights []float64) Composite {
	return Composite{weights: slices.Clone(weights)}
}

// IsIdentity reports whether c leaves spectra unchanged.
func (c Composite) IsIdentity() bool { return c.weights == nil }

// Len returns the number of weights, 0 for the identity.
func (c Composite) Len() int { return len(c.weights) }

// Weights returns a copy of the weights, nil for the identity.
func (c Composite) Weights() []float64 { return slices.Clone(c.weights) }

// Apply multiplies bins by the weights in place.
func (c Composite) Apply(bins []complex128) {
	if c.weights != nil {
		spectrum.Scale(bins, c.weights)
	}
}

// HotIndices returns the upper half of the indices with positive weight, in
// ascending order. On a centered spectrum with a symmetric filter these are
// the positive-frequency pass bins.
func (c Composite) HotIndices() []int {
	var idx []int
	for i, w := range c.weights {
		if w > 0 {
			idx = append(idx, i)
		}
	}
	return slices.Clone(idx[len(idx)/2:])
}
