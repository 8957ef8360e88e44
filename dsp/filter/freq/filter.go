package freq

import (
	"errors"
	"fmt"
	"maps"
	"math"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-sigfilter/dsp/spectrum"
)

// Errors returned by filter constructors and composition.
var (
	ErrInvalidParameter = errors.New("freq: invalid filter parameter")
	ErrIncompatible     = errors.New("freq: incompatible filters")
)

// Filter is a real-valued gain per centered spectrum bin.
type Filter interface {
	// Len returns the number of bins, equal to the signal length.
	Len() int
	// SampleRate returns the sampling rate in Hz the filter was designed for.
	SampleRate() float64
	// Value returns a copy of the gains in centered bin order.
	Value() []float64
	// Parameters describes the design for provenance records.
	Parameters() map[string]any
}

// Set is one or more filters applied together.
type Set []Filter

// One wraps a single filter.
func One(f Filter) Set { return Set{f} }

// Many wraps several filters.
func Many(fs ...Filter) Set { return Set(fs) }

type base struct {
	n     int
	fs    float64
	gains []float64
}

func newBase(n int, fs float64) (base, error) {
	if n <= 0 {
		return base{}, fmt.Errorf("%w: signal length must be > 0: %d", ErrInvalidParameter, n)
	}
	if !(fs > 0) || math.IsInf(fs, 0) {
		return base{}, fmt.Errorf("%w: sample rate must be > 0: %f", ErrInvalidParameter, fs)
	}
	return base{n: n, fs: fs}, nil
}

func (b *base) Len() int            { return b.n }
func (b *base) SampleRate() float64 { return b.fs }

func (b *base) Value() []float64 {
	out := make([]float64, len(b.gains))
	copy(out, b.gains)
	return out
}

func (b *base) parameters() map[string]any {
	return map[string]any{
		"signal_length": b.n,
		"samp_rate":     b.fs,
	}
}

func (b *base) nyquist() float64 { return b.fs / 2 }

func (b *base) axis() []float64 { return spectrum.FrequencyAxis(b.n, b.fs) }

// Custom wraps a caller-supplied gain array.
type Custom struct {
	base
	params map[string]any
}

// NewCustom returns a filter with the given gains in centered bin order.
// params is merged into the filter's parameter map.
func NewCustom(sampleRate float64, gains []float64, params map[string]any) (*Custom, error) {
	b, err := newBase(len(gains), sampleRate)
	if err != nil {
		return nil, err
	}
	if floats.HasNaN(gains) {
		return nil, fmt.Errorf("%w: gains contain NaN", ErrInvalidParameter)
	}

	b.gains = make([]float64, len(gains))
	copy(b.gains, gains)

	c := &Custom{base: b, params: map[string]any{}}
	maps.Copy(c.params, params)
	return c, nil
}

// Parameters implements [Filter].
func (c *Custom) Parameters() map[string]any {
	p := c.parameters()
	maps.Copy(p, c.params)
	return p
}

// Compatible reports whether all filters are non-nil and share length and
// sample rate.
func Compatible(set Set) bool {
	if len(set) == 0 || set[0] == nil {
		return false
	}
	n, fs := set[0].Len(), set[0].SampleRate()
	for _, f := range set[1:] {
		if f == nil || f.Len() != n || f.SampleRate() != fs {
			return false
		}
	}
	return true
}

// Compose multiplies the gains of every filter in set.
func Compose(set Set) ([]float64, error) {
	if !Compatible(set) {
		return nil, ErrIncompatible
	}

	out := set[0].Value()
	for _, f := range set[1:] {
		vecmath.MulBlockInPlace(out, f.Value())
	}
	return out, nil
}

// Parameters merges the parameter maps of every filter in set. Later filters
// win on key collisions.
func Parameters(set Set) map[string]any {
	out := map[string]any{}
	for _, f := range set {
		if f != nil {
			maps.Copy(out, f.Parameters())
		}
	}
	return out
}
