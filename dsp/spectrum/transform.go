package spectrum

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/mjibson/go-dsp/fft"
)

// ErrLengthMismatch is returned when a buffer does not match the transform length.
var ErrLengthMismatch = errors.New("spectrum: buffer length mismatch")

// Transform computes n-point complex DFTs.
//
// A Transform is not safe for concurrent use; give each goroutine its own.
type Transform struct {
	n    int
	plan *algofft.Plan[complex128]
}

// NewTransform prepares a transform of length n.
func NewTransform(n int) (*Transform, error) {
	return newTransform(n, true)
}

// newTransform builds a transform that runs on go-dsp unless planned is set
// and algo-fft accepts n.
func newTransform(n int, planned bool) (*Transform, error) {
	if n <= 0 {
		return nil, fmt.Errorf("spectrum: transform length must be > 0: %d", n)
	}

	t := &Transform{n: n}
	if !planned {
		return t, nil
	}

	// The planner rejects some lengths; those run through go-dsp instead.
	plan, err := algofft.NewPlan64(n)
	if err == nil {
		t.plan = plan
	}

	return t, nil
}

// Len returns the transform length.
func (t *Transform) Len() int { return t.n }

// Planned reports whether the transform runs on an algo-fft plan.
func (t *Transform) Planned() bool { return t.plan != nil }

// Forward computes the DFT of src into dst. dst and src may alias.
func (t *Transform) Forward(dst, src []complex128) error {
	if len(dst) != t.n || len(src) != t.n {
		return fmt.Errorf("%w: want %d, got dst=%d src=%d", ErrLengthMismatch, t.n, len(dst), len(src))
	}

	if t.plan != nil {
		if err := t.plan.Forward(dst, src); err != nil {
			return fmt.Errorf("spectrum: forward FFT failed: %w", err)
		}
		return nil
	}

	copy(dst, fft.FFT(src))
	return nil
}

// ForwardReal computes the DFT of a real signal into dst.
func (t *Transform) ForwardReal(dst []complex128, src []float64) error {
	if len(dst) != t.n || len(src) != t.n {
		return fmt.Errorf("%w: want %d, got dst=%d src=%d", ErrLengthMismatch, t.n, len(dst), len(src))
	}

	for i, v := range src {
		dst[i] = complex(v, 0)
	}
	return t.Forward(dst, dst)
}

// Inverse computes the normalized inverse DFT of src into dst. dst and src may alias.
func (t *Transform) Inverse(dst, src []complex128) error {
	if len(dst) != t.n || len(src) != t.n {
		return fmt.Errorf("%w: want %d, got dst=%d src=%d", ErrLengthMismatch, t.n, len(dst), len(src))
	}

	if t.plan != nil {
		if err := t.plan.Inverse(dst, src); err != nil {
			return fmt.Errorf("spectrum: inverse FFT failed: %w", err)
		}
		return nil
	}

	copy(dst, fft.IFFT(src))
	return nil
}

// InverseReal computes the inverse DFT of src and writes its real part to dst.
// src is used as scratch and is overwritten.
func (t *Transform) InverseReal(dst []float64, src []complex128) error {
	if len(dst) != t.n {
		return fmt.Errorf("%w: want %d, got dst=%d", ErrLengthMismatch, t.n, len(dst))
	}

	if err := t.Inverse(src, src); err != nil {
		return err
	}

	for i, c := range src {
		dst[i] = real(c)
	}
	return nil
}
