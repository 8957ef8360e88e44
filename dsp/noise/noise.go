// Package noise estimates per-spectrum noise floors.
//
// A noise floor is a magnitude below which spectral content is treated as
// noise. Two estimators are provided:
//
//   - [Percentile] ranks the bin magnitudes and reports the magnitude at the
//     requested fraction: the lowest fraction of bins is discarded and the
//     smallest surviving magnitude is the floor.
//   - [Rayleigh] assumes the noise magnitudes follow a Rayleigh distribution
//     and iteratively refines its scale after excluding bins above the
//     current threshold. The threshold parameter is the tolerated false
//     alarm probability.
//
// All functions are pure and safe for concurrent use.
package noise

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-sigfilter/dsp/spectrum"
)

// Method selects a noise-floor estimator.
type Method int

const (
	// Percentile ranks magnitudes and reports the threshold quantile.
	Percentile Method = iota
	// Rayleigh iteratively fits a Rayleigh noise model.
	Rayleigh
)

const (
	rayleighTolerance  = 1e-2
	rayleighIterations = 50
)

func (m Method) String() string {
	switch m {
	case Percentile:
		return "percentile"
	case Rayleigh:
		return "rayleigh"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod maps a method name to a Method.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "percentile", "":
		return Percentile, nil
	case "rayleigh":
		return Rayleigh, nil
	default:
		return 0, fmt.Errorf("noise: unknown method %q", s)
	}
}

// Floor returns the noise floor of a complex spectrum. threshold must be in
// (0, 1). An empty spectrum has a floor of 0.
func Floor(method Method, bins []complex128, threshold float64) float64 {
	if len(bins) == 0 {
		return 0
	}

	mag := spectrum.Magnitude(bins)
	if method == Rayleigh {
		return rayleighFloor(mag, threshold)
	}
	return percentileFloor(mag, threshold)
}

// FloorMagnitudes is [Floor] for precomputed magnitudes. mag is reordered.
func FloorMagnitudes(method Method, mag []float64, threshold float64) float64 {
	if len(mag) == 0 {
		return 0
	}
	if method == Rayleigh {
		work := append([]float64(nil), mag...)
		return rayleighFloor(work, threshold)
	}
	return percentileFloor(mag, threshold)
}

// percentileFloor sorts mag and returns the smallest magnitude left after
// discarding the lowest threshold fraction, i.e. mag[floor(p·n)].
func percentileFloor(mag []float64, threshold float64) float64 {
	sort.Float64s(mag)

	n := len(mag)
	k := min(int(math.Floor(clamp01(threshold)*float64(n))), n-1)

	// Empirical picks index ceil(q·n)-1; a half-rank offset lands on k exactly.
	return stat.Quantile((float64(k)+0.5)/float64(n), stat.Empirical, mag, nil)
}

// rayleighFloor overwrites mag while excluding signal bins.
func rayleighFloor(mag []float64, tolerance float64) float64 {
	n := float64(len(mag))
	logTol := -math.Log(clamp01(tolerance))

	prev := math.Sqrt(floats.Dot(mag, mag) / (2 * n))
	threshold := math.Sqrt(2 * prev * prev * logTol)

	for iter := 1; iter < rayleighIterations; iter++ {
		for i, v := range mag {
			if v > threshold {
				mag[i] = 0
			}
		}
		next := math.Sqrt(floats.Dot(mag, mag) / (2 * n))
		threshold = math.Sqrt(2 * next * next * logTol)
		if math.Abs(next-prev) <= rayleighTolerance {
			break
		}
		prev = next
	}
	return threshold
}

func clamp01(p float64) float64 {
	switch {
	case p < 0 || math.IsNaN(p):
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}
