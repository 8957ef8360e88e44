// Package testutil provides deterministic signals and store fixtures for
// tests.
package testutil

import (
	"math"
	"math/rand"
)

// Tone returns a cosine that completes cycles whole periods over length
// samples, so its energy lands in exactly two DFT bins.
func Tone(cycles int, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * float64(cycles) / float64(length)
	for i := range out {
		out[i] = amplitude * math.Cos(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Add returns the elementwise sum of equally long signals.
func Add(signals ...[]float64) []float64 {
	if len(signals) == 0 {
		return nil
	}
	out := append([]float64(nil), signals[0]...)
	for _, s := range signals[1:] {
		for i := range out {
			out[i] += s[i]
		}
	}
	return out
}

// Rows builds n rows by calling gen with each row index.
func Rows(n int, gen func(row int) []float64) [][]float64 {
	out := make([][]float64, n)
	for i := range out {
		out[i] = gen(i)
	}
	return out
}

// Flatten concatenates rows in order.
func Flatten(rows [][]float64) []float64 {
	var out []float64
	for _, r := range rows {
		out = append(out, r...)
	}
	return out
}
