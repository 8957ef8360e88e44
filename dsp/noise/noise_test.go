package noise

import (
	"math"
	"testing"
)

func dominantSpectrum(n, peak int, peakMag, noiseMag float64) []complex128 {
	bins := make([]complex128, n)
	for i := range bins {
		bins[i] = complex(noiseMag, 0)
	}
	bins[peak] = complex(0, peakMag)
	return bins
}

func TestPercentileDominantBin(t *testing.T) {
	bins := dominantSpectrum(16, 5, 100, 0.1)

	// 15 of 16 bins are noise, so any threshold above 15/16 keeps only the peak.
	floor := Floor(Percentile, bins, 0.95)
	if math.Abs(floor-100) > 1e-12 {
		t.Fatalf("floor = %v, want 100", floor)
	}

	floor = Floor(Percentile, bins, 0.5)
	if math.Abs(floor-0.1) > 1e-12 {
		t.Fatalf("floor = %v, want 0.1", floor)
	}
}

func TestPercentileRanks(t *testing.T) {
	tests := []struct {
		threshold float64
		want      float64
	}{
		{0.05, 1},
		{0.1, 2},
		{0.3, 4},
		{0.35, 4},
		{0.5, 6},
		{0.99, 10},
		{1, 10},
	}

	for _, tt := range tests {
		// The smallest magnitude left after discarding the lowest fraction.
		mag := []float64{4, 1, 3, 2, 5, 8, 7, 6, 10, 9}
		if got := FloorMagnitudes(Percentile, mag, tt.threshold); got != tt.want {
			t.Fatalf("threshold %v: floor = %v, want %v", tt.threshold, got, tt.want)
		}
	}
}

func TestPercentileSuppressesExactFraction(t *testing.T) {
	mag := []float64{4, 1, 3, 2, 5, 8, 7, 6, 10, 9}
	floor := FloorMagnitudes(Percentile, append([]float64(nil), mag...), 0.3)

	below := 0
	for _, v := range mag {
		if v < floor {
			below++
		}
	}
	if below != 3 {
		t.Fatalf("%d bins below floor %v, want 3", below, floor)
	}
}

func TestRayleighIgnoresPeak(t *testing.T) {
	bins := dominantSpectrum(256, 10, 1000, 1)

	floor := Floor(Rayleigh, bins, 0.01)
	if !(floor > 1 && floor < 1000) {
		t.Fatalf("floor = %v, want between noise and peak", floor)
	}
}

func TestFloorEmpty(t *testing.T) {
	if Floor(Percentile, nil, 0.5) != 0 || Floor(Rayleigh, nil, 0.5) != 0 {
		t.Fatal("empty spectrum should have zero floor")
	}
}

func TestParseMethod(t *testing.T) {
	for _, m := range []Method{Percentile, Rayleigh} {
		got, err := ParseMethod(m.String())
		if err != nil || got != m {
			t.Fatalf("ParseMethod(%q) = %v, %v", m.String(), got, err)
		}
	}
	if _, err := ParseMethod("median"); err == nil {
		t.Fatal("expected error for unknown method")
	}
}
