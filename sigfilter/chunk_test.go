package sigfilter

import (
	"context"
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-sigfilter/dsp/filter/freq"
	"github.com/cwbudde/algo-sigfilter/dsp/spectrum"
	"github.com/cwbudde/algo-sigfilter/internal/testutil"
	"github.com/cwbudde/algo-sigfilter/process"
	"github.com/cwbudde/algo-sigfilter/storage"
)

func allPass(t *testing.T, n int) freq.Filter {
	t.Helper()
	return band(t, n, 0, n)
}

func TestChunkRoundTrip(t *testing.T) {
	for _, n := range []int{16, 15, 24} {
		rows := noisyRows(3, n)
		s := storage.NewMemory()
		main := testutil.NewMain(t, s, rows, testutil.MainOptions{})
		f := newFilter(t, s, main, WithFrequencyFilters(freq.One(allPass(t, n))))

		res, err := f.processChunk(context.Background(), process.Chunk{Start: 0, End: 3, Rows: rows})
		if err != nil {
			t.Fatalf("n=%d: processChunk failed: %v", n, err)
		}
		testutil.RequireSliceNearlyEqual(t, res.filtered, testutil.Flatten(rows), 1e-9)
		if res.condensed != nil || res.floors != nil {
			t.Fatalf("n=%d: unrequested outputs computed", n)
		}
	}
}

// dominantRow returns a real row whose centered spectrum is 0.1 in every bin
// except ±3 bins from DC, which are 100.
func dominantRow(t *testing.T, n int) []float64 {
	t.Helper()
	bins := make([]complex128, n)
	for i := range bins {
		bins[i] = 0.1
	}
	bins[n/2+3], bins[n/2-3] = 100, 100
	spectrum.InverseShift(bins)

	tr, err := spectrum.NewTransform(n)
	if err != nil {
		t.Fatalf("NewTransform failed: %v", err)
	}
	row := make([]float64, n)
	if err := tr.InverseReal(row, bins); err != nil {
		t.Fatalf("InverseReal failed: %v", err)
	}
	return row
}

func TestChunkSuppressesBelowFloor(t *testing.T) {
	const n = 16
	rows := [][]float64{dominantRow(t, n)}
	s := storage.NewMemory()
	main := testutil.NewMain(t, s, rows, testutil.MainOptions{})

	// 14 of 16 bins are noise; 0.9 lies above their share.
	f := newFilter(t, s, main,
		WithFrequencyFilters(freq.One(allPass(t, n))),
		WithNoiseThreshold(0.9),
		WithCondensed(true),
	)
	hot := f.HotFrequencies()
	if len(hot) != n/2 || hot[0] != n/2 {
		t.Fatalf("hot = %v", hot)
	}

	res, err := f.processChunk(context.Background(), process.Chunk{Start: 0, End: 1, Rows: rows})
	if err != nil {
		t.Fatalf("processChunk failed: %v", err)
	}
	if math.Abs(res.floors[0]-100) > 1e-9 {
		t.Fatalf("floor = %v, want 100", res.floors[0])
	}

	for j, bin := range hot {
		got := res.condensed[j]
		if bin == n/2+3 {
			if math.Abs(cmplx.Abs(got)-100) > 1e-9 {
				t.Fatalf("dominant bin = %v, want magnitude 100", got)
			}
			continue
		}
		if got != suppressed {
			t.Fatalf("bin %d = %v, want %v", bin, got, suppressed)
		}
		if got == 0 {
			t.Fatal("suppressed bin is exactly zero")
		}
	}
	testutil.RequireFinite(t, res.filtered)
}

func TestChunkZeroRow(t *testing.T) {
	const n = 8
	rows := [][]float64{testutil.DC(0, n)}
	s := storage.NewMemory()
	main := testutil.NewMain(t, s, rows, testutil.MainOptions{})
	f := newFilter(t, s, main, WithNoiseThreshold(0.5))

	res, err := f.processChunk(context.Background(), process.Chunk{Start: 0, End: 1, Rows: rows})
	if err != nil {
		t.Fatalf("processChunk failed: %v", err)
	}
	testutil.RequireFinite(t, res.filtered)
}

func TestMeanRows(t *testing.T) {
	got := meanRows([]float64{1, 2, 3, 4, 5, 6, 7, 8}, 2, 2)
	testutil.RequireSliceNearlyEqual(t, got, []float64{2, 3, 6, 7}, 1e-15)

	c := meanRowsComplex([]complex128{1, 1i, 3, 3i}, 2, 2)
	testutil.RequireComplexNearlyEqual(t, c, []complex128{2, 2i}, 1e-15)

	if got := meanRowsComplex(nil, 0, 4); len(got) != 0 {
		t.Fatalf("empty rows = %v", got)
	}
}
