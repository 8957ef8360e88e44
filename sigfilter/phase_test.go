package sigfilter

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-sigfilter/dsp/filter/freq"
	"github.com/cwbudde/algo-sigfilter/internal/testutil"
	"github.com/cwbudde/algo-sigfilter/storage"
)

func TestCircularRotation(t *testing.T) {
	row := []float64{0, 1, 2, 3, 4, 5, 6, 7}
	CircularRotation.Correct(row, math.Pi/2)
	testutil.RequireSliceNearlyEqual(t, row, []float64{6, 7, 0, 1, 2, 3, 4, 5}, 0)

	row = []float64{0, 1, 2, 3}
	CircularRotation.Correct(row, 2*math.Pi)
	testutil.RequireSliceNearlyEqual(t, row, []float64{0, 1, 2, 3}, 0)

	CircularRotation.Correct(nil, 1)
}

func TestPhaseHookOnlyWithPositivePhase(t *testing.T) {
	const n = 16
	rows := noisyRows(4, n)

	run := func(opts ...Option) [][]float64 {
		s := storage.NewMemory()
		main := testutil.NewMain(t, s, rows, testutil.MainOptions{})
		opts = append(opts, WithFrequencyFilters(freq.One(band(t, n, 4, 12))))
		f := newFilter(t, s, main, opts...)
		g, err := f.Compute(t.Context())
		if err != nil {
			t.Fatalf("Compute failed: %v", err)
		}
		return testutil.ReadRows(t, dataset(t, g, FilteredDataName))
	}

	base := run()
	noCorrector := run(WithPhase(math.Pi / 2))
	zeroPhase := run(WithPhaseCorrection(CircularRotation))
	rotated := run(WithPhase(math.Pi/2), WithPhaseCorrection(CircularRotation))

	for r := range base {
		testutil.RequireSliceNearlyEqual(t, noCorrector[r], base[r], 0)
		testutil.RequireSliceNearlyEqual(t, zeroPhase[r], base[r], 0)

		want := append([]float64(nil), base[r]...)
		rotate(want, math.Pi/2)
		testutil.RequireSliceNearlyEqual(t, rotated[r], want, 0)
	}
}
