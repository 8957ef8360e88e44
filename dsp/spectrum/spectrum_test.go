package spectrum

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-sigfilter/internal/testutil"
)

func TestMagnitude(t *testing.T) {
	bins := []complex128{3 + 4i, -1 - 1i, 0}

	mag := Magnitude(bins)
	if len(mag) != len(bins) {
		t.Fatalf("Magnitude length mismatch: got=%d want=%d", len(mag), len(bins))
	}

	want := []float64{5, math.Sqrt2, 0}
	testutil.RequireSliceNearlyEqual(t, mag, want, 1e-12)

	if Magnitude(nil) != nil {
		t.Fatal("Magnitude(nil) should be nil")
	}
}

func TestScale(t *testing.T) {
	x := []complex128{1 + 1i, 2 - 2i, -3 + 0.5i}
	w := []float64{0, 0.5, 2}

	Scale(x, w)

	want := []complex128{0, 1 - 1i, -6 + 1i}
	for i := range x {
		if cmplx.Abs(x[i]-want[i]) > 1e-12 {
			t.Fatalf("x[%d] = %v, want %v", i, x[i], want[i])
		}
	}
}

func TestShiftCentersZeroFrequency(t *testing.T) {
	for _, n := range []int{1, 2, 5, 8, 9, 16} {
		x := make([]complex128, n)
		for i := range x {
			x[i] = complex(float64(i), 0)
		}

		Shift(x)
		if real(x[n/2]) != 0 {
			t.Fatalf("n=%d: x[n/2] = %v, want bin 0", n, x[n/2])
		}

		InverseShift(x)
		for i := range x {
			if real(x[i]) != float64(i) {
				t.Fatalf("n=%d: round trip x[%d] = %v", n, i, x[i])
			}
		}
	}
}

func TestShiftMatchesNumpyOrder(t *testing.T) {
	// fftshift([0 1 2 3 4]) == [3 4 0 1 2]
	x := []complex128{0, 1, 2, 3, 4}
	Shift(x)

	want := []float64{3, 4, 0, 1, 2}
	for i := range x {
		if real(x[i]) != want[i] {
			t.Fatalf("x[%d] = %v, want %v", i, real(x[i]), want[i])
		}
	}
}

func TestFrequencyAxis(t *testing.T) {
	got := FrequencyAxis(4, 8)
	testutil.RequireSliceNearlyEqual(t, got, []float64{-4, -2, 0, 2}, 1e-12)

	got = FrequencyAxis(5, 10)
	testutil.RequireSliceNearlyEqual(t, got, []float64{-4, -2, 0, 2, 4}, 1e-12)

	if FrequencyAxis(0, 10) != nil {
		t.Fatal("FrequencyAxis(0) should be nil")
	}
}

func TestTransformRoundTrip(t *testing.T) {
	for _, n := range []int{8, 16, 64, 15, 30} {
		tr, err := NewTransform(n)
		if err != nil {
			t.Fatalf("NewTransform(%d) failed: %v", n, err)
		}

		row := testutil.DeterministicNoise(int64(n), 1, n)
		bins := make([]complex128, n)
		if err := tr.ForwardReal(bins, row); err != nil {
			t.Fatalf("ForwardReal failed: %v", err)
		}

		Shift(bins)
		InverseShift(bins)

		back := make([]float64, n)
		if err := tr.InverseReal(back, bins); err != nil {
			t.Fatalf("InverseReal failed: %v", err)
		}
		testutil.RequireSliceNearlyEqual(t, back, row, 1e-9)
	}
}

func TestTransformDCBin(t *testing.T) {
	tr, err := NewTransform(8)
	if err != nil {
		t.Fatalf("NewTransform failed: %v", err)
	}

	bins := make([]complex128, 8)
	if err := tr.ForwardReal(bins, testutil.DC(1, 8)); err != nil {
		t.Fatalf("ForwardReal failed: %v", err)
	}

	if cmplx.Abs(bins[0]-8) > 1e-9 {
		t.Fatalf("DC bin = %v, want 8", bins[0])
	}
	for k := 1; k < 8; k++ {
		if cmplx.Abs(bins[k]) > 1e-9 {
			t.Fatalf("bin %d = %v, want 0", k, bins[k])
		}
	}
}

func TestTransformErrors(t *testing.T) {
	if _, err := NewTransform(0); err == nil {
		t.Fatal("expected error for zero length")
	}

	tr, err := NewTransform(4)
	if err != nil {
		t.Fatalf("NewTransform failed: %v", err)
	}

	err = tr.Forward(make([]complex128, 3), make([]complex128, 4))
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("err = %v, want ErrLengthMismatch", err)
	}
}

func TestTransformBackendsAgree(t *testing.T) {
	for _, n := range []int{1, 2, 3, 7, 12, 16, 17, 100, 127} {
		planned, err := newTransform(n, true)
		if err != nil {
			t.Fatalf("newTransform(%d, planned) failed: %v", n, err)
		}
		generic, err := newTransform(n, false)
		if err != nil {
			t.Fatalf("newTransform(%d, generic) failed: %v", n, err)
		}
		if generic.Planned() {
			t.Fatalf("n=%d: generic transform reports a plan", n)
		}

		re := testutil.DeterministicNoise(int64(n), 1, n)
		im := testutil.DeterministicNoise(int64(n)+1, 1, n)
		src := make([]complex128, n)
		Join(src, re, im)

		want := make([]complex128, n)
		got := make([]complex128, n)
		if err := planned.Forward(want, src); err != nil {
			t.Fatalf("planned Forward failed: %v", err)
		}
		if err := generic.Forward(got, src); err != nil {
			t.Fatalf("generic Forward failed: %v", err)
		}
		testutil.RequireComplexNearlyEqual(t, got, want, 1e-9)

		// Each backend inverts the other's spectrum.
		back := make([]complex128, n)
		if err := generic.Inverse(back, want); err != nil {
			t.Fatalf("generic Inverse failed: %v", err)
		}
		testutil.RequireComplexNearlyEqual(t, back, src, 1e-9)

		if err := planned.Inverse(back, got); err != nil {
			t.Fatalf("planned Inverse failed: %v", err)
		}
		testutil.RequireComplexNearlyEqual(t, back, src, 1e-9)
	}
}

func TestGenericTransformRealRoundTrip(t *testing.T) {
	tr, err := newTransform(30, false)
	if err != nil {
		t.Fatalf("newTransform failed: %v", err)
	}

	row := testutil.DeterministicNoise(5, 1, 30)
	bins := make([]complex128, 30)
	if err := tr.ForwardReal(bins, row); err != nil {
		t.Fatalf("ForwardReal failed: %v", err)
	}

	back := make([]float64, 30)
	if err := tr.InverseReal(back, bins); err != nil {
		t.Fatalf("InverseReal failed: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, back, row, 1e-9)
}
