package spectrum_test

import (
	"fmt"

	"github.com/cwbudde/algo-sigfilter/dsp/spectrum"
)

func ExampleMagnitude() {
	bins := []complex128{1 + 0i, 0 + 1i, -1 + 0i}
	mag := spectrum.Magnitude(bins)
	fmt.Printf("%.1f %.1f %.1f\n", mag[0], mag[1], mag[2])
	// Output:
	// 1.0 1.0 1.0
}

func ExampleShift() {
	bins := []complex128{0, 1, 2, 3}
	spectrum.Shift(bins)
	fmt.Println(real(bins[0]), real(bins[1]), real(bins[2]), real(bins[3]))
	// Output:
	// 2 3 0 1
}
