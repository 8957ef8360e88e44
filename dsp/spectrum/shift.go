package spectrum

// Shift rotates x in place so that the zero-frequency bin moves to index
// len(x)/2.
func Shift(x []complex128) {
	rotate(x, len(x)/2)
}

// InverseShift undoes [Shift].
func InverseShift(x []complex128) {
	n := len(x)
	if n == 0 {
		return
	}
	rotate(x, n-n/2)
}

// rotate moves x[i] to x[(i+k) mod n] using three reversals.
func rotate(x []complex128, k int) {
	n := len(x)
	if n < 2 {
		return
	}
	k %= n
	if k == 0 {
		return
	}
	reverse(x)
	reverse(x[:k])
	reverse(x[k:])
}

func reverse(x []complex128) {
	for i, j := 0, len(x)-1; i < j; i, j = i+1, j-1 {
		x[i], x[j] = x[j], x[i]
	}
}

// FrequencyAxis returns the bin frequencies in Hz of an n-point transform at
// sampleRate, in centered order (matching a spectrum after [Shift]).
func FrequencyAxis(n int, sampleRate float64) []float64 {
	if n <= 0 {
		return nil
	}

	df := sampleRate / float64(n)
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i-n/2) * df
	}
	return out
}
