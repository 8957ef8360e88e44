package sigfilter

import (
	"testing"
)

func TestHotIndicesUpperHalf(t *testing.T) {
	w := make([]float64, 64)
	for i := 10; i < 50; i++ {
		w[i] = 0.5
	}
	hot := NewComposite(w).HotIndices()
	if len(hot) != 20 {
		t.Fatalf("len(hot) = %d, want 20", len(hot))
	}
	for i, idx := range hot {
		if idx != 30+i {
			t.Fatalf("hot[%d] = %d, want %d", i, idx, 30+i)
		}
	}
}

func TestHotIndicesOddCount(t *testing.T) {
	w := []float64{0, 1, 1, 1, 0}
	hot := NewComposite(w).HotIndices()
	if len(hot) != 2 || hot[0] != 2 || hot[1] != 3 {
		t.Fatalf("hot = %v, want [2 3]", hot)
	}
}

func TestHotIndicesEmpty(t *testing.T) {
	if hot := NewComposite(make([]float64, 8)).HotIndices(); len(hot) != 0 {
		t.Fatalf("hot = %v, want none", hot)
	}
	if hot := Identity().HotIndices(); len(hot) != 0 {
		t.Fatalf("identity hot = %v, want none", hot)
	}
}

func TestCompositeApply(t *testing.T) {
	bins := []complex128{1 + 1i, 2 - 2i, 3i}
	Identity().Apply(bins)
	if bins[1] != 2-2i {
		t.Fatalf("identity changed bins: %v", bins)
	}

	w := []float64{0, 0.5, 2}
	c := NewComposite(w)
	w[0] = 9
	c.Apply(bins)
	want := []complex128{0, 1 - 1i, 6i}
	for i := range want {
		if bins[i] != want[i] {
			t.Fatalf("bins[%d] = %v, want %v", i, bins[i], want[i])
		}
	}
}
