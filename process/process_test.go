package process

import (
	"context"
	"errors"
	"io"
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/cwbudde/algo-sigfilter/storage"
)

func TestCores(t *testing.T) {
	n := runtime.NumCPU()
	if got := Cores(0); got != max(n-1, 1) {
		t.Fatalf("Cores(0) = %d", got)
	}
	if got := Cores(1); got != 1 {
		t.Fatalf("Cores(1) = %d", got)
	}
	if got := Cores(n + 100); got != n {
		t.Fatalf("Cores(n+100) = %d, want %d", got, n)
	}
}

func TestBudgetCeiling(t *testing.T) {
	if b := Budget(16); b > 16*mib || b <= 0 {
		t.Fatalf("Budget(16) = %d", b)
	}
	if Budget(0) > Budget(DefaultMaxMemoryMB) {
		t.Fatal("default budget exceeds explicit default")
	}
}

func TestRowsPerRead(t *testing.T) {
	tests := []struct {
		name     string
		budget   int64
		rowBytes int64
		align    int
		total    int
		want     int
	}{
		{"fits all", 1 << 20, 100, 1, 50, 50},
		{"budget bound", 1000, 100, 1, 50, 10},
		{"aligned down", 1000, 100, 4, 50, 8},
		{"at least align", 10, 100, 4, 50, 4},
		{"align above total", 10, 100, 8, 5, 5},
		{"empty", 1000, 100, 1, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RowsPerRead(tt.budget, tt.rowBytes, tt.align, tt.total); got != tt.want {
				t.Fatalf("RowsPerRead = %d, want %d", got, tt.want)
			}
		})
	}
}

func newSource(t *testing.T, rows, width int) *storage.Dataset {
	t.Helper()
	vals := make([]float64, rows*width)
	for i := range vals {
		vals[i] = float64(i)
	}
	ds, err := storage.NewMemory().CreateDataset(nil, storage.DatasetSpec{
		Name: "raw", DType: storage.Float64, Shape: []int{rows, width}, Real: vals,
	})
	if err != nil {
		t.Fatalf("CreateDataset failed: %v", err)
	}
	return ds
}

func TestReaderChunks(t *testing.T) {
	r, err := NewReader(newSource(t, 10, 3), 2, 3, nil)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}

	var bounds [][2]int
	for {
		c, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		if len(c.Rows) != c.Len() || c.Rows[0][0] != float64(c.Start*3) {
			t.Fatalf("chunk [%d,%d) rows %v", c.Start, c.End, c.Rows)
		}
		bounds = append(bounds, [2]int{c.Start, c.End})
	}

	want := [][2]int{{2, 5}, {5, 8}, {8, 10}}
	if len(bounds) != len(want) {
		t.Fatalf("bounds = %v, want %v", bounds, want)
	}
	for i := range want {
		if bounds[i] != want[i] {
			t.Fatalf("bounds = %v, want %v", bounds, want)
		}
	}
	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("Next after end: %v", err)
	}
}

func TestReaderRejectsBadRange(t *testing.T) {
	src := newSource(t, 4, 2)
	if _, err := NewReader(src, 5, 1, nil); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("start past end: %v", err)
	}
	if _, err := NewReader(src, 0, 0, nil); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("zero size: %v", err)
	}
	r, err := NewReader(src, 4, 2, nil)
	if err != nil {
		t.Fatalf("start at end rejected: %v", err)
	}
	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("Next at end: %v", err)
	}
}

func TestMapOrdered(t *testing.T) {
	got, err := Map(context.Background(), 100, 4, func(_ context.Context, i int) (int, error) {
		return i * i, nil
	})
	if err != nil {
		t.Fatalf("Map failed: %v", err)
	}
	for i, v := range got {
		if v != i*i {
			t.Fatalf("got[%d] = %d", i, v)
		}
	}
}

func TestMapFirstErrorStops(t *testing.T) {
	boom := errors.New("boom")
	var calls atomic.Int32
	_, err := Map(context.Background(), 1000, 1, func(ctx context.Context, i int) (int, error) {
		calls.Add(1)
		if i == 3 {
			return 0, boom
		}
		return i, ctx.Err()
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if calls.Load() == 1000 {
		t.Fatal("Map kept scheduling after failure")
	}
}

func TestMapCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Map(ctx, 5, 2, func(context.Context, int) (int, error) { return 0, nil })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
