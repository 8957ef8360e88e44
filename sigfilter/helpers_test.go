package sigfilter

import (
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-sigfilter/dsp/filter/freq"
	"github.com/cwbudde/algo-sigfilter/internal/testutil"
	"github.com/cwbudde/algo-sigfilter/storage"
)

var errFlush = errors.New("disk full")

// watchSession records the results group's last_pixel at every flush and
// can fail a chosen flush.
type watchSession struct {
	*storage.Store
	group  string
	calls  int
	failAt int
	seen   []int
}

func (w *watchSession) Flush() error {
	w.calls++
	if w.calls == w.failAt {
		return errFlush
	}
	if g, err := w.Store.Group(w.group); err == nil {
		if n, ok := ResumeRow(g); ok {
			w.seen = append(w.seen, n)
		}
	}
	return w.Store.Flush()
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.Out = io.Discard
	return l
}

// band returns a filter of ones on [lo, hi) and zeros elsewhere.
func band(t *testing.T, n, lo, hi int) freq.Filter {
	t.Helper()
	gains := make([]float64, n)
	for i := lo; i < hi; i++ {
		gains[i] = 1
	}
	f, err := freq.NewCustom(1, gains, map[string]any{"band": []int{lo, hi}})
	if err != nil {
		t.Fatalf("NewCustom failed: %v", err)
	}
	return f
}

func noisyRows(rows, length int) [][]float64 {
	return testutil.Rows(rows, func(r int) []float64 {
		return testutil.Add(
			testutil.Tone(3, 1, length),
			testutil.DeterministicNoise(int64(r+1), 0.2, length),
		)
	})
}

func newFilter(t *testing.T, sess storage.Session, main *storage.Dataset, opts ...Option) *Filter {
	t.Helper()
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	f, err := New(sess, main, opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return f
}

func dataset(t *testing.T, g *storage.Group, name string) *storage.Dataset {
	t.Helper()
	ds, ok := g.Dataset(name)
	if !ok {
		t.Fatalf("%s missing from %s (have %v)", name, g.Path(), g.Datasets())
	}
	return ds
}
