package testutil

import (
	"testing"

	"github.com/cwbudde/algo-sigfilter/storage"
)

// MainOptions tunes [NewMain].
type MainOptions struct {
	// Group holding the dataset. Defaults to "Measurement_000".
	Group string
	// Name of the dataset. Defaults to "Raw_Data".
	Name string
	// Positions lays the rows out on a grid, first dimension fastest.
	// Defaults to a single dimension covering every row.
	Positions []int
	// SampleRate labels the spectroscopic axis. Defaults to 1.
	SampleRate float64
	Growable   bool
	Chunks     []int
}

// NewMain writes rows as a float64 main dataset with linked position and
// spectroscopic index and value datasets.
func NewMain(t testing.TB, sess storage.Session, rows [][]float64, opts MainOptions) *storage.Dataset {
	t.Helper()
	if len(rows) == 0 {
		t.Fatal("NewMain needs at least one row")
	}
	if opts.Group == "" {
		opts.Group = "Measurement_000"
	}
	if opts.Name == "" {
		opts.Name = "Raw_Data"
	}
	if opts.Positions == nil {
		opts.Positions = []int{len(rows)}
	}
	if opts.SampleRate == 0 {
		opts.SampleRate = 1
	}
	n, width := len(rows), len(rows[0])

	labels := make([]string, len(opts.Positions))
	units := make([]string, len(opts.Positions))
	for i := range labels {
		labels[i] = string(rune('X' + i))
		units[i] = "m"
	}
	posInds, posVals, err := storage.BuildIndexValues(opts.Positions, false, labels, units)
	if err != nil {
		t.Fatalf("position axes failed: %v", err)
	}
	specInds, specVals, err := storage.BuildIndexValues([]int{width}, true, []string{"Time"}, []string{"s"})
	if err != nil {
		t.Fatalf("spectroscopic axes failed: %v", err)
	}
	for i := range specVals.Real {
		specVals.Real[i] /= opts.SampleRate
	}

	main := storage.DatasetSpec{
		Name:   opts.Name,
		DType:  storage.Float64,
		Shape:  []int{n, width},
		Chunks: opts.Chunks,
		Attrs:  map[string]any{"quantity": "Deflection", "units": "V"},
		Real:   Flatten(rows),
	}
	if opts.Growable {
		main.MaxShape = []int{storage.Unlimited, width}
	}

	_, dsets, err := storage.WriteTree(sess, nil, storage.GroupSpec{
		Name:     opts.Group,
		Datasets: []storage.DatasetSpec{main, posInds, posVals, specInds, specVals},
	})
	if err != nil {
		t.Fatalf("writing main dataset failed: %v", err)
	}

	ds := dsets[opts.Name]
	storage.LinkAsMain(ds,
		dsets[storage.PositionIndices], dsets[storage.PositionValues],
		dsets[storage.SpectroscopicIndices], dsets[storage.SpectroscopicValues])
	if err := sess.Flush(); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	return ds
}

// ReadRows reads every row of ds.
func ReadRows(t testing.TB, ds *storage.Dataset) [][]float64 {
	t.Helper()
	flat, err := ds.ReadReal(0, ds.Rows())
	if err != nil {
		t.Fatalf("reading %s failed: %v", ds.Path(), err)
	}
	w := ds.RowWidth()
	out := make([][]float64, ds.Rows())
	for i := range out {
		out[i] = flat[i*w : (i+1)*w]
	}
	return out
}
