package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-sigfilter/storage"
)

func runSynth(_ context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("synth", flag.ContinueOnError)
	dir := fs.String("store", "", "store directory (created if missing)")
	group := fs.String("group", "Measurement_", "group for the dataset; a trailing _ is auto-numbered")
	name := fs.String("name", "Raw_Data", "dataset name")
	rows := fs.Int("rows", 16, "number of rows (pixels)")
	length := fs.Int("len", 1024, "samples per row")
	rate := fs.Float64("rate", 1e6, "sample rate in Hz")
	tone := fs.Float64("tone", 5e4, "tone frequency in Hz")
	noiseAmp := fs.Float64("noise", 0.1, "white noise amplitude")
	seed := fs.Int64("seed", 1, "noise seed")
	grid := fs.String("positions", "", "position grid as comma-separated sizes, first fastest (default: one axis)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dir == "" {
		return fmt.Errorf("synth: -store is required")
	}
	if *rows <= 0 || *length <= 0 || !(*rate > 0) {
		return fmt.Errorf("synth: rows, len and rate must be positive")
	}

	dims := []int{*rows}
	if *grid != "" {
		var err error
		if dims, err = parseInts(*grid); err != nil {
			return fmt.Errorf("synth: -positions: %w", err)
		}
	}
	labels, units := make([]string, len(dims)), make([]string, len(dims))
	for i := range dims {
		labels[i] = string(rune('X' + i))
		units[i] = "m"
	}
	posInds, posVals, err := storage.BuildIndexValues(dims, false, labels, units)
	if err != nil {
		return fmt.Errorf("synth: %w", err)
	}
	if posInds.Shape[0] != *rows {
		return fmt.Errorf("synth: position grid %v covers %d rows, want %d", dims, posInds.Shape[0], *rows)
	}
	specInds, specVals, err := storage.BuildIndexValues([]int{*length}, true, []string{"Time"}, []string{"s"})
	if err != nil {
		return fmt.Errorf("synth: %w", err)
	}
	specVals.DType = storage.Float64
	for i := range specVals.Real {
		specVals.Real[i] /= *rate
	}

	rng := rand.New(rand.NewSource(*seed))
	data := make([]float64, *rows**length)
	step := 2 * math.Pi * *tone / *rate
	for r := range *rows {
		phase := rng.Float64() * 2 * math.Pi
		for i := range *length {
			data[r**length+i] = math.Sin(step*float64(i)+phase) + (rng.Float64()*2-1)**noiseAmp
		}
	}

	s, err := storage.Open(*dir)
	if err != nil {
		return err
	}
	defer s.Close()

	g, dsets, err := storage.WriteTree(s, nil, storage.GroupSpec{
		Name: *group,
		Datasets: []storage.DatasetSpec{
			{
				Name:     *name,
				DType:    storage.Float32,
				Shape:    []int{*rows, *length},
				MaxShape: []int{storage.Unlimited, *length},
				Chunks:   []int{1, *length},
				Attrs:    map[string]any{"quantity": "Deflection", "units": "V"},
				Real:     data,
			},
			posInds, posVals, specInds, specVals,
		},
	})
	if err != nil {
		return err
	}
	raw := dsets[*name]
	storage.LinkAsMain(raw,
		dsets[storage.PositionIndices], dsets[storage.PositionValues],
		dsets[storage.SpectroscopicIndices], dsets[storage.SpectroscopicValues])
	g.Attrs().Set("sample_rate", *rate)

	if err := s.Close(); err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, raw.Path())
	return err
}

func parseInts(s string) ([]int, error) {
	var out []int
	for _, f := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, err
		}
		if n <= 0 {
			return nil, fmt.Errorf("size must be positive: %d", n)
		}
		out = append(out, n)
	}
	return out, nil
}
