package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-sigfilter/dsp/filter/freq"
	"github.com/cwbudde/algo-sigfilter/dsp/noise"
	"github.com/cwbudde/algo-sigfilter/sigfilter"
	"github.com/cwbudde/algo-sigfilter/storage"
)

func runFilter(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	dir := fs.String("store", "", "store directory")
	path := fs.String("dataset", "", "path of the main dataset")
	rate := fs.Float64("rate", 0, "sample rate in Hz (default: from the spectroscopic values)")
	lowPass := fs.Float64("lowpass", 0, "low-pass cutoff in Hz")
	lowPassWidth := fs.Float64("lowpass-width", 0, "low-pass roll-off band width in Hz")
	noiseBands := fs.String("noise-band", "", "rejected bands as FREQ:WIDTH[,FREQ:WIDTH...] in Hz")
	harmonic := fs.String("harmonic", "", "harmonic pass as FIRST:WIDTH:COUNT")
	threshold := fs.Float64("noise-threshold", 0, "fraction of bins treated as noise, in (0, 1)")
	method := fs.String("noise-method", "percentile", "noise floor estimator: percentile or rayleigh")
	filtered := fs.Bool("filtered", true, "write the filtered time-domain data")
	condensed := fs.Bool("condensed", false, "write the condensed hot-frequency spectra")
	numPix := fs.Int("num-pix", 1, "rows averaged into one condensed row")
	cores := fs.Int("cores", 0, "noise floor workers (default: all CPUs but one)")
	maxMem := fs.Int("max-mem", 1024, "memory budget in MB")
	rowsPerRead := fs.Int("rows-per-read", 0, "rows per chunk (default: from the memory budget)")
	resume := fs.String("resume", "", "results group of an interrupted run to continue")
	verbose := fs.Bool("v", false, "log every chunk")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dir == "" || *path == "" {
		return fmt.Errorf("run: -store and -dataset are required")
	}
	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	s, err := storage.Open(*dir)
	if err != nil {
		return err
	}
	defer s.Close()

	raw, err := s.Dataset(*path)
	if err != nil {
		return err
	}

	fsHz := *rate
	if fsHz == 0 {
		if fsHz, err = sampleRate(s, raw); err != nil {
			return fmt.Errorf("run: %w; pass -rate", err)
		}
	}

	set, err := buildFilters(raw.RowWidth(), fsHz, *lowPass, *lowPassWidth, *noiseBands, *harmonic)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	nm, err := noise.ParseMethod(*method)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	opts := []sigfilter.Option{
		sigfilter.WithNoiseMethod(nm),
		sigfilter.WithFiltered(*filtered),
		sigfilter.WithCondensed(*condensed),
		sigfilter.WithPixelGroup(*numPix),
		sigfilter.WithCores(*cores),
		sigfilter.WithMaxMemoryMB(*maxMem),
		sigfilter.WithRowsPerRead(*rowsPerRead),
		sigfilter.WithVerbose(*verbose),
		sigfilter.WithResume(*resume),
	}
	if len(set) > 0 {
		opts = append(opts, sigfilter.WithFrequencyFilters(set))
	}
	if *threshold != 0 {
		opts = append(opts, sigfilter.WithNoiseThreshold(*threshold))
	}

	f, err := sigfilter.New(s, raw, opts...)
	if err != nil {
		return err
	}
	g, err := f.Compute(ctx)
	if err != nil {
		if res := f.Results(); res != nil {
			if last, ok := sigfilter.ResumeRow(res); ok {
				return fmt.Errorf("%w (resume with -resume %s, %d rows committed)", err, res.Path(), last)
			}
		}
		return err
	}
	if err := s.Close(); err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, g.Path())
	return err
}

// sampleRate derives the sampling rate from the step of the main dataset's
// spectroscopic values.
func sampleRate(sess storage.Session, ds *storage.Dataset) (float64, error) {
	vals, err := storage.Aux(sess, ds, storage.SpectroscopicValues)
	if err != nil {
		return 0, err
	}
	if vals.RowWidth() < 2 {
		return 0, fmt.Errorf("spectroscopic values of %s have fewer than two samples", ds.Path())
	}
	t, err := vals.ReadReal(0, 1)
	if err != nil {
		return 0, err
	}
	if dt := t[1] - t[0]; dt > 0 {
		return 1 / dt, nil
	}
	return 0, fmt.Errorf("spectroscopic values of %s are not increasing", ds.Path())
}

func buildFilters(n int, fs, lowPass, lowPassWidth float64, noiseBands, harmonic string) (freq.Set, error) {
	var set freq.Set

	if lowPass > 0 {
		lp, err := freq.NewLowPass(n, fs, lowPass, lowPassWidth)
		if err != nil {
			return nil, err
		}
		set = append(set, lp)
	}

	if noiseBands != "" {
		var freqs, widths []float64
		for _, band := range strings.Split(noiseBands, ",") {
			parts, err := parseFloats(band, ":", 2)
			if err != nil {
				return nil, fmt.Errorf("-noise-band %q: %w", band, err)
			}
			freqs = append(freqs, parts[0])
			widths = append(widths, parts[1])
		}
		nb, err := freq.NewNoiseBand(n, fs, freqs, widths)
		if err != nil {
			return nil, err
		}
		set = append(set, nb)
	}

	if harmonic != "" {
		parts, err := parseFloats(harmonic, ":", 3)
		if err != nil {
			return nil, fmt.Errorf("-harmonic %q: %w", harmonic, err)
		}
		hp, err := freq.NewHarmonicPass(n, fs, parts[0], parts[1], int(parts[2]))
		if err != nil {
			return nil, err
		}
		set = append(set, hp)
	}

	return set, nil
}

func parseFloats(s, sep string, want int) ([]float64, error) {
	fields := strings.Split(s, sep)
	if len(fields) != want {
		return nil, fmt.Errorf("want %d values separated by %q", want, sep)
	}
	out := make([]float64, want)
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
