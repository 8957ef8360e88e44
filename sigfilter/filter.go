package sigfilter

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-sigfilter/dsp/filter/freq"
	"github.com/cwbudde/algo-sigfilter/dsp/noise"
	"github.com/cwbudde/algo-sigfilter/dsp/spectrum"
	"github.com/cwbudde/algo-sigfilter/process"
	"github.com/cwbudde/algo-sigfilter/storage"
)

// Filter runs the chunked frequency-domain cleaning of one main dataset.
// Build it with [New] and run it once with [Filter.Compute].
type Filter struct {
	sess storage.Session
	main *storage.Dataset
	cfg  config
	log  logrus.FieldLogger

	composite     Composite
	params        map[string]any
	hot           []int
	rows          int
	rowLen        int
	effectiveRows int
	cores         int
	transform     *spectrum.Transform

	mu     sync.Mutex
	state  State
	out    *results
	cursor int
}

// New validates the configuration against main and returns a filter ready
// to compute. Every failure wraps [ErrConfiguration]; nothing is written to
// sess before Compute.
func New(sess storage.Session, main *storage.Dataset, opts ...Option) (*Filter, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if sess == nil || main == nil {
		return nil, fmt.Errorf("%w: storage session and main dataset are required", ErrConfiguration)
	}
	if shape := main.Shape(); len(shape) != 2 || shape[1] == 0 || main.DType().IsComplex() {
		return nil, fmt.Errorf("%w: %s must be a real 2-D dataset with non-empty rows, got %s %v",
			ErrConfiguration, main.Path(), main.DType(), shape)
	}

	if len(cfg.filters) == 0 && !cfg.hasThreshold {
		return nil, fmt.Errorf("%w: need a frequency filter or a noise threshold", ErrConfiguration)
	}
	if cfg.hasThreshold && !(cfg.noiseThreshold > 0 && cfg.noiseThreshold < 1) {
		return nil, fmt.Errorf("%w: noise threshold must be within (0, 1): %v", ErrConfiguration, cfg.noiseThreshold)
	}
	if cfg.noiseMethod != noise.Percentile && cfg.noiseMethod != noise.Rayleigh {
		return nil, fmt.Errorf("%w: unknown noise method %v", ErrConfiguration, cfg.noiseMethod)
	}

	f := &Filter{
		sess:      sess,
		main:      main,
		rows:      main.Rows(),
		rowLen:    main.RowWidth(),
		composite: Identity(),
		params:    map[string]any{},
	}

	if len(cfg.filters) > 0 {
		if !freq.Compatible(cfg.filters) {
			return nil, fmt.Errorf("%w: frequency filters must share length and sample rate", ErrConfiguration)
		}
		weights, err := freq.Compose(cfg.filters)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
		}
		if len(weights) != f.rowLen {
			return nil, fmt.Errorf("%w: filters have %d bins but rows of %s have %d samples",
				ErrConfiguration, len(weights), main.Path(), f.rowLen)
		}
		f.composite = NewComposite(weights)
		f.params = freq.Parameters(cfg.filters)
	} else {
		cfg.writeCondensed = false
	}

	if !cfg.writeFiltered && !cfg.writeCondensed {
		return nil, fmt.Errorf("%w: write the filtered data, the condensed data or both", ErrConfiguration)
	}

	if cfg.numPix < 1 {
		return nil, fmt.Errorf("%w: pixel group must be >= 1: %d", ErrConfiguration, cfg.numPix)
	}
	if f.rows%cfg.numPix != 0 {
		return nil, fmt.Errorf("%w: %d rows are not divisible by a pixel group of %d",
			ErrConfiguration, f.rows, cfg.numPix)
	}
	f.effectiveRows = f.rows / cfg.numPix

	if cfg.cores < 0 || cfg.maxMemMB < 0 || cfg.rowsPerRead < 0 {
		return nil, fmt.Errorf("%w: cores, memory and rows per read must not be negative", ErrConfiguration)
	}
	f.cores = process.Cores(cfg.cores)

	if cfg.writeCondensed {
		f.hot = f.composite.HotIndices()
		for _, name := range []string{storage.PositionIndices, storage.PositionValues} {
			if _, err := storage.Aux(sess, main, name); err != nil {
				return nil, fmt.Errorf("%w: condensed output needs %s: %w", ErrConfiguration, name, err)
			}
		}
	}

	t, err := spectrum.NewTransform(f.rowLen)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	f.transform = t

	if cfg.logger == nil {
		cfg.logger = logrus.StandardLogger()
	}
	f.log = cfg.logger.WithFields(logrus.Fields{
		"component": "sigfilter",
		"dataset":   main.Path(),
	})
	f.cfg = cfg

	if cfg.resume != "" {
		out, start, err := f.attachResults(cfg.resume)
		if err != nil {
			return nil, fmt.Errorf("%w: resume %s: %w", ErrConfiguration, cfg.resume, err)
		}
		f.out, f.cursor = out, start
	}

	return f, nil
}

// Composite returns the composite filter applied to every spectrum.
func (f *Filter) Composite() Composite { return f.composite }

// Parameters returns the merged parameters of the frequency filters.
func (f *Filter) Parameters() map[string]any { return maps.Clone(f.params) }

// HotFrequencies returns the spectrum bins kept in condensed output, or nil
// when condensed output is disabled.
func (f *Filter) HotFrequencies() []int { return slices.Clone(f.hot) }

// EffectiveRows returns the number of rows after pixel grouping.
func (f *Filter) EffectiveRows() int { return f.effectiveRows }

// WritesFiltered reports whether reconstructed rows are written.
func (f *Filter) WritesFiltered() bool { return f.cfg.writeFiltered }

// WritesCondensed reports whether condensed spectra are written. It is
// false when no frequency filter was given, whatever was requested.
func (f *Filter) WritesCondensed() bool { return f.cfg.writeCondensed }

// Cursor returns the first row not yet committed.
func (f *Filter) Cursor() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cursor
}

// Results returns the results group, or nil before Compute allocates it.
func (f *Filter) Results() *storage.Group {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.out == nil {
		return nil
	}
	return f.out.group
}
