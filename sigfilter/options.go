package sigfilter

import (
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-sigfilter/dsp/filter/freq"
	"github.com/cwbudde/algo-sigfilter/dsp/noise"
	"github.com/cwbudde/algo-sigfilter/process"
)

// Option configures a [Filter].
type Option func(*config)

type config struct {
	filters freq.Set

	noiseThreshold float64
	hasThreshold   bool
	noiseMethod    noise.Method

	writeFiltered  bool
	writeCondensed bool
	numPix         int

	phase     float64
	corrector PhaseCorrector

	verbose     bool
	cores       int
	maxMemMB    int
	rowsPerRead int
	resume      string

	logger logrus.FieldLogger
}

func defaultConfig() config {
	return config{
		noiseMethod:   noise.Percentile,
		writeFiltered: true,
		numPix:        1,
		maxMemMB:      process.DefaultMaxMemoryMB,
	}
}

// WithFrequencyFilters sets the filters composed into the composite filter.
func WithFrequencyFilters(set freq.Set) Option {
	return func(c *config) { c.filters = set }
}

// WithNoiseThreshold enables noise-floor suppression. threshold is the
// fraction of spectrum bins treated as noise and must lie in (0, 1).
func WithNoiseThreshold(threshold float64) Option {
	return func(c *config) {
		c.noiseThreshold = threshold
		c.hasThreshold = true
	}
}

// WithNoiseMethod selects the noise-floor estimator.
func WithNoiseMethod(m noise.Method) Option {
	return func(c *config) { c.noiseMethod = m }
}

// WithFiltered controls whether reconstructed rows are written.
func WithFiltered(enabled bool) Option {
	return func(c *config) { c.writeFiltered = enabled }
}

// WithCondensed controls whether hot-frequency spectra are written.
func WithCondensed(enabled bool) Option {
	return func(c *config) { c.writeCondensed = enabled }
}

// WithPixelGroup averages condensed spectra and noise floors over runs of n
// consecutive rows.
func WithPixelGroup(n int) Option {
	return func(c *config) { c.numPix = n }
}

// WithPhase sets the phase angle in radians handed to the phase corrector.
func WithPhase(rad float64) Option {
	return func(c *config) { c.phase = rad }
}

// WithPhaseCorrection installs a corrector applied to reconstructed rows
// when the phase angle is positive.
func WithPhaseCorrection(pc PhaseCorrector) Option {
	return func(c *config) { c.corrector = pc }
}

// WithVerbose logs per-chunk timings at info instead of debug level.
func WithVerbose(v bool) Option {
	return func(c *config) { c.verbose = v }
}

// WithCores bounds the noise-floor worker pool. Zero selects all CPUs but one.
func WithCores(n int) Option {
	return func(c *config) { c.cores = n }
}

// WithMaxMemoryMB bounds the memory used per chunk.
func WithMaxMemoryMB(mb int) Option {
	return func(c *config) { c.maxMemMB = mb }
}

// WithRowsPerRead fixes the chunk size instead of deriving it from the
// memory budget. It is rounded down to a multiple of the pixel group.
func WithRowsPerRead(n int) Option {
	return func(c *config) { c.rowsPerRead = n }
}

// WithResume continues the run recorded in the results group at path.
func WithResume(path string) Option {
	return func(c *config) { c.resume = path }
}

// WithLogger sets the logger. The default is the logrus standard logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *config) { c.logger = l }
}
