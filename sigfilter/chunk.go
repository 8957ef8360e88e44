package sigfilter

import (
	"context"

	"github.com/cwbudde/algo-sigfilter/dsp/noise"
	"github.com/cwbudde/algo-sigfilter/dsp/spectrum"
	"github.com/cwbudde/algo-sigfilter/process"
)

// suppressed replaces bins below the noise floor. It is not zero so that
// downstream ratios stay finite.
const suppressed = complex(1e-16, 0)

// chunkResult holds the outputs for input rows [start, end), flattened
// row-major. Outputs that are not configured are nil. condensed and floors
// are already reduced to effective rows.
type chunkResult struct {
	start, end int
	filtered   []float64
	condensed  []complex128
	floors     []float64
}

// processChunk transforms one chunk. It performs no I/O.
func (f *Filter) processChunk(ctx context.Context, c process.Chunk) (chunkResult, error) {
	res := chunkResult{start: c.Start, end: c.End}
	n, width := len(c.Rows), f.rowLen

	spectra := make([][]complex128, n)
	for i, row := range c.Rows {
		spectra[i] = make([]complex128, width)
		if err := f.transform.ForwardReal(spectra[i], row); err != nil {
			return res, err
		}
		spectrum.Shift(spectra[i])
	}

	var floors []float64
	if f.cfg.hasThreshold {
		var err error
		floors, err = process.Map(ctx, n, f.cores, func(_ context.Context, i int) (float64, error) {
			return noise.Floor(f.cfg.noiseMethod, spectra[i], f.cfg.noiseThreshold), nil
		})
		if err != nil {
			return res, err
		}
	}

	mag := make([]float64, width)
	for i, bins := range spectra {
		f.composite.Apply(bins)
		if floors != nil {
			suppress(bins, mag, floors[i])
		}
	}

	numPix := f.cfg.numPix
	if floors != nil {
		res.floors = meanRows(floors, 1, numPix)
	}

	if f.cfg.writeCondensed {
		h := len(f.hot)
		cond := make([]complex128, n*h)
		for i, bins := range spectra {
			for j, bin := range f.hot {
				cond[i*h+j] = bins[bin]
			}
		}
		res.condensed = meanRowsComplex(cond, h, numPix)
	}

	if f.cfg.writeFiltered {
		res.filtered = make([]float64, n*width)
		for i, bins := range spectra {
			row := res.filtered[i*width : (i+1)*width]
			spectrum.InverseShift(bins)
			if err := f.transform.InverseReal(row, bins); err != nil {
				return res, err
			}
			if f.cfg.phase > 0 && f.cfg.corrector != nil {
				f.cfg.corrector.Correct(row, f.cfg.phase)
			}
		}
	}

	return res, nil
}

// suppress replaces every bin whose magnitude is below floor. mag is scratch
// of the same length as bins.
func suppress(bins []complex128, mag []float64, floor float64) {
	spectrum.MagnitudeInto(mag, bins)
	for k, m := range mag {
		if m < floor {
			bins[k] = suppressed
		}
	}
}

// meanRows averages each run of group consecutive rows of width values.
func meanRows(vals []float64, width, group int) []float64 {
	if group == 1 || width == 0 {
		return vals
	}
	rows := len(vals) / width
	out := make([]float64, rows/group*width)
	for r := range rows {
		dst := out[r/group*width : (r/group+1)*width]
		for j, v := range vals[r*width : (r+1)*width] {
			dst[j] += v
		}
	}
	scale := 1 / float64(group)
	for i := range out {
		out[i] *= scale
	}
	return out
}

func meanRowsComplex(vals []complex128, width, group int) []complex128 {
	if group == 1 || width == 0 {
		return vals
	}
	rows := len(vals) / width
	out := make([]complex128, rows/group*width)
	for r := range rows {
		dst := out[r/group*width : (r/group+1)*width]
		for j, v := range vals[r*width : (r+1)*width] {
			dst[j] += v
		}
	}
	scale := complex(1/float64(group), 0)
	for i := range out {
		out[i] *= scale
	}
	return out
}
