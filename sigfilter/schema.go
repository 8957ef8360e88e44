package sigfilter

import (
	"fmt"
	"maps"
	"slices"

	"github.com/cwbudde/algo-sigfilter/storage"
)

const (
	groupSuffix   = "-FFT_Filtering_"
	algorithmTag  = "GmodeUtils-Parallel"
	lastPixelAttr = "last_pixel"
	compression   = "gzip"
	hotAxisLabel  = "hot_frequencies"
	pixelAxis     = "Effective_Pixel"

	CompositeFilterName = "Composite_Filter"
	NoiseFloorsName     = "Noise_Floors"
	FilteredDataName    = "Filtered_Data"
	CondensedDataName   = "Condensed_Data"
)

// results holds the datasets a run writes into. Absent outputs are nil.
type results struct {
	group     *storage.Group
	composite *storage.Dataset
	floors    *storage.Dataset
	filtered  *storage.Dataset
	condensed *storage.Dataset
}

// ResumeRow returns the committed row count recorded on a results group.
func ResumeRow(g *storage.Group) (int, bool) {
	return g.Attrs().Int(lastPixelAttr)
}

func (f *Filter) groupAttrs() map[string]any {
	attrs := maps.Clone(f.params)
	attrs["algorithm"] = algorithmTag
	attrs["num_pix"] = f.cfg.numPix
	attrs[lastPixelAttr] = 0
	if f.cfg.hasThreshold {
		attrs["noise_threshold"] = f.cfg.noiseThreshold
		attrs["noise_method"] = f.cfg.noiseMethod.String()
	}
	if f.cfg.phase != 0 {
		attrs["phase_rad"] = f.cfg.phase
	}
	return attrs
}

// createResults allocates every output dataset in one batch, links them and
// flushes the empty layout.
func (f *Filter) createResults() (*results, error) {
	spec := storage.GroupSpec{
		Name:  f.main.Name() + groupSuffix,
		Attrs: f.groupAttrs(),
	}

	if !f.composite.IsIdentity() {
		spec.Datasets = append(spec.Datasets, storage.DatasetSpec{
			Name:  CompositeFilterName,
			DType: storage.Float32,
			Shape: []int{f.composite.Len()},
			Real:  f.composite.Weights(),
		})
	}
	if f.cfg.hasThreshold {
		spec.Datasets = append(spec.Datasets, storage.DatasetSpec{
			Name:  NoiseFloorsName,
			DType: storage.Float32,
			Shape: []int{f.effectiveRows},
		})
	}
	if f.cfg.writeFiltered {
		spec.Datasets = append(spec.Datasets, storage.DatasetSpec{
			Name:        FilteredDataName,
			DType:       storage.Float32,
			Shape:       f.main.Shape(),
			MaxShape:    f.main.MaxShape(),
			Chunks:      f.main.Chunks(),
			Compression: compression,
		})
	}

	var reducedPos bool
	if f.cfg.writeCondensed {
		h := len(f.hot)
		specInds, specVals, err := storage.BuildIndexValues([]int{h}, true, []string{hotAxisLabel}, []string{""})
		if err != nil {
			return nil, err
		}
		for i, bin := range f.hot {
			specVals.Real[i] = float64(bin)
		}
		spec.Datasets = append(spec.Datasets, specInds, specVals, storage.DatasetSpec{
			Name:        CondensedDataName,
			DType:       storage.Complex128,
			Shape:       []int{f.effectiveRows, h},
			Chunks:      []int{1, h},
			Compression: compression,
		})

		if f.cfg.numPix > 1 {
			posInds, posVals, err := f.reducedPositions()
			if err != nil {
				return nil, err
			}
			spec.Datasets = append(spec.Datasets, posInds, posVals)
			reducedPos = true
		}
	}

	g, dsets, err := storage.WriteTree(f.sess, f.main.Parent(), spec)
	if err != nil {
		return nil, err
	}
	out := &results{
		group:     g,
		composite: dsets[CompositeFilterName],
		floors:    dsets[NoiseFloorsName],
		filtered:  dsets[FilteredDataName],
		condensed: dsets[CondensedDataName],
	}

	if out.filtered != nil {
		storage.CopyAttributes(f.main, out.filtered, true)
		storage.Link(out.filtered, out.composite, out.floors)
	}
	if out.condensed != nil {
		storage.Link(out.condensed, out.composite, out.floors)

		posInds, posVals := dsets[storage.PositionIndices], dsets[storage.PositionValues]
		if !reducedPos {
			if posInds, err = storage.Aux(f.sess, f.main, storage.PositionIndices); err != nil {
				return nil, err
			}
			if posVals, err = storage.Aux(f.sess, f.main, storage.PositionValues); err != nil {
				return nil, err
			}
		}
		storage.LinkAsMain(out.condensed, posInds, posVals,
			dsets[storage.SpectroscopicIndices], dsets[storage.SpectroscopicValues])
	}

	if err := f.sess.Flush(); err != nil {
		return nil, err
	}
	return out, nil
}

// reducedPositions describes the position axes of the effective rows. Each
// dimension keeps its unique index count divided by the pixel group. When
// that does not account for every effective row, only the fastest dimension
// is reduced, and failing that the rows are laid out along one axis.
// Values are taken from every numPix-th input row.
func (f *Filter) reducedPositions() (inds, vals storage.DatasetSpec, err error) {
	srcInds, err := storage.Aux(f.sess, f.main, storage.PositionIndices)
	if err != nil {
		return inds, vals, err
	}
	srcVals, err := storage.Aux(f.sess, f.main, storage.PositionValues)
	if err != nil {
		return inds, vals, err
	}

	ndims := srcInds.RowWidth()
	flat, err := srcInds.ReadReal(0, srcInds.Rows())
	if err != nil {
		return inds, vals, err
	}

	numPix := f.cfg.numPix
	unique := make([]int, ndims)
	for d := range unique {
		seen := map[float64]struct{}{}
		for r := range srcInds.Rows() {
			seen[flat[r*ndims+d]] = struct{}{}
		}
		unique[d] = len(seen)
	}

	labels, okL := srcInds.Attrs().Strings("labels")
	units, okU := srcInds.Attrs().Strings("units")
	named := okL && okU && len(labels) == ndims && len(units) == ndims

	dims := make([]int, ndims)
	for d, u := range unique {
		dims[d] = u / numPix
	}
	if product(dims) != f.effectiveRows && ndims > 0 {
		copy(dims, unique)
		dims[0] /= numPix
	}
	if !named || ndims == 0 || product(dims) != f.effectiveRows {
		return storage.BuildIndexValues([]int{f.effectiveRows}, false, []string{pixelAxis}, []string{""})
	}

	inds, vals, err = storage.BuildIndexValues(dims, false, labels, units)
	if err != nil {
		return inds, vals, err
	}
	if srcVals.RowWidth() != ndims || srcVals.Rows() < f.rows {
		return inds, vals, nil
	}
	src, err := srcVals.ReadReal(0, f.rows)
	if err != nil {
		return inds, vals, err
	}
	for r := range f.effectiveRows {
		at := r * numPix * ndims
		copy(vals.Real[r*ndims:(r+1)*ndims], src[at:at+ndims])
	}
	return inds, vals, nil
}

func product(dims []int) int {
	p := 1
	for _, d := range dims {
		p *= d
	}
	return p
}

// attachResults binds to the datasets of an earlier run for resumption.
func (f *Filter) attachResults(path string) (*results, int, error) {
	g, err := f.sess.Group(path)
	if err != nil {
		return nil, 0, err
	}

	need := func(name string, shape []int) (*storage.Dataset, error) {
		ds, ok := g.Dataset(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s/%s", storage.ErrNotFound, path, name)
		}
		if got := ds.Shape(); !slices.Equal(got, shape) {
			return nil, fmt.Errorf("%w: %s has shape %v, want %v", storage.ErrShape, ds.Path(), got, shape)
		}
		return ds, nil
	}

	out := &results{group: g}
	if !f.composite.IsIdentity() {
		if out.composite, err = need(CompositeFilterName, []int{f.composite.Len()}); err != nil {
			return nil, 0, err
		}
	}
	if f.cfg.hasThreshold {
		if out.floors, err = need(NoiseFloorsName, []int{f.effectiveRows}); err != nil {
			return nil, 0, err
		}
	}
	if f.cfg.writeFiltered {
		if out.filtered, err = need(FilteredDataName, []int{f.rows, f.rowLen}); err != nil {
			return nil, 0, err
		}
	}
	if f.cfg.writeCondensed {
		if out.condensed, err = need(CondensedDataName, []int{f.effectiveRows, len(f.hot)}); err != nil {
			return nil, 0, err
		}
	}

	start, ok := ResumeRow(g)
	if !ok {
		return nil, 0, fmt.Errorf("%w: %s has no %s", storage.ErrNotFound, path, lastPixelAttr)
	}
	if start < 0 || start > f.rows || start%f.cfg.numPix != 0 {
		return nil, 0, fmt.Errorf("%s %d is not a pixel group boundary within %d rows", lastPixelAttr, start, f.rows)
	}
	return out, start, nil
}
