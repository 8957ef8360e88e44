package storage

import "fmt"

// BuildIndexValues returns index and value dataset specs for a grid of the
// given dimensions. The first dimension varies fastest. Position datasets
// have one row per grid point and one column per dimension; spectroscopic
// datasets are transposed. Values start at 0 and step by 1 along each
// dimension; callers override them when the axis has physical values.
func BuildIndexValues(dims []int, spectral bool, labels, units []string) (inds, vals DatasetSpec, err error) {
	if len(dims) == 0 {
		return inds, vals, fmt.Errorf("%w: no dimensions", ErrShape)
	}
	if len(labels) != len(dims) || len(units) != len(dims) {
		return inds, vals, fmt.Errorf("%w: %d dimensions need as many labels and units, got %d and %d",
			ErrShape, len(dims), len(labels), len(units))
	}

	points := 1
	for _, d := range dims {
		if d < 0 {
			return inds, vals, fmt.Errorf("%w: negative dimension %v", ErrShape, dims)
		}
		points *= d
	}

	ndims := len(dims)
	grid := make([]float64, points*ndims)
	stride := 1
	for d, size := range dims {
		for p := 0; p < points; p++ {
			v := float64((p / stride) % size)
			if spectral {
				grid[d*points+p] = v
			} else {
				grid[p*ndims+d] = v
			}
		}
		stride *= size
	}

	shape := []int{points, ndims}
	indName, valName := PositionIndices, PositionValues
	if spectral {
		shape = []int{ndims, points}
		indName, valName = SpectroscopicIndices, SpectroscopicValues
	}

	attrs := func() map[string]any {
		return map[string]any{
			"labels": append([]string(nil), labels...),
			"units":  append([]string(nil), units...),
		}
	}

	inds = DatasetSpec{Name: indName, DType: Uint32, Shape: shape, Attrs: attrs(), Real: grid}
	vals = DatasetSpec{Name: valName, DType: Float32, Shape: append([]int(nil), shape...), Attrs: attrs(),
		Real: append([]float64(nil), grid...)}
	return inds, vals, nil
}
