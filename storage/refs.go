package storage

import "fmt"

// Reference names linking a main dataset to its axis descriptors.
const (
	PositionIndices      = "Position_Indices"
	PositionValues       = "Position_Values"
	SpectroscopicIndices = "Spectroscopic_Indices"
	SpectroscopicValues  = "Spectroscopic_Values"
)

// Link records references from ds to each target, named after the target.
func Link(ds *Dataset, targets ...*Dataset) {
	for _, t := range targets {
		if t != nil {
			ds.SetRef(t.Name(), t.Path())
		}
	}
}

// LinkAsMain marks ds as a main dataset whose rows are described by the
// position datasets and whose columns by the spectroscopic datasets.
func LinkAsMain(ds, posInds, posVals, specInds, specVals *Dataset) {
	ds.SetRef(PositionIndices, posInds.Path())
	ds.SetRef(PositionValues, posVals.Path())
	ds.SetRef(SpectroscopicIndices, specInds.Path())
	ds.SetRef(SpectroscopicValues, specVals.Path())
}

// Aux resolves the dataset that ds references under name.
func Aux(sess Session, ds *Dataset, name string) (*Dataset, error) {
	p, ok := ds.Ref(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no %s reference", ErrNotFound, ds.Path(), name)
	}
	return sess.Dataset(p)
}

// IsMain reports whether ds carries all four axis references.
func IsMain(ds *Dataset) bool {
	for _, name := range []string{PositionIndices, PositionValues, SpectroscopicIndices, SpectroscopicValues} {
		if _, ok := ds.Ref(name); !ok {
			return false
		}
	}
	return true
}

// CopyAttributes copies the attributes of src onto dst, and its references
// too when withRefs is set.
func CopyAttributes(src, dst *Dataset, withRefs bool) {
	dst.Attrs().Merge(src.Attrs().Snapshot())
	if !withRefs {
		return
	}
	for name, p := range src.Refs() {
		dst.SetRef(name, p)
	}
}
