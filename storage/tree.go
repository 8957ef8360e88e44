package storage

import "fmt"

// GroupSpec describes a group and the datasets to allocate inside it.
type GroupSpec struct {
	// Name of the group. A trailing "_" requests an auto-numbered name.
	Name     string
	Attrs    map[string]any
	Datasets []DatasetSpec
}

// WriteTree creates the group described by spec under parent and allocates
// all of its datasets in one pass. It returns the group and its datasets by
// name.
func WriteTree(sess Session, parent *Group, spec GroupSpec) (*Group, map[string]*Dataset, error) {
	seen := map[string]bool{}
	for _, ds := range spec.Datasets {
		if err := ds.validate(); err != nil {
			return nil, nil, err
		}
		if seen[ds.Name] {
			return nil, nil, fmt.Errorf("%w: duplicate dataset %s in group spec", ErrExists, ds.Name)
		}
		seen[ds.Name] = true
	}

	g, err := sess.CreateGroup(parent, spec.Name)
	if err != nil {
		return nil, nil, err
	}
	g.Attrs().Merge(spec.Attrs)

	out := make(map[string]*Dataset, len(spec.Datasets))
	for _, dsSpec := range spec.Datasets {
		ds, err := sess.CreateDataset(g, dsSpec)
		if err != nil {
			return nil, nil, fmt.Errorf("storage: write %s: %w", dsSpec.Name, err)
		}
		out[dsSpec.Name] = ds
	}
	return g, out, nil
}
