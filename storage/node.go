package storage

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Unlimited marks a growable axis in a dataset's maximum shape.
const Unlimited = -1

// Group is a named container of groups and datasets.
type Group struct {
	store  *Store
	name   string
	path   string
	parent *Group
	attrs  *Attributes

	groups   map[string]*Group
	datasets map[string]*Dataset
}

func newGroup(s *Store, parent *Group, name string) *Group {
	g := &Group{
		store:    s,
		name:     name,
		parent:   parent,
		attrs:    newAttributes(),
		groups:   map[string]*Group{},
		datasets: map[string]*Dataset{},
	}
	g.path = joinPath(parent, name)
	return g
}

// Name returns the last path element.
func (g *Group) Name() string { return g.name }

// Path returns the absolute path of the group.
func (g *Group) Path() string { return g.path }

// Parent returns the enclosing group, or nil for the root.
func (g *Group) Parent() *Group { return g.parent }

// Attrs returns the group attributes.
func (g *Group) Attrs() *Attributes { return g.attrs }

// Groups returns the sorted names of child groups.
func (g *Group) Groups() []string {
	g.store.mu.RLock()
	defer g.store.mu.RUnlock()
	return slices.Sorted(maps.Keys(g.groups))
}

// Datasets returns the sorted names of child datasets.
func (g *Group) Datasets() []string {
	g.store.mu.RLock()
	defer g.store.mu.RUnlock()
	return slices.Sorted(maps.Keys(g.datasets))
}

// Dataset returns the child dataset called name.
func (g *Group) Dataset(name string) (*Dataset, bool) {
	g.store.mu.RLock()
	defer g.store.mu.RUnlock()
	ds, ok := g.datasets[name]
	return ds, ok
}

// Group returns the child group called name.
func (g *Group) Group(name string) (*Group, bool) {
	g.store.mu.RLock()
	defer g.store.mu.RUnlock()
	c, ok := g.groups[name]
	return c, ok
}

func joinPath(parent *Group, name string) string {
	switch {
	case parent == nil:
		return "/"
	case parent.path == "/":
		return "/" + name
	default:
		return parent.path + "/" + name
	}
}

// Dataset is a fixed-size, row-major array of one element type.
//
// The first axis indexes rows. Reads and writes address whole rows; values
// are flattened row-major, so a call covering k rows moves k*RowWidth()
// elements.
type Dataset struct {
	store  *Store
	name   string
	path   string
	parent *Group

	dtype       DType
	shape       []int
	maxShape    []int
	chunks      []int
	compression string
	attrs       *Attributes

	mu   sync.RWMutex
	refs map[string]string

	blob     blob
	blobName string
}

// Name returns the last path element.
func (d *Dataset) Name() string { return d.name }

// Path returns the absolute path of the dataset.
func (d *Dataset) Path() string { return d.path }

// Parent returns the enclosing group.
func (d *Dataset) Parent() *Group { return d.parent }

// DType returns the element type.
func (d *Dataset) DType() DType { return d.dtype }

// Shape returns a copy of the dataset shape.
func (d *Dataset) Shape() []int { return slices.Clone(d.shape) }

// MaxShape returns a copy of the maximum shape. [Unlimited] marks growable axes.
func (d *Dataset) MaxShape() []int { return slices.Clone(d.maxShape) }

// Chunks returns a copy of the chunk shape, or nil when contiguous.
func (d *Dataset) Chunks() []int { return slices.Clone(d.chunks) }

// Compression returns the compression tag recorded at creation.
func (d *Dataset) Compression() string { return d.compression }

// Attrs returns the dataset attributes.
func (d *Dataset) Attrs() *Attributes { return d.attrs }

// Rows returns the length of the first axis.
func (d *Dataset) Rows() int {
	if len(d.shape) == 0 {
		return 0
	}
	return d.shape[0]
}

// RowWidth returns the number of elements per row.
func (d *Dataset) RowWidth() int {
	w := 1
	for _, n := range d.shape[1:] {
		w *= n
	}
	return w
}

// Growable reports whether the first axis may grow.
func (d *Dataset) Growable() bool {
	return len(d.maxShape) > 0 && d.maxShape[0] == Unlimited
}

// Ref returns the path referenced under name.
func (d *Dataset) Ref(name string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.refs[name]
	return p, ok
}

// SetRef records a reference to path under name.
func (d *Dataset) SetRef(name, path string) {
	d.mu.Lock()
	d.refs[name] = path
	d.mu.Unlock()
}

// Refs returns a copy of all references.
func (d *Dataset) Refs() map[string]string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return maps.Clone(d.refs)
}

func (d *Dataset) span(start, rows int) (off int64, n int, err error) {
	if start < 0 || rows < 0 || start+rows > d.Rows() {
		return 0, 0, fmt.Errorf("%w: rows [%d,%d) outside %s of %d rows", ErrShape, start, start+rows, d.path, d.Rows())
	}
	width := d.RowWidth()
	return int64(start) * int64(width) * int64(d.dtype.Size()), rows * width, nil
}

func (d *Dataset) rowsFor(values int) (int, error) {
	width := d.RowWidth()
	if width == 0 {
		if values != 0 {
			return 0, fmt.Errorf("%w: %s has zero-width rows", ErrShape, d.path)
		}
		return 0, nil
	}
	if values%width != 0 {
		return 0, fmt.Errorf("%w: %d values is not a whole number of %d-wide rows in %s", ErrShape, values, width, d.path)
	}
	return values / width, nil
}

// ReadReal returns rows [start, end) as float64 values. Complex elements
// contribute their real part.
func (d *Dataset) ReadReal(start, end int) ([]float64, error) {
	raw, err := d.read(start, end)
	if err != nil {
		return nil, err
	}
	size := d.dtype.Size()
	out := make([]float64, len(raw)/size)
	for i := range out {
		out[i] = d.dtype.getReal(raw[i*size:])
	}
	return out, nil
}

// ReadComplex returns rows [start, end) as complex128 values.
func (d *Dataset) ReadComplex(start, end int) ([]complex128, error) {
	raw, err := d.read(start, end)
	if err != nil {
		return nil, err
	}
	size := d.dtype.Size()
	out := make([]complex128, len(raw)/size)
	for i := range out {
		out[i] = d.dtype.getComplex(raw[i*size:])
	}
	return out, nil
}

// WriteReal stores values as whole rows starting at row start.
func (d *Dataset) WriteReal(start int, values []float64) error {
	rows, err := d.rowsFor(len(values))
	if err != nil {
		return err
	}
	size := d.dtype.Size()
	raw := make([]byte, len(values)*size)
	for i, v := range values {
		d.dtype.putReal(raw[i*size:], v)
	}
	return d.write(start, rows, raw)
}

// WriteComplex stores values as whole rows starting at row start. The
// dataset must have a complex element type.
func (d *Dataset) WriteComplex(start int, values []complex128) error {
	if !d.dtype.IsComplex() {
		return fmt.Errorf("%w: cannot store complex values in %s dataset %s", ErrDType, d.dtype, d.path)
	}
	rows, err := d.rowsFor(len(values))
	if err != nil {
		return err
	}
	size := d.dtype.Size()
	raw := make([]byte, len(values)*size)
	for i, v := range values {
		d.dtype.putComplex(raw[i*size:], v)
	}
	return d.write(start, rows, raw)
}

func (d *Dataset) read(start, end int) ([]byte, error) {
	if err := d.store.checkOpen(); err != nil {
		return nil, err
	}
	off, n, err := d.span(start, end-start)
	if err != nil {
		return nil, err
	}
	raw := make([]byte, n*d.dtype.Size())
	if len(raw) == 0 {
		return raw, nil
	}
	if _, err := d.blob.ReadAt(raw, off); err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", d.path, err)
	}
	return raw, nil
}

func (d *Dataset) write(start, rows int, raw []byte) error {
	if err := d.store.checkOpen(); err != nil {
		return err
	}
	off, _, err := d.span(start, rows)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}
	if _, err := d.blob.WriteAt(raw, off); err != nil {
		return fmt.Errorf("storage: write %s: %w", d.path, err)
	}
	return nil
}
