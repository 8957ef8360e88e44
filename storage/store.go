package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// Errors returned by the store.
var (
	ErrNotFound = errors.New("storage: not found")
	ErrExists   = errors.New("storage: already exists")
	ErrShape    = errors.New("storage: shape mismatch")
	ErrDType    = errors.New("storage: unsupported dtype")
	ErrClosed   = errors.New("storage: store closed")
)

// Session is the storage contract consumed by processing code. Its lifetime
// is owned by the caller.
type Session interface {
	Root() *Group
	Group(path string) (*Group, error)
	Dataset(path string) (*Dataset, error)
	CreateGroup(parent *Group, name string) (*Group, error)
	CreateDataset(parent *Group, spec DatasetSpec) (*Dataset, error)
	Flush() error
}

// DatasetSpec describes a dataset to allocate.
type DatasetSpec struct {
	Name  string
	DType DType
	Shape []int
	// MaxShape defaults to Shape. Use Unlimited for growable axes.
	MaxShape    []int
	Chunks      []int
	Compression string
	Attrs       map[string]any

	// Optional initial contents, row-major. At most one may be set.
	Real    []float64
	Complex []complex128
}

func (s DatasetSpec) validate() error {
	if err := validName(s.Name); err != nil {
		return err
	}
	if s.DType.Size() == 0 {
		return fmt.Errorf("%w: %s for %s", ErrDType, s.DType, s.Name)
	}
	if len(s.Shape) == 0 {
		return fmt.Errorf("%w: %s needs at least one axis", ErrShape, s.Name)
	}
	for _, n := range s.Shape {
		if n < 0 {
			return fmt.Errorf("%w: negative axis in %s: %v", ErrShape, s.Name, s.Shape)
		}
	}
	if s.MaxShape != nil {
		if len(s.MaxShape) != len(s.Shape) {
			return fmt.Errorf("%w: max shape %v does not match %v for %s", ErrShape, s.MaxShape, s.Shape, s.Name)
		}
		for i, m := range s.MaxShape {
			if m != Unlimited && m < s.Shape[i] {
				return fmt.Errorf("%w: max shape %v below %v for %s", ErrShape, s.MaxShape, s.Shape, s.Name)
			}
		}
	}
	if s.Chunks != nil && len(s.Chunks) != len(s.Shape) {
		return fmt.Errorf("%w: chunks %v do not match %v for %s", ErrShape, s.Chunks, s.Shape, s.Name)
	}
	if s.Real != nil && s.Complex != nil {
		return fmt.Errorf("%w: %s has both real and complex initial data", ErrShape, s.Name)
	}
	return nil
}

func (s DatasetSpec) elements() int {
	n := 1
	for _, d := range s.Shape {
		n *= d
	}
	return n
}

// Store is a [Session] backed by memory or by a directory.
type Store struct {
	mu       sync.RWMutex
	dir      string
	root     *Group
	datasets []*Dataset
	nextBlob int
	closed   bool
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Store {
	s := &Store{}
	s.root = newGroup(s, nil, "")
	return s
}

// Open opens the directory store at dir, creating it if needed.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(dir, payloadDir), 0o755); err != nil {
		return nil, fmt.Errorf("storage: create store: %w", err)
	}

	s := &Store{dir: dir}
	s.root = newGroup(s, nil, "")

	if err := s.load(); err != nil {
		s.closeBlobs()
		return nil, err
	}
	return s, nil
}

// Dir returns the backing directory, or "" for memory stores.
func (s *Store) Dir() string { return s.dir }

// Root returns the root group.
func (s *Store) Root() *Group { return s.root }

func (s *Store) checkOpen() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

// Group resolves an absolute group path.
func (s *Store) Group(path string) (*Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookupGroup(path)
}

func (s *Store) lookupGroup(path string) (*Group, error) {
	g := s.root
	for _, part := range splitPath(path) {
		next, ok := g.groups[part]
		if !ok {
			return nil, fmt.Errorf("%w: group %s", ErrNotFound, path)
		}
		g = next
	}
	return g, nil
}

// Dataset resolves an absolute dataset path.
func (s *Store) Dataset(path string) (*Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	parts := splitPath(path)
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: dataset %q", ErrNotFound, path)
	}
	g, err := s.lookupGroup(strings.Join(parts[:len(parts)-1], "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: dataset %s", ErrNotFound, path)
	}
	ds, ok := g.datasets[parts[len(parts)-1]]
	if !ok {
		return nil, fmt.Errorf("%w: dataset %s", ErrNotFound, path)
	}
	return ds, nil
}

// CreateGroup adds a child group. A name ending in "_" receives the next
// free three-digit index, so "run_" becomes "run_000", then "run_001".
func (s *Store) CreateGroup(parent *Group, name string) (*Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	if parent == nil {
		parent = s.root
	}
	if strings.HasSuffix(name, "_") {
		name = nextIndexed(parent, name)
	}
	if err := validName(name); err != nil {
		return nil, err
	}
	if parent.taken(name) {
		return nil, fmt.Errorf("%w: %s", ErrExists, joinPath(parent, name))
	}

	g := newGroup(s, parent, name)
	parent.groups[name] = g
	return g, nil
}

// CreateDataset allocates a zero-filled dataset and applies the spec's
// initial data and attributes.
func (s *Store) CreateDataset(parent *Group, spec DatasetSpec) (*Dataset, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	if parent == nil {
		parent = s.root
	}
	if parent.taken(spec.Name) {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrExists, joinPath(parent, spec.Name))
	}

	ds := &Dataset{
		store:       s,
		name:        spec.Name,
		path:        joinPath(parent, spec.Name),
		parent:      parent,
		dtype:       spec.DType,
		shape:       slices.Clone(spec.Shape),
		maxShape:    slices.Clone(spec.MaxShape),
		chunks:      slices.Clone(spec.Chunks),
		compression: spec.Compression,
		attrs:       newAttributes(),
		refs:        map[string]string{},
	}
	if ds.maxShape == nil {
		ds.maxShape = slices.Clone(spec.Shape)
	}
	ds.attrs.Merge(spec.Attrs)

	size := int64(spec.elements()) * int64(spec.DType.Size())
	if err := s.allocate(ds, size); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	parent.datasets[spec.Name] = ds
	s.datasets = append(s.datasets, ds)
	s.mu.Unlock()

	switch {
	case spec.Real != nil:
		if err := ds.WriteReal(0, spec.Real); err != nil {
			return nil, err
		}
	case spec.Complex != nil:
		if err := ds.WriteComplex(0, spec.Complex); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

func (s *Store) allocate(ds *Dataset, size int64) error {
	if s.dir == "" {
		ds.blob = newMemBlob(size)
		return nil
	}

	ds.blobName = fmt.Sprintf("%06d.bin", s.nextBlob)
	s.nextBlob++
	f, err := createFileBlob(filepath.Join(s.dir, payloadDir, ds.blobName), size)
	if err != nil {
		return err
	}
	ds.blob = f
	return nil
}

// Flush makes every completed write durable. Directory stores sync all
// payloads before replacing the index.
func (s *Store) Flush() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ErrClosed
	}
	if s.dir == "" {
		return nil
	}
	for _, ds := range s.datasets {
		if err := ds.blob.Sync(); err != nil {
			return fmt.Errorf("storage: sync %s: %w", ds.path, err)
		}
	}
	return s.writeIndex()
}

// Close flushes and releases the store.
func (s *Store) Close() error {
	if err := s.Flush(); err != nil && !errors.Is(err, ErrClosed) {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.closeBlobs()
}

func (s *Store) closeBlobs() error {
	var errs []error
	for _, ds := range s.datasets {
		if ds.blob != nil {
			errs = append(errs, ds.blob.Close())
		}
	}
	return errors.Join(errs...)
}

func (g *Group) taken(name string) bool {
	_, isGroup := g.groups[name]
	_, isDataset := g.datasets[name]
	return isGroup || isDataset
}

func nextIndexed(parent *Group, prefix string) string {
	for i := 0; ; i++ {
		name := fmt.Sprintf("%s%03d", prefix, i)
		if !parent.taken(name) {
			return name
		}
	}
}

func validName(name string) error {
	if name == "" || name == "." || name == ".." || strings.Contains(name, "/") {
		return fmt.Errorf("storage: invalid name %q", name)
	}
	return nil
}

func splitPath(path string) []string {
	var out []string
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
