package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

const (
	indexName    = "index.json"
	payloadDir   = "data"
	indexVersion = 1
)

type indexFile struct {
	Version  int             `json:"version"`
	NextBlob int             `json:"next_blob"`
	Groups   []groupRecord   `json:"groups"`
	Datasets []datasetRecord `json:"datasets"`
}

type groupRecord struct {
	Path  string         `json:"path"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

type datasetRecord struct {
	Path        string            `json:"path"`
	DType       string            `json:"dtype"`
	Shape       []int             `json:"shape"`
	MaxShape    []int             `json:"max_shape"`
	Chunks      []int             `json:"chunks,omitempty"`
	Compression string            `json:"compression,omitempty"`
	Attrs       map[string]any    `json:"attrs,omitempty"`
	Refs        map[string]string `json:"refs,omitempty"`
	Blob        string            `json:"blob"`
}

// writeIndex atomically replaces the index. Callers hold s.mu.
func (s *Store) writeIndex() error {
	idx := indexFile{Version: indexVersion, NextBlob: s.nextBlob}

	var walk func(g *Group)
	walk = func(g *Group) {
		idx.Groups = append(idx.Groups, groupRecord{Path: g.path, Attrs: g.attrs.Snapshot()})
		for _, name := range slices.Sorted(maps.Keys(g.groups)) {
			walk(g.groups[name])
		}
	}
	walk(s.root)

	for _, ds := range s.datasets {
		idx.Datasets = append(idx.Datasets, datasetRecord{
			Path:        ds.path,
			DType:       ds.dtype.String(),
			Shape:       ds.shape,
			MaxShape:    ds.maxShape,
			Chunks:      ds.chunks,
			Compression: ds.compression,
			Attrs:       ds.attrs.Snapshot(),
			Refs:        ds.Refs(),
			Blob:        ds.blobName,
		})
	}

	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: encode index: %w", err)
	}

	final := filepath.Join(s.dir, indexName)
	tmp := final + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("storage: write index: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("storage: write index: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("storage: sync index: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("storage: close index: %w", err)
	}
	if err := os.Rename(tmp, final); err != nil {
		return fmt.Errorf("storage: replace index: %w", err)
	}
	return nil
}

// load rebuilds the tree from the index, if one exists.
func (s *Store) load() error {
	data, err := os.ReadFile(filepath.Join(s.dir, indexName))
	if errors.Is(err, fs.ErrNotExist) {
		return s.writeIndex()
	}
	if err != nil {
		return fmt.Errorf("storage: read index: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var idx indexFile
	if err := dec.Decode(&idx); err != nil {
		return fmt.Errorf("storage: decode index: %w", err)
	}
	if idx.Version != indexVersion {
		return fmt.Errorf("storage: unsupported index version %d", idx.Version)
	}
	s.nextBlob = idx.NextBlob

	// Parents precede children because paths are shorter.
	slices.SortFunc(idx.Groups, func(a, b groupRecord) int {
		return strings.Count(a.Path, "/") - strings.Count(b.Path, "/")
	})
	for _, rec := range idx.Groups {
		g, err := s.ensureGroup(rec.Path)
		if err != nil {
			return err
		}
		g.attrs.Merge(rec.Attrs)
	}

	for _, rec := range idx.Datasets {
		if err := s.loadDataset(rec); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) ensureGroup(path string) (*Group, error) {
	g := s.root
	for _, part := range splitPath(path) {
		next, ok := g.groups[part]
		if !ok {
			if err := validName(part); err != nil {
				return nil, err
			}
			next = newGroup(s, g, part)
			g.groups[part] = next
		}
		g = next
	}
	return g, nil
}

func (s *Store) loadDataset(rec datasetRecord) error {
	parts := splitPath(rec.Path)
	if len(parts) == 0 {
		return fmt.Errorf("storage: invalid dataset path %q in index", rec.Path)
	}
	parent, err := s.ensureGroup(strings.Join(parts[:len(parts)-1], "/"))
	if err != nil {
		return err
	}
	dtype, err := ParseDType(rec.DType)
	if err != nil {
		return err
	}

	ds := &Dataset{
		store:       s,
		name:        parts[len(parts)-1],
		path:        rec.Path,
		parent:      parent,
		dtype:       dtype,
		shape:       rec.Shape,
		maxShape:    rec.MaxShape,
		chunks:      rec.Chunks,
		compression: rec.Compression,
		attrs:       newAttributes(),
		refs:        map[string]string{},
		blobName:    rec.Blob,
	}
	ds.attrs.Merge(rec.Attrs)
	for k, v := range rec.Refs {
		ds.refs[k] = v
	}

	size := int64(dtype.Size())
	for _, n := range rec.Shape {
		size *= int64(n)
	}
	f, err := openFileBlob(filepath.Join(s.dir, payloadDir, rec.Blob), size)
	if err != nil {
		return err
	}
	ds.blob = f

	parent.datasets[ds.name] = ds
	s.datasets = append(s.datasets, ds)
	return nil
}
