package storage

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// blob is the byte payload behind one dataset.
type blob interface {
	io.ReaderAt
	io.WriterAt
	Sync() error
	Close() error
}

type memBlob struct {
	mu   sync.RWMutex
	data []byte
}

func newMemBlob(size int64) *memBlob {
	return &memBlob{data: make([]byte, size)}
}

func (m *memBlob) ReadAt(p []byte, off int64) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if off < 0 || off+int64(len(p)) > int64(len(m.data)) {
		return 0, io.ErrUnexpectedEOF
	}
	return copy(p, m.data[off:]), nil
}

func (m *memBlob) WriteAt(p []byte, off int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if off < 0 || off+int64(len(p)) > int64(len(m.data)) {
		return 0, io.ErrShortWrite
	}
	return copy(m.data[off:], p), nil
}

func (m *memBlob) Sync() error  { return nil }
func (m *memBlob) Close() error { return nil }

// createFileBlob creates a zero-filled payload file of the given size.
func createFileBlob(path string, size int64) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("storage: create payload: %w", err)
	}
	if err := f.Truncate(size); err != nil {
		f.Close()
		return nil, fmt.Errorf("storage: size payload: %w", err)
	}
	return f, nil
}

func openFileBlob(path string, size int64) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("storage: open payload: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("storage: stat payload: %w", err)
	}
	if info.Size() != size {
		f.Close()
		return nil, fmt.Errorf("%w: payload %s has %d bytes, want %d", ErrShape, path, info.Size(), size)
	}
	return f, nil
}
