package process

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// ErrInvalidRange reports a start row or chunk size the source cannot serve.
var ErrInvalidRange = errors.New("process: invalid row range")

// RowSource is a 2-D array readable by row range.
type RowSource interface {
	Rows() int
	RowWidth() int
	ReadReal(start, end int) ([]float64, error)
}

// Chunk is a contiguous block of rows [Start, End).
type Chunk struct {
	Start int
	End   int
	Rows  [][]float64
}

// Len returns the number of rows in the chunk.
func (c Chunk) Len() int { return c.End - c.Start }

// Reader returns consecutive chunks of a [RowSource].
type Reader struct {
	src    RowSource
	pos    int
	size   int
	logger logrus.FieldLogger
}

// NewReader returns a reader that starts at row start and returns up to size
// rows per chunk.
func NewReader(src RowSource, start, size int, logger logrus.FieldLogger) (*Reader, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d", ErrInvalidRange, size)
	}
	if start < 0 || start > src.Rows() {
		return nil, fmt.Errorf("%w: start row %d outside [0,%d]", ErrInvalidRange, start, src.Rows())
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Reader{src: src, pos: start, size: size, logger: logger}, nil
}

// Pos returns the first row the next chunk will contain.
func (r *Reader) Pos() int { return r.pos }

// Size returns the configured chunk size.
func (r *Reader) Size() int { return r.size }

// Next reads the next chunk. It returns io.EOF when no rows remain.
func (r *Reader) Next() (Chunk, error) {
	total := r.src.Rows()
	if r.pos >= total {
		return Chunk{}, io.EOF
	}

	end := min(r.pos+r.size, total)
	flat, err := r.src.ReadReal(r.pos, end)
	if err != nil {
		return Chunk{}, fmt.Errorf("process: read rows [%d,%d): %w", r.pos, end, err)
	}

	width := r.src.RowWidth()
	c := Chunk{Start: r.pos, End: end, Rows: make([][]float64, end-r.pos)}
	for i := range c.Rows {
		c.Rows[i] = flat[i*width : (i+1)*width : (i+1)*width]
	}

	r.logger.WithFields(logrus.Fields{
		"component": "reader",
		"start":     c.Start,
		"end":       c.End,
	}).Debug("read chunk")

	r.pos = end
	return c, nil
}
