package sigfilter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-sigfilter/process"
	"github.com/cwbudde/algo-sigfilter/storage"
)

// State is a phase of [Filter.Compute].
type State int

const (
	Initializing State = iota
	PullingChunk
	Processing
	Committing
	Draining
	Done
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case PullingChunk:
		return "pulling-chunk"
	case Processing:
		return "processing"
	case Committing:
		return "committing"
	case Draining:
		return "draining"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// bytesPerSample approximates the memory held per input sample while a
// chunk is in flight: the float64 row, its complex spectrum, the float64
// reconstruction and a complex scratch copy.
const bytesPerSample = 48

// State returns the current phase of the run.
func (f *Filter) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Filter) setState(s State) {
	f.mu.Lock()
	f.state = s
	f.mu.Unlock()
}

// RowsPerRead returns the chunk size Compute uses.
func (f *Filter) RowsPerRead() int {
	numPix := f.cfg.numPix
	if n := f.cfg.rowsPerRead; n > 0 {
		return max(n-n%numPix, numPix)
	}
	budget := process.Budget(f.cfg.maxMemMB)
	return process.RowsPerRead(budget, int64(f.rowLen)*bytesPerSample, numPix, max(f.rows, numPix))
}

// Compute processes every remaining row and returns the results group.
// Chunks are processed in increasing row order and each is committed
// before the next is read. The context is checked between chunks.
// Failures wrap [ErrProcessing]; the results group then holds every row
// below its last_pixel attribute.
func (f *Filter) Compute(ctx context.Context) (*storage.Group, error) {
	if s := f.State(); s != Initializing {
		return nil, fmt.Errorf("%w: compute already ran (state %s)", ErrProcessing, s)
	}

	if f.out == nil {
		out, err := f.createResults()
		if err != nil {
			return nil, fmt.Errorf("%w: create results: %w", ErrProcessing, err)
		}
		f.mu.Lock()
		f.out = out
		f.mu.Unlock()
	}

	size := f.RowsPerRead()
	reader, err := process.NewReader(f.main, f.Cursor(), size, f.log)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProcessing, err)
	}

	log := f.log.WithField("group", f.out.group.Path())
	log.WithFields(logrus.Fields{
		"rows":          f.rows,
		"start":         reader.Pos(),
		"rows_per_read": size,
		"cores":         f.cores,
	}).Info("filtering started")

	first := true
	var perRow time.Duration
	for {
		f.setState(PullingChunk)
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: stopped at row %d: %w", ErrProcessing, f.Cursor(), err)
		}
		chunk, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrProcessing, err)
		}

		f.setState(Processing)
		began := time.Now()
		res, err := f.processChunk(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("%w: rows [%d,%d): %w", ErrProcessing, chunk.Start, chunk.End, err)
		}
		elapsed := time.Since(began)

		entry := log.WithFields(logrus.Fields{
			"start":   chunk.Start,
			"end":     chunk.End,
			"elapsed": elapsed,
			"per_row": elapsed / time.Duration(chunk.Len()),
		})
		if f.cfg.verbose {
			entry.Info("chunk processed")
		} else {
			entry.Debug("chunk processed")
		}
		if first {
			perRow = elapsed / time.Duration(chunk.Len())
			first = false
		} else {
			log.WithField("remaining", time.Duration(f.rows-chunk.End)*perRow).Info("time remaining")
		}

		f.setState(Committing)
		if err := f.commit(res); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrProcessing, err)
		}
	}

	f.setState(Draining)
	if f.cfg.verbose {
		log.WithField("last_pixel", f.Cursor()).Info("finished processing the dataset")
	} else {
		log.WithField("last_pixel", f.Cursor()).Debug("finished processing the dataset")
	}

	f.setState(Done)
	return f.out.group, nil
}
