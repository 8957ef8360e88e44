package sigfilter

import "fmt"

// commit writes one chunk's outputs, records last_pixel, flushes, and only
// then advances the cursor. On failure the cursor and the recorded
// last_pixel keep their previous value.
func (f *Filter) commit(res chunkResult) error {
	eff := res.start / f.cfg.numPix

	if res.condensed != nil && f.out.condensed != nil {
		if err := f.out.condensed.WriteComplex(eff, res.condensed); err != nil {
			return err
		}
	}
	if res.floors != nil && f.out.floors != nil {
		if err := f.out.floors.WriteReal(eff, res.floors); err != nil {
			return err
		}
	}
	if res.filtered != nil && f.out.filtered != nil {
		if err := f.out.filtered.WriteReal(res.start, res.filtered); err != nil {
			return err
		}
	}

	prev := f.Cursor()
	f.out.group.Attrs().Set(lastPixelAttr, res.end)
	if err := f.sess.Flush(); err != nil {
		f.out.group.Attrs().Set(lastPixelAttr, prev)
		return fmt.Errorf("flush rows [%d,%d): %w", res.start, res.end, err)
	}

	f.mu.Lock()
	f.cursor = res.end
	f.mu.Unlock()
	return nil
}
