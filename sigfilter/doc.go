// Package sigfilter cleans large row-per-pixel signal datasets in the
// frequency domain, one chunk of rows at a time.
//
// For every row it computes the centered spectrum, optionally estimates a
// noise floor, multiplies in a composite frequency filter and suppresses
// sub-floor bins. It then writes a reconstructed time-domain row, a
// condensed spectrum holding only the "hot" frequency bins, or both.
//
// # Results
//
// [Filter.Compute] allocates a results group next to the input dataset,
// named "<input>-FFT_Filtering_NNN", holding some of:
//
//   - Composite_Filter: float32[L], the combined filter gains.
//   - Noise_Floors: float32[effective rows].
//   - Filtered_Data: float32[rows, L], laid out like the input.
//   - Condensed_Data: complex128[effective rows, H], chunked one row at a
//     time, with its own position and spectroscopic axes.
//
// # Checkpoints
//
// After each chunk is written and flushed, the group attribute last_pixel
// holds the exclusive end of the committed rows. [WithResume] restarts an
// interrupted run from that row.
package sigfilter
