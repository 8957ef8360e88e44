// Package process schedules chunked, parallel work over row-oriented
// datasets.
//
// It owns the two resource decisions the filtering engine leaves to its
// caller: how many rows to read at once, derived from a memory budget, and
// how many workers to fan per-row work out to.
//
// # Chunks
//
// [Reader] walks a dataset in increasing row order and returns [Chunk]
// values covering [Start, End). The last chunk may be short. [Reader.Next]
// returns io.EOF once every row has been returned.
//
// # Parallel map
//
// [Map] runs a function over n indices on a bounded worker pool and returns
// the results in index order. The first error cancels the remaining work.
package process
