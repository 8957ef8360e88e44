// Package storage is a hierarchical store of typed, row-major datasets.
//
// A store is a tree of groups holding datasets. Groups and datasets carry
// attributes, and datasets can reference other datasets by name, which is
// how processing results point at the auxiliary index and value datasets
// that describe their axes.
//
// # Sessions
//
// [Session] is the contract consumers program against. [Store] implements it
// with two backends:
//
//   - [NewMemory]: everything in memory, for tests and short-lived runs.
//   - [Open]: a directory holding one payload file per dataset and an
//     index.json describing the tree. Payloads are written in place, so a
//     dataset larger than memory can be filled row range by row range.
//
// # Durability
//
// For directory stores, [Store.Flush] first syncs every payload file and only
// then atomically replaces the index. Attributes (including checkpoints such
// as last_pixel) live in the index, so a reader never sees an attribute that
// describes payload bytes which were not yet synced.
//
// # Main datasets
//
// A "main" dataset is a 2-D dataset whose references Position_Indices,
// Position_Values, Spectroscopic_Indices and Spectroscopic_Values name the
// datasets describing its rows and columns. See [LinkAsMain] and [Aux].
package storage
