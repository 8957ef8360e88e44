package sigfilter

import "errors"

var (
	// ErrConfiguration reports invalid constructor arguments. Nothing has
	// been written when it is returned.
	ErrConfiguration = errors.New("sigfilter: invalid configuration")

	// ErrProcessing reports a failure while transforming or committing a
	// chunk. The results group is consistent up to its last_pixel.
	ErrProcessing = errors.New("sigfilter: processing failed")
)
