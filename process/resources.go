package process

import "runtime"

const (
	mib = 1 << 20

	// DefaultMaxMemoryMB is the memory ceiling used when none is configured.
	DefaultMaxMemoryMB = 1024

	// availableShare is the fraction of free memory a run may claim.
	availableShare = 0.8
)

// Cores returns the number of workers to use. A positive request is honoured
// up to the number of CPUs; otherwise all CPUs but one are used. The result
// is at least 1.
func Cores(requested int) int {
	n := runtime.NumCPU()
	if requested > 0 {
		return min(requested, n)
	}
	return max(n-1, 1)
}

// Budget returns the number of bytes a run may hold in memory: maxMemMB
// megabytes, capped at 80% of currently free memory when that is known.
// A non-positive maxMemMB selects [DefaultMaxMemoryMB].
func Budget(maxMemMB int) int64 {
	if maxMemMB <= 0 {
		maxMemMB = DefaultMaxMemoryMB
	}
	budget := int64(maxMemMB) * mib
	if free, ok := AvailableMemory(); ok {
		budget = min(budget, int64(float64(free)*availableShare))
	}
	return budget
}

// RowsPerRead returns how many rows of rowBytes bytes fit in budget, rounded
// down to a multiple of align. The result is at least align and at most
// total, unless total is smaller than align.
func RowsPerRead(budget, rowBytes int64, align, total int) int {
	align = max(align, 1)
	if total <= 0 {
		return 0
	}

	rows := total
	if rowBytes > 0 {
		rows = int(min(budget/rowBytes, int64(total)))
	}
	rows -= rows % align
	if rows < align {
		rows = align
	}
	return min(rows, total)
}
