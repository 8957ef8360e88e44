//go:build !linux

package process

// AvailableMemory reports free physical memory in bytes. It is unknown on
// this platform.
func AvailableMemory() (int64, bool) { return 0, false }
