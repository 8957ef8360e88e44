//go:build linux

package process

import "golang.org/x/sys/unix"

// AvailableMemory reports free physical memory in bytes.
func AvailableMemory() (int64, bool) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, false
	}
	return int64(uint64(info.Freeram) * uint64(info.Unit)), true
}
