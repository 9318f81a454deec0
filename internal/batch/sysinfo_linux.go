//go:build linux

package batch

import "syscall"

// totalSystemRAM returns the total physical RAM in bytes on Linux. Grounded
// on internal/tile/sysinfo_linux.go in the teacher repo.
func totalSystemRAM() (uint64, error) {
	var info syscall.Sysinfo_t
	if err := syscall.Sysinfo(&info); err != nil {
		return 0, err
	}
	return info.Totalram * uint64(info.Unit), nil
}
