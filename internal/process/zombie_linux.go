//go:build linux

package process

import (
	"bytes"
	"os"
	"strconv"
)

// isZombie reads /proc/<pid>/stat; a "Z" state means the process exited and
// only waits to be reaped by its parent.
func isZombie(pid int) bool {
	data, err := os.ReadFile("/proc/" + strconv.Itoa(pid) + "/stat") // #nosec G304 -- fixed procfs path
	if err != nil {
		return false
	}
	// Format: pid (comm) state ...; comm may contain spaces, so split on the last ')'.
	i := bytes.LastIndexByte(data, ')')
	if i < 0 || i+2 >= len(data) {
		return false
	}
	return data[i+2] == 'Z'
}
