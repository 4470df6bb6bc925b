//go:build !windows

package process

import (
	"errors"
	"syscall"
)

// KillProcessGroup kills a browser process and all its children by sending
// SIGKILL to the process group (negative PID), then to pid itself in case it
// is not a group leader (leakless guard owns the group).
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	_ = syscall.Kill(-pid, syscall.SIGKILL)
	_ = syscall.Kill(pid, syscall.SIGKILL)
}

// Alive reports whether pid still refers to a running, non-zombie process.
// Signal 0 performs the existence check without delivering anything.
func Alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := syscall.Kill(pid, 0)
	if err == nil {
		return !isZombie(pid)
	}
	// EPERM means the process exists but belongs to someone else.
	return errors.Is(err, syscall.EPERM)
}
