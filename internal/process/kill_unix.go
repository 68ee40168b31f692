//go:build !windows

package process

import (
	"errors"
	"syscall"
)

// KillProcessGroup kills a browser process and all its children by sending
// SIGKILL to the process group (negative PID).
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// Best-effort; launcher.Kill() has already been tried by the caller.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}

// Alive reports whether a process with the given PID still exists.
// Signal 0 performs the existence check without delivering anything;
// EPERM means the process exists but belongs to someone else.
func Alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := syscall.Kill(pid, syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
