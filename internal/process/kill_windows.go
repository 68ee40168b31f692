//go:build windows

package process

import (
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// KillProcessGroup kills a browser process and all its children using taskkill.
// /F = force kill, /T = terminate child processes (tree kill).
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// Best-effort; launcher.Kill() has already been tried by the caller.
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
}

// Alive reports whether a process with the given PID still exists.
func Alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	_ = p.Release()

	// FindProcess can succeed for a PID whose process has exited but whose
	// handle is still open, so confirm with tasklist.
	out, err := exec.Command("tasklist", "/FI", "PID eq "+strconv.Itoa(pid), "/NH").Output()
	if err != nil {
		return true
	}
	return strings.Contains(string(out), strconv.Itoa(pid))
}
