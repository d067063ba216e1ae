//go:build !windows

package process

import "syscall"

// KillTree sends SIGKILL to the process group led by pid, taking Chrome's
// renderer and GPU children down with it. Non-positive pids are ignored:
// kill(0) and kill(-1) would target the caller's own group or every process.
func KillTree(pid int) {
	if pid <= 0 {
		return
	}
	// Best effort: the launcher's own Kill is the fallback.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
