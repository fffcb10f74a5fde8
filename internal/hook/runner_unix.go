//go:build unix

package hook

import (
	"os/exec"
	"syscall"
)

// setProcessGroup makes the hook a process group leader and kills the
// whole group on cancellation.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true, // Create new process group
		Pgid:    0,    // Child becomes process group leader
	}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
