//go:build !unix

package hook

import "os/exec"

func setProcessGroup(cmd *exec.Cmd) {}
