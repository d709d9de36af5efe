//go:build !windows

package execution

import "os/exec"

func hideWindow(cmd *exec.Cmd) {}
