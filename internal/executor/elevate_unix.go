//go:build !windows

package executor

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"wingman/pkg/command"
)

// isRoot returns true if the current process is running as root.
func isRoot() bool {
	return os.Geteuid() == 0
}

// canElevate returns true if sudo is available on the system.
func canElevate() bool {
	_, err := exec.LookPath("sudo")
	return err == nil
}

func defaultElevator(e *Executor) Elevator {
	return &SudoElevator{exec: e}
}

// SudoElevator re-runs commands through sudo.
type SudoElevator struct {
	exec *Executor
}

// Elevate runs cmd as "sudo <program> <args...>".
func (s *SudoElevator) Elevate(ctx context.Context, cmd command.Command) Result {
	if err := CheckPrivileges(cmd.Elevated); err != nil {
		return Result{ExitCode: -1, Err: fmt.Errorf("%w: %w", ErrTransport, err)}
	}
	args := append([]string{cmd.Program}, cmd.Args...)
	return s.exec.run(ctx, "sudo", args)
}
