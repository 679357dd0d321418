//go:build windows

package executor

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"golang.org/x/sys/windows"

	"wingman/pkg/command"
)

// isRoot returns true if the current process is running with administrator privileges on Windows.
func isRoot() bool {
	var sid *windows.SID

	err := windows.AllocateAndInitializeSid(
		&windows.SECURITY_NT_AUTHORITY,
		2,
		windows.SECURITY_BUILTIN_DOMAIN_RID,
		windows.DOMAIN_ALIAS_RID_ADMINS,
		0, 0, 0, 0, 0, 0,
		&sid)
	if err != nil {
		return false
	}
	defer windows.FreeSid(sid)

	token := windows.Token(0)
	member, err := token.IsMember(sid)
	if err != nil {
		return false
	}
	return member
}

// canElevate returns true if PowerShell is available to raise a UAC prompt.
func canElevate() bool {
	_, err := exec.LookPath("powershell")
	return err == nil
}

func defaultElevator(e *Executor) Elevator {
	return &RunAsElevator{exec: e}
}

// RunAsElevator starts the command through PowerShell's Start-Process
// -Verb RunAs, which raises a UAC prompt. The elevated process runs in its
// own console, so only its exit code is observed.
type RunAsElevator struct {
	exec *Executor
}

// Elevate runs cmd elevated and waits for it to finish.
func (r *RunAsElevator) Elevate(ctx context.Context, cmd command.Command) Result {
	if err := CheckPrivileges(cmd.Elevated); err != nil {
		return Result{ExitCode: -1, Err: fmt.Errorf("%w: %w", ErrTransport, err)}
	}
	return r.exec.run(ctx, "powershell", []string{
		"-NoProfile", "-NonInteractive", "-Command", startProcessScript(cmd),
	})
}

func startProcessScript(cmd command.Command) string {
	quoted := make([]string, len(cmd.Args))
	for i, a := range cmd.Args {
		quoted[i] = psQuote(a)
	}
	script := fmt.Sprintf("$p = Start-Process -FilePath %s -Verb RunAs -Wait -PassThru -WindowStyle Hidden", psQuote(cmd.Program))
	if len(quoted) > 0 {
		script = fmt.Sprintf("$p = Start-Process -FilePath %s -ArgumentList %s -Verb RunAs -Wait -PassThru -WindowStyle Hidden",
			psQuote(cmd.Program), strings.Join(quoted, ","))
	}
	return script + "; exit $p.ExitCode"
}

// psQuote wraps s in single quotes, doubling embedded quotes.
func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
