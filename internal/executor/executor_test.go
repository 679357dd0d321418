//go:build !windows

package executor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"wingman/pkg/command"
)

func cmd(program string, args ...string) command.Command {
	return command.Command{Program: program, Args: args}
}

func TestNew(t *testing.T) {
	exec := New(false, false)
	if exec == nil {
		t.Fatal("New() returned nil")
	}
	if exec.maxOutput != DefaultMaxOutput {
		t.Errorf("maxOutput = %d, want %d", exec.maxOutput, DefaultMaxOutput)
	}
}

func TestSetMaxOutputFloor(t *testing.T) {
	exec := New(false, false)
	exec.SetMaxOutput(1024)
	if exec.maxOutput != DefaultMaxOutput {
		t.Errorf("SetMaxOutput(1024) left %d, want floor %d", exec.maxOutput, DefaultMaxOutput)
	}
	exec.SetMaxOutput(2 * DefaultMaxOutput)
	if exec.maxOutput != 2*DefaultMaxOutput {
		t.Errorf("SetMaxOutput() = %d", exec.maxOutput)
	}
}

func TestExecuteOutput(t *testing.T) {
	exec := New(false, false)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res := exec.Execute(ctx, cmd("echo", "hello"))
	if res.Err != nil {
		t.Fatalf("Execute() error: %v", res.Err)
	}
	if !res.Success || res.ExitCode != 0 {
		t.Errorf("Execute() = %+v, want success", res)
	}
	if !strings.Contains(res.Stdout, "hello") {
		t.Errorf("Stdout = %q, want to contain 'hello'", res.Stdout)
	}
}

func TestExecuteNonZeroExit(t *testing.T) {
	exec := New(false, false)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res := exec.Execute(ctx, cmd("sh", "-c", "echo oops >&2; exit 3"))
	if res.Err != nil {
		t.Fatalf("non-zero exit must not be a transport error: %v", res.Err)
	}
	if res.Success {
		t.Error("Execute() should not report success")
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}
	if !strings.Contains(res.Stderr, "oops") {
		t.Errorf("Stderr = %q, want 'oops'", res.Stderr)
	}
}

func TestExecuteSpawnFailure(t *testing.T) {
	exec := New(false, false)
	res := exec.Execute(context.Background(), cmd("wingman-no-such-binary"))
	if !errors.Is(res.Err, ErrTransport) {
		t.Errorf("Err = %v, want ErrTransport", res.Err)
	}
	if res.Success {
		t.Error("spawn failure should not be success")
	}
}

func TestExecuteCancelled(t *testing.T) {
	exec := New(false, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := exec.Execute(ctx, cmd("sleep", "10"))
	if !errors.Is(res.Err, ErrTransport) {
		t.Errorf("Err = %v, want ErrTransport", res.Err)
	}
}

func TestExecuteDryRun(t *testing.T) {
	exec := New(true, false)
	ctx := context.Background()

	mutating := cmd("false")
	mutating.Mutating = true
	res := exec.Execute(ctx, mutating)
	if !res.Success {
		t.Errorf("dry-run of mutating command should succeed without running, got %+v", res)
	}

	// Read-only commands still run in dry-run mode.
	res = exec.Execute(ctx, cmd("echo", "listing"))
	if !strings.Contains(res.Stdout, "listing") {
		t.Errorf("read-only command should run in dry-run, Stdout = %q", res.Stdout)
	}
}

type fakeElevator struct {
	calls []command.Command
}

func (f *fakeElevator) Elevate(_ context.Context, c command.Command) Result {
	f.calls = append(f.calls, c)
	return Result{Success: true, Stdout: "elevated"}
}

func TestExecuteElevation(t *testing.T) {
	exec := New(false, false)
	el := &fakeElevator{}
	exec.SetElevator(el)
	exec.elevated = func() bool { return false }

	c := cmd("choco", "upgrade", "7zip", "-y")
	c.Elevated = true
	res := exec.Execute(context.Background(), c)
	if len(el.calls) != 1 {
		t.Fatalf("elevator called %d times, want 1", len(el.calls))
	}
	if !res.Elevated || res.Stdout != "elevated" {
		t.Errorf("Execute() = %+v, want elevated result", res)
	}

	// Already elevated: run directly.
	exec.elevated = func() bool { return true }
	res = exec.Execute(context.Background(), command.Command{Program: "true", Elevated: true})
	if len(el.calls) != 1 {
		t.Errorf("elevator should not be used when already elevated")
	}
	if !res.Success || res.Elevated {
		t.Errorf("Execute() = %+v", res)
	}
}

func TestCheckAvailable(t *testing.T) {
	exec := New(false, false)
	ctx := context.Background()

	if !exec.CheckAvailable(ctx, cmd("true")) {
		t.Error("CheckAvailable(true) = false")
	}
	if exec.CheckAvailable(ctx, cmd("false")) {
		t.Error("CheckAvailable(false) = true")
	}
	if exec.CheckAvailable(ctx, cmd("wingman-no-such-binary", "--version")) {
		t.Error("CheckAvailable(missing) = true")
	}
}

func TestExecuteTruncates(t *testing.T) {
	exec := New(false, false)
	exec.maxOutput = 8

	// "aaaaaaa" + "é" puts the cap in the middle of the two-byte rune.
	res := exec.Execute(context.Background(), cmd("printf", "aaaaaaaébbbb"))
	if !res.Truncated {
		t.Fatal("Truncated = false, want true")
	}
	if res.Stdout != "aaaaaaa" {
		t.Errorf("Stdout = %q, want partial rune trimmed", res.Stdout)
	}
}

func TestTrimPartialRune(t *testing.T) {
	tests := []struct {
		in   []byte
		want string
	}{
		{[]byte("abc"), "abc"},
		{[]byte("ab\xc3"), "ab"},
		{[]byte("ab\xe2\x82"), "ab"},
		{[]byte("ab\xe2\x82\xac"), "ab€"},
		{[]byte(""), ""},
	}

	for _, tt := range tests {
		if got := string(trimPartialRune(tt.in)); got != tt.want {
			t.Errorf("trimPartialRune(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDecode(t *testing.T) {
	if got := decode([]byte("caf\xc3\xa9")); got != "café" {
		t.Errorf("decode(utf8) = %q", got)
	}
	// 0xE9 is é in Windows-1252.
	if got := decode([]byte("caf\xe9")); got != "café" {
		t.Errorf("decode(cp1252) = %q", got)
	}
}

func TestResultOutput(t *testing.T) {
	tests := []struct {
		res  Result
		want string
	}{
		{Result{Stdout: "out"}, "out"},
		{Result{Stderr: "err"}, "err"},
		{Result{Stdout: "out", Stderr: "err"}, "out\nerr"},
	}
	for _, tt := range tests {
		if got := tt.res.Output(); got != tt.want {
			t.Errorf("Output() = %q, want %q", got, tt.want)
		}
	}
}
