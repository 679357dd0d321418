// Package executor runs external package tools and captures their output.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"

	"wingman/pkg/command"
)

// DefaultMaxOutput is the default capture limit per stream.
const DefaultMaxOutput = 10 * 1024 * 1024

// ErrTransport marks failures to start or supervise a process, as opposed to
// a process that ran and exited non-zero.
var ErrTransport = errors.New("failed to run command")

// Result is the outcome of a single process execution. A non-zero exit code
// is reported here and never as an error.
type Result struct {
	Success  bool
	ExitCode int
	Stdout   string
	Stderr   string
	// Truncated is set when either stream exceeded the capture limit.
	Truncated bool
	// Elevated is set when the command was run through the Elevator.
	Elevated bool
	// Err is set only for transport failures and wraps ErrTransport.
	Err error
}

// Output returns stdout and stderr joined for diagnostics matching.
func (r Result) Output() string {
	switch {
	case r.Stderr == "":
		return r.Stdout
	case r.Stdout == "":
		return r.Stderr
	default:
		return r.Stdout + "\n" + r.Stderr
	}
}

// Elevator runs a command with administrator rights.
type Elevator interface {
	Elevate(ctx context.Context, cmd command.Command) Result
}

// Executor runs built commands with bounded output capture and optional
// elevation.
type Executor struct {
	dryRun    bool
	verbose   bool
	maxOutput int
	elevator  Elevator
	elevated  func() bool
}

// New creates a new Executor with the given options.
func New(dryRun, verbose bool) *Executor {
	e := &Executor{
		dryRun:    dryRun,
		verbose:   verbose,
		maxOutput: DefaultMaxOutput,
		elevated:  isRoot,
	}
	e.elevator = defaultElevator(e)
	return e
}

// SetDryRun enables or disables dry-run mode.
func (e *Executor) SetDryRun(dryRun bool) {
	e.dryRun = dryRun
}

// SetVerbose enables or disables verbose mode.
func (e *Executor) SetVerbose(verbose bool) {
	e.verbose = verbose
}

// SetMaxOutput sets the per-stream capture limit in bytes. Values below
// DefaultMaxOutput are raised to it.
func (e *Executor) SetMaxOutput(n int) {
	if n < DefaultMaxOutput {
		n = DefaultMaxOutput
	}
	e.maxOutput = n
}

// SetElevator replaces the elevation strategy. A nil elevator disables
// elevation; elevated commands then run with the current rights.
func (e *Executor) SetElevator(el Elevator) {
	e.elevator = el
}

// IsElevated reports whether the current process has administrator rights.
func (e *Executor) IsElevated() bool {
	return e.elevated()
}

// Execute runs cmd and reports its outcome. It never returns an error for a
// non-zero exit; transport failures are carried in Result.Err.
func (e *Executor) Execute(ctx context.Context, cmd command.Command) Result {
	if e.dryRun && cmd.Mutating {
		e.printDryRun(cmd)
		return Result{Success: true}
	}

	if cmd.Elevated && e.elevator != nil && !e.IsElevated() {
		if e.verbose {
			fmt.Printf("Executing (elevated): %s\n", cmd)
		}
		res := e.elevator.Elevate(ctx, cmd)
		res.Elevated = true
		return res
	}

	if e.verbose {
		fmt.Printf("Executing: %s\n", cmd)
	}
	return e.run(ctx, cmd.Program, cmd.Args)
}

// CheckAvailable reports whether the probe command runs to a zero exit.
// Spawn failures and non-zero exits both count as unavailable.
func (e *Executor) CheckAvailable(ctx context.Context, probe command.Command) bool {
	if _, err := exec.LookPath(probe.Program); err != nil {
		return false
	}
	res := e.run(ctx, probe.Program, probe.Args)
	return res.Err == nil && res.Success
}

func (e *Executor) run(ctx context.Context, program string, args []string) Result {
	stdout := &cappedBuffer{max: e.maxOutput}
	stderr := &cappedBuffer{max: e.maxOutput}

	c := exec.CommandContext(ctx, program, args...)
	c.Stdout = stdout
	c.Stderr = stderr

	err := c.Run()

	res := Result{
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		Truncated: stdout.truncated || stderr.truncated,
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		res.Success = true
	case ctx.Err() != nil:
		res.ExitCode = -1
		res.Err = fmt.Errorf("%w: %s: %w", ErrTransport, program, ctx.Err())
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	default:
		res.ExitCode = -1
		res.Err = fmt.Errorf("%w: %s: %w", ErrTransport, program, err)
	}
	return res
}

func (e *Executor) printDryRun(cmd command.Command) {
	if cmd.Elevated && !e.IsElevated() {
		fmt.Printf("[dry-run] Would execute (elevated): %s\n", cmd)
		return
	}
	fmt.Printf("[dry-run] Would execute: %s\n", cmd)
}

// cappedBuffer keeps at most max bytes and silently drains the rest so the
// child never blocks on a full pipe.
type cappedBuffer struct {
	buf       bytes.Buffer
	max       int
	truncated bool
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	room := b.max - b.buf.Len()
	if room >= len(p) {
		return b.buf.Write(p)
	}
	if room > 0 {
		b.buf.Write(p[:room])
	}
	b.truncated = true
	return len(p), nil
}

func (b *cappedBuffer) String() string {
	data := b.buf.Bytes()
	if b.truncated {
		data = trimPartialRune(data)
	}
	return decode(data)
}
