// Package native implements the winget and Chocolatey providers.
package native

import (
	"context"
	"fmt"
	"sync/atomic"

	"wingman/internal/executor"
	"wingman/pkg/command"
	"wingman/pkg/manager"
)

// Gateway runs built commands. *executor.Executor satisfies it.
type Gateway interface {
	Execute(ctx context.Context, cmd command.Command) executor.Result
	CheckAvailable(ctx context.Context, probe command.Command) bool
}

// BaseProvider provides the plumbing shared by the providers: building
// commands from the template table, running them through the gateway and
// translating failures.
type BaseProvider struct {
	name        manager.Source
	displayName string
	probe       command.Key
	builder     *command.Builder
	gw          Gateway
	diagnostics []Diagnostic
	available   atomic.Bool
}

// NewBaseProvider creates a new BaseProvider with the given parameters.
func NewBaseProvider(name manager.Source, displayName string, probe command.Key, gw Gateway, diagnostics []Diagnostic) *BaseProvider {
	return &BaseProvider{
		name:        name,
		displayName: displayName,
		probe:       probe,
		builder:     command.NewBuilder(),
		gw:          gw,
		diagnostics: diagnostics,
	}
}

// Name returns the source this provider serves.
func (b *BaseProvider) Name() manager.Source {
	return b.name
}

// DisplayName returns the human-readable name.
func (b *BaseProvider) DisplayName() string {
	return b.displayName
}

// IsInstalled reports whether the tool answers its version probe. A positive
// answer is remembered for the life of the provider.
func (b *BaseProvider) IsInstalled(ctx context.Context) bool {
	if b.available.Load() {
		return true
	}
	probe, err := b.builder.Build(b.probe, nil)
	if err != nil {
		return false
	}
	ok := b.gw.CheckAvailable(ctx, probe)
	if ok {
		b.available.Store(true)
	}
	return ok
}

// query runs a read-only template and returns its raw result. The error is
// set for validation, a missing tool, or a transport failure.
func (b *BaseProvider) query(ctx context.Context, key command.Key, params command.Params) (executor.Result, error) {
	cmd, err := b.builder.Build(key, params)
	if err != nil {
		return executor.Result{}, err
	}
	if !b.IsInstalled(ctx) {
		return executor.Result{}, fmt.Errorf("%w: %s", manager.ErrToolUnavailable, b.displayName)
	}
	res := b.gw.Execute(ctx, cmd)
	if res.Err != nil {
		return res, fmt.Errorf("%w: %w", manager.ErrExecution, res.Err)
	}
	return res, nil
}

// list runs a listing template and parses stdout. A non-zero exit that
// produced no records is an error unless the tool only said there was
// nothing to report. Truncated output returns the parsed records together
// with ErrIncomplete.
func (b *BaseProvider) list(ctx context.Context, key command.Key, params command.Params, parse func(string) []manager.Package) ([]manager.Package, error) {
	res, err := b.query(ctx, key, params)
	if err != nil {
		return nil, err
	}
	pkgs := parse(res.Stdout)
	if res.Truncated {
		return pkgs, fmt.Errorf("%w: %s", manager.ErrIncomplete, b.displayName)
	}
	if res.Success || len(pkgs) > 0 {
		return pkgs, nil
	}
	d := diagnose(b.diagnostics, b.builderProgram(key), res)
	if d.Cause == manager.CauseNotFound || d.Cause == manager.CauseNoUpgrade {
		return nil, nil
	}
	return nil, fmt.Errorf("%w: %s", manager.ErrToolFailure, d.Message)
}

// action runs a mutating template for id. The error is set only when the
// request fails validation; everything else is carried in the Result.
func (b *BaseProvider) action(ctx context.Context, key command.Key, params command.Params, id string) (manager.Result, error) {
	cmd, err := b.builder.Build(key, params)
	if err != nil {
		return manager.Result{PackageID: id}, err
	}
	if !b.IsInstalled(ctx) {
		return manager.Failed(id, manager.ErrToolUnavailable, b.displayName+" is not installed"), nil
	}
	return b.toResult(id, cmd.Program, b.gw.Execute(ctx, cmd)), nil
}

func (b *BaseProvider) toResult(id, program string, res executor.Result) manager.Result {
	out := manager.Result{
		Success:   res.Success && res.Err == nil,
		PackageID: id,
		Output:    res.Output(),
		ExitCode:  res.ExitCode,
	}
	switch {
	case res.Err != nil:
		out.Cause = manager.CauseUnknown
		out.Error = res.Err.Error()
		out.Err = fmt.Errorf("%w: %w", manager.ErrExecution, res.Err)
	case !res.Success:
		d := diagnose(b.diagnostics, program, res)
		out.Cause = d.Cause
		out.Error = d.Message
		out.Err = fmt.Errorf("%w: %s", manager.ErrToolFailure, d.Message)
	}
	return out
}

func (b *BaseProvider) builderProgram(key command.Key) string {
	if t, ok := b.builder.Template(key); ok {
		return t.Program
	}
	return string(b.name)
}
