package manager

import (
	"errors"
	"fmt"
)

var (
	// ErrProviderNotFound is returned when no registered, installed provider
	// serves the requested source.
	ErrProviderNotFound = errors.New("provider not found")
	// ErrToolUnavailable is returned when the underlying tool is not installed.
	ErrToolUnavailable = errors.New("package tool is not available")
	// ErrExecution marks failures to run the tool at all.
	ErrExecution = errors.New("execution failed")
	// ErrToolFailure marks a tool that ran and reported failure.
	ErrToolFailure = errors.New("tool reported failure")
	// ErrIncomplete marks a listing cut short because the tool's output
	// exceeded the capture limit. The packages parsed so far are kept.
	ErrIncomplete = errors.New("output truncated; listing may be incomplete")
	// ErrNotSupported is returned when a provider lacks an optional capability.
	ErrNotSupported = errors.New("operation not supported by provider")
)

// Cause is a normalized explanation of a tool failure.
type Cause string

const (
	CauseNone              Cause = ""
	CauseElevationRequired Cause = "elevation-required"
	CauseRetryLater        Cause = "retry-later"
	CauseInstallerCrashed  Cause = "installer-crashed"
	CauseNotFound          Cause = "not-found"
	CauseNoUpgrade         Cause = "no-upgrade"
	CauseCancelled         Cause = "cancelled"
	CauseUnknown           Cause = "unknown"
)

// Failed builds a failed Result for id classified by kind.
func Failed(id string, kind error, msg string) Result {
	return Result{
		PackageID: id,
		ExitCode:  -1,
		Error:     msg,
		Err:       fmt.Errorf("%w: %s", kind, msg),
	}
}

// ProviderError attributes an error to a provider.
type ProviderError struct {
	Source Source
	Err    error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
