// Package history records install, update and uninstall outcomes with BoltDB.
package history

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"wingman/pkg/manager"
)

// Operation represents the type of package operation.
type Operation string

const (
	OpInstall    Operation = "install"
	OpUninstall  Operation = "uninstall"
	OpUpdate     Operation = "update"
	OpUpgradeAll Operation = "upgrade-all"
)

// Entry represents a single operation in the history.
type Entry struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Operation Operation      `json:"operation"`
	Source    manager.Source `json:"source,omitempty"` // Package manager used
	Packages  []string       `json:"packages"`         // Packages affected
	Version   string         `json:"version,omitempty"`
	Success   bool           `json:"success"`
	ExitCode  int            `json:"exit_code,omitempty"`
	Cause     manager.Cause  `json:"cause,omitempty"`
	Error     string         `json:"error,omitempty"`

	// Bulk runs only
	Successful int `json:"successful,omitempty"`
	Failed     int `json:"failed,omitempty"`
}

// NewEntry creates a new history entry.
func NewEntry(op Operation, source manager.Source, packages []string) *Entry {
	return &Entry{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Operation: op,
		Source:    source,
		Packages:  packages,
		Success:   false, // Will be updated after operation completes
	}
}

// FromResult creates an entry for a single package operation outcome.
func FromResult(op Operation, source manager.Source, res manager.Result) *Entry {
	e := NewEntry(op, source, []string{res.PackageID})
	if res.Success {
		e.MarkSuccess()
	}
	e.ExitCode = res.ExitCode
	e.Cause = res.Cause
	e.Error = res.Error
	return e
}

// FromBulk creates an entry summarizing a bulk update.
func FromBulk(bulk manager.BulkResult) *Entry {
	ids := make([]string, 0, len(bulk.Results))
	for _, r := range bulk.Results {
		ids = append(ids, r.PackageID)
	}
	e := NewEntry(OpUpgradeAll, "", ids)
	if bulk.Failed == 0 {
		e.MarkSuccess()
	}
	e.Successful = bulk.Successful
	e.Failed = bulk.Failed
	return e
}

// MarkSuccess marks the entry as successful.
func (e *Entry) MarkSuccess() {
	e.Success = true
}

// MarkFailed marks the entry as failed with an error message.
func (e *Entry) MarkFailed(err error) {
	e.Success = false
	if err != nil {
		e.Error = err.Error()
	}
}

// FormatTime returns a human-readable timestamp.
func (e *Entry) FormatTime() string {
	return e.Timestamp.Format("2006-01-02 15:04:05")
}

// Summary returns a brief summary of the operation.
func (e *Entry) Summary() string {
	status := "success"
	if !e.Success {
		status = "failed"
	}

	pkgCount := len(e.Packages)
	switch {
	case e.Operation == OpUpgradeAll:
		return e.FormatTime() + " " + string(e.Operation) + " " +
			strconv.Itoa(e.Successful) + "/" + strconv.Itoa(pkgCount) + " (" + status + ")"
	case pkgCount == 0:
		return e.FormatTime() + " " + string(e.Operation) + " (" + status + ")"
	}

	return e.FormatTime() + " " + string(e.Operation) + " " +
		e.Packages[0] + " [" + string(e.Source) + "] (" + status + ")"
}

