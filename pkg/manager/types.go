// Package manager provides the unified package model and the registry that
// fans requests out to the winget and Chocolatey providers.
package manager

import "strings"

// Source identifies where a package record came from.
type Source string

const (
	// SourceWinget is the Windows Package Manager community repository.
	SourceWinget Source = "winget"
	// SourceChocolatey is the Chocolatey community repository.
	SourceChocolatey Source = "chocolatey"
	// SourceMSStore is the Microsoft Store, surfaced through winget.
	SourceMSStore Source = "msstore"
)

// ParseSource converts a user-supplied name into a Source.
func ParseSource(s string) (Source, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "winget":
		return SourceWinget, true
	case "chocolatey", "choco":
		return SourceChocolatey, true
	case "msstore", "store":
		return SourceMSStore, true
	}
	return "", false
}

// Package is a single software package from any source.
type Package struct {
	ID               string   `json:"id" yaml:"id"`
	Name             string   `json:"name" yaml:"name"`
	CurrentVersion   string   `json:"currentVersion" yaml:"currentVersion"`
	AvailableVersion string   `json:"availableVersion" yaml:"availableVersion"`
	Source           Source   `json:"source" yaml:"source"`
	HasUpdate        bool     `json:"hasUpdate" yaml:"hasUpdate"`
	Category         Category `json:"category,omitempty" yaml:"category,omitempty"`
	Publisher        string   `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	Description      string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// Key returns the (source, id) identity of the package.
func (p Package) Key() string {
	return string(p.Source) + ":" + p.ID
}

// DisplayName returns the name, falling back to the id.
func (p Package) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

// PackageInfo contains detailed information about a package.
type PackageInfo struct {
	Package  `yaml:",inline"`
	Homepage string   `json:"homepage,omitempty" yaml:"homepage,omitempty"`
	License  string   `json:"license,omitempty" yaml:"license,omitempty"`
	Tags     []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// ActionOpts tunes install and update requests.
type ActionOpts struct {
	// Interactive asks the installer to show its own UI.
	Interactive bool
	// Version pins a specific version on install.
	Version string
}

// Result is the outcome of one install, update or uninstall. Tool failures
// are values, not errors.
type Result struct {
	Success   bool   `json:"success" yaml:"success"`
	PackageID string `json:"packageId" yaml:"packageId"`
	Output    string `json:"output,omitempty" yaml:"output,omitempty"`
	ExitCode  int    `json:"code" yaml:"code"`
	Cause     Cause  `json:"cause,omitempty" yaml:"cause,omitempty"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
	// Err classifies the failure for errors.Is; it wraps ErrExecution or
	// ErrToolFailure.
	Err error `json:"-" yaml:"-"`
}

// BulkResult summarizes a sequential update of several packages.
type BulkResult struct {
	Results    []Result `json:"results" yaml:"results"`
	Total      int      `json:"total" yaml:"total"`
	Successful int      `json:"successful" yaml:"successful"`
	Failed     int      `json:"failed" yaml:"failed"`
}

// Add records r and updates the counters.
func (b *BulkResult) Add(r Result) {
	b.Results = append(b.Results, r)
	b.Total++
	if r.Success {
		b.Successful++
	} else {
		b.Failed++
	}
}

// PackageList is a merged listing across providers.
type PackageList struct {
	Packages     []Package `json:"packages" yaml:"packages"`
	TotalUpdates int       `json:"totalUpdates" yaml:"totalUpdates"`
	// Errors holds per-provider failures; the other providers' packages are
	// still present.
	Errors map[Source]error `json:"-" yaml:"-"`
}

// countUpdates recomputes TotalUpdates from Packages.
func (l *PackageList) countUpdates() {
	l.TotalUpdates = 0
	for _, p := range l.Packages {
		if p.HasUpdate {
			l.TotalUpdates++
		}
	}
}
